package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/invoicemaker/backend/internal/handler"
	"github.com/invoicemaker/backend/internal/metrics"
	"github.com/invoicemaker/backend/internal/middleware"
)

func SetupRouter(
	authHandler *handler.AuthHandler,
	invoiceHandler *handler.InvoiceHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies(nil)
	r.Use(metrics.Middleware())

	// Public routes
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth routes
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authMiddleware.RequireAuth(), authHandler.Logout)
		authGroup.GET("/get-otp", authHandler.GetOtp)
		authGroup.POST("/validate-otp", authHandler.ValidateOtp)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
	}

	// Invoice routes (Protected)
	invoiceGroup := r.Group("/api/invoice")
	invoiceGroup.Use(authMiddleware.RequireAuth())
	{
		invoiceGroup.POST("/create", invoiceHandler.Create)
		invoiceGroup.GET("/list", invoiceHandler.List)
		invoiceGroup.GET("/list/recent", invoiceHandler.ListRecent)
		invoiceGroup.GET("/view/:id", invoiceHandler.View)
		invoiceGroup.PATCH("/:id/settle", invoiceHandler.Settle)
		invoiceGroup.DELETE("/:id/delete", invoiceHandler.Delete)
		invoiceGroup.GET("/deleted_items", invoiceHandler.ListDeleted)
		invoiceGroup.POST("/restore/:id", invoiceHandler.Restore)
		invoiceGroup.DELETE("/:id/purge", invoiceHandler.Purge)
	}

	return r
}
