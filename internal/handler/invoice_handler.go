package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invoicemaker/backend/internal/database/models"
	"github.com/invoicemaker/backend/internal/database/repository"
	"github.com/invoicemaker/backend/internal/database/service"
	"github.com/invoicemaker/backend/internal/middleware"
)

// Accepted bill/due date formats
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// InvoiceHandler handles HTTP requests for the invoice lifecycle
type InvoiceHandler struct {
	service service.InvoiceService
	logger  *slog.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(service service.InvoiceService, logger *slog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		logger:  logger,
	}
}

// Request DTOs. The wire format keeps the camelCase keys the original
// clients send.
type InvoiceItemRequest struct {
	Description string `json:"description" binding:"required"`
	Quantity    string `json:"quantity" binding:"required,numeric"`
	Rate        string `json:"rate" binding:"required,numeric"`
	Tax         string `json:"tax" binding:"omitempty,numeric"`
}

type CreateInvoiceRequest struct {
	InvoiceNumber   string               `json:"invoiceNumber" binding:"required"`
	BillerName      string               `json:"billerName" binding:"required"`
	BillerAddress   string               `json:"billerAddress" binding:"required"`
	BillerEmail     string               `json:"billerEmail" binding:"required,email"`
	CustomerName    string               `json:"customerName" binding:"required"`
	CustomerAddress string               `json:"customerAddress"`
	CustomerEmail   string               `json:"customerEmail" binding:"omitempty,email"`
	InvoiceItems    []InvoiceItemRequest `json:"invoiceItems" binding:"required,dive"`
	BillDate        string               `json:"billDate" binding:"required"`
	DueDate         string               `json:"dueDate" binding:"required"`
	Tax             *decimal.Decimal     `json:"tax"`
	Shipping        *decimal.Decimal     `json:"shipping"`
	Discount        *decimal.Decimal     `json:"discount" binding:"required"`
	AmountPaid      *decimal.Decimal     `json:"amountPaid"`
	DueBalance      *decimal.Decimal     `json:"dueBalance"`
	Currency        string               `json:"currency" binding:"required"`
	Notes           string               `json:"notes"`
	Status          string               `json:"status" binding:"required,oneof=pending settled"`
}

type SettleRequest struct {
	Status string `json:"status" binding:"required,oneof=pending settled"`
}

// Create handles invoice creation
func (h *InvoiceHandler) Create(c *gin.Context) {
	callerID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	fields := map[string]string{}
	billDate, ok := parseDate(req.BillDate)
	if !ok {
		fields["billDate"] = "Must be a valid date"
	}
	dueDate, ok := parseDate(req.DueDate)
	if !ok {
		fields["dueDate"] = "Must be a valid date"
	}
	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "fields": fields})
		return
	}

	items := make(models.InvoiceItems, 0, len(req.InvoiceItems))
	for _, item := range req.InvoiceItems {
		items = append(items, models.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Tax:         item.Tax,
		})
	}

	invoice := &models.Invoice{
		InvoiceNumber:   req.InvoiceNumber,
		BillerName:      req.BillerName,
		BillerAddress:   req.BillerAddress,
		BillerEmail:     req.BillerEmail,
		CustomerName:    req.CustomerName,
		CustomerAddress: req.CustomerAddress,
		CustomerEmail:   req.CustomerEmail,
		InvoiceItems:    items,
		BillDate:        billDate,
		DueDate:         dueDate,
		Shipping:        req.Shipping,
		AmountPaid:      req.AmountPaid,
		DueBalance:      req.DueBalance,
		Currency:        req.Currency,
		Notes:           req.Notes,
		Status:          models.InvoiceStatus(req.Status),
	}
	if req.Tax != nil {
		invoice.Tax = *req.Tax
	}
	if req.Discount != nil {
		invoice.Discount = *req.Discount
	}

	created, err := h.service.Create(callerID, invoice)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Invoice created successfully",
		"data":    created,
	})
}

// List returns all active invoices owned by the caller
func (h *InvoiceHandler) List(c *gin.Context) {
	callerID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	summaries, err := h.service.List(callerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": summaries})
}

// ListRecent returns the most recently created active invoices
func (h *InvoiceHandler) ListRecent(c *gin.Context) {
	callerID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	summaries, err := h.service.ListRecent(callerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": summaries})
}

// View returns the full invoice record
func (h *InvoiceHandler) View(c *gin.Context) {
	callerID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	invoiceID, ok := parseInvoiceID(c)
	if !ok {
		return
	}

	invoice, err := h.service.View(callerID, invoiceID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": invoice})
}

// Settle changes the invoice status
func (h *InvoiceHandler) Settle(c *gin.Context) {
	callerID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	invoiceID, ok := parseInvoiceID(c)
	if !ok {
		return
	}

	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	invoice, err := h.service.Settle(callerID, invoiceID, models.InvoiceStatus(req.Status))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": invoice})
}

// Delete soft-deletes an invoice into the deleted partition
func (h *InvoiceHandler) Delete(c *gin.Context) {
	callerID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	invoiceID, ok := parseInvoiceID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(callerID, invoiceID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Invoice deleted successfully"})
}

// ListDeleted returns the caller's soft-deleted invoices
func (h *InvoiceHandler) ListDeleted(c *gin.Context) {
	callerID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	summaries, err := h.service.ListDeleted(callerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": summaries})
}

// Restore moves a soft-deleted invoice back to the active partition
func (h *InvoiceHandler) Restore(c *gin.Context) {
	callerID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	invoiceID, ok := parseInvoiceID(c)
	if !ok {
		return
	}

	if err := h.service.Restore(callerID, invoiceID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Invoice restored successfully"})
}

// Purge permanently removes a soft-deleted invoice
func (h *InvoiceHandler) Purge(c *gin.Context) {
	callerID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	invoiceID, ok := parseInvoiceID(c)
	if !ok {
		return
	}

	if err := h.service.PurgeDeleted(callerID, invoiceID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Invoice permanently deleted"})
}

func parseInvoiceID(c *gin.Context) (uuid.UUID, bool) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid invoice id"})
		return uuid.Nil, false
	}
	return invoiceID, true
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// respondValidationError reports every failing field, not just the
// first one.
func (h *InvoiceHandler) respondValidationError(c *gin.Context, err error) {
	h.logger.Warn("⚠️ [Handler] Invalid invoice request", "error", err)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Namespace()] = validationMessage(fe)
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "fields": fields})
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Validation failed",
			"fields":  map[string]string{typeErr.Field: "Must be a " + typeErr.Type.String()},
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "numeric":
		return "Must be a number"
	case "email":
		return "Must be a valid email"
	case "oneof":
		return "Invalid status value"
	default:
		return "Invalid value"
	}
}

// handleServiceError maps service errors to HTTP responses
func (h *InvoiceHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotPermitted):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "User is not permitted to access this invoice"})
	case errors.Is(err, repository.ErrInvoiceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Invoice not found"})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid status value"})
	default:
		h.logger.Error("❌ [Handler] Internal server error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
	}
}
