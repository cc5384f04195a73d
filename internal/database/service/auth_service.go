package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/invoicemaker/backend/internal/config"
	"github.com/invoicemaker/backend/internal/database"
	"github.com/invoicemaker/backend/internal/database/models"
	"github.com/invoicemaker/backend/internal/database/repository"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Signup(email, passcode string) (*models.User, error)
	Login(email, passcode string) (*models.User, *TokenDetails, error)
	Logout(ctx context.Context, token string) error
	ValidateAccessToken(ctx context.Context, token string) (uuid.UUID, string, error)
	RequestResetCode(email string) (*models.User, error)
	ValidateResetCode(email, code string) error
	ResetPassword(email, newPasscode string) error
}

// TokenDetails is an issued bearer token with its explicit expiration
type TokenDetails struct {
	AccessToken string
	Expiration  time.Time
}

type authService struct {
	userRepo  repository.UserRepository
	ledger    *database.RevocationLedger
	jwtSecret string
	cfg       *config.Config
	logger    *slog.Logger
}

// NewAuthService creates a new authentication service instance
func NewAuthService(
	userRepo repository.UserRepository,
	ledger *database.RevocationLedger,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		ledger:    ledger,
		jwtSecret: cfg.JWTSecret,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *authService) Signup(email, passcode string) (*models.User, error) {
	s.logger.Info("📝 [AuthService] Signup attempt", "email", email)

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, err
	}

	if existingUser != nil {
		s.logger.Warn("⚠️ [AuthService] Email already registered", "email", email)
		return nil, ErrEmailAlreadyExists
	}

	hashedPasscode, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to hash passcode", "error", err)
		return nil, err
	}

	// Username defaults to the email address; a display name can be
	// set later through the profile.
	user := &models.User{
		DisplayName: "",
		Username:    email,
		Email:       email,
		Passcode:    string(hashedPasscode),
	}

	if err := s.userRepo.Create(user); err != nil {
		s.logger.Error("❌ [AuthService] Failed to create user", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [AuthService] User signed up successfully", "user_id", user.ID)
	return user, nil
}

func (s *authService) Login(email, passcode string) (*models.User, *TokenDetails, error) {
	s.logger.Info("🔐 [AuthService] Login attempt", "email", email)

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same error as a wrong passcode so callers cannot probe
			// which emails are registered.
			s.logger.Warn("⚠️ [AuthService] User not found", "email", email)
			return nil, nil, ErrInvalidCredentials
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Passcode), []byte(passcode)); err != nil {
		s.logger.Warn("⚠️ [AuthService] Invalid passcode", "email", email)
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.generateAccessToken(user)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to generate token", "error", err)
		return nil, nil, err
	}

	s.logger.Info("✅ [AuthService] User logged in successfully", "user_id", user.ID)
	return user, tokens, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	s.logger.Info("👋 [AuthService] Logout attempt")

	expiresAt, err := s.parseExpiry(token)
	if err != nil {
		s.logger.Warn("⚠️ [AuthService] Unable to decode token", "error", err)
		return ErrInvalidToken
	}

	remaining := time.Until(expiresAt)
	if remaining > 0 {
		if err := s.ledger.Revoke(ctx, token, remaining); err != nil {
			s.logger.Error("❌ [AuthService] Failed to record revocation", "error", err)
			return err
		}
	}

	s.logger.Info("✅ [AuthService] User logged out successfully")
	return nil
}

func (s *authService) ValidateAccessToken(ctx context.Context, tokenString string) (uuid.UUID, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return uuid.Nil, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", ErrInvalidToken
	}

	rawID, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, "", ErrInvalidToken
	}

	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}

	email, _ := claims["email"].(string)

	// A signature that still verifies is not enough: the exact token
	// string may have been revoked by a logout.
	revoked, err := s.ledger.IsRevoked(ctx, tokenString)
	if err != nil {
		return uuid.Nil, "", err
	}
	if revoked {
		return uuid.Nil, "", ErrTokenRevoked
	}

	return userID, email, nil
}

// RequestResetCode is the first step of the password-reset flow. The
// flow is not implemented yet; the user is looked up so the endpoint
// behaves consistently, but no code is generated or mailed.
// TODO: generate a one-time code and send it through the configured mailer.
func (s *authService) RequestResetCode(email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}
	s.logger.Info("📧 [AuthService] Reset code requested", "email", email, "mailer_host", s.cfg.MailerHost)
	return user, nil
}

func (s *authService) ValidateResetCode(email, code string) error {
	return ErrNotImplemented
}

func (s *authService) ResetPassword(email, newPasscode string) error {
	return ErrNotImplemented
}

func (s *authService) generateAccessToken(user *models.User) (*TokenDetails, error) {
	expiration := time.Now().Add(time.Duration(s.cfg.TokenExpiration) * time.Second)

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"exp":     expiration.Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &TokenDetails{
		AccessToken: signed,
		Expiration:  expiration,
	}, nil
}

func (s *authService) parseExpiry(tokenString string) (time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return time.Time{}, ErrInvalidToken
	}

	expiresAt, err := token.Claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return time.Time{}, ErrInvalidToken
	}

	return expiresAt.Time, nil
}

// Service errors
var (
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrNotImplemented     = errors.New("not implemented")
)
