package handler_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/invoicemaker/backend/internal/database/models"
	"github.com/invoicemaker/backend/internal/database/service"
)

// ==================== MOCK AUTH SERVICE ====================

// MockAuthService implements service.AuthService for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(email, passcode string) (*models.User, error) {
	args := m.Called(email, passcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(email, passcode string) (*models.User, *service.TokenDetails, error) {
	args := m.Called(email, passcode)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*service.TokenDetails), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockAuthService) ValidateAccessToken(ctx context.Context, token string) (uuid.UUID, string, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

func (m *MockAuthService) RequestResetCode(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) ValidateResetCode(email, code string) error {
	args := m.Called(email, code)
	return args.Error(0)
}

func (m *MockAuthService) ResetPassword(email, newPasscode string) error {
	args := m.Called(email, newPasscode)
	return args.Error(0)
}

// ==================== MOCK INVOICE SERVICE ====================

// MockInvoiceService implements service.InvoiceService for testing
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ownerID uuid.UUID, invoice *models.Invoice) (*models.Invoice, error) {
	args := m.Called(ownerID, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) List(ownerID uuid.UUID) ([]service.InvoiceSummary, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.InvoiceSummary), args.Error(1)
}

func (m *MockInvoiceService) ListRecent(ownerID uuid.UUID) ([]service.RecentInvoiceSummary, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.RecentInvoiceSummary), args.Error(1)
}

func (m *MockInvoiceService) View(callerID, invoiceID uuid.UUID) (*models.Invoice, error) {
	args := m.Called(callerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Settle(callerID, invoiceID uuid.UUID, target models.InvoiceStatus) (*models.Invoice, error) {
	args := m.Called(callerID, invoiceID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Delete(callerID, invoiceID uuid.UUID) error {
	args := m.Called(callerID, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceService) ListDeleted(callerID uuid.UUID) ([]service.DeletedInvoiceSummary, error) {
	args := m.Called(callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.DeletedInvoiceSummary), args.Error(1)
}

func (m *MockInvoiceService) Restore(callerID, invoiceID uuid.UUID) error {
	args := m.Called(callerID, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceService) PurgeDeleted(callerID, invoiceID uuid.UUID) error {
	args := m.Called(callerID, invoiceID)
	return args.Error(0)
}

// ==================== FAKE RATE LIMITER ====================

// fakeRateLimiter is a RateLimiter with a fixed verdict
type fakeRateLimiter struct {
	allowed    bool
	increments int
}

func (f *fakeRateLimiter) CheckLoginAttempts(ctx context.Context, email string) (bool, int64, int64, error) {
	return f.allowed, 0, 10, nil
}

func (f *fakeRateLimiter) IncrementLoginAttempts(ctx context.Context, email string) error {
	f.increments++
	return nil
}

func (f *fakeRateLimiter) Close() error {
	return nil
}
