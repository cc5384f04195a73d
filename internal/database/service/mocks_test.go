package service_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/invoicemaker/backend/internal/database/models"
)

// ==================== MOCK USER REPOSITORY ====================

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(id uuid.UUID) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// ==================== MOCK INVOICE REPOSITORY ====================

// MockInvoiceRepository implements repository.InvoiceRepository for testing
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(invoice *models.Invoice) error {
	args := m.Called(invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByID(id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByOwner(ownerID uuid.UUID) ([]models.Invoice, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindRecentByOwner(ownerID uuid.UUID, limit int) ([]models.Invoice, error) {
	args := m.Called(ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateStatus(id uuid.UUID, status models.InvoiceStatus, modifiedAt time.Time) error {
	args := m.Called(id, status, modifiedAt)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

// ==================== MOCK DELETED INVOICE REPOSITORY ====================

// MockDeletedInvoiceRepository implements repository.DeletedInvoiceRepository for testing
type MockDeletedInvoiceRepository struct {
	mock.Mock
}

func (m *MockDeletedInvoiceRepository) Create(invoice *models.DeletedInvoice) error {
	args := m.Called(invoice)
	return args.Error(0)
}

func (m *MockDeletedInvoiceRepository) FindByID(id uuid.UUID) (*models.DeletedInvoice, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeletedInvoice), args.Error(1)
}

func (m *MockDeletedInvoiceRepository) FindByOwner(ownerID uuid.UUID) ([]models.DeletedInvoice, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DeletedInvoice), args.Error(1)
}

func (m *MockDeletedInvoiceRepository) Delete(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}
