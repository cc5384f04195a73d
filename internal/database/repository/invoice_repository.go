package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invoicemaker/backend/internal/database/models"
)

// InvoiceRepository defines the interface for active-partition invoice
// data operations
type InvoiceRepository interface {
	Create(invoice *models.Invoice) error
	FindByID(id uuid.UUID) (*models.Invoice, error)
	FindByOwner(ownerID uuid.UUID) ([]models.Invoice, error)
	FindRecentByOwner(ownerID uuid.UUID, limit int) ([]models.Invoice, error)
	UpdateStatus(id uuid.UUID, status models.InvoiceStatus, modifiedAt time.Time) error
	Delete(id uuid.UUID) error
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository instance
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

func (r *invoiceRepository) FindByID(id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByOwner(ownerID uuid.UUID) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Where("created_by = ?", ownerID).Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) FindRecentByOwner(ownerID uuid.UUID, limit int) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.
		Where("created_by = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) UpdateStatus(id uuid.UUID, status models.InvoiceStatus, modifiedAt time.Time) error {
	return r.db.Model(&models.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"modified_at": modifiedAt,
		}).Error
}

func (r *invoiceRepository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.Invoice{}).Error
}
