package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invoicemaker/backend/internal/database/models"
)

// DeletedInvoiceRepository defines the interface for the deleted
// partition holding soft-deleted invoices
type DeletedInvoiceRepository interface {
	Create(invoice *models.DeletedInvoice) error
	FindByID(id uuid.UUID) (*models.DeletedInvoice, error)
	FindByOwner(ownerID uuid.UUID) ([]models.DeletedInvoice, error)
	Delete(id uuid.UUID) error
}

type deletedInvoiceRepository struct {
	db *gorm.DB
}

// NewDeletedInvoiceRepository creates a new deleted-invoice repository instance
func NewDeletedInvoiceRepository(db *gorm.DB) DeletedInvoiceRepository {
	return &deletedInvoiceRepository{db: db}
}

func (r *deletedInvoiceRepository) Create(invoice *models.DeletedInvoice) error {
	return r.db.Create(invoice).Error
}

func (r *deletedInvoiceRepository) FindByID(id uuid.UUID) (*models.DeletedInvoice, error) {
	var invoice models.DeletedInvoice
	err := r.db.Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *deletedInvoiceRepository) FindByOwner(ownerID uuid.UUID) ([]models.DeletedInvoice, error) {
	var invoices []models.DeletedInvoice
	err := r.db.Where("created_by = ?", ownerID).Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *deletedInvoiceRepository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.DeletedInvoice{}).Error
}
