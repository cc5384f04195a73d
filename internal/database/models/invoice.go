package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceStatus is the two-valued invoice state
type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "pending"
	StatusSettled InvoiceStatus = "settled"
)

// IsValid reports whether the status is one of the defined enum values
func (s InvoiceStatus) IsValid() bool {
	return s == StatusPending || s == StatusSettled
}

// InvoiceItem is a single billable line. Quantity and rate are kept as
// the caller-supplied numeric strings and only parsed when totals are
// computed.
type InvoiceItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Rate        string `json:"rate"`
	Tax         string `json:"tax,omitempty"`
}

// InvoiceItems is the ordered line-item list, stored as a single JSON
// column so item order survives round-trips unchanged.
type InvoiceItems []InvoiceItem

func (items InvoiceItems) Value() (driver.Value, error) {
	return json.Marshal(items)
}

func (items *InvoiceItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	case nil:
		*items = nil
		return nil
	default:
		return fmt.Errorf("unsupported invoice items column type %T", value)
	}
}

// Total sums quantity x rate over all items
func (items InvoiceItems) Total() (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range items {
		qty, err := decimal.NewFromString(item.Quantity)
		if err != nil {
			return decimal.Zero, errors.New("invalid item quantity: " + item.Quantity)
		}
		rate, err := decimal.NewFromString(item.Rate)
		if err != nil {
			return decimal.Zero, errors.New("invalid item rate: " + item.Rate)
		}
		total = total.Add(qty.Mul(rate))
	}
	return total, nil
}

// Invoice is an active-partition invoice document. CreatedBy is set
// once at creation and never changes.
type Invoice struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedBy       uuid.UUID        `gorm:"type:uuid;index;not null" json:"created_by"`
	InvoiceNumber   string           `gorm:"not null" json:"invoice_number"`
	BillerName      string           `gorm:"not null" json:"biller_name"`
	BillerAddress   string           `gorm:"not null" json:"biller_address"`
	BillerEmail     string           `gorm:"not null" json:"biller_email"`
	CustomerName    string           `gorm:"not null" json:"customer_name"`
	CustomerAddress string           `json:"customer_address,omitempty"`
	CustomerEmail   string           `json:"customer_email,omitempty"`
	InvoiceItems    InvoiceItems     `gorm:"type:jsonb" json:"invoice_items"`
	BillDate        time.Time        `gorm:"not null" json:"bill_date"`
	DueDate         time.Time        `gorm:"not null" json:"due_date"`
	Tax             decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"tax"`
	Shipping        *decimal.Decimal `gorm:"type:decimal(18,4)" json:"shipping,omitempty"`
	Discount        decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	AmountPaid      *decimal.Decimal `gorm:"type:decimal(18,4)" json:"amount_paid,omitempty"`
	DueBalance      *decimal.Decimal `gorm:"type:decimal(18,4)" json:"due_balance,omitempty"`
	Currency        string           `gorm:"not null" json:"currency"`
	Notes           string           `json:"notes,omitempty"`
	Status          InvoiceStatus    `gorm:"not null;default:pending" json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	ModifiedAt      *time.Time       `json:"modified_at"`
}

// TableName overrides the table name
func (Invoice) TableName() string {
	return "invoices"
}

// BeforeCreate assigns the identifier before the row is written
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// DeletedInvoice is a soft-deleted invoice parked in the deleted
// partition until it is restored or purged. It carries the original
// row unchanged plus the deletion timestamp.
type DeletedInvoice struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedBy       uuid.UUID        `gorm:"type:uuid;index;not null" json:"created_by"`
	InvoiceNumber   string           `gorm:"not null" json:"invoice_number"`
	BillerName      string           `gorm:"not null" json:"biller_name"`
	BillerAddress   string           `gorm:"not null" json:"biller_address"`
	BillerEmail     string           `gorm:"not null" json:"biller_email"`
	CustomerName    string           `gorm:"not null" json:"customer_name"`
	CustomerAddress string           `json:"customer_address,omitempty"`
	CustomerEmail   string           `json:"customer_email,omitempty"`
	InvoiceItems    InvoiceItems     `gorm:"type:jsonb" json:"invoice_items"`
	BillDate        time.Time        `gorm:"not null" json:"bill_date"`
	DueDate         time.Time        `gorm:"not null" json:"due_date"`
	Tax             decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"tax"`
	Shipping        *decimal.Decimal `gorm:"type:decimal(18,4)" json:"shipping,omitempty"`
	Discount        decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	AmountPaid      *decimal.Decimal `gorm:"type:decimal(18,4)" json:"amount_paid,omitempty"`
	DueBalance      *decimal.Decimal `gorm:"type:decimal(18,4)" json:"due_balance,omitempty"`
	Currency        string           `gorm:"not null" json:"currency"`
	Notes           string           `json:"notes,omitempty"`
	Status          InvoiceStatus    `gorm:"not null" json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	ModifiedAt      *time.Time       `json:"modified_at"`
	DeletedAt       time.Time        `gorm:"not null" json:"deleted_at"`
}

// TableName overrides the table name
func (DeletedInvoice) TableName() string {
	return "deleted_invoices"
}

// NewDeletedInvoice copies an active invoice into the deleted
// partition representation, stamping the deletion time.
func NewDeletedInvoice(inv *Invoice, deletedAt time.Time) *DeletedInvoice {
	return &DeletedInvoice{
		ID:              inv.ID,
		CreatedBy:       inv.CreatedBy,
		InvoiceNumber:   inv.InvoiceNumber,
		BillerName:      inv.BillerName,
		BillerAddress:   inv.BillerAddress,
		BillerEmail:     inv.BillerEmail,
		CustomerName:    inv.CustomerName,
		CustomerAddress: inv.CustomerAddress,
		CustomerEmail:   inv.CustomerEmail,
		InvoiceItems:    inv.InvoiceItems,
		BillDate:        inv.BillDate,
		DueDate:         inv.DueDate,
		Tax:             inv.Tax,
		Shipping:        inv.Shipping,
		Discount:        inv.Discount,
		AmountPaid:      inv.AmountPaid,
		DueBalance:      inv.DueBalance,
		Currency:        inv.Currency,
		Notes:           inv.Notes,
		Status:          inv.Status,
		CreatedAt:       inv.CreatedAt,
		ModifiedAt:      inv.ModifiedAt,
		DeletedAt:       deletedAt,
	}
}

// Restored converts the deleted-partition row back into an active
// invoice. The deletion timestamp is dropped; every other field,
// including the original creation time, is preserved.
func (d *DeletedInvoice) Restored() *Invoice {
	return &Invoice{
		ID:              d.ID,
		CreatedBy:       d.CreatedBy,
		InvoiceNumber:   d.InvoiceNumber,
		BillerName:      d.BillerName,
		BillerAddress:   d.BillerAddress,
		BillerEmail:     d.BillerEmail,
		CustomerName:    d.CustomerName,
		CustomerAddress: d.CustomerAddress,
		CustomerEmail:   d.CustomerEmail,
		InvoiceItems:    d.InvoiceItems,
		BillDate:        d.BillDate,
		DueDate:         d.DueDate,
		Tax:             d.Tax,
		Shipping:        d.Shipping,
		Discount:        d.Discount,
		AmountPaid:      d.AmountPaid,
		DueBalance:      d.DueBalance,
		Currency:        d.Currency,
		Notes:           d.Notes,
		Status:          d.Status,
		CreatedAt:       d.CreatedAt,
		ModifiedAt:      d.ModifiedAt,
	}
}
