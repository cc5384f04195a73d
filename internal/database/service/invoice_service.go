package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/invoicemaker/backend/internal/config"
	"github.com/invoicemaker/backend/internal/database/models"
	"github.com/invoicemaker/backend/internal/database/repository"
)

// recentDateLayout renders creation/deletion dates as e.g. "2 Jan 2006"
const recentDateLayout = "2 Jan 2006"

// InvoiceService enforces ownership and state-transition rules on top
// of the invoice repositories. Every operation takes the authenticated
// caller's user ID; no caller other than the owner may read or mutate
// an invoice.
type InvoiceService interface {
	Create(ownerID uuid.UUID, invoice *models.Invoice) (*models.Invoice, error)
	List(ownerID uuid.UUID) ([]InvoiceSummary, error)
	ListRecent(ownerID uuid.UUID) ([]RecentInvoiceSummary, error)
	View(callerID, invoiceID uuid.UUID) (*models.Invoice, error)
	Settle(callerID, invoiceID uuid.UUID, target models.InvoiceStatus) (*models.Invoice, error)
	Delete(callerID, invoiceID uuid.UUID) error
	ListDeleted(callerID uuid.UUID) ([]DeletedInvoiceSummary, error)
	Restore(callerID, invoiceID uuid.UUID) error
	PurgeDeleted(callerID, invoiceID uuid.UUID) error
}

// InvoiceSummary is the list-view projection of an invoice
type InvoiceSummary struct {
	ID            uuid.UUID            `json:"id"`
	InvoiceNumber string               `json:"invoice_number"`
	CustomerName  string               `json:"customer_name"`
	ItemsCount    int                  `json:"items_count"`
	InvoiceTotal  string               `json:"invoice_total"`
	Status        models.InvoiceStatus `json:"status"`
	Currency      string               `json:"currency"`
	CreatedAt     time.Time            `json:"created_at"`
	DueDate       time.Time            `json:"due_date"`
}

// RecentInvoiceSummary is the dashboard projection: no item count or
// due date, and the creation date is pre-formatted for display.
type RecentInvoiceSummary struct {
	ID            uuid.UUID            `json:"id"`
	InvoiceNumber string               `json:"invoice_number"`
	CustomerName  string               `json:"customer_name"`
	InvoiceTotal  string               `json:"invoice_total"`
	Status        models.InvoiceStatus `json:"status"`
	Currency      string               `json:"currency"`
	CreatedAt     string               `json:"created_at"`
}

// DeletedInvoiceSummary is the trash-view projection
type DeletedInvoiceSummary struct {
	ID            uuid.UUID            `json:"id"`
	InvoiceNumber string               `json:"invoice_number"`
	CustomerName  string               `json:"customer_name"`
	ItemsCount    int                  `json:"items_count"`
	InvoiceTotal  string               `json:"invoice_total"`
	Status        models.InvoiceStatus `json:"status"`
	Currency      string               `json:"currency"`
	CreatedAt     time.Time            `json:"created_at"`
	DeletedAt     string               `json:"deleted_at"`
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	deletedRepo repository.DeletedInvoiceRepository
	userRepo    repository.UserRepository
	cfg         *config.Config
	logger      *slog.Logger
}

// NewInvoiceService creates a new invoice lifecycle service instance
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	deletedRepo repository.DeletedInvoiceRepository,
	userRepo repository.UserRepository,
	cfg *config.Config,
	logger *slog.Logger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		deletedRepo: deletedRepo,
		userRepo:    userRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

func (s *invoiceService) Create(ownerID uuid.UUID, invoice *models.Invoice) (*models.Invoice, error) {
	s.logger.Info("🧾 [InvoiceService] Creating invoice", "owner_id", ownerID, "invoice_number", invoice.InvoiceNumber)

	if invoice.Status == "" {
		invoice.Status = models.StatusPending
	}
	if !invoice.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	// The owner reference is set here, once, and never changes.
	invoice.CreatedBy = ownerID

	if err := s.invoiceRepo.Create(invoice); err != nil {
		s.logger.Error("❌ [InvoiceService] Failed to create invoice", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [InvoiceService] Invoice created", "invoice_id", invoice.ID)
	return invoice, nil
}

func (s *invoiceService) List(ownerID uuid.UUID) ([]InvoiceSummary, error) {
	invoices, err := s.invoiceRepo.FindByOwner(ownerID)
	if err != nil {
		s.logger.Error("❌ [InvoiceService] Failed to list invoices", "owner_id", ownerID, "error", err)
		return nil, err
	}

	summaries := make([]InvoiceSummary, 0, len(invoices))
	for _, inv := range invoices {
		total, err := inv.InvoiceItems.Total()
		if err != nil {
			s.logger.Error("❌ [InvoiceService] Invalid line items on stored invoice", "invoice_id", inv.ID, "error", err)
			return nil, err
		}
		summaries = append(summaries, InvoiceSummary{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  inv.CustomerName,
			ItemsCount:    len(inv.InvoiceItems),
			InvoiceTotal:  formatTotal(total),
			Status:        inv.Status,
			Currency:      inv.Currency,
			CreatedAt:     inv.CreatedAt,
			DueDate:       inv.DueDate,
		})
	}

	return summaries, nil
}

func (s *invoiceService) ListRecent(ownerID uuid.UUID) ([]RecentInvoiceSummary, error) {
	invoices, err := s.invoiceRepo.FindRecentByOwner(ownerID, int(s.cfg.RecentInvoiceLimit))
	if err != nil {
		s.logger.Error("❌ [InvoiceService] Failed to list recent invoices", "owner_id", ownerID, "error", err)
		return nil, err
	}

	summaries := make([]RecentInvoiceSummary, 0, len(invoices))
	for _, inv := range invoices {
		total, err := inv.InvoiceItems.Total()
		if err != nil {
			s.logger.Error("❌ [InvoiceService] Invalid line items on stored invoice", "invoice_id", inv.ID, "error", err)
			return nil, err
		}
		summaries = append(summaries, RecentInvoiceSummary{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  inv.CustomerName,
			InvoiceTotal:  formatTotal(total),
			Status:        inv.Status,
			Currency:      inv.Currency,
			CreatedAt:     inv.CreatedAt.Format(recentDateLayout),
		})
	}

	return summaries, nil
}

func (s *invoiceService) View(callerID, invoiceID uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(invoiceID)
	if err != nil {
		return nil, err
	}

	if invoice.CreatedBy != callerID {
		s.logger.Warn("⚠️ [InvoiceService] View denied", "invoice_id", invoiceID, "caller_id", callerID)
		return nil, ErrNotPermitted
	}

	return invoice, nil
}

func (s *invoiceService) Settle(callerID, invoiceID uuid.UUID, target models.InvoiceStatus) (*models.Invoice, error) {
	// Target status is caller-supplied; only the enum is enforced, so
	// the reverse transition settled -> pending is accepted.
	if !target.IsValid() {
		return nil, ErrInvalidStatus
	}

	invoice, err := s.invoiceRepo.FindByID(invoiceID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(callerID); err != nil {
		return nil, err
	}

	if invoice.CreatedBy != callerID {
		s.logger.Warn("⚠️ [InvoiceService] Settle denied", "invoice_id", invoiceID, "caller_id", callerID)
		return nil, ErrNotPermitted
	}

	now := time.Now()
	if err := s.invoiceRepo.UpdateStatus(invoiceID, target, now); err != nil {
		s.logger.Error("❌ [InvoiceService] Failed to update status", "invoice_id", invoiceID, "error", err)
		return nil, err
	}

	invoice.Status = target
	invoice.ModifiedAt = &now

	s.logger.Info("✅ [InvoiceService] Invoice status updated", "invoice_id", invoiceID, "status", target)
	return invoice, nil
}

func (s *invoiceService) Delete(callerID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(invoiceID)
	if err != nil {
		return err
	}

	if invoice.CreatedBy != callerID {
		s.logger.Warn("⚠️ [InvoiceService] Delete denied", "invoice_id", invoiceID, "caller_id", callerID)
		return ErrNotPermitted
	}

	// Copy into the deleted partition, then remove from the active
	// one. The two writes are not transactional: a crash in between
	// leaves the invoice present in both partitions.
	if err := s.deletedRepo.Create(models.NewDeletedInvoice(invoice, time.Now())); err != nil {
		s.logger.Error("❌ [InvoiceService] Failed to copy invoice into deleted partition", "invoice_id", invoiceID, "error", err)
		return err
	}

	if err := s.invoiceRepo.Delete(invoiceID); err != nil {
		s.logger.Error("❌ [InvoiceService] Failed to remove invoice from active partition", "invoice_id", invoiceID, "error", err)
		return err
	}

	s.logger.Info("🗑️ [InvoiceService] Invoice soft-deleted", "invoice_id", invoiceID)
	return nil
}

func (s *invoiceService) ListDeleted(callerID uuid.UUID) ([]DeletedInvoiceSummary, error) {
	invoices, err := s.deletedRepo.FindByOwner(callerID)
	if err != nil {
		s.logger.Error("❌ [InvoiceService] Failed to list deleted invoices", "owner_id", callerID, "error", err)
		return nil, err
	}

	summaries := make([]DeletedInvoiceSummary, 0, len(invoices))
	for _, inv := range invoices {
		total, err := inv.InvoiceItems.Total()
		if err != nil {
			s.logger.Error("❌ [InvoiceService] Invalid line items on deleted invoice", "invoice_id", inv.ID, "error", err)
			return nil, err
		}
		summaries = append(summaries, DeletedInvoiceSummary{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  inv.CustomerName,
			ItemsCount:    len(inv.InvoiceItems),
			InvoiceTotal:  formatTotal(total),
			Status:        inv.Status,
			Currency:      inv.Currency,
			CreatedAt:     inv.CreatedAt,
			DeletedAt:     inv.DeletedAt.Format(recentDateLayout),
		})
	}

	return summaries, nil
}

func (s *invoiceService) Restore(callerID, invoiceID uuid.UUID) error {
	deleted, err := s.deletedRepo.FindByID(invoiceID)
	if err != nil {
		return err
	}

	if deleted.CreatedBy != callerID {
		s.logger.Warn("⚠️ [InvoiceService] Restore denied", "invoice_id", invoiceID, "caller_id", callerID)
		return ErrNotPermitted
	}

	// Insert back into the active partition, then remove the parked
	// copy. Same non-transactional pair as Delete, in reverse.
	if err := s.invoiceRepo.Create(deleted.Restored()); err != nil {
		s.logger.Error("❌ [InvoiceService] Failed to restore invoice", "invoice_id", invoiceID, "error", err)
		return err
	}

	if err := s.deletedRepo.Delete(invoiceID); err != nil {
		s.logger.Error("❌ [InvoiceService] Failed to remove invoice from deleted partition", "invoice_id", invoiceID, "error", err)
		return err
	}

	s.logger.Info("♻️ [InvoiceService] Invoice restored", "invoice_id", invoiceID)
	return nil
}

func (s *invoiceService) PurgeDeleted(callerID, invoiceID uuid.UUID) error {
	deleted, err := s.deletedRepo.FindByID(invoiceID)
	if err != nil {
		return err
	}

	if deleted.CreatedBy != callerID {
		s.logger.Warn("⚠️ [InvoiceService] Purge denied", "invoice_id", invoiceID, "caller_id", callerID)
		return ErrNotPermitted
	}

	if err := s.deletedRepo.Delete(invoiceID); err != nil {
		s.logger.Error("❌ [InvoiceService] Failed to purge invoice", "invoice_id", invoiceID, "error", err)
		return err
	}

	s.logger.Info("🔥 [InvoiceService] Invoice purged", "invoice_id", invoiceID)
	return nil
}

// formatTotal renders a computed total with English locale grouping,
// e.g. 1234.5 -> "1,234.5".
func formatTotal(total decimal.Decimal) string {
	f, _ := total.Float64()
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", number.Decimal(f))
}

// Lifecycle errors
var (
	ErrNotPermitted  = errors.New("user is not permitted to access this invoice")
	ErrInvalidStatus = errors.New("invalid status value")
)
