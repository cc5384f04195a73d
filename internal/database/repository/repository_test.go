package repository_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/invoicemaker/backend/internal/database/models"
	"github.com/invoicemaker/backend/internal/database/repository"
)

// setupTestDB creates a new in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Run migrations
	err = db.AutoMigrate(&models.User{}, &models.Invoice{}, &models.DeletedInvoice{})
	require.NoError(t, err)

	return db
}

func testInvoice(owner uuid.UUID, number string) *models.Invoice {
	return &models.Invoice{
		CreatedBy:     owner,
		InvoiceNumber: number,
		BillerName:    "Acme Corp",
		BillerAddress: "1 Main St",
		BillerEmail:   "billing@acme.test",
		CustomerName:  "Customer",
		InvoiceItems: models.InvoiceItems{
			{Description: "Item", Quantity: "3", Rate: "10"},
		},
		BillDate: time.Now(),
		DueDate:  time.Now().AddDate(0, 1, 0),
		Currency: "USD",
		Status:   models.StatusPending,
	}
}

// ==================== USER REPOSITORY TESTS ====================

func TestUserRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)

	user := &models.User{
		Username: "test@example.com",
		Email:    "test@example.com",
		Passcode: "hashedpasscode",
	}
	require.NoError(t, repo.Create(user))
	assert.NotEqual(t, uuid.Nil, user.ID)

	// Duplicate email violates the unique index
	dup := &models.User{
		Username: "test@example.com",
		Email:    "test@example.com",
		Passcode: "hashedpasscode",
	}
	assert.Error(t, repo.Create(dup))
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)

	user := &models.User{Username: "a@x.com", Email: "a@x.com", Passcode: "hash"}
	require.NoError(t, repo.Create(user))

	found, err := repo.FindByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail("missing@x.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)

	user := &models.User{Username: "a@x.com", Email: "a@x.com", Passcode: "hash"}
	require.NoError(t, repo.Create(user))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", found.Email)

	_, err = repo.FindByID(uuid.New())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

// ==================== INVOICE REPOSITORY TESTS ====================

func TestInvoiceRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewInvoiceRepository(db)
	owner := uuid.New()

	inv := testInvoice(owner, "INV-1")
	require.NoError(t, repo.Create(inv))
	assert.NotEqual(t, uuid.Nil, inv.ID)

	found, err := repo.FindByID(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-1", found.InvoiceNumber)
	assert.Equal(t, owner, found.CreatedBy)
	assert.Equal(t, inv.InvoiceItems, found.InvoiceItems)

	_, err = repo.FindByID(uuid.New())
	assert.ErrorIs(t, err, repository.ErrInvoiceNotFound)
}

func TestInvoiceRepository_DuplicateInvoiceNumbersAllowed(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewInvoiceRepository(db)
	owner := uuid.New()

	require.NoError(t, repo.Create(testInvoice(owner, "INV-1")))
	require.NoError(t, repo.Create(testInvoice(owner, "INV-1")))

	invoices, err := repo.FindByOwner(owner)
	require.NoError(t, err)
	assert.Len(t, invoices, 2)
}

func TestInvoiceRepository_FindByOwner_ScopesToOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewInvoiceRepository(db)
	ownerA := uuid.New()
	ownerB := uuid.New()

	require.NoError(t, repo.Create(testInvoice(ownerA, "INV-A")))
	require.NoError(t, repo.Create(testInvoice(ownerB, "INV-B")))

	invoices, err := repo.FindByOwner(ownerA)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-A", invoices[0].InvoiceNumber)
}

func TestInvoiceRepository_FindRecentByOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewInvoiceRepository(db)
	owner := uuid.New()

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		inv := testInvoice(owner, "INV")
		inv.InvoiceNumber = string(rune('A' + i))
		inv.CreatedAt = base.AddDate(0, 0, i)
		require.NoError(t, repo.Create(inv))
	}

	recent, err := repo.FindRecentByOwner(owner, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)

	// Newest first, capped at the limit
	assert.Equal(t, "G", recent[0].InvoiceNumber)
	assert.Equal(t, "C", recent[4].InvoiceNumber)
}

func TestInvoiceRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewInvoiceRepository(db)
	owner := uuid.New()

	inv := testInvoice(owner, "INV-1")
	require.NoError(t, repo.Create(inv))
	require.Nil(t, inv.ModifiedAt)

	stamp := time.Now()
	require.NoError(t, repo.UpdateStatus(inv.ID, models.StatusSettled, stamp))

	found, err := repo.FindByID(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSettled, found.Status)
	require.NotNil(t, found.ModifiedAt)
	assert.WithinDuration(t, stamp, *found.ModifiedAt, time.Second)
}

func TestInvoiceRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewInvoiceRepository(db)
	owner := uuid.New()

	inv := testInvoice(owner, "INV-1")
	require.NoError(t, repo.Create(inv))
	require.NoError(t, repo.Delete(inv.ID))

	_, err := repo.FindByID(inv.ID)
	assert.ErrorIs(t, err, repository.ErrInvoiceNotFound)
}

// ==================== DELETED INVOICE REPOSITORY TESTS ====================

func TestDeletedInvoiceRepository_Partition(t *testing.T) {
	db := setupTestDB(t)
	activeRepo := repository.NewInvoiceRepository(db)
	deletedRepo := repository.NewDeletedInvoiceRepository(db)
	owner := uuid.New()

	inv := testInvoice(owner, "INV-1")
	require.NoError(t, activeRepo.Create(inv))

	// Park a copy in the deleted partition; the active partition does
	// not see it and vice versa
	parked := models.NewDeletedInvoice(inv, time.Now())
	require.NoError(t, deletedRepo.Create(parked))
	require.NoError(t, activeRepo.Delete(inv.ID))

	_, err := activeRepo.FindByID(inv.ID)
	assert.ErrorIs(t, err, repository.ErrInvoiceNotFound)

	found, err := deletedRepo.FindByID(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceNumber, found.InvoiceNumber)
	assert.False(t, found.DeletedAt.IsZero())

	owned, err := deletedRepo.FindByOwner(owner)
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	require.NoError(t, deletedRepo.Delete(inv.ID))
	_, err = deletedRepo.FindByID(inv.ID)
	assert.ErrorIs(t, err, repository.ErrInvoiceNotFound)
}
