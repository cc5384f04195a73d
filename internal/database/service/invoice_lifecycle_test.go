package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/invoicemaker/backend/internal/database/models"
	"github.com/invoicemaker/backend/internal/database/repository"
	"github.com/invoicemaker/backend/internal/database/service"
)

// Lifecycle tests running the service against real repositories on an
// in-memory SQLite database.

func setupLifecycleService(t *testing.T) (service.InvoiceService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Invoice{}, &models.DeletedInvoice{}))

	svc := service.NewInvoiceService(
		repository.NewInvoiceRepository(db),
		repository.NewDeletedInvoiceRepository(db),
		repository.NewUserRepository(db),
		testConfig(),
		testLogger(),
	)
	return svc, db
}

func TestInvoiceLifecycle_DeleteThenRestoreRoundTrip(t *testing.T) {
	svc, _ := setupLifecycleService(t)
	owner := uuid.New()

	created, err := svc.Create(owner, sampleInvoice(uuid.Nil))
	require.NoError(t, err)

	original, err := svc.View(owner, created.ID)
	require.NoError(t, err)

	// Soft-delete: gone from the active partition, parked in the
	// deleted one
	require.NoError(t, svc.Delete(owner, created.ID))

	_, err = svc.View(owner, created.ID)
	assert.ErrorIs(t, err, repository.ErrInvoiceNotFound)

	active, err := svc.List(owner)
	require.NoError(t, err)
	assert.Empty(t, active)

	trash, err := svc.ListDeleted(owner)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, created.ID, trash[0].ID)
	assert.NotEmpty(t, trash[0].DeletedAt)

	// Restore: back in the active partition with identical fields and
	// no leftover trash entry
	require.NoError(t, svc.Restore(owner, created.ID))

	restored, err := svc.View(owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, original.InvoiceNumber, restored.InvoiceNumber)
	assert.Equal(t, original.InvoiceItems, restored.InvoiceItems)
	assert.Equal(t, original.CreatedBy, restored.CreatedBy)
	assert.WithinDuration(t, original.CreatedAt, restored.CreatedAt, time.Second)

	trash, err = svc.ListDeleted(owner)
	require.NoError(t, err)
	assert.Empty(t, trash)
}

func TestInvoiceLifecycle_PurgeIsFinal(t *testing.T) {
	svc, _ := setupLifecycleService(t)
	owner := uuid.New()

	created, err := svc.Create(owner, sampleInvoice(uuid.Nil))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(owner, created.ID))

	require.NoError(t, svc.PurgeDeleted(owner, created.ID))

	// Neither partition has the invoice anymore
	_, err = svc.View(owner, created.ID)
	assert.ErrorIs(t, err, repository.ErrInvoiceNotFound)

	err = svc.Restore(owner, created.ID)
	assert.ErrorIs(t, err, repository.ErrInvoiceNotFound)
}

func TestInvoiceLifecycle_ScopedToOwner(t *testing.T) {
	svc, _ := setupLifecycleService(t)
	ownerA := uuid.New()
	ownerB := uuid.New()

	invA, err := svc.Create(ownerA, sampleInvoice(uuid.Nil))
	require.NoError(t, err)
	invB := sampleInvoice(uuid.Nil)
	invB.ID = uuid.Nil
	invB.InvoiceNumber = "INV-2"
	_, err = svc.Create(ownerB, invB)
	require.NoError(t, err)

	listA, err := svc.List(ownerA)
	require.NoError(t, err)
	require.Len(t, listA, 1)
	assert.Equal(t, invA.ID, listA[0].ID)

	// Cross-owner access is rejected without mutating anything
	err = svc.Delete(ownerB, invA.ID)
	assert.ErrorIs(t, err, service.ErrNotPermitted)

	listA, err = svc.List(ownerA)
	require.NoError(t, err)
	assert.Len(t, listA, 1)
}
