package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fincontrol/backend/internal/domain/ledger"
	"github.com/fincontrol/backend/internal/domain/shared/valueobject"
	"github.com/fincontrol/backend/internal/infrastructure/persistence/models"
)

// newTestDB opens an in-memory SQLite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A fresh connection would see an empty in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.TransactionModel{},
		&models.CategoryModel{},
		&models.BankStatementItemModel{},
		&models.CustomerModel{},
		&models.SupplierModel{},
	))
	return db
}

func newStoredTransaction(t *testing.T, repo *GormTransactionRepository, tenantID uuid.UUID, amount float64, description string, dueDate time.Time) *ledger.Transaction {
	t.Helper()
	tx, err := ledger.NewTransaction(tenantID, ledger.TransactionTypeSale,
		valueobject.NewMoneyBRLFromFloat(amount), description, dueDate)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), tx))
	return tx
}

func TestGormTransactionRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	dueDate := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	t.Run("round-trips all payment fields", func(t *testing.T) {
		tx := newStoredTransaction(t, repo, tenantID, 150.50, "Venda registrada", dueDate)
		require.NoError(t, tx.AssignInstallment("Venda registrada", 2, 4))
		require.NoError(t, tx.ConfirmPayment(
			valueobject.NewMoneyBRLFromFloat(100),
			valueobject.NewMoneyBRLFromFloat(2.50),
			dueDate.AddDate(0, 0, 3),
			ledger.PaymentMethodPix,
			nil,
		))
		require.NoError(t, repo.Save(ctx, tx))

		found, err := repo.FindByIDForTenant(ctx, tenantID, tx.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "150.5", found.Amount.Amount().String())
		assert.Equal(t, "2.5", found.Interest.Amount().String())
		require.NotNil(t, found.PaidAmount)
		assert.Equal(t, "100", found.PaidAmount.Amount().String())
		assert.Nil(t, found.CardFeeAmount)
		assert.Equal(t, ledger.StatusPartial, found.Status)
		require.NotNil(t, found.PaymentMethod)
		assert.Equal(t, ledger.PaymentMethodPix, *found.PaymentMethod)
		require.NotNil(t, found.InstallmentGroup)
		assert.Equal(t, "Venda registrada", *found.InstallmentGroup)
		require.NotNil(t, found.InstallmentIndex)
		assert.Equal(t, 2, *found.InstallmentIndex)
	})

	t.Run("missing row returns nil without error", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("rows of another tenant are invisible", func(t *testing.T) {
		tx := newStoredTransaction(t, repo, tenantID, 80, "isolated entry", dueDate)

		found, err := repo.FindByIDForTenant(ctx, uuid.New(), tx.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestGormTransactionRepository_FindAllForTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	base := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		newStoredTransaction(t, repo, tenantID, float64(100+i), "entry", base.AddDate(0, i, 0))
	}
	paid := newStoredTransaction(t, repo, tenantID, 999, "paid entry", base)
	require.NoError(t, paid.ConfirmPayment(
		valueobject.NewMoneyBRLFromFloat(999), valueobject.ZeroBRL(),
		base, ledger.PaymentMethodCash, nil,
	))
	require.NoError(t, repo.Save(ctx, paid))
	// Another tenant's row must never leak into results
	newStoredTransaction(t, repo, uuid.New(), 1, "foreign entry", base)

	t.Run("zero page size returns the full tenant set", func(t *testing.T) {
		filter := ledger.NewTransactionFilter()
		filter.Page = 0
		filter.PageSize = 0

		all, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Len(t, all, 6)
	})

	t.Run("pagination limits the result", func(t *testing.T) {
		filter := ledger.NewTransactionFilter()
		filter.Page = 1
		filter.PageSize = 4

		page, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Len(t, page, 4)

		count, err := repo.CountForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(6), count)
	})

	t.Run("filters by status", func(t *testing.T) {
		filter := ledger.NewTransactionFilter()
		status := ledger.StatusPaid
		filter.Status = &status

		rows, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "paid entry", rows[0].Description)
	})

	t.Run("filters by due date range", func(t *testing.T) {
		filter := ledger.NewTransactionFilter()
		filter.PageSize = 0
		from := base.AddDate(0, 1, 0)
		to := base.AddDate(0, 2, 0)
		filter.DueDateFrom = &from
		filter.DueDateTo = &to

		rows, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}

func TestGormTransactionRepository_FindByGroupForTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	// Insert out of order to prove ordering comes from the query
	for _, idx := range []int{3, 1, 2} {
		tx := newStoredTransaction(t, repo, tenantID, 100, "Compra parcelada", base.AddDate(0, idx-1, 0))
		require.NoError(t, tx.AssignInstallment("Compra parcelada", idx, 3))
		require.NoError(t, repo.Save(ctx, tx))
	}
	newStoredTransaction(t, repo, tenantID, 50, "ungrouped", base)

	rows, err := repo.FindByGroupForTenant(ctx, tenantID, "Compra parcelada")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, row := range rows {
		require.NotNil(t, row.InstallmentIndex)
		assert.Equal(t, i+1, *row.InstallmentIndex)
	}
}

func TestGormTransactionRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	tx := newStoredTransaction(t, repo, tenantID, 100, "to delete", time.Now())

	t.Run("deletes an existing row", func(t *testing.T) {
		require.NoError(t, repo.DeleteForTenant(ctx, tenantID, tx.ID))

		found, err := repo.FindByIDForTenant(ctx, tenantID, tx.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("deleting a missing row reports not found", func(t *testing.T) {
		err := repo.DeleteForTenant(ctx, tenantID, uuid.New())
		assert.Error(t, err)
	})
}

func TestGormCategoryRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	category, err := ledger.NewCategory(tenantID, "Services", ledger.CategoryTypeIncome)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, category))

	t.Run("finds by name", func(t *testing.T) {
		found, err := repo.FindByNameForTenant(ctx, tenantID, "Services")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, category.ID, found.ID)
		assert.Equal(t, ledger.CategoryTypeIncome, found.Type)
	})

	t.Run("unknown name returns nil", func(t *testing.T) {
		found, err := repo.FindByNameForTenant(ctx, tenantID, "Unknown")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("filters by type", func(t *testing.T) {
		expense, err := ledger.NewCategory(tenantID, "Rent", ledger.CategoryTypeExpense)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, expense))

		filter := ledger.CategoryFilter{}
		catType := ledger.CategoryTypeExpense
		filter.Type = &catType

		rows, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Rent", rows[0].Name)
	})
}
