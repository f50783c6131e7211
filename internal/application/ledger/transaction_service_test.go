package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fincontrol/backend/internal/domain/ledger"
	"github.com/fincontrol/backend/internal/domain/shared"
	"github.com/fincontrol/backend/internal/domain/shared/valueobject"
)

func TestCreateTransaction(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates pending entry", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewTransactionService(repo, fakeTxManager{})
		repo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Transaction")).Return(nil)

		resp, err := service.CreateTransaction(context.Background(), tenantID, CreateTransactionRequest{
			Type:        "SALE",
			Amount:      decimal.NewFromFloat(99.90),
			Description: "Venda avulsa",
			Category:    "Services",
			DueDate:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "99.90", resp.Amount)
		assert.Equal(t, tenantID, resp.TenantID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewTransactionService(repo, fakeTxManager{})

		_, err := service.CreateTransaction(context.Background(), tenantID, CreateTransactionRequest{
			Type:        "WIRE",
			Amount:      decimal.NewFromInt(10),
			Description: "x",
			DueDate:     time.Now(),
		})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "INVALID_INPUT", de.Code)
	})
}

func TestCreateInstallmentPlan(t *testing.T) {
	tenantID := uuid.New()
	firstDue := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("splits total into monthly installments", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewTransactionService(repo, fakeTxManager{})

		var saved []*ledger.Transaction
		repo.On("SaveAll", mock.Anything, mock.AnythingOfType("[]*ledger.Transaction")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).([]*ledger.Transaction)
			}).Return(nil)

		resp, err := service.CreateInstallmentPlan(context.Background(), tenantID, CreateInstallmentPlanRequest{
			Type:         "SALE",
			TotalAmount:  decimal.NewFromInt(100),
			Installments: 3,
			Description:  "Venda parcelada",
			FirstDueDate: firstDue,
		})
		require.NoError(t, err)
		require.Len(t, resp.Installments, 3)
		assert.NotEmpty(t, resp.GroupKey)

		// remainder cents land on the earliest installment
		assert.Equal(t, "33.34", resp.Installments[0].Amount)
		assert.Equal(t, "33.33", resp.Installments[1].Amount)
		assert.Equal(t, "33.33", resp.Installments[2].Amount)

		sum := valueobject.ZeroBRL()
		for _, tx := range saved {
			sum = sum.MustAdd(tx.Amount).RoundCents()
		}
		assert.Equal(t, "100.00", sum.StringFixed(2))

		assert.Equal(t, "Venda parcelada (1/3)", resp.Installments[0].Description)
		assert.Equal(t, "Venda parcelada (3/3)", resp.Installments[2].Description)

		assert.True(t, firstDue.Equal(resp.Installments[0].DueDate))
		assert.True(t, firstDue.AddDate(0, 1, 0).Equal(resp.Installments[1].DueDate))
		assert.True(t, firstDue.AddDate(0, 2, 0).Equal(resp.Installments[2].DueDate))

		for i, tx := range resp.Installments {
			assert.Equal(t, resp.GroupKey, *tx.InstallmentGroup)
			assert.Equal(t, i+1, *tx.InstallmentIndex)
			assert.Equal(t, 3, *tx.InstallmentTotal)
			assert.Equal(t, "PENDING", tx.Status)
		}
	})

	t.Run("keeps explicit group key", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewTransactionService(repo, fakeTxManager{})
		repo.On("SaveAll", mock.Anything, mock.Anything).Return(nil)

		resp, err := service.CreateInstallmentPlan(context.Background(), tenantID, CreateInstallmentPlanRequest{
			Type:         "PURCHASE",
			TotalAmount:  decimal.NewFromInt(60),
			Installments: 2,
			Description:  "Compra",
			FirstDueDate: firstDue,
			GroupKey:     "G1",
		})
		require.NoError(t, err)
		assert.Equal(t, "G1", resp.GroupKey)
	})

	t.Run("rejects non-positive total", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewTransactionService(repo, fakeTxManager{})

		_, err := service.CreateInstallmentPlan(context.Background(), tenantID, CreateInstallmentPlanRequest{
			Type:         "SALE",
			TotalAmount:  decimal.Zero,
			Installments: 2,
			Description:  "x",
			FirstDueDate: firstDue,
		})
		assert.Error(t, err)
	})

	t.Run("store failure leaves no response", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewTransactionService(repo, fakeTxManager{})
		repo.On("SaveAll", mock.Anything, mock.Anything).Return(errors.New("store unavailable"))

		_, err := service.CreateInstallmentPlan(context.Background(), tenantID, CreateInstallmentPlanRequest{
			Type:         "SALE",
			TotalAmount:  decimal.NewFromInt(100),
			Installments: 2,
			Description:  "x",
			FirstDueDate: firstDue,
		})
		assert.Error(t, err)
	})
}

func TestEditTermsService(t *testing.T) {
	tenantID := uuid.New()

	t.Run("records original amount on first edit only", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewTransactionService(repo, fakeTxManager{})
		tx, err := ledger.NewTransaction(tenantID, ledger.TransactionTypeSale, valueobject.NewMoneyBRLFromFloat(100), "Venda", time.Now())
		require.NoError(t, err)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, tx.ID).Return(tx, nil)
		repo.On("Save", mock.Anything, tx).Return(nil)

		due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		resp, err := service.EditTerms(context.Background(), tenantID, tx.ID, EditTermsRequest{
			Amount:  decimal.NewFromInt(130),
			DueDate: due,
		})
		require.NoError(t, err)
		require.NotNil(t, resp.OriginalAmount)
		assert.Equal(t, "100.00", *resp.OriginalAmount)
		assert.Equal(t, "130.00", resp.Amount)

		resp, err = service.EditTerms(context.Background(), tenantID, tx.ID, EditTermsRequest{
			Amount:  decimal.NewFromInt(150),
			DueDate: due,
		})
		require.NoError(t, err)
		assert.Equal(t, "100.00", *resp.OriginalAmount)
	})

	t.Run("missing transaction is not found", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewTransactionService(repo, fakeTxManager{})
		repo.On("FindByIDForTenant", mock.Anything, tenantID, mock.Anything).Return(nil, nil)

		_, err := service.EditTerms(context.Background(), tenantID, uuid.New(), EditTermsRequest{Amount: decimal.NewFromInt(10)})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "NOT_FOUND", de.Code)
	})
}

func TestBatchRescheduleDueDates(t *testing.T) {
	tenantID := uuid.New()
	firstDue := time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC)

	makeMember := func(index int) ledger.Transaction {
		tx, err := ledger.NewTransaction(tenantID, ledger.TransactionTypeSale, valueobject.NewMoneyBRLFromFloat(50), "Parcela", time.Now())
		require.NoError(t, err)
		require.NoError(t, tx.AssignInstallment("G1", index, 3))
		return *tx
	}

	t.Run("reschedules every member monthly", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewTransactionService(repo, fakeTxManager{})
		members := []ledger.Transaction{makeMember(1), makeMember(2), makeMember(3)}
		repo.On("FindByGroupForTenant", mock.Anything, tenantID, "G1").Return(members, nil)
		repo.On("SaveAll", mock.Anything, mock.Anything).Return(nil)

		resp, err := service.BatchRescheduleDueDates(context.Background(), tenantID, BatchRescheduleRequest{
			GroupKey:     "G1",
			FirstDueDate: firstDue,
		})
		require.NoError(t, err)
		require.Len(t, resp, 3)
		assert.True(t, firstDue.Equal(resp[0].DueDate))
		assert.True(t, firstDue.AddDate(0, 1, 0).Equal(resp[1].DueDate))
		assert.True(t, firstDue.AddDate(0, 2, 0).Equal(resp[2].DueDate))
	})

	t.Run("unknown group is not found", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewTransactionService(repo, fakeTxManager{})
		repo.On("FindByGroupForTenant", mock.Anything, tenantID, "G9").Return([]ledger.Transaction{}, nil)

		_, err := service.BatchRescheduleDueDates(context.Background(), tenantID, BatchRescheduleRequest{
			GroupKey:     "G9",
			FirstDueDate: firstDue,
		})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "NOT_FOUND", de.Code)
	})
}

func TestDeleteTransaction(t *testing.T) {
	tenantID := uuid.New()

	t.Run("deletes unreconciled transaction", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewTransactionService(repo, fakeTxManager{})
		tx, err := ledger.NewTransaction(tenantID, ledger.TransactionTypeSale, valueobject.NewMoneyBRLFromFloat(10), "x", time.Now())
		require.NoError(t, err)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, tx.ID).Return(tx, nil)
		repo.On("DeleteForTenant", mock.Anything, tenantID, tx.ID).Return(nil)

		require.NoError(t, service.DeleteTransaction(context.Background(), tenantID, tx.ID))
		repo.AssertExpectations(t)
	})

	t.Run("reconciled transaction refuses deletion", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewTransactionService(repo, fakeTxManager{})
		tx, err := ledger.NewTransaction(tenantID, ledger.TransactionTypeSale, valueobject.NewMoneyBRLFromFloat(10), "x", time.Now())
		require.NoError(t, err)
		tx.MarkReconciled()
		repo.On("FindByIDForTenant", mock.Anything, tenantID, tx.ID).Return(tx, nil)

		err = service.DeleteTransaction(context.Background(), tenantID, tx.ID)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "CONFLICT", de.Code)
		repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListGroupsService(t *testing.T) {
	tenantID := uuid.New()

	t.Run("derives groups from the full filtered set", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewGroupingService(repo)

		makeTx := func(group string, index int, status ledger.TransactionStatus) ledger.Transaction {
			tx, err := ledger.NewTransaction(tenantID, ledger.TransactionTypeSale, valueobject.NewMoneyBRLFromFloat(100), "Parcela", time.Date(2026, time.Month(index), 10, 0, 0, 0, 0, time.UTC))
			require.NoError(t, err)
			require.NoError(t, tx.AssignInstallment(group, index, 3))
			tx.Status = status
			return *tx
		}
		rows := []ledger.Transaction{
			makeTx("G1", 1, ledger.StatusPaid),
			makeTx("G1", 2, ledger.StatusPaid),
			makeTx("G1", 3, ledger.StatusPending),
		}

		repo.On("FindAllForTenant", mock.Anything, tenantID, mock.MatchedBy(func(f ledger.TransactionFilter) bool {
			return f.PageSize == 0 // grouping never paginates the source rows
		})).Return(rows, nil)

		resp, err := service.ListGroups(context.Background(), tenantID, TransactionListFilter{})
		require.NoError(t, err)
		require.Len(t, resp.Groups, 1)
		assert.Equal(t, "G1", resp.Groups[0].Key)
		assert.Equal(t, "300.00", resp.Groups[0].Total)
		assert.False(t, resp.Groups[0].IsPaid)
		require.Len(t, resp.Groups[0].Members, 3)
	})
}
