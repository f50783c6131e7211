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
	"go.uber.org/zap"

	"github.com/fincontrol/backend/internal/domain/ledger"
	"github.com/fincontrol/backend/internal/domain/shared"
	"github.com/fincontrol/backend/internal/domain/shared/valueobject"
)

func newPendingTransaction(t *testing.T, tenantID uuid.UUID, amount float64) *ledger.Transaction {
	t.Helper()
	tx, err := ledger.NewTransaction(
		tenantID,
		ledger.TransactionTypeSale,
		valueobject.NewMoneyBRLFromFloat(amount),
		"Venda registrada",
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return tx
}

func TestConfirmPaymentService(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name       string
		paid       string
		interest   string
		wantStatus string
	}{
		{"full payment becomes paid", "100.00", "0", "PAID"},
		{"paid plus interest covering amount becomes paid", "95.00", "5.00", "PAID"},
		{"partial payment becomes partial", "30.00", "0", "PARTIAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockTransactionRepository)
			publisher := &capturingPublisher{}
			service := NewPaymentService(repo, publisher, zap.NewNop())

			tx := newPendingTransaction(t, tenantID, 100)
			repo.On("FindByIDForTenant", mock.Anything, tenantID, tx.ID).Return(tx, nil)
			repo.On("Save", mock.Anything, tx).Return(nil)

			paid, _ := decimal.NewFromString(tt.paid)
			interest, _ := decimal.NewFromString(tt.interest)
			resp, err := service.ConfirmPayment(context.Background(), tenantID, tx.ID, ConfirmPaymentRequest{
				PaidAmount:    paid,
				Interest:      interest,
				PaymentMethod: "PIX",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Status)
			require.NotNil(t, resp.PaidAmount)
			assert.Equal(t, tt.paid, *resp.PaidAmount)

			require.Len(t, publisher.topics, 1)
			assert.Equal(t, ledger.EventTypePaymentConfirmed, publisher.topics[0])
			repo.AssertExpectations(t)
		})
	}

	t.Run("missing transaction is not found", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewPaymentService(repo, &capturingPublisher{}, zap.NewNop())
		repo.On("FindByIDForTenant", mock.Anything, tenantID, mock.Anything).Return(nil, nil)

		_, err := service.ConfirmPayment(context.Background(), tenantID, uuid.New(), ConfirmPaymentRequest{
			PaidAmount:    decimal.NewFromInt(10),
			PaymentMethod: "CASH",
		})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "NOT_FOUND", de.Code)
	})

	t.Run("card fee recorded from rate", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewPaymentService(repo, &capturingPublisher{}, zap.NewNop())
		tx := newPendingTransaction(t, tenantID, 200)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, tx.ID).Return(tx, nil)
		repo.On("Save", mock.Anything, tx).Return(nil)

		resp, err := service.ConfirmPayment(context.Background(), tenantID, tx.ID, ConfirmPaymentRequest{
			PaidAmount:    decimal.NewFromInt(200),
			PaymentMethod: "CREDIT_CARD",
			HasCardFee:    true,
			CardFeeRate:   decimal.NewFromFloat(3.5),
		})
		require.NoError(t, err)
		require.NotNil(t, resp.CardFeeAmount)
		assert.Equal(t, "7.00", *resp.CardFeeAmount)
	})

	t.Run("publish failure does not fail the confirmation", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		publisher := &capturingPublisher{err: errors.New("broker down")}
		service := NewPaymentService(repo, publisher, zap.NewNop())
		tx := newPendingTransaction(t, tenantID, 100)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, tx.ID).Return(tx, nil)
		repo.On("Save", mock.Anything, tx).Return(nil)

		resp, err := service.ConfirmPayment(context.Background(), tenantID, tx.ID, ConfirmPaymentRequest{
			PaidAmount:    decimal.NewFromInt(100),
			PaymentMethod: "PIX",
		})
		require.NoError(t, err)
		assert.Equal(t, "PAID", resp.Status)
	})

	t.Run("save failure propagates", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewPaymentService(repo, &capturingPublisher{}, zap.NewNop())
		tx := newPendingTransaction(t, tenantID, 100)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, tx.ID).Return(tx, nil)
		repo.On("Save", mock.Anything, tx).Return(errors.New("store unavailable"))

		_, err := service.ConfirmPayment(context.Background(), tenantID, tx.ID, ConfirmPaymentRequest{
			PaidAmount:    decimal.NewFromInt(100),
			PaymentMethod: "PIX",
		})
		assert.Error(t, err)
	})
}

func TestCancelPaymentService(t *testing.T) {
	tenantID := uuid.New()

	t.Run("cancel then reconfirm reproduces the original state", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewPaymentService(repo, &capturingPublisher{}, zap.NewNop())
		tx := newPendingTransaction(t, tenantID, 100)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, tx.ID).Return(tx, nil)
		repo.On("Save", mock.Anything, tx).Return(nil)

		req := ConfirmPaymentRequest{
			PaidAmount:    decimal.NewFromInt(40),
			PaymentMethod: "BOLETO",
		}
		first, err := service.ConfirmPayment(context.Background(), tenantID, tx.ID, req)
		require.NoError(t, err)
		require.Equal(t, "PARTIAL", first.Status)

		cancelled, err := service.CancelPayment(context.Background(), tenantID, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, "PENDING", cancelled.Status)
		assert.Nil(t, cancelled.PaidAmount)
		assert.Equal(t, "0.00", cancelled.Interest)

		second, err := service.ConfirmPayment(context.Background(), tenantID, tx.ID, req)
		require.NoError(t, err)
		assert.Equal(t, first.Status, second.Status)
		assert.Equal(t, *first.PaidAmount, *second.PaidAmount)
	})

	t.Run("reconciled transaction refuses cancellation", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewPaymentService(repo, &capturingPublisher{}, zap.NewNop())
		tx := newPendingTransaction(t, tenantID, 100)
		require.NoError(t, tx.ConfirmPayment(
			valueobject.NewMoneyBRLFromFloat(100), valueobject.ZeroBRL(),
			time.Now(), ledger.PaymentMethodPix, nil,
		))
		tx.ClearDomainEvents()
		tx.MarkReconciled()
		repo.On("FindByIDForTenant", mock.Anything, tenantID, tx.ID).Return(tx, nil)

		_, err := service.CancelPayment(context.Background(), tenantID, tx.ID)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "CONFLICT", de.Code)
	})

	t.Run("missing transaction is not found", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		service := NewPaymentService(repo, &capturingPublisher{}, zap.NewNop())
		repo.On("FindByIDForTenant", mock.Anything, tenantID, mock.Anything).Return(nil, nil)

		_, err := service.CancelPayment(context.Background(), tenantID, uuid.New())
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "NOT_FOUND", de.Code)
	})
}
