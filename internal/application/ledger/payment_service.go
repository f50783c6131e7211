package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fincontrol/backend/internal/domain/ledger"
	"github.com/fincontrol/backend/internal/domain/shared"
	"github.com/fincontrol/backend/internal/domain/shared/valueobject"
)

// PaymentService drives the per-transaction payment state machine
type PaymentService struct {
	txRepo    ledger.TransactionRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(txRepo ledger.TransactionRepository, publisher shared.EventPublisher, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		txRepo:    txRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// ConfirmPaymentRequest represents a request to record a payment
type ConfirmPaymentRequest struct {
	PaidAmount    decimal.Decimal `json:"paid_amount" binding:"required"`
	Interest      decimal.Decimal `json:"interest"`
	PaymentDate   *time.Time      `json:"payment_date"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	HasCardFee    bool            `json:"has_card_fee"`
	CardFeeRate   decimal.Decimal `json:"card_fee_rate"`
}

// ConfirmPayment records a payment against a transaction. The resulting
// status is PAID when paid+interest covers the amount, PARTIAL otherwise.
// Sibling installments in the same group are never advanced.
func (s *PaymentService) ConfirmPayment(ctx context.Context, tenantID, id uuid.UUID, req ConfirmPaymentRequest) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Transaction not found")
	}

	paymentDate := time.Time{}
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}
	var cardFeeRate *decimal.Decimal
	if req.HasCardFee {
		cardFeeRate = &req.CardFeeRate
	}

	err = tx.ConfirmPayment(
		valueobject.NewMoneyBRL(req.PaidAmount),
		valueobject.NewMoneyBRL(req.Interest),
		paymentDate,
		ledger.PaymentMethod(req.PaymentMethod),
		cardFeeRate,
	)
	if err != nil {
		return nil, err
	}

	// Last write wins on concurrent confirmations; the payment path does
	// not use optimistic locking.
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}

	s.publishEvents(tx)
	return toTransactionResponse(tx), nil
}

// CancelPayment reverts a recorded payment, resetting the transaction to
// PENDING. Reconciled transactions refuse cancellation; they must be
// un-matched first.
func (s *PaymentService) CancelPayment(ctx context.Context, tenantID, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Transaction not found")
	}

	if err := tx.CancelPayment(); err != nil {
		return nil, err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}

	s.publishEvents(tx)
	return toTransactionResponse(tx), nil
}

// publishEvents delivers the aggregate's pending events, best effort
func (s *PaymentService) publishEvents(tx *ledger.Transaction) {
	for _, event := range tx.GetDomainEvents() {
		if err := s.publisher.Publish(event.EventType(), event); err != nil {
			s.logger.Warn("failed to publish payment event",
				zap.String("event_type", event.EventType()),
				zap.String("transaction_id", tx.ID.String()),
				zap.Error(err),
			)
		}
	}
	tx.ClearDomainEvents()
}
