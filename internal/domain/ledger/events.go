package ledger

import (
	"github.com/fincontrol/backend/internal/domain/shared"
)

// Event types for the ledger context
const (
	EventTypePaymentConfirmed = "payment_confirmed"
	EventTypePaymentCancelled = "payment_cancelled"
)

// PaymentConfirmedEvent is emitted when a payment is recorded against a
// transaction
type PaymentConfirmedEvent struct {
	shared.BaseDomainEvent
	TransactionType string `json:"transaction_type"`
	Amount          string `json:"amount"`
	PaidAmount      string `json:"paid_amount"`
	Interest        string `json:"interest"`
	Status          string `json:"status"`
	PaymentMethod   string `json:"payment_method"`
}

// NewPaymentConfirmedEvent creates a payment confirmed event from the
// transaction state after the payment was applied
func NewPaymentConfirmedEvent(t *Transaction) *PaymentConfirmedEvent {
	paid := ""
	if t.PaidAmount != nil {
		paid = t.PaidAmount.StringFixed(2)
	}
	method := ""
	if t.PaymentMethod != nil {
		method = string(*t.PaymentMethod)
	}
	return &PaymentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentConfirmed, "Transaction", t.ID, t.TenantID),
		TransactionType: string(t.Type),
		Amount:          t.Amount.StringFixed(2),
		PaidAmount:      paid,
		Interest:        t.Interest.StringFixed(2),
		Status:          string(t.Status),
		PaymentMethod:   method,
	}
}

// PaymentCancelledEvent is emitted when a recorded payment is reverted
type PaymentCancelledEvent struct {
	shared.BaseDomainEvent
	TransactionType string `json:"transaction_type"`
	Amount          string `json:"amount"`
}

// NewPaymentCancelledEvent creates a payment cancelled event
func NewPaymentCancelledEvent(t *Transaction) *PaymentCancelledEvent {
	return &PaymentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCancelled, "Transaction", t.ID, t.TenantID),
		TransactionType: string(t.Type),
		Amount:          t.Amount.StringFixed(2),
	}
}
