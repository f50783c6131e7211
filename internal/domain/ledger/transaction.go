package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fincontrol/backend/internal/domain/shared"
	"github.com/fincontrol/backend/internal/domain/shared/valueobject"
)

// TransactionType classifies a ledger entry
type TransactionType string

const (
	TransactionTypeSale       TransactionType = "SALE"
	TransactionTypePurchase   TransactionType = "PURCHASE"
	TransactionTypeRefund     TransactionType = "REFUND"
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
	TransactionTypePayment    TransactionType = "PAYMENT"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeSale, TransactionTypePurchase, TransactionTypeRefund,
		TransactionTypeAdjustment, TransactionTypePayment:
		return true
	}
	return false
}

// IsIncome returns true for revenue-side entries
func (t TransactionType) IsIncome() bool {
	return t == TransactionTypeSale
}

// IsExpense returns true for cost-side entries
func (t TransactionType) IsExpense() bool {
	return t == TransactionTypePurchase
}

// TransactionStatus represents the payment status of a transaction
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusPartial   TransactionStatus = "PARTIAL"
	StatusPaid      TransactionStatus = "PAID"
	StatusCancelled TransactionStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// CanConfirmPayment returns true if a payment can be recorded in this status.
// PAID is included: a second confirmation overwrites the first (last write
// wins, see ConfirmPayment).
func (s TransactionStatus) CanConfirmPayment() bool {
	return s == StatusPending || s == StatusPartial || s == StatusPaid
}

// CanCancelPayment returns true if a recorded payment can be reverted
func (s TransactionStatus) CanCancelPayment() bool {
	return s == StatusPartial || s == StatusPaid
}

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodPix          PaymentMethod = "PIX"
	PaymentMethodBoleto       PaymentMethod = "BOLETO"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodPix, PaymentMethodBoleto,
		PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodBankTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// IsCard returns true for card-based methods, which may carry a card fee
func (m PaymentMethod) IsCard() bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodDebitCard
}

// Transaction is a ledger row: one sale, purchase or adjustment entry,
// optionally one installment of a larger plan. It is the aggregate root of
// the ledger context; payment fields are mutated only through the methods
// below.
type Transaction struct {
	shared.TenantAggregateRoot
	Type             TransactionType
	Amount           valueobject.Money
	Interest         valueobject.Money
	PaidAmount       *valueobject.Money
	OriginalAmount   *valueobject.Money
	CardFeeAmount    *valueobject.Money
	Description      string
	Category         string
	CategoryID       *uuid.UUID
	CustomerID       *uuid.UUID
	SupplierID       *uuid.UUID
	DueDate          time.Time
	PaymentDate      *time.Time
	PaymentMethod    *PaymentMethod
	Status           TransactionStatus
	InstallmentGroup *string
	InstallmentIndex *int
	InstallmentTotal *int
	Reconciled       bool
}

// NewTransaction creates a new pending transaction
func NewTransaction(tenantID uuid.UUID, txType TransactionType, amount valueobject.Money, description string, dueDate time.Time) (*Transaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "invalid transaction type: "+string(txType))
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "transaction amount must be positive")
	}
	return &Transaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                txType,
		Amount:              amount.RoundCents(),
		Interest:            valueobject.ZeroBRL(),
		Description:         description,
		DueDate:             dueDate,
		Status:              StatusPending,
	}, nil
}

// AssignInstallment marks this transaction as installment index of total
// within the given group
func (t *Transaction) AssignInstallment(groupKey string, index, total int) error {
	if groupKey == "" {
		return shared.NewDomainError("INVALID_INPUT", "installment group key cannot be empty")
	}
	if index < 1 || total < 1 || index > total {
		return shared.NewDomainError("INVALID_INPUT", "installment index must be within 1..total")
	}
	t.InstallmentGroup = &groupKey
	t.InstallmentIndex = &index
	t.InstallmentTotal = &total
	return nil
}

// ConfirmPayment records a payment against the transaction. The resulting
// status is derived from the cent-rounded total: paid+interest >= amount
// means PAID, anything above zero but below the amount means PARTIAL.
// Re-confirming overwrites the previous payment (last write wins); only
// CANCELLED blocks the operation. Sibling installments are never touched.
func (t *Transaction) ConfirmPayment(paid, interest valueobject.Money, paymentDate time.Time, method PaymentMethod, cardFeeRate *decimal.Decimal) error {
	if !t.Status.CanConfirmPayment() {
		return shared.NewDomainError("INVALID_STATE", "cannot confirm payment on a cancelled transaction")
	}
	if !paid.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "paid amount must be positive")
	}
	if interest.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "interest cannot be negative")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "invalid payment method: "+string(method))
	}

	paid = paid.RoundCents()
	interest = interest.RoundCents()
	totalPaid := paid.MustAdd(interest).RoundCents()

	fullyPaid, err := totalPaid.GreaterThanOrEqual(t.Amount.RoundCents())
	if err != nil {
		return shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	t.PaidAmount = &paid
	t.Interest = interest
	t.PaymentDate = &paymentDate
	t.PaymentMethod = &method
	if cardFeeRate != nil {
		fee := paid.CalculatePercentage(*cardFeeRate).RoundCents()
		t.CardFeeAmount = &fee
	} else {
		t.CardFeeAmount = nil
	}

	if fullyPaid {
		t.Status = StatusPaid
	} else {
		t.Status = StatusPartial
	}

	t.AddDomainEvent(NewPaymentConfirmedEvent(t))
	return nil
}

// CancelPayment reverts a recorded payment, resetting the transaction to
// PENDING and clearing all payment fields. This is the only backward
// transition in the state machine. A reconciled transaction must be
// un-matched before its payment can be cancelled.
func (t *Transaction) CancelPayment() error {
	if t.Reconciled {
		return shared.NewDomainError("CONFLICT", "cannot cancel payment on a reconciled transaction")
	}
	if !t.Status.CanCancelPayment() {
		return shared.NewDomainError("INVALID_STATE", "no recorded payment to cancel")
	}

	t.Status = StatusPending
	t.PaidAmount = nil
	t.PaymentDate = nil
	t.PaymentMethod = nil
	t.CardFeeAmount = nil
	t.Interest = valueobject.ZeroBRL()

	t.AddDomainEvent(NewPaymentCancelledEvent(t))
	return nil
}

// Cancel marks the transaction record itself as cancelled. Only PENDING and
// PARTIAL rows can be cancelled: PAID is terminal, so realized revenue cannot
// silently leave the books. Cancel the payment first to void a paid row.
func (t *Transaction) Cancel() error {
	if t.Reconciled {
		return shared.NewDomainError("CONFLICT", "cannot cancel a reconciled transaction")
	}
	if t.Status == StatusPaid {
		return shared.NewDomainError("INVALID_STATE", "cannot cancel a paid transaction; cancel the payment first")
	}
	if t.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "transaction is already cancelled")
	}
	t.Status = StatusCancelled
	return nil
}

// EditTerms changes the amount and due date of a non-cancelled transaction.
// The pre-edit amount is recorded as OriginalAmount on the first edit only;
// later edits keep the first recorded original. Status is unchanged.
func (t *Transaction) EditTerms(newAmount valueobject.Money, newDueDate time.Time) error {
	if t.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "cannot edit a cancelled transaction")
	}
	if !newAmount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "transaction amount must be positive")
	}
	if t.OriginalAmount == nil {
		original := t.Amount
		t.OriginalAmount = &original
	}
	t.Amount = newAmount.RoundCents()
	if !newDueDate.IsZero() {
		t.DueDate = newDueDate
	}
	return nil
}

// MarkReconciled flags the transaction as matched to a bank statement item
func (t *Transaction) MarkReconciled() {
	t.Reconciled = true
}

// CanDelete returns an error when the transaction must not be deleted
func (t *Transaction) CanDelete() error {
	if t.Reconciled {
		return shared.NewDomainError("CONFLICT", "cannot delete a reconciled transaction")
	}
	return nil
}

// TotalDue returns amount plus accrued interest, rounded to cents
func (t *Transaction) TotalDue() valueobject.Money {
	return t.Amount.MustAdd(t.Interest).RoundCents()
}
