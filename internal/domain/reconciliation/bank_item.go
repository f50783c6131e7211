package reconciliation

import (
	"time"

	"github.com/google/uuid"

	"github.com/fincontrol/backend/internal/domain/shared"
	"github.com/fincontrol/backend/internal/domain/shared/valueobject"
)

// BankItemStatus represents the reconciliation status of a statement line
type BankItemStatus string

const (
	BankItemStatusPending    BankItemStatus = "PENDING"
	BankItemStatusReconciled BankItemStatus = "RECONCILED"
)

// IsValid checks if the status is valid
func (s BankItemStatus) IsValid() bool {
	return s == BankItemStatusPending || s == BankItemStatusReconciled
}

// BankStatementItem is one imported bank statement line. Items are created
// by an external import and mutated only by the reconciliation matcher.
type BankStatementItem struct {
	shared.TenantAggregateRoot
	Date          time.Time
	Amount        valueobject.Money
	Description   string
	Status        BankItemStatus
	TransactionID *uuid.UUID
}

// NewBankStatementItem creates a pending statement item
func NewBankStatementItem(tenantID uuid.UUID, date time.Time, amount valueobject.Money, description string) (*BankStatementItem, error) {
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "bank item date is required")
	}
	if amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "bank item amount cannot be zero")
	}
	return &BankStatementItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Date:                date,
		Amount:              amount.RoundCents(),
		Description:         description,
		Status:              BankItemStatusPending,
	}, nil
}

// MatchTo links the item to a ledger transaction and marks it reconciled.
// Matching the same pair again is a no-op; an item already linked to a
// different transaction refuses the new link with CONFLICT rather than
// silently overwriting.
func (b *BankStatementItem) MatchTo(transactionID uuid.UUID) error {
	if b.Status == BankItemStatusReconciled {
		if b.TransactionID != nil && *b.TransactionID == transactionID {
			return nil
		}
		return shared.NewDomainError("CONFLICT", "bank item is already reconciled to a different transaction")
	}
	b.Status = BankItemStatusReconciled
	b.TransactionID = &transactionID
	b.AddDomainEvent(NewBankItemMatchedEvent(b))
	return nil
}

// IsMatchedTo returns true if the item is already linked to the given
// transaction
func (b *BankStatementItem) IsMatchedTo(transactionID uuid.UUID) bool {
	return b.Status == BankItemStatusReconciled &&
		b.TransactionID != nil && *b.TransactionID == transactionID
}
