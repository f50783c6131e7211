package reconciliation

import (
	"github.com/fincontrol/backend/internal/domain/shared"
)

// EventTypeBankItemMatched is emitted when a bank item is linked to a
// ledger transaction
const EventTypeBankItemMatched = "bank_item_matched"

// BankItemMatchedEvent carries the details of a completed match
type BankItemMatchedEvent struct {
	shared.BaseDomainEvent
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	ItemDate      string `json:"item_date"`
}

// NewBankItemMatchedEvent creates a matched event from the item state after
// the link was recorded
func NewBankItemMatchedEvent(b *BankStatementItem) *BankItemMatchedEvent {
	txID := ""
	if b.TransactionID != nil {
		txID = b.TransactionID.String()
	}
	return &BankItemMatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBankItemMatched, "BankStatementItem", b.ID, b.TenantID),
		TransactionID:   txID,
		Amount:          b.Amount.StringFixed(2),
		ItemDate:        b.Date.Format("2006-01-02"),
	}
}
