package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fincontrol/backend/internal/domain/reconciliation"
	"github.com/fincontrol/backend/internal/domain/shared/valueobject"
)

// BankStatementItemModel is the persistence model for the BankStatementItem
// aggregate root.
type BankStatementItemModel struct {
	TenantAggregateModel
	Date          time.Time                     `gorm:"not null;index"`
	Amount        decimal.Decimal               `gorm:"type:decimal(18,2);not null"`
	Description   string                        `gorm:"type:varchar(500)"`
	Status        reconciliation.BankItemStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	TransactionID *uuid.UUID                    `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (BankStatementItemModel) TableName() string {
	return "bank_statement_items"
}

// ToDomain converts the persistence model to a domain BankStatementItem entity.
func (m *BankStatementItemModel) ToDomain() *reconciliation.BankStatementItem {
	b := &reconciliation.BankStatementItem{
		Date:          m.Date,
		Amount:        valueobject.NewMoneyBRL(m.Amount),
		Description:   m.Description,
		Status:        m.Status,
		TransactionID: m.TransactionID,
	}
	m.PopulateTenantAggregateRoot(&b.TenantAggregateRoot)
	return b
}

// FromDomain populates the persistence model from a domain BankStatementItem entity.
func (m *BankStatementItemModel) FromDomain(b *reconciliation.BankStatementItem) {
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	m.Date = b.Date
	m.Amount = b.Amount.Amount()
	m.Description = b.Description
	m.Status = b.Status
	m.TransactionID = b.TransactionID
}

// BankStatementItemModelFromDomain creates a new persistence model from a domain BankStatementItem.
func BankStatementItemModelFromDomain(b *reconciliation.BankStatementItem) *BankStatementItemModel {
	m := &BankStatementItemModel{}
	m.FromDomain(b)
	return m
}
