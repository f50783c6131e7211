package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fincontrol/backend/internal/domain/ledger"
	"github.com/fincontrol/backend/internal/domain/shared/valueobject"
)

// moneyFromNull converts a nullable decimal column to an optional Money.
func moneyFromNull(d decimal.NullDecimal) *valueobject.Money {
	if !d.Valid {
		return nil
	}
	m := valueobject.NewMoneyBRL(d.Decimal)
	return &m
}

// nullFromMoney converts an optional Money to a nullable decimal column.
func nullFromMoney(m *valueobject.Money) decimal.NullDecimal {
	if m == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: m.Amount(), Valid: true}
}

// TransactionModel is the persistence model for the Transaction aggregate root.
type TransactionModel struct {
	TenantAggregateModel
	Type             ledger.TransactionType   `gorm:"type:varchar(20);not null;index"`
	Amount           decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Interest         decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount       decimal.NullDecimal      `gorm:"type:decimal(18,2)"`
	OriginalAmount   decimal.NullDecimal      `gorm:"type:decimal(18,2)"`
	CardFeeAmount    decimal.NullDecimal      `gorm:"type:decimal(18,2)"`
	Description      string                   `gorm:"type:varchar(500);not null"`
	Category         string                   `gorm:"type:varchar(120);index"`
	CategoryID       *uuid.UUID               `gorm:"type:uuid;index"`
	CustomerID       *uuid.UUID               `gorm:"type:uuid;index"`
	SupplierID       *uuid.UUID               `gorm:"type:uuid;index"`
	DueDate          time.Time                `gorm:"not null;index"`
	PaymentDate      *time.Time               `gorm:"index"`
	PaymentMethod    *ledger.PaymentMethod    `gorm:"type:varchar(20)"`
	Status           ledger.TransactionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	InstallmentGroup *string                  `gorm:"type:varchar(200);index"`
	InstallmentIndex *int
	InstallmentTotal *int
	Reconciled       bool `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction entity.
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	t := &ledger.Transaction{
		Type:             m.Type,
		Amount:           valueobject.NewMoneyBRL(m.Amount),
		Interest:         valueobject.NewMoneyBRL(m.Interest),
		PaidAmount:       moneyFromNull(m.PaidAmount),
		OriginalAmount:   moneyFromNull(m.OriginalAmount),
		CardFeeAmount:    moneyFromNull(m.CardFeeAmount),
		Description:      m.Description,
		Category:         m.Category,
		CategoryID:       m.CategoryID,
		CustomerID:       m.CustomerID,
		SupplierID:       m.SupplierID,
		DueDate:          m.DueDate,
		PaymentDate:      m.PaymentDate,
		PaymentMethod:    m.PaymentMethod,
		Status:           m.Status,
		InstallmentGroup: m.InstallmentGroup,
		InstallmentIndex: m.InstallmentIndex,
		InstallmentTotal: m.InstallmentTotal,
		Reconciled:       m.Reconciled,
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain Transaction entity.
func (m *TransactionModel) FromDomain(t *ledger.Transaction) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.Type = t.Type
	m.Amount = t.Amount.Amount()
	m.Interest = t.Interest.Amount()
	m.PaidAmount = nullFromMoney(t.PaidAmount)
	m.OriginalAmount = nullFromMoney(t.OriginalAmount)
	m.CardFeeAmount = nullFromMoney(t.CardFeeAmount)
	m.Description = t.Description
	m.Category = t.Category
	m.CategoryID = t.CategoryID
	m.CustomerID = t.CustomerID
	m.SupplierID = t.SupplierID
	m.DueDate = t.DueDate
	m.PaymentDate = t.PaymentDate
	m.PaymentMethod = t.PaymentMethod
	m.Status = t.Status
	m.InstallmentGroup = t.InstallmentGroup
	m.InstallmentIndex = t.InstallmentIndex
	m.InstallmentTotal = t.InstallmentTotal
	m.Reconciled = t.Reconciled
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction.
func TransactionModelFromDomain(t *ledger.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}

// CategoryModel is the persistence model for the Category aggregate root.
type CategoryModel struct {
	TenantAggregateModel
	Name string              `gorm:"type:varchar(120);not null;uniqueIndex:idx_category_tenant_name,priority:2"`
	Type ledger.CategoryType `gorm:"type:varchar(10);not null;index"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *ledger.Category {
	c := &ledger.Category{
		Name: m.Name,
		Type: m.Type,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *ledger.Category) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Type = c.Type
}

// CategoryModelFromDomain creates a new persistence model from a domain Category.
func CategoryModelFromDomain(c *ledger.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}
