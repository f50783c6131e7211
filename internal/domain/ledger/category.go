package ledger

import (
	"strings"

	"github.com/google/uuid"

	"github.com/fincontrol/backend/internal/domain/shared"
)

// CategoryType classifies a category as revenue or cost side
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

// IsValid checks if the category type is valid
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category classifies transactions for reporting. No lifecycle beyond CRUD.
type Category struct {
	shared.TenantAggregateRoot
	Name string
	Type CategoryType
}

// NewCategory creates a new category
func NewCategory(tenantID uuid.UUID, name string, catType CategoryType) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "category name cannot be empty")
	}
	if !catType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "invalid category type: "+string(catType))
	}
	return &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Type:                catType,
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "category name cannot be empty")
	}
	c.Name = name
	return nil
}
