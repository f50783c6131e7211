package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fincontrol/backend/internal/domain/shared"
)

// TransactionFilter holds query options for listing transactions
type TransactionFilter struct {
	shared.Filter
	Type             *TransactionType
	Status           *TransactionStatus
	CategoryID       *uuid.UUID
	CustomerID       *uuid.UUID
	SupplierID       *uuid.UUID
	InstallmentGroup *string
	Reconciled       *bool
	DueDateFrom      *time.Time
	DueDateTo        *time.Time
}

// NewTransactionFilter returns a filter with defaults applied
func NewTransactionFilter() TransactionFilter {
	return TransactionFilter{Filter: shared.DefaultFilter()}
}

// TransactionRepository persists ledger transactions
type TransactionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Transaction, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter) ([]Transaction, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter) (int64, error)
	FindByGroupForTenant(ctx context.Context, tenantID uuid.UUID, groupKey string) ([]Transaction, error)
	Save(ctx context.Context, transaction *Transaction) error
	SaveAll(ctx context.Context, transactions []*Transaction) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// CategoryFilter holds query options for listing categories
type CategoryFilter struct {
	shared.Filter
	Type *CategoryType
}

// CategoryRepository persists reporting categories
type CategoryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter CategoryFilter) ([]Category, error)
	FindByNameForTenant(ctx context.Context, tenantID uuid.UUID, name string) (*Category, error)
	Save(ctx context.Context, category *Category) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
