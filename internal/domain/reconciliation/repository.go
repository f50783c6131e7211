package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/fincontrol/backend/internal/domain/shared"
)

// BankItemFilter holds query options for listing bank statement items
type BankItemFilter struct {
	shared.Filter
	Status *BankItemStatus
}

// BankItemRepository persists bank statement items
type BankItemRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*BankStatementItem, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter BankItemFilter) ([]BankStatementItem, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter BankItemFilter) (int64, error)
	Save(ctx context.Context, item *BankStatementItem) error
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}
