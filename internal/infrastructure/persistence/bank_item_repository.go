package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fincontrol/backend/internal/domain/reconciliation"
	"github.com/fincontrol/backend/internal/infrastructure/persistence/models"
)

// GormBankItemRepository implements reconciliation.BankItemRepository using GORM
type GormBankItemRepository struct {
	db *gorm.DB
}

// NewGormBankItemRepository creates a new GormBankItemRepository
func NewGormBankItemRepository(db *gorm.DB) *GormBankItemRepository {
	return &GormBankItemRepository{db: db}
}

// FindByIDForTenant finds a bank statement item by ID for a specific tenant.
// Returns nil without error when no row matches.
func (r *GormBankItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*reconciliation.BankStatementItem, error) {
	var model models.BankStatementItemModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all bank statement items for a tenant with filtering
func (r *GormBankItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter reconciliation.BankItemFilter) ([]reconciliation.BankStatementItem, error) {
	var itemModels []models.BankStatementItemModel
	query := dbFromContext(ctx, r.db).Model(&models.BankStatementItemModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter, true)

	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]reconciliation.BankStatementItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// CountForTenant counts bank statement items for a tenant with filtering
func (r *GormBankItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter reconciliation.BankItemFilter) (int64, error) {
	var count int64
	query := dbFromContext(ctx, r.db).Model(&models.BankStatementItemModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter, false)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a bank statement item
func (r *GormBankItemRepository) Save(ctx context.Context, item *reconciliation.BankStatementItem) error {
	model := models.BankStatementItemModelFromDomain(item)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// DeleteAllForTenant removes every bank statement item of a tenant. Matched
// ledger transactions keep their reconciled flag; clearing the statement is
// not an undo of past matches.
func (r *GormBankItemRepository) DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return dbFromContext(ctx, r.db).
		Delete(&models.BankStatementItemModel{}, "tenant_id = ?", tenantID).Error
}

// applyFilter applies filter conditions to query
func (r *GormBankItemRepository) applyFilter(query *gorm.DB, filter reconciliation.BankItemFilter, paginate bool) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("description LIKE ?", "%"+filter.Search+"%")
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if !paginate {
		return query
	}

	sortField := ValidateSortField(filter.OrderBy, BankItemSortFields, "date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	return query
}
