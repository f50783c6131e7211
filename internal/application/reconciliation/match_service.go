package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fincontrol/backend/internal/domain/ledger"
	"github.com/fincontrol/backend/internal/domain/reconciliation"
	"github.com/fincontrol/backend/internal/domain/shared"
	"github.com/fincontrol/backend/internal/domain/shared/valueobject"
)

// MatchService links bank statement items to ledger transactions
type MatchService struct {
	bankRepo  reconciliation.BankItemRepository
	txRepo    ledger.TransactionRepository
	txManager shared.TxManager
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewMatchService creates a new MatchService
func NewMatchService(
	bankRepo reconciliation.BankItemRepository,
	txRepo ledger.TransactionRepository,
	txManager shared.TxManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *MatchService {
	return &MatchService{
		bankRepo:  bankRepo,
		txRepo:    txRepo,
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
	}
}

// BankItemResponse represents a bank statement item in API responses
type BankItemResponse struct {
	ID            uuid.UUID  `json:"id"`
	TenantID      uuid.UUID  `json:"tenant_id"`
	Date          time.Time  `json:"date"`
	Amount        string     `json:"amount"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateBankItemRequest represents an imported statement line
type CreateBankItemRequest struct {
	Date        time.Time       `json:"date" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// MatchRequest links a bank item to a transaction
type MatchRequest struct {
	TransactionID uuid.UUID `json:"transaction_id" binding:"required"`
}

// BankItemListFilter defines filtering options for bank item list queries
type BankItemListFilter struct {
	Status   string `form:"status"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateBankItem records an imported statement line as pending
func (s *MatchService) CreateBankItem(ctx context.Context, tenantID uuid.UUID, req CreateBankItemRequest) (*BankItemResponse, error) {
	item, err := reconciliation.NewBankStatementItem(tenantID, req.Date, valueobject.NewMoneyBRL(req.Amount), req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.bankRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return toBankItemResponse(item), nil
}

// Match atomically reconciles a bank item with a ledger transaction: the
// item is marked RECONCILED with the link recorded, and the transaction's
// reconciled flag is set. Both writes happen in one store transaction, so
// a failure leaves neither applied. Matching the same pair again is a
// no-op; an item linked to a different transaction fails with CONFLICT.
func (s *MatchService) Match(ctx context.Context, tenantID, bankItemID, transactionID uuid.UUID) (*BankItemResponse, error) {
	var item *reconciliation.BankStatementItem

	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		item, err = s.bankRepo.FindByIDForTenant(txCtx, tenantID, bankItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return shared.NewDomainError("NOT_FOUND", "Bank statement item not found")
		}

		tx, err := s.txRepo.FindByIDForTenant(txCtx, tenantID, transactionID)
		if err != nil {
			return err
		}
		if tx == nil {
			return shared.NewDomainError("NOT_FOUND", "Transaction not found")
		}

		if item.IsMatchedTo(transactionID) && tx.Reconciled {
			return nil
		}

		if err := item.MatchTo(transactionID); err != nil {
			return err
		}
		tx.MarkReconciled()

		if err := s.bankRepo.Save(txCtx, item); err != nil {
			return err
		}
		return s.txRepo.Save(txCtx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(item)
	return toBankItemResponse(item), nil
}

// ListBankItems lists bank statement items with filtering
func (s *MatchService) ListBankItems(ctx context.Context, tenantID uuid.UUID, filter BankItemListFilter) ([]BankItemResponse, int64, error) {
	domainFilter := reconciliation.BankItemFilter{Filter: shared.DefaultFilter()}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		status := reconciliation.BankItemStatus(filter.Status)
		domainFilter.Status = &status
	}

	items, err := s.bankRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.bankRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BankItemResponse, len(items))
	for i := range items {
		responses[i] = *toBankItemResponse(&items[i])
	}
	return responses, total, nil
}

// Clear deletes every bank statement item for a tenant. Transaction
// reconciled flags are not reverted; callers re-import and re-match.
func (s *MatchService) Clear(ctx context.Context, tenantID uuid.UUID) error {
	return s.bankRepo.DeleteAllForTenant(ctx, tenantID)
}

func (s *MatchService) publishEvents(item *reconciliation.BankStatementItem) {
	for _, event := range item.GetDomainEvents() {
		if err := s.publisher.Publish(event.EventType(), event); err != nil {
			s.logger.Warn("failed to publish reconciliation event",
				zap.String("event_type", event.EventType()),
				zap.String("bank_item_id", item.ID.String()),
				zap.Error(err),
			)
		}
	}
	item.ClearDomainEvents()
}

func toBankItemResponse(item *reconciliation.BankStatementItem) *BankItemResponse {
	return &BankItemResponse{
		ID:            item.ID,
		TenantID:      item.TenantID,
		Date:          item.Date,
		Amount:        item.Amount.StringFixed(2),
		Description:   item.Description,
		Status:        string(item.Status),
		TransactionID: item.TransactionID,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}
