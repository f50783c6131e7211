package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fincontrol/backend/internal/domain/ledger"
	"github.com/fincontrol/backend/internal/domain/shared"
	"github.com/fincontrol/backend/internal/domain/shared/valueobject"
)

// TransactionService provides application-level ledger entry operations
type TransactionService struct {
	txRepo    ledger.TransactionRepository
	txManager shared.TxManager
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(txRepo ledger.TransactionRepository, txManager shared.TxManager) *TransactionService {
	return &TransactionService{
		txRepo:    txRepo,
		txManager: txManager,
	}
}

// TransactionResponse represents a ledger transaction in API responses.
// Monetary values are 2-fraction-digit decimal strings.
type TransactionResponse struct {
	ID               uuid.UUID  `json:"id"`
	TenantID         uuid.UUID  `json:"tenant_id"`
	Type             string     `json:"type"`
	Status           string     `json:"status"`
	Amount           string     `json:"amount"`
	Interest         string     `json:"interest"`
	PaidAmount       *string    `json:"paid_amount,omitempty"`
	OriginalAmount   *string    `json:"original_amount,omitempty"`
	CardFeeAmount    *string    `json:"card_fee_amount,omitempty"`
	Description      string     `json:"description"`
	Category         string     `json:"category,omitempty"`
	CategoryID       *uuid.UUID `json:"category_id,omitempty"`
	CustomerID       *uuid.UUID `json:"customer_id,omitempty"`
	SupplierID       *uuid.UUID `json:"supplier_id,omitempty"`
	DueDate          time.Time  `json:"due_date"`
	PaymentDate      *time.Time `json:"payment_date,omitempty"`
	PaymentMethod    *string    `json:"payment_method,omitempty"`
	InstallmentGroup *string    `json:"installment_group,omitempty"`
	InstallmentIndex *int       `json:"installment_index,omitempty"`
	InstallmentTotal *int       `json:"installment_total,omitempty"`
	Reconciled       bool       `json:"reconciled"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Version          int        `json:"version"`
}

// CreateTransactionRequest represents a request to create a single ledger
// entry
type CreateTransactionRequest struct {
	Type        string          `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Category    string          `json:"category"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	CustomerID  *uuid.UUID      `json:"customer_id"`
	SupplierID  *uuid.UUID      `json:"supplier_id"`
	DueDate     time.Time       `json:"due_date" binding:"required"`
}

// CreateInstallmentPlanRequest represents a request to split one sale or
// purchase into N monthly installments sharing a group key
type CreateInstallmentPlanRequest struct {
	Type         string          `json:"type" binding:"required"`
	TotalAmount  decimal.Decimal `json:"total_amount" binding:"required"`
	Installments int             `json:"installments" binding:"required,min=2,max=120"`
	Description  string          `json:"description" binding:"required"`
	Category     string          `json:"category"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	CustomerID   *uuid.UUID      `json:"customer_id"`
	SupplierID   *uuid.UUID      `json:"supplier_id"`
	FirstDueDate time.Time       `json:"first_due_date" binding:"required"`
	GroupKey     string          `json:"group_key"`
}

// InstallmentPlanResponse is the result of creating an installment plan
type InstallmentPlanResponse struct {
	GroupKey     string                `json:"group_key"`
	Installments []TransactionResponse `json:"installments"`
}

// EditTermsRequest changes a transaction's amount and due date
type EditTermsRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	DueDate time.Time       `json:"due_date"`
}

// BatchRescheduleRequest moves every installment of a group onto a new
// monthly schedule starting at FirstDueDate
type BatchRescheduleRequest struct {
	GroupKey     string    `json:"group_key" binding:"required"`
	FirstDueDate time.Time `json:"first_due_date" binding:"required"`
}

// TransactionListFilter defines filtering options for transaction list
// queries
type TransactionListFilter struct {
	Search           string     `form:"search"`
	Type             string     `form:"type"`
	Status           string     `form:"status"`
	CategoryID       *uuid.UUID `form:"category_id"`
	CustomerID       *uuid.UUID `form:"customer_id"`
	SupplierID       *uuid.UUID `form:"supplier_id"`
	InstallmentGroup string     `form:"installment_group"`
	Reconciled       *bool      `form:"reconciled"`
	DueDateFrom      *time.Time `form:"due_date_from"`
	DueDateTo        *time.Time `form:"due_date_to"`
	Page             int        `form:"page"`
	PageSize         int        `form:"page_size"`
}

func (f TransactionListFilter) toDomain() ledger.TransactionFilter {
	domainFilter := ledger.NewTransactionFilter()
	domainFilter.Page = f.Page
	domainFilter.PageSize = f.PageSize
	domainFilter.Search = f.Search
	domainFilter.CategoryID = f.CategoryID
	domainFilter.CustomerID = f.CustomerID
	domainFilter.SupplierID = f.SupplierID
	domainFilter.Reconciled = f.Reconciled
	domainFilter.DueDateFrom = f.DueDateFrom
	domainFilter.DueDateTo = f.DueDateTo

	if f.Type != "" {
		txType := ledger.TransactionType(f.Type)
		domainFilter.Type = &txType
	}
	if f.Status != "" {
		status := ledger.TransactionStatus(f.Status)
		domainFilter.Status = &status
	}
	if f.InstallmentGroup != "" {
		group := f.InstallmentGroup
		domainFilter.InstallmentGroup = &group
	}
	return domainFilter
}

// CreateTransaction creates a single pending ledger entry
func (s *TransactionService) CreateTransaction(ctx context.Context, tenantID uuid.UUID, req CreateTransactionRequest) (*TransactionResponse, error) {
	amount := valueobject.NewMoneyBRL(req.Amount)

	tx, err := ledger.NewTransaction(tenantID, ledger.TransactionType(req.Type), amount, req.Description, req.DueDate)
	if err != nil {
		return nil, err
	}
	tx.Category = req.Category
	tx.CategoryID = req.CategoryID
	tx.CustomerID = req.CustomerID
	tx.SupplierID = req.SupplierID

	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// CreateInstallmentPlan creates N transactions sharing one group key. The
// total is split with remainder cents on the earliest installments, due
// dates advance monthly from the first, and all rows are written in a
// single store transaction.
func (s *TransactionService) CreateInstallmentPlan(ctx context.Context, tenantID uuid.UUID, req CreateInstallmentPlanRequest) (*InstallmentPlanResponse, error) {
	total := valueobject.NewMoneyBRL(req.TotalAmount)
	if !total.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "total amount must be positive")
	}

	parts, err := total.RoundCents().Allocate(req.Installments)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	groupKey := req.GroupKey
	if groupKey == "" {
		groupKey = uuid.NewString()
	}

	transactions := make([]*ledger.Transaction, 0, req.Installments)
	for i, part := range parts {
		description := fmt.Sprintf("%s (%d/%d)", req.Description, i+1, req.Installments)
		dueDate := req.FirstDueDate.AddDate(0, i, 0)

		tx, err := ledger.NewTransaction(tenantID, ledger.TransactionType(req.Type), part, description, dueDate)
		if err != nil {
			return nil, err
		}
		if err := tx.AssignInstallment(groupKey, i+1, req.Installments); err != nil {
			return nil, err
		}
		tx.Category = req.Category
		tx.CategoryID = req.CategoryID
		tx.CustomerID = req.CustomerID
		tx.SupplierID = req.SupplierID
		transactions = append(transactions, tx)
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		return s.txRepo.SaveAll(txCtx, transactions)
	})
	if err != nil {
		return nil, err
	}

	responses := make([]TransactionResponse, len(transactions))
	for i, tx := range transactions {
		responses[i] = *toTransactionResponse(tx)
	}
	return &InstallmentPlanResponse{GroupKey: groupKey, Installments: responses}, nil
}

// GetTransactionByID gets a transaction by ID
func (s *TransactionService) GetTransactionByID(ctx context.Context, tenantID, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Transaction not found")
	}
	return toTransactionResponse(tx), nil
}

// ListTransactions lists transactions with filtering and pagination
func (s *TransactionService) ListTransactions(ctx context.Context, tenantID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	domainFilter := filter.toDomain()

	transactions, err := s.txRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.txRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = *toTransactionResponse(&transactions[i])
	}
	return responses, total, nil
}

// EditTerms changes a transaction's amount and due date, recording the
// original amount on the first edit
func (s *TransactionService) EditTerms(ctx context.Context, tenantID, id uuid.UUID, req EditTermsRequest) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Transaction not found")
	}

	if err := tx.EditTerms(valueobject.NewMoneyBRL(req.Amount), req.DueDate); err != nil {
		return nil, err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// BatchRescheduleDueDates moves all installments of a group onto a new
// monthly schedule, all rows updated in one store transaction
func (s *TransactionService) BatchRescheduleDueDates(ctx context.Context, tenantID uuid.UUID, req BatchRescheduleRequest) ([]TransactionResponse, error) {
	var updated []*ledger.Transaction

	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		members, err := s.txRepo.FindByGroupForTenant(txCtx, tenantID, req.GroupKey)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			return shared.NewDomainError("NOT_FOUND", "Installment group not found")
		}

		updated = make([]*ledger.Transaction, len(members))
		for i := range members {
			tx := &members[i]
			offset := i
			if tx.InstallmentIndex != nil {
				offset = *tx.InstallmentIndex - 1
			}
			tx.DueDate = req.FirstDueDate.AddDate(0, offset, 0)
			updated[i] = tx
		}
		return s.txRepo.SaveAll(txCtx, updated)
	})
	if err != nil {
		return nil, err
	}

	responses := make([]TransactionResponse, len(updated))
	for i, tx := range updated {
		responses[i] = *toTransactionResponse(tx)
	}
	return responses, nil
}

// CancelTransaction marks the transaction record itself as cancelled
func (s *TransactionService) CancelTransaction(ctx context.Context, tenantID, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Transaction not found")
	}
	if err := tx.Cancel(); err != nil {
		return nil, err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// DeleteTransaction deletes a transaction unless it is reconciled
func (s *TransactionService) DeleteTransaction(ctx context.Context, tenantID, id uuid.UUID) error {
	tx, err := s.txRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if tx == nil {
		return shared.NewDomainError("NOT_FOUND", "Transaction not found")
	}
	if err := tx.CanDelete(); err != nil {
		return err
	}
	return s.txRepo.DeleteForTenant(ctx, tenantID, id)
}

func toTransactionResponse(tx *ledger.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:               tx.ID,
		TenantID:         tx.TenantID,
		Type:             string(tx.Type),
		Status:           string(tx.Status),
		Amount:           tx.Amount.StringFixed(2),
		Interest:         tx.Interest.StringFixed(2),
		Description:      tx.Description,
		Category:         tx.Category,
		CategoryID:       tx.CategoryID,
		CustomerID:       tx.CustomerID,
		SupplierID:       tx.SupplierID,
		DueDate:          tx.DueDate,
		PaymentDate:      tx.PaymentDate,
		InstallmentGroup: tx.InstallmentGroup,
		InstallmentIndex: tx.InstallmentIndex,
		InstallmentTotal: tx.InstallmentTotal,
		Reconciled:       tx.Reconciled,
		CreatedAt:        tx.CreatedAt,
		UpdatedAt:        tx.UpdatedAt,
		Version:          tx.Version,
	}
	if tx.PaidAmount != nil {
		paid := tx.PaidAmount.StringFixed(2)
		resp.PaidAmount = &paid
	}
	if tx.OriginalAmount != nil {
		original := tx.OriginalAmount.StringFixed(2)
		resp.OriginalAmount = &original
	}
	if tx.CardFeeAmount != nil {
		fee := tx.CardFeeAmount.StringFixed(2)
		resp.CardFeeAmount = &fee
	}
	if tx.PaymentMethod != nil {
		method := string(*tx.PaymentMethod)
		resp.PaymentMethod = &method
	}
	return resp
}
