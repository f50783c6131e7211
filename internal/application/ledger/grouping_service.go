package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fincontrol/backend/internal/domain/ledger"
)

// GroupingService derives installment groups from flat ledger rows. Groups
// are recomputed from the store on every call; nothing is cached.
type GroupingService struct {
	txRepo ledger.TransactionRepository
}

// NewGroupingService creates a new GroupingService
func NewGroupingService(txRepo ledger.TransactionRepository) *GroupingService {
	return &GroupingService{txRepo: txRepo}
}

// InstallmentGroupResponse represents a derived installment group
type InstallmentGroupResponse struct {
	Key           string                `json:"key"`
	Description   string                `json:"description"`
	Total         string                `json:"total"`
	TotalInterest string                `json:"total_interest"`
	IsPaid        bool                  `json:"is_paid"`
	Synthetic     bool                  `json:"synthetic"`
	DueDates      []time.Time           `json:"due_dates"`
	Members       []TransactionResponse `json:"members"`
}

// GroupListResponse is the result of a group listing, with diagnostic
// counters for rows the grouping had to patch over
type GroupListResponse struct {
	Groups      []InstallmentGroupResponse `json:"groups"`
	Diagnostics ledger.GroupingDiagnostics `json:"diagnostics"`
}

// ListGroups partitions the tenant's transactions (optionally pre-filtered
// by type, customer or supplier) into installment groups
func (s *GroupingService) ListGroups(ctx context.Context, tenantID uuid.UUID, filter TransactionListFilter) (*GroupListResponse, error) {
	domainFilter := filter.toDomain()
	// grouping needs the full filtered set, not one page
	domainFilter.Page = 0
	domainFilter.PageSize = 0

	transactions, err := s.txRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	rows := make([]*ledger.Transaction, len(transactions))
	for i := range transactions {
		rows[i] = &transactions[i]
	}

	groups, diags := ledger.BuildInstallmentGroups(rows)

	responses := make([]InstallmentGroupResponse, len(groups))
	for i, g := range groups {
		members := make([]TransactionResponse, len(g.Members))
		for j, m := range g.Members {
			members[j] = *toTransactionResponse(m)
		}
		responses[i] = InstallmentGroupResponse{
			Key:           g.Key,
			Description:   g.Description,
			Total:         g.Total.StringFixed(2),
			TotalInterest: g.TotalInterest.StringFixed(2),
			IsPaid:        g.IsPaid,
			Synthetic:     g.Synthetic,
			DueDates:      g.DisplayDueDates,
			Members:       members,
		}
	}

	return &GroupListResponse{Groups: responses, Diagnostics: diags}, nil
}
