package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fincontrol/backend/internal/domain/ledger"
	"github.com/fincontrol/backend/internal/domain/report"
	"github.com/fincontrol/backend/internal/domain/shared"
)

// DREService computes income-statement rollups. It re-reads the store on
// every request; ledger state is never cached across requests.
type DREService struct {
	txRepo       ledger.TransactionRepository
	categoryRepo ledger.CategoryRepository
	classify     report.Classifier
}

// NewDREService creates a new DREService. A nil classifier falls back to
// the default keyword table.
func NewDREService(txRepo ledger.TransactionRepository, categoryRepo ledger.CategoryRepository, classify report.Classifier) *DREService {
	if classify == nil {
		classify = report.DefaultClassifier
	}
	return &DREService{
		txRepo:       txRepo,
		categoryRepo: categoryRepo,
		classify:     classify,
	}
}

// DREFilter bounds the reporting period
type DREFilter struct {
	FromDate *time.Time `form:"from_date"`
	ToDate   *time.Time `form:"to_date"`
}

// DREResponse is the income statement rollup. Money values are
// 2-fraction-digit decimal strings; margins are percentages.
type DREResponse struct {
	GrossRevenue      string                       `json:"gross_revenue"`
	RevenueByCategory map[string]string            `json:"revenue_by_category"`
	Deductions        string                       `json:"deductions"`
	NetRevenue        string                       `json:"net_revenue"`
	DirectCosts       string                       `json:"direct_costs"`
	GrossProfit       string                       `json:"gross_profit"`
	GrossMargin       decimal.Decimal              `json:"gross_margin"`
	SellingExpenses   string                       `json:"selling_expenses"`
	AdminExpenses     string                       `json:"admin_expenses"`
	OtherExpenses     string                       `json:"other_operating_expenses"`
	OperatingResult   string                       `json:"operating_result"`
	OperatingMargin   decimal.Decimal              `json:"operating_margin"`
	Taxes             string                       `json:"taxes"`
	NetResult         string                       `json:"net_result"`
	NetMargin         decimal.Decimal              `json:"net_margin"`
	PaymentMethods    map[string]MethodBreakdown   `json:"payment_methods"`
	Diagnostics       report.Diagnostics           `json:"diagnostics"`
}

// MethodBreakdown is the per-payment-method drill-down
type MethodBreakdown struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Count   int    `json:"count"`
}

// GetDRE fetches the tenant's ledger rows and category metadata for the
// period and computes the statement. Cancelled transactions are excluded;
// everything else flows into the pure computation.
func (s *DREService) GetDRE(ctx context.Context, tenantID uuid.UUID, filter DREFilter) (*DREResponse, error) {
	domainFilter := ledger.NewTransactionFilter()
	domainFilter.Page = 0
	domainFilter.PageSize = 0
	domainFilter.DueDateFrom = filter.FromDate
	domainFilter.DueDateTo = filter.ToDate

	transactions, err := s.txRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	active := transactions[:0]
	for _, tx := range transactions {
		if tx.Status != ledger.StatusCancelled {
			active = append(active, tx)
		}
	}

	categories, err := s.categoryRepo.FindAllForTenant(ctx, tenantID, ledger.CategoryFilter{Filter: shared.Filter{}})
	if err != nil {
		return nil, err
	}

	stmt := report.Compute(active, categories, s.classify)
	return toDREResponse(stmt), nil
}

func toDREResponse(stmt report.Statement) *DREResponse {
	revenue := make(map[string]string, len(stmt.RevenueByCategory))
	for name, amount := range stmt.RevenueByCategory {
		revenue[name] = amount.StringFixed(2)
	}
	methods := make(map[string]MethodBreakdown, len(stmt.PaymentMethods))
	for method, entry := range stmt.PaymentMethods {
		methods[method] = MethodBreakdown{
			Income:  entry.Income.StringFixed(2),
			Expense: entry.Expense.StringFixed(2),
			Count:   entry.Count,
		}
	}
	return &DREResponse{
		GrossRevenue:      stmt.GrossRevenue.StringFixed(2),
		RevenueByCategory: revenue,
		Deductions:        stmt.Deductions.StringFixed(2),
		NetRevenue:        stmt.NetRevenue.StringFixed(2),
		DirectCosts:       stmt.DirectCosts.StringFixed(2),
		GrossProfit:       stmt.GrossProfit.StringFixed(2),
		GrossMargin:       stmt.GrossMargin,
		SellingExpenses:   stmt.SellingExpenses.StringFixed(2),
		AdminExpenses:     stmt.AdminExpenses.StringFixed(2),
		OtherExpenses:     stmt.OtherExpenses.StringFixed(2),
		OperatingResult:   stmt.OperatingResult.StringFixed(2),
		OperatingMargin:   stmt.OperatingMargin,
		Taxes:             stmt.Taxes.StringFixed(2),
		NetResult:         stmt.NetResult.StringFixed(2),
		NetMargin:         stmt.NetMargin,
		PaymentMethods:    methods,
		Diagnostics:       stmt.Diagnostics,
	}
}
