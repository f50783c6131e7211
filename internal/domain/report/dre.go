package report

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fincontrol/backend/internal/domain/ledger"
	"github.com/fincontrol/backend/internal/domain/shared/valueobject"
)

// Statement rates, per Brazilian small-business DRE conventions
var (
	deductionRate    = decimal.NewFromFloat(0.08) // presumed sales-tax deduction on non-service revenue
	deductionCapRate = decimal.NewFromFloat(0.15) // deductions never exceed 15% of gross revenue
	taxRate          = decimal.NewFromFloat(0.27) // income tax on positive operating result
)

// Names exempt from the revenue deduction, compared case-insensitively
var serviceCategoryNames = map[string]bool{
	"services": true,
	"serviços": true,
	"servicos": true,
}

// UncategorizedName is the fallback bucket for transactions with no
// resolvable category
const UncategorizedName = "Uncategorized"

// MethodBreakdown accumulates per-payment-method figures for drill-down
type MethodBreakdown struct {
	Income  valueobject.Money
	Expense valueobject.Money
	Count   int
}

// Diagnostics counts rows the computation had to patch over. Reports render
// even with partial data, so anomalies surface here instead of as errors.
type Diagnostics struct {
	UncategorizedRows int `json:"uncategorized_rows"`
}

// Statement is a DRE (income statement) rollup computed from ledger rows.
// All money values are cent-rounded; margins are percentages with 2
// decimal places.
type Statement struct {
	GrossRevenue      valueobject.Money
	RevenueByCategory map[string]valueobject.Money
	Deductions        valueobject.Money
	NetRevenue        valueobject.Money
	DirectCosts       valueobject.Money
	GrossProfit       valueobject.Money
	GrossMargin       decimal.Decimal
	SellingExpenses   valueobject.Money
	AdminExpenses     valueobject.Money
	OtherExpenses     valueobject.Money
	OperatingResult   valueobject.Money
	OperatingMargin   decimal.Decimal
	Taxes             valueobject.Money
	NetResult         valueobject.Money
	NetMargin         decimal.Decimal
	PaymentMethods    map[string]MethodBreakdown
	Diagnostics       Diagnostics
}

// EmptyStatement returns an all-zero statement with empty breakdown maps
func EmptyStatement() Statement {
	return Statement{
		GrossRevenue:      valueobject.ZeroBRL(),
		RevenueByCategory: map[string]valueobject.Money{},
		Deductions:        valueobject.ZeroBRL(),
		NetRevenue:        valueobject.ZeroBRL(),
		DirectCosts:       valueobject.ZeroBRL(),
		GrossProfit:       valueobject.ZeroBRL(),
		GrossMargin:       decimal.Zero,
		SellingExpenses:   valueobject.ZeroBRL(),
		AdminExpenses:     valueobject.ZeroBRL(),
		OtherExpenses:     valueobject.ZeroBRL(),
		OperatingResult:   valueobject.ZeroBRL(),
		OperatingMargin:   decimal.Zero,
		Taxes:             valueobject.ZeroBRL(),
		NetResult:         valueobject.ZeroBRL(),
		NetMargin:         decimal.Zero,
		PaymentMethods:    map[string]MethodBreakdown{},
	}
}

// Compute builds a DRE statement from pre-fetched transactions and category
// metadata. It is a pure function of its inputs: no store access, no
// mutation of the given rows, and an empty input yields an all-zero
// statement rather than an error.
func Compute(transactions []ledger.Transaction, categories []ledger.Category, classify Classifier) Statement {
	if classify == nil {
		classify = DefaultClassifier
	}
	stmt := EmptyStatement()
	if len(transactions) == 0 {
		return stmt
	}

	categoryNames := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	for i := range transactions {
		t := &transactions[i]
		name := resolveCategoryName(t, categoryNames)
		if name == UncategorizedName {
			stmt.Diagnostics.UncategorizedRows++
		}

		switch {
		case t.Type.IsIncome():
			revenue := t.Amount.MustAdd(t.Interest).RoundCents()
			stmt.GrossRevenue = stmt.GrossRevenue.MustAdd(revenue).RoundCents()
			if existing, ok := stmt.RevenueByCategory[name]; ok {
				stmt.RevenueByCategory[name] = existing.MustAdd(revenue).RoundCents()
			} else {
				stmt.RevenueByCategory[name] = revenue
			}
			if !serviceCategoryNames[strings.ToLower(name)] {
				deduction := t.Amount.Multiply(deductionRate).RoundCents()
				stmt.Deductions = stmt.Deductions.MustAdd(deduction).RoundCents()
			}
		case t.Type.IsExpense():
			amount := t.Amount.RoundCents()
			switch classify(name) {
			case BucketCost:
				stmt.DirectCosts = stmt.DirectCosts.MustAdd(amount).RoundCents()
			case BucketSelling:
				stmt.SellingExpenses = stmt.SellingExpenses.MustAdd(amount).RoundCents()
			case BucketAdmin:
				stmt.AdminExpenses = stmt.AdminExpenses.MustAdd(amount).RoundCents()
			default:
				stmt.OtherExpenses = stmt.OtherExpenses.MustAdd(amount).RoundCents()
			}
		}

		accumulateMethod(&stmt, t)
	}

	deductionCap := stmt.GrossRevenue.Multiply(deductionCapRate).RoundCents()
	if over, _ := stmt.Deductions.GreaterThan(deductionCap); over {
		stmt.Deductions = deductionCap
	}

	stmt.NetRevenue = stmt.GrossRevenue.MustSubtract(stmt.Deductions).RoundCents()
	stmt.GrossProfit = stmt.NetRevenue.MustSubtract(stmt.DirectCosts).RoundCents()
	stmt.GrossMargin = margin(stmt.GrossProfit, stmt.NetRevenue)

	operatingExpenses := stmt.SellingExpenses.
		MustAdd(stmt.AdminExpenses).RoundCents().
		MustAdd(stmt.OtherExpenses).RoundCents()
	stmt.OperatingResult = stmt.GrossProfit.MustSubtract(operatingExpenses).RoundCents()
	stmt.OperatingMargin = margin(stmt.OperatingResult, stmt.NetRevenue)

	if stmt.OperatingResult.IsPositive() {
		stmt.Taxes = stmt.OperatingResult.Multiply(taxRate).RoundCents()
	}
	stmt.NetResult = stmt.OperatingResult.MustSubtract(stmt.Taxes).RoundCents()
	stmt.NetMargin = margin(stmt.NetResult, stmt.NetRevenue)

	return stmt
}

func resolveCategoryName(t *ledger.Transaction, names map[uuid.UUID]string) string {
	if t.CategoryID != nil {
		if name, ok := names[*t.CategoryID]; ok && name != "" {
			return name
		}
	}
	if strings.TrimSpace(t.Category) != "" {
		return t.Category
	}
	return UncategorizedName
}

func accumulateMethod(stmt *Statement, t *ledger.Transaction) {
	method := "UNSPECIFIED"
	if t.PaymentMethod != nil {
		method = string(*t.PaymentMethod)
	}
	entry, ok := stmt.PaymentMethods[method]
	if !ok {
		entry = MethodBreakdown{Income: valueobject.ZeroBRL(), Expense: valueobject.ZeroBRL()}
	}
	if t.Type.IsIncome() {
		entry.Income = entry.Income.MustAdd(t.Amount.MustAdd(t.Interest)).RoundCents()
	} else if t.Type.IsExpense() {
		entry.Expense = entry.Expense.MustAdd(t.Amount).RoundCents()
	}
	entry.Count++
	stmt.PaymentMethods[method] = entry
}

// margin returns numerator/denominator as a percentage with 2 decimal
// places, or zero when the denominator is not positive
func margin(numerator, denominator valueobject.Money) decimal.Decimal {
	if !denominator.IsPositive() {
		return decimal.Zero
	}
	return numerator.Amount().
		Div(denominator.Amount()).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}
