package ledger

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/fincontrol/backend/internal/domain/shared/valueobject"
)

// installmentSuffix matches a trailing "(n/m)" installment marker, with
// optional whitespace, at the end of a description
var installmentSuffix = regexp.MustCompile(`\s*\(\s*\d+\s*/\s*\d+\s*\)\s*$`)

// InstallmentGroup is a derived, read-time aggregation of transactions
// sharing a group key. It is never stored; every listing recomputes it from
// the ledger rows.
type InstallmentGroup struct {
	Key             string
	Description     string
	Members         []*Transaction
	DisplayDueDates []time.Time
	Total           valueobject.Money
	TotalInterest   valueobject.Money
	IsPaid          bool
	Synthetic       bool
}

// GroupingDiagnostics carries anomaly counters surfaced alongside the
// groups. Grouping never fails on malformed rows; it substitutes defaults
// and counts what it had to work around.
type GroupingDiagnostics struct {
	SyntheticKeys   int `json:"synthetic_keys"`
	MissingDueDates int `json:"missing_due_dates"`
}

// ResolveGroupKey derives the grouping key for a transaction: the explicit
// installment group when present, otherwise the description with a trailing
// "(n/m)" marker stripped, otherwise a synthetic per-row key so ungroupable
// rows still render as singleton groups. The second return value reports
// whether the key is synthetic.
func ResolveGroupKey(t *Transaction) (string, bool) {
	if t.InstallmentGroup != nil && *t.InstallmentGroup != "" {
		return *t.InstallmentGroup, false
	}
	stripped := strings.TrimSpace(installmentSuffix.ReplaceAllString(t.Description, ""))
	if stripped != "" {
		return stripped, false
	}
	return "tx:" + t.ID.String(), true
}

// BuildInstallmentGroups partitions the given transactions into installment
// groups. Every transaction lands in exactly one group; the sum of group
// totals equals the sum of transaction amounts (cent-rounded after each
// addition). Output ordering is deterministic: groups by earliest member
// date then key, members by installment index, due date, then ID.
func BuildInstallmentGroups(transactions []*Transaction) ([]InstallmentGroup, GroupingDiagnostics) {
	var diags GroupingDiagnostics
	if len(transactions) == 0 {
		return []InstallmentGroup{}, diags
	}

	byKey := make(map[string]*InstallmentGroup)
	order := make([]string, 0)

	for _, t := range transactions {
		key, synthetic := ResolveGroupKey(t)
		if synthetic {
			diags.SyntheticKeys++
		}
		if t.DueDate.IsZero() {
			diags.MissingDueDates++
		}
		g, ok := byKey[key]
		if !ok {
			g = &InstallmentGroup{Key: key, Synthetic: synthetic}
			byKey[key] = g
			order = append(order, key)
		}
		g.Members = append(g.Members, t)
	}

	groups := make([]InstallmentGroup, 0, len(order))
	for _, key := range order {
		g := byKey[key]
		sortMembers(g.Members)

		total := valueobject.ZeroBRL()
		interest := valueobject.ZeroBRL()
		paid := true
		for _, m := range g.Members {
			total = total.MustAdd(m.Amount).RoundCents()
			interest = interest.MustAdd(m.Interest).RoundCents()
			if m.Status != StatusPaid {
				paid = false
			}
		}
		g.Total = total
		g.TotalInterest = interest
		g.IsPaid = paid
		g.Description = groupDescription(g)
		g.DisplayDueDates = displayDueDates(g.Members)
		groups = append(groups, *g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		di := effectiveDate(groups[i].Members[0])
		dj := effectiveDate(groups[j].Members[0])
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return groups[i].Key < groups[j].Key
	})

	return groups, diags
}

// sortMembers orders group members by installment index ascending (rows
// without an index sort after indexed ones), then effective date, then ID
func sortMembers(members []*Transaction) {
	sort.SliceStable(members, func(i, j int) bool {
		ii, ij := memberIndex(members[i]), memberIndex(members[j])
		if ii != ij {
			return ii < ij
		}
		di, dj := effectiveDate(members[i]), effectiveDate(members[j])
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return members[i].ID.String() < members[j].ID.String()
	})
}

func memberIndex(t *Transaction) int {
	if t.InstallmentIndex == nil {
		return int(^uint(0) >> 1)
	}
	return *t.InstallmentIndex
}

// effectiveDate picks the date used for ordering and display: due date,
// then payment date, then creation time, then now
func effectiveDate(t *Transaction) time.Time {
	if !t.DueDate.IsZero() {
		return t.DueDate
	}
	if t.PaymentDate != nil && !t.PaymentDate.IsZero() {
		return *t.PaymentDate
	}
	if !t.CreatedAt.IsZero() {
		return t.CreatedAt
	}
	return time.Now()
}

func groupDescription(g *InstallmentGroup) string {
	if g.Synthetic && len(g.Members) > 0 {
		return g.Members[0].Description
	}
	return g.Key
}

// displayDueDates recomputes member due dates for presentation when the
// members plausibly form a monthly schedule: all on the same calendar day,
// or all within the earliest member's calendar month. Stored dates are
// never mutated; callers get a parallel slice.
func displayDueDates(members []*Transaction) []time.Time {
	dates := make([]time.Time, len(members))
	for i, m := range members {
		dates[i] = effectiveDate(m)
	}
	if len(members) < 2 {
		return dates
	}

	earliest := dates[0]
	for _, d := range dates[1:] {
		if d.Before(earliest) {
			earliest = d
		}
	}

	sameDay := true
	sameMonth := true
	for _, d := range dates {
		if d.Day() != earliest.Day() {
			sameDay = false
		}
		if d.Year() != earliest.Year() || d.Month() != earliest.Month() {
			sameMonth = false
		}
	}
	if !sameDay && !sameMonth {
		return dates
	}

	for i, m := range members {
		idx := i + 1
		if m.InstallmentIndex != nil {
			idx = *m.InstallmentIndex
		}
		dates[i] = earliest.AddDate(0, idx-1, 0)
	}
	return dates
}
