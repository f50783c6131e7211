package report

import "strings"

// Bucket is the expense bucket a category falls into on the income
// statement
type Bucket string

const (
	BucketCost    Bucket = "COST"
	BucketSelling Bucket = "SELLING"
	BucketAdmin   Bucket = "ADMIN"
	BucketOther   Bucket = "OTHER"
)

// Classifier maps a resolved category name to an expense bucket. It is
// pluggable so the keyword table below can be swapped for a rules engine
// without touching the statement computation.
type Classifier func(categoryName string) Bucket

// Keyword tables are checked as case-insensitive substrings, in fixed
// order: cost, then selling, then admin; anything left is other. A name
// matching several tables is bucketed by the first match. Terms cover
// Portuguese and English since tenant data mixes both.
var (
	costKeywords = []string{
		"custo", "cost", "compra", "purchase", "fornecedor", "supplier",
		"mercadoria", "merchandise", "materia prima", "matéria prima",
		"raw material", "cogs", "cmv",
	}
	sellingKeywords = []string{
		"venda", "sale", "comissao", "comissão", "commission",
		"propaganda", "publicidade", "advertising", "marketing",
	}
	adminKeywords = []string{
		"admin", "salario", "salário", "salary", "folha", "payroll",
		"aluguel", "rent", "telefone", "phone", "internet",
		"agua", "água", "luz", "energia", "utilities", "escritorio",
		"escritório", "office",
	}
)

// DefaultClassifier buckets a category name by the keyword tables
func DefaultClassifier(categoryName string) Bucket {
	name := strings.ToLower(strings.TrimSpace(categoryName))
	if name == "" {
		return BucketOther
	}
	for _, kw := range costKeywords {
		if strings.Contains(name, kw) {
			return BucketCost
		}
	}
	for _, kw := range sellingKeywords {
		if strings.Contains(name, kw) {
			return BucketSelling
		}
	}
	for _, kw := range adminKeywords {
		if strings.Contains(name, kw) {
			return BucketAdmin
		}
	}
	return BucketOther
}
