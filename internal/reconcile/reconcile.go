package reconcile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/search"

	"github.com/minhhq/backoffice/internal/transaction"
)

// Filter narrows the reconciled collection. Absent fields always match;
// active fields combine as a conjunction.
type Filter struct {
	// From and To bound the transaction date inclusively. To is
	// extended to the end of its day.
	From *time.Time
	To   *time.Time

	// Customer is a case- and diacritic-insensitive substring match on
	// the customer name.
	Customer string
	// Code is a case-insensitive substring match on the display number.
	Code string
	// TaxCode is a case-insensitive substring match on the customer
	// tax code.
	TaxCode string
}

// Totals is the arithmetic sum over exactly the returned transactions.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Result is the reconciled, filtered collection plus its totals.
type Result struct {
	Transactions []transaction.Transaction
	Totals       Totals
}

// Merge normalizes both source collections into one. Nil inputs count
// as empty so partial data availability never blocks the other source.
// No sort order is imposed; the two sources have different natural
// orderings and the consumer sorts for display.
func Merge(orders []transaction.RawOrder, invoices []transaction.RawInvoice) []transaction.Transaction {
	merged := make([]transaction.Transaction, 0, len(orders)+len(invoices))

	for _, o := range orders {
		merged = append(merged, transaction.NormalizeOrder(o))
	}

	for _, inv := range invoices {
		merged = append(merged, transaction.NormalizeInvoice(inv))
	}

	return merged
}

// Apply filters the merged collection and computes totals over the
// post-filter set.
func Apply(txs []transaction.Transaction, filter Filter) Result {
	compiled := filter.compile()

	result := Result{
		Transactions: make([]transaction.Transaction, 0, len(txs)),
		Totals: Totals{
			Subtotal: decimal.Zero,
			Tax:      decimal.Zero,
			Total:    decimal.Zero,
		},
	}

	for _, tx := range txs {
		if !compiled.matches(&tx) {
			continue
		}

		result.Transactions = append(result.Transactions, tx)
		result.Totals.Subtotal = result.Totals.Subtotal.Add(tx.Amounts.Subtotal)
		result.Totals.Tax = result.Totals.Tax.Add(tx.Amounts.Tax)
		result.Totals.Total = result.Totals.Total.Add(tx.Amounts.Total)
	}

	return result
}

type compiledFilter struct {
	from *time.Time
	to   *time.Time

	customer string
	code     string
	taxCode  string

	// matcher folds case and diacritics so "nguyen" finds "Nguyễn".
	matcher *search.Matcher
}

func (f Filter) compile() compiledFilter {
	c := compiledFilter{
		from:     f.From,
		customer: f.Customer,
		code:     strings.ToLower(f.Code),
		taxCode:  strings.ToLower(f.TaxCode),
	}

	if f.To != nil {
		end := endOfDay(*f.To)
		c.to = &end
	}

	if f.Customer != "" {
		c.matcher = search.New(language.Vietnamese, search.Loose)
	}

	return c
}

func (c *compiledFilter) matches(tx *transaction.Transaction) bool {
	if c.from != nil && tx.Date.Before(*c.from) {
		return false
	}

	if c.to != nil && tx.Date.After(*c.to) {
		return false
	}

	if c.matcher != nil {
		if start, _ := c.matcher.IndexString(tx.Customer.Name, c.customer); start < 0 {
			return false
		}
	}

	if c.code != "" && !strings.Contains(strings.ToLower(tx.DisplayNumber), c.code) {
		return false
	}

	if c.taxCode != "" && !strings.Contains(strings.ToLower(tx.Customer.TaxCode), c.taxCode) {
		return false
	}

	return true
}

func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
