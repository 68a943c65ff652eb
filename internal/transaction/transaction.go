package transaction

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SourceType identifies which backend resource a transaction originated
// from. It never changes after normalization and determines which write
// path mutations take.
type SourceType string

const (
	SourceOrder   SourceType = "order"
	SourceInvoice SourceType = "invoice"
)

// ParseSourceType validates a source type received from the outside.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(strings.ToLower(s)) {
	case SourceOrder:
		return SourceOrder, nil
	case SourceInvoice:
		return SourceInvoice, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownSourceType, s)
}

// Key addresses one transaction across both backend resources.
type Key struct {
	SourceType SourceType
	ID         int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.SourceType, k.ID)
}

// Customer holds the buyer details attached to a sale. Every field is
// optional; normalization substitutes walk-in defaults.
type Customer struct {
	Name    string
	Phone   string
	Address string
	TaxCode string
	Email   string
}

// Amounts carries the monetary breakdown of a transaction. Total must
// equal Subtotal + Tax - discount; discounts are always zero today but
// the relation is checked wherever amounts are written.
type Amounts struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Consistent reports whether Total matches Subtotal + Tax.
func (a Amounts) Consistent() bool {
	return a.Subtotal.Add(a.Tax).Equal(a.Total)
}

// InvoiceIdentity holds the identifiers assigned by the e-invoice
// authority. All fields stay empty until a publish succeeds. TradeNumber
// is permanent once set.
type InvoiceIdentity struct {
	InvoiceNumber  string
	Symbol         string
	TemplateNumber string
	TradeNumber    string
}

// LineItem is one sold line within a transaction.
type LineItem struct {
	ProductID   int64
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Total       decimal.Decimal
}

// Transaction is the unified view of one sale regardless of whether it
// originated as an in-store order or a finalized invoice record.
type Transaction struct {
	ID            int64
	SourceType    SourceType
	DisplayNumber string
	Date          time.Time
	Customer      Customer
	Amounts       Amounts

	// OrderStatus is the raw textual status for SourceOrder records.
	OrderStatus string
	// InvoiceStatus is the raw numeric status for SourceInvoice records.
	InvoiceStatus InvoiceStatus

	DisplayStatus  DisplayStatus
	EInvoiceStatus EInvoiceStatus
	Identity       InvoiceIdentity

	// LineItems are fetched lazily; empty in list results.
	LineItems []LineItem
}

// Key returns the transaction's resource-store address.
func (t *Transaction) Key() Key {
	return Key{SourceType: t.SourceType, ID: t.ID}
}

// AmountsLocked reports whether the monetary fields are read-only
// because an e-invoice in the issued family exists for this transaction.
func (t *Transaction) AmountsLocked() bool {
	return t.EInvoiceStatus.Issued()
}
