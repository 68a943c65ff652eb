package transaction_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/minhhq/backoffice/internal/transaction"
)

func TestNormalizeOrder_StatusMapping(t *testing.T) {
	tests := []struct {
		status string
		want   transaction.DisplayStatus
	}{
		{"pending", transaction.StatusInProgress},
		{"confirmed", transaction.StatusInProgress},
		{"preparing", transaction.StatusInProgress},
		{"paid", transaction.StatusCompleted},
		{"cancelled", transaction.StatusCancelled},
		{"held", transaction.StatusInProgress},
		{"", transaction.StatusInProgress},
	}

	for _, tt := range tests {
		t.Run("status_"+tt.status, func(t *testing.T) {
			tx := transaction.NormalizeOrder(transaction.RawOrder{ID: 1, Status: tt.status})
			assert.Equal(t, tt.want, tx.DisplayStatus)
			assert.Equal(t, tt.status, tx.OrderStatus)
		})
	}
}

func TestNormalizeInvoice_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status transaction.InvoiceStatus
		want   transaction.DisplayStatus
	}{
		{"completed", transaction.InvoiceCompleted, transaction.StatusCompleted},
		{"in_service", transaction.InvoiceInService, transaction.StatusInProgress},
		{"cancelled", transaction.InvoiceCancelled, transaction.StatusCancelled},
		{"absent_defaults_to_completed", 0, transaction.StatusCompleted},
		{"unknown_defaults_to_completed", 99, transaction.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := transaction.NormalizeInvoice(transaction.RawInvoice{ID: 1, Status: tt.status})
			assert.Equal(t, tt.want, tx.DisplayStatus)
		})
	}
}

func TestNormalize_Defaults(t *testing.T) {
	tx := transaction.NormalizeOrder(transaction.RawOrder{ID: 42})

	assert.Equal(t, transaction.WalkInCustomerName, tx.Customer.Name)
	assert.Equal(t, "000042", tx.DisplayNumber)
	assert.Equal(t, transaction.EInvoiceUnissued, tx.EInvoiceStatus)
	assert.Empty(t, tx.Identity.InvoiceNumber)
}

func TestNormalize_CodeWins(t *testing.T) {
	order := transaction.NormalizeOrder(transaction.RawOrder{ID: 42, Code: "B-0042"})
	assert.Equal(t, "B-0042", order.DisplayNumber)

	invoice := transaction.NormalizeInvoice(transaction.RawInvoice{ID: 9, TradeNumber: "TRD-009"})
	assert.Equal(t, "TRD-009", invoice.DisplayNumber)
	assert.Equal(t, "TRD-009", invoice.Identity.TradeNumber)
}

func TestNormalize_CarriesFields(t *testing.T) {
	orderedAt := time.Date(2024, 3, 14, 11, 30, 0, 0, time.UTC)

	raw := transaction.RawOrder{
		ID:              7,
		Code:            "ORD-007",
		Status:          "confirmed",
		OrderedAt:       orderedAt,
		CustomerName:    "Nguyễn Văn An",
		CustomerTaxCode: "0312345678",
		Subtotal:        decimal.NewFromInt(100000),
		Tax:             decimal.NewFromInt(10000),
		Total:           decimal.NewFromInt(110000),
		EInvoiceStatus:  transaction.EInvoiceIssued,
		InvoiceNumber:   "00000123",
		Symbol:          "C24TAA",
		TemplateNumber:  "1",
		TradeNumber:     "TRD-007",
	}

	tx := transaction.NormalizeOrder(raw)

	assert.Equal(t, transaction.SourceOrder, tx.SourceType)
	assert.Equal(t, orderedAt, tx.Date)
	assert.Equal(t, "Nguyễn Văn An", tx.Customer.Name)
	assert.Equal(t, "0312345678", tx.Customer.TaxCode)
	assert.True(t, tx.Amounts.Consistent())
	assert.True(t, tx.AmountsLocked())
	assert.Equal(t, "00000123", tx.Identity.InvoiceNumber)
	assert.Equal(t, "TRD-007", tx.Identity.TradeNumber)
}

// Normalization is a pure function: two runs over the same raw record
// must yield identical transactions.
func TestNormalize_Idempotent(t *testing.T) {
	raw := transaction.RawOrder{
		ID:           3,
		Status:       "paid",
		OrderedAt:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		CustomerName: "Trần Thị Bích",
		Subtotal:     decimal.NewFromInt(50000),
		Tax:          decimal.NewFromInt(5000),
		Total:        decimal.NewFromInt(55000),
	}

	first := transaction.NormalizeOrder(raw)
	second := transaction.NormalizeOrder(raw)

	assert.Equal(t, first, second)
}
