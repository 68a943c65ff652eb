package einvoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhhq/backoffice/internal/einvoice"
	"github.com/minhhq/backoffice/internal/transaction"
)

// Line amounts are recomputed from quantity, unit price and tax rate;
// the stale stored totals must not leak into the payload.
func TestBuildSubmitRequest_RecomputesLines(t *testing.T) {
	tx := &transaction.Transaction{
		ID:            7,
		SourceType:    transaction.SourceOrder,
		DisplayNumber: "ORD-007",
		Customer:      transaction.Customer{Name: "Nguyễn Văn An"},
		Amounts: transaction.Amounts{
			Subtotal: decimal.NewFromInt(120000),
			Tax:      decimal.NewFromInt(12000),
			Total:    decimal.NewFromInt(132000),
		},
	}

	items := []transaction.LineItem{
		{
			ProductName: "Phở bò",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(50000),
			TaxRate:     decimal.NewFromInt(10),
			Total:       decimal.NewFromInt(1), // stale, must be ignored
		},
		{
			ProductName: "Trà đá",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(20000),
			TaxRate:     decimal.NewFromInt(10),
			Total:       decimal.NewFromInt(99999999), // stale, must be ignored
		},
	}

	req := einvoice.BuildSubmitRequest(tx, items)

	require.Len(t, req.Lines, 2)

	assert.Equal(t, int64(100000), req.Lines[0].Subtotal)
	assert.Equal(t, int64(10000), req.Lines[0].Tax)
	assert.Equal(t, int64(110000), req.Lines[0].Total)

	assert.Equal(t, int64(20000), req.Lines[1].Subtotal)
	assert.Equal(t, int64(2000), req.Lines[1].Tax)
	assert.Equal(t, int64(22000), req.Lines[1].Total)

	assert.Equal(t, int64(120000), req.Subtotal)
	assert.Equal(t, int64(12000), req.Tax)
	assert.Equal(t, int64(132000), req.Total)
}

func TestBuildSubmitRequest_FreshIdempotencyToken(t *testing.T) {
	tx := &transaction.Transaction{ID: 1, SourceType: transaction.SourceOrder, DisplayNumber: "000001"}

	first := einvoice.BuildSubmitRequest(tx, nil)
	second := einvoice.BuildSubmitRequest(tx, nil)

	assert.NotEmpty(t, first.TransactionID)
	assert.NotEmpty(t, second.TransactionID)
	assert.NotEqual(t, first.TransactionID, second.TransactionID)
}

func TestBuildSubmitRequest_TradeNumberFallsBackToDisplayNumber(t *testing.T) {
	tx := &transaction.Transaction{
		ID:            7,
		SourceType:    transaction.SourceOrder,
		DisplayNumber: "ORD-007",
	}

	req := einvoice.BuildSubmitRequest(tx, nil)
	assert.Equal(t, "ORD-007", req.TradeNumber)

	tx.Identity.TradeNumber = "TRD-007"
	req = einvoice.BuildSubmitRequest(tx, nil)
	assert.Equal(t, "TRD-007", req.TradeNumber)
}

func TestBuildSubmitRequest_RoundsFractionalAmounts(t *testing.T) {
	tx := &transaction.Transaction{ID: 1, SourceType: transaction.SourceInvoice}

	items := []transaction.LineItem{{
		ProductName: "Cân thịt",
		Quantity:    decimal.NewFromFloat(1.5),
		UnitPrice:   decimal.NewFromInt(33333),
		TaxRate:     decimal.NewFromInt(8),
	}}

	req := einvoice.BuildSubmitRequest(tx, items)

	require.Len(t, req.Lines, 1)
	// 1.5 × 33333 = 49999.5 → 50000; tax 8% of 49999.5 = 3999.96 → 4000
	assert.Equal(t, int64(50000), req.Lines[0].Subtotal)
	assert.Equal(t, int64(4000), req.Lines[0].Tax)
	assert.Equal(t, int64(53999), req.Lines[0].Total)
}
