package einvoice

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minhhq/backoffice/internal/transaction"
)

var oneHundred = decimal.NewFromInt(100)

// BuildSubmitRequest assembles the provider payload for one
// transaction. Line subtotal, tax and total are recomputed from
// unitPrice × quantity × (1 + taxRate/100) — stored line totals can be
// stale and are never trusted. Header amounts are rounded to integer
// currency units.
func BuildSubmitRequest(tx *transaction.Transaction, items []transaction.LineItem) *SubmitRequest {
	req := &SubmitRequest{
		TransactionID: uuid.NewString(),
		TradeNumber:   tx.Identity.TradeNumber,
		BuyerName:     tx.Customer.Name,
		BuyerTaxCode:  tx.Customer.TaxCode,
		BuyerAddress:  tx.Customer.Address,
		BuyerPhone:    tx.Customer.Phone,
		BuyerEmail:    tx.Customer.Email,
		Subtotal:      roundUnits(tx.Amounts.Subtotal),
		Tax:           roundUnits(tx.Amounts.Tax),
		Total:         roundUnits(tx.Amounts.Total),
		Lines:         make([]SubmitLine, 0, len(items)),
	}

	if req.TradeNumber == "" {
		req.TradeNumber = tx.DisplayNumber
	}

	for _, item := range items {
		subtotal := item.Quantity.Mul(item.UnitPrice)
		lineTax := subtotal.Mul(item.TaxRate).DivRound(oneHundred, 4)

		req.Lines = append(req.Lines, SubmitLine{
			ProductName: item.ProductName,
			Quantity:    item.Quantity.InexactFloat64(),
			UnitPrice:   roundUnits(item.UnitPrice),
			TaxRate:     item.TaxRate.InexactFloat64(),
			Subtotal:    roundUnits(subtotal),
			Tax:         roundUnits(lineTax),
			Total:       roundUnits(subtotal.Add(lineTax)),
		})
	}

	return req
}

func roundUnits(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
