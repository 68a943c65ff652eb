package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/minhhq/backoffice/internal/reconcile"
	"github.com/minhhq/backoffice/internal/transaction"
)

type customerResponse struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	TaxCode string `json:"tax_code,omitempty"`
	Email   string `json:"email,omitempty"`
}

type amountsResponse struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type identityResponse struct {
	InvoiceNumber  string `json:"invoice_number,omitempty"`
	Symbol         string `json:"symbol,omitempty"`
	TemplateNumber string `json:"template_number,omitempty"`
	TradeNumber    string `json:"trade_number,omitempty"`
}

type lineItemResponse struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Total       decimal.Decimal `json:"total"`
}

type transactionResponse struct {
	ID                  int64                      `json:"id"`
	SourceType          transaction.SourceType     `json:"source_type"`
	DisplayNumber       string                     `json:"display_number"`
	Date                time.Time                  `json:"date"`
	Customer            customerResponse           `json:"customer"`
	Amounts             amountsResponse            `json:"amounts"`
	DisplayStatus       transaction.DisplayStatus  `json:"display_status"`
	EInvoiceStatus      transaction.EInvoiceStatus `json:"einvoice_status"`
	EInvoiceStatusLabel string                     `json:"einvoice_status_label"`
	Identity            identityResponse           `json:"invoice_identity"`
	LineItems           []lineItemResponse         `json:"line_items,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:            tx.ID,
		SourceType:    tx.SourceType,
		DisplayNumber: tx.DisplayNumber,
		Date:          tx.Date,
		Customer: customerResponse{
			Name:    tx.Customer.Name,
			Phone:   tx.Customer.Phone,
			Address: tx.Customer.Address,
			TaxCode: tx.Customer.TaxCode,
			Email:   tx.Customer.Email,
		},
		Amounts: amountsResponse{
			Subtotal: tx.Amounts.Subtotal,
			Tax:      tx.Amounts.Tax,
			Total:    tx.Amounts.Total,
		},
		DisplayStatus:       tx.DisplayStatus,
		EInvoiceStatus:      tx.EInvoiceStatus,
		EInvoiceStatusLabel: tx.EInvoiceStatus.Label(),
		Identity: identityResponse{
			InvoiceNumber:  tx.Identity.InvoiceNumber,
			Symbol:         tx.Identity.Symbol,
			TemplateNumber: tx.Identity.TemplateNumber,
			TradeNumber:    tx.Identity.TradeNumber,
		},
	}

	for _, item := range tx.LineItems {
		resp.LineItems = append(resp.LineItems, lineItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
			Total:       item.Total,
		})
	}

	return resp
}

type totalsResponse struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type listResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Totals       totalsResponse        `json:"totals"`
}

func toListResponse(result *reconcile.Result) listResponse {
	resp := listResponse{
		Transactions: make([]transactionResponse, 0, len(result.Transactions)),
		Totals: totalsResponse{
			Subtotal: result.Totals.Subtotal,
			Tax:      result.Totals.Tax,
			Total:    result.Totals.Total,
		},
	}

	for i := range result.Transactions {
		resp.Transactions = append(resp.Transactions, toResponse(&result.Transactions[i]))
	}

	return resp
}

type cancelResultResponse struct {
	SourceType transaction.SourceType `json:"source_type"`
	ID         int64                  `json:"id"`
	Success    bool                   `json:"success"`
	Skipped    bool                   `json:"skipped,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

type bulkCancelResponse struct {
	Succeeded int                    `json:"succeeded"`
	Failed    int                    `json:"failed"`
	Results   []cancelResultResponse `json:"results"`
}

func toBulkResponse(report transaction.BulkReport) bulkCancelResponse {
	resp := bulkCancelResponse{
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
		Results:   make([]cancelResultResponse, 0, len(report.Results)),
	}

	for _, outcome := range report.Results {
		r := cancelResultResponse{
			SourceType: outcome.Key.SourceType,
			ID:         outcome.Key.ID,
			Success:    outcome.Succeeded(),
			Skipped:    outcome.Skipped,
		}

		if outcome.Err != nil {
			r.Error = outcome.Err.Error()
		}

		resp.Results = append(resp.Results, r)
	}

	return resp
}
