package einvoice

import "context"

//go:generate mockgen -source=provider.go -destination=provider_mock.go -package=einvoice
type Provider interface {
	// Submit sends one publish request to the e-invoice authority. On
	// rejection or transport failure it returns a *ProviderError whose
	// message carries the provider's own wording.
	Submit(ctx context.Context, req *SubmitRequest) (*IssueData, error)
}

// SubmitRequest is the payload schema the provider accepts. Monetary
// fields are integer currency units; line amounts are recomputed from
// quantity, unit price and tax rate rather than trusted from storage.
type SubmitRequest struct {
	// TransactionID is a fresh idempotency/tracing token, unique per
	// submission and never stored locally.
	TransactionID string `json:"transactionId"`
	TradeNumber   string `json:"tradeNumber"`

	BuyerName    string `json:"buyerName"`
	BuyerTaxCode string `json:"buyerTaxCode,omitempty"`
	BuyerAddress string `json:"buyerAddress,omitempty"`
	BuyerPhone   string `json:"buyerPhone,omitempty"`
	BuyerEmail   string `json:"buyerEmail,omitempty"`

	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`

	Lines []SubmitLine `json:"lines"`
}

// SubmitLine is one invoice line in the submission.
type SubmitLine struct {
	ProductName string  `json:"productName"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   int64   `json:"unitPrice"`
	TaxRate     float64 `json:"taxRate"`
	Subtotal    int64   `json:"subtotal"`
	Tax         int64   `json:"tax"`
	Total       int64   `json:"total"`
}

// IssueData carries the identifiers the provider grants on success.
type IssueData struct {
	InvoiceNumber  string `json:"invoiceNo"`
	Symbol         string `json:"symbol"`
	TemplateNumber string `json:"templateNumber"`
}
