package einvoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/minhhq/backoffice/internal/transaction"
)

// Store is the slice of the resource store the publish workflow needs.
// Satisfied by the transaction store.
type Store interface {
	GetOrder(ctx context.Context, id int64) (*transaction.RawOrder, error)
	GetInvoice(ctx context.Context, id int64) (*transaction.RawInvoice, error)
	OrderLineItems(ctx context.Context, orderID int64) ([]transaction.LineItem, error)
	InvoiceLineItems(ctx context.Context, invoiceID int64) ([]transaction.LineItem, error)
	UpdateOrderEInvoice(ctx context.Context, id int64, status transaction.EInvoiceStatus, identity transaction.InvoiceIdentity) error
	UpdateInvoice(ctx context.Context, inv *transaction.RawInvoice) error
}

type Service struct {
	store    Store
	provider Provider
}

func NewService(store Store, provider Provider) *Service {
	return &Service{store: store, provider: provider}
}

// Result is the outcome of a successful publish.
type Result struct {
	Key         transaction.Key
	Issue       IssueData
	Transaction transaction.Transaction
}

// Publish submits one transaction to the e-invoice provider and, on
// success, records the granted identifiers locally.
//
// Preconditions fail before any provider call and change nothing.
// Provider failures change nothing locally and are retryable. A store
// write failure after a successful submission is returned as a
// *NotRecordedError and must be reconciled manually, never retried.
func (s *Service) Publish(ctx context.Context, key transaction.Key) (*Result, error) {
	tx, rawInvoice, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	if tx.EInvoiceStatus != transaction.EInvoiceUnissued {
		return nil, transaction.ErrAlreadyPublished
	}

	items, err := s.lineItems(ctx, key)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ErrNoLineItems
	}

	req := BuildSubmitRequest(tx, items)

	issue, err := s.provider.Submit(ctx, req)
	if err != nil {
		var provErr *ProviderError
		if errors.As(err, &provErr) {
			return nil, err
		}

		return nil, &ProviderError{Message: err.Error(), Err: err}
	}

	if err := transaction.ApplyPublishResult(tx, transaction.ProviderIssue{
		InvoiceNumber:  issue.InvoiceNumber,
		Symbol:         issue.Symbol,
		TemplateNumber: issue.TemplateNumber,
	}); err != nil {
		return nil, err
	}

	if err := s.record(ctx, tx, rawInvoice); err != nil {
		slog.Error("e-invoice published upstream but not recorded locally",
			"key", key.String(), "invoice_no", issue.InvoiceNumber, "error", err)

		return nil, &NotRecordedError{Key: key, Issue: *issue, Err: err}
	}

	return &Result{Key: key, Issue: *issue, Transaction: *tx}, nil
}

// load fetches and normalizes the transaction. For invoices the raw
// record is kept so the full-record write path can reuse it.
func (s *Service) load(ctx context.Context, key transaction.Key) (*transaction.Transaction, *transaction.RawInvoice, error) {
	switch key.SourceType {
	case transaction.SourceOrder:
		raw, err := s.store.GetOrder(ctx, key.ID)
		if err != nil {
			return nil, nil, err
		}

		tx := transaction.NormalizeOrder(*raw)

		return &tx, nil, nil

	case transaction.SourceInvoice:
		raw, err := s.store.GetInvoice(ctx, key.ID)
		if err != nil {
			return nil, nil, err
		}

		tx := transaction.NormalizeInvoice(*raw)

		return &tx, raw, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", transaction.ErrUnknownSourceType, key.SourceType)
}

func (s *Service) lineItems(ctx context.Context, key transaction.Key) ([]transaction.LineItem, error) {
	if key.SourceType == transaction.SourceOrder {
		return s.store.OrderLineItems(ctx, key.ID)
	}

	return s.store.InvoiceLineItems(ctx, key.ID)
}

func (s *Service) record(ctx context.Context, tx *transaction.Transaction, rawInvoice *transaction.RawInvoice) error {
	if tx.SourceType == transaction.SourceOrder {
		return s.store.UpdateOrderEInvoice(ctx, tx.ID, tx.EInvoiceStatus, tx.Identity)
	}

	rawInvoice.EInvoiceStatus = tx.EInvoiceStatus
	rawInvoice.InvoiceNumber = tx.Identity.InvoiceNumber
	rawInvoice.Symbol = tx.Identity.Symbol
	rawInvoice.TemplateNumber = tx.Identity.TemplateNumber

	return s.store.UpdateInvoice(ctx, rawInvoice)
}
