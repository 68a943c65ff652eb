package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetOrder(ctx context.Context, id int64) (*RawOrder, error)
	GetInvoice(ctx context.Context, id int64) (*RawInvoice, error)

	ListOrders(ctx context.Context, filter ListFilter) ([]RawOrder, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]RawInvoice, error)

	OrderLineItems(ctx context.Context, orderID int64) ([]LineItem, error)
	InvoiceLineItems(ctx context.Context, invoiceID int64) ([]LineItem, error)

	// UpdateOrderStatus is the status-only write path orders expose.
	UpdateOrderStatus(ctx context.Context, id int64, status string) error
	// UpdateInvoice is the full-record write path invoices expose.
	UpdateInvoice(ctx context.Context, inv *RawInvoice) error
	// UpdateOrderEInvoice applies e-invoice identifiers to an order.
	// The store keeps an existing trade number.
	UpdateOrderEInvoice(ctx context.Context, id int64, status EInvoiceStatus, identity InvoiceIdentity) error
}

// ListFilter bounds a raw list fetch. Pagination parameters pass
// through to the store untouched.
type ListFilter struct {
	From  *time.Time
	To    *time.Time
	Page  int
	Limit int
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get fetches and normalizes one transaction, including its line items.
func (s *Service) Get(ctx context.Context, key Key) (*Transaction, error) {
	tx, err := s.fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	items, err := s.LineItems(ctx, key)
	if err != nil {
		return nil, err
	}

	tx.LineItems = items

	return tx, nil
}

// LineItems fetches the sold lines of one transaction.
func (s *Service) LineItems(ctx context.Context, key Key) ([]LineItem, error) {
	switch key.SourceType {
	case SourceOrder:
		return s.repo.OrderLineItems(ctx, key.ID)
	case SourceInvoice:
		return s.repo.InvoiceLineItems(ctx, key.ID)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSourceType, key.SourceType)
}

// UpdateInvoiceAmounts replaces the monetary fields of an invoice
// record. Rejected once an e-invoice in the issued family exists, and
// when the submitted amounts break total = subtotal + tax.
func (s *Service) UpdateInvoiceAmounts(ctx context.Context, id int64, amounts Amounts) (*Transaction, error) {
	if !amounts.Consistent() {
		return nil, ErrAmountsInconsistent
	}

	raw, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw.EInvoiceStatus.Issued() {
		return nil, ErrAmountsLocked
	}

	raw.Subtotal = amounts.Subtotal
	raw.Tax = amounts.Tax
	raw.Total = amounts.Total

	if err := s.repo.UpdateInvoice(ctx, raw); err != nil {
		return nil, fmt.Errorf("updating invoice %d: %w", id, err)
	}

	tx := NormalizeInvoice(*raw)

	return &tx, nil
}

// CancelOutcome is the per-item result of a bulk cancel.
type CancelOutcome struct {
	Key Key
	// Skipped marks items that were already cancelled; they count as
	// succeeded and no write was issued for them.
	Skipped bool
	Err     error
}

// Succeeded reports whether the item ended up cancelled.
func (o CancelOutcome) Succeeded() bool {
	return o.Err == nil
}

// BulkReport aggregates the outcomes of one bulk cancel.
type BulkReport struct {
	Results   []CancelOutcome
	Succeeded int
	Failed    int
}

// BulkCancel cancels every keyed transaction independently and in
// order. Individual failures never abort the batch; the report carries
// exactly one outcome per key. Items already cancelled are detected
// locally and reported as succeeded without a store round trip.
func (s *Service) BulkCancel(ctx context.Context, keys []Key) BulkReport {
	report := BulkReport{Results: make([]CancelOutcome, 0, len(keys))}

	for _, key := range keys {
		outcome := s.cancelOne(ctx, key)

		if outcome.Succeeded() {
			report.Succeeded++
		} else {
			report.Failed++
			slog.Warn("bulk cancel item failed", "key", key.String(), "error", outcome.Err)
		}

		report.Results = append(report.Results, outcome)
	}

	return report
}

func (s *Service) cancelOne(ctx context.Context, key Key) CancelOutcome {
	switch key.SourceType {
	case SourceOrder:
		raw, err := s.repo.GetOrder(ctx, key.ID)
		if err != nil {
			return CancelOutcome{Key: key, Err: err}
		}

		tx := NormalizeOrder(*raw)
		if outcome, done := checkCancel(key, tx.DisplayStatus); done {
			return outcome
		}

		if err := s.repo.UpdateOrderStatus(ctx, key.ID, OrderStatusCancelled); err != nil {
			return CancelOutcome{Key: key, Err: err}
		}

	case SourceInvoice:
		raw, err := s.repo.GetInvoice(ctx, key.ID)
		if err != nil {
			return CancelOutcome{Key: key, Err: err}
		}

		tx := NormalizeInvoice(*raw)
		if outcome, done := checkCancel(key, tx.DisplayStatus); done {
			return outcome
		}

		raw.Status = InvoiceCancelled
		if err := s.repo.UpdateInvoice(ctx, raw); err != nil {
			return CancelOutcome{Key: key, Err: err}
		}

	default:
		return CancelOutcome{Key: key, Err: fmt.Errorf("%w: %q", ErrUnknownSourceType, key.SourceType)}
	}

	return CancelOutcome{Key: key}
}

// checkCancel short-circuits items that need no write: already
// cancelled transactions are an idempotent success.
func checkCancel(key Key, current DisplayStatus) (CancelOutcome, bool) {
	_, err := Next(current, TransitionCancel)
	switch err {
	case nil:
		return CancelOutcome{}, false
	case ErrAlreadyCancelled:
		return CancelOutcome{Key: key, Skipped: true}, true
	}

	return CancelOutcome{Key: key, Err: err}, true
}

func (s *Service) fetch(ctx context.Context, key Key) (*Transaction, error) {
	switch key.SourceType {
	case SourceOrder:
		raw, err := s.repo.GetOrder(ctx, key.ID)
		if err != nil {
			return nil, err
		}

		tx := NormalizeOrder(*raw)

		return &tx, nil

	case SourceInvoice:
		raw, err := s.repo.GetInvoice(ctx, key.ID)
		if err != nil {
			return nil, err
		}

		tx := NormalizeInvoice(*raw)

		return &tx, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSourceType, key.SourceType)
}
