package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minhhq/backoffice/internal/transaction"
)

// Repository is the slice of the resource store the engine reads from.
// Satisfied by the transaction store.
type Repository interface {
	ListOrders(ctx context.Context, filter transaction.ListFilter) ([]transaction.RawOrder, error)
	ListInvoices(ctx context.Context, filter transaction.ListFilter) ([]transaction.RawInvoice, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Reconcile fetches both source collections, merges them into the
// unified timeline and applies the filter. When exactly one source
// fetch fails the other still renders; the failure is logged and the
// broken source contributes nothing.
func (s *Service) Reconcile(ctx context.Context, filter Filter) (*Result, error) {
	listFilter := transaction.ListFilter{From: filter.From}

	// The store prefilters with date <= to, so the bound must already
	// be extended here; a bare midnight would drop the end date's
	// records before Apply ever sees them.
	if filter.To != nil {
		end := endOfDay(*filter.To)
		listFilter.To = &end
	}

	orders, ordersErr := s.repo.ListOrders(ctx, listFilter)
	if ordersErr != nil {
		slog.Warn("listing orders failed, reconciling invoices only", "error", ordersErr)
	}

	invoices, invoicesErr := s.repo.ListInvoices(ctx, listFilter)
	if invoicesErr != nil {
		slog.Warn("listing invoices failed, reconciling orders only", "error", invoicesErr)
	}

	if ordersErr != nil && invoicesErr != nil {
		return nil, fmt.Errorf("listing transactions: %w", ordersErr)
	}

	result := Apply(Merge(orders, invoices), filter)

	return &result, nil
}
