package einvoice

import (
	"errors"
	"fmt"

	"github.com/minhhq/backoffice/internal/transaction"
)

// ErrNoLineItems is returned when a publish is requested for a
// transaction without sold lines. Checked before any provider call.
var ErrNoLineItems = errors.New("transaction has no line items")

// ProviderError is a rejection or transport failure from the e-invoice
// provider. Local state is untouched and the publish can be retried;
// Message carries the provider's wording verbatim.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("e-invoice provider: %s: %v", e.Message, e.Err)
	}

	return fmt.Sprintf("e-invoice provider: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NotRecordedError is the split-brain failure: the provider issued the
// e-invoice but the local store write failed afterwards. It must never
// be retried automatically, since a retry would double-submit; the
// granted identifiers are carried for manual reconciliation.
type NotRecordedError struct {
	Key   transaction.Key
	Issue IssueData
	Err   error
}

func (e *NotRecordedError) Error() string {
	return fmt.Sprintf("e-invoice %s published upstream as %q but not recorded locally for %s: %v",
		e.Issue.Symbol, e.Issue.InvoiceNumber, e.Key, e.Err)
}

func (e *NotRecordedError) Unwrap() error {
	return e.Err
}
