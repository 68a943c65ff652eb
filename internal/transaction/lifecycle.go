package transaction

// Transition is a named lifecycle transition requested against a
// transaction's display status.
type Transition string

const (
	TransitionPay    Transition = "pay"
	TransitionCancel Transition = "cancel"
)

// Next validates a transition from the current display status and
// returns the resulting status. Cancellation is terminal: no transition
// leaves StatusCancelled.
func Next(current DisplayStatus, tr Transition) (DisplayStatus, error) {
	switch tr {
	case TransitionCancel:
		if current == StatusCancelled {
			return current, ErrAlreadyCancelled
		}

		return StatusCancelled, nil

	case TransitionPay:
		if current != StatusInProgress {
			return current, ErrInvalidTransition
		}

		return StatusCompleted, nil
	}

	return current, ErrInvalidTransition
}

// ProviderIssue carries the identifiers returned by the e-invoice
// provider after a successful submission.
type ProviderIssue struct {
	InvoiceNumber  string
	Symbol         string
	TemplateNumber string
}

// ApplyPublishResult is the only legal way to move EInvoiceStatus away
// from unissued. It sets the status to issued, applies the identifiers
// granted by the provider, and assigns a trade number to orders that
// do not have one yet. An existing trade number is never overwritten.
func ApplyPublishResult(t *Transaction, issue ProviderIssue) error {
	if t.EInvoiceStatus != EInvoiceUnissued {
		return ErrAlreadyPublished
	}

	t.EInvoiceStatus = EInvoiceIssued
	t.Identity.InvoiceNumber = issue.InvoiceNumber
	t.Identity.Symbol = issue.Symbol
	t.Identity.TemplateNumber = issue.TemplateNumber

	if t.SourceType == SourceOrder && t.Identity.TradeNumber == "" {
		t.Identity.TradeNumber = t.DisplayNumber
	}

	return nil
}
