package transaction

import "errors"

var (
	// ErrNotFound is returned when no record exists for a key.
	ErrNotFound = errors.New("transaction not found")

	// ErrUnknownSourceType is returned for source types outside
	// {order, invoice}.
	ErrUnknownSourceType = errors.New("unknown source type")

	// ErrAlreadyCancelled reports a cancel requested on a transaction
	// that is already cancelled. Callers treat it as an idempotent
	// no-op, not a failure.
	ErrAlreadyCancelled = errors.New("transaction already cancelled")

	// ErrInvalidTransition is returned when a lifecycle transition is
	// not legal from the current display status.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")

	// ErrAlreadyPublished is returned when a publish is requested for a
	// transaction whose e-invoice status already left unissued.
	ErrAlreadyPublished = errors.New("e-invoice already published")

	// ErrAmountsLocked is returned when an amount edit targets a
	// transaction with an issued e-invoice.
	ErrAmountsLocked = errors.New("amounts are read-only after e-invoice issuance")

	// ErrAmountsInconsistent is returned when submitted amounts break
	// total = subtotal + tax.
	ErrAmountsInconsistent = errors.New("total does not equal subtotal plus tax")
)
