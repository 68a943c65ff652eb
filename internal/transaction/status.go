package transaction

// DisplayStatus is the shared 3-value lifecycle state both source types
// normalize into.
type DisplayStatus string

const (
	StatusInProgress DisplayStatus = "in_progress"
	StatusCompleted  DisplayStatus = "completed"
	StatusCancelled  DisplayStatus = "cancelled"
)

// Order statuses as stored on the order resource. The vocabulary is
// fixed; unknown values normalize to StatusInProgress.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

// InvoiceStatus is the local numeric status of an invoice record.
type InvoiceStatus int

const (
	InvoiceCompleted InvoiceStatus = 1
	InvoiceInService InvoiceStatus = 2
	InvoiceCancelled InvoiceStatus = 3
)

// EInvoiceStatus is the externally governed e-invoice issuance status.
// The codes round-trip to the provider and must be preserved bit-exact.
type EInvoiceStatus int

const (
	EInvoiceUnissued        EInvoiceStatus = 0
	EInvoiceIssued          EInvoiceStatus = 1
	EInvoiceDraftCreated    EInvoiceStatus = 2
	EInvoiceApproved        EInvoiceStatus = 3
	EInvoiceReplaced        EInvoiceStatus = 4
	EInvoiceTempReplacement EInvoiceStatus = 5
	EInvoiceReplacement     EInvoiceStatus = 6
	EInvoiceAdjusted        EInvoiceStatus = 7
	EInvoiceTempAdjustment  EInvoiceStatus = 8
	EInvoiceAdjustment      EInvoiceStatus = 9
	EInvoiceCancelled       EInvoiceStatus = 10
)

var einvoiceStatusLabels = map[EInvoiceStatus]string{
	EInvoiceUnissued:        "unissued",
	EInvoiceIssued:          "issued",
	EInvoiceDraftCreated:    "draft created",
	EInvoiceApproved:        "approved",
	EInvoiceReplaced:        "replaced",
	EInvoiceTempReplacement: "temporary replacement",
	EInvoiceReplacement:     "replacement",
	EInvoiceAdjusted:        "adjusted",
	EInvoiceTempAdjustment:  "temporary adjustment",
	EInvoiceAdjustment:      "adjustment",
	EInvoiceCancelled:       "cancelled",
}

// Label returns the human-readable name of the status code, or
// "unknown" for codes outside the vocabulary.
func (s EInvoiceStatus) Label() string {
	if label, ok := einvoiceStatusLabels[s]; ok {
		return label
	}

	return "unknown"
}

// Valid reports whether the code is part of the provider vocabulary.
func (s EInvoiceStatus) Valid() bool {
	_, ok := einvoiceStatusLabels[s]
	return ok
}

// Issued reports whether the status belongs to the issued family
// {1, 3, 6, 9}: an official e-invoice exists and monetary fields on the
// transaction are frozen.
func (s EInvoiceStatus) Issued() bool {
	switch s {
	case EInvoiceIssued, EInvoiceApproved, EInvoiceReplacement, EInvoiceAdjustment:
		return true
	}

	return false
}
