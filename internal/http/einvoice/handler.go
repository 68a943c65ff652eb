package einvoice

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/minhhq/backoffice/internal/einvoice"
	"github.com/minhhq/backoffice/internal/transaction"
)

type Handler struct {
	svc *einvoice.Service
}

func NewHandler(svc *einvoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/{sourceType}/{id}/publish", h.publish)
}

type publishResponse struct {
	SourceType     transaction.SourceType `json:"source_type"`
	ID             int64                  `json:"id"`
	InvoiceNumber  string                 `json:"invoice_number"`
	Symbol         string                 `json:"symbol"`
	TemplateNumber string                 `json:"template_number"`
	TradeNumber    string                 `json:"trade_number"`
}

type publishErrorResponse struct {
	Error string `json:"error"`
	// NotRecorded flags the split-brain case: the provider issued the
	// e-invoice but the local record was not updated. Requires manual
	// reconciliation; retrying would double-submit.
	NotRecorded   bool   `json:"not_recorded,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	Symbol        string `json:"symbol,omitempty"`
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	sourceType, err := transaction.ParseSourceType(chi.URLParam(r, "sourceType"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Publish(r.Context(), transaction.Key{SourceType: sourceType, ID: id})
	if err != nil {
		h.publishError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, publishResponse{
		SourceType:     result.Key.SourceType,
		ID:             result.Key.ID,
		InvoiceNumber:  result.Issue.InvoiceNumber,
		Symbol:         result.Issue.Symbol,
		TemplateNumber: result.Issue.TemplateNumber,
		TradeNumber:    result.Transaction.Identity.TradeNumber,
	})
}

func (h *Handler) publishError(w http.ResponseWriter, err error) {
	var notRecorded *einvoice.NotRecordedError
	if errors.As(err, &notRecorded) {
		writeJSON(w, http.StatusInternalServerError, publishErrorResponse{
			Error:         notRecorded.Error(),
			NotRecorded:   true,
			InvoiceNumber: notRecorded.Issue.InvoiceNumber,
			Symbol:        notRecorded.Issue.Symbol,
		})

		return
	}

	var provErr *einvoice.ProviderError
	if errors.As(err, &provErr) {
		writeJSON(w, http.StatusBadGateway, publishErrorResponse{Error: provErr.Message})
		return
	}

	switch {
	case errors.Is(err, transaction.ErrNotFound):
		writeJSON(w, http.StatusNotFound, publishErrorResponse{Error: "transaction not found"})
	case errors.Is(err, transaction.ErrAlreadyPublished),
		errors.Is(err, einvoice.ErrNoLineItems):
		writeJSON(w, http.StatusUnprocessableEntity, publishErrorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, publishErrorResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
