package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/minhhq/backoffice/internal/reconcile"
	"github.com/minhhq/backoffice/internal/transaction"
)

type Handler struct {
	svc      *transaction.Service
	recon    *reconcile.Service
	validate *validator.Validate
}

func NewHandler(svc *transaction.Service, recon *reconcile.Service) *Handler {
	return &Handler{
		svc:      svc,
		recon:    recon,
		validate: validator.New(),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/bulk-cancel", h.bulkCancel)
	r.Patch("/invoice/{id}/amounts", h.updateAmounts)
	r.Get("/{sourceType}/{id}", h.get)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := reconcile.Filter{
		Customer: r.URL.Query().Get("customer"),
		Code:     r.URL.Query().Get("code"),
		TaxCode:  r.URL.Query().Get("tax_code"),
	}

	if s := r.URL.Query().Get("from"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}

		filter.From = &t
	}

	if s := r.URL.Query().Get("to"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}

		filter.To = &t
	}

	result, err := h.recon.Reconcile(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(result))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	key, ok := parseKey(w, r)
	if !ok {
		return
	}

	tx, err := h.svc.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

type updateAmountsRequest struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

func (h *Handler) updateAmounts(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateAmountsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.UpdateInvoiceAmounts(r.Context(), id, transaction.Amounts{
		Subtotal: req.Subtotal,
		Tax:      req.Tax,
		Total:    req.Total,
	})
	if err != nil {
		switch {
		case errors.Is(err, transaction.ErrNotFound):
			http.Error(w, "invoice not found", http.StatusNotFound)
		case errors.Is(err, transaction.ErrAmountsLocked):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, transaction.ErrAmountsInconsistent):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

type bulkCancelRequest struct {
	Keys []bulkCancelKey `json:"keys" validate:"required,min=1,dive"`
}

type bulkCancelKey struct {
	SourceType string `json:"source_type" validate:"required,oneof=order invoice"`
	ID         int64  `json:"id" validate:"required,gt=0"`
}

func (h *Handler) bulkCancel(w http.ResponseWriter, r *http.Request) {
	var req bulkCancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	keys := make([]transaction.Key, 0, len(req.Keys))

	for _, k := range req.Keys {
		sourceType, err := transaction.ParseSourceType(k.SourceType)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		keys = append(keys, transaction.Key{SourceType: sourceType, ID: k.ID})
	}

	report := h.svc.BulkCancel(r.Context(), keys)

	writeJSON(w, http.StatusOK, toBulkResponse(report))
}

func parseKey(w http.ResponseWriter, r *http.Request) (transaction.Key, bool) {
	sourceType, err := transaction.ParseSourceType(chi.URLParam(r, "sourceType"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return transaction.Key{}, false
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return transaction.Key{}, false
	}

	return transaction.Key{SourceType: sourceType, ID: id}, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
