package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/minhhq/backoffice/internal/export"
	"github.com/minhhq/backoffice/internal/reconcile"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions", h.transactions)
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	workbook, err := h.svc.Workbook(r.Context(), filter)
	if err != nil {
		http.Error(w, "failed to build export", http.StatusInternalServerError)
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("transactions_%s.xlsx", time.Now().Format("20060102_150405"))

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := workbook.Write(w); err != nil {
		slog.Error("failed to write workbook", "error", err)
	}
}

func filterFromQuery(r *http.Request) (reconcile.Filter, error) {
	filter := reconcile.Filter{
		Customer: r.URL.Query().Get("customer"),
		Code:     r.URL.Query().Get("code"),
		TaxCode:  r.URL.Query().Get("tax_code"),
	}

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return reconcile.Filter{}, fmt.Errorf("invalid from date: %w", err)
		}

		filter.From = &from
	}

	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return reconcile.Filter{}, fmt.Errorf("invalid to date: %w", err)
		}

		filter.To = &to
	}

	return filter, nil
}
