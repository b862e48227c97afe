package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"wallettrack/internal/core"
	"wallettrack/internal/currency"
	"wallettrack/internal/engine"
	"wallettrack/internal/export"
	"wallettrack/internal/ledger"
)

const dateLayout = "2006-01-02"

type addTransactionRequest struct {
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Kind     string `json:"kind"`
}

type transactionResponse struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
	Kind     string          `json:"kind"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses: unknown ids are 404,
// rejected input is 422, everything else is a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrUnknownKind),
		errors.Is(err, currency.ErrUnknownCurrency),
		errors.Is(err, engine.ErrUnknownView):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "url", r.URL.Path)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	kind, err := core.ParseKind(req.Kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	occurredAt, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		// Full timestamps are accepted too.
		occurredAt, err = time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeError(w, r, core.ErrInvalidDate)
			return
		}
	}

	id, err := s.engine.AddTransaction(r.Context(), amount, req.Category, occurredAt, kind)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleRemoveTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.engine.RemoveTransaction(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs := s.engine.Snapshot()
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionResponse{
			ID:       tx.ID,
			Amount:   tx.Amount,
			Category: tx.Category,
			Date:     tx.OccurredAt.Format(dateLayout),
			Kind:     string(tx.Kind),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": out,
		"currency":     currency.Canonical,
	})
}

func (s *Server) handleSetCurrency(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if err := s.engine.SetDisplayCurrency(r.Context(), req.Currency); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"currency": s.engine.DisplayCurrency()})
}

func (s *Server) handleSelectView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		View string `json:"view"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if err := s.engine.SelectView(r.Context(), req.View); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"view": string(s.engine.ActiveView())})
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	v, err := engine.ParseView(name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	display := s.engine.DisplayCurrency()
	switch v {
	case engine.ViewMonthly:
		series := s.engine.Monthly()
		writeJSON(w, http.StatusOK, monthlyPayload(series, display))
	case engine.ViewDaily:
		daily := s.engine.Daily()
		writeJSON(w, http.StatusOK, map[string]any{
			"view":       "daily",
			"currency":   display,
			"days":       daily.Days,
			"balances":   daily.Balances,
			"trend_sign": daily.TrendSign,
			"empty":      daily.Empty,
		})
	default:
		breakdown := s.engine.Category()
		writeJSON(w, http.StatusOK, map[string]any{
			"view":        "category",
			"currency":    display,
			"labels":      breakdown.Labels,
			"values":      breakdown.Values,
			"total":       breakdown.Total,
			"percentages": breakdown.Percentages(),
			"empty":       breakdown.Empty,
		})
	}
}

type monthBucketPayload struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
	Savings decimal.Decimal `json:"savings"`
	Surplus bool            `json:"surplus"`
}

func monthlyPayload(series core.MonthlySeries, display string) map[string]any {
	buckets := make([]monthBucketPayload, 0, len(series.Buckets))
	for _, b := range series.Buckets {
		buckets = append(buckets, monthBucketPayload{
			Year:    b.Year,
			Month:   int(b.Month),
			Label:   b.Label,
			Revenue: b.Revenue,
			Expense: b.Expense,
			Savings: b.Savings(),
			Surplus: b.Surplus(),
		})
	}
	return map[string]any{
		"view":     "monthly",
		"currency": display,
		"buckets":  buckets,
		"empty":    series.Empty,
	}
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.CSVFilename+`"`)

	txs := s.engine.Snapshot()
	if err := export.WriteCSV(w, txs, s.engine.Converter(), s.engine.DisplayCurrency()); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
	}
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.XLSXFilename+`"`)

	txs := s.engine.Snapshot()
	if err := export.WriteXLSX(w, txs, s.engine.Converter(), s.engine.DisplayCurrency()); err != nil {
		slog.ErrorContext(r.Context(), "XLSX export failed", "error", err)
	}
}
