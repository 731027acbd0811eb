package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finas/internal/ai"
	"finas/internal/core"
	"finas/internal/store"
)

// evaluateAutoIncome runs the injector and purges the report cache when a
// salary record was added. Mutations and dashboard loads both go through it.
func (s *Server) evaluateAutoIncome(r *http.Request) {
	if s.injector == nil {
		return
	}
	ctx := r.Context()
	injected, err := s.injector.Evaluate(ctx, time.Now())
	if err != nil {
		slog.ErrorContext(ctx, "Auto income evaluation failed", "error", err)
	}
	if injected {
		s.reportCache.Purge()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// handleCycles serves the cycle selector: the current cycle plus every
// cycle any transaction falls into, sorted oldest first.
func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	transactions := s.svc.List(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"current": core.CurrentCycleLabel(time.Now()),
		"cycles":  core.AvailableCycles(transactions),
	})
}

type createTransactionRequest struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	SubCategory string          `json:"subCategory"`
	Amount      json.RawMessage `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions := s.svc.List(r.Context())
	if cycle := r.URL.Query().Get("cycle"); cycle != "" {
		transactions = core.CycleTransactions(transactions, cycle)
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}

	// The amount arrives as a number or as a formatted string like
	// "7.000.000"; both go through the same parser.
	amountRaw := strings.Trim(strings.TrimSpace(string(req.Amount)), `"`)
	amount, err := core.ParseAmount(amountRaw)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	category := core.Category(req.Category)
	if req.Category == "" {
		suggested, err := s.advisor.Categorize(ctx, req.Description)
		if err != nil {
			slog.ErrorContext(ctx, "Auto-categorization failed, using catch-all",
				"description", req.Description, "error", err)
			suggested = core.CategoryLainLain
		}
		category = suggested
	}

	created, err := s.svc.Create(ctx, core.Transaction{
		Date:        date,
		Description: strings.TrimSpace(req.Description),
		SubCategory: req.SubCategory,
		Amount:      amount,
		Type:        core.TransactionType(req.Type),
		Category:    category,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateID) {
			writeError(w, http.StatusConflict, "transaction already exists")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.reportCache.Purge()
	s.evaluateAutoIncome(r)

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := s.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}

	s.reportCache.Purge()
	s.evaluateAutoIncome(r)

	w.WriteHeader(http.StatusNoContent)
}

// handleDashboard serves the aggregated report for one cycle. The injector
// runs first so opening the dashboard on payday records the salary.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	ctx := r.Context()

	s.evaluateAutoIncome(r)

	cycle := r.URL.Query().Get("cycle")
	if cycle == "" {
		cycle = core.CurrentCycleLabel(time.Now())
	}

	if report, ok := s.reportCache.Get(cycle); ok {
		writeJSON(w, http.StatusOK, report)
		return
	}

	transactions := s.svc.List(ctx)
	settings := s.svc.Settings(ctx)
	report := core.BuildReport(transactions, cycle, settings)
	s.reportCache.Set(cycle, report)

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.svc.Settings(r.Context()))
	case http.MethodPut:
		var settings core.AppSettings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.svc.SaveSettings(r.Context(), settings); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.reportCache.Purge()
		s.evaluateAutoIncome(r)
		writeJSON(w, http.StatusOK, settings)
	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

type adviceRequest struct {
	Cycle string `json:"cycle"`
}

type adviceResponse struct {
	Cycle   string                `json:"cycle"`
	Insight core.FinancialInsight `json:"insight"`
}

// handleAdvice runs AI analysis over one cycle's transactions. A failed
// model call degrades to the canned insight instead of an error so the
// client always has something to render.
func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	ctx := r.Context()

	var req adviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Cycle == "" {
		req.Cycle = core.CurrentCycleLabel(time.Now())
	}

	transactions := core.CycleTransactions(s.svc.List(ctx), req.Cycle)
	if len(transactions) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "no transactions in cycle")
		return
	}

	insight, err := s.advisor.FinancialAdvice(ctx, transactions)
	if err != nil {
		slog.ErrorContext(ctx, "Financial advice failed, serving fallback",
			"cycle", req.Cycle, "error", err)
		insight = ai.FallbackInsight()
	}

	writeJSON(w, http.StatusOK, adviceResponse{Cycle: req.Cycle, Insight: insight})
}
