package http

import (
	"net/http"
	"strings"

	"myfinance/internal/core"
	"myfinance/internal/log"
)

// handleSummary totals the records passing the list filters as of ?cutoff.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireAccount(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	cutoff, err := parseOptionalDate(q, "cutoff")
	if err != nil {
		s.writeError(w, r, log.OpSummary, err)
		return
	}
	totals, err := s.svc.Summary(r.Context(), account, ParseFilter(q), cutoff)
	if err != nil {
		s.writeError(w, r, log.OpSummary, err)
		return
	}
	NewJSONResponse().Data(toTotalsJSON(totals)).Write(w)
}

func queryOr(r *http.Request, key, fallback string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		return v
	}
	return fallback
}

// handleExpenseBreakdown groups the filtered expenses by ?by
// (bank_type, card_type or expense_type).
func (s *Server) handleExpenseBreakdown(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireAccount(w, r)
	if !ok {
		return
	}
	f := ParseFilter(r.URL.Query())
	by := queryOr(r, "by", core.ByExpenseType)
	list, err := s.svc.ExpenseBreakdown(r.Context(), account, f, by)
	if err != nil {
		s.writeError(w, r, log.OpSummary, err)
		return
	}
	NewJSONResponse().Data(map[string]any{"by": by, "items": toBreakdownJSON(list)}).Write(w)
}

// handleInvestmentBreakdown sums ?measure (current_value or
// investment_amount) per ?by (mode or type).
func (s *Server) handleInvestmentBreakdown(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireAccount(w, r)
	if !ok {
		return
	}
	f := ParseFilter(r.URL.Query())
	by := queryOr(r, "by", core.ByType)
	measure := queryOr(r, "measure", core.MeasureCurrentValue)
	list, err := s.svc.InvestmentBreakdown(r.Context(), account, f, by, measure)
	if err != nil {
		s.writeError(w, r, log.OpSummary, err)
		return
	}
	NewJSONResponse().Data(map[string]any{"by": by, "measure": measure, "items": toBreakdownJSON(list)}).Write(w)
}
