package http

import (
	"net/http"

	"myfinance/internal/core"
	"myfinance/internal/log"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireAccount(w, r)
	if !ok {
		return
	}
	f := ParseFilter(r.URL.Query())
	list, err := s.svc.ListExpenses(r.Context(), account, f)
	if err != nil {
		s.writeError(w, r, log.OpList, err)
		return
	}
	var total float64
	for _, e := range list {
		total += e.Amount
	}
	NewJSONResponse().Data(map[string]any{
		"expenses": toExpenseList(list),
		"count":    len(list),
		"total":    core.Round2(total),
	}).Write(w)
}

// handleAddExpense applies the merge rule: 201 for a new record, 200 when
// the amount was folded into an existing one.
func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireAccount(w, r)
	if !ok {
		return
	}
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	candidate, err := req.toExpense()
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	res, err := s.svc.AddExpense(r.Context(), account, candidate)
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}

	status := http.StatusCreated
	if res.Merged {
		status = http.StatusOK
	}

	NewJSONResponse().Status(status).Data(map[string]any{
		"expense": toExpenseJSON(res.Expense),
		"merged":  res.Merged,
	}).Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireAccount(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	e, err := req.toExpense()
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	updated, err := s.svc.UpdateExpense(r.Context(), account, id, e)
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	NewJSONResponse().Data(map[string]any{"expense": toExpenseJSON(updated)}).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireAccount(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, log.OpDelete, err)
		return
	}
	if err := s.svc.DeleteExpense(r.Context(), account, id); err != nil {
		s.writeError(w, r, log.OpDelete, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
