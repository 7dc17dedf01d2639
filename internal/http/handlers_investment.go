package http

import (
	"net/http"

	"myfinance/internal/log"
)

// handleListInvestments tags every listed record with whether it feeds the
// totals as of ?cutoff (default today).
func (s *Server) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireAccount(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	f := ParseFilter(q)
	cutoff, err := parseOptionalDate(q, "cutoff")
	if err != nil {
		s.writeError(w, r, log.OpList, err)
		return
	}
	list, err := s.svc.ListInvestments(r.Context(), account, f, cutoff)
	if err != nil {
		s.writeError(w, r, log.OpList, err)
		return
	}
	NewJSONResponse().Data(map[string]any{
		"investments": toTaggedList(list),
		"count":       len(list),
	}).Write(w)
}

func (s *Server) handleAddInvestment(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireAccount(w, r)
	if !ok {
		return
	}
	var req investmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	inv, err := req.toInvestment()
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	created, err := s.svc.AddInvestment(r.Context(), account, inv)
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Data(map[string]any{"investment": toInvestmentJSON(created)}).Write(w)
}

func (s *Server) handleUpdateInvestment(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireAccount(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	var req investmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	inv, err := req.toInvestment()
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	updated, err := s.svc.UpdateInvestment(r.Context(), account, id, inv)
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	NewJSONResponse().Data(map[string]any{"investment": toInvestmentJSON(updated)}).Write(w)
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireAccount(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, log.OpDelete, err)
		return
	}
	if err := s.svc.DeleteInvestment(r.Context(), account, id); err != nil {
		s.writeError(w, r, log.OpDelete, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
