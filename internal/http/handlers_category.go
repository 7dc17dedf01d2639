package http

import (
	"net/http"

	"myfinance/internal/log"
)

func (s *Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireAccount(w, r)
	if !ok {
		return
	}
	key := r.PathValue("key")
	items, err := s.svc.CategoryList(r.Context(), account, key)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	NewJSONResponse().Data(map[string]any{"key": key, "items": items}).Write(w)
}

// handleAddCategory appends one label. A label already present (ignoring
// case) leaves the list unchanged and answers 200.
func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireAccount(w, r)
	if !ok {
		return
	}
	key := r.PathValue("key")
	var req labelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	items, added, err := s.svc.AddCategory(r.Context(), account, key, sanitizeInput(req.Label))
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	NewJSONResponse().Status(status).Data(map[string]any{"key": key, "items": items, "added": added}).Write(w)
}

func (s *Server) handlePutCategories(w http.ResponseWriter, r *http.Request) {
	account, ok := s.requireAccount(w, r)
	if !ok {
		return
	}
	key := r.PathValue("key")
	var req listRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	for i := range req.Items {
		req.Items[i] = sanitizeInput(req.Items[i])
	}
	items, err := s.svc.PutCategoryList(r.Context(), account, key, req.Items)
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	NewJSONResponse().Data(map[string]any{"key": key, "items": items}).Write(w)
}
