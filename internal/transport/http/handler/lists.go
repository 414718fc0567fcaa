package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/identity-verify-api/internal/application/list"
	"github.com/identity-verify-api/internal/domain"
	"github.com/identity-verify-api/internal/transport/http/middleware"
)

// ListHandler handles staff operations on identity lists.
type ListHandler struct {
	svc list.Service
}

func NewListHandler(svc list.Service) *ListHandler {
	return &ListHandler{svc: svc}
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	createdBy := ""
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		createdBy = claims.UserID
	}
	l, err := h.svc.Create(r.Context(), createdBy, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	lists, next, err := h.svc.List(r.Context(), limit, r.URL.Query().Get("cursor"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PaginatedListsEnvelope{Data: lists, NextCursor: next})
}

func (h *ListHandler) Entries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Entries(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": entries})
}

func (h *ListHandler) BulkSend(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.BulkSend(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
