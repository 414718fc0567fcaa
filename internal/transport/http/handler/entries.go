package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/identity-verify-api/internal/application/verification"
)

// EntryHandler handles staff operations on individual entries.
type EntryHandler struct {
	svc verification.Service
}

func NewEntryHandler(svc verification.Service) *EntryHandler {
	return &EntryHandler{svc: svc}
}

// SendLink issues the first verification link for a pending entry.
func (h *EntryHandler) SendLink(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.SendLink(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Resend replaces the entry's link with a fresh one. This is how staff
// recover a failed or expired entry; the attempt budget is not reset.
func (h *EntryHandler) Resend(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Resend(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
