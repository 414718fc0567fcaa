package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/identity-verify-api/internal/application/tokenmgr"
	"github.com/identity-verify-api/internal/application/verification"
	"github.com/identity-verify-api/internal/domain"
)

// VerifyHandler handles the public verification endpoints customers reach
// through their emailed links. No authentication: the token is the
// credential.
type VerifyHandler struct {
	svc    verification.Service
	tokens tokenmgr.Service
}

func NewVerifyHandler(svc verification.Service, tokens tokenmgr.Service) *VerifyHandler {
	return &VerifyHandler{svc: svc, tokens: tokens}
}

// Context returns the display context for a verification link without
// consuming an attempt, so the front end can render the form.
func (h *VerifyHandler) Context(w http.ResponseWriter, r *http.Request) {
	tok := chi.URLParam(r, "token")
	entry, err := h.tokens.Validate(r.Context(), tok)
	if err != nil {
		h.writeValidationFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"display_name":      entry.DisplayName,
		"verification_type": entry.VerificationType,
		"status":            entry.Status,
	})
}

// Submit runs a verification attempt for the token.
func (h *VerifyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	tok := chi.URLParam(r, "token")
	_, err := h.svc.Resolve(r.Context(), tok)
	if err != nil {
		var verr *domain.VerificationError
		if errors.As(err, &verr) {
			writeJSON(w, statusForErrType(verr.ErrorType), VerifyEnvelope{
				Verified:     false,
				Message:      verr.CustomerMessage,
				ErrorType:    verr.ErrorType,
				FailedFields: verr.FailedFields,
				BrokerEmail:  verr.BrokerEmail,
			})
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyEnvelope{
		Verified: true,
		Message:  "Your identity has been verified successfully.",
	})
}

func (h *VerifyHandler) writeValidationFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tokenmgr.ErrUnknownToken):
		writeError(w, http.StatusNotFound, "verification link not recognised")
	case errors.Is(err, tokenmgr.ErrTokenExpired):
		writeError(w, http.StatusGone, "verification link has expired")
	case errors.Is(err, domain.ErrAttemptsExhausted):
		writeError(w, http.StatusForbidden, "maximum verification attempts reached")
	default:
		writeDomainError(w, err)
	}
}

func statusForErrType(errType string) int {
	switch errType {
	case domain.ErrTypeFieldMismatch:
		return http.StatusUnprocessableEntity
	case domain.ErrTypeInvalidInput:
		return http.StatusBadRequest
	case domain.ErrTypeExpiredToken:
		return http.StatusGone
	case domain.ErrTypeMaxAttempts:
		return http.StatusForbidden
	case domain.ErrTypeAPIError:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
