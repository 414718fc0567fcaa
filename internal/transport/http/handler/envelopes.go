package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/identity-verify-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// AuthEnvelope wraps staff login responses.
type AuthEnvelope struct {
	Bearer string            `json:"Bearer,omitempty"`
	User   *domain.StaffUser `json:"user,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// VerifyEnvelope wraps verification submission responses. On failure only the
// customer-facing fields are present; staff detail travels by email and audit
// log, never over this endpoint.
type VerifyEnvelope struct {
	Verified     bool     `json:"verified"`
	Message      string   `json:"message,omitempty"`
	ErrorType    string   `json:"error_type,omitempty"`
	FailedFields []string `json:"failed_fields,omitempty"`
	BrokerEmail  string   `json:"broker_email,omitempty"`
}

// PaginatedListsEnvelope wraps paginated identity list responses.
type PaginatedListsEnvelope struct {
	Data       []domain.IdentityList `json:"data"`
	NextCursor string                `json:"next_cursor,omitempty"`
	Error      string                `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeDomainError maps domain sentinel errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
