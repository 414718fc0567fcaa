package domain

// Verification error taxonomy. Every failure of the verification pipeline is
// one of these five kinds; all are terminal for the current attempt.
const (
	ErrTypeFieldMismatch = "field_mismatch"
	ErrTypeAPIError      = "api_error"
	ErrTypeInvalidInput  = "invalid_input"
	ErrTypeMaxAttempts   = "max_attempts"
	ErrTypeExpiredToken  = "expired_token"
)

// VerificationError is a failure returned as a value, never thrown. It always
// carries both audience messages together: CustomerMessage is free of
// technical detail, StaffMessage may include it.
type VerificationError struct {
	ErrorType        string            `json:"error_type"`
	FailedFields     []string          `json:"failed_fields,omitempty"`
	Message          string            `json:"message"`
	CustomerMessage  string            `json:"customer_message"`
	StaffMessage     string            `json:"staff_message"`
	BrokerEmail      string            `json:"broker_email,omitempty"`
	TechnicalDetails map[string]string `json:"-"`
}

func (e *VerificationError) Error() string {
	return "verification failed: " + e.ErrorType + ": " + e.Message
}
