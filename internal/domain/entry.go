package domain

import "time"

// Entry status lifecycle: pending -> link_sent -> verified | verification_failed.
// A failed entry can return to link_sent via a staff resend.
const (
	StatusPending            = "pending"
	StatusLinkSent           = "link_sent"
	StatusVerified           = "verified"
	StatusVerificationFailed = "verification_failed"
)

// Verification types supported by the registry collaborators.
const (
	VerificationTypeCAC = "CAC"
	VerificationTypeNIN = "NIN"
)

// EncryptedIdentifier is the at-rest form of a party's identity number.
// The cleartext exists only transiently inside the vault/lookup call stack.
type EncryptedIdentifier struct {
	Ciphertext string `json:"ciphertext" dynamodbav:"ciphertext"`
	IV         string `json:"iv" dynamodbav:"iv"`
}

// IsZero reports whether no identifier was captured at ingestion.
func (e EncryptedIdentifier) IsZero() bool {
	return e.Ciphertext == "" && e.IV == ""
}

// ListEntry is one verifiable party from an uploaded list. The Data map
// preserves every original column; the identity number column is removed at
// ingestion and kept only as Identifier (encrypted).
type ListEntry struct {
	EntryID     string            `json:"id" dynamodbav:"entry_id"`
	ListID      string            `json:"list_id" dynamodbav:"list_id"`
	Data        map[string]string `json:"data" dynamodbav:"data"`
	Email       string            `json:"email" dynamodbav:"email"`
	DisplayName string            `json:"display_name,omitempty" dynamodbav:"display_name"`
	PolicyNumber string           `json:"policy_number,omitempty" dynamodbav:"policy_number"`

	VerificationType string              `json:"verification_type,omitempty" dynamodbav:"verification_type"`
	Status           string              `json:"status" dynamodbav:"status"`
	Identifier       EncryptedIdentifier `json:"-" dynamodbav:"identifier"`

	Token          string     `json:"-" dynamodbav:"token"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" dynamodbav:"token_expires_at"`

	VerificationAttempts int        `json:"verification_attempts" dynamodbav:"verification_attempts"`
	ResendCount          int        `json:"resend_count" dynamodbav:"resend_count"`
	LinkSentAt           *time.Time `json:"link_sent_at,omitempty" dynamodbav:"link_sent_at"`
	VerifiedAt           *time.Time `json:"verified_at,omitempty" dynamodbav:"verified_at"`

	VerificationDetails *VerificationDetails `json:"verification_details,omitempty" dynamodbav:"verification_details"`

	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// VerificationDetails is the structured outcome stored on an entry once a
// submission has been resolved.
type VerificationDetails struct {
	Matched      bool              `json:"matched" dynamodbav:"matched"`
	FailedFields []string          `json:"failed_fields" dynamodbav:"failed_fields"`
	APIData      map[string]string `json:"api_data,omitempty" dynamodbav:"api_data"`
	Source       string            `json:"source,omitempty" dynamodbav:"source"` // "CAC" | "NIN"
	Timestamp    time.Time         `json:"timestamp" dynamodbav:"timestamp"`
}

// TokenExpired reports whether the entry's current verification token has
// lapsed at the given instant. Entries without a token count as expired.
func (e *ListEntry) TokenExpired(now time.Time) bool {
	return e.TokenExpiresAt == nil || now.After(*e.TokenExpiresAt)
}
