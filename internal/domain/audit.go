package domain

import "time"

// Audit results.
const (
	AuditResultSuccess = "success"
	AuditResultFailure = "failure"
)

// Audit actions recorded by the verification pipeline.
const (
	AuditActionLinkSent     = "link_sent"
	AuditActionLinkResent   = "link_resent"
	AuditActionVerification = "verification_attempt"
)

// AuditLogEntry is one append-only audit record. MaskedIdentifier is always
// the vault-masked form; cleartext and ciphertext never reach this structure.
type AuditLogEntry struct {
	AuditID          string    `json:"id" dynamodbav:"audit_id"`
	Timestamp        time.Time `json:"timestamp" dynamodbav:"timestamp"`
	Action           string    `json:"action" dynamodbav:"action"`
	EntryID          string    `json:"entry_id" dynamodbav:"entry_id"`
	ListID           string    `json:"list_id" dynamodbav:"list_id"`
	MaskedIdentifier string    `json:"masked_identifier" dynamodbav:"masked_identifier"`
	Result           string    `json:"result" dynamodbav:"result"`
	Matched          bool      `json:"matched" dynamodbav:"matched"`
	FailedFields     []string  `json:"failed_fields,omitempty" dynamodbav:"failed_fields"`
	Source           string    `json:"source,omitempty" dynamodbav:"source"` // "CAC" | "NIN"
	ErrorType        string    `json:"error_type,omitempty" dynamodbav:"error_type"`
	APIStatus        string    `json:"api_status,omitempty" dynamodbav:"api_status"`
	APIMessage       string    `json:"api_message,omitempty" dynamodbav:"api_message"`
}
