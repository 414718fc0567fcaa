package domain

import "time"

// IdentityList is one uploaded list of parties to verify. Column order from
// the original file is preserved for display and export.
type IdentityList struct {
	ListID           string   `json:"id" dynamodbav:"list_id"`
	Name             string   `json:"name" dynamodbav:"name"`
	Columns          []string `json:"columns" dynamodbav:"columns"`
	EmailColumn      string   `json:"email_column" dynamodbav:"email_column"`
	IdentifierColumn string   `json:"identifier_column" dynamodbav:"identifier_column"`
	VerificationType string   `json:"verification_type" dynamodbav:"verification_type"`

	TotalEntries  int `json:"total_entries" dynamodbav:"total_entries"`
	VerifiedCount int `json:"verified_count" dynamodbav:"verified_count"`
	PendingCount  int `json:"pending_count" dynamodbav:"pending_count"`
	FailedCount   int `json:"failed_count" dynamodbav:"failed_count"`
	LinkSentCount int `json:"link_sent_count" dynamodbav:"link_sent_count"`

	CreatedBy        string    `json:"created_by" dynamodbav:"created_by"`
	OriginalFileName string    `json:"original_file_name,omitempty" dynamodbav:"original_file_name"`
	UploadKey        string    `json:"-" dynamodbav:"upload_key"` // S3 retention copy of the raw upload
	CreatedAt        time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updated" dynamodbav:"updated_at"`
}

// CreateListRequest is the admin payload for list ingestion.
type CreateListRequest struct {
	Name             string              `json:"name" validate:"required"`
	Columns          []string            `json:"columns" validate:"required,min=1"`
	Rows             []map[string]string `json:"rows" validate:"required,min=1"`
	EmailColumn      string              `json:"email_column" validate:"required"`
	IdentifierColumn string              `json:"identifier_column" validate:"required"`
	VerificationType string              `json:"verification_type" validate:"required,oneof=CAC NIN"`
	OriginalFileName string              `json:"original_file_name"`
}
