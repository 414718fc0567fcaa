package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldStatus              = "status"
	fieldToken               = "token"
	fieldTokenExpiresAt      = "token_expires_at"
	fieldAttempts            = "verification_attempts"
	fieldResendCount         = "resend_count"
	fieldLinkSentAt          = "link_sent_at"
	fieldVerifiedAt          = "verified_at"
	fieldVerificationDetails = "verification_details"
	fieldUpdatedAt           = "updated_at"
)
