package notify

import (
	"strings"
	"testing"

	"github.com/identity-verify-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func allErrorTypes() []string {
	return []string{
		domain.ErrTypeFieldMismatch,
		domain.ErrTypeAPIError,
		domain.ErrTypeInvalidInput,
		domain.ErrTypeMaxAttempts,
		domain.ErrTypeExpiredToken,
	}
}

func TestFormatFieldName(t *testing.T) {
	assert.Equal(t, "First Name", FormatFieldName("firstName"))
	assert.Equal(t, "Date of Birth", FormatFieldName("dateOfBirth"))
	assert.Equal(t, "NIN", FormatFieldName("nin"))
	assert.Equal(t, "CAC Number", FormatFieldName("cac"))
	// Unknown keys fall back to a camelCase split.
	assert.Equal(t, "next Of Kin", FormatFieldName("nextOfKin"))
}

func TestFormatErrorType(t *testing.T) {
	assert.Equal(t, "Field Mismatch", FormatErrorType(domain.ErrTypeFieldMismatch))
	assert.Equal(t, "Maximum Attempts Exceeded", FormatErrorType(domain.ErrTypeMaxAttempts))
	assert.Equal(t, "something_else", FormatErrorType("something_else"))
}

func TestCustomerMessage_AlwaysPointsAtBroker(t *testing.T) {
	for _, errType := range allErrorTypes() {
		msg := CustomerMessage(errType, nil, "")
		assert.Contains(t, msg, "your broker", "error type %s", errType)

		msg = CustomerMessage(errType, nil, "broker@example.com")
		assert.Contains(t, msg, "your broker at broker@example.com", "error type %s", errType)
	}
}

func TestCustomerMessage_NeverLeaksInternals(t *testing.T) {
	for _, errType := range allErrorTypes() {
		msg := strings.ToLower(CustomerMessage(errType, []string{"companyName"}, "broker@example.com"))
		for _, leak := range []string{"stack", "http", "dynamodb", "registry", "provider_code", "api error"} {
			assert.NotContains(t, msg, leak, "error type %s", errType)
		}
	}
}

func TestCustomerMessage_FieldMismatchListsFields(t *testing.T) {
	msg := CustomerMessage(domain.ErrTypeFieldMismatch, []string{"companyName", "registrationDate"}, "")
	assert.Contains(t, msg, "Company Name, Registration Date")

	msg = CustomerMessage(domain.ErrTypeFieldMismatch, nil, "")
	assert.Contains(t, msg, "some of your information")
}

func TestStaffMessage_HeaderAndAction(t *testing.T) {
	for _, errType := range allErrorTypes() {
		msg := StaffMessage(errType, ErrorOptions{
			CustomerName:     "Acme Corporation Ltd",
			PolicyNumber:     "POL-001",
			VerificationType: domain.VerificationTypeCAC,
		})
		assert.True(t, strings.HasPrefix(msg, "Verification Failure Alert\n\n"), "error type %s", errType)
		assert.Contains(t, msg, "Action Required:", "error type %s", errType)
		assert.Contains(t, msg, "Customer: Acme Corporation Ltd")
		assert.Contains(t, msg, "Policy Number: POL-001")
		assert.Contains(t, msg, "Verification Type: CAC")
	}
}

func TestStaffMessage_FieldMismatchDetail(t *testing.T) {
	msg := StaffMessage(domain.ErrTypeFieldMismatch, ErrorOptions{
		FailedFields: []string{"companyName"},
		TechnicalDetails: map[string]string{
			"Company Name": `registry="acme corporation ltd" submitted="different company ltd"`,
		},
	})
	assert.Contains(t, msg, "Failed Fields:\n  - Company Name")
	assert.Contains(t, msg, "Technical Details:")
	assert.Contains(t, msg, `submitted="different company ltd"`)
}

func TestStaffMessage_TechnicalDetailsSorted(t *testing.T) {
	msg := StaffMessage(domain.ErrTypeAPIError, ErrorOptions{
		TechnicalDetails: map[string]string{
			"provider_message": "maintenance window",
			"provider_code":    "service_unavailable",
		},
	})
	codeIdx := strings.Index(msg, "provider_code")
	msgIdx := strings.Index(msg, "provider_message")
	assert.Greater(t, codeIdx, 0)
	assert.Greater(t, msgIdx, codeIdx)
}

func TestNewError(t *testing.T) {
	verr := NewError(domain.ErrTypeFieldMismatch, ErrorOptions{
		FailedFields: []string{"companyName"},
		BrokerEmail:  "broker@example.com",
		CustomerName: "Acme Corporation Ltd",
	})

	assert.Equal(t, domain.ErrTypeFieldMismatch, verr.ErrorType)
	assert.Equal(t, []string{"companyName"}, verr.FailedFields)
	assert.Equal(t, "Field Mismatch", verr.Message)
	assert.Equal(t, "broker@example.com", verr.BrokerEmail)
	assert.Contains(t, verr.CustomerMessage, "your broker at broker@example.com")
	assert.Contains(t, verr.StaffMessage, "Verification Failure Alert")
	assert.EqualError(t, verr, "verification failed: field_mismatch: Field Mismatch")
}

func TestNewError_ExplicitMessageWins(t *testing.T) {
	verr := NewError(domain.ErrTypeAPIError, ErrorOptions{Message: "no registry configured for CAC"})
	assert.Equal(t, "no registry configured for CAC", verr.Message)
}
