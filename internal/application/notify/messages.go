// Package notify builds and dispatches every message the verification
// pipeline sends: verification links, customer failure notices, and staff
// failure alerts. Customer text never contains technical detail; staff text
// always does.
package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/identity-verify-api/internal/domain"
)

// fieldNames maps raw column keys to display names. Unknown keys fall back to
// a camelCase split.
var fieldNames = map[string]string{
	"firstName":          "First Name",
	"lastName":           "Last Name",
	"middleName":         "Middle Name",
	"dateOfBirth":        "Date of Birth",
	"gender":             "Gender",
	"nin":                "NIN",
	"companyName":        "Company Name",
	"registrationNumber": "Registration Number",
	"registrationDate":   "Registration Date",
	"cac":                "CAC Number",
}

var errTypeNames = map[string]string{
	domain.ErrTypeFieldMismatch: "Field Mismatch",
	domain.ErrTypeAPIError:      "API Error",
	domain.ErrTypeInvalidInput:  "Invalid Input",
	domain.ErrTypeMaxAttempts:   "Maximum Attempts Exceeded",
	domain.ErrTypeExpiredToken:  "Expired Token",
}

// FormatFieldName turns a raw field key into its display form.
func FormatFieldName(field string) string {
	if name, ok := fieldNames[field]; ok {
		return name
	}
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// FormatErrorType turns an error type constant into its display form.
func FormatErrorType(errType string) string {
	if name, ok := errTypeNames[errType]; ok {
		return name
	}
	return errType
}

// ErrorOptions carries the context a verification error message is built from.
type ErrorOptions struct {
	FailedFields     []string
	BrokerEmail      string
	CustomerName     string
	PolicyNumber     string
	VerificationType string
	Message          string
	TechnicalDetails map[string]string
}

// NewError builds a domain.VerificationError with both audience messages
// populated. errType must be one of the five domain error types.
func NewError(errType string, opts ErrorOptions) *domain.VerificationError {
	msg := opts.Message
	if msg == "" {
		msg = FormatErrorType(errType)
	}
	return &domain.VerificationError{
		ErrorType:        errType,
		FailedFields:     opts.FailedFields,
		Message:          msg,
		CustomerMessage:  CustomerMessage(errType, opts.FailedFields, opts.BrokerEmail),
		StaffMessage:     StaffMessage(errType, opts),
		BrokerEmail:      opts.BrokerEmail,
		TechnicalDetails: opts.TechnicalDetails,
	}
}

// CustomerMessage writes the customer-facing explanation for a failure. Every
// message tells the customer to contact their broker and never mentions
// internals.
func CustomerMessage(errType string, failedFields []string, brokerEmail string) string {
	broker := "your broker"
	if brokerEmail != "" {
		broker = "your broker at " + brokerEmail
	}

	switch errType {
	case domain.ErrTypeFieldMismatch:
		fieldList := "some of your information"
		if len(failedFields) > 0 {
			names := make([]string, len(failedFields))
			for i, f := range failedFields {
				names[i] = FormatFieldName(f)
			}
			fieldList = strings.Join(names, ", ")
		}
		return fmt.Sprintf("We were unable to verify your identity because %s did not match our records. This could be due to a typo or outdated information in our system.\n\nNext Steps:\nPlease contact %s to resolve this issue. They will help ensure your information is correct and matches your official documents.", fieldList, broker)

	case domain.ErrTypeAPIError:
		return fmt.Sprintf("We're experiencing technical difficulties with our verification service. Please try again in a few minutes.\n\nIf the problem persists, please contact %s for assistance.", broker)

	case domain.ErrTypeInvalidInput:
		return fmt.Sprintf("The information you provided appears to be invalid. Please check that you've entered your identification number correctly.\n\nIf you continue to experience issues, please contact %s for assistance.", broker)

	case domain.ErrTypeMaxAttempts:
		return fmt.Sprintf("You have reached the maximum number of verification attempts. For security reasons, this verification link has been disabled.\n\nPlease contact %s to request a new verification link.", broker)

	case domain.ErrTypeExpiredToken:
		return fmt.Sprintf("This verification link has expired. For security reasons, verification links are only valid for a limited time.\n\nPlease contact %s to request a new verification link.", broker)

	default:
		return fmt.Sprintf("An unexpected error occurred during verification. Please contact %s for assistance.", broker)
	}
}

// StaffMessage writes the staff-facing alert for a failure, including the
// technical detail customers never see.
func StaffMessage(errType string, opts ErrorOptions) string {
	var b strings.Builder
	b.WriteString("Verification Failure Alert\n\n")

	if opts.CustomerName != "" {
		fmt.Fprintf(&b, "Customer: %s\n", opts.CustomerName)
	}
	if opts.PolicyNumber != "" {
		fmt.Fprintf(&b, "Policy Number: %s\n", opts.PolicyNumber)
	}
	if opts.VerificationType != "" {
		fmt.Fprintf(&b, "Verification Type: %s\n", opts.VerificationType)
	}
	fmt.Fprintf(&b, "Error Type: %s\n\n", FormatErrorType(errType))

	switch errType {
	case domain.ErrTypeFieldMismatch:
		b.WriteString("Failed Fields:\n")
		if len(opts.FailedFields) > 0 {
			for _, f := range opts.FailedFields {
				fmt.Fprintf(&b, "  - %s\n", FormatFieldName(f))
			}
		} else {
			b.WriteString("  - Multiple fields did not match\n")
		}
		writeTechnicalDetails(&b, opts.TechnicalDetails)
		b.WriteString("\nAction Required:\nPlease verify that the data provided in the uploaded list is accurate and matches the customer's official documents. Contact the customer if necessary to confirm their information.")

	case domain.ErrTypeAPIError:
		b.WriteString("The verification API returned an error. This may be a temporary service issue.\n")
		writeTechnicalDetails(&b, opts.TechnicalDetails)
		b.WriteString("\nAction Required:\nMonitor the situation. If the issue persists, contact the API provider or IT support.")

	case domain.ErrTypeInvalidInput:
		b.WriteString("The customer provided invalid input that could not be processed.\n")
		writeTechnicalDetails(&b, opts.TechnicalDetails)
		b.WriteString("\nAction Required:\nContact the customer to verify they have the correct identification number.")

	case domain.ErrTypeMaxAttempts:
		b.WriteString("The customer has exceeded the maximum number of verification attempts.\n")
		b.WriteString("\nAction Required:\nReview the customer's information and resend a new verification link if appropriate.")

	case domain.ErrTypeExpiredToken:
		b.WriteString("The customer attempted to use an expired verification link.\n")
		b.WriteString("\nAction Required:\nResend a new verification link to the customer.")

	default:
		b.WriteString("An unexpected error occurred.\n\nAction Required:\nInvestigate the issue and contact technical support if necessary.")
	}

	return b.String()
}

func writeTechnicalDetails(b *strings.Builder, details map[string]string) {
	if len(details) == 0 {
		return
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString("\nTechnical Details:\n")
	for _, k := range keys {
		fmt.Fprintf(b, "  - %s: %s\n", k, details[k])
	}
}
