package match

import (
	"github.com/identity-verify-api/internal/domain"
	"github.com/identity-verify-api/internal/pkg/normalize"
)

// activeCompanyStatuses are the registry company statuses accepted as valid.
var activeCompanyStatuses = map[string]bool{
	"active":   true,
	"verified": true,
}

// CACSpecs builds the comparison specs for a corporate registry record
// against a list entry's data columns. Spec order governs the order of
// failed-field reporting.
func CACSpecs(rec *domain.RegistryRecord, data map[string]string) []Spec {
	return []Spec{
		{
			FieldName:     "Company Name",
			ExternalValue: rec.Name,
			PartyValue:    Column(data, "companyName", "Company Name", "name", "Name", "businessName", "Business Name"),
			Normalize:     normalize.CompanyName,
		},
		{
			FieldName:     "Registration Number",
			ExternalValue: rec.RegistrationNumber,
			PartyValue:    Column(data, "registrationNumber", "Registration Number", "rcNumber", "RC Number", "cac", "CAC"),
			Normalize:     normalize.RegistrationNumber,
		},
		{
			FieldName:     "Registration Date",
			ExternalValue: rec.RegistrationDate,
			PartyValue:    Column(data, "registrationDate", "Registration Date"),
			Normalize:     normalize.Date,
		},
		{
			FieldName:     "Company Status",
			ExternalValue: rec.Status,
			Normalize:     normalize.String,
			Check: func(externalNorm, _ string) bool {
				return activeCompanyStatuses[externalNorm]
			},
		},
	}
}

// NINSpecs builds the comparison specs for a national identity record against
// a list entry's data columns. Phone numbers change hands, so that comparison
// is optional.
func NINSpecs(rec *domain.RegistryRecord, data map[string]string) []Spec {
	return []Spec{
		{
			FieldName:     "First Name",
			ExternalValue: rec.FirstName,
			PartyValue:    Column(data, "firstName", "First Name"),
			Normalize:     normalize.String,
		},
		{
			FieldName:     "Last Name",
			ExternalValue: rec.LastName,
			PartyValue:    Column(data, "lastName", "Last Name", "surname", "Surname"),
			Normalize:     normalize.String,
		},
		{
			FieldName:     "Gender",
			ExternalValue: rec.Gender,
			PartyValue:    Column(data, "gender", "Gender", "sex", "Sex"),
			Normalize:     normalize.Gender,
		},
		{
			FieldName:     "Date of Birth",
			ExternalValue: rec.DateOfBirth,
			PartyValue:    Column(data, "dateOfBirth", "Date of Birth", "DOB", "dob", "birthDate", "Birth Date"),
			Normalize:     normalize.Date,
		},
		{
			FieldName:     "Phone Number",
			ExternalValue: rec.PhoneNumber,
			PartyValue:    Column(data, "phoneNumber", "Phone Number", "phone", "Phone", "mobile", "Mobile"),
			Normalize:     normalize.Phone,
			Optional:      true,
		},
	}
}

// SpecsFor selects the comparison specs for a verification type. Unknown
// types yield nil, which Run treats as an empty (vacuously matched) spec set;
// callers validate the type before lookup.
func SpecsFor(verificationType string, rec *domain.RegistryRecord, data map[string]string) []Spec {
	switch verificationType {
	case domain.VerificationTypeCAC:
		return CACSpecs(rec, data)
	case domain.VerificationTypeNIN:
		return NINSpecs(rec, data)
	}
	return nil
}
