package match

import (
	"testing"

	"github.com/identity-verify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacRecord() *domain.RegistryRecord {
	return &domain.RegistryRecord{
		Name:               "ACME CORPORATION LIMITED",
		RegistrationNumber: "123456",
		RegistrationDate:   "2015-03-10",
		EntityType:         "PRIVATE_COMPANY_LIMITED_BY_SHARES",
		Status:             "ACTIVE",
	}
}

func cacData() map[string]string {
	return map[string]string{
		"companyName":        "Acme Corporation Ltd",
		"registrationNumber": "RC123456",
		"registrationDate":   "10/03/2015",
	}
}

func ninRecord() *domain.RegistryRecord {
	return &domain.RegistryRecord{
		FirstName:   "ADAEZE",
		LastName:    "OKAFOR",
		Gender:      "F",
		DateOfBirth: "1990-06-15",
		PhoneNumber: "2348012345678",
	}
}

func ninData() map[string]string {
	return map[string]string{
		"firstName":   "Adaeze",
		"lastName":    "Okafor",
		"gender":      "Female",
		"dateOfBirth": "15/06/1990",
		"phoneNumber": "0801 234 5678",
	}
}

func TestRun_CACMatched(t *testing.T) {
	result := Run(CACSpecs(cacRecord(), cacData()))

	assert.True(t, result.Matched)
	assert.Empty(t, result.FailedFields)
	require.Contains(t, result.Details, "Company Name")
	assert.Equal(t, "acme corporation ltd", result.Details["Company Name"].NormalizedExternal)
	assert.Equal(t, "acme corporation ltd", result.Details["Company Name"].NormalizedParty)
}

func TestRun_CACNameMismatch(t *testing.T) {
	data := cacData()
	data["companyName"] = "Different Company Limited"

	result := Run(CACSpecs(cacRecord(), data))

	assert.False(t, result.Matched)
	assert.Equal(t, []string{"Company Name"}, result.FailedFields)
}

func TestRun_FailedFieldsPreserveOrder(t *testing.T) {
	rec := cacRecord()
	rec.Status = "INACTIVE"
	data := cacData()
	data["companyName"] = "Different Company Limited"
	data["registrationDate"] = "01/01/2000"

	result := Run(CACSpecs(rec, data))

	assert.False(t, result.Matched)
	assert.Equal(t, []string{"Company Name", "Registration Date", "Company Status"}, result.FailedFields)
}

func TestRun_CompanyStatusCheck(t *testing.T) {
	for _, status := range []string{"ACTIVE", "active", "Verified"} {
		rec := cacRecord()
		rec.Status = status
		result := Run(CACSpecs(rec, cacData()))
		assert.True(t, result.Matched, "status %q", status)
	}

	rec := cacRecord()
	rec.Status = "DISSOLVED"
	result := Run(CACSpecs(rec, cacData()))
	assert.False(t, result.Matched)
	assert.Contains(t, result.FailedFields, "Company Status")
}

func TestRun_NINMatched(t *testing.T) {
	result := Run(NINSpecs(ninRecord(), ninData()))

	assert.True(t, result.Matched)
	assert.Empty(t, result.FailedFields)
	assert.Equal(t, "female", result.Details["Gender"].NormalizedExternal)
	assert.Equal(t, "08012345678", result.Details["Phone Number"].NormalizedExternal)
}

func TestRun_OptionalPhoneBothEmpty(t *testing.T) {
	rec := ninRecord()
	rec.PhoneNumber = ""
	data := ninData()
	delete(data, "phoneNumber")

	result := Run(NINSpecs(rec, data))

	assert.True(t, result.Matched)
	assert.True(t, result.Details["Phone Number"].Optional)
	assert.True(t, result.Details["Phone Number"].Matched)
}

func TestRun_OptionalPhoneMismatchRecordedNotFailing(t *testing.T) {
	data := ninData()
	data["phoneNumber"] = "0809 999 9999"

	result := Run(NINSpecs(ninRecord(), data))

	assert.True(t, result.Matched)
	assert.Empty(t, result.FailedFields)
	assert.False(t, result.Details["Phone Number"].Matched)
}

func TestRun_MissingRequiredValueFails(t *testing.T) {
	data := ninData()
	delete(data, "lastName")

	result := Run(NINSpecs(ninRecord(), data))

	assert.False(t, result.Matched)
	assert.Equal(t, []string{"Last Name"}, result.FailedFields)
}

func TestSpecsFor(t *testing.T) {
	assert.NotEmpty(t, SpecsFor(domain.VerificationTypeCAC, cacRecord(), cacData()))
	assert.NotEmpty(t, SpecsFor(domain.VerificationTypeNIN, ninRecord(), ninData()))
	assert.Nil(t, SpecsFor("passport", nil, nil))
}

func TestColumn(t *testing.T) {
	data := map[string]string{
		"Company Name": "Acme Ltd",
		"DOB":          " 1990-06-15 ",
		"empty":        "  ",
	}

	assert.Equal(t, "Acme Ltd", Column(data, "companyName", "Company Name"))
	assert.Equal(t, "1990-06-15", Column(data, "dob"))
	assert.Equal(t, "", Column(data, "empty"))
	assert.Equal(t, "", Column(data, "missing"))
}
