package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "acme corporation", String("  ACME   Corporation  "))
	assert.Equal(t, "", String(""))
	assert.Equal(t, "", String("   "))
	assert.Equal(t, "a b c", String("A\tB\nC"))
}

func TestRegistrationNumber(t *testing.T) {
	cases := map[string]string{
		"RC123456":    "123456",
		"rc 123456":   "123456",
		"RC-123456":   "123456",
		"RC/123456":   "123456",
		" 123456 ":    "123456",
		"bn-98765":    "BN98765",
		"RC  123-456": "123456",
		"":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, RegistrationNumber(in), "input %q", in)
	}
}

func TestCompanyName_LegalForms(t *testing.T) {
	cases := map[string]string{
		"ACME CORPORATION LIMITED":  "acme corporation ltd",
		"Acme Corporation Ltd.":     "acme corporation ltd",
		"Acme Public Limited Company": "acme plc",
		"Acme PLC":                  "acme plc",
		"Acme Incorporated":         "acme inc",
		"Acme LLC":                  "acme llc",
	}
	for in, want := range cases {
		assert.Equal(t, want, CompanyName(in), "input %q", in)
	}
}

// The long forms must win before their embedded short forms: "public limited
// company" becomes "plc", never "public ltd company".
func TestCompanyName_LongFormBeforeShortForm(t *testing.T) {
	got := CompanyName("Zenith Public Limited Company")
	assert.Equal(t, "zenith plc", got)
	assert.NotContains(t, got, "ltd")
}

func TestCompanyName_Deterministic(t *testing.T) {
	in := "  First  Bank of Nigeria Limited. "
	assert.Equal(t, CompanyName(in), CompanyName(in))
}

func TestGender(t *testing.T) {
	for _, in := range []string{"M", "m", "Male", "MALE", " male "} {
		assert.Equal(t, "male", Gender(in), "input %q", in)
	}
	for _, in := range []string{"F", "f", "Female", "FEMALE"} {
		assert.Equal(t, "female", Gender(in), "input %q", in)
	}
	assert.Equal(t, "", Gender(""))
	assert.Equal(t, "other", Gender(" Other "))
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "08012345678", Phone("0801 234 5678"))
	assert.Equal(t, "08012345678", Phone("+234 801 234 5678"))
	assert.Equal(t, "08012345678", Phone("2348012345678"))
	assert.Equal(t, "08012345678", Phone("0801-234-5678"))
	assert.Equal(t, "", Phone(""))
	assert.Equal(t, "", Phone("no digits"))
}

func TestDate_Formats(t *testing.T) {
	cases := map[string]string{
		"25/12/2020":  "2020-12-25",
		"25-12-2020":  "2020-12-25",
		"2020-12-25":  "2020-12-25",
		"2020/12/25":  "2020-12-25",
		"25-Dec-2020": "2020-12-25",
		"5/1/2020":    "2020-01-05",
	}
	for in, want := range cases {
		assert.Equal(t, want, Date(in), "input %q", in)
	}
}

func TestDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "not a date", "32/01/2020", "29/02/2019", "00/10/2020", "15/13/2020"} {
		assert.Equal(t, "", Date(in), "input %q", in)
	}
}

func TestDate_LeapYear(t *testing.T) {
	assert.Equal(t, "2020-02-29", Date("29/02/2020"))
	assert.Equal(t, "", Date("29/02/2021"))
}
