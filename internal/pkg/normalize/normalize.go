// Package normalize provides the canonicalization rules used when comparing
// registry records against self-reported list data. Every function is total:
// unparseable input yields the empty string, never an error.
package normalize

import (
	"regexp"
	"strings"
)

var (
	spaceRe      = regexp.MustCompile(`\s+`)
	rcPrefixRe   = regexp.MustCompile(`(?i)^RC[\s\-/]*`)
	nonAlnumRe   = regexp.MustCompile(`[^A-Z0-9]`)
	nonDigitRe   = regexp.MustCompile(`\D`)
	trailPunctRe = regexp.MustCompile(`[.,;]+$`)
)

// legalForms rewrites company legal-form synonyms to a canonical short form.
// Longer forms are rewritten first so "public limited company" becomes "plc"
// rather than "public ltd company".
var legalForms = []struct {
	re *regexp.Regexp
	to string
}{
	{regexp.MustCompile(`\bpublic limited company\b`), "plc"},
	{regexp.MustCompile(`\bprivate limited company\b`), "ltd"},
	{regexp.MustCompile(`\blimited liability company\b`), "llc"},
	{regexp.MustCompile(`\blimited\b`), "ltd"},
	{regexp.MustCompile(`\bincorporated\b`), "inc"},
}

// String lower-cases, trims, and collapses internal whitespace.
func String(s string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(strings.ToLower(s)), " ")
}

// RegistrationNumber canonicalizes a corporate registration number: strips a
// leading RC prefix (any case, optional separators), drops every remaining
// non-alphanumeric character and upper-cases the rest.
func RegistrationNumber(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = rcPrefixRe.ReplaceAllString(s, "")
	return nonAlnumRe.ReplaceAllString(s, "")
}

// CompanyName canonicalizes a company name for legal-form-aware comparison:
// "Acme Corporation Limited" and "ACME CORPORATION LTD." compare equal.
func CompanyName(raw string) string {
	s := String(raw)
	for _, lf := range legalForms {
		s = lf.re.ReplaceAllString(s, lf.to)
	}
	return trailPunctRe.ReplaceAllString(s, "")
}

// Gender canonicalizes gender markers: M/Male/MALE -> "male",
// F/Female/FEMALE -> "female". Anything else passes through normalized.
func Gender(raw string) string {
	s := String(raw)
	switch s {
	case "m", "male":
		return "male"
	case "f", "female":
		return "female"
	}
	return s
}

// Phone canonicalizes a Nigerian phone number: digits only, with the 234
// country prefix rewritten to the local leading zero.
func Phone(raw string) string {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if strings.HasPrefix(digits, "234") && len(digits) == 13 {
		digits = "0" + digits[3:]
	}
	return digits
}
