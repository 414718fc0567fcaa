// Package match compares a registry record against a party's self-reported
// list data. The comparison is pure: running the same specs twice yields the
// same result, with no side effects.
package match

import (
	"strings"

	"github.com/identity-verify-api/internal/domain"
	"github.com/identity-verify-api/internal/pkg/normalize"
)

// Spec declares one field comparison. Normalize canonicalizes both sides
// before the equality check. Optional comparisons are recorded in the result
// details but never fail the overall match. A non-nil Check replaces the
// default equality rule (used for registry-side validity checks such as
// company status).
type Spec struct {
	FieldName     string
	ExternalValue string
	PartyValue    string
	Normalize     func(string) string
	Optional      bool
	Check         func(externalNorm, partyNorm string) bool
}

// Run evaluates the specs in order. FailedFields preserves declaration order;
// Matched is true iff every non-optional comparison matched. A value missing
// on either side is a mismatch unless the comparison is optional and both
// sides are absent.
func Run(specs []Spec) domain.FieldMatchResult {
	result := domain.FieldMatchResult{
		Matched:      true,
		FailedFields: []string{},
		Details:      make(map[string]domain.FieldComparison, len(specs)),
	}

	for _, spec := range specs {
		norm := spec.Normalize
		if norm == nil {
			norm = normalize.String
		}
		extNorm := norm(spec.ExternalValue)
		partyNorm := norm(spec.PartyValue)

		var matched bool
		switch {
		case spec.Check != nil:
			matched = spec.Check(extNorm, partyNorm)
		case extNorm == "" && partyNorm == "":
			matched = spec.Optional
		default:
			matched = extNorm != "" && partyNorm != "" && extNorm == partyNorm
		}

		result.Details[spec.FieldName] = domain.FieldComparison{
			ExternalValue:      spec.ExternalValue,
			PartyValue:         spec.PartyValue,
			NormalizedExternal: extNorm,
			NormalizedParty:    partyNorm,
			Matched:            matched,
			Optional:           spec.Optional,
		}

		if !matched && !spec.Optional {
			result.Matched = false
			result.FailedFields = append(result.FailedFields, spec.FieldName)
		}
	}

	return result
}

// Column returns the first non-blank value among the named columns, falling
// back to a case-insensitive scan. Uploaded lists name columns inconsistently
// ("Company Name", "company name", "companyName").
func Column(data map[string]string, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(data[name]); v != "" {
			return v
		}
	}
	for _, name := range names {
		for k, v := range data {
			if strings.EqualFold(k, name) && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}
