package normalize

import (
	"math"
	"strings"
	"time"
)

// Convertible is implemented by external timestamp-like values (for example
// document-store timestamps) that can convert themselves to an instant.
type Convertible interface {
	AsTime() time.Time
}

// Temporal normalizes a timestamp-like value to a time.Time. Accepted inputs:
// time.Time (and *time.Time), ISO-8601 / RFC3339 strings, millisecond epoch
// numbers, and values implementing Convertible. Everything else (nil, blank
// strings, non-finite numbers, booleans, slices, plain structs) reports
// ok=false. Temporal never panics.
func Temporal(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case Convertible:
		return v.AsTime(), true
	case string:
		return parseTemporalString(v)
	case int:
		return fromEpochMillis(float64(v))
	case int32:
		return fromEpochMillis(float64(v))
	case int64:
		return fromEpochMillis(float64(v))
	case float32:
		return fromEpochMillis(float64(v))
	case float64:
		return fromEpochMillis(v)
	default:
		return time.Time{}, false
	}
}

func parseTemporalString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Last resort: the textual date formats accepted by Date.
	if iso := Date(s); iso != "" {
		t, err := time.Parse("2006-01-02", iso)
		return t, err == nil
	}
	return time.Time{}, false
}

func fromEpochMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}

// ValidateOptions controls ValidateTemporal. A nil options pointer means
// AllowNull=true and no default substitution.
type ValidateOptions struct {
	AllowNull    bool
	DefaultValue *time.Time
}

// ValidationResult reports the outcome of temporal validation.
type ValidationResult struct {
	IsValid bool
	Value   *time.Time
	Err     string
}

// ValidateTemporal validates and normalizes a timestamp-like value. Nil input
// is valid (with a nil Value) unless AllowNull is disabled. When the input is
// invalid and a DefaultValue is configured, the default is substituted.
func ValidateTemporal(value any, opts *ValidateOptions) ValidationResult {
	if opts == nil {
		opts = &ValidateOptions{AllowNull: true}
	}

	if value == nil {
		if opts.AllowNull {
			return ValidationResult{IsValid: true, Value: opts.DefaultValue}
		}
		return ValidationResult{IsValid: false, Value: opts.DefaultValue, Err: "value is null"}
	}

	t, ok := Temporal(value)
	if !ok {
		return ValidationResult{IsValid: false, Value: opts.DefaultValue, Err: "unable to parse temporal value"}
	}
	return ValidationResult{IsValid: true, Value: &t}
}

// FormatStyle selects the verbosity of FormatTemporal output.
type FormatStyle string

const (
	StyleShort  FormatStyle = "short"  // 2/20/24
	StyleMedium FormatStyle = "medium" // Feb 20, 2024
	StyleLong   FormatStyle = "long"   // February 20, 2024
	StyleFull   FormatStyle = "full"   // Tuesday, February 20, 2024
)

// FallbackUnavailable is the default placeholder for unformattable input.
const FallbackUnavailable = "Date unavailable"

// FormatOptions controls FormatTemporal. Zero value means medium style,
// no time component, and the standard fallback placeholder.
type FormatOptions struct {
	Style       FormatStyle
	IncludeTime bool
	Fallback    string
}

// FormatTemporal renders a timestamp-like value for display. Input is always
// validated first; invalid input yields the fallback string, so the output
// can never contain an "Invalid Date" artifact.
func FormatTemporal(value any, opts FormatOptions) string {
	fallback := opts.Fallback
	if fallback == "" {
		fallback = FallbackUnavailable
	}

	res := ValidateTemporal(value, &ValidateOptions{AllowNull: false})
	if !res.IsValid || res.Value == nil {
		return fallback
	}

	var layout string
	switch opts.Style {
	case StyleShort:
		layout = "1/2/06"
	case StyleLong:
		layout = "January 2, 2006"
	case StyleFull:
		layout = "Monday, January 2, 2006"
	default:
		layout = "Jan 2, 2006"
	}
	if opts.IncludeTime {
		layout += ", 3:04 PM"
	}
	return res.Value.Format(layout)
}
