package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ddmmyyyySlashRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	ddmmyyyyDashRe  = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	ddMMMyyyyRe     = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3})-(\d{4})$`)
	yyyymmddRe      = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	yyyymmddSlashRe = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)
)

var monthAbbrev = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// Date canonicalizes a textual date to YYYY-MM-DD. Recognized inputs:
// DD/MM/YYYY, DD-MM-YYYY, DD-MMM-YYYY, YYYY-MM-DD and YYYY/MM/DD.
// Unparseable or impossible dates yield the empty string.
func Date(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if m := ddmmyyyySlashRe.FindStringSubmatch(s); m != nil {
		return isoDate(m[3], m[2], m[1])
	}
	if m := ddmmyyyyDashRe.FindStringSubmatch(s); m != nil {
		return isoDate(m[3], m[2], m[1])
	}
	if m := ddMMMyyyyRe.FindStringSubmatch(s); m != nil {
		mon, ok := monthAbbrev[strings.ToLower(m[2])]
		if !ok {
			return ""
		}
		return isoDate(m[3], strconv.Itoa(mon), m[1])
	}
	if m := yyyymmddRe.FindStringSubmatch(s); m != nil {
		return isoDate(m[1], m[2], m[3])
	}
	if m := yyyymmddSlashRe.FindStringSubmatch(s); m != nil {
		return isoDate(m[1], m[2], m[3])
	}
	return ""
}

// isoDate assembles YYYY-MM-DD after a calendar sanity check.
func isoDate(year, month, day string) string {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 || d > daysIn(y, m) {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

func daysIn(year, month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	default:
		return 31
	}
}
