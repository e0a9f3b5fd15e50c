package services

import (
	"regexp"
	"strings"
)

var (
	reLetters = regexp.MustCompile(`[A-Za-z]`)
	// Only allow digits, spaces, +, -, (, ), dots
	reAllowed = regexp.MustCompile(`^[0-9+\-\s\(\)\.]+$`)
	// E.164 without the plus: 8..15 digits, no leading 0
	reE164 = regexp.MustCompile(`^[1-9][0-9]{7,14}$`)
)

// DefaultCountryCode is prefixed to national numbers.
const DefaultCountryCode = "91"

// NormPhone normalizes a phone number to bare E.164 digits, the form wa.me
// links and usage counters use. It returns "" for anything that is not a
// plausible number.
// Rules: strip separators; +.. and 00.. are international; 0.. is a
// trunk-prefixed national number; a bare 10-digit number is national.
func NormPhone(p, countryCode string) string {
	s := strings.TrimSpace(p)
	if s == "" || reLetters.MatchString(s) || !reAllowed.MatchString(s) {
		return ""
	}
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}

	repl := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "", "\t", "")
	s = repl.Replace(s)

	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "00"):
		s = s[2:]
	case strings.HasPrefix(s, "0"):
		s = countryCode + strings.TrimLeft(s, "0")
	case len(s) == 10:
		s = countryCode + s
	}
	if strings.Contains(s, "+") || !reE164.MatchString(s) {
		return ""
	}
	return s
}
