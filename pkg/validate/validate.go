// Package validate holds the input validation contracts shared by the HTTP
// handlers and the client SDK, so both sides reject bad input the same way.
package validate

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// SanitizeString trims surrounding whitespace, strips control characters, and
// truncates the result to at most max runes.
func SanitizeString(s string, max int) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)

	if max <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}

// NormalizeURL returns the trimmed URL and true when raw parses as an
// absolute http or https URL with a host. Anything else reports false.
func NormalizeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}

	return raw, true
}

// IsUUID reports whether s matches the canonical 8-4-4-4-12 hex UUID form,
// case-insensitive.
func IsUUID(s string) bool {
	return uuidPattern.MatchString(s)
}
