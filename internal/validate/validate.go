package validate

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// RequireBounded trims and ensures length bounds.
func RequireBounded(name, s string, min, max int) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < min || utf8.RuneCountInString(s) > max {
		return "", errors.New(name + " must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max) + " characters")
	}
	return s, nil
}

// ClampLimitOffset parses and clamps paging. A missing or malformed limit
// falls back to def; anything above max becomes max.
func ClampLimitOffset(limitRaw, offsetRaw string, def, max int) (int, int) {
	limit := def
	if v, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil && v >= 1 {
		limit = min(v, max)
	}
	offset := 0
	if v, err := strconv.Atoi(strings.TrimSpace(offsetRaw)); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// PageOffset converts a 1-based page number into an offset.
// ok is false when pageRaw is absent or not a positive integer.
func PageOffset(pageRaw string, limit int) (offset int, ok bool) {
	p, err := strconv.Atoi(strings.TrimSpace(pageRaw))
	if err != nil || p < 1 {
		return 0, false
	}
	return (p - 1) * limit, true
}
