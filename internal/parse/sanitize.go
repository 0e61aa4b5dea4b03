package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jobsieve/jobsieve/internal/model"
)

// Maximum characters kept per field after sanitization.
const (
	maxTitleLen      = 256
	maxCompanyLen    = 256
	maxLocationLen   = 256
	maxRoleLen       = 256
	maxExperienceLen = 256
	maxSourceLen     = 512
	maxEducationLen  = 2000
	maxPostedAtLen   = 128
	maxShortLen      = 64
	maxTechItemLen   = 128
	maxCollabItemLen = 64

	// Numeric fields are clamped to [0, maxNumeric] and rounded.
	maxNumeric = 1_000_000_000
)

var currencyCodeRe = regexp.MustCompile(`^[A-Za-z]{3}$`)

// cleanString coerces any decoded JSON value to a trimmed string, mapping
// placeholder junk ("null", "undefined", "", non-strings-turned-empty) to the
// zero value: "" when required, empty-ok nil semantics handled by callers.
func cleanString(v any, required bool) (s string, ok bool) {
	str, isStr := v.(string)
	if !isStr {
		// Numbers occasionally show up where strings belong.
		switch n := v.(type) {
		case float64:
			str = strconv.FormatFloat(n, 'f', -1, 64)
		default:
			return "", required
		}
	}
	str = strings.TrimSpace(str)
	if str == "" || strings.EqualFold(str, "null") || strings.EqualFold(str, "undefined") {
		return "", required
	}
	return str, true
}

// requiredString extracts m[key] as a bounded required string ("" when absent).
func requiredString(m map[string]any, key string, maxLen int) string {
	s, _ := cleanString(m[key], true)
	return capString(s, maxLen)
}

// optionalString extracts m[key] as a bounded optional string (nil when absent).
func optionalString(m map[string]any, key string, maxLen int) *string {
	s, ok := cleanString(m[key], false)
	if !ok || s == "" {
		return nil
	}
	capped := capString(s, maxLen)
	if capped == "" {
		return nil
	}
	return &capped
}

// capString truncates s to at most maxLen bytes and re-trims; truncation
// never leaves trailing whitespace behind.
func capString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return strings.TrimSpace(cutAtRune(s, maxLen))
}

// cutAtRune truncates s to at most max bytes without splitting a multibyte
// rune, backing up to the nearest rune boundary.
func cutAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// cleanNumber coerces a numeric literal or numeric string to a non-negative
// integer within [0, maxNumeric], rounded to nearest. Anything else is nil.
func cleanNumber(v any) *int64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int64:
		f = float64(n)
	case int:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > maxNumeric {
		return nil
	}
	r := int64(math.Round(f))
	return &r
}

// cleanCurrency validates a 3-letter alphabetic currency code; anything else
// is unknown ("").
func cleanCurrency(v any) string {
	s, _ := cleanString(v, true)
	if !currencyCodeRe.MatchString(s) {
		return ""
	}
	return strings.ToUpper(s)
}

// cleanPeriod accepts only the known salary periods; anything else is "".
func cleanPeriod(v any) string {
	s, _ := cleanString(v, true)
	switch strings.ToLower(s) {
	case model.PeriodHourly, model.PeriodMonthly, model.PeriodYearly:
		return strings.ToLower(s)
	}
	return ""
}

// dedupeList trims, caps, and deduplicates a string list by lowercase key,
// preserving first-seen order and casing.
func dedupeList(items []string, maxLen int) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		s := capString(strings.TrimSpace(item), maxLen)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// stringList extracts m[key] as a deduplicated bounded string list.
func stringList(m map[string]any, key string, maxLen int) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	items := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := cleanString(v, false); ok && s != "" {
			items = append(items, s)
		}
	}
	return dedupeList(items, maxLen)
}

// categoryMap extracts the categorized tech map, keeping only known category
// keys and dropping empty lists. Returns nil when nothing usable remains.
func categoryMap(v any) model.TechCategories {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(model.TechCategories)
	for _, key := range model.TechCategoryKeys {
		list, ok := raw[key].([]any)
		if !ok {
			continue
		}
		items := make([]string, 0, len(list))
		for _, it := range list {
			if s, ok := cleanString(it, false); ok && s != "" {
				items = append(items, s)
			}
		}
		deduped := dedupeList(items, maxTechItemLen)
		if len(deduped) > 0 {
			out[key] = deduped
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
