package main

import "strings"

// normalizePhone strips everything except digits and a leading +. Numbers
// without a country code get the configured default prepended.
func normalizePhone(raw, defaultCountryCode string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" || s == "+" {
		return ""
	}
	if !strings.HasPrefix(s, "+") {
		s = defaultCountryCode + s
	}
	return s
}

// splitLines breaks a raw multi-line blob into trimmed non-empty lines.
func splitLines(blob string) []string {
	var out []string
	for _, line := range strings.Split(blob, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// dedupExact drops repeated lines, keeping first occurrence order.
func dedupExact(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	var out []string
	for _, l := range lines {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}
