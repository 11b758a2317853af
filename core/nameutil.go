package core

import "strings"

// SlugifyName derives the index file key for an addon name. Anything in
// parentheses and any " - subtitle" suffix is dropped, and runs of characters
// outside [a-z0-9] collapse to a single dash.
func SlugifyName(name string) string {
	s := strings.ToLower(name)
	if open := strings.Index(s, "("); open >= 0 {
		if end := strings.LastIndex(s, ")"); end > open {
			s = s[:open] + s[end+1:]
		}
	}
	if i := strings.Index(s, " - "); i >= 0 && i+3 < len(s) {
		s = s[:i]
	}

	var b strings.Builder
	pendingDash := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteByte(c)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
