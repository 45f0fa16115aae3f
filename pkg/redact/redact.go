// Package redact masks sensitive values in structured data before it
// reaches a log sink or an error body. Every structured value written to a
// log must pass through Redact first; the package has no opinion about the
// sink itself.
package redact

import "strings"

// DefaultMarkers are the substrings that flag a mapping key as sensitive.
// They are unioned with any per-call extras; matching is a plain substring
// test against the key.
var DefaultMarkers = []string{
	"password",
	"token",
	"secret",
	"key",
	"auth",
	"credential",
	"jwt",
	"session",
	"cookie",
}

// mask is the fixed-length run substituted into long string values.
const mask = "**********"

// fullMask replaces short strings and non-string values wholesale.
const fullMask = "***"

// Policy is a marker set applied to mapping keys. The zero value uses only
// DefaultMarkers. A Policy is immutable after construction and safe for
// concurrent use.
type Policy struct {
	extra []string
}

// NewPolicy returns a Policy that matches DefaultMarkers plus the given
// extra markers.
func NewPolicy(extra ...string) Policy {
	return Policy{extra: extra}
}

// Redact walks v and returns a copy with sensitive values masked, using
// DefaultMarkers plus the given extra markers.
//
// Only mapping keys are inspected. A matched key's value is masked
// wholesale, even when it is itself a nested structure. Under a non-matched
// key, nested mappings are walked recursively while sequences and scalars
// pass through unchanged. Values the walker does not recognize are returned
// as-is; Redact never fails. Inputs are assumed acyclic.
//
// Redaction is idempotent: redacting an already-redacted structure yields
// the same structure.
func Redact(v any, extra ...string) any {
	return NewPolicy(extra...).Apply(v)
}

// Apply redacts v under this policy. See Redact.
func (p Policy) Apply(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}

	out := make(map[string]any, len(m))
	for key, val := range m {
		switch {
		case p.matches(key):
			out[key] = maskValue(val)
		default:
			if nested, ok := val.(map[string]any); ok {
				out[key] = p.Apply(nested)
			} else {
				out[key] = val
			}
		}
	}
	return out
}

// matches reports whether key contains any marker as a substring.
// The match is case-sensitive; markers are lower-case by convention.
func (p Policy) matches(key string) bool {
	for _, marker := range DefaultMarkers {
		if strings.Contains(key, marker) {
			return true
		}
	}
	for _, marker := range p.extra {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}

// maskValue masks a single matched value. Strings longer than four
// characters keep their first and last two characters around a fixed-length
// mask run, so operators can still correlate values across log lines.
// Everything else, including nested structures, collapses to fullMask.
func maskValue(v any) any {
	s, ok := v.(string)
	if !ok || len(s) <= 4 {
		return fullMask
	}
	return s[:2] + mask + s[len(s)-2:]
}
