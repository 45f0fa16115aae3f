// Package sanitize canonicalizes untrusted free-text into safe slugs and
// filenames. It is a defense-in-depth layer for request validation, not a
// path-safety proof: callers joining a filename against the filesystem must
// still use a fixed, non-caller-controlled base directory.
package sanitize

import "strings"

// FilenameFallback is substituted when sanitization leaves nothing usable.
const FilenameFallback = "file"

// Slug lowercases text, collapses every maximal run of characters outside
// [a-z0-9] into a single hyphen, and trims leading and trailing hyphens.
// Empty or all-symbol input yields the empty string; callers must treat an
// empty slug as a validation failure rather than inventing a name.
func Slug(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inRun := false
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if inRun && b.Len() > 0 {
				b.WriteByte('-')
			}
			inRun = false
			b.WriteRune(r)
			continue
		}
		inRun = true
	}

	return b.String()
}

// Filename strips path traversal sequences from name and drops every
// character outside [A-Za-z0-9._-]. If nothing survives, FilenameFallback
// is returned.
//
// Traversal stripping is a single pass, not a fixed point: removing ".."
// can in principle form a new "..". With the current allowed set this is
// harmless because "/" and "\" are also removed, but anyone widening the
// character set must re-verify that property.
func Filename(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return FilenameFallback
	}
	return b.String()
}
