package sanitize

import "testing"

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "My Company Name", "my-company-name"},
		{"empty", "", ""},
		{"all symbols", "---", ""},
		{"mixed punctuation", "Hello, World!", "hello-world"},
		{"collapses runs", "a   &&&   b", "a-b"},
		{"leading trailing", "  spaces  ", "spaces"},
		{"digits kept", "Release 2.0", "release-2-0"},
		{"already slug", "my-company", "my-company"},
		{"unicode dropped", "café au lait", "caf-au-lait"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.in); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"traversal", "../../etc/passwd", "etcpasswd"},
		{"empty", "", "file"},
		{"only symbols", "###", "file"},
		{"plain", "report.pdf", "report.pdf"},
		{"backslashes", "..\\..\\boot.ini", "boot.ini"},
		{"spaces dropped", "my file.txt", "myfile.txt"},
		{"underscores hyphens kept", "a_b-c.d", "a_b-c.d"},
		{"crafted dots", "....//", "file"},
		{"null bytes", "a\x00b.txt", "ab.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.in); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
