package ui

import "testing"

func TestFormattersWithoutColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name      string
		formatter Formatter
		in        string
		want      string
	}{
		{"code wraps in backticks", Code, "kris auth", "`kris auth`"},
		{"highlight wraps in quotes", Highlight, "my-bucket", "'my-bucket'"},
		{"path is undecorated", Path, "/tmp/archive.zip", "/tmp/archive.zip"},
		{"info is undecorated", Info, "It is now your default bucket.", "It is now your default bucket."},
		{"success is undecorated", Success, "done", "done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.formatter.Sprint(tt.in); got != tt.want {
				t.Errorf("Sprint(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEnsureNewline(t *testing.T) {
	if got := EnsureNewline("done"); got != "done\n" {
		t.Errorf("EnsureNewline(%q) = %q", "done", got)
	}
	if got := EnsureNewline("done\n"); got != "done\n" {
		t.Errorf("EnsureNewline(%q) = %q", "done\n", got)
	}
	if got := EnsureNewline(""); got != "\n" {
		t.Errorf("EnsureNewline(%q) = %q", "", got)
	}
}
