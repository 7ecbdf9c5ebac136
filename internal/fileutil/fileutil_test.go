package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// TestExists / TestFileExists
// ---------------------------------------------------------------------------

func TestExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	bundle := filepath.Join(dir, "Google Chrome.app")
	if err := os.Mkdir(bundle, 0o750); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name           string
		path           string
		wantExists     bool
		wantFileExists bool
	}{
		{"regular file", file, true, true},
		{"directory", bundle, true, false},
		{"missing", filepath.Join(dir, "missing"), false, false},
		{"empty path", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Exists(tt.path); got != tt.wantExists {
				t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.wantExists)
			}
			if got := FileExists(tt.path); got != tt.wantFileExists {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.wantFileExists)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExpandHome
// ---------------------------------------------------------------------------

func TestExpandHome(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/screenshot_analysis", filepath.Join(home, "screenshot_analysis")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"~user/x", "~user/x"},
	}

	for _, tt := range tests {
		got, err := ExpandHome(tt.in)
		if err != nil {
			t.Fatalf("ExpandHome(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"work", false},
		{"my-config", false},
		{"./clip2html.yaml", true},
		{"/etc/clip2html.yaml", true},
		{`C:\config\clip2html.yaml`, true},
	}

	for _, tt := range tests {
		if got := IsFilePath(tt.in); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
