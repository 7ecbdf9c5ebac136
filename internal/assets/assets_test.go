package assets

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestEmbeddedLoader - Built-in assets
// ---------------------------------------------------------------------------

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name    string
		style   string
		wantErr error
	}{
		{name: "default style", style: DefaultStyleName},
		{name: "missing style", style: "nonexistent", wantErr: ErrStyleNotFound},
		{name: "empty name", style: "", wantErr: ErrInvalidAssetName},
		{name: "traversal", style: "../report", wantErr: ErrInvalidAssetName},
		{name: "extension", style: "report.css", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			css, err := loader.LoadStyle(tt.style)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.style, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.style, err)
			}
			if css == "" {
				t.Error("LoadStyle() returned empty CSS")
			}
		})
	}
}

func TestEmbeddedLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tmpl, err := loader.LoadTemplate(DocumentTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "<style>", "{{.Body}}", `class="content"`} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("document template missing %q", want)
		}
	}

	if _, err := loader.LoadTemplate("cover"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(cover) error = %v, want ErrTemplateNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// TestDefaultStyle - Required style rules
// ---------------------------------------------------------------------------

func TestDefaultStyle(t *testing.T) {
	t.Parallel()

	css := DefaultStyle()

	rules := []string{
		"blockquote",             // left-border accent
		"border-left: 4px solid", // accent
		"tr:nth-child(even)",     // zebra-striped tables
		"border-radius: 4px",     // rounded images
		"a:hover",                // underline on hover
		"text-decoration: underline",
		"pre {",
	}
	for _, rule := range rules {
		if !strings.Contains(css, rule) {
			t.Errorf("default style missing %q", rule)
		}
	}
}

// ---------------------------------------------------------------------------
// TestValidateAssetName
// ---------------------------------------------------------------------------

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	valid := []string{"report", "my-style", "style_2"}
	for _, name := range valid {
		if err := ValidateAssetName(name); err != nil {
			t.Errorf("ValidateAssetName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", ".", "a/b", `a\b`, "a.css", ".."}
	for _, name := range invalid {
		if err := ValidateAssetName(name); !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("ValidateAssetName(%q) = %v, want ErrInvalidAssetName", name, err)
		}
	}
}
