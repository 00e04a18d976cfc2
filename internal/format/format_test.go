// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", "<p>hello</p>", "<p>hello</p>"},
		{"plain fence", "```\n<p>hello</p>\n```", "<p>hello</p>"},
		{"html fence", "```html\n<p>hello</p>\n```", "<p>hello</p>"},
		{"fence with surrounding whitespace", "  ```html\n<p>hi</p>\n```  ", "<p>hi</p>"},
		{"fence only on one line", "```<p>x</p>```", "<p>x</p>"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"under limit", "short", 10, "short"},
		{"at limit", "exactly10!", 10, "exactly10!"},
		{"over limit", "0123456789x", 10, "0123456..."},
		{"multibyte under limit", "βγδε", 10, "βγδε"},
		{"multibyte over limit", "ββββββββββββ", 10, "βββββββ..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.limit)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestRenderInjectsDisclaimerOnce(t *testing.T) {
	out := Render("<h2>Symptoms</h2><ul><li>thirst</li></ul>")

	if got := strings.Count(strings.ToLower(out), disclaimerMarker); got != 1 {
		t.Errorf("disclaimer count = %d, want 1\noutput: %s", got, out)
	}
	if !strings.Contains(out, `<div class="medical-answer">`) {
		t.Errorf("output missing container div: %s", out)
	}
}

func TestRenderKeepsExistingDisclaimer(t *testing.T) {
	in := "<p>Drink water.</p><strong>" + Disclaimer + "</strong>"
	out := Render(in)

	if got := strings.Count(strings.ToLower(out), disclaimerMarker); got != 1 {
		t.Errorf("disclaimer count = %d, want 1\noutput: %s", got, out)
	}
	// The validator's own disclaimer stays; no block is appended.
	if strings.Contains(out, `<div class="disclaimer">`) {
		t.Errorf("formatter appended a second disclaimer block: %s", out)
	}
}

func TestRenderStripsScripts(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"script element", `<p>ok</p><script>alert("x")</script>`},
		{"script with attributes", `<p>ok</p><script src="https://evil.example/x.js"></script>`},
		{"orphan closing tag", `<p>ok</p></script>`},
		{"mixed case", `<p>ok</p><SCRIPT>alert(1)</SCRIPT>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render(tt.in)
			if strings.Contains(strings.ToLower(out), "<script") ||
				strings.Contains(strings.ToLower(out), "</script") {
				t.Errorf("script markup survived: %s", out)
			}
			if !strings.Contains(out, "<p>ok</p>") {
				t.Errorf("legitimate content was removed: %s", out)
			}
		})
	}
}

func TestRenderFencedValidatorOutput(t *testing.T) {
	// A validator that ignores instructions and wraps its HTML anyway.
	in := "```html\n<h2>Treatment Options</h2><p>See a doctor.</p>\n```"
	out := Render(in)

	if strings.Contains(out, "```") {
		t.Errorf("fence survived: %s", out)
	}
	if !strings.Contains(out, "<h2>Treatment Options</h2>") {
		t.Errorf("content lost during fence stripping: %s", out)
	}
}
