// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format renders a validated answer as HTML ready for embedding.
//
// The formatter owns structural wrapping and disclaimer policy. Full
// sanitization happens at the render boundary, but no script-bearing markup
// is allowed to survive structural wrapping either, so script elements are
// stripped here.
package format

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Disclaimer is the standard medical disclaimer sentence. Exactly one copy
// appears in every formatted answer: when the validator already embedded it,
// none is injected.
const Disclaimer = "This information is for educational purposes only and should not be " +
	"considered medical advice. Always consult a qualified healthcare professional " +
	"for diagnosis and treatment."

// disclaimerMarker is the phrase used to detect an embedded disclaimer,
// matched case-insensitively.
const disclaimerMarker = "for educational purposes only"

var (
	// scriptElementPattern matches complete script elements including content.
	scriptElementPattern = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)

	// scriptTagPattern matches orphaned opening or closing script tags.
	scriptTagPattern = regexp.MustCompile(`(?i)</?script\b[^>]*>`)
)

// Render wraps the validated answer text in the standard HTML container,
// stripping code fences and script markup and guaranteeing exactly one
// disclaimer.
func Render(text string) string {
	body := StripFences(text)
	body = stripScripts(body)

	var sb strings.Builder
	sb.WriteString(`<div class="medical-answer">` + "\n")
	sb.WriteString(body)
	if !containsDisclaimer(body) {
		sb.WriteString("\n" + disclaimerHTML())
	}
	sb.WriteString("\n</div>")
	return sb.String()
}

// StripFences removes an enclosing Markdown code fence, with or without a
// language tag, that an upstream model may have wrapped the answer in.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Drop the opening fence line ("```" or "```html").
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// stripScripts removes script elements and any orphaned script tags.
func stripScripts(s string) string {
	s = scriptElementPattern.ReplaceAllString(s, "")
	return scriptTagPattern.ReplaceAllString(s, "")
}

// Truncate shortens s to at most limit runes, replacing the cut tail with an
// ellipsis. Counting runes, not bytes, keeps multi-byte text valid UTF-8.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}

// containsDisclaimer reports whether the text already carries the disclaimer.
func containsDisclaimer(s string) bool {
	return strings.Contains(strings.ToLower(s), disclaimerMarker)
}

// disclaimerHTML is the standard disclaimer block.
func disclaimerHTML() string {
	return `<div class="disclaimer"><strong>` + Disclaimer + `</strong></div>`
}
