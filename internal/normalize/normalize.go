// Package normalize flattens a document's per-page text fragments into one
// clean, ordered line sequence for the classifier. It is a pure
// transformation with no failure modes: malformed input degrades to
// best-effort passthrough and real errors surface in later stages.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/rumor-ml/commons.systems/ccparse/internal/template"
)

// Page is one page of raw text lines in reading order. Pages arrive in
// document order from the text-extraction collaborator.
type Page struct {
	Number int
	Lines  []string
}

// Line is one normalized line tagged with its source page.
type Line struct {
	Page int
	Text string
}

// cleaner composes PDF text into NFC form and drops invisible format
// characters (zero-width joiners and friends) that text layers sometimes
// carry between words.
var cleaner = transform.Chain(norm.NFC, runes.Remove(runes.In(unicode.Cf)))

// Normalize cleans each page's lines, strips the template's per-page
// boilerplate, rejoins words split across layout wraps, and concatenates
// pages into one flat sequence.
func Normalize(pages []Page, tmpl *template.Template) []Line {
	var out []Line
	for _, page := range pages {
		for _, raw := range page.Lines {
			text := cleanLine(raw)
			if text == "" {
				continue
			}
			if tmpl.IsBoilerplate(text) {
				continue
			}
			if merged := rejoinWrap(out, text); merged {
				continue
			}
			out = append(out, Line{Page: page.Number, Text: text})
		}
	}
	return out
}

// cleanLine applies unicode normalization and collapses whitespace runs to
// single spaces.
func cleanLine(raw string) string {
	cleaned, _, err := transform.String(cleaner, raw)
	if err != nil {
		// Undecodable bytes pass through untouched; later stages report
		// the real problem with field context.
		cleaned = raw
	}
	return strings.Join(strings.Fields(cleaned), " ")
}

// rejoinWrap merges text into the previous line when that line ends with a
// layout-wrap hyphen and the new line continues the word in lowercase.
// Returns true when the merge consumed the line.
func rejoinWrap(out []Line, text string) bool {
	if len(out) == 0 {
		return false
	}
	prev := &out[len(out)-1]
	if !strings.HasSuffix(prev.Text, "-") || len(prev.Text) < 2 {
		return false
	}
	first, _ := firstRune(text)
	if !unicode.IsLower(first) {
		return false
	}
	prev.Text = strings.TrimSuffix(prev.Text, "-") + text
	return true
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
