// Package textutil provides text cleaning, truncation, and naming helpers
// shared by the prompt builder, renderers, and the CLI driver.
package textutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	markdownLinkRe = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	urlRe          = regexp.MustCompile(`https?://[^\s]+`)
	boldRe         = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe       = regexp.MustCompile(`\*([^*]+)\*`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	usernameRe     = regexp.MustCompile(`(?:^|/)(?:user|u)/([A-Za-z0-9_\-]+)/?$`)
	unsafeFileRe   = regexp.MustCompile(`[^\w\-]`)
)

// Clean strips Reddit markdown (links, bold, italic), removes bare URLs, and
// collapses whitespace. Applying Clean to already-clean text is a no-op.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = markdownLinkRe.ReplaceAllString(text, "$1")
	text = urlRe.ReplaceAllString(text, "")
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// Truncate cuts text to at most max characters at a word boundary and appends
// an ellipsis marker. Text already within the budget is returned unchanged.
// If no space exists before the budget the text is hard-cut. Budgets count
// runes, so a cut never splits a multibyte character.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		return cut[:idx] + "..."
	}
	return cut + "..."
}

// ExtractUsername pulls the username out of a Reddit profile URL. Both
// /user/{name} and /u/{name} forms are accepted, with or without scheme, and
// a trailing slash is tolerated. Returns "" when the URL does not look like
// a profile link.
func ExtractUsername(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if m := usernameRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

// OutputFilename builds the deterministic text artifact name for a subject.
// Characters outside word characters and hyphen are replaced with "_".
func OutputFilename(username string) string {
	return unsafeFileRe.ReplaceAllString(username, "_") + "_persona.txt"
}

// PDFFilename builds the timestamped visual artifact name for a subject,
// collision-safe across repeated runs.
func PDFFilename(username string, ts time.Time) string {
	return fmt.Sprintf("%s_persona_%s.pdf", username, ts.Format("20060102_150405"))
}
