// Package feed turns a captured social-media timeline into narration
// material: parsing the OCR text, scrubbing platform references and building
// the spoken script.
package feed

import (
	"regexp"
	"strings"
)

// sanitizeRules apply in order; later rules see earlier replacements.
var sanitizeRules = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)推特`), "某平台"},
	{regexp.MustCompile(`(?i)Twitter`), "某平台"},
	{regexp.MustCompile(`(?i)X\.com`), "某平台"},
	{regexp.MustCompile(`(?i)tweet`), "帖子"},
	{regexp.MustCompile(`(?i)推文`), "帖子"},
	{regexp.MustCompile(`@\w+`), ""},
}

// Sanitize scrubs source-platform wording and @mentions so the narration
// reads platform-neutral.
func Sanitize(text string) string {
	for _, r := range sanitizeRules {
		text = r.re.ReplaceAllString(text, r.replacement)
	}
	return strings.TrimSpace(text)
}
