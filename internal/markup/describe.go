package markup

import (
	"regexp"
	"strings"
)

var (
	headingRe   = regexp.MustCompile(`(?m)^#+\s+`)
	linkRe      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	imageRe     = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	boldRe      = regexp.MustCompile(`\*+([^*]+)\*+`)
	underlineRe = regexp.MustCompile(`_+([^_]+)_+`)
	codeFenceRe = regexp.MustCompile("(?s)```[^`]*```")
	inlineRe    = regexp.MustCompile("`[^`]+`")
)

// Describe strips markdown formatting from content and returns a plain
// snippet of at most maxLen bytes for list views, truncated on a word
// boundary with a trailing ellipsis.
func Describe(content string, maxLen int) string {
	text := content
	text = headingRe.ReplaceAllString(text, "")
	text = imageRe.ReplaceAllString(text, "")
	text = linkRe.ReplaceAllString(text, "$1")
	text = boldRe.ReplaceAllString(text, "$1")
	text = underlineRe.ReplaceAllString(text, "$1")
	text = codeFenceRe.ReplaceAllString(text, "")
	text = inlineRe.ReplaceAllString(text, "")

	text = strings.Join(strings.Fields(text), " ")

	if maxLen > 0 && len(text) > maxLen {
		cut := text[:maxLen]
		if i := strings.LastIndexByte(cut, ' '); i > 0 {
			cut = cut[:i]
		}
		text = cut + "..."
	}
	return text
}
