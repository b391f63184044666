package pipeline

import (
	"regexp"
	"strings"
)

// FallbackTag is emitted when no pattern matches.
const FallbackTag = "general"

type tagPattern struct {
	tag string
	re  *regexp.Regexp
}

// tagPatterns are tested in order against the lowercased text.
var tagPatterns = []tagPattern{
	{"code", regexp.MustCompile(`function|const|let|var|import|export|class|def|print`)},
	{"error", regexp.MustCompile(`error|exception|failed|warning`)},
	{"email", regexp.MustCompile(`@[\w.-]+\.\w+`)},
	{"url", regexp.MustCompile(`https?://`)},
	{"date", regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{2}-\d{2}`)},
	{"terminal", regexp.MustCompile(`\$|>|bash|shell|command`)},
	{"browser", regexp.MustCompile(`chrome|firefox|safari|edge`)},
	{"document", regexp.MustCompile(`document|pdf|word|excel`)},
}

// Tags returns every tag whose pattern matches text, or FallbackTag alone.
func Tags(text string) []string {
	lower := strings.ToLower(text)
	tags := make([]string, 0, 2)
	for _, p := range tagPatterns {
		if p.re.MatchString(lower) {
			tags = append(tags, p.tag)
		}
	}
	if len(tags) == 0 {
		tags = append(tags, FallbackTag)
	}
	return tags
}
