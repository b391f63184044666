package pipeline_test

import (
	"testing"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/pipeline"

	"github.com/stretchr/testify/assert"
)

func TestTags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty text falls back", "", []string{"general"}},
		{"plain prose falls back", "hello there", []string{"general"}},
		{"code", "const x = 1", []string{"code"}},
		{"error is case-insensitive", "Build FAILED", []string{"error"}},
		{"email", "mail me at bob@example.com", []string{"email"}},
		{"url", "see HTTPS://example.org", []string{"url"}},
		{"slash date", "due 12/31/2024", []string{"date"}},
		{"iso date", "on 2024-01-05", []string{"date"}},
		{"terminal prompt", "$ ls", []string{"terminal"}},
		{"browser", "Firefox window", []string{"browser"}},
		{"document", "Quarterly PDF", []string{"document"}},
		{
			"several tags in table order",
			"Exception in chrome: see http://x.io on 2024-01-05",
			[]string{"error", "url", "date", "browser"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pipeline.Tags(tc.text))
		})
	}
}
