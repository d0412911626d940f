package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"folds CRLF", "a\r\nb\rc", "a\nb\nc"},
		{"collapses spaces", "a    b\tc", "a b c"},
		{"trims lines", "  hello  \n  world  ", "hello\nworld"},
		{"reduces blank runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"trims surrounding blanks", "\n\n\nhello\n\n\n", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}
