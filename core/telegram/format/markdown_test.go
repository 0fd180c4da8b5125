package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeSpan(t *testing.T) {
	assert.Equal(t, "`꧁Sam꧂`", CodeSpan("꧁Sam꧂"))
	// Backticks and backslashes inside the span must not terminate it.
	assert.Equal(t, "`a\\`b`", CodeSpan("a`b"))
	assert.Equal(t, "`a\\\\b`", CodeSpan(`a\b`))
	// MarkdownV2 specials are literal inside a code span.
	assert.Equal(t, "`S.a!m`", CodeSpan("S.a!m"))
}
