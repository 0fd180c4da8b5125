package bot

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aestyle/namestyler/internal/store"
	"github.com/aestyle/namestyler/internal/styler"
)

func TestRenderResult(t *testing.T) {
	assert.Equal(t, "✨ Here's your aesthetic name:\n\n`꧁Sam꧂`", renderResult("꧁Sam꧂"))
	// A degenerate empty success still renders something tappable.
	assert.Equal(t, "✨ Here's your aesthetic name:\n\n`✨`", renderResult(""))
	// Backticks in provider output must not break the code span.
	assert.Equal(t, "✨ Here's your aesthetic name:\n\n`a\\`b`", renderResult("a`b"))
}

func TestRenderErrorNeverLeaksProviderDetail(t *testing.T) {
	raw := fmt.Errorf("styler: generation failed: %w", errors.New("googleapi: Error 500: internal"))

	assert.Equal(t, unavailableText, renderError(styler.ErrNoCredentials))
	assert.Equal(t, busyText, renderError(styler.ErrAllCredentialsExhausted))
	assert.Equal(t, failedText, renderError(raw))
	assert.NotContains(t, renderError(raw), "googleapi")
}

func TestNextStyleWithoutSessionAsksForNewInput(t *testing.T) {
	h := NewHandlers(Deps{Sessions: store.NewMemorySessions()})

	c := newChatContext(7, "")
	require.NoError(t, h.NextStyle(c))

	require.Len(t, c.edited, 1)
	assert.Equal(t, "Session expired. Send me a name to style. ✨", c.edited[0])
}

func TestRenderPoolMasksValues(t *testing.T) {
	out := renderPool([]string{"AIzaSy-first-key-abcd", "AIzaSy-second-key-wxyz"})

	assert.Contains(t, out, "1. ••••abcd")
	assert.Contains(t, out, "2. ••••wxyz")
	assert.NotContains(t, out, "AIzaSy", "full key values never reach chat")
}

func TestResultMarkupButtons(t *testing.T) {
	markup := resultMarkup()

	assert.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "Next Style 🔄", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "Copy Name 📋", markup.InlineKeyboard[0][1].Text)
	assert.Len(t, markup.InlineKeyboard[1], 3)
}
