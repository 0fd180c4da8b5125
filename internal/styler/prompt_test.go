package styler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptBasics(t *testing.T) {
	prompt := BuildPrompt(Request{Name: "Sam"})

	assert.Contains(t, prompt, "'Sam'")
	assert.Contains(t, prompt, "Gen-Z")
	assert.Contains(t, prompt, "Return ONLY the styled text")
	assert.NotContains(t, prompt, "rejected this style")
}

func TestBuildPromptAvoidConstraint(t *testing.T) {
	prompt := BuildPrompt(Request{Name: "Sam", Avoid: "꧁Sam꧂"})

	assert.Contains(t, prompt, "The user rejected this style: '꧁Sam꧂'")
	assert.Contains(t, prompt, "COMPLETELY different")
}

func TestBuildPromptStyleTag(t *testing.T) {
	with := BuildPrompt(Request{Name: "Sam", Style: "dark"})
	without := BuildPrompt(Request{Name: "Sam"})

	assert.Contains(t, with, "dark vibe")
	assert.False(t, strings.Contains(without, "vibe."), "no vibe clause without a tag")
}
