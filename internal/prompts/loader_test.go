package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	prompt, err := Get("strategy_schedule")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "content calendar")
	assert.Contains(t, prompt, "{{.Industry}}")
}

func TestGet_MissingPrompt(t *testing.T) {
	_, err := Get("no_such_prompt")
	assert.Error(t, err)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() { MustGet("no_such_prompt") })
	assert.NotPanics(t, func() { MustGet("post_content_single") })
}

func TestFormat(t *testing.T) {
	out := Format("Write about {{.Topic}} for {{.Platform}}. {{.Topic}} matters.", map[string]string{
		"Topic":    "pricing",
		"Platform": "x",
	})
	assert.Equal(t, "Write about pricing for x. pricing matters.", out)
}

func TestFormat_UnknownPlaceholderLeftIntact(t *testing.T) {
	out := Format("{{.Known}} {{.Unknown}}", map[string]string{"Known": "yes"})
	assert.Equal(t, "yes {{.Unknown}}", out)
}
