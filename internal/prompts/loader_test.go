package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	prompt, err := Get("extraction.json", "analyze-cv")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.CVText}}")
	assert.Contains(t, prompt, "full name")
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("extraction.json", "does-not-exist")
	assert.Error(t, err)
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "analyze-cv")
	assert.Error(t, err)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("extraction.json", "does-not-exist")
	})
}

func TestFormat(t *testing.T) {
	out := Format("Teach {{.UserName}} the skill of {{.FocusSkill}}.", map[string]string{
		"UserName":   "Ada",
		"FocusSkill": "docker",
	})
	assert.Equal(t, "Teach Ada the skill of docker.", out)
}

func TestFormat_UnusedPlaceholderLeftIntact(t *testing.T) {
	out := Format("Hello {{.Name}}", map[string]string{"Other": "x"})
	assert.Equal(t, "Hello {{.Name}}", out)
}

func TestTutorPrompts(t *testing.T) {
	persona, err := Get("tutor.json", "persona")
	require.NoError(t, err)
	for _, placeholder := range []string{"{{.UserName}}", "{{.JobRole}}", "{{.FocusSkill}}", "{{.TargetLevel}}"} {
		assert.Contains(t, persona, placeholder)
	}

	intro, err := Get("tutor.json", "intro-request")
	require.NoError(t, err)
	assert.Contains(t, intro, "warm-up")
}
