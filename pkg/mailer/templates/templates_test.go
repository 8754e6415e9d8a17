package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Welcome(t *testing.T) {
	subject, text, html, err := Render("welcome", map[string]any{
		"AppName":  "go-notes-sync",
		"Username": "alice",
		"Email":    "alice@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "go-notes-sync: welcome aboard, alice", subject)
	assert.Contains(t, text, "alice@x.com")
	assert.Contains(t, html, "<strong>alice@x.com</strong>")
}

func TestRender_ProfileUpdatedEscapesHTML(t *testing.T) {
	_, _, html, err := Render("profile_updated", map[string]any{
		"Username": "<script>",
		"Changes":  "username",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRender_DefaultAppName(t *testing.T) {
	subject, _, _, err := Render("profile_updated", map[string]any{"Username": "bob"})
	require.NoError(t, err)
	assert.Equal(t, "Notes: your profile was updated", subject)
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}
