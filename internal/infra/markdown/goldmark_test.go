package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("## Medical\n\nThe **fee** is ~~€100m~~ €105m.\n\n| Club | Fee |\n|---|---|\n| Arsenal | 105 |\n")
	require.NoError(t, err)
	assert.Contains(t, out, `<h2 id="medical">Medical</h2>`)
	assert.Contains(t, out, "<strong>fee</strong>")
	assert.Contains(t, out, "<del>€100m</del>")
	assert.Contains(t, out, "<table>")
}

func TestRenderer_EscapesRawHTML(t *testing.T) {
	out, err := NewRenderer().Render("hello <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}
