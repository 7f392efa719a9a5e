package web

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	body, err := Index()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "<title>microforum</title>"))
}

func TestStatic_ContainsAssets(t *testing.T) {
	for _, name := range []string{"index.html", "app.js", "style.css"} {
		_, err := fs.Stat(Static(), name)
		assert.NoError(t, err, name)
	}
}
