package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchTerms(t *testing.T) {
	t.Parallel()

	got := SearchTerms("  Hello   World hello ", "Ada Lovelace", "ada_l")
	assert.Equal(t, []string{"hello", "world", "ada", "lovelace", "ada_l"}, got)

	assert.Equal(t, []string{}, SearchTerms("", "", ""))
}

func TestNormalizeTags(t *testing.T) {
	t.Parallel()

	original, lower := NormalizeTags([]string{"Go", " rust ", "", "Go", "WebDev"})
	assert.Equal(t, []string{"Go", "rust", "WebDev"}, original)
	assert.Equal(t, []string{"go", "rust", "webdev"}, lower)

	original, lower = NormalizeTags([]string{"Go", "go", "GO "})
	assert.Equal(t, []string{"Go", "go", "GO"}, original)
	assert.Equal(t, []string{"go"}, lower)
}

func TestGetSafeContentType(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	contentType, ext := GetSafeContentType(png)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, ".png", ext)
	assert.True(t, IsImage(contentType))

	contentType, _ = GetSafeContentType([]byte("just some text"))
	assert.False(t, IsImage(contentType))
}
