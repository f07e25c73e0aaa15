package minio

import (
	"Chatter/internal/api/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyOf(t *testing.T) {
	t.Parallel()

	s := NewStorage(nil, config.MinIOConfig{ExternalEndpoint: "cdn.example.com/", MainBucket: "chatter"})

	url := s.PublicURL("post_images/7/a.png")
	assert.Equal(t, "https://cdn.example.com/chatter/post_images/7/a.png", url)

	key, err := s.KeyOf(url)
	require.NoError(t, err)
	assert.Equal(t, "post_images/7/a.png", key)

	key, err = s.KeyOf("https://cdn.example.com/chatter/post_images/7/a%20b.png")
	require.NoError(t, err)
	assert.Equal(t, "post_images/7/a b.png", key)

	_, err = s.KeyOf("https://elsewhere.example.com/x.png")
	assert.ErrorIs(t, err, ErrForeignURL)

	_, err = s.KeyOf("https://cdn.example.com/chatter/")
	assert.ErrorIs(t, err, ErrForeignURL)
}
