package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key, err := ObjectKey("avatars", 7, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "avatars/7/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	_, err = ObjectKey("avatars", 7, "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestMemoryUploader(t *testing.T) {
	u := NewMemoryUploader("https://cdn.arena.test/media")
	res, err := u.Upload(context.Background(), "banners/1/x.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.arena.test/media/banners/1/x.png", res.Location)
	assert.Equal(t, []byte("png"), u.Objects["banners/1/x.png"])

	require.NoError(t, u.Delete(context.Background(), "banners/1/x.png"))
	assert.Empty(t, u.Objects)
}
