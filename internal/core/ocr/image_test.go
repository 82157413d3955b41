package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestParseImage(t *testing.T) {
	raw := pngBytes(t)
	b64 := base64.StdEncoding.EncodeToString(raw)

	t.Run("data url", func(t *testing.T) {
		img, err := ParseImage("data:image/jpeg;base64," + b64)
		require.NoError(t, err)
		assert.Equal(t, raw, img.Data)
		// sniffed format wins over the declared one
		assert.Equal(t, "image/png", img.MIMEType)
		assert.False(t, img.IsRemote())
	})

	t.Run("raw base64", func(t *testing.T) {
		img, err := ParseImage(b64)
		require.NoError(t, err)
		assert.Equal(t, raw, img.Data)
		assert.Equal(t, "image/png", img.MIMEType)
	})

	t.Run("remote url", func(t *testing.T) {
		img, err := ParseImage("https://example.com/shot.png")
		require.NoError(t, err)
		assert.True(t, img.IsRemote())
		assert.Equal(t, "https://example.com/shot.png", img.DataURL())
	})

	t.Run("unknown format falls back to declared type", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString([]byte("not really an image"))
		img, err := ParseImage("data:image/heic;base64," + payload)
		require.NoError(t, err)
		assert.Equal(t, "image/heic", img.MIMEType)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseImage("%%%not base64%%%")
		assert.ErrorIs(t, err, ErrInvalidImage)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseImage("  ")
		assert.ErrorIs(t, err, ErrInvalidImage)
	})
}

func TestParseImagesReportsIndex(t *testing.T) {
	_, err := ParseImages([]string{"https://example.com/a.png", "%%%"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "images[1]")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestDataURL(t *testing.T) {
	img := Image{Data: []byte("abc"), MIMEType: "image/png"}
	assert.Equal(t, "data:image/png;base64,YWJj", img.DataURL())
}

func TestFetchBytes(t *testing.T) {
	raw := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(raw)
	}))
	defer srv.Close()

	data, mime, err := Image{URL: srv.URL}.fetchBytes(context.Background(), srv.Client())
	require.NoError(t, err)
	assert.Equal(t, raw, data)
	assert.Equal(t, "image/png", mime)
}
