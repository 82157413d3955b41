package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	// decoders registered for format sniffing
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage is returned by ParseImage for input that is neither a URL
// nor decodable base64.
var ErrInvalidImage = errors.New("invalid image payload")

// maxFetchBytes caps images downloaded for adapters that need raw bytes.
const maxFetchBytes = 20 << 20

// Image is one OCR input: either inline bytes or a remote URL.
type Image struct {
	Data     []byte
	URL      string
	MIMEType string
}

// IsRemote reports whether the image is referenced by URL.
func (img Image) IsRemote() bool {
	return img.URL != ""
}

// Base64 returns the inline payload encoded with standard base64.
func (img Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

// DataURL returns the image as a data: URL, or the remote URL unchanged.
func (img Image) DataURL() string {
	if img.IsRemote() {
		return img.URL
	}
	return "data:" + img.MIMEType + ";base64," + img.Base64()
}

// ParseImage accepts a data URL, raw base64, or an http(s) URL.
func ParseImage(s string) (Image, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Image{}, fmt.Errorf("%w: empty", ErrInvalidImage)
	}

	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return Image{URL: s}, nil
	}

	payload := s
	declared := ""
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return Image{}, fmt.Errorf("%w: malformed data URL", ErrInvalidImage)
		}
		meta := s[len("data:"):comma]
		declared, _, _ = strings.Cut(meta, ";")
		payload = s[comma+1:]
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: no data", ErrInvalidImage)
	}

	mime := sniffMIME(data)
	if mime == "" {
		mime = declared
	}
	if mime == "" {
		mime = "image/jpeg"
	}

	return Image{Data: data, MIMEType: mime}, nil
}

// ParseImages parses every input, reporting the index of the first bad one.
func ParseImages(inputs []string) ([]Image, error) {
	images := make([]Image, 0, len(inputs))
	for i, in := range inputs {
		img, err := ParseImage(in)
		if err != nil {
			return nil, fmt.Errorf("images[%d]: %w", i, err)
		}
		images = append(images, img)
	}
	return images, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)

	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	if data, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.URLEncoding.DecodeString(s)
}

func sniffMIME(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return "image/" + format
}

// fetchBytes returns the inline data, downloading remote images first.
func (img Image) fetchBytes(ctx context.Context, client *http.Client) ([]byte, string, error) {
	if !img.IsRemote() {
		return img.Data, img.MIMEType, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, img.URL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image download failed (status: %d)", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	mime := sniffMIME(data)
	if mime == "" {
		mime = resp.Header.Get("Content-Type")
	}
	if mime == "" {
		mime = "image/jpeg"
	}
	return data, mime, nil
}
