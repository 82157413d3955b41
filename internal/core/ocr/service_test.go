package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	texts map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeProvider) ExtractText(_ context.Context, img Image) (string, error) {
	f.calls = append(f.calls, img.URL)
	if err, ok := f.errs[img.URL]; ok {
		return "", err
	}
	return f.texts[img.URL], nil
}

func (f *fakeProvider) GetProviderName() string { return "fake" }

type fakeBatchProvider struct {
	fakeProvider
	batchCalls int
}

func (f *fakeBatchProvider) ExtractBatch(_ context.Context, images []Image) (string, error) {
	f.batchCalls++
	return "batched", nil
}

type countingPacer struct {
	waits []int
}

func (c *countingPacer) Wait(_ context.Context, i, n int) error {
	if i < n-1 {
		c.waits = append(c.waits, i)
	}
	return nil
}

func urls(names ...string) []Image {
	images := make([]Image, len(names))
	for i, n := range names {
		images[i] = Image{URL: "https://img.test/" + n}
	}
	return images
}

func key(n string) string { return "https://img.test/" + n }

func TestExtractAllSingleImage(t *testing.T) {
	p := &fakeProvider{texts: map[string]string{key("a"): "Hello World"}}
	pc := &countingPacer{}
	svc := NewService(p, pc)

	res, err := svc.ExtractAll(context.Background(), urls("a"), ModeMerged)
	require.NoError(t, err)

	assert.Equal(t, "Hello World", res.Text)
	assert.Equal(t, []string{"Hello World"}, res.Segments)
	assert.Empty(t, pc.waits)
}

func TestExtractAllSingleImageFailureIsRequestError(t *testing.T) {
	perr := provider.New("fake", provider.CodeAuth, "bad key")
	p := &fakeProvider{errs: map[string]error{key("a"): perr}}
	svc := NewService(p, nil)

	res, err := svc.ExtractAll(context.Background(), urls("a"), ModeSegmented)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, perr)
}

func TestExtractAllSingleImageEmptyIsNotAnError(t *testing.T) {
	p := &fakeProvider{texts: map[string]string{}}
	svc := NewService(p, nil)

	res, err := svc.ExtractAll(context.Background(), urls("a"), ModeMerged)
	require.NoError(t, err)
	assert.Equal(t, "", res.Text)
	assert.Equal(t, []string{""}, res.Segments)
}

func TestExtractAllNoImages(t *testing.T) {
	svc := NewService(&fakeProvider{}, nil)
	_, err := svc.ExtractAll(context.Background(), nil, ModeMerged)
	assert.ErrorIs(t, err, ErrNoImages)
}

func TestExtractAllSegmentedKeepsOneSegmentPerImage(t *testing.T) {
	p := &fakeProvider{
		texts: map[string]string{key("a"): "first", key("c"): "third"},
		errs:  map[string]error{key("b"): errors.New("image too blurry")},
	}
	pc := &countingPacer{}
	svc := NewService(p, pc)

	res, err := svc.ExtractAll(context.Background(), urls("a", "b", "c"), ModeSegmented)
	require.NoError(t, err)

	require.Len(t, res.Segments, 3)
	assert.Equal(t, "first", res.Segments[0])
	assert.Contains(t, res.Segments[1], "image too blurry")
	assert.True(t, strings.HasPrefix(res.Segments[1], "[unrecognized"))
	assert.Equal(t, "third", res.Segments[2])
	assert.Equal(t, strings.Join(res.Segments, "\n\n"), res.Text)
	assert.Equal(t, []int{0, 1}, pc.waits)
	assert.Equal(t, []string{key("a"), key("b"), key("c")}, p.calls)
}

func TestExtractAllSegmentedIgnoresBatchExtractor(t *testing.T) {
	p := &fakeBatchProvider{fakeProvider: fakeProvider{texts: map[string]string{key("a"): "A", key("b"): "B"}}}
	svc := NewService(p, nil)

	res, err := svc.ExtractAll(context.Background(), urls("a", "b"), ModeSegmented)
	require.NoError(t, err)

	assert.Equal(t, 0, p.batchCalls)
	assert.Equal(t, []string{"A", "B"}, res.Segments)
}

func TestExtractAllMergedPrefersBatchExtractor(t *testing.T) {
	p := &fakeBatchProvider{}
	svc := NewService(p, nil)

	res, err := svc.ExtractAll(context.Background(), urls("a", "b"), ModeMerged)
	require.NoError(t, err)

	assert.Equal(t, 1, p.batchCalls)
	assert.Empty(t, p.calls)
	assert.Equal(t, "batched", res.Text)
	assert.Equal(t, []string{"batched"}, res.Segments)
}

func TestExtractAllMergedWithoutBatchExtractor(t *testing.T) {
	p := &fakeProvider{
		texts: map[string]string{key("a"): "A"},
		errs:  map[string]error{key("c"): errors.New("boom")},
	}
	pc := &countingPacer{}
	svc := NewService(p, pc)

	res, err := svc.ExtractAll(context.Background(), urls("a", "b", "c"), ModeMerged)
	require.NoError(t, err)

	assert.Equal(t, "A\n\n"+EmptyPlaceholder+"\n\n[unrecognized: boom]", res.Text)
	assert.Equal(t, []string{res.Text}, res.Segments)
	assert.Len(t, pc.waits, 2)
}

func TestExtractAllStopsWhenContextCancelledDuringPacing(t *testing.T) {
	p := &fakeProvider{texts: map[string]string{key("a"): "A", key("b"): "B"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(p, cancelledPacer{})
	_, err := svc.ExtractAll(ctx, urls("a", "b"), ModeSegmented)
	assert.ErrorIs(t, err, context.Canceled)
}

type cancelledPacer struct{}

func (cancelledPacer) Wait(ctx context.Context, i, n int) error {
	if i < n-1 {
		return ctx.Err()
	}
	return nil
}

func TestParseResultMode(t *testing.T) {
	m, err := ParseResultMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeMerged, m)

	m, err = ParseResultMode("Segmented")
	require.NoError(t, err)
	assert.Equal(t, ModeSegmented, m)

	_, err = ParseResultMode("sideways")
	assert.Error(t, err)
}
