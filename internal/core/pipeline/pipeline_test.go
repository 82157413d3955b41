package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/content"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/pacer"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/provider"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/translate"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// urlProvider answers by image URL.
type urlProvider struct {
	texts map[string]string
	errs  map[string]error
	calls int
}

func (u *urlProvider) ExtractText(_ context.Context, img ocr.Image) (string, error) {
	u.calls++
	if err, ok := u.errs[img.URL]; ok {
		return "", err
	}
	return u.texts[img.URL], nil
}

func (u *urlProvider) GetProviderName() string { return "fake-ocr" }

type upperTranslator struct {
	fail   error
	inputs []string
}

func (t *upperTranslator) Translate(_ context.Context, text string, _ translate.Options) (string, error) {
	t.inputs = append(t.inputs, text)
	if t.fail != nil {
		return "", t.fail
	}
	return strings.ToUpper(text), nil
}

func (t *upperTranslator) GetProviderName() string { return "upper" }

type memoryRecorder struct {
	mu      sync.Mutex
	records []*usage.Record
	err     error
}

func (m *memoryRecorder) Record(_ context.Context, r *usage.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return m.err
}

type staticContent struct {
	article *content.Article
	err     error
	urls    []string
}

func (s *staticContent) Name() string { return "static" }

func (s *staticContent) Extract(_ context.Context, u string) (*content.Article, error) {
	s.urls = append(s.urls, u)
	return s.article, s.err
}

type fixture struct {
	ocr      *urlProvider
	tr       *upperTranslator
	content  *staticContent
	recorder *memoryRecorder
	p        *Pipeline
}

func newFixture(limit int) *fixture {
	f := &fixture{
		ocr:      &urlProvider{texts: map[string]string{}, errs: map[string]error{}},
		tr:       &upperTranslator{},
		content:  &staticContent{},
		recorder: &memoryRecorder{},
	}
	strategies := map[translate.Method]translate.Strategy{
		translate.MethodOpenAI: {Method: translate.MethodOpenAI, Translator: f.tr, ChunkLimit: limit, Pacer: pacer.None},
		translate.MethodClaude: {Method: translate.MethodClaude, Translator: f.tr, ChunkLimit: limit, Pacer: pacer.None},
	}
	f.p = New(Config{}, ocr.NewService(f.ocr, pacer.None), translate.NewService(strategies), f.content, f.recorder)
	return f
}

func img(name string) string { return "https://img.test/" + name }

func TestRunOCRSingleImageNoTranslation(t *testing.T) {
	f := newFixture(3000)
	f.ocr.texts[img("a")] = "Hello World"

	resp, err := f.p.RunOCR(context.Background(), OCRRequest{Image: img("a")})
	require.NoError(t, err)

	assert.Equal(t, "Hello World", resp.Text)
	assert.Nil(t, resp.TranslatedText)
	assert.Equal(t, "Hello World", resp.OriginalText)
	assert.Equal(t, []string{"Hello World"}, resp.Segments)
	assert.Equal(t, 1, resp.Stats.ImageCount)
	assert.Equal(t, 11, resp.Stats.OriginalLength)
	assert.Equal(t, "none", resp.Stats.TranslationMethod)
	assert.Equal(t, "fake-ocr", resp.Stats.OCRProvider)
	assert.NotEmpty(t, resp.RequestID)
	assert.Empty(t, f.tr.inputs)

	require.Len(t, f.recorder.records, 1)
	rec := f.recorder.records[0]
	assert.True(t, rec.Success)
	assert.Equal(t, usage.KindOCR, rec.Kind)
	assert.Equal(t, 1, rec.ImageCount)
}

func TestRunOCRSegmentedWithFailure(t *testing.T) {
	f := newFixture(3000)
	f.ocr.texts[img("a")] = "one"
	f.ocr.errs[img("b")] = errors.New("image too dark")
	f.ocr.texts[img("c")] = "three"

	resp, err := f.p.RunOCR(context.Background(), OCRRequest{
		Images:  []string{img("a"), img("b"), img("c")},
		Options: Options{ResultMode: "segmented"},
	})
	require.NoError(t, err)

	require.Len(t, resp.Segments, 3)
	assert.Equal(t, "one", resp.Segments[0])
	assert.Contains(t, resp.Segments[1], "image too dark")
	assert.Equal(t, "three", resp.Segments[2])
	assert.Equal(t, resp.Segments, resp.OriginalSegments)
	assert.Equal(t, "segmented", resp.Stats.ResultMode)
}

func TestRunOCRSegmentedTranslation(t *testing.T) {
	f := newFixture(3000)
	f.ocr.texts[img("a")] = "one"
	f.ocr.texts[img("b")] = "two"

	resp, err := f.p.RunOCR(context.Background(), OCRRequest{
		Images:  []string{img("a"), img("b")},
		Options: Options{ResultMode: "segmented", Translate: "openai", TargetLanguage: "en"},
	})
	require.NoError(t, err)

	require.NotNil(t, resp.TranslatedText)
	assert.Equal(t, "ONE\n\nTWO", *resp.TranslatedText)
	assert.Equal(t, "ONE\n\nTWO", resp.Text)
	assert.Equal(t, []string{"ONE", "TWO"}, resp.Segments)
	assert.Equal(t, []string{"one", "two"}, resp.OriginalSegments)
	assert.Equal(t, "openai", resp.Stats.TranslationMethod)
	assert.Equal(t, "upper", resp.Stats.TranslationProvider)
	assert.Equal(t, 8, resp.Stats.TranslatedLength)
}

func TestRunOCRTranslationFallback(t *testing.T) {
	f := newFixture(10)
	f.tr.fail = provider.New("upper", provider.CodeQuota, "quota exceeded")
	f.ocr.texts[img("a")] = "first part\n\nsecond part"

	resp, err := f.p.RunOCR(context.Background(), OCRRequest{Image: img("a"), Options: Options{Translate: "claude"}})
	require.NoError(t, err)

	assert.Nil(t, resp.TranslatedText)
	assert.Equal(t, "first part\n\nsecond part", resp.Text)
	assert.Equal(t, "none", resp.Stats.TranslationMethod)
	assert.Contains(t, resp.Stats.TranslationError, "quota exceeded")
	assert.Equal(t, []string{"first part\n\nsecond part"}, resp.Segments)

	require.Len(t, f.recorder.records, 1)
	assert.True(t, f.recorder.records[0].Success)
	assert.True(t, f.recorder.records[0].FallbackUsed)
}

func TestRunOCRSkipsTranslationOfEmptyText(t *testing.T) {
	f := newFixture(3000)

	resp, err := f.p.RunOCR(context.Background(), OCRRequest{Image: img("blank"), Options: Options{Translate: "openai"}})
	require.NoError(t, err)
	assert.Nil(t, resp.TranslatedText)
	assert.Equal(t, "", resp.Text)
	assert.Empty(t, f.tr.inputs)
	assert.Empty(t, resp.Stats.TranslationError)
}

func TestRunOCRSingleImageFailureIsRequestError(t *testing.T) {
	f := newFixture(3000)
	perr := provider.New("fake-ocr", provider.CodeInvalidInput, "bad image")
	f.ocr.errs[img("a")] = perr

	_, err := f.p.RunOCR(context.Background(), OCRRequest{Image: img("a")})
	var eerr *ExtractionError
	require.ErrorAs(t, err, &eerr)
	assert.ErrorIs(t, err, perr)

	require.Len(t, f.recorder.records, 1)
	assert.False(t, f.recorder.records[0].Success)
}

func TestRunOCRValidation(t *testing.T) {
	tests := []struct {
		name string
		req  OCRRequest
	}{
		{"no image", OCRRequest{}},
		{"bad mode", OCRRequest{Image: img("a"), Options: Options{ResultMode: "sideways"}}},
		{"bad method", OCRRequest{Image: img("a"), Options: Options{Translate: "babelfish"}}},
		{"bad language", OCRRequest{Image: img("a"), Options: Options{TargetLanguage: "!!"}}},
		{"auto target", OCRRequest{Image: img("a"), Options: Options{TargetLanguage: "auto"}}},
		{"bad image", OCRRequest{Image: "%%%"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(3000)
			_, err := f.p.RunOCR(context.Background(), tt.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Zero(t, f.ocr.calls)
		})
	}
}

func TestRunOCRMissingCredentials(t *testing.T) {
	f := newFixture(3000)
	_, err := f.p.RunOCR(context.Background(), OCRRequest{Image: img("a"), Options: Options{Translate: "google"}})

	var cerr *CredentialError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "GOOGLE_TRANSLATE_API_KEY", cerr.Variable)
	assert.Zero(t, f.ocr.calls)

	noOCR := New(Config{ExtractorVariable: "OPENAI_API_KEY"}, nil, translate.NewService(nil), nil, nil)
	_, err = noOCR.RunOCR(context.Background(), OCRRequest{Image: img("a")})
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "OPENAI_API_KEY", cerr.Variable)
}

func TestRunOCRMalformedImageWithoutProvider(t *testing.T) {
	noOCR := New(Config{ExtractorVariable: "OPENAI_API_KEY"}, nil, translate.NewService(nil), nil, nil)

	_, err := noOCR.RunOCR(context.Background(), OCRRequest{Image: "%%%"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	var cerr *CredentialError
	assert.False(t, errors.As(err, &cerr))
}

func TestRunUsesGivenRequestID(t *testing.T) {
	f := newFixture(3000)
	f.ocr.texts[img("a")] = "x"

	ocrResp, err := f.p.RunOCR(context.Background(), OCRRequest{Image: img("a"), RequestID: "req-ocr-1"})
	require.NoError(t, err)
	assert.Equal(t, "req-ocr-1", ocrResp.RequestID)

	trResp, err := f.p.RunTranslate(context.Background(), TranslateRequest{Content: "hi", RequestID: "req-tr-1"})
	require.NoError(t, err)
	assert.Equal(t, "req-tr-1", trResp.RequestID)

	require.Len(t, f.recorder.records, 2)
	assert.Equal(t, "req-ocr-1", f.recorder.records[0].RequestID)
	assert.Equal(t, "req-tr-1", f.recorder.records[1].RequestID)
}

func TestRunOCRRecorderFailureIsIgnored(t *testing.T) {
	f := newFixture(3000)
	f.recorder.err = errors.New("database is down")
	f.ocr.texts[img("a")] = "x"

	resp, err := f.p.RunOCR(context.Background(), OCRRequest{Image: img("a")})
	require.NoError(t, err)
	assert.Equal(t, "x", resp.Text)
}

func TestRunTranslateContent(t *testing.T) {
	f := newFixture(3000)

	resp, err := f.p.RunTranslate(context.Background(), TranslateRequest{Content: "hello"})
	require.NoError(t, err)

	require.NotNil(t, resp.TranslatedText)
	assert.Equal(t, "HELLO", *resp.TranslatedText)
	assert.Equal(t, "HELLO", resp.Text)
	assert.Nil(t, resp.OriginalURL)
	assert.Nil(t, resp.ExtractedTitle)
	assert.Equal(t, "claude", resp.Stats.TranslationMethod, "claude is the default text method")
}

func TestRunTranslateURL(t *testing.T) {
	f := newFixture(3000)
	f.content.article = &content.Article{Title: "Title", Body: "Body text", Source: "static"}

	resp, err := f.p.RunTranslate(context.Background(), TranslateRequest{URL: "example.com/post", Options: Options{Translate: "openai"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/post"}, f.content.urls)
	require.NotNil(t, resp.OriginalURL)
	assert.Equal(t, "https://example.com/post", *resp.OriginalURL)
	require.NotNil(t, resp.ExtractedTitle)
	assert.Equal(t, "Title", *resp.ExtractedTitle)
	assert.Equal(t, "# Title\n\nBody text", resp.OriginalText)
	assert.Equal(t, "# TITLE\n\nBODY TEXT", resp.Text)
	assert.Equal(t, "static", resp.Stats.Extractor)
}

func TestRunTranslateContentFailure(t *testing.T) {
	f := newFixture(3000)
	f.content.err = errors.New("HTTP 404")

	_, err := f.p.RunTranslate(context.Background(), TranslateRequest{URL: "https://example.com/missing"})
	var cerr *ContentError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, err.Error(), "HTTP 404")
	assert.Empty(t, f.tr.inputs)
}

func TestRunTranslateValidation(t *testing.T) {
	f := newFixture(3000)

	_, err := f.p.RunTranslate(context.Background(), TranslateRequest{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = f.p.RunTranslate(context.Background(), TranslateRequest{URL: "http://"})
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, f.content.urls)
}

func TestRunTranslateFallback(t *testing.T) {
	f := newFixture(3000)
	f.tr.fail = errors.New("upstream down")

	resp, err := f.p.RunTranslate(context.Background(), TranslateRequest{Content: "keep me"})
	require.NoError(t, err)
	assert.Nil(t, resp.TranslatedText)
	assert.Equal(t, "keep me", resp.Text)
	assert.Equal(t, "upstream down", resp.Stats.TranslationError)
}
