package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/shared/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		title string
		body  string
	}{
		{
			name:  "atx heading",
			in:    "# Hello World\n\nFirst paragraph.\n\n## Section\n\nMore.",
			title: "Hello World",
			body:  "First paragraph.\n\n## Section\n\nMore.",
		},
		{
			name:  "preamble before heading is dropped",
			in:    "URL Source: https://example.com\n\n# Title Here\n\nBody",
			title: "Title Here",
			body:  "Body",
		},
		{
			name:  "setext heading",
			in:    "Big Title\n=========\n\nText below",
			title: "Big Title",
			body:  "Text below",
		},
		{
			name:  "no heading uses first line",
			in:    "Title: Plain Page\n\nSome text\nmore text",
			title: "Plain Page",
			body:  "Some text\nmore text",
		},
		{
			name:  "heading only",
			in:    "# Lonely",
			title: "Lonely",
			body:  "",
		},
		{
			name: "empty",
			in:   "  \n ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body := ParseMarkdown(tt.in)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com/a", NormalizeURL("  example.com/a "))
	assert.Equal(t, "http://example.com", NormalizeURL("http://example.com"))
	assert.Equal(t, "https://example.com", NormalizeURL("https://example.com"))
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://example.com/post?id=1"))
	assert.True(t, IsValidURL("http://localhost:8080"))
	assert.False(t, IsValidURL("ftp://example.com"))
	assert.False(t, IsValidURL("https://"))
	assert.False(t, IsValidURL("not a url"))
}

func TestArticleText(t *testing.T) {
	a := &Article{Title: "T", Body: "B"}
	assert.Equal(t, "# T\n\nB", a.Text())
	assert.Equal(t, "B", (&Article{Body: "B"}).Text())
}

func TestJinaExtractor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/https://example.com/post", r.URL.Path)
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))
		assert.Equal(t, "markdown", r.Header.Get("X-Return-Format"))
		fmt.Fprint(w, "# The Post\n\nHello there.")
	}))
	defer srv.Close()

	j := NewJinaExtractor(srv.URL, "", srv.Client())
	a, err := j.Extract(context.Background(), "https://example.com/post")
	require.NoError(t, err)
	assert.Equal(t, "The Post", a.Title)
	assert.Equal(t, "Hello there.", a.Body)
	assert.Equal(t, "jina", a.Source)
	assert.Equal(t, "https://example.com/post", a.URL)
}

func TestJinaExtractorHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewJinaExtractor(srv.URL, "", srv.Client()).Extract(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

const samplePage = `<!doctype html>
<html><head><title>Fallback Title</title><script>var x = 1;</script></head>
<body>
<nav><a href="/">Home</a></nav>
<article>
  <h1>Real   Title</h1>
  <p>First <b>bold</b> paragraph.</p>
  <ul><li>one</li><li>two</li></ul>
  <blockquote>quoted</blockquote>
</article>
<footer>copyright</footer>
</body></html>`

func TestParseHTML(t *testing.T) {
	a, err := ParseHTML(strings.NewReader(samplePage))
	require.NoError(t, err)
	assert.Equal(t, "Real Title", a.Title)
	assert.Equal(t, "First bold paragraph.\n\n- one\n\n- two\n\n> quoted", a.Body)
}

func TestHTMLExtractor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, samplePage)
	}))
	defer srv.Close()

	a, err := NewHTMLExtractor(srv.Client()).Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "html", a.Source)
	assert.Equal(t, "Real Title", a.Title)
}

func TestHTMLExtractorRefusesPrivateAddresses(t *testing.T) {
	var calls int
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, "<html><body><p>INTERNAL-SECRET-TOKEN=abc123</p></body></html>")
	}))
	defer internal.Close()

	reader := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer reader.Close()

	chain := Chain{NewJinaExtractor(reader.URL, "", reader.Client()), NewHTMLExtractor(nil)}
	a, err := chain.Extract(context.Background(), internal.URL)

	require.Error(t, err)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, httpclient.ErrBlockedAddress)
	assert.NotContains(t, err.Error(), "INTERNAL-SECRET")
	assert.Zero(t, calls)
}

type stubExtractor struct {
	name  string
	err   error
	calls int
}

func (s *stubExtractor) Name() string { return s.name }

func (s *stubExtractor) Extract(_ context.Context, u string) (*Article, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &Article{URL: u, Title: s.name, Source: s.name}, nil
}

func TestChainFallsBack(t *testing.T) {
	first := &stubExtractor{name: "first", err: errors.New("down")}
	second := &stubExtractor{name: "second"}
	chain := Chain{first, second}

	a, err := chain.Extract(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "second", a.Source)
	assert.Equal(t, "first+second", chain.Name())
}

func TestChainAllFail(t *testing.T) {
	chain := Chain{&stubExtractor{name: "a", err: errors.New("x")}, &stubExtractor{name: "b", err: errors.New("y")}}
	_, err := chain.Extract(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: x")
	assert.Contains(t, err.Error(), "b: y")
}

func TestChainRejectsInvalidURL(t *testing.T) {
	s := &stubExtractor{name: "a"}
	_, err := Chain{s}.Extract(context.Background(), "mailto:someone")
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Equal(t, 0, s.calls)
}
