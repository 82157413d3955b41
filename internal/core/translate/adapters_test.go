package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/cache"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleTranslator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/language/translate/v2", r.URL.Path)
		assert.Equal(t, "g-key", r.URL.Query().Get("key"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Hello", r.PostForm.Get("q"))
		assert.Equal(t, "zh-TW", r.PostForm.Get("target"))
		assert.Equal(t, "en", r.PostForm.Get("source"))
		assert.Equal(t, "text", r.PostForm.Get("format"))
		fmt.Fprint(w, `{"data":{"translations":[{"translatedText":"你好"}]}}`)
	}))
	defer srv.Close()

	tr := NewGoogleTranslator("g-key", ClientOptions{BaseURL: srv.URL})
	out, err := tr.Translate(context.Background(), "Hello", Options{SourceLang: "en", TargetLang: "zh-TW"})
	require.NoError(t, err)
	assert.Equal(t, "你好", out)
}

func TestGoogleTranslatorOmitsAutoSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		_, has := r.PostForm["source"]
		assert.False(t, has)
		fmt.Fprint(w, `{"data":{"translations":[{"translatedText":"x"}]}}`)
	}))
	defer srv.Close()

	_, err := NewGoogleTranslator("k", ClientOptions{BaseURL: srv.URL}).Translate(context.Background(), "y", Options{})
	require.NoError(t, err)
}

func TestGoogleTranslatorErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   provider.Code
	}{
		{"invalid key", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key."}}`, provider.CodeAuth},
		{"quota", http.StatusForbidden, `{"error":{"code":403,"message":"Daily Limit Exceeded: quota"}}`, provider.CodeQuota},
		{"empty", http.StatusOK, `{"data":{"translations":[]}}`, provider.CodeEmptyResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewGoogleTranslator("k", ClientOptions{BaseURL: srv.URL}).Translate(context.Background(), "x", Options{})
			require.Error(t, err)
			assert.Equal(t, tt.code, provider.CodeOf(err))
		})
	}
}

func TestGoogleFreeTranslator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/translate_a/single", r.URL.Path)
		assert.Equal(t, "gtx", r.URL.Query().Get("client"))
		assert.Equal(t, "auto", r.URL.Query().Get("sl"))
		assert.Equal(t, "ja", r.URL.Query().Get("tl"))
		fmt.Fprint(w, `[[["こんにちは。","Hello.",null,null,1],["世界","World",null,null,1]],null,"en"]`)
	}))
	defer srv.Close()

	out, err := NewGoogleFreeTranslator(ClientOptions{BaseURL: srv.URL}).Translate(context.Background(), "Hello. World", Options{TargetLang: "ja"})
	require.NoError(t, err)
	assert.Equal(t, "こんにちは。世界", out)
}

func TestGoogleFreeTranslatorBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>blocked</html>`)
	}))
	defer srv.Close()

	_, err := NewGoogleFreeTranslator(ClientOptions{BaseURL: srv.URL}).Translate(context.Background(), "x", Options{})
	assert.Equal(t, provider.CodeUpstream, provider.CodeOf(err))
}

func TestOpenAITranslator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-test", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Contains(t, body.Messages[0].Content, "Output only the translation")
		assert.Equal(t, "Hello", body.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" 你好 "}}]}`)
	}))
	defer srv.Close()

	tr := NewOpenAITranslator("sk", ClientOptions{BaseURL: srv.URL, Model: "gpt-test"})
	out, err := tr.Translate(context.Background(), "Hello", Options{})
	require.NoError(t, err)
	assert.Equal(t, "你好", out)
}

func TestOpenAITranslatorEmptyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"   "}}]}`)
	}))
	defer srv.Close()

	_, err := NewOpenAITranslator("sk", ClientOptions{BaseURL: srv.URL}).Translate(context.Background(), "Hello", Options{})
	assert.Equal(t, provider.CodeEmptyResult, provider.CodeOf(err))
}

func TestClaudeTranslator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ak", r.Header.Get("X-Api-Key"))

		var body struct {
			Model  string `json:"model"`
			System []struct {
				Text string `json:"text"`
			} `json:"system"`
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-test", body.Model)
		require.Len(t, body.System, 1)
		assert.Contains(t, body.System[0].Text, "Keep it casual")
		assert.Contains(t, body.System[0].Text, "Preserve the paragraph structure")
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-test","content":[{"type":"text","text":"Bonjour"}],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`)
	}))
	defer srv.Close()

	tr := NewClaudeTranslator("ak", ClientOptions{BaseURL: srv.URL, Model: "claude-test"})
	out, err := tr.Translate(context.Background(), "Hello", Options{
		TargetLang:         "fr",
		PreserveFormatting: true,
		CustomInstructions: "Keep it casual",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out)
}

func TestClaudeTranslatorAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer srv.Close()

	_, err := NewClaudeTranslator("bad", ClientOptions{BaseURL: srv.URL}).Translate(context.Background(), "Hello", Options{})
	require.Error(t, err)
	assert.Equal(t, provider.CodeAuth, provider.CodeOf(err))
}

func TestBuildSystemPrompt(t *testing.T) {
	p := buildSystemPrompt(withDefaults(Options{}))
	assert.Contains(t, p, "Traditional Chinese")
	assert.NotContains(t, p, "source text is in")

	p = buildSystemPrompt(Options{SourceLang: "ja", TargetLang: "en"})
	assert.Contains(t, p, "English")
	assert.Contains(t, p, "source text is in Japanese")
}

func TestCachedTranslator(t *testing.T) {
	store := cache.NewMemoryClient(10)
	defer store.Close()

	tr := &scriptedTranslator{}
	c := NewCached(tr, store, time.Minute)
	ctx := context.Background()

	out, err := c.Translate(ctx, "hello", Options{TargetLang: "en"})
	require.NoError(t, err)
	assert.Equal(t, "HELLO", out)

	out, err = c.Translate(ctx, "hello", Options{TargetLang: "en"})
	require.NoError(t, err)
	assert.Equal(t, "HELLO", out)
	assert.Len(t, tr.inputs, 1)

	// another target language is a different key
	_, err = c.Translate(ctx, "hello", Options{TargetLang: "ja"})
	require.NoError(t, err)
	assert.Len(t, tr.inputs, 2)
	assert.Equal(t, "scripted", c.GetProviderName())
}

func TestCachedTranslatorDoesNotStoreFailures(t *testing.T) {
	store := cache.NewMemoryClient(10)
	defer store.Close()

	tr := &scriptedTranslator{failOn: map[int]error{1: provider.New("scripted", provider.CodeQuota, "slow down")}}
	c := NewCached(tr, store, 0)

	_, err := c.Translate(context.Background(), "hello", Options{})
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())

	out, err := c.Translate(context.Background(), "hello", Options{})
	require.NoError(t, err)
	assert.Equal(t, "HELLO", out)
}
