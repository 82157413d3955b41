package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const jinaReaderBaseURL = "https://r.jina.ai"

// maxPageSize caps how much of a page is read.
const maxPageSize = 10 << 20

// JinaExtractor uses the Jina reader service, which renders a page and
// returns its main content as markdown.
type JinaExtractor struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewJinaExtractor creates a reader-service extractor. apiKey is optional.
func NewJinaExtractor(baseURL, apiKey string, client *http.Client) *JinaExtractor {
	if baseURL == "" {
		baseURL = jinaReaderBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &JinaExtractor{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client}
}

func (j *JinaExtractor) Name() string { return "jina" }

// Extract fetches <base>/<url> and parses the returned markdown.
func (j *JinaExtractor) Extract(ctx context.Context, pageURL string) (*Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.baseURL+"/"+pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("X-Return-Format", "markdown")
	if j.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+j.apiKey)
	}

	resp, err := j.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction failed: HTTP %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	markdown := string(raw)
	title, body := ParseMarkdown(markdown)
	if title == "" && body == "" {
		return nil, fmt.Errorf("extraction returned no content")
	}

	return &Article{
		URL:         pageURL,
		Title:       title,
		Body:        body,
		Markdown:    markdown,
		Source:      j.Name(),
		ExtractedAt: time.Now().UTC(),
	}, nil
}
