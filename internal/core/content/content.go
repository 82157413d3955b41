// Package content turns a web page into translatable markdown.
package content

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrInvalidURL is returned for anything that is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid URL format")

// Article is the result of extracting one page.
type Article struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Body        string    `json:"content"`
	Markdown    string    `json:"markdown,omitempty"`
	Source      string    `json:"source"`
	ExtractedAt time.Time `json:"extractedAt"`
}

// Text renders the article as "# title\n\nbody", the form sent to translators.
func (a *Article) Text() string {
	if a.Title == "" {
		return a.Body
	}
	return fmt.Sprintf("# %s\n\n%s", a.Title, a.Body)
}

// Extractor fetches a page and returns its main content.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (*Article, error)
	Name() string
}

// NormalizeURL trims s and adds https:// when no scheme is given.
func NormalizeURL(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	return s
}

// IsValidURL reports whether s is an absolute http or https URL with a host.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Chain tries each extractor in order and returns the first success.
type Chain []Extractor

// Name lists the chained extractors.
func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, e := range c {
		names[i] = e.Name()
	}
	return strings.Join(names, "+")
}

// Extract returns the first extractor's article, or all errors joined.
func (c Chain) Extract(ctx context.Context, pageURL string) (*Article, error) {
	if !IsValidURL(pageURL) {
		return nil, ErrInvalidURL
	}

	var errs []error
	for _, e := range c {
		article, err := e.Extract(ctx, pageURL)
		if err == nil {
			return article, nil
		}
		log.Warn().Err(err).Str("extractor", e.Name()).Str("url", pageURL).Msg("content extraction failed")
		errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, errors.New("no content extractor configured")
	}
	return nil, errors.Join(errs...)
}
