package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/shared/httpclient"
	"golang.org/x/net/html"
)

// HTMLExtractor downloads the page itself and keeps headings, paragraphs,
// list items and quotes. It is the fallback when the reader service fails.
type HTMLExtractor struct {
	client *http.Client
}

// NewHTMLExtractor creates a direct-fetch extractor. The page URL comes from
// the caller, so a nil client defaults to one that only reaches public
// addresses.
func NewHTMLExtractor(client *http.Client) *HTMLExtractor {
	if client == nil {
		client = httpclient.New(httpclient.Config{PublicOnly: true})
	}
	return &HTMLExtractor{client: client}
}

func (h *HTMLExtractor) Name() string { return "html" }

// Extract fetches pageURL and converts its main content to markdown.
func (h *HTMLExtractor) Extract(ctx context.Context, pageURL string) (*Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; screenshot-translator)")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction failed: HTTP %d", resp.StatusCode)
	}

	article, err := ParseHTML(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, err
	}
	if article.Body == "" {
		return nil, fmt.Errorf("page has no readable content")
	}
	article.URL = pageURL
	article.Source = h.Name()
	article.ExtractedAt = time.Now().UTC()
	return article, nil
}

// ParseHTML reads a document and returns its title and markdown body. Content
// inside <article> or <main> is preferred over the whole <body>.
func ParseHTML(r io.Reader) (*Article, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	root := findElement(doc, "article")
	if root == nil {
		root = findElement(doc, "main")
	}
	if root == nil {
		root = findElement(doc, "body")
	}
	if root == nil {
		root = doc
	}

	var blocks []string
	collectBlocks(root, &blocks)

	title := ""
	if t := findElement(doc, "title"); t != nil {
		title = collapseSpace(textContent(t))
	}
	if len(blocks) > 0 && strings.HasPrefix(blocks[0], "# ") {
		title = strings.TrimPrefix(blocks[0], "# ")
		blocks = blocks[1:]
	}

	return &Article{Title: title, Body: strings.Join(blocks, "\n\n")}, nil
}

func shouldSkipElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "nav", "footer", "header", "aside", "form", "iframe", "svg":
		return true
	}
	return false
}

func collectBlocks(n *html.Node, blocks *[]string) {
	if n.Type == html.ElementNode {
		if shouldSkipElement(n.Data) {
			return
		}

		switch n.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if text := collapseSpace(textContent(n)); text != "" {
				level := int(n.Data[1] - '0')
				*blocks = append(*blocks, strings.Repeat("#", level)+" "+text)
			}
			return
		case "p":
			if text := collapseSpace(textContent(n)); text != "" {
				*blocks = append(*blocks, text)
			}
			return
		case "li":
			if text := collapseSpace(textContent(n)); text != "" {
				*blocks = append(*blocks, "- "+text)
			}
			return
		case "blockquote":
			if text := collapseSpace(textContent(n)); text != "" {
				*blocks = append(*blocks, "> "+text)
			}
			return
		case "pre":
			if text := strings.TrimSpace(textContent(n)); text != "" {
				*blocks = append(*blocks, "```\n"+text+"\n```")
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectBlocks(c, blocks)
	}
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && shouldSkipElement(n.Data) {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
