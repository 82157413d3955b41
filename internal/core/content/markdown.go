package content

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New().Parser()

// ParseMarkdown splits a reader-mode markdown document into title and body.
// The title is the first level-one heading and the body is everything after
// it. Without such a heading the first non-empty line is the title.
func ParseMarkdown(markdown string) (title, body string) {
	source := []byte(strings.TrimSpace(markdown))
	if len(source) == 0 {
		return "", ""
	}

	doc := markdownParser.Parse(gtext.NewReader(source))

	var heading *ast.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 && h.Lines().Len() > 0 {
			heading = h
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if heading != nil {
		lines := heading.Lines()
		title = strings.TrimSpace(string(lines.Value(source)))

		end := lines.At(lines.Len() - 1).Stop
		if nl := bytes.IndexByte(source[end:], '\n'); nl >= 0 {
			body = string(source[end+nl+1:])
		}
		// setext underline
		if first, rest, _ := strings.Cut(body, "\n"); isUnderline(first) {
			body = rest
		}
		return title, strings.TrimSpace(body)
	}

	first, rest, _ := strings.Cut(string(source), "\n")
	title = strings.TrimSpace(first)
	title = strings.TrimSpace(strings.TrimPrefix(title, "Title:"))
	return title, strings.TrimSpace(rest)
}

func isUnderline(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && strings.Trim(line, "=") == ""
}
