// Package chunk splits long text into paragraph-aligned pieces that fit a
// provider's request size limit.
package chunk

import (
	"strings"
	"unicode/utf8"
)

// Delimiter separates paragraphs. Chunks are joined back with the same value.
const Delimiter = "\n\n"

// Split breaks text into ordered chunks of at most maxChunkSize characters,
// cutting only at paragraph boundaries.
//
// A paragraph longer than maxChunkSize becomes its own chunk and is never cut.
// Blank paragraphs never start a chunk: they stay attached to the chunk being
// built, so strings.Join(Split(text, n), Delimiter) always equals text and no
// chunk is whitespace only unless the whole input is. The bound therefore
// applies to a chunk's text, strings.TrimSpace(chunk); a run of blank
// paragraphs may carry its raw length past maxChunkSize.
// Length is counted in runes.
func Split(text string, maxChunkSize int) []string {
	chunks := []string{}
	if text == "" {
		return chunks
	}

	var buf strings.Builder
	bufLen := 0
	started := false
	hasText := false
	delimLen := utf8.RuneCountInString(Delimiter)

	for _, para := range strings.Split(text, Delimiter) {
		paraLen := utf8.RuneCountInString(para)
		blank := strings.TrimSpace(para) == ""

		if hasText && !blank && bufLen+delimLen+paraLen > maxChunkSize {
			chunks = append(chunks, buf.String())
			buf.Reset()
			buf.WriteString(para)
			bufLen = paraLen
			continue
		}

		if started {
			buf.WriteString(Delimiter)
			bufLen += delimLen
		}
		buf.WriteString(para)
		bufLen += paraLen
		started = true
		hasText = hasText || !blank
	}

	if started {
		chunks = append(chunks, buf.String())
	}

	return chunks
}

// Join concatenates chunks with Delimiter.
func Join(chunks []string) string {
	return strings.Join(chunks, Delimiter)
}

// Len returns the length of s in runes, the unit Split measures with.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}
