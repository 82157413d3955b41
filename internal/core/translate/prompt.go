package translate

import (
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/language"
)

// buildSystemPrompt renders the instructions shared by the LLM translators.
func buildSystemPrompt(opts Options) string {
	target := language.EnglishName(opts.TargetLang)

	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional translator. Translate the user's text into %s accurately and fluently.\n\n", target)
	b.WriteString("Requirements:\n")
	if opts.TargetLang == "zh-TW" {
		b.WriteString("1. Use Traditional Chinese as written in Taiwan\n")
	} else {
		fmt.Fprintf(&b, "1. Write natural, idiomatic %s\n", target)
	}
	b.WriteString("2. Keep the tone and style of the original\n")
	b.WriteString("3. Keep proper nouns in their original form or use their common translation\n")
	b.WriteString("4. Use industry-standard terminology for technical terms\n")
	if opts.PreserveFormatting {
		b.WriteString("5. Preserve the paragraph structure and formatting (headings, lists, quotes)\n")
	}
	if opts.SourceLang != "" && opts.SourceLang != language.Auto {
		fmt.Fprintf(&b, "\nThe source text is in %s.\n", language.EnglishName(opts.SourceLang))
	}
	if opts.CustomInstructions != "" {
		fmt.Fprintf(&b, "\nAdditional instructions:\n%s\n", opts.CustomInstructions)
	}
	b.WriteString("\nOutput only the translation, without explanations or notes.")

	return b.String()
}
