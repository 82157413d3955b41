package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/app"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/pipeline"
	"github.com/spf13/cobra"
)

var (
	translateURL string
	textFlags    *translateFlags
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text or a web page",
	Long: `Translate the given text, text read from stdin ("-"), or the main
content of a web page with --url.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTranslate,
}

func init() {
	textFlags = addTranslateFlags(translateCmd, "")
	translateCmd.Flags().StringVarP(&translateURL, "url", "u", "", "web page to translate")
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	req := pipeline.TranslateRequest{URL: translateURL, Options: textFlags.options()}

	if translateURL == "" {
		if len(args) == 0 {
			return fmt.Errorf("provide text, \"-\" for stdin, or --url")
		}
		text := args[0]
		if text == "-" {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = string(raw)
		}
		req.Content = text
	}

	return withApp(cmd.Context(), func(a *app.App) error {
		resp, err := a.Pipeline.RunTranslate(cmd.Context(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(resp)
		}

		if resp.ExtractedTitle != nil {
			headerColor.Println(*resp.ExtractedTitle)
		}
		fmt.Println(resp.Text)
		if resp.Stats.TranslationError != "" {
			warnColor.Printf("translation failed, showing original text: %s\n", resp.Stats.TranslationError)
		}
		mutedColor.Printf("%s · %d → %d chars · %dms\n",
			resp.Stats.TranslationMethod, resp.Stats.OriginalLength, resp.Stats.TranslatedLength, resp.Stats.DurationMS)
		return nil
	})
}
