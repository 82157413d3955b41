package commands

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/app"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/pipeline"
	"github.com/spf13/cobra"
)

var (
	resultMode string
	ocrFlags   *translateFlags
)

var ocrCmd = &cobra.Command{
	Use:   "ocr <image>...",
	Short: "Extract (and optionally translate) text from screenshots",
	Long: `Extract text from one or more images. Arguments are local files or
http(s) URLs. Use --method to translate the extracted text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOCR,
}

func init() {
	ocrFlags = addTranslateFlags(ocrCmd, "none")
	ocrCmd.Flags().StringVar(&resultMode, "mode", "merged", "result mode (merged, segmented)")
	rootCmd.AddCommand(ocrCmd)
}

func runOCR(cmd *cobra.Command, args []string) error {
	images := make([]string, 0, len(args))
	for _, arg := range args {
		img, err := loadImage(arg)
		if err != nil {
			return err
		}
		images = append(images, img)
	}

	opts := ocrFlags.options()
	opts.ResultMode = resultMode

	return withApp(cmd.Context(), func(a *app.App) error {
		resp, err := a.Pipeline.RunOCR(cmd.Context(), pipeline.OCRRequest{Images: images, Options: opts})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(resp)
		}

		for i, seg := range resp.Segments {
			if len(resp.Segments) > 1 {
				headerColor.Printf("── %s %d ──\n", pageLabel(resp.Stats.ResultMode), i+1)
			}
			fmt.Println(seg)
		}
		if resp.Stats.TranslationError != "" {
			warnColor.Printf("translation failed, showing original text: %s\n", resp.Stats.TranslationError)
		}
		mutedColor.Printf("%s · %d image(s) · %d chars · %dms\n",
			resp.Stats.OCRProvider, resp.Stats.ImageCount, resp.Stats.OriginalLength, resp.Stats.DurationMS)
		return nil
	})
}

func pageLabel(mode string) string {
	if mode == "segmented" {
		return "image"
	}
	return "part"
}

// loadImage turns a file path into a data URL; URLs pass through.
func loadImage(arg string) (string, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") || strings.HasPrefix(arg, "data:") {
		return arg, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	mime := http.DetectContentType(data)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
