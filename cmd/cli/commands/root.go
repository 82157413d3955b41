package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/app"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/pipeline"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/shared/config"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/shared/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	verbose    bool
	noColor    bool
	jsonOutput bool
)

// translateFlags are the translation options shared by ocr and translate.
type translateFlags struct {
	method             string
	sourceLang         string
	targetLang         string
	customInstructions string
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	mutedColor  = color.New(color.FgHiBlack)
	warnColor   = color.New(color.FgYellow)
	errorColor  = color.New(color.FgRed, color.Bold)
)

var rootCmd = &cobra.Command{
	Use:   "st",
	Short: "Screenshot translator - OCR and translation from the terminal",
	Long: `Extract text from screenshots and translate text or web pages using the
same providers and configuration as the API server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
		level := "warn"
		if verbose {
			level = "debug"
		}
		utils.InitLogger(level, "console")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print the raw JSON response")
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		errorColor.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

func addTranslateFlags(cmd *cobra.Command, defaultMethod string) *translateFlags {
	f := &translateFlags{}
	cmd.Flags().StringVarP(&f.method, "method", "m", defaultMethod, "translation method (none, google, google_free, openai, claude)")
	cmd.Flags().StringVarP(&f.sourceLang, "from", "f", "auto", "source language")
	cmd.Flags().StringVarP(&f.targetLang, "to", "t", pipeline.DefaultTargetLanguage, "target language")
	cmd.Flags().StringVar(&f.customInstructions, "instructions", "", "extra instructions for LLM translators")
	return f
}

func (f *translateFlags) options() pipeline.Options {
	return pipeline.Options{
		Translate:          f.method,
		SourceLanguage:     f.sourceLang,
		TargetLanguage:     f.targetLang,
		CustomInstructions: f.customInstructions,
	}
}

// withApp loads configuration and runs fn against a fully wired app.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
