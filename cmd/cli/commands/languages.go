package commands

import (
	"fmt"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/language"
	"github.com/spf13/cobra"
)

var (
	languageQuery string
	popularOnly   bool
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		langs := language.All
		switch {
		case popularOnly:
			langs = language.Popular()
		case languageQuery != "":
			langs = language.Search(languageQuery)
		}

		if jsonOutput {
			return printJSON(langs)
		}
		for _, l := range langs {
			fmt.Printf("%-8s %s ", l.Code, l.Name)
			mutedColor.Printf("(%s)\n", l.NameEn)
		}
		return nil
	},
}

func init() {
	languagesCmd.Flags().StringVarP(&languageQuery, "query", "q", "", "filter by code or name")
	languagesCmd.Flags().BoolVarP(&popularOnly, "popular", "p", false, "only popular languages")
	rootCmd.AddCommand(languagesCmd)
}
