package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/matchme/internal/cli"
	"github.com/Veraticus/matchme/internal/model"
	"github.com/Veraticus/matchme/internal/tui/themes"
	"github.com/spf13/cobra"
)

// optionsOutput lists the values accepted by profile and catalog flags.
type optionsOutput struct {
	SkinTones  []model.SkinTone  `json:"skinTones"`
	Undertones []model.Undertone `json:"undertones"`
	Categories []model.Category  `json:"categories"`
}

func optionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List valid skin tones, undertones, and categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := optionsOutput{
				SkinTones:  model.SkinTones(),
				Undertones: model.Undertones(),
				Categories: model.Categories(),
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), opts)
			}

			var b strings.Builder
			b.WriteString(cli.FormatTitle("Options") + "\n")

			b.WriteString(cli.BoldStyle.Render("Skin tones") + "\n")
			for _, tone := range opts.SkinTones {
				fmt.Fprintf(&b, "  %s\n", tone)
			}

			b.WriteString("\n" + cli.BoldStyle.Render("Undertones") + "\n")
			for _, undertone := range opts.Undertones {
				fmt.Fprintf(&b, "  %s\n", undertone)
			}

			b.WriteString("\n" + cli.BoldStyle.Render("Categories") + "\n")
			for _, category := range opts.Categories {
				fmt.Fprintf(&b, "  %s %s\n", themes.GetCategoryIcon(category), category)
			}

			_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	}

	cmd.Flags().Bool("json", false, "Output JSON")

	return cmd
}
