package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mindcare-bot/internal/lexicon"
)

func newLexiconCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Inspect and validate lexicon overlays",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <file>",
		Short: "Validate a lexicon overlay file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lex, err := lexicon.LoadOverlay(args[0])
			if err != nil {
				return fmt.Errorf("invalid overlay %s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s is valid\n", args[0])
			fmt.Fprintf(out, "  crisis phrases: %d\n", len(lex.CrisisPhrases()))
			fmt.Fprintf(out, "  pattern categories: %d\n", len(lex.Patterns()))
			for _, cat := range lex.Categories() {
				fmt.Fprintf(out, "  %-28s %d responses\n", cat, len(lex.Bank(cat)))
			}
			return nil
		},
	})
	return cmd
}
