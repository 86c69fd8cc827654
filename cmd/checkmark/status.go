package main

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/aretw0/checkmark/internal/presentation/tui"
	"github.com/aretw0/checkmark/pkg/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status [catalog]",
	Short: "Show the accessibility of every location",
	Long: `Prints one row per location with its accessibility and remaining items.
Use --markdown for a full per-section report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sessionID, _ := cmd.Flags().GetString("session")
		markdown, _ := cmd.Flags().GetBool("markdown")
		asJSON, _ := cmd.Flags().GetBool("json")

		b, err := openBackend()
		if err != nil {
			return err
		}
		defer b.close()

		tr, err := openTracker(ctx, catalogPath(args), sessionID, b, b.manager(), domain.LifecycleHooks{})
		if err != nil {
			return err
		}
		locs := tr.Locations()
		out := cmd.OutOrStdout()

		switch {
		case asJSON:
			return printJSON(out, locs)
		case markdown:
			render, err := tui.NewRenderer(os.Stdout)
			if err != nil {
				return err
			}
			text, err := render(tui.Report(tr.CatalogName(), locs))
			if err != nil {
				return err
			}
			fmt.Fprint(out, text)
			return nil
		}

		profile := termenv.Ascii
		if tui.IsTerminal(os.Stdout) {
			profile = termenv.EnvColorProfile()
		}
		return tui.PrintStatus(out, locs, profile)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().String("session", "", "Session to restore before reporting")
	statusCmd.Flags().Bool("markdown", false, "Render a markdown report")
	statusCmd.Flags().Bool("json", false, "Print location statuses as JSON")
}
