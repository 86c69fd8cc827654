package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/checkmark/internal/presentation/graph"
	"github.com/aretw0/checkmark/pkg/domain"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [catalog]",
	Short: "Export the node graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the catalog's node graph. With --levels
each node is coloured by its accessibility for the given session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sessionID, _ := cmd.Flags().GetString("session")
		levels, _ := cmd.Flags().GetBool("levels")
		highlight, _ := cmd.Flags().GetString("highlight")

		b, err := openBackend()
		if err != nil {
			return err
		}
		defer b.close()

		tr, err := openTracker(ctx, catalogPath(args), sessionID, b, b.manager(), domain.LifecycleHooks{})
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if levels || highlight != "" {
			overlay = &graph.GraphOverlay{ShowLevels: levels, Highlight: highlight}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(tr.Nodes(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Session whose state colours the graph")
	graphCmd.Flags().Bool("levels", false, "Colour nodes by accessibility")
	graphCmd.Flags().String("highlight", "", "Node to highlight")
}
