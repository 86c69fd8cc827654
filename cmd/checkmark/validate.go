package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/checkmark"
	"github.com/aretw0/checkmark/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [catalog]",
	Short: "Check the catalog for consistency",
	Long: `Validates the catalog structure, walks the node graph from its entry nodes and
reports unreachable nodes, unused definitions and empty locations. The catalog
is then compiled to catch wiring errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := catalogPath(args)

		loader, err := checkmark.NewLoader(path)
		if err != nil {
			return err
		}
		cat, err := loader.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		if err := validator.ValidateGraph(cat); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		if _, err := checkmark.New(ctx, cat, checkmark.WithLogger(logger)); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Catalog %q is valid! ✅\n", cat.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
