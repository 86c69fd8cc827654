package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/checkmark"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of checkmark",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "checkmark version %s\n", strings.TrimSpace(checkmark.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
