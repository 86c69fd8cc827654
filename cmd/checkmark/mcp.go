package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/checkmark"
	"github.com/aretw0/checkmark/pkg/adapters/mcp"
	"github.com/aretw0/checkmark/pkg/observability"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [catalog]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes a tracker session as MCP tools, so assistants can list locations,
collect sections, set items and undo.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		sessionID, _ := cmd.Flags().GetString("session")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, err := openBackend()
		if err != nil {
			return err
		}
		defer b.close()

		tr, err := openTracker(ctx, catalogPath(args), sessionID, b, b.manager(), observability.LoggingHooks(logger))
		if err != nil {
			return err
		}
		defer func() {
			if !tr.Unsaved() {
				return
			}
			if _, err := tr.Save(context.Background()); err != nil {
				logger.Error("failed to save session on exit", "err", err)
			}
		}()

		srv := mcp.NewServer(tr, checkmark.Version, logger)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("starting checkmark MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting checkmark MCP server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		}
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().String("session", "default", "Session to serve")
}
