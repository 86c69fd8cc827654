package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/checkmark"
	"github.com/aretw0/checkmark/internal/presentation/tui"
	"github.com/aretw0/checkmark/pkg/adapters/file"
	httpAdapter "github.com/aretw0/checkmark/pkg/adapters/http"
	"github.com/aretw0/checkmark/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve [catalog]",
	Short: "Start the HTTP tracker server",
	Long: `Serves one tracker session over a JSON API, with server-sent events and
Prometheus metrics. With --memory-file the tracker follows a RAM dump written by
an emulator script. SIGHUP reloads the catalog and keeps the session state.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, err := openBackend()
		if err != nil {
			return err
		}
		defer b.close()
		mgr := b.manager()

		metrics := observability.NewMetrics()
		hooks := observability.Merge(metrics.Hooks(), observability.LoggingHooks(logger))
		tr, err := openTracker(ctx, catalogPath(args), sessionID, b, mgr, hooks)
		if err != nil {
			return err
		}

		if cfg.MemoryFile != "" {
			watcher := file.NewMemoryWatcher(cfg.MemoryFile, file.WithLogger(logger))
			if _, err := tr.Attach(ctx, watcher); err != nil {
				return err
			}
			logger.Info("following memory dump", "path", cfg.MemoryFile)
		}

		go reloadOnHangup(ctx, tr)

		srv := &http.Server{
			Addr: cfg.Listen,
			Handler: httpAdapter.NewHandler(tr,
				httpAdapter.WithSessionManager(mgr),
				httpAdapter.WithMetrics(metrics),
				httpAdapter.WithVersion(checkmark.Version),
				httpAdapter.WithLogger(logger),
			),
		}

		if tui.IsTerminal(os.Stderr) {
			tui.PrintBanner(os.Stderr)
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting checkmark server", "address", srv.Addr, "session", tr.ID(), "catalog", tr.CatalogName())
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
		case <-ctx.Done():
			logger.Info("shutdown signal received")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				_ = srv.Close()
			}
			if tr.Unsaved() {
				if _, err := tr.Save(shutdownCtx); err != nil {
					return fmt.Errorf("failed to save session on exit: %w", err)
				}
				logger.Info("session saved", "session", tr.ID())
			}
			logger.Info("checkmark server stopped gracefully")
		}
		return nil
	},
}

func reloadOnHangup(ctx context.Context, tr *checkmark.Tracker) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := tr.Reload(ctx); err != nil {
				logger.Error("catalog reload failed", "err", err)
				continue
			}
			logger.Info("catalog reloaded", "catalog", tr.CatalogName())
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("session", "default", "Session to serve")
	serveCmd.Flags().StringP("listen", "l", ":8080", "Address to listen on")
	serveCmd.Flags().String("memory-file", "", "RAM dump file to follow")

	for key, flag := range map[string]string{"listen": "listen", "memory_file": "memory-file"} {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
}
