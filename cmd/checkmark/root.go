package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/checkmark/internal/config"
	"github.com/aretw0/checkmark/internal/logging"
)

var (
	cfgFile string
	cfg     config.Config
	logger  = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "checkmark",
	Short: "Checkmark is an accessibility tracker for randomized games",
	Long: `Checkmark loads a location catalog, follows collected items, modes and game
memory, and reports which locations are reachable and how confidently.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default is ./checkmark.yaml)")
	flags.String("catalog", "catalog.yaml", "Catalog file (.yaml/.json) or loam document directory")
	flags.String("store", "memory", "Snapshot store: memory, file or redis")
	flags.String("store-dir", ".checkmark", "Directory for the file store")
	flags.String("redis-addr", "localhost:6379", "Redis address for the redis store")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.Int("history-limit", 100, "Maximum number of undoable commands")

	bindFlag("catalog", "catalog")
	bindFlag("store", "store")
	bindFlag("store_dir", "store-dir")
	bindFlag("redis_addr", "redis-addr")
	bindFlag("log_level", "log-level")
	bindFlag("history_limit", "history-limit")
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	config.Setup(v, cfgFile)
	if err := config.Read(v); err != nil {
		return err
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = logging.New(level)
	slog.SetDefault(logger)
	return nil
}
