package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"urlintel/internal/config"
	"urlintel/internal/log"
)

// NewRootCmd creates the root command. Every subcommand loads configuration
// and initializes the logger before it runs.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "urlintel",
		Short: "URL intelligence: security, performance, content, technology and WHOIS in one report",
		Long: `urlintel fetches a single URL and produces a heuristic report covering
security signals, performance timing, content summary, detected technologies
and domain registration data.

Configuration is read from an optional .env file, then the environment, then flags.`,
		Version:           getVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initRuntime,
	}

	cmd.PersistentFlags().String("config", ".env", "Path to an optional env file")
	cmd.PersistentFlags().String("env", "prod", "Environment (dev enables pprof and console logs)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().Duration("fetch-timeout", 10*time.Second, "Timeout for fetching the target URL")
	cmd.PersistentFlags().Duration("whois-timeout", 10*time.Second, "Timeout for the WHOIS lookup")
	cmd.PersistentFlags().Bool("block-private", true, "Refuse to fetch private and reserved network addresses")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func initRuntime(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return err
	}
	if err := log.InitLogger(cfg.LogLevel, cfg.IsDev()); err != nil {
		return err
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	defer log.Sync()

	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorError("Error:"), err)
		log.Sync()
		os.Exit(1)
	}
}
