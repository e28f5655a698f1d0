package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trame-planner/internal/logger"
	"trame-planner/internal/models/config"
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Trame schedule duplication engine",
	Long: `planner projects the model week of a trame onto its whole date range.

Available subcommands:
  serve            - Run the HTTP API
  duplicate        - Run one duplication synchronously
  import-calendar  - Load blocked dates and events from CSV files
  migrate          - Apply database migrations`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, duplicateCmd, importCalendarCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the logger shared by every command.
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Environment)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
