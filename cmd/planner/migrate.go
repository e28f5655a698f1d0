package main

import (
	"github.com/spf13/cobra"

	"trame-planner/internal/migrations"
	database "trame-planner/pkg"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply database migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		command := "up"
		if len(args) == 1 {
			command = args[0]
		}

		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := database.NewPostgres(cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		log.Info("running migrations", "command", command)
		return migrations.Run(db.DB, command)
	},
}
