package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trame-planner/internal/csvio"
	"trame-planner/internal/repository/calendar"
	"trame-planner/internal/repository/tramme"
	calendar_service "trame-planner/internal/service/calendar"
	database "trame-planner/pkg"
)

var (
	importTrammeID   int64
	importBlocked    string
	importEvents     string
	importSemicolons bool
)

var importCalendarCmd = &cobra.Command{
	Use:   "import-calendar",
	Short: "Load blocked dates and events from CSV files",
	Long: `Imports calendar exceptions for a trame.

  --blocked  file with a "date,reason" header, dates as YYYY-MM-DD
  --events   file with a "name,date,start,end" header, times as HH:MM`,
	RunE: runImportCalendar,
}

func init() {
	f := importCalendarCmd.Flags()
	f.Int64Var(&importTrammeID, "tramme", 0, "trame id")
	f.StringVar(&importBlocked, "blocked", "", "blocked dates CSV file")
	f.StringVar(&importEvents, "events", "", "events CSV file")
	f.BoolVar(&importSemicolons, "semicolon", false, "files use ';' as separator")
	_ = importCalendarCmd.MarkFlagRequired("tramme")
}

func runImportCalendar(cmd *cobra.Command, args []string) error {
	if importBlocked == "" && importEvents == "" {
		return errors.New("nothing to import: pass --blocked and/or --events")
	}
	if importSemicolons {
		csvio.SetDelimiter(';')
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

	svc := calendar_service.NewCalendarService(tramme.NewTrammeRepository(db), calendar.NewCalendarRepository(db))
	ctx := cmd.Context()

	if importBlocked != "" {
		f, err := os.Open(importBlocked)
		if err != nil {
			return err
		}
		defer f.Close()
		blocked, err := csvio.LoadBlockedDates(f)
		if err != nil {
			return err
		}
		n, err := svc.ImportBlockedDates(ctx, importTrammeID, blocked)
		if err != nil {
			return err
		}
		log.Info("blocked dates imported", "tramme_id", importTrammeID, "count", n)
	}

	if importEvents != "" {
		f, err := os.Open(importEvents)
		if err != nil {
			return err
		}
		defer f.Close()
		events, err := csvio.LoadEvents(f)
		if err != nil {
			return err
		}
		n, err := svc.ImportEvents(ctx, importTrammeID, events)
		if err != nil {
			return err
		}
		log.Info("events imported", "tramme_id", importTrammeID, "count", n)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "calendar imported")
	return nil
}
