package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"trame-planner/internal/notify"
	"trame-planner/internal/progress"
	"trame-planner/internal/repository/calendar"
	"trame-planner/internal/repository/conflict"
	"trame-planner/internal/repository/course"
	"trame-planner/internal/repository/generation"
	"trame-planner/internal/repository/group"
	"trame-planner/internal/repository/tramme"
	"trame-planner/internal/repository/unit"
	"trame-planner/internal/service/duplication"
	database "trame-planner/pkg"
)

var duplicateTrammeID int64

var duplicateCmd = &cobra.Command{
	Use:   "duplicate",
	Short: "Duplicate the model week of a trame over its date range",
	Long: `Runs one duplication in the foreground and logs progress every second.
Ctrl+C cancels the run; the layer in progress is rolled back.`,
	RunE: runDuplicate,
}

func init() {
	duplicateCmd.Flags().Int64Var(&duplicateTrammeID, "tramme", 0, "trame id")
	_ = duplicateCmd.MarkFlagRequired("tramme")
}

func runDuplicate(cmd *cobra.Command, args []string) error {
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

	notifier, err := notify.NewNotifier(cfg, log)
	if err != nil {
		return err
	}

	svc := duplication.NewDuplicationService(
		tramme.NewTrammeRepository(db),
		unit.NewTeachingUnitRepository(db),
		group.NewGroupRepository(db),
		course.NewCourseRepository(db),
		calendar.NewCalendarRepository(db),
		conflict.NewConflictRepository(db),
		generation.NewGenerationStore(db),
		progress.NewRegistry(cfg.Duplication.JobRetention),
		notifier,
		log,
		duplication.Options{ModelWeekStart: cfg.Duplication.ModelWeekStart},
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var start time.Time
	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	g.Go(func() error {
		defer close(done)
		var err error
		start, err = svc.Run(gctx, duplicateTrammeID)
		if err != nil {
			return fmt.Errorf("duplicate tramme %d: %w", duplicateTrammeID, err)
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				snap := svc.Progress(duplicateTrammeID)
				log.Info("progress",
					"state", snap.State.String(),
					"layer", snap.CurrentLayerName,
					"layer_pct", snap.PercentageLayer,
					"total_pct", snap.PercentageTotal,
				)
			}
		}
	})
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tramme %d duplicated from %s\n", duplicateTrammeID, start.Format(time.DateOnly))
	return nil
}
