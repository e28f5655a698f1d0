package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"trame-planner/internal/bot"
	"trame-planner/internal/logger"
	"trame-planner/internal/models/config"
	"trame-planner/internal/notify"
	"trame-planner/internal/progress"
	"trame-planner/internal/repository/budget"
	"trame-planner/internal/repository/calendar"
	"trame-planner/internal/repository/conflict"
	"trame-planner/internal/repository/course"
	"trame-planner/internal/repository/generation"
	"trame-planner/internal/repository/group"
	"trame-planner/internal/repository/tramme"
	"trame-planner/internal/repository/unit"
	budget_service "trame-planner/internal/service/budget"
	calendar_service "trame-planner/internal/service/calendar"
	"trame-planner/internal/service/duplication"
	"trame-planner/internal/web"
	database "trame-planner/pkg"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		app := fx.New(
			fx.Supply(cfg, log),
			fx.WithLogger(func(l *logger.Logger) fxevent.Logger {
				return &fxevent.ZapLogger{Logger: l.Desugar()}
			}),
			repositories(),
			services(),
			fx.Provide(web.NewHandler, newHTTPServer, bot.NewBot),
			fx.Invoke(func(*http.Server) {}, runBot),
		)
		app.Run()
		return app.Err()
	},
}

func repositories() fx.Option {
	return fx.Provide(
		newDatabase,
		tramme.NewTrammeRepository,
		unit.NewTeachingUnitRepository,
		group.NewGroupRepository,
		course.NewCourseRepository,
		calendar.NewCalendarRepository,
		conflict.NewConflictRepository,
		budget.NewHourBudgetRepository,
		generation.NewGenerationStore,
	)
}

func services() fx.Option {
	return fx.Provide(
		func(cfg *config.Config) *progress.Registry {
			return progress.NewRegistry(cfg.Duplication.JobRetention)
		},
		func(cfg *config.Config) duplication.Options {
			return duplication.Options{ModelWeekStart: cfg.Duplication.ModelWeekStart}
		},
		notify.NewNotifier,
		duplication.NewDuplicationService,
		calendar_service.NewCalendarService,
		budget_service.NewBudgetService,
	)
}

func newDatabase(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (*sqlx.DB, error) {
	db, err := database.NewPostgres(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return db.Close() },
	})
	return db, nil
}

func newHTTPServer(lc fx.Lifecycle, cfg *config.Config, h *web.Handler, log *logger.Logger) *http.Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", "addr", srv.Addr)
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
	return srv
}

// runBot polls Telegram updates for the lifetime of the app when a bot is configured.
func runBot(lc fx.Lifecycle, b *bot.Bot, log *logger.Logger) {
	if b == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := b.Start(ctx); err != nil {
					log.Error("telegram bot stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
