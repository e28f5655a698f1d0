package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"trame-planner/internal/logger"
	"trame-planner/internal/models/config"
)

func NewPostgres(cfg *config.Config, log *logger.Logger) (*sqlx.DB, error) {
	dbCfg := cfg.Database

	db, err := sqlx.Connect("postgres", dbCfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	log.Info("connected to PostgreSQL", "host", dbCfg.Host, "port", dbCfg.Port, "db", dbCfg.Name)
	return db, nil
}
