package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var files embed.FS

const dir = "sql"

func setup() error {
	goose.SetBaseFS(files)
	return goose.SetDialect("postgres")
}

// Run applies a goose command (up, down, status) with the embedded migrations.
func Run(db *sql.DB, command string) error {
	if err := setup(); err != nil {
		return err
	}
	switch command {
	case "up":
		return goose.Up(db, dir)
	case "down":
		return goose.Down(db, dir)
	case "status":
		return goose.Status(db, dir)
	}
	return fmt.Errorf("unknown migrate command %q", command)
}
