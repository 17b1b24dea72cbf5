// Package migrate applies embedded goose migrations to SQL stores.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

// DefaultTable is the table goose records applied migrations in.
const DefaultTable = "guildkeeper_migrations"

var (
	ErrSetDialect      = errors.New("migrate: failed to set dialect")
	ErrApplyMigrations = errors.New("migrate: failed to apply migrations")
)

// goose keeps its settings in package globals.
var mu sync.Mutex

// Up applies every pending migration found at the root of migrations.
func Up(ctx context.Context, db *sql.DB, dialect string, migrations fs.FS, log *slog.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	if log == nil {
		log = slog.Default()
	}

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(&gooseLoggerAdapter{log})
	goose.SetTableName(DefaultTable)

	if err := goose.SetDialect(dialect); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	return nil
}

type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	g.log.Debug(fmt.Sprintf(format, args...))
}

func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	// goose returns the error as well; never exit from here.
	g.log.Error(fmt.Sprintf(format, args...))
}
