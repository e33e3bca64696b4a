package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/goran-ethernal/ChainExporter/internal/logger"
	migrate "github.com/rubenv/sql-migrate"
)

const (
	UpDownSeparator     = "-- +migrate Up"
	downMarker          = "-- +migrate Down"
	NoLimitMigrations   = 0 // indicate that there is no limit on the number of migrations to run
	migrationDirections = 2

	// DialectSQLite and DialectPostgres name the sql-migrate dialects.
	DialectSQLite   = "sqlite3"
	DialectPostgres = "postgres"
)

type Migration struct {
	ID  string
	SQL string
}

// RunMigrationsDB applies every pending up migration.
func RunMigrationsDB(log *logger.Logger, db *sql.DB, dialect string, migrations []Migration) error {
	return RunMigrationsDBExtended(log, db, dialect, migrations, migrate.Up, NoLimitMigrations)
}

// RunMigrationsDBExtended is an extended version of RunMigrationsDB that allows
// dir: can be migrate.Up or migrate.Down
// maxMigrations: Will apply at most `max` migrations. Pass 0 for no limit
func RunMigrationsDBExtended(
	log *logger.Logger,
	db *sql.DB,
	dialect string,
	migrations []Migration,
	dir migrate.MigrationDirection,
	maxMigrations int,
) error {
	source, err := memorySource(migrations)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(source.Migrations))
	for _, m := range source.Migrations {
		ids = append(ids, m.Id)
	}
	list := strings.Join(ids, ", ")

	log.Debugf("running %s migrations: (max %d/%d) migrations: %s", dialect, maxMigrations, len(ids), list)

	n, err := migrate.ExecMax(db, dialect, source, dir, maxMigrations)
	if err != nil {
		return fmt.Errorf("error executing migration (max %d/%d) migrations: %s . Err: %w",
			maxMigrations, len(ids), list, err)
	}

	log.Infof("successfully ran %d migrations from migrations: %s", n, list)

	return nil
}

// memorySource splits each migration into its down and up sections.
// A migration file holds the down section first, then the up separator.
func memorySource(migrations []Migration) (*migrate.MemoryMigrationSource, error) {
	source := &migrate.MemoryMigrationSource{Migrations: make([]*migrate.Migration, 0, len(migrations))}

	for _, m := range migrations {
		parts := strings.Split(m.SQL, UpDownSeparator)
		if len(parts) < migrationDirections {
			return nil, fmt.Errorf("migration %s missing '%s' separator", m.ID, UpDownSeparator)
		}

		downSQL := parts[0]
		if idx := strings.Index(downSQL, downMarker); idx != -1 {
			downSQL = downSQL[idx+len(downMarker):]
		}

		source.Migrations = append(source.Migrations, &migrate.Migration{
			Id:   m.ID,
			Up:   []string{strings.TrimSpace(parts[1])},
			Down: []string{strings.TrimSpace(downSQL)},
		})
	}

	return source, nil
}
