package migrations

import (
	"embed"
	"fmt"
	"path"
	"sort"

	"github.com/goran-ethernal/ChainExporter/internal/db"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// ForDialect returns the embedded migrations for the given sql-migrate dialect,
// ordered by file name.
func ForDialect(dialect string) ([]db.Migration, error) {
	var dir string
	switch dialect {
	case db.DialectSQLite:
		dir = "sqlite"
	case db.DialectPostgres:
		dir = "postgres"
	default:
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}

	entries, err := files.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s migrations: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	migrations := make([]db.Migration, 0, len(entries))
	for _, e := range entries {
		sql, err := files.ReadFile(path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", e.Name(), err)
		}

		migrations = append(migrations, db.Migration{ID: e.Name(), SQL: string(sql)})
	}

	return migrations, nil
}
