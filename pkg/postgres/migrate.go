package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source driver
)

// SchemaVersion is the migration state left behind by RunMigrations.
type SchemaVersion struct {
	Version uint
	Dirty   bool
}

// RunMigrations applies every pending migration from sourceURL
// (e.g. "file://migrations") and reports the resulting schema version.
// An up-to-date schema is not an error. A dirty schema is: a previous run
// failed half way and needs manual repair before the loan tables can be
// trusted.
func RunMigrations(dsn, sourceURL string) (SchemaVersion, error) {
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return SchemaVersion{}, fmt.Errorf("postgres: run migrations up: %w", err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return SchemaVersion{}, nil
	case err != nil:
		return SchemaVersion{}, fmt.Errorf("postgres: read schema version: %w", err)
	case dirty:
		return SchemaVersion{Version: version, Dirty: true}, fmt.Errorf("postgres: schema version %d is dirty", version)
	}
	return SchemaVersion{Version: version}, nil
}
