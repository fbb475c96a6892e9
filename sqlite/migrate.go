package sqlite

import (
	"database/sql"
	"errors"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// MigrateDatabase applies all up migrations found in migrationsFS. The
// database handle is left open.
func MigrateDatabase(db *sql.DB, migrationsFS fs.FS) error {
	sd, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return err
	}
	defer sd.Close()

	// The driver is not closed since closing it also closes db.
	driver, err := migratesqlite.WithInstance(db, new(migratesqlite.Config))
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", sd, "sqlite", driver)
	if err != nil {
		return err
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
