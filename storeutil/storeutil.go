package storeutil

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" /*nolint*/
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v4/stdlib" /*nolint*/
)

// MigrateAndConnectToDB applies the migrations found at path in fsys and
// returns a pgx connection pool to postgresURI.
func MigrateAndConnectToDB(postgresURI string, fsys fs.FS, path string) (*sql.DB, error) {
	// To avoid dealing with time zone issues, we just enforce UTC timezone
	if !strings.Contains(postgresURI, "timezone=UTC") {
		return nil, errors.New("timezone=UTC is required in postgres URI")
	}
	d, err := iofs.New(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("opening migrations: %s", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", d, postgresURI)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %s", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return nil, fmt.Errorf("applying migrations: %s", err)
	}
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		return nil, fmt.Errorf("closing migrations source: %s", srcErr)
	}
	if dbErr != nil {
		return nil, fmt.Errorf("closing migrations database: %s", dbErr)
	}
	conn, err := sql.Open("pgx", postgresURI)
	if err != nil {
		return nil, err
	}

	return conn, nil
}
