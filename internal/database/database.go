// Package database wraps the sqlite database storing sweep history.
package database

import (
	"database/sql"

	"github.com/apex/log"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/sqlite"

	// Used by the upper/db sqlite adapter.
	_ "github.com/mattn/go-sqlite3"
)

var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1_create_sweeps_findings_optouts",
			Up: []string{
				`CREATE TABLE sweeps (
					sweep_id INTEGER PRIMARY KEY AUTOINCREMENT,
					uuid VARCHAR(64) NOT NULL,
					name VARCHAR(255) NOT NULL,
					selection VARCHAR(255) NOT NULL,
					query VARCHAR(255) NOT NULL,
					start_time TIMESTAMP NOT NULL,
					runtime REAL NOT NULL DEFAULT 0,
					is_done TINYINT(1) NOT NULL DEFAULT 0
				);`,
				`CREATE TABLE findings (
					finding_id INTEGER PRIMARY KEY AUTOINCREMENT,
					sweep_id INTEGER NOT NULL,
					site_key VARCHAR(64) NOT NULL,
					url TEXT NOT NULL,
					is_search_engine TINYINT(1) NOT NULL DEFAULT 0,
					opened TINYINT(1) NOT NULL DEFAULT 0,
					state VARCHAR(16) NOT NULL,
					start_time TIMESTAMP NOT NULL,
					runtime REAL NOT NULL DEFAULT 0,
					candidates JSON,
					candidate_count INTEGER NOT NULL DEFAULT 0,
					failure VARCHAR(255),
					FOREIGN KEY(sweep_id) REFERENCES sweeps(sweep_id) ON DELETE CASCADE
				);`,
				`CREATE TABLE optouts (
					optout_id INTEGER PRIMARY KEY AUTOINCREMENT,
					site_key VARCHAR(64) NOT NULL UNIQUE,
					url TEXT NOT NULL,
					status VARCHAR(16) NOT NULL,
					updated_at TIMESTAMP NOT NULL
				);`,
				`CREATE INDEX findings_sweep_id_idx ON findings(sweep_id);`,
			},
		},
	},
}

// RunMigrations brings the database schema up to date.
func RunMigrations(sess db.Session) error {
	driver, ok := sess.Driver().(*sql.DB)
	if !ok {
		return errors.New("unexpected database driver")
	}
	n, err := migrate.Exec(driver, "sqlite3", migrations, migrate.Up)
	if err != nil {
		return err
	}
	log.Debugf("performed %d migrations", n)
	return nil
}

// Open the database at the given path, creating it and migrating the
// schema as needed.
func Open(path string) (*Database, error) {
	settings := sqlite.ConnectionURL{
		Database: path,
		Options: map[string]string{
			"_foreign_keys": "1",
		},
	}
	sess, err := sqlite.Open(settings)
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite database")
	}
	if err := RunMigrations(sess); err != nil {
		sess.Close()
		return nil, errors.Wrap(err, "migrating database")
	}
	return &Database{sess: sess}, nil
}

// Database is a database that stores sweep history.
type Database struct {
	sess db.Session
}

// Session returns the underlying database session.
func (d *Database) Session() db.Session {
	return d.sess
}

// Close closes the database session.
func (d *Database) Close() error {
	return d.sess.Close()
}
