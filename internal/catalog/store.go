package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/franz/mishmash/internal/util"
)

const currentSchemaVersion = "1"

// Store is the catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path. The schema is
// not created here; see Init.
func Open(path string) (*Store, error) {
	// WAL and busy timeouts for reliability with a long-running monitor
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_timeout=5000&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for custom queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// SQLiteVersion returns the SQLite version string.
func SQLiteVersion() string {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return ""
	}
	defer db.Close()

	var version string
	if err := db.QueryRow("SELECT sqlite_version()").Scan(&version); err != nil {
		return ""
	}
	return version
}

// CheckSchema verifies the core tables exist and the stored schema version
// matches the code's. Missing tables return util.ErrMissingSchema; a version
// mismatch triggers migration before any catalog operation.
func (s *Store) CheckSchema() error {
	for _, table := range coreTables {
		var count int
		err := s.db.QueryRow(`
			SELECT COUNT(*) FROM sqlite_master
			WHERE type='table' AND name=?
		`, table).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check schema: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("%w: table %s", util.ErrMissingSchema, table)
		}
	}

	var version string
	err := s.db.QueryRow("SELECT version FROM meta").Scan(&version)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: meta row absent", util.ErrMissingSchema)
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version != currentSchemaVersion {
		util.WarnLog("Schema version %s != %s, migrating", version, currentSchemaVersion)
		return s.migrate(version)
	}
	return nil
}

// Init creates the schema and the well-known rows. With dropAll the existing
// tables are dropped first, in reverse foreign-key order.
func (s *Store) Init(dropAll bool) error {
	if dropAll {
		for _, table := range dropOrder {
			if _, err := s.db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return fmt.Errorf("failed to drop %s: %w", table, err)
			}
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schemaV1); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO meta (version) VALUES (?)
		ON CONFLICT(version) DO NOTHING
	`, currentSchemaVersion); err != nil {
		return fmt.Errorf("failed to stamp schema version: %w", err)
	}

	if err := provisionWellKnownRows(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}

// provisionWellKnownRows inserts the sentinel libraries and the Various
// Artists row at their reserved ids, in a fixed order, and verifies the ids
// rather than trusting the inserts.
func provisionWellKnownRows(tx *sql.Tx) error {
	rows := []struct {
		query string
		args  []interface{}
		check string
		want  int64
	}{
		{
			query: `INSERT INTO libraries (id, name) VALUES (?, ?)
			        ON CONFLICT(name) DO NOTHING`,
			args:  []interface{}{NullLibID, NullLibName},
			check: "SELECT id FROM libraries WHERE name = '" + NullLibName + "'",
			want:  NullLibID,
		},
		{
			query: `INSERT INTO libraries (id, name) VALUES (?, ?)
			        ON CONFLICT(name) DO NOTHING`,
			args:  []interface{}{MainLibID, MainLibName},
			check: "SELECT id FROM libraries WHERE name = '" + MainLibName + "'",
			want:  MainLibID,
		},
		{
			query: `INSERT INTO artists (id, name, sort_name, lib_id)
			        VALUES (?, ?, ?, ?)
			        ON CONFLICT DO NOTHING`,
			args: []interface{}{VariousArtistsID, VariousArtistsName,
				util.SortName(VariousArtistsName), NullLibID},
			check: "SELECT id FROM artists WHERE name = '" + VariousArtistsName + "'",
			want:  VariousArtistsID,
		},
	}

	for _, row := range rows {
		if _, err := tx.Exec(row.query, row.args...); err != nil {
			return fmt.Errorf("failed to provision well-known row: %w", err)
		}
		var id int64
		if err := tx.QueryRow(row.check).Scan(&id); err != nil {
			return fmt.Errorf("failed to verify well-known row: %w", err)
		}
		if id != row.want {
			return fmt.Errorf("well-known row has id %d, want %d", id, row.want)
		}
	}
	return nil
}

// migrate upgrades the schema from a previous version. There is a single
// linear chain; each step stamps its version.
func (s *Store) migrate(from string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	// Future migrations go here:
	// if from == "1" { ... }

	if _, err := tx.Exec("DELETE FROM meta"); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO meta (version) VALUES (?)",
		currentSchemaVersion); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}

// Begin starts a catalog session. Each directory sync is one session; the
// caller must Commit or Rollback.
func (s *Store) Begin() (*Session, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Session{tx: tx}, nil
}

// Transaction executes fn within a session, committing on success and
// rolling back on error.
func (s *Store) Transaction(fn func(*Session) error) error {
	sess, err := s.Begin()
	if err != nil {
		return err
	}
	defer sess.Rollback()

	if err := fn(sess); err != nil {
		return err
	}
	return sess.Commit()
}

// LastSync returns the catalog-wide last sync timestamp from the meta row.
func (s *Store) LastSync() (time.Time, error) {
	var t sql.NullTime
	err := s.db.QueryRow("SELECT last_sync FROM meta").Scan(&t)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read last sync: %w", err)
	}
	return t.Time, nil
}

// SchemaVersion returns the stored schema version.
func (s *Store) SchemaVersion() (string, error) {
	var version string
	err := s.db.QueryRow("SELECT version FROM meta").Scan(&version)
	if err != nil {
		return "", fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
