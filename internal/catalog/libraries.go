package catalog

import (
	"database/sql"
	"fmt"
	"time"
)

// LibraryByName retrieves a library row, or nil when absent.
func (sess *Session) LibraryByName(name string) (*Library, error) {
	lib := &Library{}
	var lastSync sql.NullTime
	err := sess.tx.QueryRow(`
		SELECT id, name, last_sync FROM libraries WHERE name = ?
	`, name).Scan(&lib.ID, &lib.Name, &lastSync)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get library: %w", err)
	}
	lib.LastSync = lastSync.Time
	return lib, nil
}

// InsertLibrary inserts a library and assigns its id.
func (sess *Session) InsertLibrary(lib *Library) error {
	lib.Name = truncate(lib.Name, LibNameLimit)
	result, err := sess.tx.Exec(`
		INSERT INTO libraries (name, last_sync) VALUES (?, ?)
	`, lib.Name, nullTime(lib.LastSync))
	if err != nil {
		return fmt.Errorf("failed to insert library: %w", err)
	}
	lib.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get library id: %w", err)
	}
	return nil
}

// Libraries returns user libraries (the null sentinel excluded), optionally
// filtered to the given names.
func (sess *Session) Libraries(names []string) ([]*Library, error) {
	rows, err := sess.tx.Query(`
		SELECT id, name, last_sync FROM libraries WHERE id > ? ORDER BY id
	`, NullLibID)
	if err != nil {
		return nil, fmt.Errorf("failed to query libraries: %w", err)
	}
	defer rows.Close()

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var libs []*Library
	for rows.Next() {
		lib := &Library{}
		var lastSync sql.NullTime
		if err := rows.Scan(&lib.ID, &lib.Name, &lastSync); err != nil {
			return nil, fmt.Errorf("failed to scan library: %w", err)
		}
		lib.LastSync = lastSync.Time
		if len(want) > 0 && !want[lib.Name] {
			continue
		}
		libs = append(libs, lib)
	}
	return libs, rows.Err()
}

// TouchLibraryLastSync stamps a library's last sync time.
func (sess *Session) TouchLibraryLastSync(libID int64, t time.Time) error {
	_, err := sess.tx.Exec(`
		UPDATE libraries SET last_sync = ? WHERE id = ?
	`, t, libID)
	if err != nil {
		return fmt.Errorf("failed to update library last sync: %w", err)
	}
	return nil
}

// TouchLastSync stamps the catalog-wide last sync time on the meta row.
func (sess *Session) TouchLastSync(t time.Time) error {
	_, err := sess.tx.Exec("UPDATE meta SET last_sync = ?", t)
	if err != nil {
		return fmt.Errorf("failed to update last sync: %w", err)
	}
	return nil
}
