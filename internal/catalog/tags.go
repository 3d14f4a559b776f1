package catalog

import (
	"database/sql"
	"fmt"
)

// TagByName retrieves a genre tag, or nil when absent.
func (sess *Session) TagByName(name string, libID int64) (*Tag, error) {
	tag := &Tag{}
	err := sess.tx.QueryRow(`
		SELECT id, name, lib_id FROM tags WHERE name = ? AND lib_id = ?
	`, name, libID).Scan(&tag.ID, &tag.Name, &tag.LibID)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return tag, nil
}

// GetOrCreateTag returns the genre tag for name, creating it on first
// sighting.
func (sess *Session) GetOrCreateTag(name string, libID int64) (*Tag, error) {
	name = truncate(name, TagNameLimit)

	tag, err := sess.TagByName(name, libID)
	if err != nil || tag != nil {
		return tag, err
	}

	result, err := sess.tx.Exec(`
		INSERT INTO tags (name, lib_id) VALUES (?, ?)
	`, name, libID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tag: %w", err)
	}

	tag = &Tag{Name: name, LibID: libID}
	tag.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get tag id: %w", err)
	}
	return tag, nil
}
