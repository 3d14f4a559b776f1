package catalog

import (
	"database/sql"
	"time"
)

// Session is one logical unit of work against the catalog. The sync pipeline
// opens one session per directory; inserts assign surrogate keys immediately
// (the flush of the session model), and nothing is visible to other
// connections until Commit.
type Session struct {
	tx   *sql.Tx
	done bool
}

// Commit commits the session.
func (sess *Session) Commit() error {
	sess.done = true
	return sess.tx.Commit()
}

// Rollback rolls the session back. Safe to call after Commit.
func (sess *Session) Rollback() error {
	if sess.done {
		return nil
	}
	sess.done = true
	return sess.tx.Rollback()
}

// nullStr maps the empty string to SQL NULL. Origin columns store NULL for
// unset so the artist unique constraint permits deliberate homonyms.
func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullID maps id 0 to SQL NULL (tracks without an album).
func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
