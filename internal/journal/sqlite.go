package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

// at is stored as unix milliseconds so the prune comparison is a plain
// integer range scan.
const schema = `
CREATE TABLE IF NOT EXISTS deliveries (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	at         INTEGER NOT NULL,
	event_id   TEXT    NOT NULL,
	event_type TEXT    NOT NULL,
	room_id    INTEGER NOT NULL DEFAULT 0,
	outcome    TEXT    NOT NULL,
	detail     TEXT
);
CREATE INDEX IF NOT EXISTS idx_deliveries_at ON deliveries(at);
`

type sqliteJournal struct {
	db  *sql.DB
	log zerolog.Logger
}

func openSQLite(cfg Config, log zerolog.Logger) (Journal, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("journal path is required for the sqlite driver")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteJournal{db: db, log: log}, nil
}

func (j *sqliteJournal) Append(ctx context.Context, e Entry) error {
	if j == nil || j.db == nil {
		return ErrDisabled
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO deliveries(at, event_id, event_type, room_id, outcome, detail)
		 VALUES(?,?,?,?,?,?)`,
		e.At.UnixMilli(), e.EventID, e.EventType, e.RoomID, e.Outcome, nullStr(e.Detail),
	)
	return err
}

func (j *sqliteJournal) Prune(ctx context.Context, before time.Time) (int64, error) {
	if j == nil || j.db == nil {
		return 0, ErrDisabled
	}
	res, err := j.db.ExecContext(ctx, `DELETE FROM deliveries WHERE at < ?`, before.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (j *sqliteJournal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
