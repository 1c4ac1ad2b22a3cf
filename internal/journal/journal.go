// Package journal keeps an optional audit trail of pipeline outcomes.
//
// It is strictly observational: dedup state stays in memory and delivery
// semantics do not depend on the journal in any way.
package journal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/DESN131/StreamAlert/internal/event"
)

var ErrDisabled = errors.New("journal disabled")

// Config configures the journal.
//
// Driver values:
//   - "" or "none": disabled
//   - "sqlite": SQLite database file at Path
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 keeps the driver default
}

// Entry is one recorded outcome. Kept compact and schema-stable.
type Entry struct {
	At        time.Time
	EventID   string
	EventType string
	RoomID    int64
	Outcome   string
	Detail    string
}

// Journal is the persistence API used by the pipeline adapter and janitor.
type Journal interface {
	Append(ctx context.Context, e Entry) error
	Prune(ctx context.Context, before time.Time) (int64, error)
	Close() error
}

// Open initializes the configured journal.
// It returns (nil, nil) when the journal is disabled.
func Open(cfg Config, log zerolog.Logger) (Journal, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "none":
		return nil, nil
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown journal driver: " + cfg.Driver)
	}
}

// Recorder adapts a Journal to the pipeline's fire-and-forget hook.
// Append errors are logged and dropped; the request path never fails on the
// audit trail.
type Recorder struct {
	Journal Journal
	Log     zerolog.Logger
}

func (r *Recorder) Record(ctx context.Context, ev *event.Event, outcome string, detail string) {
	roomID, _ := ev.RoomID()
	e := Entry{
		At:        time.Now(),
		EventID:   ev.EventID,
		EventType: ev.EventType,
		RoomID:    roomID,
		Outcome:   outcome,
		Detail:    detail,
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := r.Journal.Append(wctx, e); err != nil {
		r.Log.Warn().Err(err).Str("event_id", ev.EventID).Msg("journal append failed")
	}
}
