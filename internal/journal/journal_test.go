package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestOpenDisabled(t *testing.T) {
	t.Parallel()
	for _, driver := range []string{"", "none", "NONE"} {
		j, err := Open(Config{Driver: driver}, zerolog.Nop())
		if err != nil {
			t.Fatalf("Open(%q): %v", driver, err)
		}
		if j != nil {
			t.Fatalf("Open(%q) returned a journal", driver)
		}
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	t.Parallel()
	if _, err := Open(Config{Driver: "postgres"}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestSQLiteAppendAndPrune(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(Config{Driver: "sqlite", Path: path}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()

	ctx := context.Background()
	now := time.Now()

	entries := []Entry{
		{At: now.Add(-48 * time.Hour), EventID: "old", EventType: "StreamEnded", Outcome: "accepted"},
		{At: now, EventID: "fresh", EventType: "StreamStarted", RoomID: 123, Outcome: "accepted"},
		{At: now, EventID: "failed", EventType: "FileClosed", Outcome: "send_failed", Detail: "telegram: 502"},
	}
	for _, e := range entries {
		if err := j.Append(ctx, e); err != nil {
			t.Fatalf("Append(%s): %v", e.EventID, err)
		}
	}

	removed, err := j.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("Prune removed %d rows, want 1", removed)
	}

	removed, err = j.Prune(ctx, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("second Prune: %v", err)
	}
	if removed != 2 {
		t.Fatalf("second Prune removed %d rows, want 2", removed)
	}
}

func TestSQLiteRequiresPath(t *testing.T) {
	t.Parallel()
	if _, err := Open(Config{Driver: "sqlite"}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for missing path")
	}
}
