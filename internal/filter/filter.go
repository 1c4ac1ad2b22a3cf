// Package filter decides which monitor events are forwarded downstream.
package filter

import (
	"strconv"
	"strings"

	"github.com/DESN131/StreamAlert/internal/event"
)

// Config is an optional allow-list policy. It is built once at startup and
// never mutated afterwards, so evaluation needs no synchronization.
// An empty set allows everything in its dimension.
type Config struct {
	Enabled    bool
	EventTypes map[string]struct{}
	RoomIDs    map[int64]struct{}
}

// New builds a filter config from raw allow-list entries. Entries may
// themselves be comma-separated. Room entries that are not non-negative
// integers are skipped and returned to the caller for logging rather than
// failing startup; the monitor's own tooling is equally permissive.
func New(enabled bool, eventTypes, roomIDs []string) (Config, []string) {
	cfg := Config{
		Enabled:    enabled,
		EventTypes: make(map[string]struct{}),
		RoomIDs:    make(map[int64]struct{}),
	}

	for _, entry := range splitEntries(eventTypes) {
		cfg.EventTypes[entry] = struct{}{}
	}

	var skipped []string
	for _, entry := range splitEntries(roomIDs) {
		id, err := strconv.ParseInt(entry, 10, 64)
		if err != nil || id < 0 {
			skipped = append(skipped, entry)
			continue
		}
		cfg.RoomIDs[id] = struct{}{}
	}
	return cfg, skipped
}

// ShouldPush reports whether ev passes the allow-lists. The type and room
// checks are independent; either alone rejects.
func ShouldPush(ev *event.Event, cfg Config) bool {
	if !cfg.Enabled {
		return true
	}
	if len(cfg.EventTypes) > 0 {
		if _, ok := cfg.EventTypes[ev.EventType]; !ok {
			return false
		}
	}
	if len(cfg.RoomIDs) > 0 {
		id, ok := ev.RoomID()
		if !ok {
			return false
		}
		if _, ok := cfg.RoomIDs[id]; !ok {
			return false
		}
	}
	return true
}

func splitEntries(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
