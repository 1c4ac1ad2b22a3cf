package telegram

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNewRejectsMissingCredentials(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "empty token", cfg: Config{ChatID: 1, Offline: true}},
		{name: "blank token", cfg: Config{Token: "   ", ChatID: 1, Offline: true}},
		{name: "missing chat", cfg: Config{Token: "123:abc", Offline: true}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tt.cfg, zerolog.Nop()); err == nil {
				t.Fatal("expected constructor error")
			}
		})
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Parallel()
	s, err := New(Config{Token: "123:abc", ChatID: -100123, Offline: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.chat.ID != -100123 {
		t.Fatalf("chat id = %d", s.chat.ID)
	}
	if s.limiter.Limit() != 3 {
		t.Fatalf("default rate = %v, want 3", s.limiter.Limit())
	}
	if burst := s.limiter.Burst(); burst != 3 {
		t.Fatalf("default burst = %d, want 3", burst)
	}

	s, err = New(Config{Token: "123:abc", ChatID: 1, RequestTimeout: 2 * time.Second, RatePerSec: 10, Offline: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New with overrides: %v", err)
	}
	if s.limiter.Limit() != 10 {
		t.Fatalf("rate = %v, want 10", s.limiter.Limit())
	}
}
