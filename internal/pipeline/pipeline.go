// Package pipeline orchestrates validation, deduplication, filtering,
// rendering and delivery of inbound monitor events.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/DESN131/StreamAlert/internal/dedup"
	"github.com/DESN131/StreamAlert/internal/event"
	"github.com/DESN131/StreamAlert/internal/filter"
)

// Outcome classifies how one inbound event was resolved.
type Outcome int

const (
	Accepted Outcome = iota
	Rejected
	Duplicate
	Filtered
	SendFailed
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Duplicate:
		return "duplicate"
	case Filtered:
		return "filtered"
	case SendFailed:
		return "send_failed"
	default:
		return "unknown"
	}
}

// Result carries the outcome plus a human-readable reason for the Rejected
// and SendFailed cases.
type Result struct {
	Outcome Outcome
	Reason  string
}

// Sender delivers rendered text downstream.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Journal records terminal outcomes for the optional audit trail.
// Implementations must swallow their own errors; the pipeline result never
// depends on the journal.
type Journal interface {
	Record(ctx context.Context, ev *event.Event, outcome string, detail string)
}

// Deps are the pipeline's collaborators. Sender, Dedup and Log are required;
// Journal is optional and Now defaults to time.Now.
type Deps struct {
	Dedup   *dedup.Store
	Filter  filter.Config
	Sender  Sender
	Journal Journal
	Log     zerolog.Logger
	Now     func() time.Time
}

type Pipeline struct {
	dedup   *dedup.Store
	filter  filter.Config
	sender  Sender
	journal Journal
	log     zerolog.Logger
	now     func() time.Time
}

func New(d Deps) *Pipeline {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		dedup:   d.Dedup,
		filter:  d.Filter,
		sender:  d.Sender,
		journal: d.Journal,
		log:     d.Log,
		now:     now,
	}
}

// Handle runs one webhook body through the pipeline: decode, validate, dedup,
// filter, render, send. Linear, no retries. Validation and suppression
// outcomes resolve here; only transport failures surface as SendFailed.
//
// Handle is safe for concurrent use. The dedup critical section covers only
// check-and-mark; it is never held across the send call.
func (p *Pipeline) Handle(ctx context.Context, body []byte) Result {
	ev, err := event.Decode(body)
	if err != nil {
		p.log.Debug().Err(err).Msg("webhook body rejected")
		return Result{Outcome: Rejected, Reason: "invalid body"}
	}
	if err := ev.Validate(); err != nil {
		p.log.Debug().Str("event_type", ev.EventType).Msg("event without EventId rejected")
		return Result{Outcome: Rejected, Reason: "missing EventId"}
	}

	log := p.log.With().Str("event_id", ev.EventID).Str("event_type", ev.EventType).Logger()

	if p.dedup.CheckAndMark(ev.EventID, p.now()) {
		log.Debug().Msg("duplicate event suppressed")
		p.record(ctx, ev, Duplicate, "")
		return Result{Outcome: Duplicate}
	}

	if !filter.ShouldPush(ev, p.filter) {
		log.Debug().Msg("event filtered")
		p.record(ctx, ev, Filtered, "")
		return Result{Outcome: Filtered}
	}

	text := event.Render(ev)
	if err := p.sender.Send(ctx, text); err != nil {
		log.Error().Err(err).Msg("notification send failed")
		p.record(ctx, ev, SendFailed, err.Error())
		return Result{Outcome: SendFailed, Reason: err.Error()}
	}

	log.Info().Msg("notification sent")
	p.record(ctx, ev, Accepted, "")
	return Result{Outcome: Accepted}
}

func (p *Pipeline) record(ctx context.Context, ev *event.Event, outcome Outcome, detail string) {
	if p.journal == nil {
		return
	}
	p.journal.Record(ctx, ev, outcome.String(), detail)
}
