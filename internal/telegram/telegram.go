// Package telegram delivers rendered notifications to a single Telegram chat.
package telegram

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"
)

type Config struct {
	Token  string
	ChatID int64

	// RequestTimeout bounds one sendMessage call end to end. Default 8s.
	RequestTimeout time.Duration

	// RatePerSec is the outbound token-bucket rate so Telegram flood limits
	// stall only the request that hit them. Default 3.
	RatePerSec int

	// Offline skips the getMe probe at construction. Used by tests.
	Offline bool
}

// Sender posts text messages to one chat. Sends are synchronous and never
// retried: the upstream monitor owns redelivery.
type Sender struct {
	bot     *tele.Bot
	chat    *tele.Chat
	limiter *rate.Limiter
	log     zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) (*Sender, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat_id is empty")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 3
	}

	b, err := tele.NewBot(tele.Settings{
		Token:   cfg.Token,
		Offline: cfg.Offline,
		Client:  &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, err
	}

	return &Sender{
		bot:     b,
		chat:    &tele.Chat{ID: cfg.ChatID},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		log:     log,
	}, nil
}

// Send delivers one message with web-page previews disabled. The HTTP client
// timeout bounds the call; a timeout surfaces as an ordinary send error.
func (s *Sender) Send(ctx context.Context, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := s.bot.Send(s.chat, text, &tele.SendOptions{DisableWebPagePreview: true})
	if err != nil {
		s.log.Warn().Err(err).Int64("chat_id", s.chat.ID).Msg("telegram send failed")
		return err
	}
	return nil
}
