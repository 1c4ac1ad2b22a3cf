// Package app wires configuration, logging, the event pipeline and the HTTP
// server into one runnable unit.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/DESN131/StreamAlert/internal/config"
	"github.com/DESN131/StreamAlert/internal/dedup"
	"github.com/DESN131/StreamAlert/internal/filter"
	"github.com/DESN131/StreamAlert/internal/httpserver"
	"github.com/DESN131/StreamAlert/internal/journal"
	"github.com/DESN131/StreamAlert/internal/logging"
	"github.com/DESN131/StreamAlert/internal/pipeline"
	"github.com/DESN131/StreamAlert/internal/telegram"
)

type App struct {
	cfg      config.Config
	cfgPath  string
	log      zerolog.Logger
	closeLog func() error

	store  *dedup.Store
	jrnl   journal.Journal
	srv    *http.Server
	cron   *cron.Cron

	watchCancel context.CancelFunc
}

// New loads the config and constructs every component. Configuration errors
// (missing credentials, bad durations, bad janitor schedule) fail here, before
// any traffic is accepted.
func New(cfgPath string) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log, closeLog, err := logging.New(logging.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File:    logging.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
	})
	if err != nil {
		return nil, err
	}

	fail := func(err error) (*App, error) {
		_ = closeLog()
		return nil, err
	}

	store := dedup.New(cfg.DedupTTL())

	fcfg, skipped := filter.New(cfg.Filter.Enabled, cfg.Filter.EventTypes, cfg.Filter.RoomIDs)
	if len(skipped) > 0 {
		log.Warn().Strs("entries", skipped).Msg("ignoring malformed room ids in filter config")
	}

	sender, err := telegram.New(telegram.Config{
		Token:          cfg.Telegram.Token,
		ChatID:         cfg.Telegram.ChatID,
		RequestTimeout: cfg.RequestTimeout(),
		RatePerSec:     cfg.Telegram.RatePerSec,
	}, log.With().Str("component", "telegram").Logger())
	if err != nil {
		return fail(err)
	}

	jrnl, err := journal.Open(journal.Config{
		Driver:      cfg.Journal.Driver,
		Path:        cfg.Journal.Path,
		BusyTimeout: cfg.JournalBusyTimeout(),
	}, log.With().Str("component", "journal").Logger())
	if err != nil {
		return fail(err)
	}

	deps := pipeline.Deps{
		Dedup:  store,
		Filter: fcfg,
		Sender: sender,
		Log:    log.With().Str("component", "pipeline").Logger(),
	}
	if jrnl != nil {
		deps.Journal = &journal.Recorder{Journal: jrnl, Log: log}
	}
	pipe := pipeline.New(deps)

	router := httpserver.NewRouter(cfg.Server.WebhookPath, pipe, log.With().Str("component", "http").Logger())

	a := &App{
		cfg:      cfg,
		cfgPath:  cfgPath,
		log:      log,
		closeLog: closeLog,
		store:    store,
		jrnl:     jrnl,
		srv: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			// Must exceed the outbound send timeout, which runs inside the
			// request handler.
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		cron: cron.New(),
	}

	if _, err := a.cron.AddFunc(cfg.Janitor.Schedule, a.runJanitor); err != nil {
		if jrnl != nil {
			_ = jrnl.Close()
		}
		return fail(fmt.Errorf("janitor.schedule: %w", err))
	}

	return a, nil
}

// Start binds the listener, launches the server, the janitor and the config
// watcher, then reports readiness to systemd. It returns once serving.
func (a *App) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.srv.Addr)
	if err != nil {
		return err
	}

	go func() {
		if err := a.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error().Err(err).Msg("http server stopped unexpectedly")
		}
	}()

	a.cron.Start()

	wctx, cancel := context.WithCancel(ctx)
	a.watchCancel = cancel
	if err := config.Watch(wctx, a.cfgPath, a.log, func(lc config.LoggingConfig) {
		logging.SetLevel(lc.Level)
	}); err != nil {
		// Reload is a convenience; the service runs fine without it.
		a.log.Warn().Err(err).Msg("config watcher unavailable")
	}

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	a.log.Info().
		Str("addr", a.srv.Addr).
		Str("webhook_path", a.cfg.Server.WebhookPath).
		Dur("dedup_ttl", a.cfg.DedupTTL()).
		Bool("filter_enabled", a.cfg.Filter.Enabled).
		Msg("server started")
	return nil
}

// Stop drains the server and releases resources, best-effort within ctx.
func (a *App) Stop(ctx context.Context) error {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	if a.watchCancel != nil {
		a.watchCancel()
	}

	select {
	case <-a.cron.Stop().Done():
	case <-ctx.Done():
	}

	err := a.srv.Shutdown(ctx)

	a.log.Info().Msg("server stopped")

	if a.jrnl != nil {
		_ = a.jrnl.Close()
	}
	if a.closeLog != nil {
		_ = a.closeLog()
	}
	return err
}

// runJanitor sweeps expired dedup records and prunes old journal rows.
// Traffic already sweeps on every check; this covers quiet periods.
func (a *App) runJanitor() {
	now := time.Now()

	if removed := a.store.Purge(now); removed > 0 {
		a.log.Debug().Int("removed", removed).Int("live", a.store.Len()).Msg("dedup records purged")
	}

	if a.jrnl != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pruned, err := a.jrnl.Prune(ctx, now.Add(-a.cfg.JournalRetention()))
		if err != nil {
			a.log.Warn().Err(err).Msg("journal prune failed")
		} else if pruned > 0 {
			a.log.Debug().Int64("pruned", pruned).Msg("journal rows pruned")
		}
	}
}
