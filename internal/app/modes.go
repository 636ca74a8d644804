package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"randarb/internal/notify"
	"randarb/internal/server"
	"randarb/internal/server/handler"
	"randarb/internal/server/ws"
)

// ServerMode runs the HTTP + WebSocket API without the monitor loop. Reports
// are computed on demand per request (with the short report cache absorbing
// bursts).
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startHTTPServer(ctx, g, deps)
	return g.Wait()
}

// MonitorMode runs the periodic evaluation loop (and the archive loop when
// enabled) without the HTTP API. Opportunities surface through notifications.
func (a *App) MonitorMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting monitor mode",
		slog.Duration("interval", a.cfg.Monitor.Interval.Duration),
	)

	g, ctx := errgroup.WithContext(ctx)
	a.startMonitorLoop(ctx, g, deps, nil)
	a.startArchiveLoop(ctx, g, deps)
	return g.Wait()
}

// FullMode runs everything: the HTTP API, the WebSocket stream fed by the
// monitor loop, and the archive loop.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)

	hub := a.startHTTPServer(ctx, g, deps)
	a.startMonitorLoop(ctx, g, deps, hub)
	a.startArchiveLoop(ctx, g, deps)

	return g.Wait()
}

// startHTTPServer adds the HTTP server and WebSocket hub goroutines to the
// errgroup and returns the hub so the monitor loop can feed it.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) *ws.Hub {
	if !a.cfg.Server.Enabled {
		a.logger.InfoContext(ctx, "http server disabled by config")
		return nil
	}

	hub := ws.NewHub(a.logger)
	g.Go(func() error {
		err := hub.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	handlers := server.Handlers{
		Health:   handler.NewHealthHandler(a.cfg.Mode, a.logger),
		Market:   handler.NewMarketHandler(deps.Market, a.logger),
		Simulate: handler.NewSimulateHandler(deps.Simulation, a.logger),
		Trades:   handler.NewTradesHandler(deps.Simulation, a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:               a.cfg.Server.Port,
		CORSOrigins:        a.cfg.Server.CORSOrigins,
		APIKey:             a.cfg.Server.APIKey,
		RateLimitPerMinute: a.cfg.Server.RateLimitPerMinute,
	}, handlers, hub, deps.RateLimiter, a.logger)

	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	return hub
}

// startMonitorLoop evaluates the market on a fixed interval. Each report is
// pushed to the WebSocket hub when one is running; trade-eligible reports
// raise notifications inside the market service itself.
func (a *App) startMonitorLoop(ctx context.Context, g *errgroup.Group, deps *Dependencies, hub *ws.Hub) {
	interval := a.cfg.Monitor.Interval.Duration

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		evaluate := func() {
			report, err := deps.Market.Evaluate(ctx)
			if err != nil {
				a.logger.ErrorContext(ctx, "monitor: evaluation failed",
					slog.String("error", err.Error()),
				)
				if notifyErr := deps.Notifier.Notify(ctx, notify.EventError, "Evaluation failed", err.Error()); notifyErr != nil {
					a.logger.WarnContext(ctx, "monitor: error notification failed",
						slog.String("error", notifyErr.Error()),
					)
				}
				return
			}

			a.logger.InfoContext(ctx, "monitor: market evaluated",
				slog.String("premium_percent", report.Premium.PremiumPercent.StringFixed(4)),
				slog.Bool("trade_eligible", report.Premium.TradeEligible),
			)
			if hub != nil {
				hub.BroadcastReport(handler.ToMarketReportDTO(report))
			}
		}

		evaluate()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				evaluate()
			}
		}
	})
}

// startArchiveLoop periodically exports aged trades to object storage. It is
// a no-op unless archiving is enabled and wired.
func (a *App) startArchiveLoop(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	if !a.cfg.Archive.Enabled {
		return
	}
	if deps.Archiver == nil {
		a.logger.WarnContext(ctx, "archive enabled but archiver not wired, skipping")
		return
	}

	interval := a.cfg.Archive.Interval.Duration
	retention := time.Duration(a.cfg.Archive.RetentionDays) * 24 * time.Hour

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		archive := func() {
			cutoff := time.Now().UTC().Add(-retention)
			archived, err := deps.Archiver.ArchiveBefore(ctx, cutoff)
			if err != nil {
				a.logger.ErrorContext(ctx, "archive: run failed",
					slog.String("error", err.Error()),
				)
				return
			}
			if archived > 0 {
				a.logger.InfoContext(ctx, "archive: run complete",
					slog.Int("archived", archived),
				)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				archive()
			}
		}
	})
}
