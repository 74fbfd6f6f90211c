package bootstrap

import (
	"context"
	"log/slog"

	"fleet-rental/internal/infra/writerepo"
	"fleet-rental/internal/notifier"
	"fleet-rental/internal/pkg/clock"
	"fleet-rental/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		NewMailer,
		NewDispatcher,
	),
	fx.Invoke(StartDispatcher),
)

func NewMailer(cfg config.Config, logger *slog.Logger) notifier.Mailer {
	if cfg.Notifier.SMTPAddr == "" {
		return notifier.NewLogMailer(logger)
	}
	return notifier.NewSMTPMailer(cfg.Notifier.SMTPAddr, cfg.Notifier.FromAddress)
}

func NewDispatcher(pool *pgxpool.Pool, mailer notifier.Mailer, cfg config.Config, clk clock.Clock, logger *slog.Logger) *notifier.Dispatcher {
	return notifier.NewDispatcher(
		writerepo.NewNotificationRepository(pool),
		mailer,
		cfg.Notifier,
		clk,
		logger,
	)
}

func StartDispatcher(lc fx.Lifecycle, d *notifier.Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			d.Start(context.Background())
			return nil
		},
		OnStop: func(_ context.Context) error {
			d.Stop()
			return nil
		},
	})
}
