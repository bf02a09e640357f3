package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"ArticleCourier/internal/config"
	"ArticleCourier/internal/enricher"
	"ArticleCourier/internal/infrastructure/scheduler"
	"ArticleCourier/internal/infrastructure/sciam"
	"ArticleCourier/internal/infrastructure/storage"
	"ArticleCourier/internal/infrastructure/telegram"
	"ArticleCourier/internal/infrastructure/wordnik"
	"ArticleCourier/internal/logging"
	"ArticleCourier/internal/ports"
	"ArticleCourier/internal/store"
	"ArticleCourier/internal/usecase"
)

// Application wires configuration to adapters, use cases, and lifecycle.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	courier   *usecase.Courier
	gateway   ports.Gateway
	scheduler ports.ReminderScheduler
	store     *store.Store
	snapshots ports.SnapshotRepository
}

// New builds a runnable application instance. Misconfiguration of the
// transport or triggers fails here, before anything is scheduled.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	gateway, err := telegram.New(cfg.Telegram.BotToken, baseLogger.With("component", "telegram"))
	if err != nil {
		return nil, err
	}

	sched, err := scheduler.New(
		cfg.Scheduler.Location(),
		cfg.Scheduler.DeliveryTime,
		cfg.Scheduler.ReminderHours,
		baseLogger.With("component", "scheduler"),
	)
	if err != nil {
		return nil, err
	}

	subscriptions := store.New(baseLogger.With("component", "store"))

	var snapshots ports.SnapshotRepository
	if cfg.Storage.Path != "" {
		snapshots, err = storage.Open(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		subscriptions.AttachSnapshots(snapshots)
	}

	fetcher := sciam.NewFetcher(
		&http.Client{Timeout: time.Duration(cfg.Source.TimeoutSeconds) * time.Second},
		cfg.Source.BaseURL,
		cfg.Source.ExcerptLimit,
	)

	lookup := wordnik.NewClient(
		cfg.Lookup.BaseURL,
		cfg.Lookup.APIKey,
		time.Duration(cfg.Lookup.TimeoutSeconds)*time.Second,
	)

	terms := enricher.New(lookup, enricher.Options{
		Window:          cfg.Terms.Window,
		Cap:             cfg.Terms.Cap,
		MinLength:       cfg.Terms.MinLength,
		RarityThreshold: cfg.Lookup.RarityThreshold,
		MaxDefinitions:  cfg.Lookup.MaxDefinitions,
	}, baseLogger.With("component", "enricher"))

	courier := usecase.NewCourier(usecase.CourierDeps{
		Fetcher:   fetcher,
		Enricher:  terms,
		Store:     subscriptions,
		Gateway:   gateway,
		Scheduler: sched,
		Logger:    baseLogger.With("component", "courier"),
	})

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		courier:   courier,
		gateway:   gateway,
		scheduler: sched,
		store:     subscriptions,
		snapshots: snapshots,
	}, nil
}

// Run restores persisted subscribers, starts the trigger domain, and
// consumes inbound transport events until ctx is cancelled. The timer
// domain and the event domain only meet inside the store's atomic
// operations.
func (a *Application) Run(ctx context.Context) error {
	if a.snapshots != nil {
		defer a.snapshots.Close()
		if err := a.restore(ctx); err != nil {
			return err
		}
	}

	a.scheduler.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.scheduler.Stop(stopCtx); err != nil {
			a.logger.Warn("scheduler stop timed out", "error", err)
		}
	}()

	a.logger.Info("courier running",
		"delivery_time", a.cfg.Scheduler.DeliveryTime,
		"reminder_hours", a.cfg.Scheduler.ReminderHours,
		"timezone", a.cfg.Scheduler.Timezone)

	for event := range a.gateway.Events(ctx) {
		go a.handle(ctx, event)
	}
	return ctx.Err()
}

func (a *Application) handle(ctx context.Context, event ports.Event) {
	switch event.Kind {
	case ports.EventStart:
		if err := a.courier.Register(ctx, event.SubscriberID, event.FirstName); err != nil {
			a.logger.Warn("registration failed", "subscriber", event.SubscriberID, "error", err)
		}
	case ports.EventMarkRead:
		a.courier.Acknowledge(ctx, event)
	}
}

func (a *Application) restore(ctx context.Context) error {
	snaps, err := a.snapshots.LoadAll(ctx)
	if err != nil {
		return err
	}
	a.store.Restore(snaps)

	for _, snap := range snaps {
		if err := a.courier.ArmDailyTrigger(snap.SubscriberID); err != nil {
			return err
		}
	}
	if len(snaps) > 0 {
		a.logger.Info("subscribers restored", "count", len(snaps))
	}
	return nil
}
