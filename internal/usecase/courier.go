package usecase

import (
	"context"
	"log/slog"

	"ArticleCourier/internal/domain"
	"ArticleCourier/internal/ports"
	"ArticleCourier/internal/store"
)

const (
	fetchFailureNotice = "Sorry, couldn't fetch an article today."

	ackDoneToast    = "Article marked as read!"
	ackRepeatToast  = "Already marked as read."
	ackNothingToast = "No active article to mark as read."
)

// CourierDeps wires the driven adapters into the orchestration.
type CourierDeps struct {
	Fetcher   ports.ArticleFetcher
	Enricher  ports.TermEnricher
	Store     *store.Store
	Gateway   ports.Gateway
	Scheduler ports.ReminderScheduler
	Logger    *slog.Logger
}

// Courier owns the subscription, delivery, and acknowledgment workflow.
// All time-triggered behavior enters through Register (which arms the
// daily trigger) and the callbacks it installs.
type Courier struct {
	fetcher   ports.ArticleFetcher
	enricher  ports.TermEnricher
	store     *store.Store
	gateway   ports.Gateway
	scheduler ports.ReminderScheduler
	logger    *slog.Logger
}

// NewCourier constructs the orchestration component.
func NewCourier(deps CourierDeps) *Courier {
	return &Courier{
		fetcher:   deps.Fetcher,
		enricher:  deps.Enricher,
		store:     deps.Store,
		gateway:   deps.Gateway,
		scheduler: deps.Scheduler,
		logger:    deps.Logger,
	}
}

// Register arms the daily delivery trigger for a new subscriber and
// greets them. Registration does not retroactively deliver today's
// article; the subscriber waits for the next daily fire.
func (c *Courier) Register(ctx context.Context, subscriberID int64, firstName string) error {
	created := c.store.Register(subscriberID)

	if err := c.ArmDailyTrigger(subscriberID); err != nil {
		return err
	}

	if created {
		c.info("subscriber registered", "subscriber", subscriberID)
	}
	return c.gateway.SendNotice(ctx, subscriberID, greeting(firstName))
}

// ArmDailyTrigger schedules the recurring delivery job for a subscriber.
// Used by Register and by startup restore of persisted subscribers.
func (c *Courier) ArmDailyTrigger(subscriberID int64) error {
	return c.scheduler.ScheduleDaily(subscriberID, func() {
		c.DeliverTo(context.Background(), subscriberID)
	})
}

// DeliverTo runs one delivery for one subscriber: fetch, enrich, schedule
// reminders, record, send. Reminders are scheduled before the record
// write so an acknowledgment can never observe a delivered article with
// no handles to cancel. A fetch failure sends a notice instead of an
// article and schedules nothing; it never affects other subscribers and
// never suppresses tomorrow's attempt.
func (c *Courier) DeliverTo(ctx context.Context, subscriberID int64) {
	article, err := c.fetcher.FetchLatest(ctx)
	if err != nil {
		c.warn("article fetch failed", "subscriber", subscriberID, "error", err)
		if sendErr := c.gateway.SendNotice(ctx, subscriberID, fetchFailureNotice); sendErr != nil {
			c.warn("failure notice send failed", "subscriber", subscriberID, "error", sendErr)
		}
		return
	}

	article.KeyTerms = c.enricher.Enrich(ctx, article.Excerpt)

	handles := c.scheduler.ScheduleReminders(subscriberID, func() {
		c.RemindIfUnread(context.Background(), subscriberID)
	})
	c.store.UpsertDelivery(subscriberID, article, handles)

	if err := c.gateway.SendArticle(ctx, subscriberID, FormatDelivery(article)); err != nil {
		c.warn("delivery send failed", "subscriber", subscriberID, "error", err)
		return
	}
	c.info("article delivered", "subscriber", subscriberID, "title", article.Title, "reminders", len(handles))
}

// RemindIfUnread is the reminder trigger body. The unread check is the
// backstop for a reminder that was in flight when its handle got
// cancelled; proactive cancellation remains the primary path.
func (c *Courier) RemindIfUnread(ctx context.Context, subscriberID int64) {
	article, ok := c.store.UnreadArticle(subscriberID)
	if !ok {
		return
	}
	if err := c.gateway.SendReminder(ctx, subscriberID, FormatReminder(article)); err != nil {
		c.warn("reminder send failed", "subscriber", subscriberID, "error", err)
	}
}

// Acknowledge handles a mark-read button press. Acknowledging an
// already-read article or having no article are user-visible no-ops, not
// errors.
func (c *Courier) Acknowledge(ctx context.Context, event ports.Event) {
	switch c.store.Acknowledge(event.SubscriberID) {
	case domain.Acknowledged:
		c.answer(ctx, event.CallbackID, ackDoneToast)
		if err := c.gateway.RemoveButton(ctx, event.SubscriberID, event.MessageID); err != nil {
			c.warn("button removal failed", "subscriber", event.SubscriberID, "error", err)
		}
		c.info("article acknowledged", "subscriber", event.SubscriberID)
	case domain.AlreadyRead:
		c.answer(ctx, event.CallbackID, ackRepeatToast)
	case domain.NoActiveArticle:
		c.answer(ctx, event.CallbackID, ackNothingToast)
	}
}

func (c *Courier) answer(ctx context.Context, callbackID, text string) {
	if err := c.gateway.AnswerCallback(ctx, callbackID, text); err != nil {
		c.warn("callback answer failed", "error", err)
	}
}

func (c *Courier) info(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

func (c *Courier) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
