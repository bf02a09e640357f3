package ports

import (
	"context"

	"ArticleCourier/internal/domain"
)

// ArticleFetcher retrieves the current leading article from the content
// source. No internal retries; the retry policy belongs to the caller.
type ArticleFetcher interface {
	FetchLatest(ctx context.Context) (domain.Article, error)
}

// WordLookup resolves rarity and definition data for a single term.
// A per-term failure is just an error for that term and never aborts
// the enrichment of other terms.
type WordLookup interface {
	Frequency(ctx context.Context, term string) (float64, error)
	Definitions(ctx context.Context, term string, limit int) ([]string, error)
}

// TermEnricher selects noteworthy terms from article body text and
// resolves their definitions.
type TermEnricher interface {
	Enrich(ctx context.Context, body string) []domain.TermEntry
}

// Gateway pushes messages to the chat transport and streams inbound
// subscriber events back.
type Gateway interface {
	// SendArticle delivers the formatted article with the mark-read
	// button attached and link previews disabled.
	SendArticle(ctx context.Context, subscriberID int64, text string) error
	// SendReminder nags with the mark-read button attached.
	SendReminder(ctx context.Context, subscriberID int64, text string) error
	// SendNotice sends a plain message without a button.
	SendNotice(ctx context.Context, subscriberID int64, text string) error
	// RemoveButton strips the inline button from a previously sent message.
	RemoveButton(ctx context.Context, subscriberID int64, messageID int) error
	// AnswerCallback acknowledges a button press with a short toast.
	AnswerCallback(ctx context.Context, callbackID, text string) error
	// Events emits inbound subscriber events until ctx is cancelled.
	Events(ctx context.Context) <-chan Event
}

// EventKind discriminates inbound transport events.
type EventKind int

const (
	// EventStart is a new-subscriber command.
	EventStart EventKind = iota
	// EventMarkRead is a press of the mark-read button.
	EventMarkRead
)

// Event is one inbound transport event. SubscriberID is the opaque chat
// identity; MessageID and CallbackID are set for button presses only.
type Event struct {
	Kind         EventKind
	SubscriberID int64
	FirstName    string
	MessageID    int
	CallbackID   string
}

// ReminderScheduler owns all time-triggered tasks: the per-subscriber
// daily delivery trigger and the one-shot reminder timers.
type ReminderScheduler interface {
	// ScheduleDaily registers a recurring daily delivery job for one
	// subscriber. Registering the same subscriber twice is a no-op.
	ScheduleDaily(subscriberID int64, fn func()) error
	// ScheduleReminders creates one-shot reminders for the configured
	// hours still ahead today and returns their cancellation handles.
	ScheduleReminders(subscriberID int64, fn func()) []domain.ReminderHandle
	Start()
	Stop(ctx context.Context) error
}

// SnapshotRepository persists subscription snapshots across restarts.
type SnapshotRepository interface {
	Save(ctx context.Context, snap domain.SubscriptionSnapshot) error
	LoadAll(ctx context.Context) ([]domain.SubscriptionSnapshot, error)
	Close() error
}
