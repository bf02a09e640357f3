package domain

// AckResult describes the outcome of a subscriber acknowledging the
// current article.
type AckResult int

const (
	// Acknowledged means the article was unread and is now marked read.
	Acknowledged AckResult = iota
	// AlreadyRead means a previous acknowledgment already marked it read.
	AlreadyRead
	// NoActiveArticle means the subscriber has nothing to acknowledge.
	NoActiveArticle
)

// ReminderHandle references a scheduled one-shot reminder. The scheduler
// that created it owns the underlying task; holders may only cancel it.
// Cancelling an already-fired or already-cancelled handle is a no-op.
type ReminderHandle interface {
	Cancel()
}

// SubscriptionRecord is the per-subscriber delivery state.
type SubscriptionRecord struct {
	SubscriberID int64
	Current      *Article
	Read         bool
	Reminders    []ReminderHandle
}

// SubscriptionSnapshot is the persistable projection of a record.
// Reminder handles are process-local and are never serialized.
type SubscriptionSnapshot struct {
	SubscriberID int64
	Article      *Article
	Read         bool
}
