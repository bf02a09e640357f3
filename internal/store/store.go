package store

import (
	"context"
	"log/slog"
	"sync"

	"ArticleCourier/internal/domain"
	"ArticleCourier/internal/ports"
)

// Store is the in-memory subscription state keyed by subscriber id.
//
// Every read-modify-write sequence runs under a per-subscriber lock, so
// delivery, acknowledgment, and the reminder read path are linearizable
// per key. Operations on one subscriber never block another: the outer
// map lock only guards record lookup and creation.
type Store struct {
	mu      sync.RWMutex
	records map[int64]*record

	snapshots ports.SnapshotRepository
	logger    *slog.Logger
}

type record struct {
	mu        sync.Mutex
	current   *domain.Article
	read      bool
	reminders []domain.ReminderHandle
}

// New builds an empty store.
func New(logger *slog.Logger) *Store {
	return &Store{
		records: map[int64]*record{},
		logger:  logger,
	}
}

// AttachSnapshots enables best-effort persistence of every state change.
// Snapshot failures are logged, never propagated: the in-memory state is
// authoritative for the process lifetime.
func (s *Store) AttachSnapshots(repo ports.SnapshotRepository) {
	s.snapshots = repo
}

// Register creates an empty record for a new subscriber. It reports
// whether the subscriber was newly registered.
func (s *Store) Register(subscriberID int64) bool {
	s.mu.Lock()
	_, exists := s.records[subscriberID]
	if !exists {
		s.records[subscriberID] = &record{}
	}
	s.mu.Unlock()

	if !exists {
		s.persist(domain.SubscriptionSnapshot{SubscriberID: subscriberID})
	}
	return !exists
}

// UpsertDelivery replaces the subscriber's current article, resets the
// read flag, and swaps in the freshly scheduled reminder handles. Handles
// belonging to a superseded article are cancelled before being dropped.
// The caller schedules reminders first so an acknowledgment arriving right
// after the write always finds handles to cancel.
func (s *Store) UpsertDelivery(subscriberID int64, article domain.Article, handles []domain.ReminderHandle) {
	rec := s.getOrCreate(subscriberID)

	rec.mu.Lock()
	cancelAll(rec.reminders)
	rec.current = &article
	rec.read = false
	rec.reminders = handles
	snap := rec.snapshot(subscriberID)
	rec.mu.Unlock()

	s.persist(snap)
}

// Acknowledge marks the current article read. It is idempotent: a second
// call reports AlreadyRead without side effects. Pending reminders are
// cancelled inside the same critical section that flips the read flag, so
// no observer can see read=true alongside stale handles.
func (s *Store) Acknowledge(subscriberID int64) domain.AckResult {
	rec := s.lookup(subscriberID)
	if rec == nil {
		return domain.NoActiveArticle
	}

	rec.mu.Lock()
	if rec.current == nil {
		rec.mu.Unlock()
		return domain.NoActiveArticle
	}
	if rec.read {
		rec.mu.Unlock()
		return domain.AlreadyRead
	}
	rec.read = true
	cancelAll(rec.reminders)
	rec.reminders = nil
	snap := rec.snapshot(subscriberID)
	rec.mu.Unlock()

	s.persist(snap)
	return domain.Acknowledged
}

// CurrentArticle returns the subscriber's current article, if any.
func (s *Store) CurrentArticle(subscriberID int64) (domain.Article, bool) {
	rec := s.lookup(subscriberID)
	if rec == nil {
		return domain.Article{}, false
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.current == nil {
		return domain.Article{}, false
	}
	return *rec.current, true
}

// UnreadArticle returns the current article only while it is unread.
// The reminder path uses this as its atomic check-then-notify guard.
func (s *Store) UnreadArticle(subscriberID int64) (domain.Article, bool) {
	rec := s.lookup(subscriberID)
	if rec == nil {
		return domain.Article{}, false
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.current == nil || rec.read {
		return domain.Article{}, false
	}
	return *rec.current, true
}

// Subscribers lists all registered subscriber ids.
func (s *Store) Subscribers() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids
}

// Restore loads persisted snapshots into the store. Reminder handles are
// process-local and restart empty; the next delivery cycle recreates them.
func (s *Store) Restore(snaps []domain.SubscriptionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snap := range snaps {
		s.records[snap.SubscriberID] = &record{
			current: snap.Article,
			read:    snap.Read,
		}
	}
}

func (s *Store) getOrCreate(subscriberID int64) *record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[subscriberID]
	if !ok {
		rec = &record{}
		s.records[subscriberID] = rec
	}
	return rec
}

func (s *Store) lookup(subscriberID int64) *record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[subscriberID]
}

// persist runs outside the record lock so a slow snapshot write never
// stalls concurrent operations on the same subscriber.
func (s *Store) persist(snap domain.SubscriptionSnapshot) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(context.Background(), snap); err != nil && s.logger != nil {
		s.logger.Warn("snapshot save failed", "subscriber", snap.SubscriberID, "error", err)
	}
}

func (r *record) snapshot(subscriberID int64) domain.SubscriptionSnapshot {
	return domain.SubscriptionSnapshot{
		SubscriberID: subscriberID,
		Article:      r.current,
		Read:         r.read,
	}
}

func cancelAll(handles []domain.ReminderHandle) {
	for _, h := range handles {
		if h != nil {
			h.Cancel()
		}
	}
}
