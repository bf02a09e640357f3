package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"ArticleCourier/internal/domain"
	"ArticleCourier/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS subscriptions (
	subscriber_id INTEGER PRIMARY KEY,
	article       TEXT,
	read          INTEGER NOT NULL DEFAULT 0,
	updated_at    TEXT NOT NULL
);`

// SQLiteSnapshots persists subscription snapshots to a local SQLite file
// so subscriber state survives a restart. Reminder handles are process
// state and are intentionally absent from the schema.
type SQLiteSnapshots struct {
	db *sql.DB
}

var _ ports.SnapshotRepository = (*SQLiteSnapshots)(nil)

// Open creates or opens the snapshot database at path.
func Open(path string) (*SQLiteSnapshots, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init snapshot schema: %w", err)
	}
	return &SQLiteSnapshots{db: db}, nil
}

// Save upserts one subscriber snapshot.
func (s *SQLiteSnapshots) Save(ctx context.Context, snap domain.SubscriptionSnapshot) error {
	var article sql.NullString
	if snap.Article != nil {
		raw, err := json.Marshal(snap.Article)
		if err != nil {
			return fmt.Errorf("marshal article: %w", err)
		}
		article = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := sq.Insert("subscriptions").
		Columns("subscriber_id", "article", "read", "updated_at").
		Values(snap.SubscriberID, article, snap.Read, time.Now().UTC().Format(time.RFC3339)).
		Suffix(`ON CONFLICT(subscriber_id) DO UPDATE SET
			article = excluded.article,
			read = excluded.read,
			updated_at = excluded.updated_at`).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// LoadAll returns every persisted subscriber snapshot.
func (s *SQLiteSnapshots) LoadAll(ctx context.Context) ([]domain.SubscriptionSnapshot, error) {
	rows, err := sq.Select("subscriber_id", "article", "read").
		From("subscriptions").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []domain.SubscriptionSnapshot
	for rows.Next() {
		var (
			snap    domain.SubscriptionSnapshot
			article sql.NullString
		)
		if err := rows.Scan(&snap.SubscriberID, &article, &snap.Read); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if article.Valid {
			var art domain.Article
			if err := json.Unmarshal([]byte(article.String), &art); err != nil {
				return nil, fmt.Errorf("unmarshal article for %d: %w", snap.SubscriberID, err)
			}
			snap.Article = &art
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snaps, nil
}

// Close releases the database handle.
func (s *SQLiteSnapshots) Close() error {
	return s.db.Close()
}
