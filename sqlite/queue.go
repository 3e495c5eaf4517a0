package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/crawler"
)

var (
	_ crawler.URLQueue     = (*Queue)(nil)
	_ crawler.URLInserter  = (*Queue)(nil)
	_ crawler.URLCompleter = (*Queue)(nil)
)

// Queue is a persistent FIFO crawl frontier. Every URL is admitted at most
// once, keyed by its fingerprint, so a URL already crawled is never queued
// again. A URL moves from pending to claimed when dequeued and to done when
// completed; rows are never deleted.
type Queue struct {
	db *DB
}

// NewQueue creates a new Queue.
func NewQueue(db *DB) *Queue {
	return &Queue{db: db}
}

// NextURL claims the oldest pending URL. It returns crawler.ErrExhausted when
// nothing is pending.
func (q *Queue) NextURL(ctx context.Context) (string, error) {
	var url string
	err := q.db.QueryRowContext(ctx, `
		UPDATE queue
		SET state = 'claimed', claimed_at = ?
		WHERE seq = (SELECT seq FROM queue WHERE state = 'pending' ORDER BY seq LIMIT 1)
		RETURNING url
	`, time.Now().UTC().Format(timeFormat)).Scan(&url)

	if errors.Is(err, sql.ErrNoRows) {
		return "", crawler.ErrExhausted
	}
	if err != nil {
		return "", err
	}
	return url, nil
}

// Insert adds urls in order and returns how many were new. Empty strings,
// unparsable URLs and URLs seen before are skipped.
func (q *Queue) Insert(ctx context.Context, urls ...string) (int, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(timeFormat)
	added := 0
	for _, u := range urls {
		if u == "" {
			continue
		}
		fingerprint, err := crawler.Fingerprint(u)
		if err != nil {
			continue
		}

		result, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO queue (fingerprint, url, created_at) VALUES (?, ?, ?)",
			fingerprint, u, now)
		if err != nil {
			return 0, err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

// Pending returns the number of URLs waiting to be claimed.
func (q *Queue) Pending(ctx context.Context) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM queue WHERE state = 'pending'").Scan(&n)
	return n, err
}

// Complete marks a claimed URL as done so that Requeue leaves it alone.
// Completing a URL that is not claimed is a no-op.
func (q *Queue) Complete(ctx context.Context, url string) error {
	fingerprint, err := crawler.Fingerprint(url)
	if err != nil {
		return err
	}
	_, err = q.db.ExecContext(ctx,
		"UPDATE queue SET state = 'done', completed_at = ? WHERE fingerprint = ? AND state = 'claimed'",
		time.Now().UTC().Format(timeFormat), fingerprint)
	return err
}

// Done returns the number of completed URLs.
func (q *Queue) Done(ctx context.Context) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM queue WHERE state = 'done'").Scan(&n)
	return n, err
}

// Requeue returns claimed but unfinished URLs to the pending state so that an
// interrupted crawl can resume them. It returns the number of URLs requeued.
func (q *Queue) Requeue(ctx context.Context) (int, error) {
	result, err := q.db.ExecContext(ctx,
		"UPDATE queue SET state = 'pending', claimed_at = NULL WHERE state = 'claimed'")
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}
