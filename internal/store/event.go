package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out one monotonic sequence shared by every table.
// Judgment events, score results and analytics runs live in separate
// tables, so their row ids cannot say which came first; the sequence can.
// The mutex serializes within the process; the transaction takes the
// write lock before reading, which keeps other processes out.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and seeds its row.
func newSequenceCounter(ctx context.Context, db *sql.DB) (*sequenceCounter, error) {
	q, args := builder.Insert(globalSequenceTable.Name).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	tx, err := sc.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer tx.Rollback()

	q, args := builder.Update(globalSequenceTable.Name).
		Add("next_val", 1).
		Where(entsql.EQ("id", 1)).
		Query()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	var next int64
	q, args = builder.Select("next_val").
		From(builder.Table(globalSequenceTable.Name)).
		Where(entsql.EQ("id", 1)).
		Query()
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return next - 1, nil
}

// Timestamps are stored as Unix milliseconds in UTC.
func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
