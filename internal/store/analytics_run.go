package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// analyticsRepo implements AnalyticsRepo. Each run is a JSON document.
type analyticsRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *analyticsRepo) Save(ctx context.Context, run *AnalyticsRun) error {
	if run.SessionID == "" {
		return fmt.Errorf("save analytics: session id is required")
	}

	data, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("marshal analytics: %w", err)
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	run.Sequence = seqNum

	q, args := builder.Insert(analyticsRunsTable.Name).
		Columns("id", "session_id", "sequence", "timestamp", "data").
		Values(run.ID, run.SessionID, run.Sequence, toMillis(run.Timestamp), string(data)).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save analytics run: %w", err)
	}
	return nil
}

func (r *analyticsRepo) Latest(ctx context.Context, sessionID string) (*AnalyticsRun, error) {
	q, args := builder.Select("id", "session_id", "sequence", "timestamp", "data").
		From(builder.Table(analyticsRunsTable.Name)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()

	var run AnalyticsRun
	var ts int64
	var data string
	err := r.db.QueryRowContext(ctx, q, args...).
		Scan(&run.ID, &run.SessionID, &run.Sequence, &ts, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest analytics: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &run.Result); err != nil {
		return nil, fmt.Errorf("unmarshal analytics run %s: %w", run.ID, err)
	}
	run.Timestamp = fromMillis(ts)
	return &run, nil
}

func (r *analyticsRepo) Sessions(ctx context.Context) ([]string, error) {
	q, args := builder.Select("session_id").
		From(builder.Table(analyticsRunsTable.Name)).
		GroupBy("session_id").
		OrderBy(entsql.Desc(entsql.Max("sequence"))).
		Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query analytics sessions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan analytics session: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *analyticsRepo) Prune(ctx context.Context, sessionID string, keep int) error {
	// The newest run beyond the kept window marks where deletion starts.
	q, args := builder.Select("sequence").
		From(builder.Table(analyticsRunsTable.Name)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Offset(keep).
		Query()

	var threshold int64
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep runs exist
	}
	if err != nil {
		return fmt.Errorf("query analytics for prune: %w", err)
	}

	q, args = builder.Delete(analyticsRunsTable.Name).
		Where(entsql.And(
			entsql.EQ("session_id", sessionID),
			entsql.LTE("sequence", threshold),
		)).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("prune analytics: %w", err)
	}
	return nil
}
