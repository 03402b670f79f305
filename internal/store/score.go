package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// scoreRepo implements ScoreRepo. Results are stored as JSON so that
// details survive unchanged.
type scoreRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *scoreRepo) SaveScore(ctx context.Context, rec ScoreRecord) error {
	if rec.SessionID == "" || rec.SubmissionID == "" {
		return fmt.Errorf("save score: session and submission ids are required")
	}

	blob, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("marshal score result: %w", err)
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	scoredAt := rec.ScoredAt
	if scoredAt.IsZero() {
		scoredAt = time.Now()
	}

	q, args := builder.Insert(scoreResultsTable.Name).
		Columns("sequence", "session_id", "submission_id", "task_id", "student_id", "method", "result", "scored_at").
		Values(seqNum, rec.SessionID, rec.SubmissionID, rec.TaskID, rec.StudentID,
			string(rec.Result.Method), string(blob), toMillis(scoredAt)).
		OnConflict(
			entsql.ConflictColumns("session_id", "submission_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save score result: %w", err)
	}
	return nil
}

func (r *scoreRepo) ScoresForSession(ctx context.Context, sessionID string) ([]ScoreRecord, error) {
	q, args := builder.Select("id", "sequence", "session_id", "submission_id",
		"task_id", "student_id", "result", "scored_at").
		From(builder.Table(scoreResultsTable.Name)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query score results: %w", err)
	}
	defer rows.Close()

	var out []ScoreRecord
	for rows.Next() {
		var rec ScoreRecord
		var blob string
		var ts int64
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.SessionID, &rec.SubmissionID,
			&rec.TaskID, &rec.StudentID, &blob, &ts); err != nil {
			return nil, fmt.Errorf("scan score result: %w", err)
		}
		if err := json.Unmarshal([]byte(blob), &rec.Result); err != nil {
			return nil, fmt.Errorf("unmarshal score result %d: %w", rec.ID, err)
		}
		rec.ScoredAt = fromMillis(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}
