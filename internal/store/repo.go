package store

import (
	"context"
	"time"

	"github.com/abhisek/gradewise/internal/analytics"
	"github.com/abhisek/gradewise/internal/task"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match when set
}

// LLMRequestEventData captures the data for a single judgment service call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLMRequestEventData.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to judgment call events.
type EventRepo interface {
	// AppendLLMRequest records a judgment service call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// ScoreRecord is one persisted scoring outcome.
type ScoreRecord struct {
	ID           int
	Sequence     int64
	SessionID    string
	SubmissionID string
	TaskID       string
	StudentID    string
	Result       task.ScoreResult
	ScoredAt     time.Time
}

// ScoreRepo stores per-submission score results.
type ScoreRepo interface {
	// SaveScore upserts the result for a submission.
	SaveScore(ctx context.Context, rec ScoreRecord) error

	// ScoresForSession returns the session's records in sequence order.
	ScoresForSession(ctx context.Context, sessionID string) ([]ScoreRecord, error)
}

// AnalyticsRun is a point-in-time capture of a session's analytics.
type AnalyticsRun struct {
	ID        string
	SessionID string
	Sequence  int64
	Timestamp time.Time
	Result    analytics.Result
}

// AnalyticsRepo manages stored analytics runs.
type AnalyticsRepo interface {
	// Save stores a new run and assigns its ID when empty.
	Save(ctx context.Context, run *AnalyticsRun) error

	// Latest returns the most recent run for a session, or nil if none exist.
	Latest(ctx context.Context, sessionID string) (*AnalyticsRun, error)

	// Sessions lists session ids that have at least one run, newest first.
	Sessions(ctx context.Context) ([]string, error)

	// Prune deletes all but the N most recent runs of a session.
	Prune(ctx context.Context, sessionID string, keep int) error
}
