package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions, migrated by ent on Open. Timestamps are Unix
// milliseconds; score results and analytics are JSON documents.
var (
	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString, Default: ""},
		{Name: "model", Type: field.TypeString, Default: ""},
		{Name: "purpose", Type: field.TypeString, Default: ""},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Default: ""},
		{Name: "response_body", Type: field.TypeString, Default: ""},
	}
	llmEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_sequence", Columns: []*schema.Column{llmEventsColumns[1]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventsColumns[5]}},
		},
	}

	scoreResultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "session_id", Type: field.TypeString},
		{Name: "submission_id", Type: field.TypeString},
		{Name: "task_id", Type: field.TypeString, Default: ""},
		{Name: "student_id", Type: field.TypeString, Default: ""},
		{Name: "method", Type: field.TypeString},
		{Name: "result", Type: field.TypeString},
		{Name: "scored_at", Type: field.TypeInt64},
	}
	scoreResultsTable = &schema.Table{
		Name:       "score_results",
		Columns:    scoreResultsColumns,
		PrimaryKey: []*schema.Column{scoreResultsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "scoreresult_session_id_submission_id",
				Unique:  true,
				Columns: []*schema.Column{scoreResultsColumns[2], scoreResultsColumns[3]},
			},
		},
	}

	analyticsRunsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "session_id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "data", Type: field.TypeString},
	}
	analyticsRunsTable = &schema.Table{
		Name:       "analytics_runs",
		Columns:    analyticsRunsColumns,
		PrimaryKey: []*schema.Column{analyticsRunsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "analyticsrun_session_id_sequence",
				Columns: []*schema.Column{analyticsRunsColumns[1], analyticsRunsColumns[2]},
			},
		},
	}

	globalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	globalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    globalSequenceColumns,
		PrimaryKey: []*schema.Column{globalSequenceColumns[0]},
	}

	tables = []*schema.Table{
		llmEventsTable,
		scoreResultsTable,
		analyticsRunsTable,
		globalSequenceTable,
	}
)
