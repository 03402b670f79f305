// Package analytics turns a finished session's scored submissions into
// per-task, per-team and per-student summaries plus class averages.
package analytics

import "github.com/abhisek/gradewise/internal/task"

// Session is the context an aggregation runs against.
type Session struct {
	ID     string            `json:"id"`
	Title  string            `json:"title,omitempty"`
	Tasks  []task.Definition `json:"tasks"`
	Teams  []Team            `json:"teams,omitempty"`
	Roster []Student         `json:"roster,omitempty"`
}

// Team is a group of students working together.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	Members []string `json:"members,omitempty"`
}

// Student is a roster entry.
type Student struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	TeamID string `json:"teamId,omitempty"`
}

// TaskSummary aggregates every submission for one task.
type TaskSummary struct {
	TaskID          string    `json:"taskId"`
	TaskType        task.Type `json:"taskType"`
	Title           string    `json:"title,omitempty"`
	TotalPoints     float64   `json:"totalPoints"`
	MaxPoints       float64   `json:"maxPoints"`
	CorrectCount    int       `json:"correctCount"`
	IncorrectCount  int       `json:"incorrectCount"`
	SubmissionCount int       `json:"submissionCount"`
	GradedCount     int       `json:"gradedCount"`
	TotalLatencyMs  int64     `json:"totalLatencyMs"`
	AvgScore        int       `json:"avgScore"`
	AvgCorrectPct   int       `json:"avgCorrectPct"`
	AvgLatencyMs    int64     `json:"avgLatencyMs"`
}

// TeamSummary aggregates every submission attributed to one team.
type TeamSummary struct {
	TeamID          string  `json:"teamId"`
	Name            string  `json:"name,omitempty"`
	TotalPoints     float64 `json:"totalPoints"`
	CorrectCount    int     `json:"correctCount"`
	IncorrectCount  int     `json:"incorrectCount"`
	SubmissionCount int     `json:"submissionCount"`
	AvgLatencyMs    int64   `json:"avgLatencyMs"`
}

// TaskAttempt is the best recorded attempt of a student at one task.
type TaskAttempt struct {
	TaskID       string      `json:"taskId"`
	SubmissionID string      `json:"submissionId,omitempty"`
	Points       float64     `json:"points"`
	MaxPoints    float64     `json:"maxPoints"`
	Method       task.Method `json:"method"`
	Graded       bool        `json:"graded"`
	Correct      *bool       `json:"correct,omitempty"`
	Attempts     int         `json:"attempts"`
}

// StudentSummary is one student's session result. Point totals and
// correctness come from the best attempt per task; latency covers every
// attempt.
type StudentSummary struct {
	StudentID      string        `json:"studentId"`
	Name           string        `json:"name,omitempty"`
	TeamID         string        `json:"teamId,omitempty"`
	TotalPoints    float64       `json:"totalPoints"`
	MaxPoints      float64       `json:"maxPoints"`
	ScorePct       int           `json:"scorePct"`
	AccuracyPct    int           `json:"accuracyPct"`
	TasksCompleted int           `json:"tasksCompleted"`
	TasksAssigned  int           `json:"tasksAssigned"`
	AvgLatencyMs   int64         `json:"avgLatencyMs"`
	PerTask        []TaskAttempt `json:"perTask"`
}

// SessionAnalytics holds the class-level figures.
type SessionAnalytics struct {
	SessionID            string        `json:"sessionId"`
	ClassAverageScore    int           `json:"classAverageScore"`
	ClassAverageAccuracy int           `json:"classAverageAccuracy"`
	Tasks                []TaskSummary `json:"tasks"`
	Teams                []TeamSummary `json:"teams"`
}

// Result is the full output of Aggregate.
type Result struct {
	Session  SessionAnalytics `json:"session"`
	Students []StudentSummary `json:"students"`
}
