// Package judge scores open-ended work against a rubric by asking an
// external judgment service.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/abhisek/gradewise/internal/llm"
	"github.com/abhisek/gradewise/internal/task"
)

// Purpose labels judgment calls in the event log.
const Purpose = "rubric-judgment"

// Config holds request settings for the judgment service.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one judgment including provider retries. Zero leaves
	// the caller's deadline alone.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   512,
		Temperature: 0.2,
	}
}

// Scorer asks an llm.Provider to score work against a rubric.
type Scorer struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Scorer backed by provider.
func New(provider llm.Provider, cfg Config) *Scorer {
	return &Scorer{provider: provider, cfg: cfg}
}

// Input is everything the judgment service sees for one submission.
type Input struct {
	Task   task.Definition
	Rubric *task.Rubric
	// Work is the normalized work description, usually a workdesc value.
	Work any
	// TotalPoints overrides Rubric.TotalPoints when positive.
	TotalPoints *float64
}

func (in Input) total() float64 {
	if in.TotalPoints != nil && *in.TotalPoints > 0 {
		return *in.TotalPoints
	}
	if in.Rubric != nil {
		return in.Rubric.TotalPoints
	}
	return 0
}

// ErrNoRubric is returned when there is neither a rubric nor a positive
// total to score against.
var ErrNoRubric = errors.New("judge: rubric with positive total points is required")

// judgmentOutput is the raw reply. Score is left untyped so a numeric
// string still counts.
type judgmentOutput struct {
	Score     any    `json:"score"`
	MaxPoints any    `json:"maxPoints"`
	Reason    string `json:"reason"`
}

// Score requests a judgment and returns a result clamped to [0, total].
// A malformed reply degrades to a zero score. Transport and service
// failures are returned wrapped.
func (s *Scorer) Score(ctx context.Context, in Input) (task.ScoreResult, error) {
	total := in.total()
	if in.Rubric == nil || total <= 0 {
		return task.ScoreResult{}, ErrNoRubric
	}

	ctx, cancel := llm.WithCallTimeout(llm.WithPurpose(ctx, Purpose), s.cfg.Timeout)
	defer cancel()

	userMsg, err := buildJudgmentMessage(in, total)
	if err != nil {
		return task.ScoreResult{}, fmt.Errorf("build judgment prompt: %w", err)
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: judgmentSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      JudgmentSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})

	var raw judgmentOutput
	var invalid *llm.ErrInvalidResponse
	switch {
	case errors.As(err, &invalid):
		slog.Debug("judgment reply failed validation", "task", in.Task.ID, "error", err)
		raw = parseLoose(invalid.Content)
	case err != nil:
		return task.ScoreResult{}, fmt.Errorf("judgment request failed: %w", err)
	default:
		raw = parseLoose(resp.Content)
	}

	score, _ := coerce(raw.Score)
	return task.ScoreResult{
		Score:     task.Float(clampScore(score, total)),
		MaxPoints: task.Float(total),
		Method:    task.MethodAIRubric,
		Reason:    strings.TrimSpace(raw.Reason),
	}, nil
}

// parseLoose extracts a judgment from content that may be wrapped in a
// code fence, surrounded by prose, or encoded as a JSON string. Anything
// it cannot read yields an empty judgment.
func parseLoose(content json.RawMessage) judgmentOutput {
	var out judgmentOutput
	if len(content) == 0 {
		return out
	}
	if json.Unmarshal(content, &out) == nil {
		return out
	}

	text := string(content)
	var s string
	if json.Unmarshal(content, &s) == nil {
		text = s
	}
	text = stripFence(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		slog.Debug("judgment reply has no JSON object", "content", truncate(text, 200))
		return judgmentOutput{}
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		slog.Debug("judgment reply is not valid JSON", "error", err)
		return judgmentOutput{}
	}
	return out
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.Index(s, "\n"); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}

func coerce(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func clampScore(v, total float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > total {
		return total
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

const judgmentSystemPrompt = `You are an experienced classroom teacher grading student work against a rubric.

Instructions:
- Score the work using only the rubric criteria provided.
- The score must be a number within the expected score range.
- Set maxPoints to the rubric total.
- Younger students write briefly. Score fairly but generously when in doubt.
- Keep the reason to one or two sentences addressed to the teacher.`

var judgmentUserTemplate = template.Must(template.New("judgment").Parse(`Task type: {{.TaskType}}
Task title: {{.Title}}
Task prompt: {{.Prompt}}

Rubric:
{{.Rubric}}

Student work:
{{.Work}}

Expected score range: [0, {{.Total}}]`))

type judgmentPrompt struct {
	TaskType string
	Title    string
	Prompt   string
	Rubric   string
	Work     string
	Total    string
}

func buildJudgmentMessage(in Input, total float64) (string, error) {
	rubric, err := json.MarshalIndent(in.Rubric, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode rubric: %w", err)
	}
	work, err := json.MarshalIndent(in.Work, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode work: %w", err)
	}

	var buf bytes.Buffer
	err = judgmentUserTemplate.Execute(&buf, judgmentPrompt{
		TaskType: string(in.Task.Type),
		Title:    in.Task.Title,
		Prompt:   in.Task.Prompt,
		Rubric:   string(rubric),
		Work:     string(work),
		Total:    strconv.FormatFloat(total, 'f', -1, 64),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
