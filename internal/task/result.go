package task

// Method records how a score was produced.
type Method string

const (
	MethodRuleBased Method = "rule-based"
	MethodAIRubric  Method = "ai-rubric"
	MethodNone      Method = "none"
)

// ScoreResult is the outcome of scoring one submission. It is immutable
// once returned.
//
// Invariants: 0 <= Score <= MaxPoints, and Method == MethodNone implies
// Score == nil.
type ScoreResult struct {
	Score     *float64       `json:"score"`
	MaxPoints *float64       `json:"maxPoints"`
	Method    Method         `json:"method"`
	Details   map[string]any `json:"details,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

// Scored reports whether the result carries a numeric score.
func (r ScoreResult) Scored() bool {
	return r.Method != MethodNone && r.Score != nil
}

// Points returns the awarded points, 0 when unscored.
func (r ScoreResult) Points() float64 {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

// Max returns the max points, 0 when absent.
func (r ScoreResult) Max() float64 {
	if r.MaxPoints == nil {
		return 0
	}
	return *r.MaxPoints
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
