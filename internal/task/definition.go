package task

import (
	"fmt"
)

// DefaultPoints is the point value of a task that declares none.
const DefaultPoints = 1.0

// Definition is a task as authored by the teacher. It is owned upstream and
// treated as read-only by the engine.
type Definition struct {
	ID     string `json:"id"`
	Type   Type   `json:"taskType"`
	Title  string `json:"title,omitempty"`
	Prompt string `json:"prompt,omitempty"`

	// Points is the per-question point value. Nil means unset.
	Points *float64 `json:"points,omitempty"`

	// CorrectAnswer is absent, a primitive, or a []any of accepted answers.
	CorrectAnswer any    `json:"correctAnswer,omitempty"`
	Options       []any  `json:"options,omitempty"`
	Items         []Item `json:"items,omitempty"`

	// Config holds type-specific settings (arrangement items, buckets,
	// discovery targets, concept-map nodes).
	Config map[string]any `json:"config,omitempty"`

	AIScoringRequired *bool `json:"aiScoringRequired,omitempty"`
}

// Item is one sub-question of a multi-item task.
type Item struct {
	ID            string `json:"id,omitempty"`
	Prompt        string `json:"prompt,omitempty"`
	CorrectAnswer any    `json:"correctAnswer,omitempty"`
	Options       []any  `json:"options,omitempty"`
}

// Meta returns the scoring metadata of the task's type.
func (d Definition) Meta() Meta {
	return MetaFor(d.Type)
}

// PointsOr returns the task's point value, or def when it is unset or not
// a usable denominator.
func (d Definition) PointsOr(def float64) float64 {
	if d.Points == nil || *d.Points <= 0 {
		return def
	}
	return *d.Points
}

// PointValue returns the task's point value with the standard default of 1.
func (d Definition) PointValue() float64 {
	return d.PointsOr(DefaultPoints)
}

// HasAnswerKey reports whether a correct answer exists anywhere on the task:
// top level, on any item, or as arrangement items in the config. Discovery
// tasks always have one, since their target count has a default.
func (d Definition) HasAnswerKey() bool {
	if d.Type.Category() == CategoryDiscovery {
		return true
	}
	if d.CorrectAnswer != nil {
		return true
	}
	for _, it := range d.Items {
		if it.CorrectAnswer != nil {
			return true
		}
	}
	switch d.Type.Category() {
	case CategorySort:
		for _, it := range d.Arrangement().Items {
			if it.BucketIndex != nil {
				return true
			}
		}
	case CategoryOrdering:
		return len(d.Arrangement().Items) > 0
	}
	return false
}

// ArrangementConfig is the config view of sort and ordering tasks. Items
// are listed in their intended correct order.
type ArrangementConfig struct {
	Items   []ArrangementItem `json:"items"`
	Buckets []Bucket          `json:"buckets"`
}

// ArrangementItem is one draggable item of a sort or ordering task.
type ArrangementItem struct {
	ID          string   `json:"id"`
	Label       string   `json:"label,omitempty"`
	BucketIndex *float64 `json:"bucketIndex,omitempty"`
}

// Bucket is a drop target of a sort task.
type Bucket struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// BucketIndexOf resolves a bucket id to its position in Buckets.
func (c ArrangementConfig) BucketIndexOf(id string) (int, bool) {
	for i, b := range c.Buckets {
		if b.ID != "" && b.ID == id {
			return i, true
		}
	}
	return 0, false
}

// DiscoveryConfig is the config view of "find N things" tasks.
type DiscoveryConfig struct {
	TotalTargets *float64 `json:"totalTargets,omitempty"`
}

// DefaultTotalTargets is used when a discovery task does not say how many
// targets there are.
const DefaultTotalTargets = 5.0

// Total returns the configured target count or the default.
func (c DiscoveryConfig) Total() float64 {
	if c.TotalTargets == nil {
		return DefaultTotalTargets
	}
	return *c.TotalTargets
}

// ConceptMapConfig is the config view of concept-map and puzzle tasks.
type ConceptMapConfig struct {
	Nodes []Node `json:"nodes"`
}

// Node is a concept-map node or puzzle piece.
type Node struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	CorrectOrder *int   `json:"correctOrder,omitempty"`
}

// Arrangement decodes the config as an ArrangementConfig.
func (d Definition) Arrangement() ArrangementConfig {
	return decodeView[ArrangementConfig](d.Config)
}

// Discovery decodes the config as a DiscoveryConfig.
func (d Definition) Discovery() DiscoveryConfig {
	return decodeView[DiscoveryConfig](d.Config)
}

// ConceptMap decodes the config as a ConceptMapConfig.
func (d Definition) ConceptMap() ConceptMapConfig {
	return decodeView[ConceptMapConfig](d.Config)
}

// Rubric is an externally supplied scoring guide. TotalPoints is the hard
// ceiling for any judged score.
type Rubric struct {
	TotalPoints float64     `json:"totalPoints"`
	Criteria    []Criterion `json:"criteria"`
}

// Criterion is one weighted line of a rubric.
type Criterion struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	MaxPoints   float64 `json:"maxPoints"`
	Description string  `json:"description,omitempty"`
}

// Validate checks that the rubric can bound a score.
func (r *Rubric) Validate() error {
	if r == nil {
		return fmt.Errorf("rubric is nil")
	}
	if r.TotalPoints <= 0 {
		return fmt.Errorf("rubric totalPoints must be > 0, got %v", r.TotalPoints)
	}
	return nil
}
