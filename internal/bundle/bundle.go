// Package bundle loads the documents the CLI scores: single tasks,
// submissions and rubrics, or a whole session bundle. Documents may be
// written in YAML or JSON and use the same field names either way.
package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/gradewise/internal/analytics"
	"github.com/abhisek/gradewise/internal/scoring"
	"github.com/abhisek/gradewise/internal/task"
)

// Bundle is a session with its submissions and per-task rubrics.
type Bundle struct {
	Session     analytics.Session       `json:"session"`
	Submissions []task.Submission       `json:"submissions"`
	Rubrics     map[string]*task.Rubric `json:"rubrics,omitempty"`
}

// Load reads a session bundle from path.
func Load(path string) (*Bundle, error) {
	var b Bundle
	if err := Decode(path, &b); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &b, nil
}

// Validate checks that the bundle is internally consistent.
func (b *Bundle) Validate() error {
	if b.Session.ID == "" {
		return fmt.Errorf("session id is required")
	}
	seen := make(map[string]bool, len(b.Session.Tasks))
	for i, def := range b.Session.Tasks {
		if def.ID == "" {
			return fmt.Errorf("task %d has no id", i)
		}
		if seen[def.ID] {
			return fmt.Errorf("duplicate task id %q", def.ID)
		}
		seen[def.ID] = true
	}
	subs := make(map[string]bool, len(b.Submissions))
	for i, sub := range b.Submissions {
		if sub.ID == "" {
			return fmt.Errorf("submission %d has no id", i)
		}
		if subs[sub.ID] {
			return fmt.Errorf("duplicate submission id %q", sub.ID)
		}
		subs[sub.ID] = true
		if !seen[sub.TaskID] {
			return fmt.Errorf("submission %q references unknown task %q", sub.ID, sub.TaskID)
		}
	}
	for id, r := range b.Rubrics {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rubric for task %q: %w", id, err)
		}
	}
	return nil
}

// Task returns the task definition with the given id.
func (b *Bundle) Task(id string) (task.Definition, bool) {
	for _, def := range b.Session.Tasks {
		if def.ID == id {
			return def, true
		}
	}
	return task.Definition{}, false
}

// Jobs returns scoring jobs for the bundle's submissions. Submissions that
// already carry a score are skipped unless rescore is set.
func (b *Bundle) Jobs(rescore bool) []scoring.Job {
	var jobs []scoring.Job
	for _, sub := range b.Submissions {
		if sub.Score != nil && !rescore {
			continue
		}
		def, _ := b.Task(sub.TaskID)
		if sub.SessionID == "" {
			sub.SessionID = b.Session.ID
		}
		jobs = append(jobs, scoring.Job{
			Task:       def,
			Submission: sub,
			Rubric:     b.Rubrics[sub.TaskID],
		})
	}
	return jobs
}

// Apply records scoring outcomes on the matching submissions. Failed
// outcomes leave the submission unscored.
func (b *Bundle) Apply(outcomes []scoring.Outcome) {
	index := make(map[string]int, len(b.Submissions))
	for i, sub := range b.Submissions {
		index[sub.ID] = i
	}
	for _, o := range outcomes {
		i, ok := index[o.Submission.ID]
		if !ok || o.Err != nil {
			continue
		}
		res := o.Result
		b.Submissions[i].Score = &res
	}
}

// Restore attaches previously stored results, keyed by submission id, to
// submissions that carry no score yet. It returns how many were attached.
func (b *Bundle) Restore(stored map[string]task.ScoreResult) int {
	n := 0
	for i := range b.Submissions {
		if b.Submissions[i].Score != nil {
			continue
		}
		if res, ok := stored[b.Submissions[i].ID]; ok {
			b.Submissions[i].Score = &res
			n++
		}
	}
	return n
}

// Decode reads the document at path into out. Files ending in .yaml or
// .yml are parsed as YAML; everything else as JSON.
func Decode(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, out)
	default:
		err = decodeJSON(data, out)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// decodeYAML parses YAML into a generic tree and re-encodes it as JSON so
// the json field tags apply to both formats.
func decodeYAML(data []byte, out any) error {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	return decodeJSON(raw, out)
}

// decodeJSON keeps numbers in payloads as float64, matching what clients
// send over the wire.
func decodeJSON(data []byte, out any) error {
	return json.NewDecoder(bytes.NewReader(data)).Decode(out)
}
