// Package workdesc summarizes what a student actually did on a task, in a
// compact form a judge can read. Descriptions are judgment input only and
// are never persisted as a score.
package workdesc

import (
	"strings"

	"github.com/abhisek/gradewise/internal/task"
)

// Description is one of the per-category work summaries below.
type Description interface {
	work()
}

// TextWork describes a plain text response.
type TextWork struct {
	Kind     string `json:"kind"`
	Prompt   string `json:"prompt,omitempty"`
	Response string `json:"response"`
}

// PhotoCaptionWork describes a photo with a written explanation.
type PhotoCaptionWork struct {
	Kind        string          `json:"kind"`
	Prompt      string          `json:"prompt,omitempty"`
	Explanation string          `json:"explanation"`
	HasPhoto    bool            `json:"hasPhoto"`
	Photo       *task.PhotoMeta `json:"photo,omitempty"`
}

// PhotoWork describes photo-only, build-and-photograph and mime tasks.
type PhotoWork struct {
	Kind     string `json:"kind"`
	Prompt   string `json:"prompt,omitempty"`
	Text     string `json:"text"`
	HasPhoto bool   `json:"hasPhoto"`
}

// SpeechWork describes a spoken response. Audio is passed by reference.
type SpeechWork struct {
	Kind           string `json:"kind"`
	TargetText     string `json:"targetText"`
	RecognizedText string `json:"recognizedText"`
	AudioRef       string `json:"audioRef,omitempty"`
}

// CollaborativeWork passes team notes and artifacts through.
type CollaborativeWork struct {
	Kind      string   `json:"kind"`
	Prompt    string   `json:"prompt,omitempty"`
	TeamID    string   `json:"teamId,omitempty"`
	Notes     string   `json:"notes"`
	Artifacts []any    `json:"artifacts,omitempty"`
	Members   []string `json:"members,omitempty"`
}

// ConceptMapWork lists the nodes of a concept map or puzzle.
// ClientCompleted is what the client reported and is advisory only.
type ConceptMapWork struct {
	Kind            string     `json:"kind"`
	Prompt          string     `json:"prompt,omitempty"`
	Nodes           []NodeWork `json:"nodes"`
	ClientCompleted bool       `json:"clientCompleted"`
}

// NodeWork is one node of a ConceptMapWork.
type NodeWork struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	CorrectOrder *int   `json:"correctOrder,omitempty"`
	Placed       any    `json:"placed,omitempty"`
}

// GenericWork is the fallback for types without a dedicated summary.
type GenericWork struct {
	Kind      string `json:"kind"`
	Prompt    string `json:"prompt,omitempty"`
	RawAnswer any    `json:"rawAnswer"`
}

func (TextWork) work()          {}
func (PhotoCaptionWork) work()  {}
func (PhotoWork) work()         {}
func (SpeechWork) work()        {}
func (CollaborativeWork) work() {}
func (ConceptMapWork) work()    {}
func (GenericWork) work()       {}

// Build produces the work description for a submission. It never fails:
// absent or unexpected fields degrade to empty values.
func Build(def task.Definition, sub task.Submission) Description {
	kind := string(def.Type)

	switch def.Type.Category() {
	case task.CategoryText:
		return TextWork{
			Kind:     kind,
			Prompt:   def.Prompt,
			Response: BestText(sub.AsText()),
		}

	case task.CategoryPhotoCaption:
		view := sub.AsPhoto()
		explanation := firstNonEmpty(view.Caption, view.Explanation)
		if explanation == "" {
			explanation = BestText(view.TextAnswer)
		}
		return PhotoCaptionWork{
			Kind:        kind,
			Prompt:      def.Prompt,
			Explanation: explanation,
			HasPhoto:    hasPhoto(view),
			Photo:       view.PhotoMeta(),
		}

	case task.CategoryPhoto:
		view := sub.AsPhoto()
		return PhotoWork{
			Kind:     kind,
			Prompt:   def.Prompt,
			Text:     BestText(view.TextAnswer),
			HasPhoto: hasPhoto(view),
		}

	case task.CategorySpeech:
		view := sub.AsSpeech()
		return SpeechWork{
			Kind:           kind,
			TargetText:     firstNonEmpty(view.TargetText, def.Prompt),
			RecognizedText: firstNonEmpty(view.RecognizedText, view.Transcript),
			AudioRef:       firstNonEmpty(view.AudioURL, view.AudioRef),
		}

	case task.CategoryCollaborative:
		view := sub.AsTeam()
		return CollaborativeWork{
			Kind:      kind,
			Prompt:    def.Prompt,
			TeamID:    sub.TeamID,
			Notes:     view.Notes,
			Artifacts: view.Artifacts,
			Members:   view.Members,
		}

	case task.CategoryConceptMap:
		view := sub.AsPuzzle()
		cfg := def.ConceptMap()
		nodes := make([]NodeWork, 0, len(cfg.Nodes))
		for _, n := range cfg.Nodes {
			nodes = append(nodes, NodeWork{
				ID:           n.ID,
				Text:         n.Text,
				CorrectOrder: n.CorrectOrder,
				Placed:       view.Placement[n.ID],
			})
		}
		return ConceptMapWork{
			Kind:            kind,
			Prompt:          def.Prompt,
			Nodes:           nodes,
			ClientCompleted: view.Completed != nil && *view.Completed,
		}
	}

	return GenericWork{
		Kind:      kind,
		Prompt:    def.Prompt,
		RawAnswer: rawAnswer(sub),
	}
}

// BestText picks the most likely free-text field of a text answer.
func BestText(a task.TextAnswer) string {
	if s := firstNonEmpty(a.Response, a.Text); s != "" {
		return s
	}
	switch v := a.Answer.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	case map[string]any:
		if s, ok := v["text"].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return firstNonEmpty(a.Explanation, a.Caption, a.Notes)
}

var photoMarkers = []string{"[photo", "[image", "📷"}

func hasPhoto(a task.PhotoAnswer) bool {
	if a.HasPhoto != nil {
		return *a.HasPhoto
	}
	if a.PhotoMeta() != nil {
		return true
	}
	text := strings.ToLower(BestText(a.TextAnswer))
	for _, m := range photoMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func rawAnswer(sub task.Submission) any {
	if v, ok := sub.Payload["answer"]; ok {
		return v
	}
	if len(sub.Payload) == 0 {
		return nil
	}
	return sub.Payload
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
