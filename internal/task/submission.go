package task

import "time"

// Submission is one student attempt at one task. The envelope is fixed; the
// payload shape depends on the task category and is read through the
// typed views below.
type Submission struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId,omitempty"`
	TaskID      string    `json:"taskId"`
	StudentID   string    `json:"studentId"`
	TeamID      string    `json:"teamId,omitempty"`
	LatencyMs   int64     `json:"latencyMs,omitempty"`
	SubmittedAt time.Time `json:"submittedAt,omitzero"`

	Payload map[string]any `json:"payload,omitempty"`

	// Score is the per-submission result, when already computed.
	Score *ScoreResult `json:"score,omitempty"`
}

// ChoiceAnswer is the view of choice, boolean, text and multi-item tasks.
type ChoiceAnswer struct {
	Answer  any   `json:"answer"`
	Answers []any `json:"answers"`
}

// SortAnswer is the view of bucket-sort tasks. Clients send either key.
type SortAnswer struct {
	Mapping     map[string]any `json:"mapping"`
	Assignments map[string]any `json:"assignments"`
}

// Buckets returns the submitted item id → bucket mapping, preferring
// Mapping over Assignments.
func (a SortAnswer) Buckets() map[string]any {
	if len(a.Mapping) > 0 {
		return a.Mapping
	}
	return a.Assignments
}

// OrderAnswer is the view of ordering and timeline tasks.
type OrderAnswer struct {
	Order []string `json:"order"`
}

// DiscoveryAnswer is the view of "find N things" tasks.
type DiscoveryAnswer struct {
	FoundCount *float64 `json:"foundCount"`
}

// PuzzleAnswer is the view of concept-map and puzzle tasks. Completed is
// reported by the client and is advisory.
type PuzzleAnswer struct {
	Completed *bool          `json:"completed"`
	Placement map[string]any `json:"placement"`
}

// TextAnswer is the view of free-text responses. Different clients use
// different field names for the same thing.
type TextAnswer struct {
	Response    string `json:"response"`
	Text        string `json:"text"`
	Answer      any    `json:"answer"`
	Explanation string `json:"explanation"`
	Caption     string `json:"caption"`
	Notes       string `json:"notes"`
}

// PhotoAnswer is the view of photo tasks.
type PhotoAnswer struct {
	TextAnswer `json:",squash"`

	HasPhoto *bool  `json:"hasPhoto"`
	Photo    any    `json:"photo"`
	PhotoURL string `json:"photoUrl"`
}

// PhotoMeta extracts the non-binary photo description, or nil when the
// submission carries no photo reference at all.
func (a PhotoAnswer) PhotoMeta() *PhotoMeta {
	var meta PhotoMeta
	switch p := a.Photo.(type) {
	case string:
		meta.URL = p
	case map[string]any:
		meta.Filename = firstString(p, "filename", "name")
		meta.MimeType = firstString(p, "mimetype", "mimeType", "type")
		meta.URL = firstString(p, "url", "uri", "src")
		if n, ok := p["size"].(float64); ok {
			meta.Size = n
		}
	}
	if meta.URL == "" {
		meta.URL = a.PhotoURL
	}
	if meta == (PhotoMeta{}) {
		return nil
	}
	return &meta
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// PhotoMeta is the non-binary description of an uploaded photo.
type PhotoMeta struct {
	Filename string  `json:"filename,omitempty"`
	MimeType string  `json:"mimetype,omitempty"`
	Size     float64 `json:"size,omitempty"`
	URL      string  `json:"url,omitempty"`
}

// SpeechAnswer is the view of spoken-response tasks.
type SpeechAnswer struct {
	TargetText     string `json:"targetText"`
	RecognizedText string `json:"recognizedText"`
	Transcript     string `json:"transcript"`
	AudioURL       string `json:"audioUrl"`
	AudioRef       string `json:"audioRef"`
}

// TeamAnswer is the view of collaborative tasks.
type TeamAnswer struct {
	Notes     string   `json:"notes"`
	Artifacts []any    `json:"artifacts"`
	Members   []string `json:"members"`
}

// AsChoice decodes the payload as a ChoiceAnswer.
func (s Submission) AsChoice() ChoiceAnswer { return decodeView[ChoiceAnswer](s.Payload) }

// AsSort decodes the payload as a SortAnswer.
func (s Submission) AsSort() SortAnswer { return decodeView[SortAnswer](s.Payload) }

// AsOrder decodes the payload as an OrderAnswer.
func (s Submission) AsOrder() OrderAnswer { return decodeView[OrderAnswer](s.Payload) }

// AsDiscovery decodes the payload as a DiscoveryAnswer.
func (s Submission) AsDiscovery() DiscoveryAnswer { return decodeView[DiscoveryAnswer](s.Payload) }

// AsPuzzle decodes the payload as a PuzzleAnswer.
func (s Submission) AsPuzzle() PuzzleAnswer { return decodeView[PuzzleAnswer](s.Payload) }

// AsText decodes the payload as a TextAnswer.
func (s Submission) AsText() TextAnswer { return decodeView[TextAnswer](s.Payload) }

// AsPhoto decodes the payload as a PhotoAnswer.
func (s Submission) AsPhoto() PhotoAnswer { return decodeView[PhotoAnswer](s.Payload) }

// AsSpeech decodes the payload as a SpeechAnswer.
func (s Submission) AsSpeech() SpeechAnswer { return decodeView[SpeechAnswer](s.Payload) }

// AsTeam decodes the payload as a TeamAnswer.
func (s Submission) AsTeam() TeamAnswer { return decodeView[TeamAnswer](s.Payload) }
