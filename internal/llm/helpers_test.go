package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

// scoreSchema mirrors the shape of a rubric judgment reply.
func scoreSchema() *Schema {
	return &Schema{
		Name:        "test-score",
		Description: "A rubric score",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"score":     map[string]any{"type": "number", "minimum": 0},
				"maxPoints": map[string]any{"type": "number"},
				"reason":    map[string]any{"type": "string"},
				"band":      map[string]any{"type": "string", "enum": []any{"low", "mid", "high"}},
			},
			"required": []any{"score", "maxPoints", "reason"},
		},
	}
}

func judgmentRequest() Request {
	return Request{
		System:    "You grade student work against a rubric.",
		Messages:  []Message{{Role: RoleUser, Content: "Rubric: 5 points. Work: plants need light."}},
		Schema:    scoreSchema(),
		MaxTokens: 256,
	}
}

func jsonServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server
}

// checkJSON fails the test unless got decodes to the same value as want.
func checkJSON(t *testing.T, want string, got []byte) {
	t.Helper()
	var w, g any
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("bad expected JSON %q: %v", want, err)
	}
	if err := json.Unmarshal(got, &g); err != nil {
		t.Fatalf("content is not JSON: %s", got)
	}
	if !reflect.DeepEqual(w, g) {
		t.Errorf("content = %s, want %s", got, want)
	}
}
