package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestConformResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "valid",
			raw:  `{"score":3,"maxPoints":5,"reason":"ok"}`,
			want: `{"score":3,"maxPoints":5,"reason":"ok"}`,
		},
		{
			name: "fenced",
			raw:  "```json\n{\"score\":3,\"maxPoints\":5,\"reason\":\"ok\"}\n```",
			want: `{"score":3,"maxPoints":5,"reason":"ok"}`,
		},
		{
			name: "bare fence with padding",
			raw:  "  ```\n{\"score\":0,\"maxPoints\":5,\"reason\":\"\"}\n```  ",
			want: `{"score":0,"maxPoints":5,"reason":""}`,
		},
		{name: "missing field", raw: `{"score":3}`, wantErr: true},
		{name: "wrong type", raw: `{"score":"3","maxPoints":5,"reason":"x"}`, wantErr: true},
		{name: "negative score", raw: `{"score":-1,"maxPoints":5,"reason":"x"}`, wantErr: true},
		{name: "not json", raw: `three points`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conformResponse(scoreSchema(), json.RawMessage(tt.raw))
			if tt.wantErr {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("err = %v, want ErrInvalidResponse", err)
				}
				if string(inv.Content) != tt.raw {
					t.Errorf("invalid content = %q, want %q", inv.Content, tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("conformResponse: %v", err)
			}
			checkJSON(t, tt.want, got)
		})
	}
}

func TestConformResponse_NilSchema(t *testing.T) {
	got, err := conformResponse(nil, json.RawMessage("anything"))
	if err != nil {
		t.Fatalf("conformResponse: %v", err)
	}
	if string(got) != "anything" {
		t.Errorf("got %q, want content unchanged", got)
	}
}

func TestGetCompiledSchema_Cached(t *testing.T) {
	s := scoreSchema()
	first, err := getCompiledSchema(s)
	if err != nil {
		t.Fatalf("first compile: %v", err)
	}
	second, err := getCompiledSchema(s)
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}
	if first != second {
		t.Error("expected the cached compiled schema to be reused")
	}
}
