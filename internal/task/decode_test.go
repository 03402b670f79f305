package task

import "testing"

func TestDecodeView_MisshapenSiblingKeepsOtherFields(t *testing.T) {
	t.Run("puzzle", func(t *testing.T) {
		sub := Submission{Payload: map[string]any{
			"completed": true,
			"placement": []any{"n1", "n2", "n3"},
		}}
		got := sub.AsPuzzle()
		if got.Completed == nil || !*got.Completed {
			t.Fatalf("Completed = %v, want true", got.Completed)
		}
		if got.Placement != nil {
			t.Errorf("Placement = %v, want nil", got.Placement)
		}
	})

	t.Run("team", func(t *testing.T) {
		sub := Submission{Payload: map[string]any{
			"notes":     "We built a bridge out of straws.",
			"artifacts": []any{"photo-1"},
			"members":   []any{map[string]any{"id": "s1"}, map[string]any{"id": "s2"}},
		}}
		got := sub.AsTeam()
		if got.Notes != "We built a bridge out of straws." {
			t.Errorf("Notes = %q", got.Notes)
		}
		if len(got.Artifacts) != 1 {
			t.Errorf("Artifacts = %v, want 1 entry", got.Artifacts)
		}
		if got.Members != nil {
			t.Errorf("Members = %q, want nil rather than blank entries", got.Members)
		}
	})

	t.Run("speech", func(t *testing.T) {
		sub := Submission{Payload: map[string]any{
			"targetText":     "The cat sat.",
			"recognizedText": "the cat sat",
			"audioRef":       map[string]any{"bucket": "audio", "key": "a.wav"},
		}}
		got := sub.AsSpeech()
		if got.TargetText != "The cat sat." || got.RecognizedText != "the cat sat" {
			t.Errorf("got %+v, want target and recognized text kept", got)
		}
		if got.AudioRef != "" {
			t.Errorf("AudioRef = %q, want empty", got.AudioRef)
		}
	})
}

func TestDecodeView_WellFormed(t *testing.T) {
	sub := Submission{Payload: map[string]any{"completed": false, "placement": map[string]any{"n1": 0.0}}}
	got := sub.AsPuzzle()
	if got.Completed == nil || *got.Completed {
		t.Fatalf("Completed = %v, want false", got.Completed)
	}
	if got.Placement["n1"] != 0.0 {
		t.Errorf("Placement = %v", got.Placement)
	}
}
