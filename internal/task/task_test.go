package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeRegistry(t *testing.T) {
	tests := []struct {
		typ       Type
		category  Category
		objective bool
		max       float64
	}{
		{TypeMultipleChoice, CategoryChoice, true, 10},
		{TypeSort, CategorySort, true, 10},
		{TypeTimeline, CategoryOrdering, true, 10},
		{TypeScavengerCount, CategoryDiscovery, true, 10},
		{TypeReflection, CategoryText, false, 5},
		{TypePhotoExplain, CategoryPhotoCaption, false, 5},
		{TypeMime, CategoryPhoto, false, 5},
		{TypePronunciation, CategorySpeech, false, 5},
		{TypeTeamChallenge, CategoryCollaborative, false, 5},
		{TypePuzzle, CategoryConceptMap, false, 5},
		{Type("interpretive-dance"), CategoryGeneric, false, 5},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.category, tt.typ.Category())
			assert.Equal(t, tt.objective, MetaFor(tt.typ).Objective)
			assert.Equal(t, tt.max, tt.typ.DefaultMaxPoints())
		})
	}
	assert.False(t, Type("interpretive-dance").Known())
	assert.True(t, TypeQuiz.Known())
}

func TestPointsOr(t *testing.T) {
	assert.Equal(t, 1.0, Definition{}.PointValue())
	assert.Equal(t, 1.0, Definition{Points: Float(0)}.PointValue())
	assert.Equal(t, 4.0, Definition{Points: Float(4)}.PointValue())
	assert.Equal(t, 5.0, Definition{Points: Float(-2)}.PointsOr(5))
}

func TestHasAnswerKey(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
		want bool
	}{
		{"top level", Definition{Type: TypeShortAnswer, CorrectAnswer: "paris"}, true},
		{"item level", Definition{Type: TypeQuiz, Items: []Item{{}, {CorrectAnswer: "b"}}}, true},
		{"discovery default target", Definition{Type: TypeSpotDifference}, true},
		{"sort with bucket index", Definition{Type: TypeSort, Config: map[string]any{
			"items": []any{map[string]any{"id": "a", "bucketIndex": 1}},
		}}, true},
		{"sort without bucket index", Definition{Type: TypeSort, Config: map[string]any{
			"items": []any{map[string]any{"id": "a"}},
		}}, false},
		{"sequence items", Definition{Type: TypeSequence, Config: map[string]any{
			"items": []any{map[string]any{"id": "a"}},
		}}, true},
		{"open response", Definition{Type: TypeOpenResponse}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.def.HasAnswerKey())
		})
	}
}

func TestConfigViews(t *testing.T) {
	def := Definition{Config: map[string]any{
		"items": []any{
			map[string]any{"id": "frog", "label": "Frog", "bucketIndex": 0},
			map[string]any{"id": "oak", "bucketIndex": "1"},
		},
		"buckets": []any{
			map[string]any{"id": "animals"},
			map[string]any{"id": "plants"},
		},
		"totalTargets": 7,
		"nodes": []any{
			map[string]any{"id": "n1", "text": "Sun", "correctOrder": 1},
		},
	}}

	arr := def.Arrangement()
	require.Len(t, arr.Items, 2)
	require.NotNil(t, arr.Items[1].BucketIndex)
	assert.Equal(t, 1.0, *arr.Items[1].BucketIndex, "weakly typed input accepts numeric strings")
	idx, ok := arr.BucketIndexOf("plants")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	_, ok = arr.BucketIndexOf("rocks")
	assert.False(t, ok)

	assert.Equal(t, 7.0, def.Discovery().Total())
	assert.Equal(t, DefaultTotalTargets, Definition{}.Discovery().Total())

	nodes := def.ConceptMap().Nodes
	require.Len(t, nodes, 1)
	assert.Equal(t, 1, *nodes[0].CorrectOrder)
}

func TestMalformedConfigYieldsZeroView(t *testing.T) {
	def := Definition{Config: map[string]any{"items": "not a list"}}
	assert.Empty(t, def.Arrangement().Items)
}

func TestSubmissionViews(t *testing.T) {
	sub := Submission{Payload: map[string]any{
		"answer":      "b",
		"order":       []any{"c", "a", "b"},
		"foundCount":  3,
		"completed":   true,
		"assignments": map[string]any{"frog": "animals"},
		"explanation": "It shows roots.",
		"hasPhoto":    true,
		"photo":       map[string]any{"filename": "roots.jpg", "mimeType": "image/jpeg", "size": 2048.0},
		"transcript":  "the cat sat",
		"audioRef":    "blob:1",
		"members":     []any{"ana", "bo"},
	}}

	assert.Equal(t, "b", sub.AsChoice().Answer)
	assert.Equal(t, []string{"c", "a", "b"}, sub.AsOrder().Order)
	assert.Equal(t, 3.0, *sub.AsDiscovery().FoundCount)
	assert.True(t, *sub.AsPuzzle().Completed)
	assert.Equal(t, map[string]any{"frog": "animals"}, sub.AsSort().Buckets())
	assert.Equal(t, "the cat sat", sub.AsSpeech().Transcript)
	assert.Equal(t, []string{"ana", "bo"}, sub.AsTeam().Members)

	photo := sub.AsPhoto()
	assert.Equal(t, "It shows roots.", photo.Explanation)
	require.NotNil(t, photo.HasPhoto)
	assert.Equal(t, &PhotoMeta{Filename: "roots.jpg", MimeType: "image/jpeg", Size: 2048}, photo.PhotoMeta())
}

func TestSortAnswerPrefersMapping(t *testing.T) {
	a := SortAnswer{
		Mapping:     map[string]any{"x": 1},
		Assignments: map[string]any{"x": 2},
	}
	assert.Equal(t, map[string]any{"x": 1}, a.Buckets())
}

func TestPhotoMeta(t *testing.T) {
	assert.Nil(t, PhotoAnswer{}.PhotoMeta())
	assert.Equal(t, "https://cdn/x.png", PhotoAnswer{Photo: "https://cdn/x.png"}.PhotoMeta().URL)
	assert.Equal(t, "https://cdn/y.png", PhotoAnswer{PhotoURL: "https://cdn/y.png"}.PhotoMeta().URL)
}

func TestScoreResultAccessors(t *testing.T) {
	r := ScoreResult{Score: Float(3), MaxPoints: Float(5), Method: MethodRuleBased}
	assert.True(t, r.Scored())
	assert.Equal(t, 3.0, r.Points())
	assert.Equal(t, 5.0, r.Max())

	none := ScoreResult{Method: MethodNone}
	assert.False(t, none.Scored())
	assert.Zero(t, none.Points())
	assert.Zero(t, none.Max())
}

func TestRubricValidate(t *testing.T) {
	var nilRubric *Rubric
	assert.Error(t, nilRubric.Validate())
	assert.Error(t, (&Rubric{}).Validate())
	assert.NoError(t, (&Rubric{TotalPoints: 5}).Validate())
}
