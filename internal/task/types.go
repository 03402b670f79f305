package task

// Type is the task-type tag carried by every task definition.
type Type string

const (
	TypeMultipleChoice Type = "multiple-choice"
	TypeTrueFalse      Type = "true-false"
	TypeShortAnswer    Type = "short-answer"
	TypeFillBlank      Type = "fill-in-blank"
	TypeQuiz           Type = "quiz"

	TypeSort Type = "sort"

	TypeSequence Type = "sequence"
	TypeTimeline Type = "timeline"

	TypeSpotDifference Type = "spot-the-difference"
	TypeScavengerCount Type = "scavenger-count"

	TypeOpenResponse Type = "open-response"
	TypeReflection   Type = "reflection"

	TypePhotoExplain Type = "photo-explain"

	TypePhotoHunt  Type = "photo-hunt"
	TypeBuildPhoto Type = "build-and-photograph"
	TypeMime       Type = "mime"

	TypeReadAloud     Type = "read-aloud"
	TypePronunciation Type = "pronunciation"

	TypeTeamChallenge Type = "team-challenge"

	TypeConceptMap Type = "concept-map"
	TypePuzzle     Type = "puzzle"
)

// Category groups task types that share a submission shape and a scoring path.
type Category string

const (
	CategoryChoice        Category = "choice"
	CategorySort          Category = "sort"
	CategoryOrdering      Category = "ordering"
	CategoryDiscovery     Category = "discovery"
	CategoryText          Category = "text"
	CategoryPhotoCaption  Category = "photo-caption"
	CategoryPhoto         Category = "photo"
	CategorySpeech        Category = "speech"
	CategoryCollaborative Category = "collaborative"
	CategoryConceptMap    Category = "concept-map"
	CategoryGeneric       Category = "generic"
)

// Default max points used by analytics when a score carries none and the
// task has no point value.
const (
	ObjectiveDefaultMaxPoints     = 10
	ParticipationDefaultMaxPoints = 5
)

// Meta describes how a task type is scored.
type Meta struct {
	Category Category

	// Objective types have a definable correct answer and are eligible for
	// rule-based scoring.
	Objective bool

	// JudgmentDefault is the type-level answer to "does this need an
	// external judgment?". Nil means the type has no opinion and the
	// dispatcher infers it.
	JudgmentDefault *bool
}

var (
	yes = true
	no  = false
)

var registry = map[Type]Meta{
	TypeMultipleChoice: {Category: CategoryChoice, Objective: true},
	TypeTrueFalse:      {Category: CategoryChoice, Objective: true},
	TypeShortAnswer:    {Category: CategoryChoice, Objective: true},
	TypeFillBlank:      {Category: CategoryChoice, Objective: true},
	TypeQuiz:           {Category: CategoryChoice, Objective: true},

	TypeSort:     {Category: CategorySort, Objective: true},
	TypeSequence: {Category: CategoryOrdering, Objective: true},
	TypeTimeline: {Category: CategoryOrdering, Objective: true},

	TypeSpotDifference: {Category: CategoryDiscovery, Objective: true, JudgmentDefault: &no},
	TypeScavengerCount: {Category: CategoryDiscovery, Objective: true, JudgmentDefault: &no},

	TypeOpenResponse: {Category: CategoryText, JudgmentDefault: &yes},
	TypeReflection:   {Category: CategoryText, JudgmentDefault: &yes},

	TypePhotoExplain: {Category: CategoryPhotoCaption, JudgmentDefault: &yes},

	TypePhotoHunt:  {Category: CategoryPhoto, JudgmentDefault: &yes},
	TypeBuildPhoto: {Category: CategoryPhoto, JudgmentDefault: &yes},
	TypeMime:       {Category: CategoryPhoto, JudgmentDefault: &yes},

	TypeReadAloud:     {Category: CategorySpeech, JudgmentDefault: &yes},
	TypePronunciation: {Category: CategorySpeech, JudgmentDefault: &yes},

	TypeTeamChallenge: {Category: CategoryCollaborative},

	TypeConceptMap: {Category: CategoryConceptMap, JudgmentDefault: &yes},
	TypePuzzle:     {Category: CategoryConceptMap, JudgmentDefault: &yes},
}

// MetaFor returns the scoring metadata for a type. Unknown types are
// generic, non-objective and carry no judgment default.
func MetaFor(t Type) Meta {
	if m, ok := registry[t]; ok {
		return m
	}
	return Meta{Category: CategoryGeneric}
}

// Category returns the category of the type.
func (t Type) Category() Category {
	return MetaFor(t).Category
}

// Known reports whether t is one of the registered task types.
func (t Type) Known() bool {
	_, ok := registry[t]
	return ok
}

// DefaultMaxPoints is the analytics fallback for a submission whose score
// and task carry no point value.
func (t Type) DefaultMaxPoints() float64 {
	if MetaFor(t).Objective {
		return ObjectiveDefaultMaxPoints
	}
	return ParticipationDefaultMaxPoints
}
