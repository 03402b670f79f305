package analytics

import (
	"math"

	"github.com/abhisek/gradewise/internal/task"
)

// Aggregate computes session analytics from the complete submission set of
// a session. Each submission carries its ScoreResult in Score; a nil score
// or method none counts as ungraded.
//
// Aggregate keeps only call-local state, so calling it twice with the same
// inputs gives identical results and concurrent calls are safe.
func Aggregate(session Session, subs []task.Submission) Result {
	a := newAggregator(session)
	for _, sub := range subs {
		a.add(sub)
	}
	return a.finalize()
}

type taskAccumulator struct {
	def       task.Definition
	points    float64
	maxPoints float64
	correct   int
	incorrect int
	count     int
	graded    int
	latencyMs int64
}

type teamAccumulator struct {
	team      Team
	points    float64
	correct   int
	incorrect int
	count     int
	latencyMs int64
}

type studentAccumulator struct {
	student   Student
	count     int
	latencyMs int64
	best      map[string]*TaskAttempt
	order     []string
}

// Accumulators keyed by task, team and student id.
type (
	taskAccumulators    map[string]*taskAccumulator
	teamAccumulators    map[string]*teamAccumulator
	studentAccumulators map[string]*studentAccumulator
)

type aggregator struct {
	session  Session
	tasks    taskAccumulators
	teams    teamAccumulators
	students studentAccumulators

	taskOrder    []string
	teamOrder    []string
	studentOrder []string

	// memberTeam maps student id to team id from roster and team lists.
	memberTeam map[string]string
}

func newAggregator(session Session) *aggregator {
	a := &aggregator{
		session:    session,
		tasks:      taskAccumulators{},
		teams:      teamAccumulators{},
		students:   studentAccumulators{},
		memberTeam: map[string]string{},
	}

	for _, def := range session.Tasks {
		a.taskFor(def.ID).def = def
	}
	for _, team := range session.Teams {
		a.teamFor(team.ID).team = team
		for _, m := range team.Members {
			if _, ok := a.memberTeam[m]; !ok {
				a.memberTeam[m] = team.ID
			}
		}
	}
	for _, st := range session.Roster {
		a.studentFor(st.ID).student = st
		if st.TeamID != "" {
			a.memberTeam[st.ID] = st.TeamID
		}
	}
	return a
}

func (a *aggregator) taskFor(id string) *taskAccumulator {
	acc, ok := a.tasks[id]
	if !ok {
		acc = &taskAccumulator{def: task.Definition{ID: id}}
		a.tasks[id] = acc
		a.taskOrder = append(a.taskOrder, id)
	}
	return acc
}

func (a *aggregator) teamFor(id string) *teamAccumulator {
	acc, ok := a.teams[id]
	if !ok {
		acc = &teamAccumulator{team: Team{ID: id}}
		a.teams[id] = acc
		a.teamOrder = append(a.teamOrder, id)
	}
	return acc
}

func (a *aggregator) studentFor(id string) *studentAccumulator {
	acc, ok := a.students[id]
	if !ok {
		acc = &studentAccumulator{
			student: Student{ID: id},
			best:    map[string]*TaskAttempt{},
		}
		a.students[id] = acc
		a.studentOrder = append(a.studentOrder, id)
	}
	return acc
}

func (a *aggregator) add(sub task.Submission) {
	ta := a.taskFor(sub.TaskID)
	graded := sub.Score != nil && sub.Score.Scored()
	var points float64
	if graded {
		points = sub.Score.Points()
	}
	maxPoints := resolveMax(ta.def, sub.Score)
	correct := correctness(sub.Score)

	ta.count++
	ta.latencyMs += sub.LatencyMs
	if graded {
		ta.graded++
		ta.points += points
		ta.maxPoints += maxPoints
	}
	tally(correct, &ta.correct, &ta.incorrect)

	if teamID := a.teamOf(sub); teamID != "" {
		tm := a.teamFor(teamID)
		tm.count++
		tm.latencyMs += sub.LatencyMs
		if graded {
			tm.points += points
		}
		tally(correct, &tm.correct, &tm.incorrect)
	}

	if sub.StudentID == "" {
		return
	}
	st := a.studentFor(sub.StudentID)
	st.count++
	st.latencyMs += sub.LatencyMs

	attempt := TaskAttempt{
		TaskID:       sub.TaskID,
		SubmissionID: sub.ID,
		Points:       points,
		MaxPoints:    maxPoints,
		Method:       task.MethodNone,
		Graded:       graded,
		Correct:      correct,
	}
	if sub.Score != nil {
		attempt.Method = sub.Score.Method
	}

	prev, ok := st.best[sub.TaskID]
	if !ok {
		attempt.Attempts = 1
		st.best[sub.TaskID] = &attempt
		st.order = append(st.order, sub.TaskID)
		return
	}
	prev.Attempts++
	if better(attempt, *prev) {
		attempt.Attempts = prev.Attempts
		*prev = attempt
	}
}

// better reports whether next should replace the recorded best attempt: a
// graded attempt beats an ungraded one, and among graded attempts only
// strictly more points wins.
func better(next, best TaskAttempt) bool {
	if next.Graded != best.Graded {
		return next.Graded
	}
	return next.Points > best.Points
}

func (a *aggregator) teamOf(sub task.Submission) string {
	if sub.TeamID != "" {
		return sub.TeamID
	}
	return a.memberTeam[sub.StudentID]
}

// resolveMax picks a submission's max-points contribution: the score's own
// max, else the task's point value, else the type default.
func resolveMax(def task.Definition, res *task.ScoreResult) float64 {
	if res != nil && res.MaxPoints != nil && *res.MaxPoints > 0 {
		return *res.MaxPoints
	}
	if def.Points != nil && *def.Points > 0 {
		return *def.Points
	}
	return def.Type.DefaultMaxPoints()
}

// correctness is known only for rule-based results at either extreme.
// Partial credit and judged scores are ambiguous.
func correctness(res *task.ScoreResult) *bool {
	if res == nil || res.Method != task.MethodRuleBased || res.Score == nil {
		return nil
	}
	maxPoints := res.Max()
	switch {
	case maxPoints > 0 && *res.Score >= maxPoints:
		return task.Bool(true)
	case *res.Score <= 0:
		return task.Bool(false)
	}
	return nil
}

func tally(correct *bool, yes, no *int) {
	if correct == nil {
		return
	}
	if *correct {
		*yes++
	} else {
		*no++
	}
}

func (a *aggregator) finalize() Result {
	out := Result{
		Session: SessionAnalytics{
			SessionID: a.session.ID,
			Tasks:     make([]TaskSummary, 0, len(a.taskOrder)),
			Teams:     make([]TeamSummary, 0, len(a.teamOrder)),
		},
		Students: make([]StudentSummary, 0, len(a.studentOrder)),
	}

	for _, id := range a.taskOrder {
		ta := a.tasks[id]
		out.Session.Tasks = append(out.Session.Tasks, TaskSummary{
			TaskID:          id,
			TaskType:        ta.def.Type,
			Title:           ta.def.Title,
			TotalPoints:     round2(ta.points),
			MaxPoints:       round2(ta.maxPoints),
			CorrectCount:    ta.correct,
			IncorrectCount:  ta.incorrect,
			SubmissionCount: ta.count,
			GradedCount:     ta.graded,
			TotalLatencyMs:  ta.latencyMs,
			AvgScore:        percent(ta.points, ta.maxPoints),
			AvgCorrectPct:   percent(float64(ta.correct), float64(ta.correct+ta.incorrect)),
			AvgLatencyMs:    meanLatency(ta.latencyMs, ta.count),
		})
	}

	for _, id := range a.teamOrder {
		tm := a.teams[id]
		out.Session.Teams = append(out.Session.Teams, TeamSummary{
			TeamID:          id,
			Name:            tm.team.Name,
			TotalPoints:     round2(tm.points),
			CorrectCount:    tm.correct,
			IncorrectCount:  tm.incorrect,
			SubmissionCount: tm.count,
			AvgLatencyMs:    meanLatency(tm.latencyMs, tm.count),
		})
	}

	assigned := len(a.session.Tasks)
	if assigned == 0 {
		assigned = len(a.taskOrder)
	}

	var scoreRatios, accuracyRatios []float64
	for _, id := range a.studentOrder {
		st := a.students[id]
		sum := StudentSummary{
			StudentID:      id,
			Name:           st.student.Name,
			TeamID:         st.student.TeamID,
			TasksCompleted: len(st.order),
			TasksAssigned:  assigned,
			AvgLatencyMs:   meanLatency(st.latencyMs, st.count),
			PerTask:        make([]TaskAttempt, 0, len(st.order)),
		}
		if sum.TeamID == "" {
			sum.TeamID = a.memberTeam[id]
		}

		var points, maxPoints float64
		var correct, incorrect int
		for _, taskID := range st.order {
			best := *st.best[taskID]
			sum.PerTask = append(sum.PerTask, best)
			if best.Graded {
				points += best.Points
				maxPoints += best.MaxPoints
			}
			tally(best.Correct, &correct, &incorrect)
		}
		sum.TotalPoints = round2(points)
		sum.MaxPoints = round2(maxPoints)
		sum.ScorePct = percent(points, maxPoints)
		sum.AccuracyPct = percent(float64(correct), float64(correct+incorrect))

		if maxPoints > 0 {
			scoreRatios = append(scoreRatios, points/maxPoints)
		}
		if correct+incorrect > 0 {
			accuracyRatios = append(accuracyRatios, float64(sum.AccuracyPct)/100)
		}
		out.Students = append(out.Students, sum)
	}

	out.Session.ClassAverageScore = int(math.Round(100 * mean(scoreRatios)))
	out.Session.ClassAverageAccuracy = int(math.Round(100 * mean(accuracyRatios)))
	return out
}

func percent(num, den float64) int {
	if den <= 0 {
		return 0
	}
	return int(math.Round(100 * num / den))
}

func meanLatency(total int64, n int) int64 {
	if n == 0 {
		return 0
	}
	return int64(math.Round(float64(total) / float64(n)))
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
