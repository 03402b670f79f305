package scoring

import (
	"math"

	"github.com/abhisek/gradewise/internal/task"
)

// ScoreByRules scores a submission against the task's answer key. The second
// return value is false when the task is not objectively scorable, in which
// case the caller must decide whether to ask for a judgment instead.
//
// Rule-based scoring is a pure function of its inputs.
func ScoreByRules(def task.Definition, sub task.Submission) (task.ScoreResult, bool) {
	meta := def.Meta()
	if !meta.Objective || !def.HasAnswerKey() {
		return task.ScoreResult{}, false
	}

	switch meta.Category {
	case task.CategoryChoice:
		if len(def.Items) > 0 {
			return scoreItems(def, sub), true
		}
		return scoreSingle(def, sub), true
	case task.CategorySort:
		return scoreSort(def, sub), true
	case task.CategoryOrdering:
		return scoreOrdering(def, sub), true
	case task.CategoryDiscovery:
		return scoreDiscovery(def, sub), true
	}
	return task.ScoreResult{}, false
}

// candidates expands a correct answer into every value that should be
// accepted for it. A numeric answer that indexes into options accepts both
// the index and the option text.
func candidates(correct any, options []any) []any {
	if list, ok := correct.([]any); ok {
		return list
	}
	if n, ok := asNumber(correct); ok && n == math.Trunc(n) {
		idx := int(n)
		if idx >= 0 && idx < len(options) {
			return []any{n, options[idx]}
		}
	}
	return []any{correct}
}

func matchesAny(answer any, accepted []any) bool {
	for _, c := range accepted {
		if matches(answer, Normalize(c)) {
			return true
		}
	}
	return false
}

func scoreSingle(def task.Definition, sub task.Submission) task.ScoreResult {
	points := def.PointValue()
	answer := Normalize(sub.AsChoice().Answer)
	accepted := candidates(def.CorrectAnswer, def.Options)

	if answer == nil {
		return ruleResult(0, points, map[string]any{
			"reason":   "no answer submitted",
			"accepted": accepted,
		})
	}

	var score float64
	matched := matchesAny(answer, accepted)
	if matched {
		score = points
	}
	return ruleResult(score, points, map[string]any{
		"matched":   matched,
		"submitted": answer,
		"accepted":  accepted,
	})
}

func scoreItems(def task.Definition, sub task.Submission) task.ScoreResult {
	points := def.PointValue()
	maxPoints := points * float64(len(def.Items))

	view := sub.AsChoice()
	answers := view.Answers
	if len(answers) == 0 {
		if list, ok := view.Answer.([]any); ok {
			answers = list
		}
	}

	var score float64
	correct, skipped := 0, 0
	perItem := make([]bool, len(def.Items))
	for i, item := range def.Items {
		var answer any
		if i < len(answers) {
			answer = Normalize(answers[i])
		}
		if answer == nil || item.CorrectAnswer == nil {
			skipped++
			continue
		}
		if matchesAny(answer, candidates(item.CorrectAnswer, item.Options)) {
			score += points
			correct++
			perItem[i] = true
		}
	}

	return ruleResult(score, maxPoints, map[string]any{
		"itemCount":    len(def.Items),
		"correctItems": correct,
		"skippedItems": skipped,
		"perItem":      perItem,
	})
}

func scoreDiscovery(def task.Definition, sub task.Submission) task.ScoreResult {
	points := def.PointsOr(10)
	total := def.Discovery().Total()
	if total <= 0 {
		return ruleResult(0, points, map[string]any{
			"reason": "task has no targets to find",
		})
	}

	var found float64
	if fc := sub.AsDiscovery().FoundCount; fc != nil {
		found = *fc
	}
	ratio := clamp(found/total, 0, 1)
	return ruleResult(math.Round(ratio*points), points, map[string]any{
		"foundCount":   found,
		"totalTargets": total,
		"ratio":        ratio,
	})
}

// ruleResult builds a rule-based result. Fractional partial credit is
// rounded to two decimals here and nowhere earlier.
func ruleResult(score, maxPoints float64, details map[string]any) task.ScoreResult {
	return task.ScoreResult{
		Score:     task.Float(clamp(round2(score), 0, maxPoints)),
		MaxPoints: task.Float(maxPoints),
		Method:    task.MethodRuleBased,
		Details:   details,
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
