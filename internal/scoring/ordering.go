package scoring

import (
	"github.com/abhisek/gradewise/internal/task"
)

// scoreSort awards points/itemCount for every item dropped into its
// expected bucket.
func scoreSort(def task.Definition, sub task.Submission) task.ScoreResult {
	points := def.PointValue()
	cfg := def.Arrangement()
	mapping := sub.AsSort().Buckets()

	if len(mapping) == 0 {
		return ruleResult(0, points, map[string]any{
			"reason": "no bucket mapping submitted",
		})
	}
	if len(cfg.Items) == 0 {
		return ruleResult(0, points, map[string]any{
			"reason": "task has no items to sort",
		})
	}

	perItem := points / float64(len(cfg.Items))
	var score float64
	correct := 0
	for _, item := range cfg.Items {
		if item.BucketIndex == nil {
			continue
		}
		submitted, ok := mapping[item.ID]
		if !ok || submitted == nil {
			continue
		}
		bucket, ok := resolveBucket(submitted, cfg)
		if ok && bucket == *item.BucketIndex {
			score += perItem
			correct++
		}
	}

	return ruleResult(score, points, map[string]any{
		"itemCount":         len(cfg.Items),
		"correctPlacements": correct,
		"perItemCredit":     perItem,
	})
}

// resolveBucket coerces a submitted bucket to its numeric index. Non-numeric
// values are looked up by bucket id.
func resolveBucket(v any, cfg task.ArrangementConfig) (float64, bool) {
	if n, ok := coerceNumber(v); ok {
		return n, true
	}
	if id, ok := v.(string); ok {
		if idx, ok := cfg.BucketIndexOf(id); ok {
			return float64(idx), true
		}
	}
	return 0, false
}

// scoreOrdering awards points/itemCount for every item whose submitted
// position is exactly its expected position. Near misses earn nothing.
func scoreOrdering(def task.Definition, sub task.Submission) task.ScoreResult {
	points := def.PointValue()
	cfg := def.Arrangement()
	order := sub.AsOrder().Order

	if len(order) == 0 {
		return ruleResult(0, points, map[string]any{
			"reason": "no order submitted",
		})
	}

	position := make(map[string]int, len(order))
	for i, id := range order {
		if _, seen := position[id]; !seen {
			position[id] = i
		}
	}

	perItem := points / float64(len(cfg.Items))
	var score float64
	inPlace := make([]string, 0, len(cfg.Items))
	for want, item := range cfg.Items {
		if got, ok := position[item.ID]; ok && got == want {
			score += perItem
			inPlace = append(inPlace, item.ID)
		}
	}

	return ruleResult(score, points, map[string]any{
		"itemCount":     len(cfg.Items),
		"inPlace":       inPlace,
		"perItemCredit": perItem,
	})
}
