package usecase

import (
	"sort"

	"github.com/forPelevin/sermonsearch/internal/types"
)

// Relevance labels, relative to the best score of a result set.
const (
	LabelHigh   = "high"
	LabelMedium = "medium"
	LabelLow    = "low"
)

// Rank sorts results by score descending, keeping input order for ties, and
// truncates to n. n <= 0 keeps everything.
func Rank(results []types.ScoredResult, n int) []types.ScoredResult {
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if n > 0 && len(results) > n {
		results = results[:n]
	}
	if results == nil {
		return []types.ScoredResult{}
	}
	return results
}

// Label sets RelevanceLabel on ranked results.
func Label(results []types.ScoredResult) {
	if len(results) == 0 {
		return
	}
	top := results[0].Score
	for i := range results {
		results[i].RelevanceLabel = label(results[i].Score, top)
	}
}

func label(score, top float64) string {
	if top <= 0 {
		return LabelLow
	}
	switch r := score / top; {
	case r >= 2.0/3.0:
		return LabelHigh
	case r >= 1.0/3.0:
		return LabelMedium
	default:
		return LabelLow
	}
}
