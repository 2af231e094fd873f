// Package relevance scores transcripts against query terms and extracts the
// passages shown for a match.
package relevance

import (
	"strings"

	"github.com/forPelevin/sermonsearch/internal/domain/query"
	"github.com/forPelevin/sermonsearch/internal/types"
)

type Weights struct {
	// Title is added once per term found in the title.
	Title float64
	// Phrase is added when the first two query words appear together.
	Phrase float64
	// PerOccurrence is multiplied by a term's transcript count.
	PerOccurrence float64
	// PerTermCap bounds one term's frequency contribution. Zero or less
	// means uncapped.
	PerTermCap float64
}

// Score returns the relevance of doc for terms. It is a pure function of its
// inputs; a document without a transcript always scores 0.
func Score(doc types.Document, terms query.Terms, w Weights) float64 {
	transcript := doc.LowerTranscript()
	if strings.TrimSpace(transcript) == "" || terms.Empty() {
		return 0
	}
	title := doc.LowerTitle()

	var score float64
	for _, term := range terms.List {
		if w.Title != 0 && strings.Contains(title, term) {
			score += w.Title
		}
		score += frequency(strings.Count(transcript, term), w)
	}
	if p := terms.Phrase(); p != "" && w.Phrase != 0 && strings.Contains(transcript, p) {
		score += w.Phrase
	}
	return clamp(score, 0)
}

func frequency(n int, w Weights) float64 {
	v := float64(n) * w.PerOccurrence
	if w.PerTermCap > 0 && v > w.PerTermCap {
		return w.PerTermCap
	}
	return v
}

func clamp(x, lo float64) float64 {
	if x < lo {
		return lo
	}
	return x
}
