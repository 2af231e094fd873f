package relevance

import (
	"strings"
	"testing"

	"github.com/forPelevin/sermonsearch/internal/domain/query"
	"github.com/forPelevin/sermonsearch/internal/types"
)

var testWeights = Weights{Title: 10, Phrase: 5, PerOccurrence: 3, PerTermCap: 25}

func analyze(raw string) query.Terms {
	return query.Analyze(raw, query.Options{MinLength: 4, MinStemLength: 4})
}

func TestScore_Table(t *testing.T) {
	tests := []struct {
		name string
		doc  types.Document
		q    string
		want float64
	}{
		{"empty transcript", types.Document{Title: "Grace", Transcript: ""}, "grace", 0},
		{"blank transcript", types.Document{Title: "Grace", Transcript: "   "}, "grace", 0},
		{"no match", types.Document{Title: "Faith", Transcript: "hope and love"}, "grace", 0},
		{"title and frequency", types.Document{Title: "Grace", Transcript: "grace grace grace is a gift of grace"}, "grace", 10 + 12},
		{"capped", types.Document{Transcript: strings.Repeat("grace ", 20)}, "grace", 25},
		{"phrase", types.Document{Transcript: "the holy spirit moves"}, "holy spirit", 5 + 3 + 3},
		{"case insensitive", types.Document{Title: "GRACE", Transcript: "Grace"}, "grace", 10 + 3},
		{"no terms", types.Document{Title: "Grace", Transcript: "grace"}, "a an", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.doc, analyze(tt.q), testWeights); got != tt.want {
				t.Fatalf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_MonotonicAndPlateaus(t *testing.T) {
	terms := analyze("mercy")
	prev := -1.0
	var plateau int
	for n := 0; n <= 20; n++ {
		doc := types.Document{Transcript: "intro " + strings.Repeat("mercy ", n)}
		got := Score(doc, terms, testWeights)
		if got < prev {
			t.Fatalf("score decreased at %d occurrences: %v < %v", n, got, prev)
		}
		if got == prev {
			plateau++
		}
		if got > testWeights.PerTermCap {
			t.Fatalf("score %v exceeds cap at %d occurrences", got, n)
		}
		prev = got
	}
	if plateau == 0 {
		t.Fatalf("expected score to plateau at the cap")
	}
}

func TestScore_Uncapped(t *testing.T) {
	w := Weights{PerOccurrence: 0.5}
	doc := types.Document{Transcript: strings.Repeat("hope ", 100)}
	if got := Score(doc, analyze("hope"), w); got != 50 {
		t.Fatalf("Score = %v, want 50", got)
	}
}

func TestScore_Deterministic(t *testing.T) {
	doc := types.NewCorpus([]types.Document{{Title: "Prayer life", Transcript: "prayer changes things, keep praying"}}).At(0)
	terms := analyze("praying prayer")
	a := Score(doc, terms, testWeights)
	b := Score(doc, terms, testWeights)
	if a != b || a == 0 {
		t.Fatalf("expected stable nonzero score, got %v and %v", a, b)
	}
}
