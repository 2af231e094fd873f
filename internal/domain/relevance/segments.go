package relevance

import (
	"sort"
	"strings"

	"github.com/forPelevin/sermonsearch/internal/domain/timecode"
	"github.com/forPelevin/sermonsearch/internal/types"
)

type SegmentOptions struct {
	// TermWeight is multiplied by each term's count in a segment.
	TermWeight float64
	// Before and After are how many neighbouring segments join the window.
	Before int
	After  int
	// MaxChars truncates the window text, in runes. Zero keeps it whole.
	MaxChars int
	// MinGapSeconds is the spacing every selected pair must exceed.
	MinGapSeconds int
	MaxSegments   int
}

// SelectSegments picks up to MaxSegments well-spaced, context-expanded
// segments of doc ranked by local term density, returned in timeline order.
// Window text is deep-linked against doc.URL.
func SelectSegments(doc types.Document, terms []string, opts SegmentOptions) []types.SegmentResult {
	segs := doc.Segments
	if len(segs) == 0 || len(terms) == 0 || opts.MaxSegments <= 0 {
		return nil
	}

	var cands []types.SegmentResult
	for i, s := range segs {
		score := segmentScore(strings.ToLower(s.Text), terms, opts.TermWeight)
		if score <= 0 {
			continue
		}
		label := s.Time
		if strings.TrimSpace(label) == "" {
			label = timecode.Label(s.Seconds)
		}
		cands = append(cands, types.SegmentResult{
			Time:    label,
			Seconds: s.Seconds,
			Text:    window(segs, i, opts),
			Score:   score,
			Link:    timecode.DeepLink(doc.URL, s.Seconds),
		})
	}
	if len(cands) == 0 {
		return nil
	}

	// Stable so equal scores keep timeline order.
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Score > cands[j].Score })

	selected := make([]types.SegmentResult, 0, opts.MaxSegments)
	for _, c := range cands {
		if !spaced(c.Seconds, selected, opts.MinGapSeconds) {
			continue
		}
		selected = append(selected, c)
		if len(selected) >= opts.MaxSegments {
			break
		}
	}

	sort.SliceStable(selected, func(i, j int) bool { return selected[i].Seconds < selected[j].Seconds })
	return selected
}

func segmentScore(lower string, terms []string, weight float64) float64 {
	var score float64
	for _, t := range terms {
		score += float64(strings.Count(lower, t)) * weight
	}
	return score
}

func window(segs []types.Segment, i int, opts SegmentOptions) string {
	from := max(0, i-max(0, opts.Before))
	to := min(len(segs), i+max(0, opts.After)+1)
	parts := make([]string, 0, to-from)
	for _, s := range segs[from:to] {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	text := strings.Join(parts, " ")
	if opts.MaxChars > 0 {
		text = strings.TrimSpace(truncateRunes(text, opts.MaxChars))
	}
	return text
}

func spaced(sec int, selected []types.SegmentResult, gap int) bool {
	for _, s := range selected {
		d := sec - s.Seconds
		if d < 0 {
			d = -d
		}
		if d <= gap {
			return false
		}
	}
	return true
}
