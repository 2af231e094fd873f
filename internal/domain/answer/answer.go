// Package answer stitches extracted passages into a short answer. It only
// rearranges source text; nothing is generated.
package answer

import (
	"strings"

	"github.com/forPelevin/sermonsearch/internal/domain/relevance"
	"github.com/forPelevin/sermonsearch/internal/types"
)

type Mode string

const (
	ModeNone      Mode = "none"
	ModeSummary   Mode = "summary"
	ModeNarrative Mode = "narrative"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeNone, ModeSummary, ModeNarrative, "":
		return true
	}
	return false
}

// Template placeholders.
const (
	TopicPlaceholder = "{topic}"
	TextPlaceholder  = "{text}"
)

// DefaultTemplates lead with the topic, then rotate through the rest.
var DefaultTemplates = []string{
	"On {topic}, Pastor teaches that {text}",
	"He emphasizes that {text}",
	"Additionally, {text}",
	"As explained, {text}",
}

type Options struct {
	Mode Mode

	SummaryResults           int
	SummaryPassagesPerResult int
	SummaryMaxPassages       int
	SummaryMaxChars          int

	NarrativeResults      int
	NarrativeExcerptChars int
	// Templates are connector sentences. The first one is used once, for
	// the first passage, and should carry TopicPlaceholder.
	Templates []string
}

// Synthesize composes the answer for results according to opts.Mode.
func Synthesize(results []types.ScoredResult, topic string, opts Options) string {
	switch opts.Mode {
	case ModeSummary:
		return Summary(results, opts)
	case ModeNarrative:
		return Narrative(results, topic, opts)
	default:
		return ""
	}
}

// Summary concatenates the leading passages of the top results and
// hard-truncates the total.
func Summary(results []types.ScoredResult, opts Options) string {
	var passages []string
	for _, r := range head(results, opts.SummaryResults) {
		for _, p := range head(r.Passages(), opts.SummaryPassagesPerResult) {
			if p = strings.TrimSpace(p); p != "" {
				passages = append(passages, p)
			}
		}
	}
	passages = head(passages, opts.SummaryMaxPassages)
	out := strings.TrimSpace(strings.Join(passages, " "))
	if out == "" {
		return ""
	}
	if opts.SummaryMaxChars > 0 && len([]rune(out)) > opts.SummaryMaxChars {
		out = string([]rune(out)[:opts.SummaryMaxChars]) + relevance.Ellipsis
	}
	return out
}

// Narrative takes one short passage per top result and joins them under the
// connector templates.
func Narrative(results []types.ScoredResult, topic string, opts Options) string {
	tpls := opts.Templates
	if len(tpls) == 0 {
		tpls = DefaultTemplates
	}
	topic = strings.TrimSpace(topic)

	var pieces []string
	for _, r := range head(results, opts.NarrativeResults) {
		ps := r.Passages()
		if len(ps) == 0 {
			continue
		}
		text := relevance.StripEllipsis(ps[0])
		text = relevance.StripEllipsis(relevance.Shorten(text, opts.NarrativeExcerptChars))
		if text == "" {
			continue
		}
		rep := strings.NewReplacer(TopicPlaceholder, topic, TextPlaceholder, text)
		pieces = append(pieces, terminate(rep.Replace(connector(tpls, len(pieces)))))
	}
	return strings.Join(pieces, " ")
}

// connector returns the template for the i-th piece.
func connector(tpls []string, i int) string {
	if i == 0 || len(tpls) == 1 {
		return tpls[0]
	}
	return tpls[1+(i-1)%(len(tpls)-1)]
}

func terminate(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ",;:")
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}

func head[T any](s []T, n int) []T {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
