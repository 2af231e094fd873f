package config

import (
	"errors"
	"fmt"

	"github.com/forPelevin/sermonsearch/internal/domain/answer"
	"github.com/forPelevin/sermonsearch/internal/domain/query"
	"github.com/forPelevin/sermonsearch/internal/domain/relevance"
)

// Preset names.
const (
	PresetExcerpt    = "excerpt"
	PresetTimestamps = "timestamps"
	PresetNarrative  = "narrative"
)

// Engine lists every tunable of the search engine. Each historical variant of
// the app is one preset.
type Engine struct {
	TitleWeight         float64 `yaml:"title_weight" json:"title_weight"`
	PhraseWeight        float64 `yaml:"phrase_weight" json:"phrase_weight"`
	PerOccurrenceWeight float64 `yaml:"per_occurrence_weight" json:"per_occurrence_weight"`
	PerTermCap          float64 `yaml:"per_term_cap" json:"per_term_cap"`

	// ContextChars is the excerpt half-width around a match.
	ContextChars           int `yaml:"context_chars" json:"context_chars"`
	MaxExcerptsPerDocument int `yaml:"max_excerpts_per_document" json:"max_excerpts_per_document"`

	MinTermLength int      `yaml:"min_term_length" json:"min_term_length"`
	MinStemLength int      `yaml:"min_stem_length" json:"min_stem_length"`
	Stopwords     []string `yaml:"stopwords" json:"stopwords"`
	FramingWords  []string `yaml:"framing_words" json:"framing_words"`

	SegmentTermWeight    float64 `yaml:"segment_term_weight" json:"segment_term_weight"`
	SegmentContextBefore int     `yaml:"segment_context_before" json:"segment_context_before"`
	SegmentContextAfter  int     `yaml:"segment_context_after" json:"segment_context_after"`
	SegmentChars         int     `yaml:"segment_chars" json:"segment_chars"`
	MinSegmentGapSeconds int     `yaml:"min_segment_gap_seconds" json:"min_segment_gap_seconds"`
	MaxSegments          int     `yaml:"max_segments" json:"max_segments"`

	// Excerpts and Segments choose the display payload.
	Excerpts bool `yaml:"excerpts" json:"excerpts"`
	Segments bool `yaml:"segments" json:"segments"`
	// RequireSegments drops scored documents with no selected segment.
	RequireSegments bool `yaml:"require_segments" json:"require_segments"`

	Answer Answer `yaml:"answer" json:"answer"`
}

type Answer struct {
	Mode                     answer.Mode `yaml:"mode" json:"mode"`
	SummaryResults           int         `yaml:"summary_results" json:"summary_results"`
	SummaryPassagesPerResult int         `yaml:"summary_passages_per_result" json:"summary_passages_per_result"`
	SummaryMaxPassages       int         `yaml:"summary_max_passages" json:"summary_max_passages"`
	SummaryMaxChars          int         `yaml:"summary_max_chars" json:"summary_max_chars"`
	NarrativeResults         int         `yaml:"narrative_results" json:"narrative_results"`
	NarrativeExcerptChars    int         `yaml:"narrative_excerpt_chars" json:"narrative_excerpt_chars"`
	Templates                []string    `yaml:"templates" json:"templates"`
}

// DefaultStopwords are question framing, pronouns and speaker filler.
var DefaultStopwords = []string{
	"what", "does", "did", "do", "is", "are", "was", "were",
	"pastor", "bob", "teach", "about", "say", "think", "believe",
	"tell", "talk", "discuss", "mention", "explain", "the", "a", "an",
	"how", "why", "when", "where", "who", "which", "can", "could",
	"should", "would", "will", "me", "us", "you", "his", "her", "their",
}

// DefaultFramingWords are removed from the topic on top of the stopwords.
var DefaultFramingWords = []string{"teaches", "says", "think", "thinks", "views", "view", "on", "of", "regarding"}

func baseEngine() Engine {
	return Engine{
		MinStemLength:          4,
		ContextChars:           150,
		MaxExcerptsPerDocument: 3,
		SegmentTermWeight:      10,
		SegmentContextBefore:   2,
		SegmentContextAfter:    2,
		SegmentChars:           300,
		MinSegmentGapSeconds:   60,
		MaxSegments:            3,
		FramingWords:           append([]string(nil), DefaultFramingWords...),
		Answer: Answer{
			Mode:                     answer.ModeNone,
			SummaryResults:           3,
			SummaryPassagesPerResult: 2,
			SummaryMaxPassages:       5,
			SummaryMaxChars:          800,
			NarrativeResults:         5,
			NarrativeExcerptChars:    240,
		},
	}
}

// Presets returns fresh copies of the built-in presets.
func Presets() map[string]Engine {
	excerpt := baseEngine()
	excerpt.TitleWeight = 10
	excerpt.PhraseWeight = 5
	excerpt.PerOccurrenceWeight = 0.5
	excerpt.PerTermCap = 20
	excerpt.MinTermLength = 4
	excerpt.Excerpts = true

	timestamps := baseEngine()
	timestamps.PerOccurrenceWeight = 3
	timestamps.PerTermCap = 25
	timestamps.MinTermLength = 4
	timestamps.Stopwords = append([]string(nil), DefaultStopwords...)
	timestamps.Segments = true
	timestamps.RequireSegments = true
	timestamps.Answer.Mode = answer.ModeSummary

	narrative := baseEngine()
	narrative.TitleWeight = 30
	narrative.PhraseWeight = 20
	narrative.PerOccurrenceWeight = 2
	narrative.PerTermCap = 20
	narrative.MinTermLength = 5
	narrative.Stopwords = append([]string(nil), DefaultStopwords...)
	narrative.Excerpts = true
	narrative.Segments = true
	narrative.Answer.Mode = answer.ModeNarrative
	narrative.Answer.Templates = append([]string(nil), answer.DefaultTemplates...)

	return map[string]Engine{
		PresetExcerpt:    excerpt,
		PresetTimestamps: timestamps,
		PresetNarrative:  narrative,
	}
}

func (e Engine) Validate() error {
	var errs []error
	if e.TitleWeight < 0 || e.PhraseWeight < 0 || e.PerOccurrenceWeight < 0 || e.SegmentTermWeight < 0 {
		errs = append(errs, errors.New("weights must be >= 0"))
	}
	if e.PerOccurrenceWeight == 0 && e.TitleWeight == 0 && e.PhraseWeight == 0 {
		errs = append(errs, errors.New("at least one scoring weight must be > 0"))
	}
	if e.ContextChars < 0 {
		errs = append(errs, errors.New("context_chars must be >= 0"))
	}
	if e.MinTermLength < 0 || e.MinStemLength < 0 {
		errs = append(errs, errors.New("term lengths must be >= 0"))
	}
	if e.MinSegmentGapSeconds < 0 {
		errs = append(errs, errors.New("min_segment_gap_seconds must be >= 0"))
	}
	if e.Segments && e.MaxSegments <= 0 {
		errs = append(errs, errors.New("max_segments must be > 0 when segments are enabled"))
	}
	if e.RequireSegments && !e.Segments {
		errs = append(errs, errors.New("require_segments needs segments enabled"))
	}
	if !e.Excerpts && !e.Segments {
		errs = append(errs, errors.New("enable excerpts, segments or both"))
	}
	if !e.Answer.Mode.Valid() {
		errs = append(errs, fmt.Errorf("unknown answer mode %q", e.Answer.Mode))
	}
	return errors.Join(errs...)
}

func (e Engine) QueryOptions() query.Options {
	return query.Options{
		MinLength:     e.MinTermLength,
		MinStemLength: e.MinStemLength,
		Stopwords:     e.Stopwords,
		FramingWords:  e.FramingWords,
	}
}

func (e Engine) Weights() relevance.Weights {
	return relevance.Weights{
		Title:         e.TitleWeight,
		Phrase:        e.PhraseWeight,
		PerOccurrence: e.PerOccurrenceWeight,
		PerTermCap:    e.PerTermCap,
	}
}

func (e Engine) SegmentOptions() relevance.SegmentOptions {
	return relevance.SegmentOptions{
		TermWeight:    e.SegmentTermWeight,
		Before:        e.SegmentContextBefore,
		After:         e.SegmentContextAfter,
		MaxChars:      e.SegmentChars,
		MinGapSeconds: e.MinSegmentGapSeconds,
		MaxSegments:   e.MaxSegments,
	}
}

func (e Engine) AnswerOptions() answer.Options {
	a := e.Answer
	return answer.Options{
		Mode:                     a.Mode,
		SummaryResults:           a.SummaryResults,
		SummaryPassagesPerResult: a.SummaryPassagesPerResult,
		SummaryMaxPassages:       a.SummaryMaxPassages,
		SummaryMaxChars:          a.SummaryMaxChars,
		NarrativeResults:         a.NarrativeResults,
		NarrativeExcerptChars:    a.NarrativeExcerptChars,
		Templates:                a.Templates,
	}
}
