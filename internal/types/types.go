package types

import "strings"

// Document is one transcript record. Fields are resolved to their defaults
// once, when the corpus is built.
type Document struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Date       string    `json:"date,omitempty"`
	URL        string    `json:"url"`
	WordCount  int       `json:"word_count"`
	Transcript string    `json:"transcript"`
	Segments   []Segment `json:"segments,omitempty"`

	lowerTitle      string
	lowerTranscript string
	folded          bool
}

type Segment struct {
	Time    string `json:"time"`
	Seconds int    `json:"seconds"`
	Text    string `json:"text"`
}

// LowerTitle returns the lower-cased title, computed at corpus build time
// when available.
func (d Document) LowerTitle() string {
	if d.folded {
		return d.lowerTitle
	}
	return strings.ToLower(d.Title)
}

// LowerTranscript returns the lower-cased transcript.
func (d Document) LowerTranscript() string {
	if d.folded {
		return d.lowerTranscript
	}
	return strings.ToLower(d.Transcript)
}

// ScoredResult is one ranked document with its display payload. It only
// lives for the duration of a search call.
type ScoredResult struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Date           *string         `json:"date"`
	URL            string          `json:"url"`
	WordCount      int             `json:"wordCount"`
	Score          float64         `json:"score"`
	Excerpts       []string        `json:"excerpts,omitempty"`
	Segments       []SegmentResult `json:"segments,omitempty"`
	RelevanceLabel string          `json:"relevanceLabel,omitempty"`
}

type SegmentResult struct {
	Time    string  `json:"time"`
	Seconds int     `json:"seconds"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
	Link    string  `json:"link,omitempty"`
}

// Passages returns the result's display texts, segments first.
func (r ScoredResult) Passages() []string {
	out := make([]string, 0, len(r.Segments)+len(r.Excerpts))
	for _, s := range r.Segments {
		out = append(out, s.Text)
	}
	if len(out) > 0 {
		return out
	}
	return append(out, r.Excerpts...)
}

type Response struct {
	Query          string         `json:"query"`
	TotalDocuments int            `json:"totalDocuments"`
	ResultsCount   int            `json:"resultsCount"`
	Results        []ScoredResult `json:"results"`
	Answer         string         `json:"answer,omitempty"`
}

type Stats struct {
	TotalDocuments          int     `json:"totalDocuments"`
	TotalWords              int     `json:"totalWords"`
	OldestDate              *string `json:"oldestDate"`
	NewestDate              *string `json:"newestDate"`
	AverageWordsPerDocument int     `json:"averageWordsPerDocument"`
}
