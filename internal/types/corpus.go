package types

import (
	"sort"
	"strings"

	"github.com/forPelevin/sermonsearch/internal/domain/timecode"
)

// Corpus is the immutable, ordered set of documents shared by all searches.
// The zero value is an empty corpus.
type Corpus struct {
	docs []Document
}

// NewCorpus copies docs, resolves defaults and precomputes the lower-cased
// fields used by scoring. The input slice is not retained.
func NewCorpus(docs []Document) *Corpus {
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = normalize(d)
	}
	return &Corpus{docs: out}
}

func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.docs)
}

// At returns the i-th document. The returned Segments slice is shared and
// must be treated as read-only.
func (c *Corpus) At(i int) Document { return c.docs[i] }

// Stats summarizes word counts and the date range of the corpus.
func (c *Corpus) Stats() Stats {
	st := Stats{TotalDocuments: c.Len()}
	if st.TotalDocuments == 0 {
		return st
	}
	var dates []string
	for _, d := range c.docs {
		st.TotalWords += d.WordCount
		if d.Date != "" {
			dates = append(dates, d.Date)
		}
	}
	st.AverageWordsPerDocument = st.TotalWords / st.TotalDocuments
	if len(dates) > 0 {
		sort.Strings(dates)
		oldest, newest := dates[0], dates[len(dates)-1]
		st.OldestDate, st.NewestDate = &oldest, &newest
	}
	return st
}

func normalize(d Document) Document {
	d.ID = strings.TrimSpace(d.ID)
	d.Date = strings.TrimSpace(d.Date)
	if d.WordCount < 0 {
		d.WordCount = 0
	}
	if len(d.Segments) > 0 {
		segs := make([]Segment, len(d.Segments))
		copy(segs, d.Segments)
		for i := range segs {
			if segs[i].Seconds < 0 {
				segs[i].Seconds = 0
			}
			if strings.TrimSpace(segs[i].Time) == "" {
				segs[i].Time = timecode.Label(segs[i].Seconds)
			}
		}
		sort.SliceStable(segs, func(i, j int) bool { return segs[i].Seconds < segs[j].Seconds })
		d.Segments = segs
	}
	d.lowerTitle = strings.ToLower(d.Title)
	d.lowerTranscript = strings.ToLower(d.Transcript)
	d.folded = true
	return d
}
