// Package query turns a raw natural-language question into match terms.
package query

import (
	"regexp"
	"strings"
)

var rePunct = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

// fallbackMinLen is the length a token must exceed to survive the
// no-stopword fallback.
const fallbackMinLen = 3

var suffixes = []string{"ing", "ed", "es", "s"}

type Options struct {
	// MinLength drops shorter tokens. Zero means no minimum.
	MinLength int
	// MinStemLength is the shortest stem a suffix strip may leave.
	MinStemLength int
	Stopwords     []string
	// FramingWords are removed, together with Stopwords, when deriving the
	// topic of the question.
	FramingWords []string
}

// Terms is the analyzed form of one query.
type Terms struct {
	Raw string
	// Words are the surviving query tokens in query order, unstemmed.
	Words []string
	// List holds every match form, ordered by first appearance, unique.
	List []string
	// Topic is the query with question framing removed.
	Topic string
	// Fallback reports whether List came from the no-stopword fallback.
	Fallback bool
}

func (t Terms) Empty() bool { return len(t.List) == 0 }

// Phrase returns the first two query words joined by a space, or "" when
// fewer than two words survived.
func (t Terms) Phrase() string {
	if len(t.Words) < 2 {
		return ""
	}
	return t.Words[0] + " " + t.Words[1]
}

// Analyze normalizes raw into terms. It never fails; an empty Terms means no
// token in raw was long enough to search for.
func Analyze(raw string, opts Options) Terms {
	tokens := Tokenize(raw)
	stop := toSet(opts.Stopwords)

	var words []string
	for _, tok := range tokens {
		if len([]rune(tok)) < opts.MinLength {
			continue
		}
		if _, ok := stop[tok]; ok {
			continue
		}
		words = append(words, tok)
	}

	out := Terms{Raw: raw, Topic: topic(raw, tokens, stop, opts.FramingWords)}
	if len(words) > 0 {
		out.Words = unique(words)
		var forms []string
		for _, w := range out.Words {
			if s := Stem(w, opts.MinStemLength); s != w {
				forms = append(forms, s)
			}
			forms = append(forms, w)
		}
		out.List = unique(forms)
		return out
	}

	// Nothing survived filtering: search for every long-enough token as is.
	for _, tok := range tokens {
		if len([]rune(tok)) > fallbackMinLen {
			words = append(words, tok)
		}
	}
	out.Words = unique(words)
	out.List = out.Words
	out.Fallback = len(out.List) > 0
	return out
}

// Tokenize strips punctuation, lower-cases and splits on whitespace.
func Tokenize(raw string) []string {
	clean := rePunct.ReplaceAllString(strings.ToLower(raw), " ")
	return strings.Fields(clean)
}

// Stem removes the first matching suffix when the remainder keeps at least
// minStem runes.
func Stem(word string, minStem int) string {
	n := len([]rune(word))
	for _, suf := range suffixes {
		if strings.HasSuffix(word, suf) && n-len(suf) >= minStem {
			return strings.TrimSuffix(word, suf)
		}
	}
	return word
}

func topic(raw string, tokens []string, stop map[string]struct{}, framing []string) string {
	drop := toSet(framing)
	var keep []string
	for _, tok := range tokens {
		if _, ok := stop[tok]; ok {
			continue
		}
		if _, ok := drop[tok]; ok {
			continue
		}
		keep = append(keep, tok)
	}
	if len(keep) == 0 {
		return strings.TrimSpace(raw)
	}
	return strings.Join(keep, " ")
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return m
}

func unique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
