package relevance

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const Ellipsis = "..."

// Excerpt returns the text around the first case-insensitive occurrence of
// term, widened to whole words. half is the number of bytes kept on each
// side of the match before widening. ok is false when term does not occur.
func Excerpt(text, term string, half int) (string, bool) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || text == "" {
		return "", false
	}
	pos := foldIndex(text, term)
	if pos < 0 {
		return "", false
	}
	if half < 0 {
		half = 0
	}

	start := max(0, pos-half)
	end := min(len(text), pos+half)
	for start > 0 && !isSpace(text[start-1]) {
		start--
	}
	for end < len(text) && !isSpace(text[end]) {
		end++
	}

	out := strings.TrimSpace(text[start:end])
	if out == "" {
		return "", false
	}
	if start > 0 {
		out = Ellipsis + out
	}
	if end < len(text) {
		out += Ellipsis
	}
	return out, true
}

// Excerpts returns one excerpt per term that occurs in text, in term order,
// skipping duplicates, at most limit of them. limit <= 0 means no limit.
func Excerpts(text string, terms []string, half, limit int) []string {
	var out []string
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		ex, ok := Excerpt(text, term, half)
		if !ok {
			continue
		}
		if _, dup := seen[ex]; dup {
			continue
		}
		seen[ex] = struct{}{}
		out = append(out, ex)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// StripEllipsis removes leading and trailing ellipsis markers.
func StripEllipsis(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, Ellipsis)
	s = strings.TrimSuffix(s, Ellipsis)
	return strings.TrimSpace(s)
}

// Shorten cuts s to at most n runes on a word boundary, appending an
// ellipsis when anything was dropped.
func Shorten(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	cut := truncateRunes(s, n)
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + Ellipsis
}

// foldIndex returns the byte offset in s of the first occurrence of the
// lower-case needle, comparing s case-insensitively.
func foldIndex(s, needle string) int {
	if isASCII(s) {
		return strings.Index(strings.ToLower(s), needle)
	}
	// Lower-casing can change a rune's width, so map offsets back by rune.
	var b strings.Builder
	b.Grow(len(s))
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		lr := unicode.ToLower(r)
		for range utf8.RuneLen(lr) {
			offsets = append(offsets, i)
		}
		b.WriteRune(lr)
	}
	j := strings.Index(b.String(), needle)
	if j < 0 {
		return -1
	}
	return offsets[j]
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\n', '\t', '\r':
		return true
	}
	return false
}
