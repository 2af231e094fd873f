package query

import (
	"reflect"
	"testing"
)

var testStop = []string{"what", "does", "pastor", "teach", "about", "the", "how", "should", "would", "their"}

func TestAnalyze_Table(t *testing.T) {
	opts := Options{MinLength: 4, MinStemLength: 4, Stopwords: testStop, FramingWords: []string{"tell"}}
	tests := []struct {
		name      string
		raw       string
		wantList  []string
		wantWords []string
		fallback  bool
	}{
		{"single", "grace", []string{"grace"}, []string{"grace"}, false},
		{"question", "What does Pastor Bob teach about prayer?", []string{"prayer"}, []string{"prayer"}, false},
		{"stem ing", "praying", []string{"pray", "praying"}, []string{"praying"}, false},
		{"stem es keeps both", "graces", []string{"grac", "graces"}, []string{"graces"}, false},
		{"short es falls to s", "gives", []string{"give", "gives"}, []string{"gives"}, false},
		{"too short to stem", "lies", []string{"lies"}, []string{"lies"}, false},
		{"dedupe", "faith, Faith! FAITH", []string{"faith"}, []string{"faith"}, false},
		{"punctuation", "end-times: rapture", []string{"time", "times", "rapture"}, []string{"times", "rapture"}, false},
		{"fallback", "what would their", []string{"what", "would", "their"}, []string{"what", "would", "their"}, true},
		{"nothing long enough", "is it so", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.raw, opts)
			if len(got.List) != len(tt.wantList) || (len(tt.wantList) > 0 && !reflect.DeepEqual(got.List, tt.wantList)) {
				t.Fatalf("List = %v, want %v", got.List, tt.wantList)
			}
			if len(got.Words) != len(tt.wantWords) || (len(tt.wantWords) > 0 && !reflect.DeepEqual(got.Words, tt.wantWords)) {
				t.Fatalf("Words = %v, want %v", got.Words, tt.wantWords)
			}
			if got.Fallback != tt.fallback {
				t.Fatalf("Fallback = %v, want %v", got.Fallback, tt.fallback)
			}
			if got.Raw != tt.raw {
				t.Fatalf("Raw = %q, want %q", got.Raw, tt.raw)
			}
		})
	}
}

func TestAnalyze_FallbackNonEmptyWhenLongTokenExists(t *testing.T) {
	opts := Options{MinLength: 5, Stopwords: []string{"what", "does", "about"}}
	for _, raw := range []string{"what does about", "What? Does! ABOUT.", "does it"} {
		got := Analyze(raw, opts)
		if got.Empty() {
			t.Fatalf("Analyze(%q) produced no terms", raw)
		}
	}
}

func TestAnalyze_MinLengthFive(t *testing.T) {
	got := Analyze("hope and peace", Options{MinLength: 5})
	if !reflect.DeepEqual(got.List, []string{"peace"}) {
		t.Fatalf("List = %v", got.List)
	}
}

func TestTerms_Phrase(t *testing.T) {
	got := Analyze("holy spirit power", Options{MinLength: 4})
	if p := got.Phrase(); p != "holy spirit" {
		t.Fatalf("Phrase() = %q", p)
	}
	if p := Analyze("grace", Options{MinLength: 4}).Phrase(); p != "" {
		t.Fatalf("single word Phrase() = %q", p)
	}
}

func TestAnalyze_Topic(t *testing.T) {
	opts := Options{MinLength: 4, Stopwords: testStop, FramingWords: []string{"bob"}}
	if got := Analyze("What does Pastor Bob teach about the rapture?", opts).Topic; got != "rapture" {
		t.Fatalf("Topic = %q", got)
	}
	if got := Analyze("  what does  ", opts).Topic; got != "what does" {
		t.Fatalf("Topic fallback = %q", got)
	}
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"praying": "pray",
		"being":   "being",
		"blessed": "bless",
		"loved":   "loved",
		"gifts":   "gift",
		"sins":    "sins",
	}
	for in, want := range tests {
		if got := Stem(in, 4); got != want {
			t.Fatalf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}
