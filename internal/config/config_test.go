package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/sermonsearch/internal/domain/answer"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{PresetExcerpt, PresetNarrative, PresetTimestamps}, cfg.PresetNames())
}

func TestPresets_EachValid(t *testing.T) {
	for name, e := range Presets() {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, e.Validate())
		})
	}
}

func TestPresets_VariantDrift(t *testing.T) {
	p := Presets()

	ex := p[PresetExcerpt]
	assert.Equal(t, 10.0, ex.TitleWeight)
	assert.Equal(t, 4, ex.MinTermLength)
	assert.Empty(t, ex.Stopwords)
	assert.True(t, ex.Excerpts)
	assert.False(t, ex.Segments)

	ts := p[PresetTimestamps]
	assert.Zero(t, ts.TitleWeight)
	assert.Equal(t, 25.0, ts.PerTermCap)
	assert.True(t, ts.RequireSegments)
	assert.Equal(t, answer.ModeSummary, ts.Answer.Mode)
	assert.Equal(t, 60, ts.MinSegmentGapSeconds)

	nr := p[PresetNarrative]
	assert.Equal(t, 30.0, nr.TitleWeight)
	assert.Equal(t, 5, nr.MinTermLength)
	assert.Equal(t, answer.ModeNarrative, nr.Answer.Mode)
	assert.NotEmpty(t, nr.Answer.Templates)

	// fresh copies
	p[PresetNarrative].Stopwords[0] = "changed"
	assert.Equal(t, "what", Presets()[PresetNarrative].Stopwords[0])
}

func TestEngine_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *Engine)
	}{
		{"negative weight", func(e *Engine) { e.TitleWeight = -1 }},
		{"no weights", func(e *Engine) { e.TitleWeight, e.PhraseWeight, e.PerOccurrenceWeight = 0, 0, 0 }},
		{"no payload", func(e *Engine) { e.Excerpts, e.Segments = false, false }},
		{"require without segments", func(e *Engine) { e.Segments = false; e.Excerpts = true }},
		{"zero max segments", func(e *Engine) { e.MaxSegments = 0 }},
		{"bad answer mode", func(e *Engine) { e.Answer.Mode = "poem" }},
		{"negative gap", func(e *Engine) { e.MinSegmentGapSeconds = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Presets()[PresetTimestamps]
			tt.mutate(&e)
			assert.Error(t, e.Validate())
		})
	}
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
	assert.False(t, cfg.Corpus.Explicit)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_FileOverlaysAndPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := `
server:
  addr: ":9090"
corpus:
  paths: [data/a.json.gz]
search:
  preset: strict
  max_results: 5
presets:
  timestamps:
    max_segments: 5
  strict:
    base: narrative
    per_term_cap: 10
    stopwords: [grace]
    answer:
      mode: summary
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"data/a.json.gz"}, cfg.Corpus.Paths)
	assert.True(t, cfg.Corpus.Explicit)
	assert.Equal(t, 5, cfg.Search.MaxResults)
	assert.Equal(t, 100, cfg.Search.MaxResultsLimit)

	ts, err := cfg.Engine(PresetTimestamps)
	require.NoError(t, err)
	assert.Equal(t, 5, ts.MaxSegments)
	assert.Equal(t, 25.0, ts.PerTermCap)

	strict, err := cfg.Engine("")
	require.NoError(t, err)
	assert.Equal(t, 30.0, strict.TitleWeight)
	assert.Equal(t, 10.0, strict.PerTermCap)
	assert.Equal(t, []string{"grace"}, strict.Stopwords)
	assert.Equal(t, answer.ModeSummary, strict.Answer.Mode)
	assert.Equal(t, 800, strict.Answer.SummaryMaxChars)
}

func TestLoad_UnknownBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presets:\n  x:\n    base: nope\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown base "nope"`)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":                    "8081",
		"SERMONSEARCH_CORPUS":     " a.json , b.json.gz ,",
		"SERMONSEARCH_PRESET":     PresetNarrative,
		"SERMONSEARCH_LOG_LEVEL":  "debug",
		"SERMONSEARCH_LOG_FORMAT": "json",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, []string{"a.json", "b.json.gz"}, cfg.Corpus.Paths)
	assert.True(t, cfg.Corpus.Explicit)
	assert.Equal(t, PresetNarrative, cfg.Search.Preset)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	env["SERMONSEARCH_ADDR"] = "127.0.0.1:7000"
	cfg.ApplyEnv(func(k string) string { return env[k] })
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	cfg.Search.Preset = "missing"
	assert.ErrorContains(t, cfg.Validate(), `unknown preset "missing"`)

	cfg = Default()
	cfg.Log.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Search.MaxResultsLimit = 1
	assert.Error(t, cfg.Validate())

	_, err := Default().Engine("nope")
	assert.ErrorContains(t, err, "have excerpt, narrative, timestamps")
}
