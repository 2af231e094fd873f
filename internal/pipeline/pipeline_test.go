package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/forPelevin/sermonsearch/internal/config"
	"github.com/forPelevin/sermonsearch/internal/ports/adapters/jsonfile"
	"github.com/forPelevin/sermonsearch/internal/types"
)

const corpusJSON = `[
  {"id": "a", "title": "Grace", "date": "2019-01-06", "url": "https://youtu.be/a", "word_count": 6,
   "transcript": "grace upon grace upon grace forever",
   "segments": [{"seconds": 0, "text": "grace upon grace"}, {"seconds": 90, "text": "upon grace forever"}]},
  {"id": "b", "title": "Hope", "date": "2012-05-20", "word_count": 4, "transcript": "hope does not disappoint"}
]`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sermons.json")
	if err := os.WriteFile(path, []byte(corpusJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Corpus.Paths = []string{path}
	cfg.Corpus.Explicit = true
	cfg.Search.Workers = 2
	return cfg
}

func TestBuild(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := app.Stats().TotalDocuments; got != 2 {
		t.Fatalf("documents = %d, want 2", got)
	}

	for _, preset := range []string{"", config.PresetExcerpt, config.PresetTimestamps, config.PresetNarrative} {
		t.Run("preset="+preset, func(t *testing.T) {
			s, err := app.Searcher(preset)
			if err != nil {
				t.Fatal(err)
			}
			resp, err := s.Search(context.Background(), "grace", 0)
			if err != nil {
				t.Fatal(err)
			}
			if resp.ResultsCount != 1 || resp.Results[0].ID != "a" {
				t.Fatalf("unexpected results: %+v", resp.Results)
			}
		})
	}

	if _, err := app.Searcher("nope"); err == nil || !strings.Contains(err.Error(), `unknown preset "nope"`) {
		t.Fatalf("expected unknown preset error, got %v", err)
	}
}

func TestBuild_Errors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Corpus.Paths = []string{filepath.Join(t.TempDir(), "missing.json")}
	if _, err := Build(context.Background(), cfg, nil); !errors.Is(err, jsonfile.ErrNoCorpus) {
		t.Fatalf("expected ErrNoCorpus, got %v", err)
	}

	cfg.Corpus.Explicit = false
	app, err := Build(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := app.Stats(); got != (types.Stats{}) {
		t.Fatalf("expected empty stats, got %+v", got)
	}

	cfg = testConfig(t)
	cfg.Search.Workers = 0
	if _, err := Build(context.Background(), cfg, nil); err == nil || !strings.HasPrefix(err.Error(), "config: ") {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestServe(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, ln) }()

	res, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		cancel()
		t.Fatal(err)
	}
	var body map[string]any
	err = json.NewDecoder(res.Body).Decode(&body)
	res.Body.Close()
	if err != nil {
		cancel()
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["documents"] != float64(2) {
		t.Errorf("unexpected health body: %v", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
