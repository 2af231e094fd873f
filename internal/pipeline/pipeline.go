package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/forPelevin/sermonsearch/internal/config"
	"github.com/forPelevin/sermonsearch/internal/ports"
	"github.com/forPelevin/sermonsearch/internal/ports/adapters/httpapi"
	"github.com/forPelevin/sermonsearch/internal/ports/adapters/jsonfile"
	"github.com/forPelevin/sermonsearch/internal/types"
	"github.com/forPelevin/sermonsearch/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// App is a loaded corpus with one searcher per preset.
type App struct {
	cfg       config.Config
	log       *slog.Logger
	corpus    *types.Corpus
	searchers map[string]*usecase.Usecase
}

// Build validates cfg, loads the corpus and prepares a searcher for every
// preset. All searchers share the same corpus.
func Build(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var src ports.CorpusSource = jsonfile.New(cfg.Corpus.Paths, cfg.Corpus.Explicit, log)
	docs, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	corpus := types.NewCorpus(docs)

	app := &App{
		cfg:       cfg,
		log:       log,
		corpus:    corpus,
		searchers: make(map[string]*usecase.Usecase, len(cfg.Presets)),
	}
	for _, name := range cfg.PresetNames() {
		u, err := usecase.New(usecase.Deps{Corpus: corpus, Logger: log.With("preset", name)}, usecase.Options{
			Engine:          cfg.Presets[name],
			MaxResults:      cfg.Search.MaxResults,
			MaxResultsLimit: cfg.Search.MaxResultsLimit,
			CacheSize:       cfg.Search.CacheSize,
			Workers:         cfg.Search.Workers,
		})
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		app.searchers[name] = u
	}
	return app, nil
}

// Searcher returns the searcher for preset, or the default one for "".
func (a *App) Searcher(preset string) (ports.Searcher, error) {
	if preset == "" {
		preset = a.cfg.Search.Preset
	}
	u, ok := a.searchers[preset]
	if !ok {
		_, err := a.cfg.Engine(preset)
		return nil, err
	}
	return u, nil
}

func (a *App) Stats() types.Stats { return a.corpus.Stats() }

// Handler returns the HTTP API over every preset.
func (a *App) Handler() (http.Handler, error) {
	searchers := make(map[string]ports.Searcher, len(a.searchers))
	for name, u := range a.searchers {
		searchers[name] = u
	}
	h, err := httpapi.New(searchers, a.cfg.Search.Preset, a.log)
	if err != nil {
		return nil, err
	}
	return h.Routes(), nil
}

// ListenAndServe serves the API on the configured address until ctx is done.
func (a *App) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves the API on ln and shuts down gracefully once ctx is done.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	h, err := a.Handler()
	if err != nil {
		ln.Close()
		return err
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	a.log.Info("server started", "addr", ln.Addr().String(), "documents", a.corpus.Len(), "preset", a.cfg.Search.Preset)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
