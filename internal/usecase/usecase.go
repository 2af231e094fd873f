package usecase

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/forPelevin/sermonsearch/internal/config"
	"github.com/forPelevin/sermonsearch/internal/domain/answer"
	"github.com/forPelevin/sermonsearch/internal/domain/query"
	"github.com/forPelevin/sermonsearch/internal/domain/relevance"
	"github.com/forPelevin/sermonsearch/internal/types"
)

// ErrInvalidQuery is returned for an empty or blank query.
var ErrInvalidQuery = errors.New("no query provided")

const (
	DefaultMaxResults = 10
	// chunksPerWorker splits the corpus finer than the worker count so one
	// slow chunk does not hold up the rest.
	chunksPerWorker = 4
)

type Deps struct {
	Corpus *types.Corpus
	Logger *slog.Logger
}

type Options struct {
	Engine config.Engine
	// MaxResults is used when a caller passes maxResults <= 0.
	MaxResults int
	// MaxResultsLimit caps maxResults. Zero means no cap.
	MaxResultsLimit int
	// CacheSize is the number of memoized responses. Zero disables caching.
	CacheSize int
	Workers   int
}

// Usecase runs searches against one immutable corpus with one engine
// configuration. It is safe for concurrent use.
type Usecase struct {
	corpus *types.Corpus
	log    *slog.Logger
	opts   Options

	qopts   query.Options
	weights relevance.Weights
	segopts relevance.SegmentOptions
	aopts   answer.Options

	cache *lru.Cache[string, types.Response]
}

func New(d Deps, opts Options) (*Usecase, error) {
	if err := opts.Engine.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	corpus := d.Corpus
	if corpus == nil {
		corpus = types.NewCorpus(nil)
	}
	log := d.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	u := &Usecase{
		corpus:  corpus,
		log:     log,
		opts:    opts,
		qopts:   opts.Engine.QueryOptions(),
		weights: opts.Engine.Weights(),
		segopts: opts.Engine.SegmentOptions(),
		aopts:   opts.Engine.AnswerOptions(),
	}
	if opts.CacheSize > 0 {
		c, err := lru.New[string, types.Response](opts.CacheSize)
		if err != nil {
			return nil, err
		}
		u.cache = c
	}
	return u, nil
}

// Search ranks the corpus for q and returns at most maxResults results. The
// corpus is never touched for an empty query. Cached responses share their
// slices and must not be modified by callers.
func (u *Usecase) Search(ctx context.Context, q string, maxResults int) (types.Response, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return types.Response{}, ErrInvalidQuery
	}
	maxResults = u.limit(maxResults)

	key := strconv.Itoa(maxResults) + "\x00" + q
	if u.cache != nil {
		if resp, ok := u.cache.Get(key); ok {
			return resp, nil
		}
	}

	start := time.Now()
	terms := query.Analyze(q, u.qopts)
	resp := types.Response{
		Query:          q,
		TotalDocuments: u.corpus.Len(),
		Results:        []types.ScoredResult{},
	}

	if !terms.Empty() && u.corpus.Len() > 0 {
		hits, err := u.scoreAll(ctx, terms)
		if err != nil {
			return types.Response{}, err
		}
		resp.Results = Rank(hits, maxResults)
		Label(resp.Results)
		resp.Answer = answer.Synthesize(resp.Results, terms.Topic, u.aopts)
	}
	resp.ResultsCount = len(resp.Results)

	u.log.Debug("search",
		"query", q,
		"terms", terms.List,
		"fallback", terms.Fallback,
		"results", resp.ResultsCount,
		"duration", time.Since(start),
	)

	if u.cache != nil {
		u.cache.Add(key, resp)
	}
	return resp, nil
}

func (u *Usecase) Stats() types.Stats { return u.corpus.Stats() }

func (u *Usecase) limit(n int) int {
	if n <= 0 {
		n = u.opts.MaxResults
	}
	if u.opts.MaxResultsLimit > 0 && n > u.opts.MaxResultsLimit {
		n = u.opts.MaxResultsLimit
	}
	return n
}

// scoreAll evaluates every document in parallel. Results land in corpus
// order regardless of scheduling.
func (u *Usecase) scoreAll(ctx context.Context, terms query.Terms) ([]types.ScoredResult, error) {
	n := u.corpus.Len()
	slots := make([]types.ScoredResult, n)
	found := make([]bool, n)

	chunk := max(1, n/(u.opts.Workers*chunksPerWorker))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.opts.Workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(n, lo+chunk)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				slots[i], found[i] = u.evaluate(u.corpus.At(i), terms)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var hits []types.ScoredResult
	for i, ok := range found {
		if ok {
			hits = append(hits, slots[i])
		}
	}
	return hits, nil
}

func (u *Usecase) evaluate(doc types.Document, terms query.Terms) (types.ScoredResult, bool) {
	score := relevance.Score(doc, terms, u.weights)
	if score <= 0 {
		return types.ScoredResult{}, false
	}
	e := u.opts.Engine
	r := types.ScoredResult{
		ID:        doc.ID,
		Title:     doc.Title,
		URL:       doc.URL,
		WordCount: doc.WordCount,
		Score:     score,
	}
	if doc.Date != "" {
		date := doc.Date
		r.Date = &date
	}
	if e.Excerpts {
		r.Excerpts = relevance.Excerpts(doc.Transcript, terms.List, e.ContextChars, e.MaxExcerptsPerDocument)
	}
	if e.Segments {
		r.Segments = relevance.SelectSegments(doc, terms.List, u.segopts)
	}
	if e.RequireSegments && len(r.Segments) == 0 {
		return types.ScoredResult{}, false
	}
	return r, true
}
