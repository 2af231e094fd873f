package ports

import (
	"context"

	"github.com/forPelevin/sermonsearch/internal/types"
)

// CorpusSource yields the documents the corpus is built from.
type CorpusSource interface {
	Load(ctx context.Context) ([]types.Document, error)
}

// Searcher is what the request layer calls.
type Searcher interface {
	Search(ctx context.Context, q string, maxResults int) (types.Response, error)
	Stats() types.Stats
}
