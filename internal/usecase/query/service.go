// Package query serves top-k similarity queries against a loaded bundle.
package query

import (
	"context"
	"fmt"

	"github.com/safekb/safesearch/internal/bundle"
	"github.com/safekb/safesearch/internal/domain"
)

// DefaultTopK is the result count used when a request does not specify one.
const DefaultTopK = 5

// Engine answers similarity queries. It holds an immutable bundle for its
// whole lifetime: nothing in the query path mutates the index, records, or
// search texts, so any number of queries may run concurrently.
type Engine struct {
	embed domain.Embedder
	b     *bundle.Bundle
}

// New creates a query engine over a loaded bundle. b may be nil when no
// bundle could be loaded; every query then fails with ErrNotReady while the
// process keeps serving.
func New(embed domain.Embedder, b *bundle.Bundle) *Engine {
	return &Engine{embed: embed, b: b}
}

// Ready reports whether a bundle is loaded.
func (e *Engine) Ready() bool { return e.b != nil }

// RecordCount returns the number of loaded records, 0 when not ready.
func (e *Engine) RecordCount() int {
	if e.b == nil {
		return 0
	}
	return len(e.b.Records)
}

// Model returns the embedding model identifier from bundle metadata for
// diagnostics, empty when not ready.
func (e *Engine) Model() string {
	if e.b == nil {
		return ""
	}
	return e.b.Meta.Model
}

// Query embeds the text, searches the index, and materializes up to k scored
// records ordered by rank. Positions outside the record range are skipped
// rather than errored: a desynchronized index must degrade, not crash, the
// serving path. k <= 0 yields an empty result.
func (e *Engine) Query(ctx context.Context, text string, k int) ([]domain.ScoredRecord, error) {
	if e.b == nil {
		return nil, domain.ErrNotReady
	}
	if k <= 0 {
		return nil, nil
	}

	res, err := e.embed.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := e.b.Index.Search(res.Embedding, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]domain.ScoredRecord, 0, len(hits))
	for _, hit := range hits {
		if hit.Position < 0 || hit.Position >= len(e.b.Records) {
			continue
		}
		results = append(results, domain.ScoredRecord{
			Record:   e.b.Records[hit.Position].Clone(),
			Rank:     len(results) + 1,
			Score:    similarityScore(hit.Distance),
			Position: hit.Position,
		})
	}
	return results, nil
}

// similarityScore maps a non-negative distance into (0, 1], monotonically
// decreasing, with 1.0 for an exact match. Kept as-is for compatibility with
// existing consumers; it is not calibrated across distance scales.
func similarityScore(distance float32) float64 {
	return 1 / (1 + float64(distance))
}
