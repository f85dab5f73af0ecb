// Package build implements the offline corpus-to-bundle pipeline.
package build

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/safekb/safesearch/internal/bundle"
	"github.com/safekb/safesearch/internal/corpus"
	"github.com/safekb/safesearch/internal/domain"
	"github.com/safekb/safesearch/internal/index"
)

// Service builds a similarity index over a parsed corpus. A build is a
// single-threaded batch job; the embedding layer below handles batching.
type Service struct {
	embed      domain.BatchEmbedder
	fieldOrder []string
	model      string
	logger     *zap.Logger
}

// New creates a build service. fieldOrder is the designated search field list,
// model the embedding model identifier recorded in bundle metadata.
func New(embed domain.BatchEmbedder, fieldOrder []string, model string, logger *zap.Logger) *Service {
	return &Service{
		embed:      embed,
		fieldOrder: fieldOrder,
		model:      model,
		logger:     logger,
	}
}

// Build composes the search texts, embeds them in batch, and constructs the
// index in record order so index position i always maps to records[i].
// An empty corpus builds successfully into an empty bundle.
func (s *Service) Build(ctx context.Context, records []domain.Record) (*bundle.Bundle, error) {
	texts := corpus.ComposeAll(records, s.fieldOrder)

	if len(records) == 0 {
		s.logger.Warn("Building bundle from empty corpus")
		return &bundle.Bundle{
			Index: index.NewFlat(0),
			Meta:  domain.Metadata{Model: s.model},
		}, nil
	}

	res, err := s.embed.BatchEmbed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(res.Embeddings) != len(records) {
		return nil, fmt.Errorf("embedded %d of %d records", len(res.Embeddings), len(records))
	}

	dim := len(res.Embeddings[0])
	idx := index.NewFlat(dim)
	for i, vec := range res.Embeddings {
		if len(vec) != dim {
			return nil, fmt.Errorf("record %d: embedding dimension %d, expected %d: %w",
				i, len(vec), dim, domain.ErrDimensionMismatch)
		}
		if err := idx.Add(vec); err != nil {
			return nil, fmt.Errorf("index record %d: %w", i, err)
		}
	}

	s.logger.Info("Built similarity index",
		zap.Int("records", len(records)),
		zap.Int("dimension", dim),
		zap.Int("total_tokens", res.TotalTokens),
		zap.String("model", s.model),
	)

	return &bundle.Bundle{
		Index:       idx,
		SearchTexts: texts,
		Records:     records,
		Meta: domain.Metadata{
			Dimension:   dim,
			RecordCount: len(records),
			Model:       s.model,
		},
	}, nil
}
