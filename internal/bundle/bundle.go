// Package bundle persists and reloads a built corpus snapshot: the similarity
// index in its native binary form, the search texts and records as one JSON
// aggregate, and a small JSON metadata file.
package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/safekb/safesearch/internal/domain"
	"github.com/safekb/safesearch/internal/index"
)

// Artifact file names inside a bundle directory.
const (
	IndexFile    = "index.bin"
	CorpusFile   = "corpus.json"
	MetadataFile = "metadata.json"
)

// Bundle is one immutable corpus snapshot. It is created once by the offline
// build and only ever read afterwards; any corpus change requires a rebuild.
type Bundle struct {
	Index       *index.Flat
	SearchTexts []string
	Records     []domain.Record
	Meta        domain.Metadata
}

// corpusPayload is the on-disk shape of the texts+records aggregate.
type corpusPayload struct {
	SearchTexts []string        `json:"search_texts"`
	Records     []domain.Record `json:"records"`
}

// Save writes all artifacts to a temporary sibling directory and atomically
// renames it over dir, so a crash mid-write never publishes a torn bundle.
// An existing bundle at dir is replaced.
func Save(dir string, b *Bundle) error {
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create bundle parent: %w", err)
	}

	tmp, err := os.MkdirTemp(parent, filepath.Base(dir)+".tmp-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := writeIndex(filepath.Join(tmp, IndexFile), b.Index); err != nil {
		return err
	}
	payload := corpusPayload{SearchTexts: b.SearchTexts, Records: b.Records}
	if err := writeJSON(filepath.Join(tmp, CorpusFile), payload); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(tmp, MetadataFile), b.Meta); err != nil {
		return err
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove previous bundle: %w", err)
	}
	if err := os.Rename(tmp, dir); err != nil {
		return fmt.Errorf("publish bundle: %w", err)
	}
	return nil
}

// Load reads a bundle. A missing artifact yields a ResourceNotFoundError
// naming it; a metadata/index disagreement is a corruption signal and fails.
func Load(dir string) (*Bundle, error) {
	for _, name := range []string{IndexFile, CorpusFile, MetadataFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return nil, domain.NewResourceNotFound(filepath.Join(dir, name))
		}
	}

	idx, err := readIndex(filepath.Join(dir, IndexFile))
	if err != nil {
		return nil, err
	}

	var payload corpusPayload
	if err := readJSON(filepath.Join(dir, CorpusFile), &payload); err != nil {
		return nil, err
	}

	var meta domain.Metadata
	if err := readJSON(filepath.Join(dir, MetadataFile), &meta); err != nil {
		return nil, err
	}

	if meta.Dimension != idx.Dimension() {
		return nil, fmt.Errorf("metadata dimension %d, index has %d: %w",
			meta.Dimension, idx.Dimension(), domain.ErrDimensionMismatch)
	}
	if idx.Len() != len(payload.Records) || idx.Len() != len(payload.SearchTexts) {
		return nil, fmt.Errorf(
			"bundle misaligned: index %d vectors, %d records, %d search texts",
			idx.Len(), len(payload.Records), len(payload.SearchTexts))
	}
	if meta.RecordCount != len(payload.Records) {
		return nil, fmt.Errorf("metadata record_count %d, corpus has %d records",
			meta.RecordCount, len(payload.Records))
	}

	return &Bundle{
		Index:       idx,
		SearchTexts: payload.SearchTexts,
		Records:     payload.Records,
		Meta:        meta,
	}, nil
}

func writeIndex(path string, idx *index.Flat) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := idx.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readIndex(path string) (*index.Flat, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	idx, err := index.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return idx, nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
