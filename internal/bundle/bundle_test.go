package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/safekb/safesearch/internal/domain"
	"github.com/safekb/safesearch/internal/index"
)

func testBundle(t *testing.T) *Bundle {
	t.Helper()
	idx := index.NewFlat(2)
	for _, v := range [][]float32{{0, 1}, {1, 0}} {
		if err := idx.Add(v); err != nil {
			t.Fatal(err)
		}
	}
	return &Bundle{
		Index:       idx,
		SearchTexts: []string{"未戴安全帽 规范A", "电线裸露 规范B"},
		Records: []domain.Record{
			{"隐患描述": "未戴安全帽", "检查依据": "规范A"},
			{"隐患描述": "电线裸露", "检查依据": "规范B"},
		},
		Meta: domain.Metadata{Dimension: 2, RecordCount: 2, Model: "test-model"},
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resources")
	b := testBundle(t)

	if err := Save(dir, b); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !reflect.DeepEqual(loaded.Records, b.Records) {
		t.Errorf("records changed:\ngot:  %v\nwant: %v", loaded.Records, b.Records)
	}
	if !reflect.DeepEqual(loaded.SearchTexts, b.SearchTexts) {
		t.Errorf("search texts changed: %v", loaded.SearchTexts)
	}
	if loaded.Meta != b.Meta {
		t.Errorf("metadata changed: %+v", loaded.Meta)
	}

	// Observationally identical search behavior.
	query := []float32{0.1, 0.9}
	before, _ := b.Index.Search(query, 2)
	after, err := loaded.Index.Search(query, 2)
	if err != nil {
		t.Fatalf("search after load: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("search behavior changed:\nbefore: %v\nafter:  %v", before, after)
	}
}

func TestSave_ReplacesExisting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resources")
	b := testBundle(t)

	if err := Save(dir, b); err != nil {
		t.Fatalf("first save: %v", err)
	}

	b.Records = b.Records[:1]
	b.SearchTexts = b.SearchTexts[:1]
	idx := index.NewFlat(2)
	if err := idx.Add([]float32{0, 1}); err != nil {
		t.Fatal(err)
	}
	b.Index = idx
	b.Meta.RecordCount = 1

	if err := Save(dir, b); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Records) != 1 {
		t.Errorf("expected replaced bundle with 1 record, got %d", len(loaded.Records))
	}
}

func TestSave_LeavesNoStagingDir(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "resources")

	if err := Save(dir, testBundle(t)); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := os.ReadDir(parent)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "resources" {
		t.Errorf("unexpected entries after save: %v", entries)
	}
}

func TestLoad_MissingArtifact(t *testing.T) {
	for _, name := range []string{IndexFile, CorpusFile, MetadataFile} {
		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "resources")
			if err := Save(dir, testBundle(t)); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				t.Fatal(err)
			}

			_, err := Load(dir)
			if !errors.Is(err, domain.ErrResourceNotFound) {
				t.Fatalf("expected ErrResourceNotFound, got %v", err)
			}

			var rnf *domain.ResourceNotFoundError
			if !errors.As(err, &rnf) {
				t.Fatalf("expected ResourceNotFoundError, got %T", err)
			}
			if filepath.Base(rnf.Artifact) != name {
				t.Errorf("error names %q, want %q", rnf.Artifact, name)
			}
		})
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, domain.ErrResourceNotFound) {
		t.Errorf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestLoad_DimensionMismatchIsFatal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resources")
	b := testBundle(t)
	b.Meta.Dimension = 768

	if err := Save(dir, b); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, err := Load(dir)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestLoad_RecordCountMismatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resources")
	b := testBundle(t)
	b.Meta.RecordCount = 99

	if err := Save(dir, b); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for metadata record_count mismatch")
	}
}

func TestLoad_MisalignedCounts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resources")
	b := testBundle(t)
	b.Records = b.Records[:1]

	if err := Save(dir, b); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for index/records count mismatch")
	}
}

func TestSaveLoad_EmptyCorpus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resources")
	b := &Bundle{Index: index.NewFlat(0), Meta: domain.Metadata{Model: "test-model"}}

	if err := Save(dir, b); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Index.Len() != 0 || len(loaded.Records) != 0 {
		t.Errorf("expected empty bundle, got %d vectors, %d records",
			loaded.Index.Len(), len(loaded.Records))
	}
}
