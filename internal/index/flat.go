// Package index implements a flat exact nearest-neighbor index over float32
// vectors using squared Euclidean distance, with a compact binary file format.
package index

import (
	"fmt"
	"sort"

	"github.com/safekb/safesearch/internal/domain"
)

// Hit is one search result: the insertion position of the matched vector and
// its squared L2 distance from the query.
type Hit struct {
	Position int
	Distance float32
}

// Flat is an exact brute-force index. Vectors are stored row-major in
// insertion order; the insertion position is the sole linkage back to the
// record it was built from. The index is append-only during build and
// immutable afterwards, so concurrent searches need no coordination.
type Flat struct {
	dim     int
	count   int
	vectors []float32
}

// NewFlat creates an empty index for vectors of the given dimension.
// dim may be 0 for an index that will never hold vectors.
func NewFlat(dim int) *Flat {
	return &Flat{dim: dim}
}

// Dimension returns the vector dimensionality.
func (f *Flat) Dimension() int { return f.dim }

// Len returns the number of indexed vectors.
func (f *Flat) Len() int { return f.count }

// Add appends a vector. The position of the vector is its insertion order.
func (f *Flat) Add(vec []float32) error {
	if len(vec) != f.dim {
		return fmt.Errorf("add vector: got dimension %d, index has %d: %w",
			len(vec), f.dim, domain.ErrDimensionMismatch)
	}
	f.vectors = append(f.vectors, vec...)
	f.count++
	return nil
}

// Search returns up to k hits ordered by ascending distance, insertion order
// breaking ties. An empty index always searches to an empty result.
func (f *Flat) Search(query []float32, k int) ([]Hit, error) {
	if f.count == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("search: query dimension %d, index has %d: %w",
			len(query), f.dim, domain.ErrDimensionMismatch)
	}

	hits := make([]Hit, f.count)
	for i := 0; i < f.count; i++ {
		row := f.vectors[i*f.dim : (i+1)*f.dim]
		hits[i] = Hit{Position: i, Distance: squaredL2(row, query)}
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Distance != hits[b].Distance {
			return hits[a].Distance < hits[b].Distance
		}
		return hits[a].Position < hits[b].Position
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
