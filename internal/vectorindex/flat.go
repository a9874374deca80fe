// Package vectorindex maintains the nearest-neighbor index over comment
// embeddings together with the ordered identifier map that ties index
// positions back to comment IDs. The two structures are owned by a single
// Service and persisted as a matched pair.
package vectorindex

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrEmptyIndex distinguishes "nothing indexed yet" from a search that
	// found no matches.
	ErrEmptyIndex = errors.New("vector index is empty")

	// ErrDimension rejects vectors whose length does not match the index.
	ErrDimension = errors.New("vector dimension mismatch")

	// ErrInconsistent means the index and identifier map diverged (detected
	// at load time); the service refuses to answer until an explicit rebuild
	// or reset.
	ErrInconsistent = errors.New("index/id map length mismatch, rebuild required")
)

// Candidate is a raw search result: a row position and its inner-product
// score against the query.
type Candidate struct {
	Pos   int
	Score float32
}

// Flat is a brute-force inner-product index over fixed-dimension vectors.
// Rows are stored contiguously; position i is the i-th vector ever added.
// Flat is not safe for concurrent use; Service serializes access.
type Flat struct {
	dim  int
	data []float32
}

// NewFlat creates an empty index for vectors of the given dimension.
func NewFlat(dim int) *Flat {
	return &Flat{dim: dim}
}

// Dim returns the vector dimension.
func (f *Flat) Dim() int { return f.dim }

// Count returns the number of stored vectors.
func (f *Flat) Count() int {
	if f.dim == 0 {
		return 0
	}
	return len(f.data) / f.dim
}

// Reset empties the index, keeping the dimension.
func (f *Flat) Reset() {
	f.data = nil
}

// Rebuild replaces the entire contents with the given vectors.
func (f *Flat) Rebuild(vectors [][]float32, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("%w: dimension must be positive, got %d", ErrDimension, dim)
	}
	data := make([]float32, 0, len(vectors)*dim)
	for i, vec := range vectors {
		if len(vec) != dim {
			return fmt.Errorf("%w: vector %d has dimension %d, index expects %d", ErrDimension, i, len(vec), dim)
		}
		data = append(data, vec...)
	}
	f.dim = dim
	f.data = data
	return nil
}

// Add appends one vector; Count increases by exactly one.
func (f *Flat) Add(vec []float32) error {
	if len(vec) != f.dim {
		return fmt.Errorf("%w: got %d, index expects %d", ErrDimension, len(vec), f.dim)
	}
	f.data = append(f.data, vec...)
	return nil
}

// Search returns up to k candidates sorted by descending inner-product score.
// Vectors are unit length, so the score is cosine similarity.
func (f *Flat) Search(query []float32, k int) ([]Candidate, error) {
	if f.Count() == 0 {
		return nil, ErrEmptyIndex
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index expects %d", ErrDimension, len(query), f.dim)
	}
	if k <= 0 {
		k = 10
	}

	count := f.Count()
	candidates := make([]Candidate, count)
	for i := 0; i < count; i++ {
		row := f.data[i*f.dim : (i+1)*f.dim]
		var dot float32
		for j, q := range query {
			dot += q * row[j]
		}
		candidates[i] = Candidate{Pos: i, Score: dot}
	}

	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].Score != candidates[b].Score {
			return candidates[a].Score > candidates[b].Score
		}
		return candidates[a].Pos < candidates[b].Pos
	})

	if k < len(candidates) {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// row returns the i-th stored vector. Used by persistence.
func (f *Flat) row(i int) []float32 {
	return f.data[i*f.dim : (i+1)*f.dim]
}
