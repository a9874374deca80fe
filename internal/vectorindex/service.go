package vectorindex

import (
	"fmt"
	"log"
	"sync"
)

// Hit is a search result mapped back to an external identifier.
type Hit struct {
	CommentID string  `json:"comment_id"`
	Score     float32 `json:"score"`
}

// Service is the sole owner of the (index, id map) pair. All mutation goes
// through one mutex so a vector append and its id append are never observed
// out of step; searches run concurrently under the read lock. Embedding and
// other slow collaborator calls happen before the lock is taken.
type Service struct {
	mu           sync.RWMutex
	flat         *Flat
	ids          []string
	dir          string
	persistEvery int
	pending      int
	degraded     bool
}

// NewService loads the checkpoint pair from dir. A corrupt or mismatched
// checkpoint does not fail startup: the service comes up degraded and every
// add or search returns ErrInconsistent until a rebuild or reset.
//
// persistEvery controls checkpoint cadence: 1 (the default) persists the
// full pair on every mutation, trading write amplification for per-mutation
// crash safety; N>1 checkpoints every N adds, so a crash loses at most the
// uncheckpointed tail but never the pair invariant.
func NewService(dir string, dim, persistEvery int) *Service {
	if persistEvery < 1 {
		persistEvery = 1
	}
	s := &Service{dir: dir, persistEvery: persistEvery}

	flat, ids, err := loadPair(dir, dim)
	if err != nil {
		log.Printf("vector index checkpoint unusable, serving degraded until rebuild: %v", err)
		s.flat = NewFlat(dim)
		s.degraded = true
		return s
	}
	s.flat = flat
	s.ids = ids
	return s
}

// Count returns the number of indexed vectors.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flat.Count()
}

// Degraded reports whether the service refused its checkpoint at load time.
func (s *Service) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// Add appends one vector and its identifier, then checkpoints according to
// the persistence cadence.
func (s *Service) Add(vec []float32, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.degraded {
		return ErrInconsistent
	}
	if err := s.flat.Add(vec); err != nil {
		return err
	}
	s.ids = append(s.ids, commentID)

	s.pending++
	if s.pending >= s.persistEvery {
		if err := writePair(s.dir, s.flat, s.ids); err != nil {
			// Roll the append back so a caller that retries the add after
			// this error cannot land the same comment at two positions.
			s.flat.data = s.flat.data[:len(s.flat.data)-s.flat.dim]
			s.ids = s.ids[:len(s.ids)-1]
			s.pending--
			return fmt.Errorf("checkpointing index: %w", err)
		}
		s.pending = 0
	}
	return nil
}

// Rebuild atomically replaces the whole index and id map, persists the new
// pair, and clears any degraded state.
func (s *Service) Rebuild(vectors [][]float32, ids []string, dim int) error {
	if len(vectors) != len(ids) {
		return fmt.Errorf("%w: %d vectors, %d identifiers", ErrInconsistent, len(vectors), len(ids))
	}

	fresh := NewFlat(dim)
	if err := fresh.Rebuild(vectors, dim); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writePair(s.dir, fresh, ids); err != nil {
		return fmt.Errorf("checkpointing rebuilt index: %w", err)
	}
	s.flat = fresh
	s.ids = append([]string(nil), ids...)
	s.pending = 0
	s.degraded = false
	return nil
}

// Reset empties the index and id map and removes the persisted artifacts.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flat = NewFlat(s.flat.Dim())
	s.ids = nil
	s.pending = 0
	s.degraded = false
	return removePair(s.dir)
}

// Search returns up to k hits sorted by descending score. Positions that
// fall outside the id map are skipped rather than erroring.
func (s *Service) Search(query []float32, k int) ([]Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.degraded {
		return nil, ErrInconsistent
	}

	candidates, err := s.flat.Search(query, k)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(candidates))
	for _, c := range candidates {
		if c.Pos >= len(s.ids) {
			continue
		}
		hits = append(hits, Hit{CommentID: s.ids[c.Pos], Score: c.Score})
	}
	return hits, nil
}

// Flush writes any adds that have not reached the checkpoint cadence yet.
// Called on shutdown when persist_every > 1.
func (s *Service) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == 0 || s.degraded {
		return nil
	}
	if err := writePair(s.dir, s.flat, s.ids); err != nil {
		return fmt.Errorf("flushing index checkpoint: %w", err)
	}
	s.pending = 0
	return nil
}
