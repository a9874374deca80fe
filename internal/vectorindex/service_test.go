package vectorindex

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestServiceAddSearchRoundtrip(t *testing.T) {
	s := NewService(t.TempDir(), 2, 1)

	if err := s.Add([]float32{1, 0}, "c1"); err != nil {
		t.Fatalf("Add c1: %v", err)
	}
	if err := s.Add([]float32{0, 1}, "c2"); err != nil {
		t.Fatalf("Add c2: %v", err)
	}

	hits, err := s.Search([]float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].CommentID != "c1" {
		t.Fatalf("expected c1, got %+v", hits)
	}
	if math.Abs(float64(hits[0].Score)-1.0) > 1e-6 {
		t.Errorf("score = %f, want ~1.0", hits[0].Score)
	}
}

func TestServiceEmptySearch(t *testing.T) {
	s := NewService(t.TempDir(), 2, 1)
	if _, err := s.Search([]float32{1, 0}, 5); !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("expected ErrEmptyIndex, got %v", err)
	}
}

func TestServiceResetThenSearchIsEmptyCondition(t *testing.T) {
	dir := t.TempDir()
	s := NewService(dir, 2, 1)

	if err := s.Add([]float32{1, 0}, "c1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if _, err := s.Search([]float32{1, 0}, 1); !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("search after reset: %v", err)
	}

	// Reset also removes the persisted artifacts.
	for _, name := range []string{vectorFile, idMapFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s should be removed on reset", name)
		}
	}
}

func TestServiceReloadPreservesPair(t *testing.T) {
	dir := t.TempDir()

	s := NewService(dir, 2, 1)
	if err := s.Add([]float32{1, 0}, "c1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Add([]float32{0, 1}, "c2"); err != nil {
		t.Fatal(err)
	}

	// Simulate a restart.
	s2 := NewService(dir, 2, 1)
	if s2.Degraded() {
		t.Fatal("reload of a clean checkpoint should not degrade")
	}
	if s2.Count() != 2 {
		t.Fatalf("count after reload = %d, want 2", s2.Count())
	}

	hits, err := s2.Search([]float32{0, 1}, 1)
	if err != nil {
		t.Fatalf("Search after reload: %v", err)
	}
	if len(hits) != 1 || hits[0].CommentID != "c2" {
		t.Errorf("expected c2 after reload, got %+v", hits)
	}
}

func TestServiceInvariantAcrossOperations(t *testing.T) {
	dir := t.TempDir()
	s := NewService(dir, 2, 1)

	check := func(stage string) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.flat.Count() != len(s.ids) {
			t.Fatalf("%s: index count %d != id map length %d", stage, s.flat.Count(), len(s.ids))
		}
	}

	check("fresh")
	if err := s.Add([]float32{1, 0}, "c1"); err != nil {
		t.Fatal(err)
	}
	check("after add")
	if err := s.Rebuild([][]float32{{0, 1}, {1, 0}}, []string{"a", "b"}, 2); err != nil {
		t.Fatal(err)
	}
	check("after rebuild")
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	check("after reset")
}

func TestServiceRebuildRejectsMismatchedLengths(t *testing.T) {
	s := NewService(t.TempDir(), 2, 1)
	err := s.Rebuild([][]float32{{1, 0}}, []string{"a", "b"}, 2)
	if !errors.Is(err, ErrInconsistent) {
		t.Errorf("expected ErrInconsistent, got %v", err)
	}
}

func TestServiceDegradesOnTamperedIDMap(t *testing.T) {
	dir := t.TempDir()
	s := NewService(dir, 2, 1)
	if err := s.Add([]float32{1, 0}, "c1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Add([]float32{0, 1}, "c2"); err != nil {
		t.Fatal(err)
	}

	// Drop one identifier from the persisted map so it no longer matches
	// the vector count.
	if err := os.WriteFile(filepath.Join(dir, idMapFile), []byte(`["c1"]`), 0o644); err != nil {
		t.Fatal(err)
	}

	s2 := NewService(dir, 2, 1)
	if !s2.Degraded() {
		t.Fatal("service should come up degraded on a mismatched pair")
	}
	if _, err := s2.Search([]float32{1, 0}, 1); !errors.Is(err, ErrInconsistent) {
		t.Errorf("degraded search: %v", err)
	}
	if err := s2.Add([]float32{1, 0}, "c3"); !errors.Is(err, ErrInconsistent) {
		t.Errorf("degraded add: %v", err)
	}

	// An explicit rebuild recovers the service.
	if err := s2.Rebuild([][]float32{{1, 0}}, []string{"c1"}, 2); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if s2.Degraded() {
		t.Error("rebuild should clear the degraded state")
	}
	if _, err := s2.Search([]float32{1, 0}, 1); err != nil {
		t.Errorf("search after recovery: %v", err)
	}
}

func TestServiceDegradesOnMissingHalfOfPair(t *testing.T) {
	dir := t.TempDir()
	s := NewService(dir, 2, 1)
	if err := s.Add([]float32{1, 0}, "c1"); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(filepath.Join(dir, idMapFile)); err != nil {
		t.Fatal(err)
	}

	s2 := NewService(dir, 2, 1)
	if !s2.Degraded() {
		t.Error("half a checkpoint pair should degrade the service")
	}
}

func TestServiceBatchedPersistence(t *testing.T) {
	dir := t.TempDir()
	s := NewService(dir, 2, 3)

	if err := s.Add([]float32{1, 0}, "c1"); err != nil {
		t.Fatal(err)
	}

	// Below the cadence: nothing on disk yet, and a reload sees an empty
	// but consistent index.
	if _, err := os.Stat(filepath.Join(dir, vectorFile)); !os.IsNotExist(err) {
		t.Error("checkpoint written before cadence reached")
	}
	if fresh := NewService(dir, 2, 3); fresh.Degraded() || fresh.Count() != 0 {
		t.Errorf("pre-flush reload: degraded=%v count=%d", fresh.Degraded(), fresh.Count())
	}

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	s2 := NewService(dir, 2, 3)
	if s2.Count() != 1 || s2.Degraded() {
		t.Errorf("post-flush reload: degraded=%v count=%d, want clean count 1", s2.Degraded(), s2.Count())
	}
}

func TestServiceDimensionMismatchRejected(t *testing.T) {
	s := NewService(t.TempDir(), 3, 1)
	if err := s.Add([]float32{1, 0}, "c1"); !errors.Is(err, ErrDimension) {
		t.Errorf("expected ErrDimension on add, got %v", err)
	}
	if err := s.Add([]float32{1, 0, 0}, "c1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Search([]float32{1, 0}, 1); !errors.Is(err, ErrDimension) {
		t.Errorf("expected ErrDimension on search, got %v", err)
	}
}

func TestServiceAddRollsBackOnCheckpointFailure(t *testing.T) {
	tmp := t.TempDir()

	// A regular file where the index directory should be makes every
	// checkpoint write fail.
	blocker := filepath.Join(tmp, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := &Service{flat: NewFlat(2), dir: filepath.Join(blocker, "idx"), persistEvery: 1}

	if err := s.Add([]float32{1, 0}, "c1"); err == nil {
		t.Fatal("expected checkpoint failure")
	}
	if s.Count() != 0 || len(s.ids) != 0 {
		t.Fatalf("failed add left state behind: count=%d ids=%d", s.Count(), len(s.ids))
	}

	// A retried add after the failure is cleared lands the comment exactly
	// once.
	s.dir = filepath.Join(tmp, "idx")
	if err := s.Add([]float32{1, 0}, "c1"); err != nil {
		t.Fatalf("retried add: %v", err)
	}
	if s.Count() != 1 || len(s.ids) != 1 {
		t.Errorf("retried add: count=%d ids=%d, want 1/1", s.Count(), len(s.ids))
	}

	hits, err := s.Search([]float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].CommentID != "c1" {
		t.Errorf("expected a single c1 hit, got %+v", hits)
	}
}
