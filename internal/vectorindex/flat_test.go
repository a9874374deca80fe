package vectorindex

import (
	"errors"
	"math"
	"testing"
)

func TestFlatAddAndCount(t *testing.T) {
	f := NewFlat(3)
	if f.Count() != 0 {
		t.Fatalf("fresh index count = %d", f.Count())
	}

	if err := f.Add([]float32{1, 0, 0}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if f.Count() != 1 {
		t.Errorf("count after one add = %d", f.Count())
	}
}

func TestFlatAddDimensionMismatch(t *testing.T) {
	f := NewFlat(3)
	if err := f.Add([]float32{1, 0}); !errors.Is(err, ErrDimension) {
		t.Errorf("expected ErrDimension, got %v", err)
	}
}

func TestFlatSearchEmpty(t *testing.T) {
	f := NewFlat(3)
	if _, err := f.Search([]float32{1, 0, 0}, 5); !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("expected ErrEmptyIndex, got %v", err)
	}
}

func TestFlatSearchExactMatch(t *testing.T) {
	f := NewFlat(2)
	if err := f.Add([]float32{1, 0}); err != nil {
		t.Fatal(err)
	}
	if err := f.Add([]float32{0, 1}); err != nil {
		t.Fatal(err)
	}

	got, err := f.Search([]float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Pos != 0 {
		t.Fatalf("expected position 0, got %+v", got)
	}
	if math.Abs(float64(got[0].Score)-1.0) > 1e-6 {
		t.Errorf("exact match score = %f, want ~1.0", got[0].Score)
	}
}

func TestFlatSearchOrdering(t *testing.T) {
	f := NewFlat(2)
	norm := float32(math.Sqrt(0.5))
	vectors := [][]float32{
		{0, 1},          // orthogonal to query
		{1, 0},          // exact
		{norm, norm},    // 45 degrees
	}
	for _, v := range vectors {
		if err := f.Add(v); err != nil {
			t.Fatal(err)
		}
	}

	got, err := f.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	wantOrder := []int{1, 2, 0}
	for i, c := range got {
		if c.Pos != wantOrder[i] {
			t.Fatalf("result order = %+v, want positions %v", got, wantOrder)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("scores not descending: %+v", got)
		}
	}
}

func TestFlatSearchQueryDimensionMismatch(t *testing.T) {
	f := NewFlat(3)
	if err := f.Add([]float32{1, 0, 0}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Search([]float32{1, 0}, 1); !errors.Is(err, ErrDimension) {
		t.Errorf("expected ErrDimension, got %v", err)
	}
}

func TestFlatSearchTopKLimitsResults(t *testing.T) {
	f := NewFlat(1)
	for i := 0; i < 5; i++ {
		if err := f.Add([]float32{float32(i) / 10}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := f.Search([]float32{1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 results, got %d", len(got))
	}
}

func TestFlatRebuildReplacesContents(t *testing.T) {
	f := NewFlat(2)
	if err := f.Add([]float32{1, 0}); err != nil {
		t.Fatal(err)
	}

	if err := f.Rebuild([][]float32{{0, 1}, {1, 0}, {0, 1}}, 2); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if f.Count() != 3 {
		t.Errorf("count after rebuild = %d, want 3", f.Count())
	}

	if err := f.Rebuild([][]float32{{1, 0, 0}}, 2); !errors.Is(err, ErrDimension) {
		t.Errorf("rebuild with wrong-dimension vector: %v", err)
	}
}

func TestFlatReset(t *testing.T) {
	f := NewFlat(2)
	if err := f.Add([]float32{1, 0}); err != nil {
		t.Fatal(err)
	}
	f.Reset()
	if f.Count() != 0 {
		t.Errorf("count after reset = %d", f.Count())
	}
	if _, err := f.Search([]float32{1, 0}, 1); !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("search after reset should report empty index, got %v", err)
	}
}
