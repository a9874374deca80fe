package embeddings

import (
	"math"
	"testing"
)

func length(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

func TestNormalize(t *testing.T) {
	vec := Normalize([]float32{3, 4})
	if got := length(vec); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("expected unit length, got %f", got)
	}
	if math.Abs(float64(vec[0])-0.6) > 1e-6 || math.Abs(float64(vec[1])-0.8) > 1e-6 {
		t.Errorf("unexpected direction: %v", vec)
	}
}

func TestNormalizeAlreadyUnit(t *testing.T) {
	vec := Normalize([]float32{1, 0, 0})
	if vec[0] != 1 || vec[1] != 0 || vec[2] != 0 {
		t.Errorf("unit vector should be unchanged: %v", vec)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	vec := Normalize([]float32{0, 0, 0})
	for _, v := range vec {
		if v != 0 {
			t.Errorf("zero vector should stay zero: %v", vec)
		}
	}
}
