// ABOUTME: Tests for vector blob codec and cosine distance
// ABOUTME: Verifies round-trip encoding and distance conventions
package sqlite

import (
	"math"
	"testing"
)

func TestVectorBlobRoundTrip(t *testing.T) {
	vector := []float64{0.25, -1.5, 3.14159, 0}
	blob := vectorToBlob(vector)
	got := blobToVector(blob)

	if len(got) != len(vector) {
		t.Fatalf("round-trip length = %d, want %d", len(got), len(vector))
	}
	for i := range vector {
		if got[i] != vector[i] {
			t.Errorf("round-trip[%d] = %v, want %v", i, got[i], vector[i])
		}
	}
}

func TestBlobToVector_NilAndEmpty(t *testing.T) {
	if v := blobToVector(nil); v != nil {
		t.Errorf("blobToVector(nil) = %v, want nil", v)
	}
	if v := blobToVector([]byte{}); v != nil {
		t.Errorf("blobToVector(empty) = %v, want nil", v)
	}
}

func TestCosineDistance_Identical(t *testing.T) {
	a := []float64{0.5, 0.5, 0.7}
	d := CosineDistance(a, a)
	if math.Abs(d) > 1e-12 {
		t.Errorf("CosineDistance(a, a) = %v, want 0", d)
	}
}

func TestCosineDistance_Orthogonal(t *testing.T) {
	d := CosineDistance([]float64{1, 0}, []float64{0, 1})
	if math.Abs(d-1.0) > 1e-12 {
		t.Errorf("CosineDistance(orthogonal) = %v, want 1", d)
	}
}

func TestCosineDistance_Degenerate(t *testing.T) {
	if d := CosineDistance([]float64{1, 0}, []float64{1, 0, 0}); d != 1.0 {
		t.Errorf("CosineDistance(mismatched dims) = %v, want 1", d)
	}
	if d := CosineDistance([]float64{0, 0}, []float64{1, 0}); d != 1.0 {
		t.Errorf("CosineDistance(zero vector) = %v, want 1", d)
	}
	if d := CosineDistance(nil, nil); d != 1.0 {
		t.Errorf("CosineDistance(nil, nil) = %v, want 1", d)
	}
}
