// ABOUTME: Vector BLOB codec and cosine distance for index search
// ABOUTME: Encodes float64 vectors little-endian; NULL stays distinct from empty
package sqlite

import (
	"encoding/binary"
	"math"
)

// vectorToBlob converts a float64 slice to a binary blob. A nil or empty
// vector returns nil so the column is written as NULL, never as a
// zero-length blob - "absent" must stay representationally distinct.
func vectorToBlob(vector []float64) []byte {
	if len(vector) == 0 {
		return nil
	}
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to a float64 slice
func blobToVector(blob []byte) []float64 {
	if len(blob) == 0 {
		return nil
	}
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}

// CosineDistance returns 1 minus the cosine similarity of two vectors,
// so 0 means identical direction and larger means less related.
// Mismatched or zero vectors yield the maximum distance.
func CosineDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 1.0
	}

	return 1.0 - dotProduct/(math.Sqrt(normA)*math.Sqrt(normB))
}
