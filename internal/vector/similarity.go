package vector

import (
	"math"
)

// MaxDistance is the cosine distance reported when similarity is undefined.
const MaxDistance = 1.0

// CosineSimilarity calculates the cosine similarity between two vectors
// Returns a value between -1 and 1, where 1 means identical direction.
// Vectors of different length or with zero magnitude have similarity 0.
func CosineSimilarity(vec1, vec2 []float32) float64 {
	sim, ok := cosine(vec1, vec2)
	if !ok {
		return 0
	}
	return sim
}

// CosineDistance returns 1 - cosine similarity.
// If either vector is all-zero the similarity is undefined and MaxDistance is returned.
func CosineDistance(vec1, vec2 []float32) float64 {
	sim, ok := cosine(vec1, vec2)
	if !ok {
		return MaxDistance
	}
	d := 1.0 - sim
	if d < 0 {
		return 0
	}
	return d
}

func cosine(vec1, vec2 []float32) (float64, bool) {
	if len(vec1) != len(vec2) {
		return 0, false
	}

	var dotProduct, norm1, norm2 float64
	for i := 0; i < len(vec1); i++ {
		dotProduct += float64(vec1[i]) * float64(vec2[i])
		norm1 += float64(vec1[i]) * float64(vec1[i])
		norm2 += float64(vec2[i]) * float64(vec2[i])
	}

	if norm1 == 0 || norm2 == 0 {
		return 0, false
	}

	// sqrt of the product keeps sim(v, v) exactly 1 for integer-valued vectors
	return dotProduct / math.Sqrt(norm1*norm2), true
}
