package model

import (
	"fmt"
	"math"
)

// Embedding is a fixed-dimension vector produced by the embedding oracle.
type Embedding []float32

// normEpsilon guards against division by zero for all-zero vectors.
const normEpsilon = 1e-8

// CosineSimilarity returns the cosine of the angle between a and b.
func CosineSimilarity(a, b Embedding) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	return dot / (math.Max(math.Sqrt(na), normEpsilon) * math.Max(math.Sqrt(nb), normEpsilon)), nil
}

// MaxSimilarity returns the highest cosine similarity between e and any of refs.
func MaxSimilarity(e Embedding, refs []Embedding) (float64, error) {
	if len(refs) == 0 {
		return 0, fmt.Errorf("no reference embeddings")
	}
	best := math.Inf(-1)
	for _, r := range refs {
		sim, err := CosineSimilarity(e, r)
		if err != nil {
			return 0, err
		}
		if sim > best {
			best = sim
		}
	}
	return best, nil
}
