package vector

import (
	"fmt"
	"sort"
)

// InsufficientDataError reports that an index holds too few points to
// answer a request.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: have %d points, need %d", e.Have, e.Need)
}

// Neighbor is a query result: a row of the indexed matrix and its distance
// from the anchor.
type Neighbor struct {
	Row      int
	Distance float64
}

// Index answers k-nearest-neighbor queries by brute force under cosine
// distance. Catalog subsets are small enough that a graph index is not worth
// its build cost.
type Index struct {
	matrix *FeatureMatrix
}

// Build creates an index over matrix. At least two rows are required.
func Build(matrix *FeatureMatrix) (*Index, error) {
	if matrix == nil || matrix.Rows() < 2 {
		have := 0
		if matrix != nil {
			have = matrix.Rows()
		}
		return nil, &InsufficientDataError{Have: have, Need: 2}
	}
	return &Index{matrix: matrix}, nil
}

// Size returns the number of indexed points.
func (idx *Index) Size() int {
	return idx.matrix.Rows()
}

// Query returns the k rows nearest to the anchor row, nearest first. The
// anchor itself is never part of the result. Equal distances keep row order.
func (idx *Index) Query(anchor, k int) ([]Neighbor, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if anchor < 0 || anchor >= idx.Size() {
		return nil, fmt.Errorf("anchor row %d out of range [0, %d)", anchor, idx.Size())
	}
	if idx.Size() < k+1 {
		return nil, &InsufficientDataError{Have: idx.Size(), Need: k + 1}
	}

	query := idx.matrix.Row(anchor)
	scored := make([]Neighbor, 0, idx.Size()-1)
	for i := 0; i < idx.Size(); i++ {
		if i == anchor {
			continue
		}
		scored = append(scored, Neighbor{Row: i, Distance: CosineDistance(query, idx.matrix.Row(i))})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})

	return scored[:k], nil
}
