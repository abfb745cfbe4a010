package hubness

import (
	"fmt"
	"sync"
)

// DistanceMatrix holds the pairwise distances of a dataset in compact
// upper-triangular form: row i stores the distances from point i to points
// i+1..n-1, so row i has length n-1-i. Distances for j < i are resolved by
// symmetry. Once computed for a given dataset and metric, a matrix is
// immutable.
type DistanceMatrix struct {
	rows [][]float64
}

// NewDistanceMatrix allocates an empty upper-triangular matrix for n points.
func NewDistanceMatrix(n int) *DistanceMatrix {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n-1-i)
	}
	return &DistanceMatrix{rows: rows}
}

// NewDistanceMatrixFromRows wraps existing upper-triangular rows (row i must
// have length n-1-i). Returns an error on a malformed shape. Used to adopt a
// matrix deserialized by an external persistence layer.
func NewDistanceMatrixFromRows(rows [][]float64) (*DistanceMatrix, error) {
	n := len(rows)
	for i, row := range rows {
		if len(row) != n-1-i {
			return nil, fmt.Errorf("hubness: row %d has length %d, want %d", i, len(row), n-1-i)
		}
	}
	return &DistanceMatrix{rows: rows}, nil
}

// Size returns the number of points the matrix covers.
func (dm *DistanceMatrix) Size() int { return len(dm.rows) }

// Get returns the distance between points i and j. Get(i, i) is 0 by
// convention; the diagonal is never stored.
func (dm *DistanceMatrix) Get(i, j int) float64 {
	if i == j {
		return 0
	}
	if i < j {
		return dm.rows[i][j-i-1]
	}
	return dm.rows[j][i-j-1]
}

func (dm *DistanceMatrix) set(i, j int, d float64) {
	dm.rows[i][j-i-1] = d
}

// ComputeDistanceMatrix computes the full upper-triangular distance matrix
// for ds under metric. Non-finite metric outputs are stored as-is; they are
// skipped later at the aggregation stage, not here.
func ComputeDistanceMatrix(ds *Dataset, metric PointMetric) (*DistanceMatrix, error) {
	n := ds.Size()
	dm := NewDistanceMatrix(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d, err := metric.PointDistance(&ds.Points[i], &ds.Points[j])
			if err != nil {
				return nil, err
			}
			dm.set(i, j, d)
		}
	}
	return dm, nil
}

// ComputeDistanceMatrixParallel computes the distance matrix using multiple
// goroutines. Each worker handles a contiguous range of rows; since row
// ranges don't overlap, no synchronization is needed for writes. The result
// is bitwise identical to ComputeDistanceMatrix. Falls back to the
// sequential path if numWorkers <= 1.
func ComputeDistanceMatrixParallel(ds *Dataset, metric PointMetric, numWorkers int) (*DistanceMatrix, error) {
	n := ds.Size()
	if numWorkers <= 1 || n <= 1 {
		return ComputeDistanceMatrix(ds, metric)
	}

	dm := NewDistanceMatrix(n)
	errs := make([]error, numWorkers)

	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if endRow > n {
			endRow = n
		}
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				for j := i + 1; j < n; j++ {
					d, err := metric.PointDistance(&ds.Points[i], &ds.Points[j])
					if err != nil {
						errs[w] = err
						return
					}
					dm.set(i, j, d)
				}
			}
		}(w, startRow, endRow)
	}

	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return dm, nil
}
