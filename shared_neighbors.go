package hubness

import "errors"

// SharedNeighborCounts returns, for every pair of points, the size of the
// intersection of their current k-neighbor index sets, in upper-triangular
// layout (counts[i][c] covers the pair (i, i+1+c), mirroring
// DistanceMatrix). Requires a computed table.
func SharedNeighborCounts(nsf *NeighborSetFinder) ([][]int, error) {
	if nsf.CurrentK() == 0 {
		return nil, errors.New("hubness: no neighbor sets computed")
	}
	n := nsf.Dataset().Size()
	kneighbors := nsf.KNeighbors()

	counts := make([][]int, n)
	member := make([]bool, n)
	for i := 0; i < n; i++ {
		counts[i] = make([]int, n-1-i)
		for _, nb := range kneighbors[i] {
			member[nb] = true
		}
		for j := i + 1; j < n; j++ {
			shared := 0
			for _, nb := range kneighbors[j] {
				if member[nb] {
					shared++
				}
			}
			counts[i][j-i-1] = shared
		}
		for _, nb := range kneighbors[i] {
			member[nb] = false
		}
	}
	return counts, nil
}

// SharedNeighborDistances derives a secondary distance matrix from the
// current neighbor sets: d(i, j) = k - shared(i, j). Fewer shared neighbors
// means greater dissimilarity. The result is a valid input to
// NewNeighborSetFinderFromMatrix, so the engine's output can be fed back
// into a fresh engine for higher-order analysis.
func SharedNeighborDistances(nsf *NeighborSetFinder) (*DistanceMatrix, error) {
	counts, err := SharedNeighborCounts(nsf)
	if err != nil {
		return nil, err
	}
	k := float64(nsf.CurrentK())
	dm := NewDistanceMatrix(len(counts))
	for i := range counts {
		for c, shared := range counts[i] {
			dm.rows[i][c] = k - float64(shared)
		}
	}
	return dm, nil
}

// HubnessWeightedSharedNeighborDistances is SharedNeighborDistances with
// each shared neighbor s contributing 1/(1+freq[s]) instead of 1, damping
// the influence of hubs on the secondary similarity: d(i, j) = k - sum of
// weights over shared neighbors. Since every weight is at most 1, the
// result is non-negative.
func HubnessWeightedSharedNeighborDistances(nsf *NeighborSetFinder) (*DistanceMatrix, error) {
	if nsf.CurrentK() == 0 {
		return nil, errors.New("hubness: no neighbor sets computed")
	}
	n := nsf.Dataset().Size()
	k := float64(nsf.CurrentK())
	kneighbors := nsf.KNeighbors()
	freq := nsf.NeighborFrequencies()

	dm := NewDistanceMatrix(n)
	member := make([]bool, n)
	for i := 0; i < n; i++ {
		for _, nb := range kneighbors[i] {
			member[nb] = true
		}
		for j := i + 1; j < n; j++ {
			var sim float64
			for _, nb := range kneighbors[j] {
				if member[nb] {
					sim += 1.0 / (1.0 + float64(freq[nb]))
				}
			}
			dm.rows[i][j-i-1] = k - sim
		}
		for _, nb := range kneighbors[i] {
			member[nb] = false
		}
	}
	return dm, nil
}

// SharedNeighborAnalyzer builds a second-order finder over the
// shared-neighbor distances of a first-order finder.
type SharedNeighborAnalyzer struct {
	// HubnessWeighted selects HubnessWeightedSharedNeighborDistances as the
	// secondary distance instead of the plain shared-neighbor count.
	HubnessWeighted bool
}

// Analyze derives the secondary distance matrix from nsf's current table and
// returns a fresh finder over it with neighbor sets computed at the same k.
// The first-order finder is read, never mutated.
func (a SharedNeighborAnalyzer) Analyze(nsf *NeighborSetFinder) (*NeighborSetFinder, error) {
	var dm *DistanceMatrix
	var err error
	if a.HubnessWeighted {
		dm, err = HubnessWeightedSharedNeighborDistances(nsf)
	} else {
		dm, err = SharedNeighborDistances(nsf)
	}
	if err != nil {
		return nil, err
	}
	second := NewNeighborSetFinderFromMatrix(nsf.Dataset(), dm, nsf.Metric())
	if err := second.CalculateNeighborSets(nsf.CurrentK()); err != nil {
		return nil, err
	}
	return second, nil
}
