package hubness

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// NeighborSetFinder computes and incrementally maintains, for every point of
// a dataset, its ordered k-nearest-neighbor list and the derived neighbor
// occurrence statistics. The kNN table and every derived array are always
// mutually consistent for the current k: shrinking the table recomputes all
// frequency derivatives before returning.
//
// A finder is exclusively owned by one workflow at a time; see
// [NeighborSetFinder.View] for sharing it read-only across ensemble members.
type NeighborSetFinder struct {
	ds                *Dataset
	metric            PointMetric
	dm                *DistanceMatrix
	distancesComputed bool

	currentK   int
	kneighbors [][]int
	kdistances [][]float64
	// rowLens[i] is the number of filled entries in row i. It equals
	// currentK unless non-finite distances excluded candidates.
	rowLens []int

	freq     []int
	goodFreq []int
	badFreq  []int
	// classFreq[c][p] counts how many queries of class c had p as a neighbor.
	classFreq [][]int

	kEntropies        []float64
	kEntropiesK       int
	reverseEntropies  []float64
	reverseEntropiesK int
}

// NewNeighborSetFinder binds a finder to a dataset and metric. No distances
// are computed yet.
func NewNeighborSetFinder(ds *Dataset, metric PointMetric) *NeighborSetFinder {
	return &NeighborSetFinder{ds: ds, metric: metric}
}

// NewNeighborSetFinderFromMatrix binds a finder to a dataset, a precomputed
// distance matrix, and the metric the matrix was computed under. Distances
// are marked as already computed; the caller is responsible for the matrix
// matching the dataset.
func NewNeighborSetFinderFromMatrix(ds *Dataset, dm *DistanceMatrix, metric PointMetric) *NeighborSetFinder {
	return &NeighborSetFinder{ds: ds, metric: metric, dm: dm, distancesComputed: true}
}

// Dataset returns the dataset the finder is bound to.
func (nsf *NeighborSetFinder) Dataset() *Dataset { return nsf.ds }

// Metric returns the point metric the finder is bound to.
func (nsf *NeighborSetFinder) Metric() PointMetric { return nsf.metric }

// DistanceMatrix returns the current distance matrix, or nil if distances
// have not been computed or supplied.
func (nsf *NeighborSetFinder) DistanceMatrix() *DistanceMatrix {
	if !nsf.distancesComputed {
		return nil
	}
	return nsf.dm
}

// CalculateDistances computes and stores the distance matrix. It is
// idempotent: a second call, or a call after SetDistances or the
// matrix-taking constructor, is a no-op.
func (nsf *NeighborSetFinder) CalculateDistances() error {
	if nsf.distancesComputed {
		return nil
	}
	dm, err := ComputeDistanceMatrix(nsf.ds, nsf.metric)
	if err != nil {
		return err
	}
	nsf.dm = dm
	nsf.distancesComputed = true
	return nil
}

// SetDistances supplies an externally computed matrix, marking distances as
// computed. The caller is responsible for matrix validity (dimensions and
// symmetric semantics). Returns an error on a size mismatch with the dataset.
func (nsf *NeighborSetFinder) SetDistances(dm *DistanceMatrix) error {
	if dm.Size() != nsf.ds.Size() {
		return fmt.Errorf("hubness: matrix covers %d points, dataset has %d", dm.Size(), nsf.ds.Size())
	}
	nsf.dm = dm
	nsf.distancesComputed = true
	return nil
}

func (nsf *NeighborSetFinder) validateK(k int) error {
	n := nsf.ds.Size()
	if k < 1 {
		return fmt.Errorf("hubness: k must be >= 1, got %d", k)
	}
	if k > n-1 {
		return fmt.Errorf("hubness: k must be <= n-1 = %d, got %d", n-1, k)
	}
	return nil
}

// CalculateNeighborSets builds the full kNN table for the requested k and
// derives all occurrence frequencies from it. Distances are computed first
// if not already present. Requires 1 <= k <= n-1.
func (nsf *NeighborSetFinder) CalculateNeighborSets(k int) error {
	if err := nsf.validateK(k); err != nil {
		return err
	}
	if err := nsf.CalculateDistances(); err != nil {
		return err
	}

	n := nsf.ds.Size()
	nsf.allocTable(n, k)
	for i := 0; i < n; i++ {
		nsf.rowLens[i] = nsf.fillRow(i, k)
	}
	nsf.finishTable(k)
	return nil
}

// CalculateNeighborSetsParallel is CalculateNeighborSets with the rows
// partitioned across numWorkers goroutines. Each row is still scanned in
// increasing candidate order, so the resulting tables are identical to the
// sequential path regardless of worker count. Falls back to sequential if
// numWorkers <= 1.
func (nsf *NeighborSetFinder) CalculateNeighborSetsParallel(k, numWorkers int) error {
	if numWorkers <= 1 {
		return nsf.CalculateNeighborSets(k)
	}
	if err := nsf.validateK(k); err != nil {
		return err
	}
	if err := nsf.CalculateDistances(); err != nil {
		return err
	}

	n := nsf.ds.Size()
	nsf.allocTable(n, k)

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
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				nsf.rowLens[i] = nsf.fillRow(i, k)
			}
		}(startRow, endRow)
	}
	wg.Wait()

	nsf.finishTable(k)
	return nil
}

// finishTable truncates rows that non-finite distances left short of k, then
// derives the frequency arrays.
func (nsf *NeighborSetFinder) finishTable(k int) {
	for i := range nsf.kneighbors {
		if nsf.rowLens[i] < k {
			nsf.kneighbors[i] = nsf.kneighbors[i][:nsf.rowLens[i]]
			nsf.kdistances[i] = nsf.kdistances[i][:nsf.rowLens[i]]
		}
	}
	nsf.currentK = k
	nsf.deriveFrequencies()
}

func (nsf *NeighborSetFinder) allocTable(n, k int) {
	nsf.kneighbors = make([][]int, n)
	nsf.kdistances = make([][]float64, n)
	nsf.rowLens = make([]int, n)
	for i := 0; i < n; i++ {
		nsf.kneighbors[i] = make([]int, k)
		nsf.kdistances[i] = make([]float64, k)
	}
}

// fillRow computes the neighbor row of point i by bounded sorted insertion:
// every other point is scanned in increasing index order and inserted into
// the k-sized buffer if the buffer is not yet full or the candidate is
// closer than the current worst entry, shifting larger entries right and
// evicting the previous worst. O(n*k) per row.
//
// Ties are broken in favor of the lower candidate index: the shift
// comparison is strict, so an equal distance never displaces an
// earlier-scanned (lower-index) entry. Candidates with non-finite distances
// are skipped; the returned row length is < k only in that case.
func (nsf *NeighborSetFinder) fillRow(i, k int) int {
	n := nsf.ds.Size()
	idx := nsf.kneighbors[i]
	dist := nsf.kdistances[i]
	size := 0
	for j := 0; j < n; j++ {
		if j == i {
			continue
		}
		d := nsf.dm.Get(i, j)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		var pos int
		switch {
		case size < k:
			pos = size
			size++
		case d < dist[k-1]:
			pos = k - 1
		default:
			continue
		}
		for pos > 0 && dist[pos-1] > d {
			dist[pos] = dist[pos-1]
			idx[pos] = idx[pos-1]
			pos--
		}
		dist[pos] = d
		idx[pos] = j
	}
	return size
}

// RecalculateForSmallerK truncates every row of the table to its first newK
// entries and recomputes all frequency derivatives. The table is already
// sorted ascending, so no re-sort is needed; this is strictly cheaper than
// recomputing neighbor sets from scratch and is what every k-range sweep
// relies on. Growing k back requires a fresh CalculateNeighborSets call.
func (nsf *NeighborSetFinder) RecalculateForSmallerK(newK int) error {
	if nsf.currentK == 0 {
		return errors.New("hubness: no neighbor sets computed")
	}
	if newK < 1 || newK > nsf.currentK {
		return fmt.Errorf("hubness: newK must be in [1, %d], got %d", nsf.currentK, newK)
	}
	for i := range nsf.kneighbors {
		if nsf.rowLens[i] > newK {
			nsf.rowLens[i] = newK
		}
		if len(nsf.kneighbors[i]) > newK {
			nsf.kneighbors[i] = nsf.kneighbors[i][:newK]
			nsf.kdistances[i] = nsf.kdistances[i][:newK]
		}
	}
	nsf.currentK = newK
	nsf.deriveFrequencies()
	return nil
}

// deriveFrequencies rebuilds freq, goodFreq, badFreq and classFreq from the
// current table in a single pass. Occurrences where either endpoint is
// unlabeled count toward the total only.
func (nsf *NeighborSetFinder) deriveFrequencies() {
	n := nsf.ds.Size()
	numClasses := nsf.ds.NumClasses()

	nsf.freq = make([]int, n)
	nsf.goodFreq = make([]int, n)
	nsf.badFreq = make([]int, n)
	nsf.classFreq = make([][]int, numClasses)
	for c := range nsf.classFreq {
		nsf.classFreq[c] = make([]int, n)
	}

	for i := 0; i < n; i++ {
		qLabel := nsf.ds.Label(i)
		for r := 0; r < nsf.rowLens[i]; r++ {
			nb := nsf.kneighbors[i][r]
			nsf.freq[nb]++
			nbLabel := nsf.ds.Label(nb)
			if qLabel >= 0 && nbLabel >= 0 {
				if qLabel == nbLabel {
					nsf.goodFreq[nb]++
				} else {
					nsf.badFreq[nb]++
				}
			}
			if qLabel >= 0 {
				nsf.classFreq[qLabel][nb]++
			}
		}
	}

	// Cached entropies are for the previous table.
	nsf.kEntropies = nil
	nsf.kEntropiesK = 0
	nsf.reverseEntropies = nil
	nsf.reverseEntropiesK = 0
}

// CurrentK returns the k the table is currently valid for, 0 before any
// computation.
func (nsf *NeighborSetFinder) CurrentK() int { return nsf.currentK }

// KNeighbors returns the kNN index table: row i holds the indices of i's
// currentK nearest neighbors in non-decreasing distance order. A row is
// shorter than currentK only when non-finite distances left point i with
// fewer measurable candidates.
func (nsf *NeighborSetFinder) KNeighbors() [][]int { return nsf.kneighbors }

// KDistances returns the distances companion of KNeighbors, in the same
// order.
func (nsf *NeighborSetFinder) KDistances() [][]float64 { return nsf.kdistances }

// NeighborFrequencies returns freq, where freq[p] counts how many times p
// appears anywhere in the current table.
func (nsf *NeighborSetFinder) NeighborFrequencies() []int { return nsf.freq }

// GoodFrequencies returns the occurrences where the query's label matches
// the neighbor's label.
func (nsf *NeighborSetFinder) GoodFrequencies() []int { return nsf.goodFreq }

// BadFrequencies returns the occurrences where the query's label differs
// from the neighbor's label.
func (nsf *NeighborSetFinder) BadFrequencies() []int { return nsf.badFreq }

// ClassConditionalFrequencies returns freqs[c][p]: how many query points of
// class c had p as a neighbor.
func (nsf *NeighborSetFinder) ClassConditionalFrequencies() [][]int { return nsf.classFreq }

// FloatOccurrenceFrequencies returns the occurrence frequencies as float64,
// for statistics requiring non-integer arithmetic.
func (nsf *NeighborSetFinder) FloatOccurrenceFrequencies() []float64 {
	if nsf.freq == nil {
		return nil
	}
	out := make([]float64, len(nsf.freq))
	for p, f := range nsf.freq {
		out[p] = float64(f)
	}
	return out
}

// PercFrequentAtLeast returns the fraction of points whose occurrence
// frequency is >= threshold.
func (nsf *NeighborSetFinder) PercFrequentAtLeast(threshold int) float64 {
	if len(nsf.freq) == 0 {
		return 0
	}
	count := 0
	for _, f := range nsf.freq {
		if f >= threshold {
			count++
		}
	}
	return float64(count) / float64(len(nsf.freq))
}

// PercFrequentAtMost returns the fraction of points whose occurrence
// frequency is <= threshold.
func (nsf *NeighborSetFinder) PercFrequentAtMost(threshold int) float64 {
	if len(nsf.freq) == 0 {
		return 0
	}
	count := 0
	for _, f := range nsf.freq {
		if f <= threshold {
			count++
		}
	}
	return float64(count) / float64(len(nsf.freq))
}

// FrequentAtLeast returns the indices of all points whose occurrence
// frequency is >= threshold, in index order.
func (nsf *NeighborSetFinder) FrequentAtLeast(threshold int) []int {
	var out []int
	for p, f := range nsf.freq {
		if f >= threshold {
			out = append(out, p)
		}
	}
	return out
}

// LabelMismatchPercsAllK returns, for every k' in 1..currentK, the fraction
// of neighbor occurrences in the first k' table columns where the query and
// neighbor labels disagree (the bad-hubness ratio). Indexed by k'-1. The
// table is scanned column by column without mutating engine state.
func (nsf *NeighborSetFinder) LabelMismatchPercsAllK() []float64 {
	if nsf.currentK == 0 {
		return nil
	}
	badAtRank := make([]int, nsf.currentK)
	totalAtRank := make([]int, nsf.currentK)
	for i := range nsf.kneighbors {
		qLabel := nsf.ds.Label(i)
		for r := 0; r < nsf.rowLens[i]; r++ {
			totalAtRank[r]++
			nb := nsf.kneighbors[i][r]
			nbLabel := nsf.ds.Label(nb)
			if qLabel >= 0 && nbLabel >= 0 && qLabel != nbLabel {
				badAtRank[r]++
			}
		}
	}
	out := make([]float64, nsf.currentK)
	badSum, totalSum := 0, 0
	for r := 0; r < nsf.currentK; r++ {
		badSum += badAtRank[r]
		totalSum += totalAtRank[r]
		if totalSum > 0 {
			out[r] = float64(badSum) / float64(totalSum)
		}
	}
	return out
}

// CalculateKEntropies computes, for every point, the base-2 Shannon entropy
// of the class histogram over its first k neighbors. Requires a computed
// table and k <= currentK. The result is cached until the table changes.
func (nsf *NeighborSetFinder) CalculateKEntropies(k int) error {
	if nsf.currentK == 0 {
		return errors.New("hubness: no neighbor sets computed")
	}
	if k < 1 || k > nsf.currentK {
		return fmt.Errorf("hubness: k must be in [1, %d], got %d", nsf.currentK, k)
	}
	n := nsf.ds.Size()
	numClasses := nsf.ds.NumClasses()
	nsf.kEntropies = make([]float64, n)
	nsf.kEntropiesK = k
	if numClasses == 0 {
		return nil
	}
	hist := make([]float64, numClasses)
	for i := 0; i < n; i++ {
		for c := range hist {
			hist[c] = 0
		}
		limit := min(k, nsf.rowLens[i])
		for r := 0; r < limit; r++ {
			if l := nsf.ds.Label(nsf.kneighbors[i][r]); l >= 0 {
				hist[l]++
			}
		}
		nsf.kEntropies[i] = entropyBase2(hist)
	}
	return nil
}

// KEntropies returns the per-point direct kNN-label entropies from the last
// CalculateKEntropies call, or nil if none is cached for the current table.
func (nsf *NeighborSetFinder) KEntropies() []float64 { return nsf.kEntropies }

// CalculateReverseNeighborEntropies computes, for every point p, the base-2
// Shannon entropy of the label distribution of the points that have p in
// their current neighbor row (the reverse neighbors). A point with no
// reverse neighbors has entropy 0.
func (nsf *NeighborSetFinder) CalculateReverseNeighborEntropies() error {
	if nsf.currentK == 0 {
		return errors.New("hubness: no neighbor sets computed")
	}
	n := nsf.ds.Size()
	numClasses := nsf.ds.NumClasses()
	nsf.reverseEntropies = make([]float64, n)
	nsf.reverseEntropiesK = nsf.currentK
	if numClasses == 0 {
		return nil
	}
	hists := make([][]float64, n)
	for i := 0; i < n; i++ {
		qLabel := nsf.ds.Label(i)
		if qLabel < 0 {
			continue
		}
		for r := 0; r < nsf.rowLens[i]; r++ {
			nb := nsf.kneighbors[i][r]
			if hists[nb] == nil {
				hists[nb] = make([]float64, numClasses)
			}
			hists[nb][qLabel]++
		}
	}
	for p := 0; p < n; p++ {
		if hists[p] != nil {
			nsf.reverseEntropies[p] = entropyBase2(hists[p])
		}
	}
	return nil
}

// ReverseNeighborEntropies returns the per-point reverse-neighbor entropies
// from the last CalculateReverseNeighborEntropies call, or nil if none is
// cached for the current table.
func (nsf *NeighborSetFinder) ReverseNeighborEntropies() []float64 { return nsf.reverseEntropies }

// GlobalClassToClassForK returns a row-stochastic numClasses x numClasses
// matrix where entry [c1][c2] is the smoothed fraction of neighbor
// occurrences with query class c1 that fell on a neighbor of class c2, over
// the first k table columns. smoothing is a Laplace term added to every
// cell; with smoothing 0, a class with no outgoing occurrences yields an
// all-zero row. Requires k <= currentK.
func (nsf *NeighborSetFinder) GlobalClassToClassForK(k int, smoothing float64) ([][]float64, error) {
	if nsf.currentK == 0 {
		return nil, errors.New("hubness: no neighbor sets computed")
	}
	if k < 1 || k > nsf.currentK {
		return nil, fmt.Errorf("hubness: k must be in [1, %d], got %d", nsf.currentK, k)
	}
	if smoothing < 0 {
		return nil, fmt.Errorf("hubness: smoothing must be >= 0, got %g", smoothing)
	}
	numClasses := nsf.ds.NumClasses()
	counts := make([][]float64, numClasses)
	for c := range counts {
		counts[c] = make([]float64, numClasses)
	}
	for i := range nsf.kneighbors {
		qLabel := nsf.ds.Label(i)
		if qLabel < 0 {
			continue
		}
		limit := min(k, nsf.rowLens[i])
		for r := 0; r < limit; r++ {
			if nbLabel := nsf.ds.Label(nsf.kneighbors[i][r]); nbLabel >= 0 {
				counts[qLabel][nbLabel]++
			}
		}
	}
	for c1 := range counts {
		var rowTotal float64
		for c2 := range counts[c1] {
			counts[c1][c2] += smoothing
			rowTotal += counts[c1][c2]
		}
		if rowTotal > 0 {
			for c2 := range counts[c1] {
				counts[c1][c2] /= rowTotal
			}
		}
	}
	return counts, nil
}
