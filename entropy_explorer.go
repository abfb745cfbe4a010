package hubness

// KNeighborEntropyExplorer characterizes, across a range of neighborhood
// sizes, the label mixture of direct neighbor sets against that of reverse
// neighbor (occurrence) sets. A growing gap between the two curves is the
// hubness literature's signature of semantic inconsistency: hubs occurring
// in neighbor lists of points semantically unlike them.
type KNeighborEntropyExplorer struct {
	nsf *NeighborSetFinder
}

// NewKNeighborEntropyExplorer binds the explorer to a finder. The finder
// must already have neighbor sets computed at the maximum k of interest.
func NewKNeighborEntropyExplorer(nsf *NeighborSetFinder) *KNeighborEntropyExplorer {
	return &KNeighborEntropyExplorer{nsf: nsf}
}

// EntropyKRangeStats aggregates per-point entropies per k; every slice is
// indexed by k-1.
type EntropyKRangeStats struct {
	DirectMeans     []float64
	DirectStDevs    []float64
	DirectSkews     []float64
	DirectKurtoses  []float64
	ReverseMeans    []float64
	ReverseStDevs   []float64
	ReverseSkews    []float64
	ReverseKurtoses []float64
	// MeanDifferences is DirectMeans - ReverseMeans per k.
	MeanDifferences []float64
}

// EntropyStatsForKRange sweeps k from 1 to the finder's current k; at each k
// it computes the per-point direct kNN-label entropies and reverse-neighbor
// entropies, and aggregates each into mean, standard deviation, skewness and
// excess kurtosis across all points. Returns nil if the finder is nil or has
// no computed table. The sweep leaves the finder at k = 1.
func (e *KNeighborEntropyExplorer) EntropyStatsForKRange() *EntropyKRangeStats {
	if e == nil || e.nsf == nil || e.nsf.CurrentK() == 0 {
		return nil
	}
	kMax := e.nsf.CurrentK()
	stats := &EntropyKRangeStats{
		DirectMeans:     make([]float64, kMax),
		DirectStDevs:    make([]float64, kMax),
		DirectSkews:     make([]float64, kMax),
		DirectKurtoses:  make([]float64, kMax),
		ReverseMeans:    make([]float64, kMax),
		ReverseStDevs:   make([]float64, kMax),
		ReverseSkews:    make([]float64, kMax),
		ReverseKurtoses: make([]float64, kMax),
		MeanDifferences: make([]float64, kMax),
	}
	for k := kMax; k >= 1; k-- {
		if err := e.nsf.CalculateKEntropies(k); err != nil {
			return nil
		}
		if err := e.nsf.CalculateReverseNeighborEntropies(); err != nil {
			return nil
		}
		direct := e.nsf.KEntropies()
		reverse := e.nsf.ReverseNeighborEntropies()

		stats.DirectMeans[k-1] = meanOf(direct)
		stats.DirectStDevs[k-1] = stDevOf(direct)
		stats.DirectSkews[k-1] = skewOf(direct)
		stats.DirectKurtoses[k-1] = kurtosisOf(direct)
		stats.ReverseMeans[k-1] = meanOf(reverse)
		stats.ReverseStDevs[k-1] = stDevOf(reverse)
		stats.ReverseSkews[k-1] = skewOf(reverse)
		stats.ReverseKurtoses[k-1] = kurtosisOf(reverse)
		stats.MeanDifferences[k-1] = stats.DirectMeans[k-1] - stats.ReverseMeans[k-1]

		if k > 1 {
			if err := e.nsf.RecalculateForSmallerK(k - 1); err != nil {
				return nil
			}
		}
	}
	return stats
}
