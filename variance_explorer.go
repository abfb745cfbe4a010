package hubness

// HubnessVarianceExplorer derives the spread of the neighbor occurrence
// distribution across a whole range of neighborhood sizes by repeatedly
// shrinking an already computed finder.
type HubnessVarianceExplorer struct {
	nsf *NeighborSetFinder
}

// NewHubnessVarianceExplorer binds the explorer to a finder. The finder must
// already have neighbor sets computed at the maximum k of interest.
func NewHubnessVarianceExplorer(nsf *NeighborSetFinder) *HubnessVarianceExplorer {
	return &HubnessVarianceExplorer{nsf: nsf}
}

// StDevForKRange returns the population standard deviation of the occurrence
// frequencies for every k from 1 to the finder's current k, indexed by k-1.
// Returns nil if the finder is nil or has no computed table. The sweep
// shrinks the finder step by step and leaves it at k = 1.
func (e *HubnessVarianceExplorer) StDevForKRange() []float64 {
	if e == nil || e.nsf == nil || e.nsf.CurrentK() == 0 {
		return nil
	}
	kMax := e.nsf.CurrentK()
	out := make([]float64, kMax)
	for k := kMax; k >= 1; k-- {
		out[k-1] = stDevOf(e.nsf.FloatOccurrenceFrequencies())
		if k > 1 {
			if err := e.nsf.RecalculateForSmallerK(k - 1); err != nil {
				return nil
			}
		}
	}
	return out
}
