package hubness

// HubnessAboveThresholdExplorer measures, across a range of neighborhood
// sizes, how large a fraction of the dataset sits at or beyond a fixed
// occurrence-frequency threshold. Both the threshold and the direction of
// the comparison are fixed at construction; they describe one
// hub-population-size study.
type HubnessAboveThresholdExplorer struct {
	nsf                  *NeighborSetFinder
	threshold            int
	selectAboveThreshold bool
}

// NewHubnessAboveThresholdExplorer binds the explorer to a finder. When
// selectAboveThreshold is true the sweep records the fraction of points with
// frequency >= threshold, otherwise the fraction with frequency <= threshold.
func NewHubnessAboveThresholdExplorer(nsf *NeighborSetFinder, threshold int, selectAboveThreshold bool) *HubnessAboveThresholdExplorer {
	return &HubnessAboveThresholdExplorer{
		nsf:                  nsf,
		threshold:            threshold,
		selectAboveThreshold: selectAboveThreshold,
	}
}

// ThresholdPercentages returns the population fraction for every k from 1 to
// the finder's current k, indexed by k-1 regardless of the shrinking
// traversal order. Returns nil if the finder is nil or has no computed
// table. The sweep leaves the finder at k = 1.
func (e *HubnessAboveThresholdExplorer) ThresholdPercentages() []float64 {
	if e == nil || e.nsf == nil || e.nsf.CurrentK() == 0 {
		return nil
	}
	kMax := e.nsf.CurrentK()
	out := make([]float64, kMax)
	for k := kMax; k >= 1; k-- {
		if e.selectAboveThreshold {
			out[k-1] = e.nsf.PercFrequentAtLeast(e.threshold)
		} else {
			out[k-1] = e.nsf.PercFrequentAtMost(e.threshold)
		}
		if k > 1 {
			if err := e.nsf.RecalculateForSmallerK(k - 1); err != nil {
				return nil
			}
		}
	}
	return out
}
