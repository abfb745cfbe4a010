package hubness

import "testing"

func TestThresholdPercentages_AboveMatchesDirect(t *testing.T) {
	ds := randomDataset(35, 3, 2, 41)
	kMax, threshold := 5, 4

	sweep := NewHubnessAboveThresholdExplorer(computedFinder(t, ds, kMax), threshold, true).
		ThresholdPercentages()
	if len(sweep) != kMax {
		t.Fatalf("expected %d entries, got %d", kMax, len(sweep))
	}
	for k := 1; k <= kMax; k++ {
		direct := computedFinder(t, ds, k)
		if want := direct.PercFrequentAtLeast(threshold); sweep[k-1] != want {
			t.Errorf("above[k=%d] = %v, want %v", k, sweep[k-1], want)
		}
	}
}

func TestThresholdPercentages_BelowSelectsComplementSide(t *testing.T) {
	ds := randomDataset(35, 3, 2, 41)
	kMax, threshold := 5, 4

	above := NewHubnessAboveThresholdExplorer(computedFinder(t, ds, kMax), threshold, true).
		ThresholdPercentages()
	below := NewHubnessAboveThresholdExplorer(computedFinder(t, ds, kMax), threshold-1, false).
		ThresholdPercentages()
	for k := 1; k <= kMax; k++ {
		if sum := above[k-1] + below[k-1]; !almostEqual(sum, 1.0, floatTol) {
			t.Errorf("k=%d: above + below = %v, want 1.0", k, sum)
		}
	}
}

func TestThresholdPercentages_LineDataset(t *testing.T) {
	// Every point occurs exactly twice at k=2 and the frequencies at k=1
	// are {1,2,0,1,2,0}.
	sweep := NewHubnessAboveThresholdExplorer(computedFinder(t, lineDataset(), 2), 2, true).
		ThresholdPercentages()
	if !almostEqual(sweep[1], 1.0, floatTol) {
		t.Errorf("k=2 fraction = %v, want 1.0", sweep[1])
	}
	if !almostEqual(sweep[0], 2.0/6.0, floatTol) {
		t.Errorf("k=1 fraction = %v, want 1/3", sweep[0])
	}
}

func TestThresholdPercentages_UncomputedFinder(t *testing.T) {
	nsf := NewNeighborSetFinder(lineDataset(), MetricOverFloats(EuclideanMetric{}))
	if got := NewHubnessAboveThresholdExplorer(nsf, 1, true).ThresholdPercentages(); got != nil {
		t.Errorf("expected nil for uncomputed finder, got %v", got)
	}
}
