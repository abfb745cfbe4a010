package hubness

import "testing"

func TestStDevForKRange_MatchesDirectComputation(t *testing.T) {
	ds := randomDataset(40, 3, 2, 31)
	kMax := 6

	sweep := NewHubnessVarianceExplorer(computedFinder(t, ds, kMax)).StDevForKRange()
	if len(sweep) != kMax {
		t.Fatalf("expected %d entries, got %d", kMax, len(sweep))
	}

	// Each entry must agree with a from-scratch computation at that k.
	for k := 1; k <= kMax; k++ {
		direct := computedFinder(t, ds, k)
		want := stDevOf(direct.FloatOccurrenceFrequencies())
		if sweep[k-1] != want {
			t.Errorf("stdev[k=%d] = %v, want %v", k, sweep[k-1], want)
		}
	}
}

func TestStDevForKRange_LeavesFinderAtK1(t *testing.T) {
	nsf := computedFinder(t, randomDataset(20, 2, 2, 37), 4)
	NewHubnessVarianceExplorer(nsf).StDevForKRange()
	if nsf.CurrentK() != 1 {
		t.Errorf("finder left at k = %d, want 1", nsf.CurrentK())
	}
}

func TestStDevForKRange_UncomputedFinder(t *testing.T) {
	nsf := NewNeighborSetFinder(lineDataset(), MetricOverFloats(EuclideanMetric{}))
	if got := NewHubnessVarianceExplorer(nsf).StDevForKRange(); got != nil {
		t.Errorf("expected nil for uncomputed finder, got %v", got)
	}
	if got := NewHubnessVarianceExplorer(nil).StDevForKRange(); got != nil {
		t.Errorf("expected nil for nil finder, got %v", got)
	}
}
