package hubness

import "testing"

func TestExtendSyntheticKNN_Accounting(t *testing.T) {
	nsf := NewNeighborSetFinder(lineDataset(), MetricOverFloats(EuclideanMetric{}))
	cfg := DefaultSyntheticExtenderConfig()
	cfg.NumSyntheticPoints = 20
	cfg.K = 2

	ext, err := ExtendSyntheticKNN(nsf, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ext.Points) != 20 || len(ext.Neighbors) != 20 {
		t.Fatalf("expected 20 synthetic points, got %d", len(ext.Points))
	}

	// Every synthetic query contributes exactly K occurrences, all of them
	// on original dataset points.
	total := 0
	for p, f := range ext.Frequencies {
		total += f
		if f != ext.GoodFrequencies[p]+ext.BadFrequencies[p] {
			t.Errorf("point %d: freq %d != good+bad %d",
				p, f, ext.GoodFrequencies[p]+ext.BadFrequencies[p])
		}
		classSum := 0
		for c := range ext.ClassFrequencies {
			classSum += ext.ClassFrequencies[c][p]
		}
		if classSum != f {
			t.Errorf("point %d: class-conditional sum %d != freq %d", p, classSum, f)
		}
	}
	if total != 20*2 {
		t.Errorf("total extra occurrences = %d, want %d", total, 20*2)
	}

	for s, row := range ext.Neighbors {
		if len(row) != 2 {
			t.Errorf("synthetic point %d has %d neighbors, want 2", s, len(row))
		}
		for _, nb := range row {
			if nb < 0 || nb >= 6 {
				t.Errorf("synthetic point %d has out-of-range neighbor %d", s, nb)
			}
		}
	}
}

func TestExtendSyntheticKNN_QueriesCarryGeneratingClass(t *testing.T) {
	nsf := NewNeighborSetFinder(lineDataset(), MetricOverFloats(EuclideanMetric{}))
	cfg := DefaultSyntheticExtenderConfig()
	cfg.NumSyntheticPoints = 15
	cfg.K = 1

	ext, err := ExtendSyntheticKNN(nsf, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for s, q := range ext.Points {
		if q.Label != 0 && q.Label != 1 {
			t.Errorf("synthetic point %d has label %d, want a dataset class", s, q.Label)
		}
	}
}

func TestExtendSyntheticKNN_Reproducible(t *testing.T) {
	cfg := DefaultSyntheticExtenderConfig()
	cfg.NumSyntheticPoints = 10
	cfg.K = 2
	cfg.Seed = 99

	run := func() *SyntheticExtension {
		nsf := NewNeighborSetFinder(lineDataset(), MetricOverFloats(EuclideanMetric{}))
		ext, err := ExtendSyntheticKNN(nsf, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return ext
	}
	a, b := run(), run()
	for p := range a.Frequencies {
		if a.Frequencies[p] != b.Frequencies[p] {
			t.Errorf("freq[%d] differs across identically seeded runs: %d vs %d",
				p, a.Frequencies[p], b.Frequencies[p])
		}
	}
	for s := range a.Points {
		for d := range a.Points[s].Float {
			if a.Points[s].Float[d] != b.Points[s].Float[d] {
				t.Errorf("synthetic point %d differs across identically seeded runs", s)
			}
		}
	}
}

func TestExtendSyntheticKNN_UnlabeledDataset(t *testing.T) {
	ds := NewDataset([][]float64{{0}, {1}, {2}, {3}}, nil)
	nsf := NewNeighborSetFinder(ds, MetricOverFloats(EuclideanMetric{}))
	cfg := DefaultSyntheticExtenderConfig()
	cfg.NumSyntheticPoints = 5
	cfg.K = 2

	ext, err := ExtendSyntheticKNN(nsf, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ext.ClassFrequencies) != 0 {
		t.Errorf("expected no class-conditional arrays for unlabeled data, got %d", len(ext.ClassFrequencies))
	}
	for s, q := range ext.Points {
		if q.Label != NoLabel {
			t.Errorf("synthetic point %d has label %d, want NoLabel", s, q.Label)
		}
	}
	for p, g := range ext.GoodFrequencies {
		if g != 0 || ext.BadFrequencies[p] != 0 {
			t.Errorf("good/bad split should stay zero without labels, point %d", p)
		}
	}
}

func TestExtendSyntheticKNN_Validation(t *testing.T) {
	nsf := NewNeighborSetFinder(lineDataset(), MetricOverFloats(EuclideanMetric{}))
	cfg := DefaultSyntheticExtenderConfig()
	cfg.NumSyntheticPoints = 0
	if _, err := ExtendSyntheticKNN(nsf, cfg); err == nil {
		t.Error("expected error for NumSyntheticPoints < 1")
	}

	cfg = DefaultSyntheticExtenderConfig()
	cfg.K = 7 // dataset has 6 points
	if _, err := ExtendSyntheticKNN(nsf, cfg); err == nil {
		t.Error("expected error for K > n")
	}

	empty := NewNeighborSetFinder(NewDataset(nil, nil), MetricOverFloats(EuclideanMetric{}))
	if _, err := ExtendSyntheticKNN(empty, DefaultSyntheticExtenderConfig()); err == nil {
		t.Error("expected error for empty dataset")
	}
}
