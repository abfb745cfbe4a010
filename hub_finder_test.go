package hubness

import (
	"math"
	"math/rand/v2"
	"testing"
)

// starClustersDataset builds two well-separated 50-point clusters in 50
// dimensions, each a center surrounded by 49 satellites at 10 along a
// distinct axis. Within a cluster every satellite is at distance 10 from the
// center but 10*sqrt(2) from every other satellite, so the center lands in
// every satellite's neighbor list and is a guaranteed hub.
func starClustersDataset() *Dataset {
	const dims = 50
	var points [][]float64
	var labels []int

	for cluster := 0; cluster < 2; cluster++ {
		offset := float64(cluster) * 1000
		center := make([]float64, dims)
		center[dims-1] = offset
		points = append(points, center)
		labels = append(labels, cluster)
		for d := 0; d < dims-1; d++ {
			satellite := make([]float64, dims)
			satellite[dims-1] = offset
			satellite[d] = 10
			points = append(points, satellite)
			labels = append(labels, cluster)
		}
	}
	return NewDataset(points, labels)
}

func TestFindHubsForK_TwoClusters(t *testing.T) {
	nsf := NewNeighborSetFinder(starClustersDataset(), MetricOverFloats(EuclideanMetric{}))
	hf := NewHubFinder(nsf)

	hubs, err := hf.FindHubsForK(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hubs) == 0 {
		t.Fatal("expected a non-empty hub set")
	}

	// Every returned index must reach the k + 2 sigma threshold computed
	// from this run's frequency array.
	freq := nsf.NeighborFrequencies()
	sd := stDevOf(nsf.FloatOccurrenceFrequencies())
	threshold := int(math.Floor(5+2*sd)) + 1
	for _, p := range hubs {
		if freq[p] < threshold {
			t.Errorf("hub %d has freq %d < threshold %d", p, freq[p], threshold)
		}
	}

	// The two cluster centers (indices 0 and 50) occur in all 49 of their
	// satellites' neighbor lists and must be among the hubs.
	found := map[int]bool{}
	for _, p := range hubs {
		found[p] = true
	}
	if !found[0] || !found[50] {
		t.Errorf("cluster centers missing from hubs %v", hubs)
	}
}

func TestFindHubsForK_GaussianClustersSelfConsistent(t *testing.T) {
	// Two seeded Gaussian clusters; the hub set may be small, but the
	// threshold split must be exact on both sides.
	rng := rand.New(rand.NewPCG(7, 7))
	var points [][]float64
	var labels []int
	for cluster := 0; cluster < 2; cluster++ {
		cx := float64(cluster) * 100
		for i := 0; i < 50; i++ {
			points = append(points, []float64{cx + rng.NormFloat64(), rng.NormFloat64()})
			labels = append(labels, cluster)
		}
	}
	ds := NewDataset(points, labels)

	nsf := NewNeighborSetFinder(ds, MetricOverFloats(EuclideanMetric{}))
	hubs, err := NewHubFinder(nsf).FindHubsForK(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	freq := nsf.NeighborFrequencies()
	sd := stDevOf(nsf.FloatOccurrenceFrequencies())
	threshold := int(math.Floor(5+2*sd)) + 1
	isHub := map[int]bool{}
	for _, p := range hubs {
		isHub[p] = true
	}
	for p, f := range freq {
		if (f >= threshold) != isHub[p] {
			t.Errorf("point %d: freq %d, threshold %d, in hub set: %v", p, f, threshold, isHub[p])
		}
	}
}

func TestFindHubPointsForK_ResolvesIndices(t *testing.T) {
	ds := starClustersDataset()
	nsf := NewNeighborSetFinder(ds, MetricOverFloats(EuclideanMetric{}))
	hf := NewHubFinder(nsf)

	hubs, err := hf.FindHubsForK(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	points, err := hf.FindHubPointsForK(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != len(hubs) {
		t.Fatalf("got %d points for %d hub indices", len(points), len(hubs))
	}
	for i, p := range points {
		if p != &ds.Points[hubs[i]] {
			t.Errorf("hub point %d does not resolve to dataset point %d", i, hubs[i])
		}
	}
}
