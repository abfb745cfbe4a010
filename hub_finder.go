package hubness

import "math"

// HubFinder identifies hubs: points whose neighbor occurrence frequency
// exceeds the fixed statistical threshold floor(k + 2*stdev(freq)) + 1.
// The k + 2 sigma rule is a convention of the hubness literature, not a
// knob; callers wanting a different rule should work from the raw frequency
// array instead.
type HubFinder struct {
	nsf *NeighborSetFinder
}

// NewHubFinder binds a hub finder to a neighbor set finder.
func NewHubFinder(nsf *NeighborSetFinder) *HubFinder {
	return &HubFinder{nsf: nsf}
}

// FindHubsForK computes (or reuses) distances, computes neighbor sets at k,
// and returns the indices of all points whose occurrence frequency reaches
// the hub threshold, in index order.
func (hf *HubFinder) FindHubsForK(k int) ([]int, error) {
	if err := hf.nsf.CalculateDistances(); err != nil {
		return nil, err
	}
	if err := hf.nsf.CalculateNeighborSets(k); err != nil {
		return nil, err
	}
	sd := stDevOf(hf.nsf.FloatOccurrenceFrequencies())
	threshold := int(math.Floor(float64(k)+2*sd)) + 1
	return hf.nsf.FrequentAtLeast(threshold), nil
}

// FindHubPointsForK is FindHubsForK with the indices resolved to the actual
// dataset points.
func (hf *HubFinder) FindHubPointsForK(k int) ([]*Point, error) {
	hubs, err := hf.FindHubsForK(k)
	if err != nil {
		return nil, err
	}
	points := make([]*Point, len(hubs))
	for i, p := range hubs {
		points[i] = &hf.nsf.ds.Points[p]
	}
	return points, nil
}
