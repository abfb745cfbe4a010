package hubness

import "sort"

// HubnessExtremesGrabber extracts the extremal points of the occurrence
// distribution: the strongest hubs, or the anti-hubs that almost never occur
// as neighbors. The direction is fixed at construction.
type HubnessExtremesGrabber struct {
	nsf         *NeighborSetFinder
	fetchHigher bool
}

// NewHubnessExtremesGrabber binds the grabber to a finder. fetchHigher
// selects the top of the occurrence distribution (hubs); false selects the
// bottom (anti-hubs).
func NewHubnessExtremesGrabber(nsf *NeighborSetFinder, fetchHigher bool) *HubnessExtremesGrabber {
	return &HubnessExtremesGrabber{nsf: nsf, fetchHigher: fetchHigher}
}

// HubnessExtremes holds, per k (indexed by k-1), the m extremal occurrence
// frequencies and the original indices of the points carrying them.
// Frequencies[k-1] is sorted ascending; Indices[k-1] is parallel to it.
type HubnessExtremes struct {
	Frequencies [][]float64
	Indices     [][]int
}

// ExtremesForKValues sweeps k from 1 to the finder's current k and records,
// for each k, the m highest (or lowest) occurrence frequencies together with
// the original point indices. Ties are resolved in favor of the lower index.
// Returns nil if the finder is nil, has no computed table, or m < 1. The
// sweep leaves the finder at k = 1.
func (e *HubnessExtremesGrabber) ExtremesForKValues(m int) *HubnessExtremes {
	if e == nil || e.nsf == nil || e.nsf.CurrentK() == 0 || m < 1 {
		return nil
	}
	n := e.nsf.Dataset().Size()
	if m > n {
		m = n
	}
	kMax := e.nsf.CurrentK()
	result := &HubnessExtremes{
		Frequencies: make([][]float64, kMax),
		Indices:     make([][]int, kMax),
	}
	for k := kMax; k >= 1; k-- {
		freq := e.nsf.NeighborFrequencies()
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool {
			if freq[order[a]] != freq[order[b]] {
				return freq[order[a]] < freq[order[b]]
			}
			return order[a] < order[b]
		})
		if e.fetchHigher {
			order = order[n-m:]
		} else {
			order = order[:m]
		}
		values := make([]float64, m)
		indices := make([]int, m)
		for r, p := range order {
			values[r] = float64(freq[p])
			indices[r] = p
		}
		result.Frequencies[k-1] = values
		result.Indices[k-1] = indices

		if k > 1 {
			if err := e.nsf.RecalculateForSmallerK(k - 1); err != nil {
				return nil
			}
		}
	}
	return result
}
