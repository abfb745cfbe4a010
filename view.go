package hubness

// NeighborSetView is a read-only borrowed view over a NeighborSetFinder.
// It exposes the kNN table and the occurrence frequencies but none of the
// operations that recompute or shrink them, so a finder shared across an
// ensemble cannot be mutated through it. Row accessors return copies.
//
// A view reflects the finder's state at access time: if the owner shrinks
// the finder, the view sees the shrunk table. The sharing convention is that
// the owner stops mutating once views have been handed out.
type NeighborSetView struct {
	nsf *NeighborSetFinder
}

// View returns a read-only view of the finder.
func (nsf *NeighborSetFinder) View() *NeighborSetView {
	return &NeighborSetView{nsf: nsf}
}

// K returns the k the underlying table is currently valid for.
func (v *NeighborSetView) K() int { return v.nsf.currentK }

// Size returns the number of points in the underlying dataset.
func (v *NeighborSetView) Size() int { return v.nsf.ds.Size() }

// NeighborRow returns a copy of point i's neighbor index row.
func (v *NeighborSetView) NeighborRow(i int) []int {
	out := make([]int, len(v.nsf.kneighbors[i]))
	copy(out, v.nsf.kneighbors[i])
	return out
}

// DistanceRow returns a copy of point i's neighbor distance row.
func (v *NeighborSetView) DistanceRow(i int) []float64 {
	out := make([]float64, len(v.nsf.kdistances[i]))
	copy(out, v.nsf.kdistances[i])
	return out
}

// Frequencies returns a copy of the occurrence frequencies.
func (v *NeighborSetView) Frequencies() []int {
	out := make([]int, len(v.nsf.freq))
	copy(out, v.nsf.freq)
	return out
}

// GoodFrequencies returns a copy of the label-agreeing occurrence counts.
func (v *NeighborSetView) GoodFrequencies() []int {
	out := make([]int, len(v.nsf.goodFreq))
	copy(out, v.nsf.goodFreq)
	return out
}

// BadFrequencies returns a copy of the label-disagreeing occurrence counts.
func (v *NeighborSetView) BadFrequencies() []int {
	out := make([]int, len(v.nsf.badFreq))
	copy(out, v.nsf.badFreq)
	return out
}

// UsesNeighborSets is implemented by consumers (ensemble members, weak
// learners) that can reuse a shared neighbor-set view instead of computing
// their own. Callers discover the capability with a plain interface check:
//
//	if u, ok := learner.(hubness.UsesNeighborSets); ok {
//	    u.AttachNeighborSets(nsf.View())
//	}
type UsesNeighborSets interface {
	AttachNeighborSets(*NeighborSetView)
}

// UsesDistanceMatrix is implemented by consumers that can reuse a shared
// precomputed distance matrix.
type UsesDistanceMatrix interface {
	AttachDistanceMatrix(*DistanceMatrix)
}
