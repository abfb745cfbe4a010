// Package hubness computes k-nearest-neighbor sets and hubness statistics
// for high-dimensional datasets.
//
// Hubness is the tendency, in high-dimensional data, for some points to
// appear disproportionately often in the k-nearest-neighbor lists of other
// points. The central type is [NeighborSetFinder], which computes and
// incrementally maintains the full kNN table for a dataset together with
// neighbor occurrence frequencies and their label-aware refinements.
//
// Basic usage:
//
//	ds := hubness.NewDataset(points, labels)
//	metric := hubness.MetricOverFloats(hubness.EuclideanMetric{})
//	nsf := hubness.NewNeighborSetFinder(ds, metric)
//	if err := nsf.CalculateDistances(); err != nil { ... }
//	if err := nsf.CalculateNeighborSets(10); err != nil { ... }
//	freq := nsf.NeighborFrequencies() // freq[p] = occurrence count of point p
//
// Once a table has been computed at some k, it can be shrunk to any smaller
// k without redoing neighbor search:
//
//	nsf.RecalculateForSmallerK(5)
//
// Shrinking is what the statistics explorers (HubnessVarianceExplorer,
// KNeighborEntropyExplorer, HubnessExtremesGrabber,
// HubnessAboveThresholdExplorer) rely on to sweep a whole k-range cheaply:
// compute once at the maximum k of interest, then shrink step by step.
//
// # Precomputed distances
//
// For repeated experiments over the same dataset and metric, compute the
// distance matrix once and reuse it:
//
//	dm, err := hubness.ComputeDistanceMatrixParallel(ds, metric, runtime.NumCPU())
//	nsf := hubness.NewNeighborSetFinderFromMatrix(ds, dm, metric)
//
// # Sharing a finder
//
// A NeighborSetFinder is exclusively owned by one workflow at a time.
// Ensemble consumers that need read access to a finder shared across many
// members should hold a [NeighborSetView] obtained from
// [NeighborSetFinder.View]; a view cannot trigger recomputation or
// shrinking.
package hubness
