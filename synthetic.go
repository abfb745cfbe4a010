package hubness

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SyntheticExtenderConfig controls synthetic query generation.
// Start with [DefaultSyntheticExtenderConfig] and override what you need.
type SyntheticExtenderConfig struct {
	// NumSyntheticPoints is how many synthetic queries to generate.
	// Must be >= 1. Default: 100.
	NumSyntheticPoints int

	// K is the neighborhood size used for each synthetic query.
	// Must be in [1, n] where n is the dataset size. Default: 5.
	K int

	// Seed seeds the sampling source, making runs reproducible. Default: 1.
	Seed uint64
}

// DefaultSyntheticExtenderConfig returns a config with the defaults above.
func DefaultSyntheticExtenderConfig() SyntheticExtenderConfig {
	return SyntheticExtenderConfig{
		NumSyntheticPoints: 100,
		K:                  5,
		Seed:               1,
	}
}

// SyntheticExtension holds the occurrence counts attributable to synthetic
// queries. All arrays are parallel to the original dataset; the synthetic
// points themselves never receive occurrence counts.
type SyntheticExtension struct {
	// Points are the generated synthetic queries, labeled with the class
	// whose Gaussian model generated them (NoLabel for unlabeled datasets).
	Points []Point

	// Neighbors[s] is the k-neighbor index row of synthetic point s among
	// the original dataset points, sorted by non-decreasing distance.
	Neighbors [][]int

	// Frequencies[p] counts how many synthetic queries had p as a neighbor.
	Frequencies []int

	// GoodFrequencies and BadFrequencies split Frequencies by agreement
	// between the generating class and the neighbor's label.
	GoodFrequencies []int
	BadFrequencies  []int

	// ClassFrequencies[c][p] counts occurrences of p for synthetic queries
	// generated from class c. Empty for unlabeled datasets.
	ClassFrequencies [][]int
}

// gaussianModel is a per-dimension Gaussian fit of one class (or of the
// whole dataset when it is unlabeled).
type gaussianModel struct {
	label   int
	weight  float64
	floatMu []float64
	floatSd []float64
	intMu   []float64
	intSd   []float64
}

// ExtendSyntheticKNN generates synthetic query points from per-class
// Gaussian models fitted to the dataset, computes each synthetic point's k
// nearest neighbors among the original points only, and accumulates the
// extra occurrence counts. On small datasets this reduces the estimation
// variance of occurrence statistics.
func ExtendSyntheticKNN(nsf *NeighborSetFinder, cfg SyntheticExtenderConfig) (*SyntheticExtension, error) {
	ds := nsf.Dataset()
	n := ds.Size()
	if n == 0 {
		return nil, fmt.Errorf("hubness: cannot extend an empty dataset")
	}
	if cfg.NumSyntheticPoints < 1 {
		return nil, fmt.Errorf("hubness: NumSyntheticPoints must be >= 1, got %d", cfg.NumSyntheticPoints)
	}
	if cfg.K < 1 || cfg.K > n {
		return nil, fmt.Errorf("hubness: K must be in [1, %d], got %d", n, cfg.K)
	}

	models := fitGaussianModels(ds)
	src := rand.NewPCG(cfg.Seed, cfg.Seed)
	rng := rand.New(src)

	numClasses := ds.NumClasses()
	ext := &SyntheticExtension{
		Points:          make([]Point, 0, cfg.NumSyntheticPoints),
		Neighbors:       make([][]int, 0, cfg.NumSyntheticPoints),
		Frequencies:     make([]int, n),
		GoodFrequencies: make([]int, n),
		BadFrequencies:  make([]int, n),
	}
	ext.ClassFrequencies = make([][]int, numClasses)
	for c := range ext.ClassFrequencies {
		ext.ClassFrequencies[c] = make([]int, n)
	}

	for s := 0; s < cfg.NumSyntheticPoints; s++ {
		model := &models[pickModel(models, rng)]
		q := sampleFromModel(model, src)
		neighbors, err := nearestAmongDataset(ds, nsf.Metric(), &q, cfg.K)
		if err != nil {
			return nil, err
		}
		for _, nb := range neighbors {
			ext.Frequencies[nb]++
			nbLabel := ds.Label(nb)
			if q.Label >= 0 && nbLabel >= 0 {
				if q.Label == nbLabel {
					ext.GoodFrequencies[nb]++
				} else {
					ext.BadFrequencies[nb]++
				}
			}
			if q.Label >= 0 {
				ext.ClassFrequencies[q.Label][nb]++
			}
		}
		ext.Points = append(ext.Points, q)
		ext.Neighbors = append(ext.Neighbors, neighbors)
	}
	return ext, nil
}

// fitGaussianModels fits one per-dimension Gaussian per class; unlabeled
// datasets get a single global model.
func fitGaussianModels(ds *Dataset) []gaussianModel {
	n := ds.Size()
	numClasses := ds.NumClasses()

	groups := map[int][]int{}
	for i := 0; i < n; i++ {
		l := ds.Label(i)
		if numClasses == 0 {
			l = NoLabel
		}
		groups[l] = append(groups[l], i)
	}

	var models []gaussianModel
	for l := NoLabel; l < numClasses; l++ {
		members := groups[l]
		if len(members) == 0 {
			continue
		}
		m := gaussianModel{label: l, weight: float64(len(members)) / float64(n)}
		numFloat := len(ds.Points[members[0]].Float)
		numInt := len(ds.Points[members[0]].Int)
		m.floatMu, m.floatSd = fitDims(numFloat, members, func(i, d int) float64 {
			return ds.Points[i].Float[d]
		})
		m.intMu, m.intSd = fitDims(numInt, members, func(i, d int) float64 {
			return float64(ds.Points[i].Int[d])
		})
		models = append(models, m)
	}
	return models
}

func fitDims(numDims int, members []int, attr func(i, d int) float64) (mu, sd []float64) {
	mu = make([]float64, numDims)
	sd = make([]float64, numDims)
	column := make([]float64, 0, len(members))
	for d := 0; d < numDims; d++ {
		column = column[:0]
		for _, i := range members {
			if v := attr(i, d); !math.IsNaN(v) && !math.IsInf(v, 0) {
				column = append(column, v)
			}
		}
		if len(column) == 0 {
			continue
		}
		mu[d] = stat.Mean(column, nil)
		if len(column) > 1 {
			sd[d] = stat.PopStdDev(column, nil)
		}
	}
	return mu, sd
}

// pickModel draws a model index with probability proportional to class size.
func pickModel(models []gaussianModel, rng *rand.Rand) int {
	u := rng.Float64()
	var cum float64
	for i := range models {
		cum += models[i].weight
		if u < cum {
			return i
		}
	}
	return len(models) - 1
}

// sampleFromModel draws one synthetic point. A dimension with zero spread
// stays at its mean; int attributes are rounded to the nearest integer.
func sampleFromModel(model *gaussianModel, src rand.Source) Point {
	q := Point{
		Float: make([]float64, len(model.floatMu)),
		Int:   make([]int, len(model.intMu)),
		Label: model.label,
	}
	for d := range model.floatMu {
		q.Float[d] = sampleNormal(model.floatMu[d], model.floatSd[d], src)
	}
	for d := range model.intMu {
		q.Int[d] = int(math.Round(sampleNormal(model.intMu[d], model.intSd[d], src)))
	}
	return q
}

func sampleNormal(mu, sigma float64, src rand.Source) float64 {
	if sigma <= 0 {
		return mu
	}
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: src}.Rand()
}

// nearestAmongDataset finds q's k nearest neighbors among the dataset points
// using the same bounded sorted insertion and tie rule as the engine.
func nearestAmongDataset(ds *Dataset, metric PointMetric, q *Point, k int) ([]int, error) {
	idx := make([]int, k)
	dist := make([]float64, k)
	size := 0
	for j := 0; j < ds.Size(); j++ {
		d, err := metric.PointDistance(q, &ds.Points[j])
		if err != nil {
			return nil, err
		}
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		var pos int
		switch {
		case size < k:
			pos = size
			size++
		case d < dist[k-1]:
			pos = k - 1
		default:
			continue
		}
		for pos > 0 && dist[pos-1] > d {
			dist[pos] = dist[pos-1]
			idx[pos] = idx[pos-1]
			pos--
		}
		dist[pos] = d
		idx[pos] = j
	}
	return idx[:size], nil
}
