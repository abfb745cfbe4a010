package hubness

import (
	"fmt"
	"math"
)

// DistanceMetric computes a distance between two float attribute vectors.
type DistanceMetric interface {
	Distance(a, b []float64) float64
}

// DistanceFunc adapts a plain function into a DistanceMetric.
type DistanceFunc func(a, b []float64) float64

func (f DistanceFunc) Distance(a, b []float64) float64 { return f(a, b) }

// EuclideanMetric computes the Euclidean (L2) distance.
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// ManhattanMetric computes the Manhattan (L1 / city-block) distance.
type ManhattanMetric struct{}

func (ManhattanMetric) Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

// CosineMetric computes the cosine distance: 1 - cosine_similarity.
// For two zero vectors, the result is NaN (0/0).
type CosineMetric struct{}

func (CosineMetric) Distance(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	return 1.0 - dot/math.Sqrt(normA*normB)
}

// ChebyshevMetric computes the Chebyshev (L-infinity) distance.
type ChebyshevMetric struct{}

func (ChebyshevMetric) Distance(a, b []float64) float64 {
	var maxVal float64
	for i := range a {
		if v := math.Abs(a[i] - b[i]); v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// MinkowskiMetric computes the Minkowski distance parameterized by P.
// P must be >= 1. Panics if P < 1.
type MinkowskiMetric struct {
	P float64
}

func (m MinkowskiMetric) Distance(a, b []float64) float64 {
	if m.P < 1 {
		panic("hubness: MinkowskiMetric P must be >= 1")
	}
	var sum float64
	for i := range a {
		sum += math.Pow(math.Abs(a[i]-b[i]), m.P)
	}
	return math.Pow(sum, 1.0/m.P)
}

// IntDistanceMetric computes a distance between two int attribute vectors.
type IntDistanceMetric interface {
	IntDistance(a, b []int) float64
}

// IntDistanceFunc adapts a plain function into an IntDistanceMetric.
type IntDistanceFunc func(a, b []int) float64

func (f IntDistanceFunc) IntDistance(a, b []int) float64 { return f(a, b) }

// IntManhattanMetric computes the Manhattan distance over int attributes.
type IntManhattanMetric struct{}

func (IntManhattanMetric) IntDistance(a, b []int) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		sum += float64(d)
	}
	return sum
}

// PointMetric computes a distance between two dataset points. Distances must
// be non-negative and symmetric; the triangle inequality is not required
// (cosine-derived metrics violate it). A mismatch between the two points'
// attribute vector lengths is an invariant violation and returns an error.
type PointMetric interface {
	PointDistance(a, b *Point) (float64, error)
}

// floatsOnlyMetric lifts a DistanceMetric over float attributes to the
// point level, ignoring int attributes.
type floatsOnlyMetric struct {
	m DistanceMetric
}

func (fm floatsOnlyMetric) PointDistance(a, b *Point) (float64, error) {
	if len(a.Float) != len(b.Float) {
		return 0, fmt.Errorf("hubness: float attribute length mismatch: %d vs %d",
			len(a.Float), len(b.Float))
	}
	return fm.m.Distance(a.Float, b.Float), nil
}

// MetricOverFloats adapts a DistanceMetric into a PointMetric that measures
// float attributes only.
func MetricOverFloats(m DistanceMetric) PointMetric {
	return floatsOnlyMetric{m: m}
}

// CombineRule selects how a CombinedMetric merges its float-attribute and
// int-attribute distances into one scalar.
type CombineRule string

const (
	CombineSum     CombineRule = "sum"
	CombineAverage CombineRule = "average"
	CombineMin     CombineRule = "min"
	CombineMax     CombineRule = "max"
	CombineProduct CombineRule = "product"
	// CombineEuclidean merges as sqrt(df² + di²).
	CombineEuclidean CombineRule = "euclidean"
)

// CombinedMetric computes a scalar distance between two dataset points by
// evaluating FloatMetric over the float attributes and IntMetric over the
// int attributes, then merging the two partial distances via Rule.
// A nil FloatMetric or IntMetric contributes 0 for its attribute group.
type CombinedMetric struct {
	FloatMetric DistanceMetric
	IntMetric   IntDistanceMetric
	Rule        CombineRule
}

func (cm CombinedMetric) PointDistance(a, b *Point) (float64, error) {
	var df, di float64
	if cm.FloatMetric != nil {
		if len(a.Float) != len(b.Float) {
			return 0, fmt.Errorf("hubness: float attribute length mismatch: %d vs %d",
				len(a.Float), len(b.Float))
		}
		df = cm.FloatMetric.Distance(a.Float, b.Float)
	}
	if cm.IntMetric != nil {
		if len(a.Int) != len(b.Int) {
			return 0, fmt.Errorf("hubness: int attribute length mismatch: %d vs %d",
				len(a.Int), len(b.Int))
		}
		di = cm.IntMetric.IntDistance(a.Int, b.Int)
	}

	switch cm.Rule {
	case CombineSum, "":
		return df + di, nil
	case CombineAverage:
		return (df + di) / 2, nil
	case CombineMin:
		return math.Min(df, di), nil
	case CombineMax:
		return math.Max(df, di), nil
	case CombineProduct:
		return df * di, nil
	case CombineEuclidean:
		return math.Sqrt(df*df + di*di), nil
	default:
		return 0, fmt.Errorf("hubness: invalid CombineRule %q", cm.Rule)
	}
}
