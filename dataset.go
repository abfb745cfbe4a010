package hubness

// NoLabel marks a point without a class label.
const NoLabel = -1

// Point is a single data instance: float attributes, optional int
// attributes, and an optional class label (NoLabel if absent).
type Point struct {
	Float []float64
	Int   []int
	Label int
}

// Dataset is an ordered, indexable collection of points. Points are referred
// to by their zero-based index everywhere in this package; once assigned, an
// index is stable and all derived structures (kNN tables, occurrence
// frequencies) are parallel arrays indexed identically.
type Dataset struct {
	Points []Point
}

// NewDataset builds a dataset from float attribute rows and per-point labels.
// labels may be nil, in which case every point is unlabeled.
func NewDataset(floatAttrs [][]float64, labels []int) *Dataset {
	points := make([]Point, len(floatAttrs))
	for i, row := range floatAttrs {
		points[i].Float = row
		points[i].Label = NoLabel
		if labels != nil {
			points[i].Label = labels[i]
		}
	}
	return &Dataset{Points: points}
}

// Size returns the number of points.
func (ds *Dataset) Size() int { return len(ds.Points) }

// Label returns the class label of point i, or NoLabel.
func (ds *Dataset) Label(i int) int { return ds.Points[i].Label }

// NumClasses returns 1 + the maximum label present, or 0 when no point is
// labeled.
func (ds *Dataset) NumClasses() int {
	numClasses := 0
	for i := range ds.Points {
		if l := ds.Points[i].Label; l >= numClasses {
			numClasses = l + 1
		}
	}
	return numClasses
}
