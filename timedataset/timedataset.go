package timedataset

import (
	"errors"
	"fmt"
	"math"

	"github.com/kmaguire4/go-timefit/timevalue"
)

var (
	ErrNoObservations     = errors.New("no observations")
	ErrDatasetLenMismatch = errors.New("time values have a different length than observations")
)

// Dataset holds one observation row per entry. Time values may repeat and
// arrive in any order; several survey rows can share one occasion and gap
// years simply never appear.
type Dataset struct {
	T []timevalue.Value
	Y []float64
}

// NewDataset returns a Dataset given parallel time and value slices.
func NewDataset(t []timevalue.Value, y []float64) (*Dataset, error) {
	if len(y) == 0 {
		return nil, ErrNoObservations
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time values have length of %d, but observations have a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	tSeries := make([]timevalue.Value, len(t))
	ySeries := make([]float64, len(y))
	copy(tSeries, t)
	copy(ySeries, y)
	return &Dataset{
		T: tSeries,
		Y: ySeries,
	}, nil
}

func (d *Dataset) Copy() *Dataset {
	tSeries := make([]timevalue.Value, len(d.T))
	ySeries := make([]float64, len(d.Y))
	copy(tSeries, d.T)
	copy(ySeries, d.Y)
	return &Dataset{
		T: tSeries,
		Y: ySeries,
	}
}

// DropNaN returns a new Dataset without the rows whose observation is NaN.
func (d *Dataset) DropNaN() *Dataset {
	if d == nil {
		return nil
	}
	tSeries := make([]timevalue.Value, 0, len(d.T))
	ySeries := make([]float64, 0, len(d.Y))
	for i := 0; i < len(d.Y); i++ {
		if math.IsNaN(d.Y[i]) {
			continue
		}
		tSeries = append(tSeries, d.T[i])
		ySeries = append(ySeries, d.Y[i])
	}
	return &Dataset{
		T: tSeries,
		Y: ySeries,
	}
}

// DistinctTimes returns the distinct time values of the dataset in
// first-seen order.
func (d *Dataset) DistinctTimes() []timevalue.Value {
	seen := make(map[timevalue.Value]struct{}, len(d.T))
	out := make([]timevalue.Value, 0, len(d.T))
	for _, v := range d.T {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
