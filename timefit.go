// Package timefit fits a latent temporal process (independent, random walk,
// or AR(1)) to irregularly sampled observations. Distinct observed time
// values are merged with user-declared extra time values into a time index
// table built once per fit; the estimator allocates one latent state per
// index and gives unobserved steps zero likelihood weight, so gap years are
// interpolated through the process instead of biasing its parameters.
package timefit

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/kmaguire4/go-timefit/process"
	"github.com/kmaguire4/go-timefit/report"
	"github.com/kmaguire4/go-timefit/stats"
	"github.com/kmaguire4/go-timefit/timedataset"
	"github.com/kmaguire4/go-timefit/timeindex"
	"github.com/kmaguire4/go-timefit/timevalue"
)

var (
	ErrNotFitted              = errors.New("fitter has not been fit")
	ErrAllObservationsDropped = errors.New("no observations remain after outlier removal")
)

// Fitter fits the latent process model and serves predictions against the
// time index table fixed at fit time.
type Fitter struct {
	opt *Options

	table *timeindex.Table
	fit   *process.Fit

	fitTrainingData *timedataset.Dataset
	fitCleanData    *timedataset.Dataset
	fitResults      *Results
	residual        []float64
}

// New creates a new instance of a Fitter using the provided options. If no
// options are provided a default is used.
func New(opt *Options) (*Fitter, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if opt.Process == nil {
		opt.Process = process.NewDefaultOptions()
	}
	if opt.ConfidenceLevel == 0 {
		opt.ConfidenceLevel = DefaultConfidenceLevel
	}
	if _, err := report.Critical(opt.ConfidenceLevel); err != nil {
		return nil, err
	}
	return &Fitter{opt: opt}, nil
}

// Fit builds the time index from the training data plus any configured
// extra times and estimates the latent process over it. The table is built
// once here and reused unchanged by every later Predict call.
func (f *Fitter) Fit(t []timevalue.Value, y []float64) error {
	td, err := timedataset.NewDataset(t, y)
	if err != nil {
		return fmt.Errorf("unable to create training dataset, %w", err)
	}
	f.fitTrainingData = td.Copy()

	work := td.Copy()
	f.removeOutliers(work)
	clean := work.DropNaN()
	if len(clean.Y) == 0 {
		return ErrAllObservationsDropped
	}

	observed := clean.DistinctTimes()
	full := make([]timevalue.Value, 0, len(observed)+len(f.opt.ExtraTimes))
	full = append(full, observed...)
	full = append(full, f.opt.ExtraTimes...)

	table, err := timeindex.Build(observed, full)
	if err != nil {
		return fmt.Errorf("unable to build time index, %w", err)
	}

	stateIdx := make([]int, len(clean.T))
	for i, v := range clean.T {
		idx, err := table.Lookup(v)
		if err != nil {
			return fmt.Errorf("unable to map observation %d to a state, %w", i, err)
		}
		stateIdx[i] = idx
	}

	fit, err := process.Estimate(stateIdx, clean.Y, table.Len(), f.opt.Process)
	if err != nil {
		return fmt.Errorf("unable to estimate latent process, %w", err)
	}

	f.table = table
	f.fit = fit
	f.fitCleanData = clean

	f.residual = make([]float64, len(f.fitTrainingData.Y))
	for i, v := range f.fitTrainingData.T {
		idx, lookupErr := table.Lookup(v)
		if lookupErr != nil || math.IsNaN(work.Y[i]) {
			// rows removed by the outlier pass keep a NaN residual
			f.residual[i] = math.NaN()
			continue
		}
		f.residual[i] = f.fitTrainingData.Y[i] - fit.States[idx]
	}

	f.fitResults, err = f.Predict(clean.T)
	if err != nil {
		return fmt.Errorf("unable to get predicted values from training set, %w", err)
	}
	return nil
}

func (f *Fitter) removeOutliers(d *timedataset.Dataset) {
	if f.opt.Outlier == nil {
		return
	}
	for pass := 0; pass < f.opt.Outlier.NumPasses; pass++ {
		idxs := stats.DetectOutliers(
			d.Y,
			f.opt.Outlier.LowerPercentile,
			f.opt.Outlier.UpperPercentile,
			f.opt.Outlier.TukeyFactor,
		)
		if len(idxs) == 0 {
			break
		}

		finite := 0
		for _, v := range d.Y {
			if !math.IsNaN(v) {
				finite++
			}
		}
		// a zero-width fence flags every remaining row; keep the data
		if len(idxs) >= finite {
			break
		}

		for _, i := range idxs {
			d.Y[i] = math.NaN()
		}
	}
}

// Predict maps each requested time value through the fit-time index table
// and returns the matching state estimate with confidence bounds. A value
// outside the table fails with timeindex.ErrLookupMiss; predictions never
// snap to a neighboring step.
func (f *Fitter) Predict(t []timevalue.Value) (*Results, error) {
	if f.fit == nil || f.table == nil {
		return nil, ErrNotFitted
	}
	z, err := report.Critical(f.opt.ConfidenceLevel)
	if err != nil {
		return nil, err
	}

	r := &Results{
		T:        make([]timevalue.Value, len(t)),
		Index:    make([]int, len(t)),
		Extra:    make([]bool, len(t)),
		Estimate: make([]float64, len(t)),
		Upper:    make([]float64, len(t)),
		Lower:    make([]float64, len(t)),
	}
	copy(r.T, t)
	for i, v := range t {
		idx, err := f.table.Lookup(v)
		if err != nil {
			return nil, fmt.Errorf("unable to predict row %d, %w", i, err)
		}
		margin := z * f.fit.StateSD[idx]
		r.Index[i] = idx
		r.Extra[i] = f.table.At(idx).Extra
		r.Estimate[i] = f.fit.States[idx]
		r.Upper[i] = f.fit.States[idx] + margin
		r.Lower[i] = f.fit.States[idx] - margin
	}
	return r, nil
}

// TimeIndex returns the index table built during Fit.
func (f *Fitter) TimeIndex() *timeindex.Table {
	return f.table
}

// ProcessFit returns the fitted latent process.
func (f *Fitter) ProcessFit() *process.Fit {
	return f.fit
}

// Residuals returns the difference between the fitted states and the
// training observations, NaN for rows the outlier pass removed.
func (f *Fitter) Residuals() []float64 {
	return f.residual
}

// TrainingData returns the training data used to fit the current model.
func (f *Fitter) TrainingData() *timedataset.Dataset {
	return f.fitTrainingData
}

// FitResults returns the predictions for the rows that survived the
// outlier pass.
func (f *Fitter) FitResults() *Results {
	return f.fitResults
}

// Tidy returns the fitted hyperparameters as a tidy table at the
// configured confidence level.
func (f *Fitter) Tidy() ([]report.Term, error) {
	if f.fit == nil {
		return nil, ErrNotFitted
	}
	return report.Tidy(f.fit, f.opt.ConfidenceLevel)
}

// StateTable returns one row per time step pairing the index table with
// the fitted states.
func (f *Fitter) StateTable() ([]report.StateRow, error) {
	if f.fit == nil || f.table == nil {
		return nil, ErrNotFitted
	}
	return report.StateTable(f.table, f.fit, f.opt.ConfidenceLevel)
}

// PlotFit uses the Apache Echarts library to generate an html file showing
// the fitted latent process across every step of the index table along
// with the per-step observed means and the fit residual.
func (f *Fitter) PlotFit(path string) error {
	if f.fit == nil || f.table == nil {
		return ErrNotFitted
	}

	stepRes, err := f.Predict(f.table.Values())
	if err != nil {
		return fmt.Errorf("unable to predict across the index table, %w", err)
	}

	page := components.NewPage()
	page.AddCharts(
		LineStates(f.table, stepRes, f.observedMeans()),
		LineResiduals(f.fitTrainingData, f.residual),
	)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return page.Render(io.MultiWriter(file))
}

// observedMeans returns the mean observation per table index, NaN for
// steps with no surviving observations.
func (f *Fitter) observedMeans() []float64 {
	sums := make([]float64, f.table.Len())
	counts := make([]float64, f.table.Len())
	for i, v := range f.fitCleanData.T {
		if idx, err := f.table.Lookup(v); err == nil {
			sums[idx] += f.fitCleanData.Y[i]
			counts[idx]++
		}
	}
	means := make([]float64, f.table.Len())
	for i := range sums {
		if counts[i] == 0 {
			means[i] = math.NaN()
			continue
		}
		means[i] = sums[i] / counts[i]
	}
	return means
}
