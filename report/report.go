// Package report extracts fitted parameters and latent states into tidy
// tabular records with standard errors and confidence bounds.
package report

import (
	"errors"
	"fmt"
	"math"

	"github.com/kmaguire4/go-timefit/process"
	"github.com/kmaguire4/go-timefit/timeindex"
	"github.com/kmaguire4/go-timefit/timevalue"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrNoFit              = errors.New("no process fit to report on")
	ErrStateLenMismatch   = errors.New("index table and fitted states differ in length")
	ErrBadConfidenceLevel = errors.New("confidence level must be in (0, 1)")
)

// Term is one row of the tidied parameter table.
type Term struct {
	Name     string  `json:"name"`
	Estimate float64 `json:"estimate"`
	StdError float64 `json:"std_error"`
	ConfLow  float64 `json:"conf_low"`
	ConfHigh float64 `json:"conf_high"`
}

// StateRow pairs one index-table record with its state estimate.
type StateRow struct {
	Index    int             `json:"index"`
	Value    timevalue.Value `json:"value"`
	Extra    bool            `json:"extra"`
	Estimate float64         `json:"estimate"`
	ConfLow  float64         `json:"conf_low"`
	ConfHigh float64         `json:"conf_high"`
}

// Critical returns the two-sided normal critical value for the given
// confidence level.
func Critical(level float64) (float64, error) {
	if level <= 0 || level >= 1 {
		return 0, fmt.Errorf("got level %f, %w", level, ErrBadConfidenceLevel)
	}
	n := distuv.Normal{Mu: 0, Sigma: 1}
	return n.Quantile(0.5 + level/2.0), nil
}

// Tidy extracts the fitted hyperparameters with normal-approximation
// confidence bounds at the given level. Standard deviations get their
// interval on the log scale and rho on the atanh scale, so the bounds
// respect the parameter domains. Terms without a usable standard error
// carry NaN bounds.
func Tidy(fit *process.Fit, level float64) ([]Term, error) {
	if fit == nil {
		return nil, ErrNoFit
	}
	z, err := Critical(level)
	if err != nil {
		return nil, err
	}

	terms := []Term{
		logScaleTerm("obs_sd", fit.ObsSD, fit.ObsSDSE, z),
		logScaleTerm("proc_sd", fit.ProcSD, fit.ProcSDSE, z),
	}
	if fit.Type == process.TypeAR1 {
		terms = append(terms, rhoTerm(fit.Rho, fit.RhoSE, z))
	}
	return terms, nil
}

// StateTable lines up every fitted state with its time value and extra
// flag from the index table.
func StateTable(table *timeindex.Table, fit *process.Fit, level float64) ([]StateRow, error) {
	if fit == nil {
		return nil, ErrNoFit
	}
	if table.Len() != len(fit.States) {
		return nil, fmt.Errorf("table has %d steps but fit has %d states, %w",
			table.Len(), len(fit.States), ErrStateLenMismatch)
	}
	z, err := Critical(level)
	if err != nil {
		return nil, err
	}

	rows := make([]StateRow, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		r := table.At(i)
		margin := z * fit.StateSD[i]
		rows = append(rows, StateRow{
			Index:    r.Index,
			Value:    r.Value,
			Extra:    r.Extra,
			Estimate: fit.States[i],
			ConfLow:  fit.States[i] - margin,
			ConfHigh: fit.States[i] + margin,
		})
	}
	return rows, nil
}

func logScaleTerm(name string, est, se float64, z float64) Term {
	t := Term{
		Name:     name,
		Estimate: est,
		StdError: se,
		ConfLow:  math.NaN(),
		ConfHigh: math.NaN(),
	}
	if !math.IsNaN(se) && est > 0 {
		seLog := se / est
		t.ConfLow = est * math.Exp(-z*seLog)
		t.ConfHigh = est * math.Exp(z*seLog)
	}
	return t
}

func rhoTerm(rho, se float64, z float64) Term {
	t := Term{
		Name:     "rho",
		Estimate: rho,
		StdError: se,
		ConfLow:  math.NaN(),
		ConfHigh: math.NaN(),
	}
	if !math.IsNaN(se) && rho > -1 && rho < 1 {
		seAtanh := se / (1.0 - rho*rho)
		t.ConfLow = math.Tanh(math.Atanh(rho) - z*seAtanh)
		t.ConfHigh = math.Tanh(math.Atanh(rho) + z*seAtanh)
	}
	return t
}
