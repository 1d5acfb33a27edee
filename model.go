package timefit

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/kmaguire4/go-timefit/process"
	"github.com/kmaguire4/go-timefit/report"
	"github.com/kmaguire4/go-timefit/timeindex"
)

var (
	ErrNoOptionsInModel = errors.New("no options set in model")
	ErrNoFitInModel     = errors.New("no process fit in model")
	ErrModelLenMismatch = errors.New("model index table and fitted states differ in length")
)

// Model is a serializable snapshot of a fitted Fitter. It can seed a new
// Fitter with NewFromModel for immediate predictions, skipping the
// training step; the embedded index table keeps later lookups aligned with
// the states estimated at fit time.
type Model struct {
	ID      uuid.UUID          `json:"id"`
	Options *Options           `json:"options"`
	Index   []timeindex.Record `json:"time_index"`
	Fit     *process.Fit       `json:"fit"`
}

// Model generates a serializable representation of the fit options, index
// table, and fitted process.
func (f *Fitter) Model() (Model, error) {
	if f.fit == nil || f.table == nil {
		return Model{}, ErrNotFitted
	}
	return Model{
		ID:      uuid.New(),
		Options: f.opt,
		Index:   f.table.Records(),
		Fit:     f.fit,
	}, nil
}

// NewFromModel creates a new instance of Fitter from a pre-existing model.
// This should be generated from a previous fitter call to Model().
func NewFromModel(m Model) (*Fitter, error) {
	if m.Options == nil {
		return nil, ErrNoOptionsInModel
	}
	if m.Fit == nil {
		return nil, ErrNoFitInModel
	}
	table, err := timeindex.NewFromRecords(m.Index)
	if err != nil {
		return nil, fmt.Errorf("unable to rebuild time index, %w", err)
	}
	if table.Len() != len(m.Fit.States) || table.Len() != len(m.Fit.StateSD) {
		return nil, fmt.Errorf("table has %d steps but fit has %d states, %w",
			table.Len(), len(m.Fit.States), ErrModelLenMismatch)
	}

	f, err := New(m.Options)
	if err != nil {
		return nil, err
	}
	f.table = table
	f.fit = m.Fit
	return f, nil
}

// TablePrint writes the tidy parameter table and the per-step state table.
func (m Model) TablePrint(w io.Writer) error {
	if m.Options == nil {
		return ErrNoOptionsInModel
	}
	terms, err := report.Tidy(m.Fit, m.Options.ConfidenceLevel)
	if err != nil {
		return err
	}
	table, err := timeindex.NewFromRecords(m.Index)
	if err != nil {
		return err
	}
	rows, err := report.StateTable(table, m.Fit, m.Options.ConfidenceLevel)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "term\testimate\tstd.error\tconf.low\tconf.high\n")
	for _, term := range terms {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n",
			term.Name, term.Estimate, term.StdError, term.ConfLow, term.ConfHigh)
	}
	fmt.Fprintf(tw, "\nindex\ttime\textra\tstate\tconf.low\tconf.high\n")
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%t\t%.4f\t%.4f\t%.4f\n",
			row.Index, row.Value, row.Extra, row.Estimate, row.ConfLow, row.ConfHigh)
	}
	return tw.Flush()
}
