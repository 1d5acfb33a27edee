// Package timeindex aligns the time values observed in a dataset with the
// full set of time steps a model must walk through. Every distinct value of
// the full set gets one contiguous zero-based index in ascending time order,
// and steps with no observations are flagged extra. The downstream estimator
// allocates one latent state per index and gives extra steps zero likelihood
// weight, which is what lets an autocorrelated process decay correctly
// across unobserved gaps.
package timeindex

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kmaguire4/go-timefit/timevalue"
)

var (
	ErrNoObservedTimes = errors.New("no observed time values")
	ErrNoFullTimes     = errors.New("no full time values")
	ErrMixedKinds      = errors.New("time values must share one kind")
	ErrTimeDomain      = errors.New("observed time value missing from full time set")
	ErrLookupMiss      = errors.New("time value not present in index table")
	ErrBadRecords      = errors.New("records do not form a contiguous sorted index")
)

// Record maps one distinct time value to its state index. Extra marks a
// step with no observations; it owns a latent state but carries no
// likelihood weight.
type Record struct {
	Index int             `json:"index"`
	Value timevalue.Value `json:"value"`
	Extra bool            `json:"extra"`
}

// Table is the index lookup built once at model setup. It is immutable
// after Build and safe to share read-only across concurrent predictions.
type Table struct {
	records  []Record
	position map[timevalue.Value]int
	numExtra int
}

// Build produces the index table from the time values present in the
// observational data and the full set of values the model should step
// through. Duplicates in either input collapse, input order is irrelevant,
// and every distinct observed value must appear in the full set. A calendar
// gap between neighboring values still advances the index by exactly one.
func Build(observed, full []timevalue.Value) (*Table, error) {
	if len(observed) == 0 {
		return nil, ErrNoObservedTimes
	}
	if len(full) == 0 {
		return nil, ErrNoFullTimes
	}

	kind := observed[0].Kind()
	if err := checkKind(kind, observed); err != nil {
		return nil, err
	}
	if err := checkKind(kind, full); err != nil {
		return nil, err
	}

	observedSet := distinct(observed)
	fullSet := distinct(full)

	var missing []string
	for v := range observedSet {
		if _, ok := fullSet[v]; !ok {
			missing = append(missing, v.String())
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("observed values [%s] absent from full time set, %w",
			strings.Join(missing, " "), ErrTimeDomain)
	}

	values := make([]timevalue.Value, 0, len(fullSet))
	for v := range fullSet {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		c, _ := values[i].Compare(values[j])
		return c < 0
	})

	t := &Table{
		records:  make([]Record, 0, len(values)),
		position: make(map[timevalue.Value]int, len(values)),
	}
	for i, v := range values {
		_, seen := observedSet[v]
		if !seen {
			t.numExtra++
		}
		t.records = append(t.records, Record{Index: i, Value: v, Extra: !seen})
		t.position[v] = i
	}
	return t, nil
}

// NewFromRecords reconstructs a table from previously exported records,
// e.g. when loading a serialized model. The records must already satisfy
// the Build invariants: indices 0..n-1 in order, values strictly ascending,
// one kind throughout.
func NewFromRecords(records []Record) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrNoFullTimes
	}

	kind := records[0].Value.Kind()
	t := &Table{
		records:  make([]Record, 0, len(records)),
		position: make(map[timevalue.Value]int, len(records)),
	}
	for i, r := range records {
		if r.Index != i {
			return nil, fmt.Errorf("record %d has index %d, %w", i, r.Index, ErrBadRecords)
		}
		if r.Value.Kind() != kind {
			return nil, fmt.Errorf("record %d has kind %s, expected %s, %w",
				i, r.Value.Kind(), kind, ErrMixedKinds)
		}
		if i > 0 {
			c, err := r.Value.Compare(records[i-1].Value)
			if err != nil {
				return nil, err
			}
			if c <= 0 {
				return nil, fmt.Errorf("record %d value %s does not increase, %w",
					i, r.Value, ErrBadRecords)
			}
		}
		if r.Extra {
			t.numExtra++
		}
		t.records = append(t.records, r)
		t.position[r.Value] = i
	}
	return t, nil
}

// Lookup maps a time value to its state index. The value must be a member
// of the full set fixed at build time; anything else fails with
// ErrLookupMiss rather than snapping to a neighboring index, since a
// silently wrong index would attribute the row to the wrong latent state.
func (t *Table) Lookup(v timevalue.Value) (int, error) {
	i, ok := t.position[v]
	if !ok {
		return 0, fmt.Errorf("time value %s, %w", v, ErrLookupMiss)
	}
	return i, nil
}

// Len returns the number of time steps, which is also the latent-state
// dimension the estimator must allocate.
func (t *Table) Len() int {
	return len(t.records)
}

// NumExtra returns the count of steps with no observations.
func (t *Table) NumExtra() int {
	return t.numExtra
}

// NumObserved returns the count of steps backed by at least one observation.
func (t *Table) NumObserved() int {
	return len(t.records) - t.numExtra
}

// At returns the record at index i.
func (t *Table) At(i int) Record {
	return t.records[i]
}

// Records returns a copy of all records in index order.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Values returns all time values in index order.
func (t *Table) Values() []timevalue.Value {
	out := make([]timevalue.Value, 0, len(t.records))
	for _, r := range t.records {
		out = append(out, r.Value)
	}
	return out
}

func checkKind(kind timevalue.Kind, values []timevalue.Value) error {
	for _, v := range values {
		if v.Kind() != kind {
			return fmt.Errorf("%s value %s mixed with %s values, %w",
				v.Kind(), v, kind, ErrMixedKinds)
		}
	}
	return nil
}

func distinct(values []timevalue.Value) map[timevalue.Value]struct{} {
	set := make(map[timevalue.Value]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
