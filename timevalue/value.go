package timevalue

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrKindMismatch = errors.New("time values have different kinds")

// Kind discriminates the representation of a time value.
type Kind int

const (
	KindNumeric Kind = iota
	KindCategory
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategory:
		return "category"
	}
	return "unknown"
}

// Value is a discrete point on a model's time axis, either numeric (e.g. a
// survey year) or a category label. Values only order within a kind; a
// numeric value never compares against a category, even when the two would
// stringify identically.
type Value struct {
	kind  Kind
	num   float64
	label string
}

// Num returns a numeric time value.
func Num(n float64) Value {
	return Value{kind: KindNumeric, num: n}
}

// Category returns a categorical time value ordered lexicographically by
// its label.
func Category(label string) Value {
	return Value{kind: KindCategory, label: label}
}

func (v Value) Kind() Kind {
	return v.kind
}

// Float returns the numeric representation. Only meaningful for
// KindNumeric values.
func (v Value) Float() float64 {
	return v.num
}

// Label returns the category label. Only meaningful for KindCategory
// values.
func (v Value) Label() string {
	return v.label
}

// Compare orders v against o within a shared kind, returning -1, 0, or 1.
// Comparing across kinds fails with ErrKindMismatch rather than falling
// back to string coercion.
func (v Value) Compare(o Value) (int, error) {
	if v.kind != o.kind {
		return 0, fmt.Errorf("cannot compare %s value %s with %s value %s, %w",
			v.kind, v, o.kind, o, ErrKindMismatch)
	}
	if v.kind == KindCategory {
		return strings.Compare(v.label, o.label), nil
	}
	switch {
	case v.num < o.num:
		return -1, nil
	case v.num > o.num:
		return 1, nil
	}
	return 0, nil
}

// Equal reports whether v and o are the same time value. Values of
// different kinds are never equal.
func (v Value) Equal(o Value) bool {
	return v == o
}

func (v Value) String() string {
	if v.kind == KindCategory {
		return v.label
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

type valueJSON struct {
	Kind  string   `json:"kind"`
	Num   *float64 `json:"num,omitempty"`
	Label *string  `json:"label,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{Kind: v.kind.String()}
	switch v.kind {
	case KindNumeric:
		n := v.num
		out.Num = &n
	case KindCategory:
		l := v.label
		out.Label = &l
	}
	return json.Marshal(out)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Kind {
	case KindNumeric.String():
		if in.Num == nil {
			return fmt.Errorf("numeric time value missing num field")
		}
		*v = Num(*in.Num)
	case KindCategory.String():
		if in.Label == nil {
			return fmt.Errorf("category time value missing label field")
		}
		*v = Category(*in.Label)
	default:
		return fmt.Errorf("unknown time value kind %q", in.Kind)
	}
	return nil
}
