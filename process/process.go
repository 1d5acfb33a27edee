// Package process estimates a latent temporal process over the contiguous
// state indices of a time index table. One latent state exists per index,
// observed or not; steps without observations contribute nothing to the
// likelihood but still sit inside the process prior, so gaps are bridged
// with the correct autocorrelation decay. Index spacing is all that
// matters: a 1-step gap and a 10-step gap behave identically once reduced
// to indices.
package process

import (
	"encoding/json"
	"fmt"
)

// Type selects the latent temporal process placed over the state indices.
type Type int

const (
	TypeIID Type = iota
	TypeRandomWalk
	TypeAR1
)

func (p Type) String() string {
	switch p {
	case TypeIID:
		return "iid"
	case TypeRandomWalk:
		return "rw"
	case TypeAR1:
		return "ar1"
	}
	return "unknown"
}

// ParseType maps the string form back to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "iid":
		return TypeIID, nil
	case "rw":
		return TypeRandomWalk, nil
	case "ar1":
		return TypeAR1, nil
	}
	return 0, fmt.Errorf("unknown process type %q, %w", s, ErrUnknownType)
}

func (p Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	typ, err := ParseType(s)
	if err != nil {
		return err
	}
	*p = typ
	return nil
}
