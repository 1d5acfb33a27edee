package timefit

import (
	"github.com/kmaguire4/go-timefit/timevalue"
)

// Results holds per-row predictions aligned with the requested time values.
// Index is the latent state each row was read from and Extra marks rows
// whose time step carried no observations during fitting.
type Results struct {
	T        []timevalue.Value `json:"time"`
	Index    []int             `json:"index"`
	Extra    []bool            `json:"extra"`
	Estimate []float64         `json:"estimate"`
	Upper    []float64         `json:"upper"`
	Lower    []float64         `json:"lower"`
}
