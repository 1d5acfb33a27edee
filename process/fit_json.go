package process

import (
	"encoding/json"
	"math"
)

// fitJSON mirrors Fit with nullable standard errors since JSON has no NaN.
type fitJSON struct {
	Type     Type      `json:"type"`
	States   []float64 `json:"states"`
	StateSD  []float64 `json:"state_sd"`
	ObsSD    float64   `json:"obs_sd"`
	ProcSD   float64   `json:"proc_sd"`
	Rho      float64   `json:"rho"`
	ObsSDSE  *float64  `json:"obs_sd_se"`
	ProcSDSE *float64  `json:"proc_sd_se"`
	RhoSE    *float64  `json:"rho_se"`
	NLL      float64   `json:"nll"`
	NumObs   int       `json:"num_obs"`
}

func toNullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func fromNullable(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func (f Fit) MarshalJSON() ([]byte, error) {
	return json.Marshal(fitJSON{
		Type:     f.Type,
		States:   f.States,
		StateSD:  f.StateSD,
		ObsSD:    f.ObsSD,
		ProcSD:   f.ProcSD,
		Rho:      f.Rho,
		ObsSDSE:  toNullable(f.ObsSDSE),
		ProcSDSE: toNullable(f.ProcSDSE),
		RhoSE:    toNullable(f.RhoSE),
		NLL:      f.NLL,
		NumObs:   f.NumObs,
	})
}

func (f *Fit) UnmarshalJSON(data []byte) error {
	var in fitJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	f.Type = in.Type
	f.States = in.States
	f.StateSD = in.StateSD
	f.ObsSD = in.ObsSD
	f.ProcSD = in.ProcSD
	f.Rho = in.Rho
	f.ObsSDSE = fromNullable(in.ObsSDSE)
	f.ProcSDSE = fromNullable(in.ProcSDSE)
	f.RhoSE = fromNullable(in.RhoSE)
	f.NLL = in.NLL
	f.NumObs = in.NumObs
	return nil
}
