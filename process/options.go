package process

// Options configures the latent process estimate.
type Options struct {
	Type Type `json:"type"`

	// Rho is the AR(1) coefficient. It is the starting point when
	// EstimateRho is set and the fixed value otherwise. Ignored for the
	// other process types.
	Rho         float64 `json:"rho"`
	EstimateRho bool    `json:"estimate_rho"`

	// Starting points for the optimizer.
	ObsSD  float64 `json:"obs_sd"`
	ProcSD float64 `json:"proc_sd"`
}

func NewDefaultOptions() *Options {
	return &Options{
		Type:        TypeRandomWalk,
		Rho:         0.5,
		EstimateRho: true,
		ObsSD:       1.0,
		ProcSD:      1.0,
	}
}
