package timefit

import (
	"github.com/kmaguire4/go-timefit/process"
	"github.com/kmaguire4/go-timefit/timevalue"
)

const DefaultConfidenceLevel = 0.95

// OutlierOptions controls the pre-fit outlier pass. Flagged rows are
// removed before the time index is built, so an occasion observed only
// through outliers becomes a regular gap.
type OutlierOptions struct {
	NumPasses       int     `json:"num_passes"`
	UpperPercentile float64 `json:"upper_percentile"`
	LowerPercentile float64 `json:"lower_percentile"`
	TukeyFactor     float64 `json:"tukey_factor"`
}

func NewOutlierOptions() *OutlierOptions {
	return &OutlierOptions{
		NumPasses:       3,
		UpperPercentile: 0.9,
		LowerPercentile: 0.1,
		TukeyFactor:     1.0,
	}
}

type Options struct {
	Process *process.Options `json:"process"`

	// ExtraTimes extends the model's time domain past the observed data,
	// e.g. forecast years or known survey gaps. Values that were also
	// observed are a no-op. All values must share the kind of the time
	// variable in the data.
	ExtraTimes []timevalue.Value `json:"extra_times"`

	Outlier         *OutlierOptions `json:"outlier,omitempty"`
	ConfidenceLevel float64         `json:"confidence_level"`
}

func NewDefaultOptions() *Options {
	return &Options{
		Process:         process.NewDefaultOptions(),
		ConfidenceLevel: DefaultConfidenceLevel,
	}
}
