package process

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateValidation(t *testing.T) {
	testData := map[string]struct {
		stateIdx []int
		y        []float64
		nStates  int
		opt      *Options
		err      error
	}{
		"no observations": {
			nStates: 2,
			err:     ErrNoObservations,
		},
		"length mismatch": {
			stateIdx: []int{0},
			y:        []float64{1, 2},
			nStates:  2,
			err:      ErrLenMismatch,
		},
		"no states": {
			stateIdx: []int{0},
			y:        []float64{1},
			nStates:  0,
			err:      ErrStateIndexRange,
		},
		"random walk with one state": {
			stateIdx: []int{0},
			y:        []float64{1},
			nStates:  1,
			opt:      &Options{Type: TypeRandomWalk, ObsSD: 1, ProcSD: 1},
			err:      ErrNotIdentifiable,
		},
		"ar1 with one state": {
			stateIdx: []int{0},
			y:        []float64{1},
			nStates:  1,
			opt:      &Options{Type: TypeAR1, Rho: 0.5, ObsSD: 1, ProcSD: 1},
			err:      ErrNotIdentifiable,
		},
		"state index out of range": {
			stateIdx: []int{0, 3},
			y:        []float64{1, 2},
			nStates:  3,
			err:      ErrStateIndexRange,
		},
		"negative state index": {
			stateIdx: []int{-1, 0},
			y:        []float64{1, 2},
			nStates:  2,
			err:      ErrStateIndexRange,
		},
		"NaN observation": {
			stateIdx: []int{0, 1},
			y:        []float64{1, math.NaN()},
			nStates:  2,
			err:      ErrNonFiniteValue,
		},
		"bad starting scale": {
			stateIdx: []int{0, 1},
			y:        []float64{1, 2},
			nStates:  2,
			opt:      &Options{Type: TypeRandomWalk, ObsSD: 0, ProcSD: 1},
			err:      ErrBadScale,
		},
		"bad fixed rho": {
			stateIdx: []int{0, 1},
			y:        []float64{1, 2},
			nStates:  2,
			opt:      &Options{Type: TypeAR1, Rho: 1.0, ObsSD: 1, ProcSD: 1},
			err:      ErrBadRho,
		},
		"unknown type": {
			stateIdx: []int{0, 1},
			y:        []float64{1, 2},
			nStates:  2,
			opt:      &Options{Type: Type(9), ObsSD: 1, ProcSD: 1},
			err:      ErrUnknownType,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			fit, err := Estimate(td.stateIdx, td.y, td.nStates, td.opt)
			assert.ErrorIs(t, err, td.err)
			assert.Nil(t, fit)
		})
	}
}

// groupedObservations builds a deterministic dataset with repObs
// observations per state alternating level +/- spread around each mean.
func groupedObservations(means []float64, repObs int, spread float64) ([]int, []float64) {
	var stateIdx []int
	var y []float64
	for k, m := range means {
		for i := 0; i < repObs; i++ {
			stateIdx = append(stateIdx, k)
			if i%2 == 0 {
				y = append(y, m+spread)
				continue
			}
			y = append(y, m-spread)
		}
	}
	return stateIdx, y
}

func TestEstimateIID(t *testing.T) {
	means := []float64{-2, -1, 0, 1, 2}
	stateIdx, y := groupedObservations(means, 40, 0.5)

	fit, err := Estimate(stateIdx, y, len(means), &Options{Type: TypeIID, ObsSD: 1, ProcSD: 1})
	require.NoError(t, err)

	require.Len(t, fit.States, len(means))
	require.Len(t, fit.StateSD, len(means))
	assert.Equal(t, TypeIID, fit.Type)
	assert.Equal(t, 200, fit.NumObs)
	assert.Equal(t, 0.0, fit.Rho)

	for k, m := range means {
		assert.InDelta(t, m, fit.States[k], 0.15, "state %d", k)
		assert.Greater(t, fit.StateSD[k], 0.0)
	}
	assert.InDelta(t, 0.5, fit.ObsSD, 0.1)
	assert.Greater(t, fit.ProcSD, 0.8)
	assert.Less(t, fit.ProcSD, 3.0)
	assert.False(t, math.IsInf(fit.NLL, 0))

	// well-conditioned problem, so the observed information is usable
	assert.Greater(t, fit.ObsSDSE, 0.0)
	assert.Less(t, fit.ObsSDSE, 0.2)
	assert.True(t, math.IsNaN(fit.RhoSE))
}

func TestEstimateRandomWalkInterpolatesGap(t *testing.T) {
	// observations at states 0 and 2 only; state 1 is an extra step
	stateIdx, y := groupedObservations([]float64{0, 2}, 20, 0.1)
	for i := range stateIdx {
		stateIdx[i] *= 2
	}

	fit, err := Estimate(stateIdx, y, 3, &Options{Type: TypeRandomWalk, ObsSD: 1, ProcSD: 1})
	require.NoError(t, err)
	require.Len(t, fit.States, 3)

	assert.InDelta(t, 0.0, fit.States[0], 0.1)
	assert.InDelta(t, 2.0, fit.States[2], 0.1)

	// the unobserved middle state is bridged by the walk, landing midway
	assert.InDelta(t, (fit.States[0]+fit.States[2])/2.0, fit.States[1], 1e-3)
	assert.InDelta(t, 1.0, fit.States[1], 0.15)

	// no data at state 1 means more posterior spread there
	assert.Greater(t, fit.StateSD[1], fit.StateSD[0])
	assert.Greater(t, fit.StateSD[1], fit.StateSD[2])
}

func TestEstimateRandomWalkExtrapolatesTail(t *testing.T) {
	// trailing extra steps: a random walk holds the last level and the
	// posterior spread grows with each unobserved step
	stateIdx, y := groupedObservations([]float64{0, 1, 2}, 20, 0.1)

	fit, err := Estimate(stateIdx, y, 5, &Options{Type: TypeRandomWalk, ObsSD: 1, ProcSD: 1})
	require.NoError(t, err)
	require.Len(t, fit.States, 5)

	assert.InDelta(t, fit.States[2], fit.States[3], 1e-3)
	assert.InDelta(t, fit.States[2], fit.States[4], 1e-3)
	assert.Greater(t, fit.StateSD[3], fit.StateSD[2])
	assert.Greater(t, fit.StateSD[4], fit.StateSD[3])
}

func TestEstimateAR1FixedRho(t *testing.T) {
	stateIdx, y := groupedObservations([]float64{1, 2, 1, 0}, 10, 0.2)

	fit, err := Estimate(stateIdx, y, 4, &Options{
		Type:   TypeAR1,
		Rho:    0.6,
		ObsSD:  1,
		ProcSD: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.6, fit.Rho)
	assert.True(t, math.IsNaN(fit.RhoSE))
	require.Len(t, fit.States, 4)
}

func TestEstimateAR1Recovery(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 3))

	n := 200
	rho := 0.8
	procSD := 1.0
	obsSD := 0.3

	path := make([]float64, n)
	path[0] = r.NormFloat64() * procSD / math.Sqrt(1.0-rho*rho)
	for i := 1; i < n; i++ {
		path[i] = rho*path[i-1] + r.NormFloat64()*procSD
	}

	stateIdx := make([]int, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		stateIdx[i] = i
		y[i] = path[i] + r.NormFloat64()*obsSD
	}

	fit, err := Estimate(stateIdx, y, n, &Options{
		Type:        TypeAR1,
		Rho:         0.5,
		EstimateRho: true,
		ObsSD:       1,
		ProcSD:      1,
	})
	require.NoError(t, err)
	require.Len(t, fit.States, n)

	assert.Greater(t, fit.Rho, 0.5)
	assert.Less(t, fit.Rho, 0.99)

	var sqErr float64
	for i := 0; i < n; i++ {
		diff := fit.States[i] - path[i]
		sqErr += diff * diff
	}
	assert.Less(t, sqErr/float64(n), 0.5, "states should track the simulated path")
}

func TestEstimateDefaultOptions(t *testing.T) {
	stateIdx, y := groupedObservations([]float64{0, 1}, 10, 0.2)

	fit, err := Estimate(stateIdx, y, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, TypeRandomWalk, fit.Type)
}
