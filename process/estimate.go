package process

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Fit holds the estimated latent states and process hyperparameters.
type Fit struct {
	Type Type `json:"type"`

	// States holds the posterior mean of each latent state, one per index
	// of the time index table. StateSD is the matching posterior standard
	// deviation.
	States  []float64 `json:"states"`
	StateSD []float64 `json:"state_sd"`

	ObsSD  float64 `json:"obs_sd"`
	ProcSD float64 `json:"proc_sd"`
	Rho    float64 `json:"rho"`

	// Standard errors from the observed information of the marginal
	// likelihood; NaN when the information matrix is not positive definite
	// or, for RhoSE, when rho was held fixed.
	ObsSDSE  float64 `json:"obs_sd_se"`
	ProcSDSE float64 `json:"proc_sd_se"`
	RhoSE    float64 `json:"rho_se"`

	NLL    float64 `json:"nll"`
	NumObs int     `json:"num_obs"`
}

// Estimate fits the latent process to observations keyed by state index.
// stateIdx[i] is the index-table position of observation y[i], and nStates
// is the table length covering observed and extra steps alike. Indices
// with no observations carry zero likelihood weight and get filled in by
// the process prior. The Gaussian marginal likelihood is exact; the
// hyperparameters are optimized with Nelder-Mead on log/atanh scales.
func Estimate(stateIdx []int, y []float64, nStates int, opt *Options) (*Fit, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	switch opt.Type {
	case TypeIID, TypeRandomWalk, TypeAR1:
	default:
		return nil, fmt.Errorf("process type %d, %w", opt.Type, ErrUnknownType)
	}
	if len(y) == 0 {
		return nil, ErrNoObservations
	}
	if len(stateIdx) != len(y) {
		return nil, fmt.Errorf("%d state indices for %d observations, %w",
			len(stateIdx), len(y), ErrLenMismatch)
	}
	if nStates < 1 {
		return nil, fmt.Errorf("must allocate at least one state, %w", ErrStateIndexRange)
	}
	if nStates < 2 && opt.Type != TypeIID {
		return nil, ErrNotIdentifiable
	}
	if opt.ObsSD <= 0 || opt.ProcSD <= 0 {
		return nil, ErrBadScale
	}
	if opt.Type == TypeAR1 && (opt.Rho <= -1 || opt.Rho >= 1) {
		return nil, ErrBadRho
	}

	counts := make([]float64, nStates)
	sums := make([]float64, nStates)
	var ySq float64
	for i, idx := range stateIdx {
		if idx < 0 || idx >= nStates {
			return nil, fmt.Errorf("state index %d with %d states, %w", idx, nStates, ErrStateIndexRange)
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return nil, fmt.Errorf("observation %d is %f, %w", i, y[i], ErrNonFiniteValue)
		}
		counts[idx]++
		sums[idx] += y[i]
		ySq += y[i] * y[i]
	}

	estRho := opt.Type == TypeAR1 && opt.EstimateRho
	theta0 := []float64{math.Log(opt.ObsSD), math.Log(opt.ProcSD)}
	if estRho {
		theta0 = append(theta0, math.Atanh(opt.Rho))
	}

	nllFunc := func(theta []float64) float64 {
		p, err := solvePosterior(theta, counts, sums, ySq, len(y), opt, false)
		if err != nil {
			return math.Inf(1)
		}
		if math.IsNaN(p.nll) {
			return math.Inf(1)
		}
		return p.nll
	}

	problem := optimize.Problem{Func: nllFunc}
	result, err := optimize.Minimize(problem, theta0, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("unable to minimize marginal likelihood: %v, %w", err, ErrOptimizationFailed)
	}

	p, err := solvePosterior(result.X, counts, sums, ySq, len(y), opt, true)
	if err != nil {
		return nil, fmt.Errorf("unable to recover posterior at optimum, %w", err)
	}

	fit := &Fit{
		Type:     opt.Type,
		States:   p.mean,
		StateSD:  p.sd,
		ObsSD:    p.obsSD,
		ProcSD:   p.procSD,
		Rho:      p.rho,
		ObsSDSE:  math.NaN(),
		ProcSDSE: math.NaN(),
		RhoSE:    math.NaN(),
		NLL:      p.nll,
		NumObs:   len(y),
	}
	if opt.Type != TypeAR1 {
		fit.Rho = 0
	}

	hess := mat.NewSymDense(len(result.X), nil)
	fd.Hessian(hess, nllFunc, result.X, nil)
	var chol mat.Cholesky
	if chol.Factorize(hess) {
		var cov mat.SymDense
		if err := chol.InverseTo(&cov); err == nil {
			// delta method back to natural scale
			fit.ObsSDSE = fit.ObsSD * math.Sqrt(cov.At(0, 0))
			fit.ProcSDSE = fit.ProcSD * math.Sqrt(cov.At(1, 1))
			if estRho {
				fit.RhoSE = (1.0 - fit.Rho*fit.Rho) * math.Sqrt(cov.At(2, 2))
			}
		}
	}
	return fit, nil
}

type posterior struct {
	nll    float64
	mean   []float64
	sd     []float64
	obsSD  float64
	procSD float64
	rho    float64
}

// solvePosterior evaluates the exact Gaussian marginal negative
// log-likelihood at theta and, when withMoments is set, the posterior mean
// and standard deviation of every latent state.
func solvePosterior(theta []float64, counts, sums []float64, ySq float64, nObs int, opt *Options, withMoments bool) (*posterior, error) {
	obsSD := math.Exp(theta[0])
	procSD := math.Exp(theta[1])
	rho := opt.Rho
	if opt.Type == TypeAR1 && opt.EstimateRho {
		rho = math.Tanh(theta[2])
	}
	obsVar := obsSD * obsSD
	procVar := procSD * procSD
	n := len(counts)

	prior := unitPrecision(n, opt.Type, rho)
	scaledPrior := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			scaledPrior.SetSym(i, j, prior.At(i, j)/procVar)
		}
	}
	var priorChol mat.Cholesky
	if !priorChol.Factorize(scaledPrior) {
		return nil, fmt.Errorf("prior precision, %w", ErrSingularPrecision)
	}

	post := mat.NewSymDense(n, nil)
	post.CopySym(scaledPrior)
	for i := 0; i < n; i++ {
		post.SetSym(i, i, post.At(i, i)+counts[i]/obsVar)
	}
	var postChol mat.Cholesky
	if !postChol.Factorize(post) {
		return nil, fmt.Errorf("posterior precision, %w", ErrSingularPrecision)
	}

	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		b.SetVec(i, sums[i]/obsVar)
	}
	mean := mat.NewVecDense(n, nil)
	if err := postChol.SolveVecTo(mean, b); err != nil {
		return nil, fmt.Errorf("unable to solve for posterior mean, %w", err)
	}

	quad := ySq/obsVar - mat.Dot(b, mean)
	nll := 0.5 * (float64(nObs)*math.Log(2.0*math.Pi*obsVar) - priorChol.LogDet() + postChol.LogDet() + quad)

	p := &posterior{
		nll:    nll,
		obsSD:  obsSD,
		procSD: procSD,
		rho:    rho,
	}
	if !withMoments {
		return p, nil
	}

	p.mean = make([]float64, n)
	for i := 0; i < n; i++ {
		p.mean[i] = mean.AtVec(i)
	}
	var cov mat.SymDense
	if err := postChol.InverseTo(&cov); err != nil {
		return nil, fmt.Errorf("unable to invert posterior precision, %w", err)
	}
	p.sd = make([]float64, n)
	for i := 0; i < n; i++ {
		p.sd[i] = math.Sqrt(cov.At(i, i))
	}
	return p, nil
}
