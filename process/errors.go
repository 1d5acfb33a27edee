package process

import (
	"errors"
)

var (
	ErrUnknownType        = errors.New("unknown process type")
	ErrNoObservations     = errors.New("no observations to estimate from")
	ErrLenMismatch        = errors.New("state indices and observations differ in length")
	ErrStateIndexRange    = errors.New("state index out of range")
	ErrNonFiniteValue     = errors.New("observations must be finite")
	ErrNotIdentifiable    = errors.New("temporal variance is not identifiable with fewer than two states")
	ErrBadRho             = errors.New("ar(1) coefficient must be in (-1, 1)")
	ErrBadScale           = errors.New("initial standard deviations must be positive")
	ErrSingularPrecision  = errors.New("posterior precision is not positive definite")
	ErrOptimizationFailed = errors.New("hyperparameter optimization failed")
)
