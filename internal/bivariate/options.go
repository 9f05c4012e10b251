package bivariate

import (
	"math"

	"github.com/san-kum/radsim/internal/interp"
)

const (
	// DefaultFuzzyBoundTolerance widens the primary grid edges by this
	// relative amount before a value is considered outside the grid.
	DefaultFuzzyBoundTolerance = 1e-7

	// DefaultRelativeErrorTolerance and DefaultErrorTolerance bound the
	// correlated CDF inversion.
	DefaultRelativeErrorTolerance = 1e-7
	DefaultErrorTolerance         = 1e-12

	// DefaultMaxIterations caps the correlated CDF inversion.
	DefaultMaxIterations = 500
)

type options struct {
	interp   interp.TwoD
	grid     GridPolicy
	fuzzy    float64
	relTol   float64
	errTol   float64
	maxIter  int
	extended bool
}

func defaultOptions() options {
	return options{
		interp:  interp.LinLinLin,
		grid:    Correlated,
		fuzzy:   DefaultFuzzyBoundTolerance,
		relTol:  DefaultRelativeErrorTolerance,
		errTol:  DefaultErrorTolerance,
		maxIter: DefaultMaxIterations,
	}
}

// Option configures an Engine. Values are checked by New.
type Option func(*options)

// WithInterp selects the two-dimensional interpolation policy.
func WithInterp(p interp.TwoD) Option {
	return func(o *options) { o.interp = p }
}

// WithGrid selects the grid policy.
func WithGrid(g GridPolicy) Option {
	return func(o *options) { o.grid = g }
}

// WithFuzzyBoundTolerance sets how far, relative to the edge, a primary
// value may fall outside the grid and still use the edge table.
func WithFuzzyBoundTolerance(tol float64) Option {
	return func(o *options) { o.fuzzy = tol }
}

func WithRelativeErrorTolerance(tol float64) Option {
	return func(o *options) { o.relTol = tol }
}

// WithErrorTolerance sets the absolute part of the correlated CDF inversion
// tolerance. It is added to the relative part.
func WithErrorTolerance(tol float64) Option {
	return func(o *options) { o.errTol = tol }
}

func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIter = n }
}

// Extended makes primary values outside the grid use the nearest boundary
// table instead of being rejected.
func Extended() Option {
	return func(o *options) { o.extended = true }
}

func validTolerance(tol float64) bool {
	return tol >= 0 && tol < 1 && !math.IsNaN(tol)
}
