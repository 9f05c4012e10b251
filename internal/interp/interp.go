// Package interp defines the interpolation policies used by tabulated data.
//
// A [Kind] processes one variable (identity, logarithm, or logarithm of the
// distance of an angle cosine from 1). A [OneD] policy pairs the processing of
// a dependent and an independent variable; a [TwoD] policy names the
// processing of the dependent value (Z), the secondary variable (Y) and the
// primary variable (X), in that order: LogLogCosLog is log Z, log-cos Y, log X.
package interp

import (
	"fmt"
	"math"
)

// CosNudge keeps the log-cos processing finite at mu = 1.
const CosNudge = 1e-10

// Kind is the processing applied to a single variable.
type Kind int

const (
	Lin Kind = iota
	Log
	LogCos
)

func (k Kind) String() string {
	switch k {
	case Lin:
		return "Lin"
	case Log:
		return "Log"
	case LogCos:
		return "LogCos"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Process maps x into the space where interpolation is linear.
func (k Kind) Process(x float64) float64 {
	switch k {
	case Log:
		return math.Log(x)
	case LogCos:
		return math.Log(1 + CosNudge - x)
	default:
		return x
	}
}

// Recover is the inverse of Process.
func (k Kind) Recover(u float64) float64 {
	switch k {
	case Log:
		return math.Exp(u)
	case LogCos:
		return 1 + CosNudge - math.Exp(u)
	default:
		return u
	}
}

// Deriv returns dProcess/dx at x.
func (k Kind) Deriv(x float64) float64 {
	switch k {
	case Log:
		return 1 / x
	case LogCos:
		return -1 / (1 + CosNudge - x)
	default:
		return 1
	}
}

// Valid reports whether x can be processed.
func (k Kind) Valid(x float64) bool {
	switch k {
	case Log:
		return x > 0
	case LogCos:
		return x < 1+CosNudge && x >= -1
	default:
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	}
}

// Fraction returns where x sits between x0 and x1 in processed space.
func (k Kind) Fraction(x0, x1, x float64) float64 {
	p0 := k.Process(x0)
	d := k.Process(x1) - p0
	if d == 0 {
		return 0
	}
	return (k.Process(x) - p0) / d
}

// Blend interpolates between y0 and y1 at fraction beta in processed space.
// Log processing of non-positive values falls back to linear blending.
func (k Kind) Blend(beta, y0, y1 float64) float64 {
	if k != Lin && (!k.Valid(y0) || !k.Valid(y1)) {
		return y0 + beta*(y1-y0)
	}
	p0 := k.Process(y0)
	return k.Recover(p0 + beta*(k.Process(y1)-p0))
}

// OneD is a dependent/independent processing pair.
type OneD struct {
	Dep   Kind
	Indep Kind
}

var (
	LinLin = OneD{Lin, Lin}
	LinLog = OneD{Lin, Log}
	LogLin = OneD{Log, Lin}
	LogLog = OneD{Log, Log}
)

func (p OneD) String() string {
	return p.Dep.String() + p.Indep.String()
}

// Interpolate evaluates the policy between (x0, y0) and (x1, y1) at x.
func (p OneD) Interpolate(x0, x1, x, y0, y1 float64) float64 {
	return p.Dep.Blend(p.Indep.Fraction(x0, x1, x), y0, y1)
}
