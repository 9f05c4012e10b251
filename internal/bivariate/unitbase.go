package bivariate

import (
	"math"

	"github.com/san-kum/radsim/internal/interp"
	"github.com/san-kum/radsim/internal/rng"
	"github.com/san-kum/radsim/internal/tabular"
)

// frame maps the two bracketing tables and the intermediate table onto a
// common unit interval (eta) in processed secondary space.
type frame struct {
	y      interp.Kind
	tables [2]tabular.Distribution
	lo     [2]float64
	span   [2]float64
	lower  float64
	width  float64
}

func (e *Engine) frame(b bracket) frame {
	f := frame{
		y:      e.opts.interp.Y,
		tables: [2]tabular.Distribution{e.tables[b.lo], e.tables[b.hi]},
	}
	for k, d := range f.tables {
		f.lo[k] = f.y.Process(d.LowerBound())
		f.span[k] = f.y.Process(d.UpperBound()) - f.lo[k]
	}
	f.lower = (1-b.beta)*f.lo[0] + b.beta*f.lo[1]
	upper := (1-b.beta)*(f.lo[0]+f.span[0]) + b.beta*(f.lo[1]+f.span[1])
	f.width = upper - f.lower
	return f
}

// eta returns the unit-base coordinate of y in the intermediate table.
func (f *frame) eta(y float64) float64 {
	return (f.y.Process(y) - f.lower) / f.width
}

// etaIn returns the unit-base coordinate of y in table k.
func (f *frame) etaIn(k int, y float64) float64 {
	return (f.y.Process(y) - f.lo[k]) / f.span[k]
}

// value maps eta back onto the intermediate table.
func (f *frame) value(eta float64) float64 {
	return f.y.Recover(f.lower + eta*f.width)
}

// valueIn maps eta onto table k, clamped to the table's support.
func (f *frame) valueIn(k int, eta float64) float64 {
	d := f.tables[k]
	y := f.y.Recover(f.lo[k] + eta*f.span[k])
	return math.Min(math.Max(y, d.LowerBound()), d.UpperBound())
}

// stretch is dy/deta in table k at y.
func (f *frame) stretch(k int, y float64) float64 {
	return f.span[k] / f.y.Deriv(y)
}

func clampUnit(x float64) float64 {
	return math.Min(math.Max(x, 0), 1)
}

func (e *Engine) unitBaseEvaluate(b bracket, y float64, fn evalFunc) float64 {
	fr := e.frame(b)
	eta := fr.eta(y)
	tol := e.opts.fuzzy
	if !(eta >= -tol && eta <= 1+tol) {
		return 0
	}
	eta = clampUnit(eta)

	y0, y1 := fr.valueIn(0, eta), fr.valueIn(1, eta)
	g0 := fn(fr.tables[0], y0) * fr.stretch(0, y0)
	g1 := fn(fr.tables[1], y1) * fr.stretch(1, y1)
	g := e.opts.interp.Z.Blend(b.beta, g0, g1)
	return g * fr.y.Deriv(y) / fr.width
}

func (e *Engine) unitBaseCDF(b bracket, y float64) float64 {
	fr := e.frame(b)
	eta := fr.eta(y)
	switch {
	case math.IsNaN(eta):
		return 0
	case eta <= 0:
		return 0
	case eta >= 1:
		return 1
	}
	c0 := fr.tables[0].EvaluateCDF(fr.valueIn(0, eta))
	c1 := fr.tables[1].EvaluateCDF(fr.valueIn(1, eta))
	return c0 + b.beta*(c1-c0)
}

func (e *Engine) unitBaseSample(b bracket, src rng.Source, max float64) (float64, int, int) {
	fr := e.frame(b)
	k, idx := 0, b.lo
	if src.Float64() < b.beta {
		k, idx = 1, b.hi
	}
	d := fr.tables[k]

	var yk float64
	var bin int
	if max >= fr.value(1) {
		yk, bin = d.SampleAndRecordBinIndex(src)
	} else {
		limit := fr.valueIn(k, clampUnit(fr.eta(max)))
		yk, bin = sampleTable(d, src.Float64(), limit)
	}

	y := fr.value(clampUnit(fr.etaIn(k, yk)))
	return math.Min(y, max), idx, bin
}
