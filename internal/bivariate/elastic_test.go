package bivariate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/interp"
	"github.com/san-kum/radsim/internal/rng"
	"github.com/san-kum/radsim/internal/tabular"
)

func TestNewElasticValidation(t *testing.T) {
	e := newAngularEngine(t)

	for _, cutoff := range []float64{-1, -2, 1.0000001} {
		_, err := NewElastic(e, cutoff)
		assert.ErrorIs(t, err, contract.ErrPrecondition, "cutoff %g", cutoff)
	}

	wide := newUniformEngine(t)
	_, err := NewElastic(wide, 0.5)
	assert.ErrorIs(t, err, contract.ErrPrecondition, "table outside [-1, 1]")

	d, err := NewElastic(e, 1)
	require.NoError(t, err)
	assert.Equal(t, -1.0, d.LowerBound())
	assert.Equal(t, 1.0, d.UpperBound())
	assert.Equal(t, 1.0, d.MaxUpperBound())
}

func TestElasticSamplesStayBelowCutoff(t *testing.T) {
	src := rng.New(42)
	for _, policy := range []interp.TwoD{interp.LinLinLog, interp.LogLogCosLog} {
		for _, g := range allGridPolicies {
			e := newAngularEngine(t, WithGrid(g), WithInterp(policy))
			d, err := NewElastic(e, 0.9)
			require.NoError(t, err)

			for i := 0; i < 2000; i++ {
				energy := 1e-3 * (1 + 9999*src.Float64())
				mu := d.Sample(energy, src)
				require.True(t, mu >= d.LowerBound() && mu <= d.UpperBound(),
					"%v %v: mu %g at E=%g", policy, g, mu, energy)

				mu = d.SampleWithRandomNumber(energy, src.Float64())
				require.True(t, mu >= d.LowerBound() && mu <= d.UpperBound())
			}
		}
	}
}

func TestElasticCutoffRatio(t *testing.T) {
	e := newAngularEngine(t, WithGrid(Direct))
	d, err := NewElastic(e, 0.9)
	require.NoError(t, err)

	table := e.Secondary(1)
	assert.InDelta(t, table.EvaluateCDF(0.9), d.CutoffRatio(1e-1), 1e-15)
	assert.Equal(t, 0.0, d.CutoffRatio(100))

	full, err := NewElastic(e, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, full.CutoffRatio(0.5))
}

func TestElasticRenormalizesBelowCutoff(t *testing.T) {
	e := newAngularEngine(t, WithGrid(Direct))
	d, err := NewElastic(e, 0.9)
	require.NoError(t, err)

	const energy = 0.5
	assert.Equal(t, 0.0, d.EvaluatePDF(energy, 0.95))
	assert.Equal(t, 0.0, d.Evaluate(energy, 0.95))
	assert.Equal(t, 1.0, d.EvaluateCDF(energy, 0.95))
	assert.InDelta(t, 1.0, d.EvaluateCDF(energy, 0.9), 1e-12)

	const n = 5000
	sum := 0.0
	prev := d.EvaluatePDF(energy, -1)
	for i := 1; i <= n; i++ {
		mu := -1 + 1.9*float64(i)/n
		cur := d.EvaluatePDF(energy, mu)
		sum += 0.5 * (prev + cur) * 1.9 / n
		prev = cur
	}
	assert.InDelta(t, 1.0, sum, 1e-3)
}

func TestElasticSubrangeUsesSmallerLimit(t *testing.T) {
	e := newAngularEngine(t)
	d, err := NewElastic(e, 0.9)
	require.NoError(t, err)

	src := rng.New(5)
	for i := 0; i < 500; i++ {
		mu := d.SampleInSubrange(0.2, src, 0.5)
		require.LessOrEqual(t, mu, 0.5)
		mu = d.SampleInSubrange(0.2, src, 2)
		require.LessOrEqual(t, mu, 0.9)
	}
}

func TestElasticHybridTables(t *testing.T) {
	build := func(eta float64) tabular.Distribution {
		disc, err := tabular.NewDiscrete([]float64{0.95, 0.99}, []float64{1, 3})
		require.NoError(t, err)
		h, err := tabular.NewHybrid(forwardPeaked(t, eta), disc, 0.9, 0.7)
		require.NoError(t, err)
		return h
	}
	e, err := New([]float64{1e-3, 1}, []tabular.Distribution{build(0.5), build(0.01)},
		WithGrid(Correlated), WithInterp(interp.LinLinLog))
	require.NoError(t, err)
	d, err := NewElastic(e, 1)
	require.NoError(t, err)

	src := rng.New(9)
	discrete := 0
	for i := 0; i < 1000; i++ {
		mu := d.Sample(0.03, src)
		require.True(t, mu >= -1 && mu <= 1)
		if mu > 0.9 {
			discrete++
		}
	}
	assert.InDelta(t, 300, discrete, 60)
}
