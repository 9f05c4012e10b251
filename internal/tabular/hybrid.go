package tabular

import (
	"math"

	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/rng"
)

// Hybrid mixes a continuous distribution restricted to values not above a
// cutoff with a discrete distribution above it. Mix is the probability of
// sampling the continuous part.
type Hybrid struct {
	cont      *Continuous
	disc      *Discrete
	cutoff    float64
	cutoffCDF float64
	mix       float64
}

var _ Distribution = (*Hybrid)(nil)

func NewHybrid(cont *Continuous, disc *Discrete, cutoff, mix float64) (*Hybrid, error) {
	if cont == nil || disc == nil {
		return nil, contract.Errorf("tabular: hybrid needs both parts")
	}
	if mix < 0 || mix > 1 || math.IsNaN(mix) {
		return nil, contract.Errorf("tabular: mixing probability %g outside [0, 1]", mix)
	}
	if cutoff <= cont.LowerBound() || cutoff > cont.UpperBound() {
		return nil, contract.Errorf("tabular: cutoff %g outside continuous range (%g, %g]", cutoff, cont.LowerBound(), cont.UpperBound())
	}
	if disc.LowerBound() < cutoff {
		return nil, contract.Errorf("tabular: discrete point %g below cutoff %g", disc.LowerBound(), cutoff)
	}
	h := &Hybrid{
		cont:      cont,
		disc:      disc,
		cutoff:    cutoff,
		cutoffCDF: cont.EvaluateCDF(cutoff),
		mix:       mix,
	}
	if h.cutoffCDF <= 0 && mix > 0 {
		return nil, contract.Errorf("tabular: continuous part has no probability below cutoff %g", cutoff)
	}
	return h, nil
}

// Mix returns the probability of sampling the continuous part.
func (h *Hybrid) Mix() float64 { return h.mix }

// Cutoff returns the upper edge of the continuous part.
func (h *Hybrid) Cutoff() float64 { return h.cutoff }

func (h *Hybrid) Evaluate(x float64) float64 {
	if x <= h.cutoff {
		return h.cont.Evaluate(x)
	}
	return h.disc.Evaluate(x)
}

func (h *Hybrid) EvaluatePDF(x float64) float64 {
	if x <= h.cutoff {
		if h.mix == 0 {
			return 0
		}
		return h.mix * h.cont.EvaluatePDF(x) / h.cutoffCDF
	}
	return (1 - h.mix) * h.disc.EvaluatePDF(x)
}

func (h *Hybrid) EvaluateCDF(x float64) float64 {
	if x <= h.cutoff {
		if h.mix == 0 {
			return 0
		}
		return h.mix * h.cont.EvaluateCDF(x) / h.cutoffCDF
	}
	return h.mix + (1-h.mix)*h.disc.EvaluateCDF(x)
}

func (h *Hybrid) sample(r float64) (float64, int) {
	if r < h.mix {
		x, bin := h.cont.invert(r / h.mix * h.cutoffCDF)
		return math.Min(x, h.cutoff), bin
	}
	u := 0.0
	if h.mix < 1 {
		u = (r - h.mix) / (1 - h.mix)
	}
	i := h.disc.SampleIndexWithRandomNumber(math.Min(u, 1))
	return h.disc.points[i], len(h.cont.x) - 1 + i
}

func (h *Hybrid) Sample(src rng.Source) float64 {
	x, _ := h.sample(src.Float64())
	return x
}

func (h *Hybrid) SampleAndRecordTrials(src rng.Source) (float64, int) {
	return h.Sample(src), 1
}

// SampleAndRecordBinIndex numbers the continuous bins first and the discrete
// points after them.
func (h *Hybrid) SampleAndRecordBinIndex(src rng.Source) (float64, int) {
	return h.sample(src.Float64())
}

func (h *Hybrid) SampleWithRandomNumber(r float64) float64 {
	checkRandom(r)
	x, _ := h.sample(r)
	return x
}

func (h *Hybrid) SampleInSubrange(src rng.Source, max float64) float64 {
	return h.SampleWithRandomNumberInSubrange(src.Float64(), max)
}

func (h *Hybrid) SampleWithRandomNumberInSubrange(r, max float64) float64 {
	checkRandom(r)
	contract.Require(max >= h.LowerBound(), "subrange max %g below lower bound %g", max, h.LowerBound())
	x, _ := h.sample(r * h.EvaluateCDF(max))
	return math.Min(x, max)
}

func (h *Hybrid) LowerBound() float64 { return h.cont.LowerBound() }

func (h *Hybrid) UpperBound() float64 {
	if h.mix == 1 {
		return h.cutoff
	}
	return h.disc.UpperBound()
}

func (h *Hybrid) IsContinuous() bool { return false }
