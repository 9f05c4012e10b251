package dataset

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/scatter"
)

const (
	// classical electron radius squared in barns
	electronRadius2 = 0.079407877

	// SyntheticMinEnergy and SyntheticMaxEnergy bound the synthetic grid.
	SyntheticMinEnergy = 1e-5
	SyntheticMaxEnergy = 1e5

	// HybridCutoffAngleCosine is the cutoff the synthetic moment preserving
	// data is generated for.
	HybridCutoffAngleCosine = 0.9

	pointsPerDecade      = 10
	tableStride          = 5
	minPhotonEnergy      = 1e-7
	minKnockOnEnergy     = 1e-8
	anglePointsPerDecade = 8
)

var symbols = strings.Fields(`H He Li Be B C N O F Ne Na Mg Al Si P S Cl Ar K Ca
Sc Ti V Cr Mn Fe Co Ni Cu Zn Ga Ge As Se Br Kr Rb Sr Y Zr Nb Mo Tc Ru Rh Pd Ag
Cd In Sn Sb Te I Xe Cs Ba La Ce Pr Nd Pm Sm Eu Gd Tb Dy Ho Er Tm Yb Lu Hf Ta W
Re Os Ir Pt Au Hg Tl Pb Bi Po At Rn Fr Ra Ac Th Pa U`)

// Symbol returns the chemical symbol for z, or "Z<z>" beyond uranium.
func Symbol(z int) string {
	if z >= 1 && z <= len(symbols) {
		return symbols[z-1]
	}
	return fmt.Sprintf("Z%d", z)
}

// AtomicNumber looks up a chemical symbol.
func AtomicNumber(symbol string) (int, error) {
	for i, s := range symbols {
		if strings.EqualFold(s, symbol) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("dataset: unknown element %q", symbol)
}

// Synthetic builds a complete data set for atomic number z from closed-form
// approximations: screened Rutherford elastic scattering, a 1/k
// bremsstrahlung spectrum, Moller-like knock-on spectra with hydrogenic
// binding energies, and fluorescence yields that grow as Z^4.
func Synthetic(z int) (*Electroatom, error) {
	if z < 1 || z > len(symbols) {
		return nil, malformed("atomic number %d outside [1, %d]", z, len(symbols))
	}
	rutherford, err := scatter.NewScreenedRutherfordElastic(z, scatter.MuPeak, true)
	if err != nil {
		return nil, err
	}

	s := &synth{
		z:        z,
		energies: logspace(SyntheticMinEnergy, SyntheticMaxEnergy, 10*pointsPerDecade+1),
		eta:      rutherford.MoliereScreeningConstant,
	}
	for i := 0; i < len(s.energies); i += tableStride {
		s.tables = append(s.tables, s.energies[i])
	}
	s.shells = shellsFor(z)

	a := &Electroatom{
		Symbol:   Symbol(z),
		Z:        z,
		Energies: s.energies,
	}
	a.Elastic = s.elastic()
	a.Excitation = s.excitation()
	a.Bremsstrahlung = s.bremsstrahlung()
	a.Subshells = s.subshells()
	a.Relaxation = s.relaxation()
	a.Adjoint = Adjoint{
		Bremsstrahlung: s.adjointBremsstrahlung(),
		Excitation:     a.Excitation,
	}
	return a, a.Validate()
}

type synth struct {
	z        int
	energies []float64
	tables   []float64
	shells   []shell
	eta      func(float64) float64
}

type shell struct {
	id        particle.Subshell
	occupancy float64
	binding   float64
	yield     float64
}

func (s *synth) crossSection(threshold int, f func(float64) float64) CrossSection {
	values := make([]float64, 0, len(s.energies)-threshold)
	for _, e := range s.energies[threshold:] {
		values = append(values, math.Max(f(e), 0))
	}
	return CrossSection{Threshold: threshold, Values: values}
}

func kinematics(energy float64) (beta2, p2 float64) {
	tau := energy / scatter.ElectronRestMass
	p2 = tau * (tau + 2)
	return p2 / ((tau + 1) * (tau + 1)), p2
}

// forwardCDF is the normalized CDF of 1/(1+eta-mu)^2 on [-1, 1].
func forwardCDF(eta, mu float64) float64 {
	return (1/(1+eta-mu) - 1/(2+eta)) / (1/eta - 1/(2+eta))
}

func (s *synth) elastic() Elastic {
	zf := float64(s.z)
	total := func(e float64) float64 {
		beta2, p2 := kinematics(e)
		eta := s.eta(e)
		return 2 * math.Pi * electronRadius2 * zf * (zf + 1) / (beta2 * p2) * 2 / (eta * (2 + eta))
	}

	var el Elastic
	el.Total = s.crossSection(0, total)
	el.Cutoff = s.crossSection(0, func(e float64) float64 {
		return total(e) * forwardCDF(s.eta(e), scatter.MuPeak)
	})
	for _, e := range s.tables {
		el.Angular = append(el.Angular, forwardTable(e, s.eta(e)))
	}

	c := HybridCutoffAngleCosine
	el.MomentPreserving = MomentPreserving{
		CutoffAngleCosine: c,
		CrossSection: s.crossSection(0, func(e float64) float64 {
			return total(e) * (1 - forwardCDF(s.eta(e), c))
		}),
	}
	for _, e := range s.tables {
		points, weights := gaussTail(s.eta(e), 1-c)
		el.MomentPreserving.Angles = append(el.MomentPreserving.Angles, DiscreteTable{
			Energy:  e,
			Points:  points,
			Weights: weights,
		})
	}
	return el
}

// forwardTable tabulates 1/(1+eta-mu)^2 on a grid that is geometric in 1-mu
// near the forward peak and linear elsewhere.
func forwardTable(energy, eta float64) Table {
	xMin := math.Max(math.Min(eta/10, 1e-3), 1e-12)
	var mu []float64
	for i := 0; i < 19; i++ {
		mu = append(mu, -1+0.1*float64(i))
	}
	n := int(math.Ceil(math.Log10(0.1/xMin)*anglePointsPerDecade)) + 1
	for _, x := range logspace(0.1, xMin, n) {
		mu = append(mu, 1-x)
	}
	mu = append(mu, 1)

	t := Table{Energy: energy}
	for _, m := range mu {
		if k := len(t.X); k > 0 && m <= t.X[k-1] {
			continue
		}
		t.X = append(t.X, m)
		d := 1 + eta - m
		t.PDF = append(t.PDF, 1/(d*d))
	}
	return t
}

// gaussTail returns the two-point quadrature of 1/(eta+x)^2 on [0, a] in
// x = 1-mu. It preserves the first three moments of the tail.
func gaussTail(eta, a float64) (points, weights []float64) {
	l := math.Log((eta + a) / eta)
	inv := 1/eta - 1/(eta+a)
	m0 := inv
	m1 := l - eta*inv
	m2 := a - 2*eta*l + eta*eta*inv
	m3 := ((eta+a)*(eta+a)-eta*eta)/2 - 3*eta*a + 3*eta*eta*l - eta*eta*eta*inv
	m1, m2, m3 = m1/m0, m2/m0, m3/m0

	single := func() ([]float64, []float64) {
		return []float64{1 - math.Min(math.Max(m1, 0), a)}, []float64{1}
	}
	variance := m2 - m1*m1
	if !(variance > 0) {
		return single()
	}
	p := (m1*m2 - m3) / variance
	q := -m2 - p*m1
	disc := p*p - 4*q
	if !(disc > 0) {
		return single()
	}
	x2 := (-p + math.Sqrt(disc)) / 2
	x1 := q / x2
	if !(x1 > 0 && x2 > x1 && x2 < a) {
		return single()
	}
	w2 := (m1 - x1) / (x2 - x1)
	mu1, mu2 := 1-x2, 1-x1
	if !(mu2 > mu1 && mu2 < 1) {
		return single()
	}
	return []float64{mu1, mu2}, []float64{w2, 1 - w2}
}

func meanExcitation(z int) float64 {
	zf := float64(z)
	return 9.76e-6*zf + 58.8e-6*math.Pow(zf, -0.19)
}

func (s *synth) excitation() Excitation {
	zf := float64(s.z)
	i := meanExcitation(s.z)
	ex := Excitation{
		CrossSection: s.crossSection(0, func(e float64) float64 {
			beta2, _ := kinematics(e)
			return 2 * math.Pi * electronRadius2 * zf * (scatter.ElectronRestMass / i) * math.Log1p(e/i) / beta2
		}),
		LossEnergies: append([]float64(nil), s.energies...),
	}
	for _, e := range s.energies {
		ex.Loss = append(ex.Loss, 0.5*i*e/(e+i))
	}
	return ex
}

func (s *synth) bremsstrahlungCrossSection(e float64) float64 {
	zf := float64(s.z)
	screening := math.Log(183 / math.Cbrt(zf))
	return 4 * scatter.FineStructure * electronRadius2 * zf * (zf + 1) * screening * math.Log(e/minPhotonEnergy) / 10
}

func (s *synth) bremsstrahlung() Bremsstrahlung {
	b := Bremsstrahlung{CrossSection: s.crossSection(0, s.bremsstrahlungCrossSection)}
	for _, e := range s.tables {
		b.Spectra = append(b.Spectra, powerTable(e, minPhotonEnergy, e, 1))
		beta2, _ := kinematics(e)
		beta := math.Sqrt(beta2)
		b.Angular = append(b.Angular, forwardTable(e, (1-beta)/beta))
	}
	return b
}

// powerTable tabulates x^-power on a logarithmic grid.
func powerTable(energy, lo, hi, power float64) Table {
	t := Table{Energy: energy, X: logspace(lo, hi, 25)}
	for _, x := range t.X {
		t.PDF = append(t.PDF, math.Pow(x, -power))
	}
	return t
}

func (s *synth) adjointBremsstrahlung() AdjointBremsstrahlung {
	b := AdjointBremsstrahlung{CrossSection: s.crossSection(0, s.bremsstrahlungCrossSection)}
	for _, e := range s.tables {
		b.Gain = append(b.Gain, powerTable(e, minPhotonEnergy, 10*e, 1))
	}
	return b
}

var shellOrder = []struct {
	id       particle.Subshell
	capacity float64
	n        float64
	screen   float64
	split    float64
}{
	{particle.K, 2, 1, 1, 1},
	{particle.L1, 2, 2, 7.4, 1},
	{particle.L2, 2, 2, 7.4, 0.92},
	{particle.L3, 4, 2, 7.4, 0.8},
	{particle.M1, 2, 3, 13, 1},
	{particle.M2, 2, 3, 13, 0.93},
	{particle.M3, 4, 3, 13, 0.88},
	{particle.M4, 4, 3, 13, 0.7},
	{particle.M5, 6, 3, 13, 0.68},
}

// shellsFor fills shells in order with hydrogenic binding energies. Shells
// whose binding falls below 1 eV are dropped.
func shellsFor(z int) []shell {
	zf := float64(z)
	remaining := zf
	var out []shell
	for _, o := range shellOrder {
		if remaining <= 0 {
			break
		}
		occ := math.Min(o.capacity, remaining)
		remaining -= occ
		effective := math.Max(zf-o.screen, 1)
		binding := 13.6057e-6 * effective * effective / (o.n * o.n) * o.split
		if binding < 1e-6 {
			continue
		}
		z4 := zf * zf * zf * zf
		var scale float64
		switch o.n {
		case 1:
			scale = 1.12e6
		case 2:
			scale = 8.9e7
		default:
			scale = 1.2e9
		}
		out = append(out, shell{id: o.id, occupancy: occ, binding: binding, yield: z4 / (z4 + scale)})
	}
	return out
}

func (s *synth) subshells() []Subshell {
	var out []Subshell
	for _, sh := range s.shells {
		threshold := 0
		for threshold < len(s.energies) && s.energies[threshold] <= 1.01*sh.binding {
			threshold++
		}
		if threshold >= len(s.energies)-1 {
			continue
		}
		b := sh.binding
		occ := sh.occupancy
		ss := Subshell{
			Subshell:      sh.id,
			BindingEnergy: b,
			Occupancy:     occ,
			CrossSection: s.crossSection(threshold, func(e float64) float64 {
				beta2, _ := kinematics(e)
				return 2 * math.Pi * electronRadius2 * occ * scatter.ElectronRestMass / beta2 * (1/b - 1/e)
			}),
		}
		energies := []float64{s.energies[threshold]}
		for _, e := range s.tables {
			if e > energies[0] {
				energies = append(energies, e)
			}
		}
		for _, e := range energies {
			hi := (e - b) / 2
			lo := math.Min(minKnockOnEnergy, hi/10)
			ss.KnockOn = append(ss.KnockOn, powerTable(e, lo, hi, 2))
		}
		out = append(out, ss)
	}
	return out
}

// relaxation fills each vacancy from the shells bound less tightly than it:
// radiatively in proportion to occupancy and non-radiatively from pairs of
// the next few shells when energetically allowed.
func (s *synth) relaxation() []Relaxation {
	var out []Relaxation
	for i, v := range s.shells {
		outer := s.shells[i+1:]
		if len(outer) == 0 {
			continue
		}
		var occupancy float64
		for _, o := range outer {
			occupancy += o.occupancy
		}

		var radiative, auger []Transition
		for _, o := range outer {
			radiative = append(radiative, Transition{
				Primary:   o.id,
				Secondary: particle.InvalidSubshell,
				Energy:    v.binding - o.binding,
				Weight:    v.yield * o.occupancy / occupancy,
			})
		}
		near := outer[:min(3, len(outer))]
		for a := range near {
			for b := a; b < len(near); b++ {
				e := v.binding - near[a].binding - near[b].binding
				if e <= 0 {
					continue
				}
				auger = append(auger, Transition{
					Primary:   near[a].id,
					Secondary: near[b].id,
					Energy:    e,
				})
			}
		}
		if len(auger) == 0 {
			for k := range radiative {
				radiative[k].Weight = outer[k].occupancy / occupancy
			}
		}
		for k := range auger {
			auger[k].Weight = (1 - v.yield) / float64(len(auger))
		}
		out = append(out, Relaxation{Vacancy: v.id, Transitions: append(radiative, auger...)})
	}
	return out
}

// logspace returns n points from lo to hi evenly spaced in log. It works for
// descending ranges too.
func logspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	l0, l1 := math.Log10(lo), math.Log10(hi)
	for i := range out {
		out[i] = math.Pow(10, l0+(l1-l0)*float64(i)/float64(n-1))
	}
	out[0], out[n-1] = lo, hi
	return out
}
