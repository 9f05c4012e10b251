package dataset

import "math"

// Validate checks lengths and orderings. It does not check the physics.
func (a *Electroatom) Validate() error {
	if a.Z < 1 {
		return malformed("atomic number %d", a.Z)
	}
	if err := ascending("energy grid", a.Energies); err != nil {
		return err
	}
	if len(a.Energies) < 2 || a.Energies[0] <= 0 {
		return malformed("energy grid needs at least 2 positive points")
	}

	checks := []struct {
		name string
		xs   CrossSection
	}{
		{"elastic total", a.Elastic.Total},
		{"elastic cutoff", a.Elastic.Cutoff},
		{"excitation", a.Excitation.CrossSection},
		{"bremsstrahlung", a.Bremsstrahlung.CrossSection},
	}
	if len(a.Elastic.MomentPreserving.Angles) > 0 {
		checks = append(checks, struct {
			name string
			xs   CrossSection
		}{"moment preserving", a.Elastic.MomentPreserving.CrossSection})
	}
	for _, s := range a.Subshells {
		checks = append(checks, struct {
			name string
			xs   CrossSection
		}{s.Subshell.String() + " ionization", s.CrossSection})
	}
	if len(a.Adjoint.Bremsstrahlung.Gain) > 0 {
		checks = append(checks, struct {
			name string
			xs   CrossSection
		}{"adjoint bremsstrahlung", a.Adjoint.Bremsstrahlung.CrossSection})
	}
	for _, c := range checks {
		if err := a.checkCrossSection(c.name, c.xs); err != nil {
			return err
		}
	}

	tables := map[string][]Table{
		"elastic angular":      a.Elastic.Angular,
		"bremsstrahlung":       a.Bremsstrahlung.Spectra,
		"bremsstrahlung angle": a.Bremsstrahlung.Angular,
		"adjoint gain":         a.Adjoint.Bremsstrahlung.Gain,
	}
	for _, s := range a.Subshells {
		tables[s.Subshell.String()+" knock-on"] = s.KnockOn
	}
	for name, ts := range tables {
		if err := checkTables(name, ts); err != nil {
			return err
		}
	}
	if len(a.Elastic.Angular) == 0 || len(a.Bremsstrahlung.Spectra) == 0 {
		return malformed("missing elastic or bremsstrahlung tables")
	}

	if err := checkLoss("excitation", a.Excitation); err != nil {
		return err
	}
	if len(a.Adjoint.Excitation.Loss) > 0 {
		if err := checkLoss("adjoint excitation", a.Adjoint.Excitation); err != nil {
			return err
		}
	}

	mp := a.Elastic.MomentPreserving
	for i, t := range mp.Angles {
		if len(t.Points) == 0 || len(t.Points) != len(t.Weights) {
			return malformed("moment preserving table %d has %d points and %d weights", i, len(t.Points), len(t.Weights))
		}
		for _, mu := range t.Points {
			if mu <= mp.CutoffAngleCosine || mu > 1 {
				return malformed("moment preserving angle %g outside (%g, 1]", mu, mp.CutoffAngleCosine)
			}
		}
	}

	for _, r := range a.Relaxation {
		if len(r.Transitions) == 0 {
			return malformed("%v relaxation has no transitions", r.Vacancy)
		}
	}
	return nil
}

func (a *Electroatom) checkCrossSection(name string, xs CrossSection) error {
	if xs.Threshold < 0 || xs.Threshold >= len(a.Energies) {
		return malformed("%s threshold index %d", name, xs.Threshold)
	}
	if len(xs.Values) != len(a.Energies)-xs.Threshold {
		return malformed("%s has %d values for %d grid points", name, len(xs.Values), len(a.Energies)-xs.Threshold)
	}
	for _, v := range xs.Values {
		if !(v >= 0) || math.IsInf(v, 0) {
			return malformed("%s value %g", name, v)
		}
	}
	return nil
}

func checkTables(name string, ts []Table) error {
	for i, t := range ts {
		if i > 0 && t.Energy <= ts[i-1].Energy {
			return malformed("%s table energies not ascending at %d", name, i)
		}
		if len(t.X) < 2 || len(t.X) != len(t.PDF) {
			return malformed("%s table %d has %d points and %d values", name, i, len(t.X), len(t.PDF))
		}
		if err := ascending(name, t.X); err != nil {
			return err
		}
	}
	return nil
}

func checkLoss(name string, e Excitation) error {
	if len(e.LossEnergies) < 2 || len(e.LossEnergies) != len(e.Loss) {
		return malformed("%s loss has %d energies and %d values", name, len(e.LossEnergies), len(e.Loss))
	}
	return ascending(name+" loss", e.LossEnergies)
}

func ascending(name string, x []float64) error {
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return malformed("%s not strictly increasing at %d", name, i)
		}
	}
	return nil
}
