package properties

import (
	"sort"

	"github.com/san-kum/radsim/internal/bivariate"
	"github.com/san-kum/radsim/internal/interp"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/scatter"
)

// Presets are named variations of Default.
var Presets = map[string]func(*Properties){
	"default": func(*Properties) {},
	"decoupled": func(p *Properties) {
		p.Electron.ElasticMode = Decoupled
	},
	"hybrid": func(p *Properties) {
		p.Electron.ElasticMode = Hybrid
		p.Electron.CutoffAngleCosine = 0.9
	},
	"moment-preserving": func(p *Properties) {
		p.Electron.ElasticMode = MomentPreserving
		p.Electron.CutoffAngleCosine = 0.9
	},
	"cutoff": func(p *Properties) {
		p.Electron.ElasticMode = Cutoff
		p.Electron.CutoffAngleCosine = 0.9
	},
	"positron": func(p *Properties) {
		p.Particle = particle.Positron
		p.Electron.BremsstrahlungAngular = scatter.Dipole
	},
	"lin": func(p *Properties) {
		p.Electron.Interp = interp.LinLinLin
		p.Electron.Grid = bivariate.Correlated
	},
	"adjoint": func(p *Properties) {
		p.Particle = particle.AdjointElectron
		p.Energy = 1e-2
		p.Adjoint.CriticalLineEnergies = []float64{0.05, 0.1, 0.5}
	},
}

// GetPreset returns a fresh Properties for the named preset, or nil.
func GetPreset(name string) *Properties {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	p := Default()
	apply(p)
	return p
}

// ListPresets returns the preset names in order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
