package properties

import (
	"fmt"
	"strings"
)

// ElasticMode selects how elastic scattering is modelled.
type ElasticMode int

const (
	// Coupled samples the full tabulated distribution with a screened
	// Rutherford tail near mu = 1.
	Coupled ElasticMode = iota
	// Decoupled picks the cutoff or screened Rutherford distribution per
	// collision by the ratio of their cross sections.
	Decoupled
	// Hybrid mixes the cutoff distribution with moment preserving angles.
	Hybrid
	// Cutoff keeps only the tabulated distribution below the cutoff.
	Cutoff
	// Rutherford keeps only the screened Rutherford distribution above the
	// cutoff.
	Rutherford
	// MomentPreserving runs the cutoff distribution and the discrete moment
	// preserving angles as two separate reactions.
	MomentPreserving
)

var elasticModeNames = []string{"Coupled", "Decoupled", "Hybrid", "Cutoff", "Rutherford", "MomentPreserving"}

// NeedsCutoff reports whether the mode splits the angular range at the
// cutoff angle cosine.
func (m ElasticMode) NeedsCutoff() bool { return m == Hybrid || m == MomentPreserving }

func (m ElasticMode) String() string {
	if m >= 0 && int(m) < len(elasticModeNames) {
		return elasticModeNames[m]
	}
	return fmt.Sprintf("ElasticMode(%d)", int(m))
}

func ParseElasticMode(s string) (ElasticMode, error) {
	for i, name := range elasticModeNames {
		if strings.EqualFold(name, s) {
			return ElasticMode(i), nil
		}
	}
	return 0, fmt.Errorf("properties: unknown elastic mode %q (want one of %s)", s, strings.Join(elasticModeNames, ", "))
}

func (m ElasticMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ElasticMode) UnmarshalText(text []byte) error {
	parsed, err := ParseElasticMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
