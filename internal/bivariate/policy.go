package bivariate

import (
	"fmt"
	"strings"
)

// GridPolicy selects how the two tables bracketing a primary value are
// combined.
type GridPolicy int

const (
	// Direct interpolates dependent values at equal secondary values and
	// samples one of the bracketing tables.
	Direct GridPolicy = iota
	// UnitBase rescales both tables onto a common unit interval before
	// interpolating, then samples one of them.
	UnitBase
	// Correlated matches secondary values at equal cumulative probability and
	// samples both tables with one random number.
	Correlated
	// UnitBaseCorrelated is Correlated on the unit-base scaled tables.
	UnitBaseCorrelated
)

var gridPolicyNames = []string{"Direct", "UnitBase", "Correlated", "UnitBaseCorrelated"}

func (g GridPolicy) String() string {
	if g >= 0 && int(g) < len(gridPolicyNames) {
		return gridPolicyNames[g]
	}
	return fmt.Sprintf("GridPolicy(%d)", int(g))
}

// IsCorrelated reports whether sampling uses a single shared random number.
func (g GridPolicy) IsCorrelated() bool {
	return g == Correlated || g == UnitBaseCorrelated
}

// IsUnitBase reports whether tables are rescaled to a unit interval.
func (g GridPolicy) IsUnitBase() bool {
	return g == UnitBase || g == UnitBaseCorrelated
}

// correlatedCounterpart is used when a stochastic policy is asked to sample
// with a caller-supplied random number.
func (g GridPolicy) correlatedCounterpart() GridPolicy {
	switch g {
	case Direct:
		return Correlated
	case UnitBase:
		return UnitBaseCorrelated
	default:
		return g
	}
}

// ParseGridPolicy parses a policy name, ignoring case.
func ParseGridPolicy(s string) (GridPolicy, error) {
	for i, name := range gridPolicyNames {
		if strings.EqualFold(name, s) {
			return GridPolicy(i), nil
		}
	}
	return 0, fmt.Errorf("bivariate: unknown grid policy %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (g GridPolicy) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *GridPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseGridPolicy(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
