package particle

import (
	"fmt"
	"strings"
)

// Type identifies the particle species being transported.
type Type int

const (
	Photon Type = iota
	Electron
	Positron
	AdjointPhoton
	AdjointElectron
)

var typeNames = map[Type]string{
	Photon:          "photon",
	Electron:        "electron",
	Positron:        "positron",
	AdjointPhoton:   "adjoint_photon",
	AdjointElectron: "adjoint_electron",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// IsAdjoint reports whether t is transported backward in energy.
func (t Type) IsAdjoint() bool {
	return t == AdjointPhoton || t == AdjointElectron
}

// ParseType parses a species name as printed by String.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("particle: unknown type %q", s)
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
