package particle

import (
	"fmt"
	"strings"
)

// Subshell is an atomic subshell, numbered with ENDF designators.
type Subshell int

const (
	InvalidSubshell Subshell = 0
	K               Subshell = 1
	L1              Subshell = 3
	L2              Subshell = 5
	L3              Subshell = 6
	M1              Subshell = 8
	M2              Subshell = 10
	M3              Subshell = 11
	M4              Subshell = 13
	M5              Subshell = 14
	N1              Subshell = 16
	N2              Subshell = 18
	N3              Subshell = 19
	N4              Subshell = 21
	N5              Subshell = 22
	N6              Subshell = 24
	N7              Subshell = 25
	O1              Subshell = 27
	O2              Subshell = 29
	O3              Subshell = 30
	O4              Subshell = 32
	O5              Subshell = 33
	O6              Subshell = 35
	O7              Subshell = 36
	P1              Subshell = 41
	P2              Subshell = 43
	P3              Subshell = 44
	Q1              Subshell = 58
	UnknownSubshell Subshell = 100
)

var subshellNames = map[Subshell]string{
	InvalidSubshell: "invalid", UnknownSubshell: "unknown",
	K: "K", L1: "L1", L2: "L2", L3: "L3",
	M1: "M1", M2: "M2", M3: "M3", M4: "M4", M5: "M5",
	N1: "N1", N2: "N2", N3: "N3", N4: "N4", N5: "N5", N6: "N6", N7: "N7",
	O1: "O1", O2: "O2", O3: "O3", O4: "O4", O5: "O5", O6: "O6", O7: "O7",
	P1: "P1", P2: "P2", P3: "P3", Q1: "Q1",
}

func (s Subshell) String() string {
	if name, ok := subshellNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Subshell(%d)", int(s))
}

// IsReal reports whether s names an actual subshell rather than a marker.
func (s Subshell) IsReal() bool {
	_, ok := subshellNames[s]
	return ok && s != InvalidSubshell && s != UnknownSubshell
}

// SubshellFromENDF converts an ENDF designator. Unrecognized designators map
// to InvalidSubshell.
func SubshellFromENDF(designator int) Subshell {
	s := Subshell(designator)
	if _, ok := subshellNames[s]; ok {
		return s
	}
	return InvalidSubshell
}

// ParseSubshell parses a name such as "L3".
func ParseSubshell(name string) (Subshell, error) {
	for s, n := range subshellNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return InvalidSubshell, fmt.Errorf("particle: unknown subshell %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Subshell) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Subshell) UnmarshalText(text []byte) error {
	parsed, err := ParseSubshell(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
