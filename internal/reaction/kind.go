package reaction

import (
	"fmt"
	"strings"
)

// Kind identifies the concrete reaction behind a Reaction value.
type Kind int

const (
	KindAtomicExcitation Kind = iota
	KindCutoffElastic
	KindCoupledElastic
	KindScreenedRutherfordElastic
	KindMomentPreservingElastic
	KindDecoupledElastic
	KindHybridElastic
	KindBremsstrahlung
	KindElectroionizationSubshell
)

var kindNames = []string{
	"AtomicExcitation",
	"CutoffElastic",
	"CoupledElastic",
	"ScreenedRutherfordElastic",
	"MomentPreservingElastic",
	"DecoupledElastic",
	"HybridElastic",
	"Bremsstrahlung",
	"ElectroionizationSubshell",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsElastic reports whether the reaction leaves the energy unchanged.
func (k Kind) IsElastic() bool {
	switch k {
	case KindCutoffElastic, KindCoupledElastic, KindScreenedRutherfordElastic,
		KindMomentPreservingElastic, KindDecoupledElastic, KindHybridElastic:
		return true
	}
	return false
}

func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("reaction: unknown kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
