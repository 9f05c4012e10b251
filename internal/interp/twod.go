package interp

import (
	"fmt"
	"strings"
)

// TwoD names the processing of the dependent value (Z), the secondary
// variable (Y) and the primary variable (X).
type TwoD struct {
	Z Kind
	Y Kind
	X Kind
}

var (
	LinLinLin    = TwoD{Lin, Lin, Lin}
	LinLinLog    = TwoD{Lin, Lin, Log}
	LinLogLin    = TwoD{Lin, Log, Lin}
	LinLogLog    = TwoD{Lin, Log, Log}
	LogLinLin    = TwoD{Log, Lin, Lin}
	LogLinLog    = TwoD{Log, Lin, Log}
	LogLogLin    = TwoD{Log, Log, Lin}
	LogLogLog    = TwoD{Log, Log, Log}
	LinLogCosLin = TwoD{Lin, LogCos, Lin}
	LinLogCosLog = TwoD{Lin, LogCos, Log}
	LogLogCosLin = TwoD{Log, LogCos, Lin}
	LogLogCosLog = TwoD{Log, LogCos, Log}
)

var twoDPolicies = []TwoD{
	LinLinLin, LinLinLog, LinLogLin, LinLogLog,
	LogLinLin, LogLinLog, LogLogLin, LogLogLog,
	LinLogCosLin, LinLogCosLog, LogLogCosLin, LogLogCosLog,
}

func (p TwoD) String() string {
	return p.Z.String() + p.Y.String() + p.X.String()
}

// CDFPolicy returns the policy used to interpolate cumulative values. The
// dependent processing is always linear so CDFs stay monotonic; the secondary
// and primary processing carry over (Lin×Lin→LinLinLin, Lin×Log→LinLinLog,
// Log×Lin→LinLogLin, Log×Log→LinLogLog).
func (p TwoD) CDFPolicy() TwoD {
	return TwoD{Z: Lin, Y: p.Y, X: p.X}
}

// ParseTwoD parses a policy name such as "LogLogCosLog". Matching is case
// insensitive.
func ParseTwoD(s string) (TwoD, error) {
	for _, p := range twoDPolicies {
		if strings.EqualFold(p.String(), s) {
			return p, nil
		}
	}
	return TwoD{}, fmt.Errorf("interp: unknown two-dimensional policy %q", s)
}

// TwoDNames lists the supported policy names.
func TwoDNames() []string {
	names := make([]string, len(twoDPolicies))
	for i, p := range twoDPolicies {
		names[i] = p.String()
	}
	return names
}

// MarshalText implements encoding.TextMarshaler.
func (p TwoD) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *TwoD) UnmarshalText(text []byte) error {
	parsed, err := ParseTwoD(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
