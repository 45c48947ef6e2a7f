package numeric

import (
	"fmt"
	"strings"

	"gopkg.in/inf.v0"
)

// RoundingMode selects how digits beyond the retained precision are resolved.
// The zero value lets each formatter pick its default.
type RoundingMode int

const (
	RoundDefault  RoundingMode = iota // formatter's choice
	RoundDown                         // toward zero
	RoundUp                           // away from zero
	RoundHalfUp                       // nearest, ties away from zero
	RoundHalfDown                     // nearest, ties toward zero
	RoundHalfEven                     // nearest, ties to even
	RoundCeiling                      // toward +inf
	RoundFloor                        // toward -inf
)

var roundingNames = map[RoundingMode]string{
	RoundDefault:  "default",
	RoundDown:     "down",
	RoundUp:       "up",
	RoundHalfUp:   "half_up",
	RoundHalfDown: "half_down",
	RoundHalfEven: "half_even",
	RoundCeiling:  "ceiling",
	RoundFloor:    "floor",
}

func (m RoundingMode) String() string {
	if s, ok := roundingNames[m]; ok {
		return s
	}
	return fmt.Sprintf("RoundingMode(%d)", int(m))
}

// ParseRoundingMode parses the names returned by RoundingMode.String. An
// empty string is RoundDefault.
func ParseRoundingMode(s string) (RoundingMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoundDefault, nil
	}
	s = strings.ReplaceAll(s, "-", "_")
	for m, name := range roundingNames {
		if name == s {
			return m, nil
		}
	}
	return RoundDefault, fmt.Errorf("numeric: unknown rounding mode %q", s)
}

// or returns fallback when m is RoundDefault.
func (m RoundingMode) or(fallback RoundingMode) RoundingMode {
	if m == RoundDefault {
		return fallback
	}
	return m
}

func (m RoundingMode) rounder() inf.Rounder {
	switch m {
	case RoundUp:
		return inf.RoundUp
	case RoundHalfUp:
		return inf.RoundHalfUp
	case RoundHalfDown:
		return inf.RoundHalfDown
	case RoundHalfEven:
		return inf.RoundHalfEven
	case RoundCeiling:
		return inf.RoundCeil
	case RoundFloor:
		return inf.RoundFloor
	default:
		return inf.RoundDown
	}
}

func (m RoundingMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *RoundingMode) UnmarshalText(b []byte) error {
	v, err := ParseRoundingMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
