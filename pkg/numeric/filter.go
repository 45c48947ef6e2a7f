package numeric

import (
	"fmt"

	"github.com/mbd888/numerics/pkg/locale"
)

// Filter reduces a raw string to the characters a field accepts. previous is
// the last accepted filtered value; it may be empty.
type Filter interface {
	Filter(next, previous string) string
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(next, previous string) string

// Filter calls fn(next, previous).
func (fn FilterFunc) Filter(next, previous string) string {
	return fn(next, previous)
}

var (
	// ToNumeric removes every character that is not a digit.
	ToNumeric Filter = FilterFunc(func(next, _ string) string {
		if next == "" {
			return ""
		}
		return ExtractDigits(next, nil)
	})

	// ToSignedFloat keeps a leading sign, the digits and the first "." which
	// is kept even when nothing follows it. Later separators are dropped.
	ToSignedFloat Filter = FilterFunc(func(next, _ string) string {
		return canonicalConverter.Convert(next, locale.Canonical)
	})

	// ToSignedNumeric keeps a leading sign and the digits.
	ToSignedNumeric Filter = FilterFunc(func(next, _ string) string {
		if next == "" {
			return ""
		}
		return Sign(next) + ExtractDigits(next, nil)
	})
)

// Filter names accepted by FilterByName.
const (
	FilterNumeric       = "numeric"
	FilterSignedFloat   = "signed_float"
	FilterSignedNumeric = "signed_numeric"
)

// FilterByName returns the filter registered under name.
func FilterByName(name string) (Filter, error) {
	switch name {
	case FilterNumeric:
		return ToNumeric, nil
	case FilterSignedFloat, "":
		return ToSignedFloat, nil
	case FilterSignedNumeric:
		return ToSignedNumeric, nil
	}
	return nil, fmt.Errorf("numeric: unknown filter %q", name)
}
