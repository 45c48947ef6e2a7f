package numeric

import (
	"github.com/mbd888/numerics/pkg/locale"
)

// Float formats floating point numbers. Unless configured otherwise it rounds
// toward zero and keeps up to MaxDecimalPlaces fraction digits.
type Float struct {
	number numberFormat
}

// NewFloat returns a float formatter for the first of locales. It fails with
// ErrInvalidRange when opts.Max is less than opts.Min.
func NewFloat(locales locale.Tags, opts FloatOptions) (*Float, error) {
	nf, err := newNumberFormat(locales, opts, RoundDown)
	if err != nil {
		return nil, err
	}
	return &Float{number: nf}, nil
}

// MustFloat is like NewFloat but panics on a configuration error.
func MustFloat(locales locale.Tags, opts FloatOptions) *Float {
	f, err := NewFloat(locales, opts)
	if err != nil {
		panic(err)
	}
	return f
}

// NewInteger returns a formatter that truncates the fraction.
func NewInteger(locales locale.Tags) *Float {
	return MustFloat(locales, FloatOptions{DecimalPlaces: Places(0), Rounding: RoundDown})
}

// Format renders value in the formatter's locale, reverting to previous
// when value is out of range.
func (f *Float) Format(value, previous string, ctx Context) string {
	return f.number.format(value, previous, ctx.Trigger)
}

// Locale returns the locale whose separators the formatter uses.
func (f *Float) Locale() string {
	return f.number.locale
}
