package numeric

import (
	"strings"

	"github.com/mbd888/numerics/pkg/locale"
)

// Percent formats a number followed by "%". The sign is left off while the
// user is typing so it does not get in the way of the next keystroke; it is
// added on blur and on programmatic updates. Rounding defaults to half up.
type Percent struct {
	number numberFormat
}

// NewPercent returns a percent formatter for the first of locales.
func NewPercent(locales locale.Tags, opts FloatOptions) (*Percent, error) {
	nf, err := newNumberFormat(locales, opts, RoundHalfUp)
	if err != nil {
		return nil, err
	}
	return &Percent{number: nf}, nil
}

// MustPercent is like NewPercent but panics on a configuration error.
func MustPercent(locales locale.Tags, opts FloatOptions) *Percent {
	p, err := NewPercent(locales, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// Format renders value as a float and appends "%" unless the user is
// still typing.
func (p *Percent) Format(value, previous string, ctx Context) string {
	v := p.number.format(value, strings.TrimSuffix(previous, "%"), ctx.Trigger)
	if v != "" && !ctx.UserKeyed {
		return v + "%"
	}
	return v
}
