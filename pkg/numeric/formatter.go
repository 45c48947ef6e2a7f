package numeric

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mbd888/numerics/pkg/locale"
	"gopkg.in/inf.v0"
)

// MaxDecimalPlaces is the number of fraction digits kept when a formatter has
// no decimal place limit.
const MaxDecimalPlaces = 20

// Configuration errors returned by the formatter constructors.
var (
	ErrInvalidRange  = errors.New("numeric: max is less than min")
	ErrInvalidBound  = errors.New("numeric: bound is not a number")
	ErrInvalidPlaces = errors.New("numeric: decimal places must not be negative")
)

// Trigger names the event that caused a format request.
type Trigger int

const (
	TriggerNone Trigger = iota
	TriggerChange
	TriggerBlur
)

func (t Trigger) String() string {
	switch t {
	case TriggerChange:
		return "change"
	case TriggerBlur:
		return "blur"
	}
	return "none"
}

// ParseTrigger parses "change", "blur" or "" (none).
func ParseTrigger(s string) (Trigger, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return TriggerNone, nil
	case "change":
		return TriggerChange, nil
	case "blur":
		return TriggerBlur, nil
	}
	return TriggerNone, fmt.Errorf("numeric: unknown trigger %q", s)
}

// Context describes the circumstances of a format request.
type Context struct {
	Trigger Trigger
	// UserKeyed is true when the value changed because the user typed a key.
	UserKeyed bool
}

// Formatter renders a canonical numeric string for display. previous is the
// display string shown before this request.
type Formatter interface {
	Format(value, previous string, ctx Context) string
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(value, previous string, ctx Context) string

// Format calls fn(value, previous, ctx).
func (fn FormatterFunc) Format(value, previous string, ctx Context) string {
	return fn(value, previous, ctx)
}

// FloatOptions configure the float, integer and percent formatters.
type FloatOptions struct {
	// DecimalPlaces caps the fraction digits. Nil means MaxDecimalPlaces and
	// a trailing separator is always retained while typing.
	DecimalPlaces *int
	Rounding      RoundingMode
	// Min and Max are optional bounds; empty means unbounded. Exponent
	// notation such as "1e3" or "-2.5E-2" is accepted.
	Min string
	Max string
}

// Places returns a pointer to n, for FloatOptions.DecimalPlaces.
func Places(n int) *int {
	return &n
}

type bounds struct {
	min *inf.Dec
	max *inf.Dec
}

func newBounds(lo, hi string) (bounds, error) {
	var (
		b   bounds
		err error
	)
	if b.min, err = parseBound("min", lo); err != nil {
		return bounds{}, err
	}
	if b.max, err = parseBound("max", hi); err != nil {
		return bounds{}, err
	}
	if b.min != nil && b.max != nil && b.max.Cmp(b.min) < 0 {
		return bounds{}, fmt.Errorf("%w: max %s, min %s", ErrInvalidRange, b.max, b.min)
	}
	return b, nil
}

func parseBound(name, s string) (*inf.Dec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, ok := parseDecimal(s)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrInvalidBound, name, s)
	}
	return d, nil
}

// maxExponent bounds the exponent accepted in a bound such as "1e3".
const maxExponent = 1000

// parseDecimal is inf.Dec.SetString plus an optional e/E exponent.
func parseDecimal(s string) (*inf.Dec, bool) {
	mantissa, exp := s, 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		n, err := strconv.Atoi(s[i+1:])
		if err != nil || n < -maxExponent || n > maxExponent {
			return nil, false
		}
		mantissa, exp = s[:i], n
	}
	d, ok := new(inf.Dec).SetString(mantissa)
	if !ok {
		return nil, false
	}
	// value = unscaled * 10^-scale
	return d.SetScale(d.Scale() - inf.Scale(exp)), true
}

// negativeAllowed reports whether a "-" may be shown.
func (b bounds) negativeAllowed() bool {
	return b.min == nil || b.min.Sign() < 0
}

// plusAllowed reports whether a bare "+" may be shown.
func (b bounds) plusAllowed() bool {
	return b.max == nil || b.max.Sign() < 0
}

func (b bounds) contains(d *inf.Dec) bool {
	if b.min != nil && d.Cmp(b.min) < 0 {
		return false
	}
	if b.max != nil && b.max.Cmp(d) < 0 {
		return false
	}
	return true
}

// numberFormat is the shared rendering algorithm behind every numeric
// formatter.
type numberFormat struct {
	locale   string
	places   *int
	rounding RoundingMode
	bounds   bounds
}

func newNumberFormat(locales locale.Tags, opts FloatOptions, fallback RoundingMode) (numberFormat, error) {
	if opts.DecimalPlaces != nil && *opts.DecimalPlaces < 0 {
		return numberFormat{}, fmt.Errorf("%w: %d", ErrInvalidPlaces, *opts.DecimalPlaces)
	}
	b, err := newBounds(opts.Min, opts.Max)
	if err != nil {
		return numberFormat{}, err
	}
	nf := numberFormat{
		locale:   locales.Primary(),
		rounding: opts.Rounding.or(fallback),
		bounds:   b,
	}
	if opts.DecimalPlaces != nil {
		places := *opts.DecimalPlaces
		nf.places = &places
	}
	return nf, nil
}

func (nf numberFormat) maxPlaces() int {
	if nf.places == nil {
		return MaxDecimalPlaces
	}
	return *nf.places
}

func (nf numberFormat) format(value, previous string, trigger Trigger) string {
	safe := strings.TrimSpace(value)
	if safe == "" {
		return ""
	}

	switch safe {
	case "-":
		if nf.bounds.negativeAllowed() {
			return safe
		}
		return ""
	case "+":
		if nf.bounds.plusAllowed() {
			return safe
		}
		return ""
	}

	num, ok := new(inf.Dec).SetString(safe)
	if !ok {
		return safe
	}

	// Out of range edits revert to what was shown before.
	if !nf.bounds.contains(num) {
		return previous
	}

	places := fractionLength(safe)
	if limit := nf.maxPlaces(); places > limit {
		places = limit
	}

	symbols := locale.Lookup(nf.locale)
	rounded := new(inf.Dec).Round(num, inf.Scale(places), nf.rounding.rounder())
	formatted := render(rounded.String(), symbols)

	// Rounding to zero drops the sign of values like "-0.0".
	if sign := Sign(safe); sign != "" && Sign(formatted) == "" && nf.bounds.negativeAllowed() {
		formatted = sign + formatted
	}

	if strings.HasSuffix(safe, ".") && trigger != TriggerBlur && nf.maxPlaces() > 0 {
		formatted += symbols.DecimalSeparator
	}
	return formatted
}

// fractionLength counts the characters after the first ".".
func fractionLength(s string) int {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// render groups the integer digits of a canonical decimal string by three and
// swaps in the locale separators.
func render(canonical string, symbols locale.Data) string {
	sign := ""
	if strings.HasPrefix(canonical, "-") {
		sign, canonical = "-", canonical[1:]
	}
	integer, fraction, hasFraction := strings.Cut(canonical, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range integer {
		if i > 0 && (len(integer)-i)%3 == 0 {
			b.WriteString(symbols.GroupSeparator)
		}
		b.WriteRune(r)
	}
	if hasFraction {
		b.WriteString(symbols.DecimalSeparator)
		b.WriteString(fraction)
	}
	return b.String()
}
