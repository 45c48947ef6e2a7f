package numeric

import (
	"strings"

	"github.com/mbd888/numerics/pkg/locale"
)

// CurrencyOptions configure a Currency formatter.
type CurrencyOptions struct {
	// Code is an ISO 4217 code; empty means locale.DefaultCurrency.
	Code     string
	Rounding RoundingMode
	Min      string
	Max      string
	// HideFraction disables the fractional part entirely.
	HideFraction bool
	// PadRight pads the fraction with zeros on every format, not just on blur.
	PadRight bool
}

// Currency formats amounts with the locale's currency symbol and the
// currency's standard number of fraction digits. Rounding defaults to half up.
type Currency struct {
	number   numberFormat
	data     locale.CurrencyData
	decimal  string
	padRight bool
	fraction bool
}

// NewCurrency returns a currency formatter for the first of locales.
func NewCurrency(locales locale.Tags, opts CurrencyOptions) (*Currency, error) {
	tag := locales.Primary()
	data := locale.Currency(tag, opts.Code)

	places := data.FractionLength
	if opts.HideFraction {
		places = 0
	}
	nf, err := newNumberFormat(locales, FloatOptions{
		DecimalPlaces: Places(places),
		Rounding:      opts.Rounding,
		Min:           opts.Min,
		Max:           opts.Max,
	}, RoundHalfUp)
	if err != nil {
		return nil, err
	}

	return &Currency{
		number:   nf,
		data:     data,
		decimal:  locale.DecimalSeparator(tag),
		padRight: opts.PadRight,
		fraction: !opts.HideFraction,
	}, nil
}

// MustCurrency is like NewCurrency but panics on a configuration error.
func MustCurrency(locales locale.Tags, opts CurrencyOptions) *Currency {
	c, err := NewCurrency(locales, opts)
	if err != nil {
		panic(err)
	}
	return c
}

// Data returns the currency symbol and fraction length in use.
func (c *Currency) Data() locale.CurrencyData {
	return c.data
}

// FractionLength is the number of fraction digits padding fills to, or zero
// when the fraction is hidden.
func (c *Currency) FractionLength() int {
	if !c.fraction {
		return 0
	}
	return c.data.FractionLength
}

// Format renders value with the currency symbol, padding the fraction on
// blur or when PadRight is set.
func (c *Currency) Format(value, previous string, ctx Context) string {
	v := c.number.format(value, strings.TrimPrefix(previous, c.data.Symbol), ctx.Trigger)

	if c.fraction && c.data.FractionLength > 0 && (c.padRight || ctx.Trigger == TriggerBlur) && HasDigit(v) {
		integer, fraction, _ := strings.Cut(v, c.decimal)
		v = integer + c.decimal + PadRight(fraction, strings.Repeat("0", c.data.FractionLength))
	}

	if v == "" {
		return ""
	}
	return c.data.Symbol + v
}

// PadFraction pads the fraction of a canonical value to n digits:
// "3.1" becomes "3.10" for n = 2. Empty values are returned unchanged.
func PadFraction(value string, n int) string {
	if value == "" || n <= 0 {
		return value
	}
	integer, fraction, _ := strings.Cut(value, ".")
	return integer + "." + PadRight(fraction, strings.Repeat("0", n))
}
