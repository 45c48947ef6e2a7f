package field

import (
	"fmt"

	"github.com/mbd888/numerics/pkg/locale"
	"github.com/mbd888/numerics/pkg/numeric"
)

// Kind names a preset combination of filter, formatter and converter.
type Kind string

const (
	KindFloat     Kind = "float"
	KindInteger   Kind = "integer"
	KindCurrency  Kind = "currency"
	KindPercent   Kind = "percent"
	KindTelephone Kind = "telephone"
	KindSSN       Kind = "ssn"
	KindEIN       Kind = "ein"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindFloat, KindInteger, KindCurrency, KindPercent, KindTelephone, KindSSN, KindEIN}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Options are the user-facing settings of a field kind. Fields that do not
// apply to a kind are ignored.
type Options struct {
	Locales       locale.Tags          `json:"locales,omitempty"`
	Currency      string               `json:"currency,omitempty"`
	DecimalPlaces *int                 `json:"decimalPlaces,omitempty"`
	Rounding      numeric.RoundingMode `json:"rounding,omitempty"`
	Min           string               `json:"min,omitempty"`
	Max           string               `json:"max,omitempty"`
	HideFraction  bool                 `json:"hideFraction,omitempty"`
	PadRight      bool                 `json:"padRight,omitempty"`
}

// Config is the pipeline a kind resolves to.
type Config struct {
	Kind      Kind
	Filter    numeric.Filter
	Formatter numeric.Formatter
	// Converter is nil for kinds whose display has no locale separators.
	Converter numeric.Converter
	// PadFraction is the canonical fraction length enforced on mount and
	// blur, zero for none.
	PadFraction int
}

// Build resolves kind and opts into a pipeline. Configuration errors from
// the formatter constructors, such as numeric.ErrInvalidRange, are returned
// wrapped.
func Build(kind Kind, opts Options) (Config, error) {
	cfg := Config{Kind: kind, Filter: numeric.ToSignedFloat}
	if kind == "" {
		cfg.Kind = KindFloat
	}

	var err error
	switch cfg.Kind {
	case KindFloat:
		cfg.Formatter, err = numeric.NewFloat(opts.Locales, floatOptions(opts))
	case KindInteger:
		fo := floatOptions(opts)
		fo.DecimalPlaces = numeric.Places(0)
		fo.Rounding = numeric.RoundDown
		cfg.Formatter, err = numeric.NewFloat(opts.Locales, fo)
	case KindPercent:
		cfg.Formatter, err = numeric.NewPercent(opts.Locales, floatOptions(opts))
	case KindCurrency:
		var c *numeric.Currency
		c, err = numeric.NewCurrency(opts.Locales, numeric.CurrencyOptions{
			Code:         opts.Currency,
			Rounding:     opts.Rounding,
			Min:          opts.Min,
			Max:          opts.Max,
			HideFraction: opts.HideFraction,
			PadRight:     opts.PadRight,
		})
		if err == nil {
			cfg.Formatter = c
			cfg.PadFraction = c.FractionLength()
		}
	case KindTelephone:
		return templateConfig(cfg.Kind, numeric.Telephone), nil
	case KindSSN:
		return templateConfig(cfg.Kind, numeric.SSN), nil
	case KindEIN:
		return templateConfig(cfg.Kind, numeric.EIN), nil
	default:
		return Config{}, fmt.Errorf("field: unknown kind %q", kind)
	}
	if err != nil {
		return Config{}, fmt.Errorf("field: %s: %w", cfg.Kind, err)
	}

	cfg.Converter = numeric.NewConverter(opts.Locales...)
	return cfg, nil
}

func floatOptions(opts Options) numeric.FloatOptions {
	return numeric.FloatOptions{
		DecimalPlaces: opts.DecimalPlaces,
		Rounding:      opts.Rounding,
		Min:           opts.Min,
		Max:           opts.Max,
	}
}

func templateConfig(kind Kind, tpl numeric.Template) Config {
	return Config{Kind: kind, Filter: numeric.ToNumeric, Formatter: tpl.Formatter()}
}

// Options returns the field options that install the pipeline.
func (c Config) Options() []Option {
	opts := []Option{WithFilter(c.Filter), WithFormatter(c.Formatter)}
	if c.Converter != nil {
		opts = append(opts, WithConverter(c.Converter))
	}
	if c.PadFraction > 0 {
		opts = append(opts, WithFractionPadding(c.PadFraction))
	}
	return opts
}

// Display formats a canonical value the way a freshly mounted field would.
func (c Config) Display(value string) string {
	return c.Formatter.Format(c.Filter.Filter(value, ""), "", numeric.Context{})
}

// Canonical extracts the canonical value from display text.
func (c Config) Canonical(display string) string {
	if c.Converter != nil {
		display = c.Converter.Convert(display, "")
	}
	return c.Filter.Filter(display, "")
}

// Apply runs raw display text through the whole pipeline once, without
// field state, and returns the display and its canonical value.
func (c Config) Apply(raw, previous string, ctx numeric.Context) (display, canonical string) {
	value := raw
	if c.Converter != nil {
		value = c.Converter.Convert(value, "")
	}
	display = c.Formatter.Format(c.Filter.Filter(value, ""), previous, ctx)
	return display, c.Canonical(display)
}
