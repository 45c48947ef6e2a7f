package numeric

import (
	"github.com/mbd888/numerics/pkg/locale"
)

// Converter rewrites a numeric string into another locale's representation.
// An empty outputLocale means locale.Canonical.
type Converter interface {
	Convert(value, outputLocale string) string
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(value, outputLocale string) string

// Convert calls fn(value, outputLocale).
func (fn ConverterFunc) Convert(value, outputLocale string) string {
	return fn(value, outputLocale)
}

// LocaleConverter converts numbers written in its input locale. The sign and
// the digits are kept, the first input decimal separator becomes the output
// locale's separator and everything else is dropped.
type LocaleConverter struct {
	input string
}

var canonicalConverter = NewConverter()

// NewConverter returns a converter for numbers written in the first of
// inputLocales, or locale.Canonical when none is given.
func NewConverter(inputLocales ...string) *LocaleConverter {
	return &LocaleConverter{input: locale.Tags(inputLocales).Primary()}
}

// InputLocale returns the locale the converter reads.
func (c *LocaleConverter) InputLocale() string {
	return c.input
}

func (c *LocaleConverter) Convert(value, outputLocale string) string {
	if value == "" {
		return ""
	}
	if outputLocale == "" {
		outputLocale = locale.Canonical
	}

	in := locale.DecimalSeparator(c.input)
	out := locale.DecimalSeparator(outputLocale)

	found := false
	return Sign(value) + ExtractDigits(value, func(r rune, _ int, _ string) string {
		if !found && string(r) == in {
			found = true
			return out
		}
		return ""
	})
}
