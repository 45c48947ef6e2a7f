// Package locale resolves the number symbols and currency data that the
// numeric formatters need for a locale tag.
//
// Lookups are memoized per tag for the lifetime of the process. Locale data
// never changes at runtime, so entries are computed once and stored with
// insert-if-absent semantics; two goroutines racing on the same tag compute
// identical values and one of them wins.
package locale

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Canonical is the locale of canonical numeric strings: "." separates the
// fraction and no grouping is used.
const Canonical = "en-US"

// DefaultCurrency is used when a currency formatter is not given an ISO code.
const DefaultCurrency = "USD"

var (
	ErrInvalidTag      = errors.New("locale: invalid language tag")
	ErrInvalidCurrency = errors.New("locale: invalid currency code")
)

// Tags is an ordered list of locale tags. The first tag is authoritative for
// separator and currency lookups.
type Tags []string

// Primary returns the authoritative tag, or Canonical when t is empty.
func (t Tags) Primary() string {
	if len(t) == 0 || strings.TrimSpace(t[0]) == "" {
		return Canonical
	}
	return strings.TrimSpace(t[0])
}

// Data holds the number symbols of a locale.
type Data struct {
	Tag              string `json:"tag"`
	DecimalSeparator string `json:"decimalSeparator"`
	GroupSeparator   string `json:"groupSeparator"`
}

// CurrencyData holds the display properties of a currency in a locale.
type CurrencyData struct {
	Code           string `json:"code"`
	Symbol         string `json:"symbol"`
	FractionLength int    `json:"fractionLength"`
}

var (
	symbols    sync.Map // tag -> Data
	currencies sync.Map // tag + "|" + code -> CurrencyData
)

// Parse validates a BCP 47 tag.
func Parse(tag string) (language.Tag, error) {
	t, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	return t, nil
}

// ParseCurrency validates an ISO 4217 currency code.
func ParseCurrency(code string) (currency.Unit, error) {
	if strings.TrimSpace(code) == "" {
		code = DefaultCurrency
	}
	u, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	return u, nil
}

// Lookup returns the number symbols for tag. An empty tag means Canonical;
// an unparseable tag falls back to the Canonical symbols.
func Lookup(tag string) Data {
	if tag == "" {
		tag = Canonical
	}
	if v, ok := symbols.Load(tag); ok {
		return v.(Data)
	}
	d := resolve(tag)
	v, _ := symbols.LoadOrStore(tag, d)
	return v.(Data)
}

// DecimalSeparator returns the separator between the integer and fraction.
func DecimalSeparator(tag string) string {
	return Lookup(tag).DecimalSeparator
}

// GroupSeparator returns the thousands separator.
func GroupSeparator(tag string) string {
	return Lookup(tag).GroupSeparator
}

// Currency returns the symbol and standard fraction length of the currency
// identified by code, as displayed in tag. An empty code means
// DefaultCurrency. Unknown codes fall back to DefaultCurrency.
func Currency(tag, code string) CurrencyData {
	if tag == "" {
		tag = Canonical
	}
	if code == "" {
		code = DefaultCurrency
	}
	key := tag + "|" + strings.ToUpper(code)
	if v, ok := currencies.Load(key); ok {
		return v.(CurrencyData)
	}
	d := resolveCurrency(tag, code)
	v, _ := currencies.LoadOrStore(key, d)
	return v.(CurrencyData)
}

func resolve(tag string) Data {
	t, err := Parse(tag)
	if err != nil {
		t = language.AmericanEnglish
	}
	p := message.NewPrinter(t)

	d := Data{Tag: tag, DecimalSeparator: ".", GroupSeparator: ","}
	if sep := separator(p.Sprint(number.Decimal(1.5))); sep != "" {
		d.DecimalSeparator = sep
	}
	if sep := separator(p.Sprint(number.Decimal(1234567))); sep != "" {
		d.GroupSeparator = sep
	} else if d.DecimalSeparator == "," {
		d.GroupSeparator = "."
	}
	return d
}

func resolveCurrency(tag, code string) CurrencyData {
	unit, err := ParseCurrency(code)
	if err != nil {
		unit = currency.USD
	}
	t, err := Parse(tag)
	if err != nil {
		t = language.AmericanEnglish
	}

	scale, _ := currency.Standard.Rounding(unit)
	sym := strings.TrimSpace(message.NewPrinter(t).Sprint(currency.Symbol(unit)))
	if sym == "" {
		sym = "$"
	}
	return CurrencyData{Code: unit.String(), Symbol: sym, FractionLength: scale}
}

// separator returns the first run of non-digit characters that sits between
// two digits in s.
func separator(s string) string {
	runes := []rune(s)
	start := -1
	for i, r := range runes {
		if unicode.IsDigit(r) {
			if start >= 0 {
				return string(runes[start:i])
			}
			continue
		}
		if start < 0 && i > 0 && unicode.IsDigit(runes[i-1]) {
			start = i
		}
	}
	return ""
}
