// Package numeric turns canonical numeric strings into locale-formatted
// display strings and back.
//
// A canonical numeric string uses "." as the decimal separator, carries an
// optional leading "+" or "-" and has no grouping: [+-]?[0-9]*\.?[0-9]*. It
// may be empty or sign-only while a user is typing.
//
// The package provides three small interfaces that an input pipeline chains
// together: a Converter rewrites a localized string into the canonical
// locale, a Filter reduces it to the characters a field accepts, and a
// Formatter renders the canonical value for display.
package numeric

import (
	"strings"
	"unicode/utf8"
)

// ExtractDigits copies the ASCII digits of value to the output. For every
// other character onNonDigit is called with the character, its byte index and
// the whole value; its result is appended. A nil handler discards non-digits.
func ExtractDigits(value string, onNonDigit func(r rune, index int, value string) string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i, r := range value {
		if isDigit(r) {
			b.WriteRune(r)
			continue
		}
		if onNonDigit != nil {
			b.WriteString(onNonDigit(r, i, value))
		}
	}
	return b.String()
}

// Sign returns the leading "+" or "-" of the trimmed value, or "".
func Sign(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "+") || strings.HasPrefix(trimmed, "-") {
		return trimmed[:1]
	}
	return ""
}

// PadRight fills the positions of template beyond the length of input with
// the template's characters. Input longer than the template is returned as is.
//
//	PadRight("3", "00") == "30"
func PadRight(input, template string) string {
	in := []rune(input)
	tpl := []rune(template)
	if len(tpl) <= len(in) {
		return input
	}
	return string(in) + string(tpl[len(in):])
}

// HasDigit reports whether s contains an ASCII digit.
func HasDigit(s string) bool {
	return strings.IndexFunc(s, isDigit) >= 0
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// single reports whether s is exactly one character.
func single(s string) bool {
	return utf8.RuneCountInString(s) == 1
}
