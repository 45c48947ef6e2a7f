package numeric

import "strings"

// Template interleaves fixed literals with digits: position i emits
// template[i] followed by the i-th digit. Digits beyond the template length
// are dropped.
type Template []string

var (
	// Telephone renders "(123) 456-7890".
	Telephone = Template{"(", "", "", ") ", "", "", "-", "", "", ""}
	// SSN renders "123-45-6789".
	SSN = Template{"", "", "", "-", "", "-", "", "", ""}
	// EIN renders "12-3456789".
	EIN = Template{"", "", "-", "", "", "", "", "", ""}
)

// Format splices digits into the template.
func (t Template) Format(digits string) string {
	var b strings.Builder
	for i, r := range []rune(digits) {
		if i >= len(t) {
			break
		}
		b.WriteString(t[i])
		b.WriteRune(r)
	}
	return b.String()
}

// MaxDigits is the number of digits the template holds.
func (t Template) MaxDigits() int {
	return len(t)
}

// Formatter adapts the template to the Formatter interface. previous and the
// context are ignored.
func (t Template) Formatter() Formatter {
	return FormatterFunc(func(value, _ string, _ Context) string {
		return t.Format(value)
	})
}

// FormatTelephone formats a US telephone number.
func FormatTelephone(value string) string { return Telephone.Format(value) }

// FormatSSN formats a social security number.
func FormatSSN(value string) string { return SSN.Format(value) }

// FormatEIN formats an employer identification number.
func FormatEIN(value string) string { return EIN.Format(value) }

// TemplateByName returns one of the built-in templates.
func TemplateByName(name string) (Template, bool) {
	switch name {
	case "telephone", "phone":
		return Telephone, true
	case "ssn":
		return SSN, true
	case "ein":
		return EIN, true
	}
	return nil, false
}
