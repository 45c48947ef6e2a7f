package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDigits(t *testing.T) {
	assert.Equal(t, "123", ExtractDigits("Aa1-2 3Zz", nil))
	assert.Equal(t, "", ExtractDigits("", nil))

	var seen []int
	got := ExtractDigits("a1b2", func(r rune, i int, value string) string {
		seen = append(seen, i)
		assert.Equal(t, "a1b2", value)
		return "x"
	})
	assert.Equal(t, "x1x2", got)
	assert.Equal(t, []int{0, 2}, seen)
}

func TestSign(t *testing.T) {
	assert.Equal(t, "-", Sign(" -3"))
	assert.Equal(t, "+", Sign("+"))
	assert.Equal(t, "", Sign("3-"))
	assert.Equal(t, "", Sign(""))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "30", PadRight("3", "00"))
	assert.Equal(t, "00", PadRight("", "00"))
	assert.Equal(t, "123", PadRight("123", "00"))
}

func TestPadFraction(t *testing.T) {
	assert.Equal(t, "3.10", PadFraction("3.1", 2))
	assert.Equal(t, "3.00", PadFraction("3", 2))
	assert.Equal(t, "3.125", PadFraction("3.125", 2))
	assert.Equal(t, "", PadFraction("", 2))
	assert.Equal(t, "3", PadFraction("3", 0))
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		input  string
		want   string
	}{
		{"numeric strips letters", ToNumeric, "Aa123Zz", "123"},
		{"numeric empty", ToNumeric, "", ""},
		{"numeric drops sign", ToNumeric, "-12", "12"},
		{"float keeps first separator", ToSignedFloat, "1.2.3", "1.23"},
		{"float keeps sign", ToSignedFloat, "-1.5", "-1.5"},
		{"float keeps dangling separator", ToSignedFloat, "3.", "3."},
		{"float drops grouping", ToSignedFloat, "1,234.5", "1234.5"},
		{"float strips percent", ToSignedFloat, "45%", "45"},
		{"float empty", ToSignedFloat, "", ""},
		{"signed numeric drops separator", ToSignedNumeric, "3.", "3"},
		{"signed numeric keeps sign", ToSignedNumeric, "-12a", "-12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Filter(tt.input, ""))
		})
	}
}

func TestFilterByName(t *testing.T) {
	f, err := FilterByName("numeric")
	assert.NoError(t, err)
	assert.Equal(t, "12", f.Filter("1.2", ""))

	f, err = FilterByName("")
	assert.NoError(t, err)
	assert.Equal(t, "1.2", f.Filter("1.2", ""))

	_, err = FilterByName("hex")
	assert.Error(t, err)
}

func TestConverter(t *testing.T) {
	assert.Equal(t, "3.14", NewConverter("de-DE").Convert("3,14", ""))
	assert.Equal(t, "-3.14", NewConverter("de-DE").Convert("-3,14", ""))
	assert.Equal(t, "1234.5", NewConverter("de-DE").Convert("1.234,5", ""))
	assert.Equal(t, "111222333,4444", NewConverter().Convert("111,222,333.4444", "de-DE"))
	assert.Equal(t, "", NewConverter().Convert("", "de-DE"))
	assert.Equal(t, "en-US", NewConverter().InputLocale())
}
