package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/numerics/pkg/numeric"
)

func TestIsValidPresetID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"pre_0123456789abcdef01234567", true},
		{"pre_0123456789ABCDEF01234567", false},
		{"pre_0123", false},
		{"ten_0123456789abcdef01234567", false},
		{"", false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.valid, IsValidPresetID(tc.id), tc.id)
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"hello", 10, "hello"},
		{"  hello  ", 10, "hello"},
		{"hello world", 5, "hello"},
		{"hello\x00world", 20, "helloworld"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, SanitizeString(tc.input, tc.maxLen))
	}
}

func TestValidate(t *testing.T) {
	errs := Validate(
		Required("name", "invoice-total"),
		ValidName("name", "invoice-total"),
		ValidLocales("locales", []string{"en-US", "de-DE"}),
		ValidCurrency("currency", "EUR"),
		ValidKind("kind", "currency"),
		ValidPlaces("decimalPlaces", numeric.Places(2)),
		ValidBound("min", "-10.5"),
	)
	assert.Empty(t, errs)

	errs = Validate(
		Required("name", " "),
		ValidName("name", "<script>"),
		ValidLocales("locales", []string{"en-US", "!!"}),
		ValidCurrency("currency", "dollars"),
		ValidKind("kind", "money"),
		ValidPlaces("decimalPlaces", numeric.Places(21)),
		ValidBound("max", "1e5"),
	)
	require.Len(t, errs, 7)
	assert.Equal(t, "name: is required", errs.Error())
	assert.Equal(t, "locales", errs[2].Field)
	assert.Equal(t, "max", errs[6].Field)
}

func TestValidBound(t *testing.T) {
	for _, ok := range []string{"", "0", "-1", "+2", "3.25", "5."} {
		assert.Nil(t, ValidBound("min", ok)(), ok)
	}
	for _, bad := range []string{"-", ".", "1,000", "abc", "1.2.3"} {
		assert.NotNil(t, ValidBound("min", bad)(), bad)
	}
}

func TestMaxLength(t *testing.T) {
	assert.Nil(t, MaxLength("field", "hello", 10)())
	assert.Nil(t, MaxLength("field", "hello", 5)())
	assert.NotNil(t, MaxLength("field", "hello world", 5)())
}

func TestPresetIDParamMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/presets/:id", PresetIDParamMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/presets/pre_0123456789abcdef01234567", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/presets/nope", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_id")
}

func TestRequestSizeMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestSizeMiddleware(8))
	r.POST("/", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/", strings.NewReader(`{"value":"1234567890"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
