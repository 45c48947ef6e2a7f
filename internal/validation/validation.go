// Package validation checks request payloads before they reach the
// formatting pipeline.
package validation

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mbd888/numerics/pkg/field"
	"github.com/mbd888/numerics/pkg/locale"
	"github.com/mbd888/numerics/pkg/numeric"
)

// MaxRequestSize is the default request body limit (1MB)
const MaxRequestSize = 1 << 20

// MaxValueLength bounds the raw text of a single field value.
const MaxValueLength = 256

var (
	presetIDRegex = regexp.MustCompile(`^pre_[a-f0-9]{24}$`)
	nameRegex     = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}[a-z0-9]$`)
)

// RequestSizeMiddleware limits request body size
func RequestSizeMiddleware(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// IsValidPresetID checks the shape of a preset identifier.
func IsValidPresetID(id string) bool {
	return presetIDRegex.MatchString(id)
}

// SanitizeString removes dangerous characters and limits length
func SanitizeString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return strings.ReplaceAll(s, "\x00", "")
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Field + ": " + e[0].Message
}

// Validate runs validators and collects their failures.
func Validate(validators ...func() *ValidationError) ValidationErrors {
	var errs ValidationErrors
	for _, v := range validators {
		if err := v(); err != nil {
			errs = append(errs, *err)
		}
	}
	return errs
}

// Required checks if a field is non-empty
func Required(field, value string) func() *ValidationError {
	return func() *ValidationError {
		if strings.TrimSpace(value) == "" {
			return &ValidationError{Field: field, Message: "is required"}
		}
		return nil
	}
}

// MaxLength checks if a field exceeds max length
func MaxLength(field, value string, max int) func() *ValidationError {
	return func() *ValidationError {
		if len(value) > max {
			return &ValidationError{Field: field, Message: "exceeds maximum length"}
		}
		return nil
	}
}

// ValidName checks that a preset name is a slug.
func ValidName(fieldName, value string) func() *ValidationError {
	return func() *ValidationError {
		if value == "" {
			return nil
		}
		if !nameRegex.MatchString(value) {
			return &ValidationError{Field: fieldName, Message: "must be 3-64 lowercase alphanumerics or hyphens, starting and ending with alphanumeric"}
		}
		return nil
	}
}

// ValidLocales checks that every tag is a well-formed BCP 47 tag.
func ValidLocales(fieldName string, tags []string) func() *ValidationError {
	return func() *ValidationError {
		for _, tag := range tags {
			if _, err := locale.Parse(tag); err != nil {
				return &ValidationError{Field: fieldName, Message: "invalid language tag " + tag}
			}
		}
		return nil
	}
}

// ValidCurrency checks an ISO 4217 code. Empty means the default currency.
func ValidCurrency(fieldName, code string) func() *ValidationError {
	return func() *ValidationError {
		if code == "" {
			return nil
		}
		if _, err := locale.ParseCurrency(code); err != nil {
			return &ValidationError{Field: fieldName, Message: "must be an ISO 4217 currency code"}
		}
		return nil
	}
}

// ValidKind checks a field kind. Empty means float.
func ValidKind(fieldName, kind string) func() *ValidationError {
	return func() *ValidationError {
		if kind != "" && !field.Kind(kind).Valid() {
			return &ValidationError{Field: fieldName, Message: "unknown field kind"}
		}
		return nil
	}
}

// ValidPlaces checks an optional decimal place count.
func ValidPlaces(fieldName string, places *int) func() *ValidationError {
	return func() *ValidationError {
		if places != nil && (*places < 0 || *places > numeric.MaxDecimalPlaces) {
			return &ValidationError{Field: fieldName, Message: "must be between 0 and 20"}
		}
		return nil
	}
}

// ValidBound checks an optional canonical decimal bound such as "-10.5".
func ValidBound(fieldName, value string) func() *ValidationError {
	return func() *ValidationError {
		if value == "" {
			return nil
		}
		if numeric.ToSignedFloat.Filter(value, "") != value || !numeric.HasDigit(value) {
			return &ValidationError{Field: fieldName, Message: "must be a canonical decimal"}
		}
		return nil
	}
}

// PresetIDParamMiddleware rejects malformed :id parameters early.
func PresetIDParamMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id != "" && !IsValidPresetID(id) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_id",
				"message": "preset id must look like pre_ followed by 24 hex chars",
			})
			return
		}
		c.Next()
	}
}
