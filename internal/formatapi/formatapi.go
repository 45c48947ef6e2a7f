// Package formatapi exposes the stateless formatting pipeline over HTTP:
// format, filter and convert single values and look up locale data.
package formatapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbd888/numerics/internal/metrics"
	"github.com/mbd888/numerics/internal/presets"
	"github.com/mbd888/numerics/internal/traces"
	"github.com/mbd888/numerics/internal/validation"
	"github.com/mbd888/numerics/pkg/field"
	"github.com/mbd888/numerics/pkg/locale"
	"github.com/mbd888/numerics/pkg/numeric"
)

// MaxBatchSize bounds POST /v1/format/batch.
const MaxBatchSize = 100

// FormatRequest is one value to format. Preset, when set, names a stored
// preset by ID or name and replaces Kind and the inline options.
type FormatRequest struct {
	Kind      field.Kind `json:"kind"`
	Preset    string     `json:"preset"`
	Value     string     `json:"value"`
	Previous  string     `json:"previous"`
	Trigger   string     `json:"trigger"`
	UserKeyed bool       `json:"userKeyed"`
	field.Options
}

// FormatResult is the display text and its canonical value.
type FormatResult struct {
	Display string `json:"display"`
	Numeric string `json:"numeric"`
}

// BatchResult is one entry of a batch response; exactly one of the result
// or Error is set.
type BatchResult struct {
	*FormatResult
	Error string `json:"error,omitempty"`
}

// PresetResolver looks presets up by ID or name.
type PresetResolver interface {
	Resolve(ctx context.Context, ref string) (*presets.Preset, error)
}

// Handler serves the stateless formatting endpoints.
type Handler struct {
	presets         PresetResolver
	defaultLocale   string
	defaultCurrency string
	logger          *slog.Logger
}

// NewHandler creates a handler. resolver may be nil, in which case requests
// naming a preset fail with 404.
func NewHandler(resolver PresetResolver, defaultLocale, defaultCurrency string, logger *slog.Logger) *Handler {
	return &Handler{
		presets:         resolver,
		defaultLocale:   defaultLocale,
		defaultCurrency: defaultCurrency,
		logger:          logger.With("component", "formatapi"),
	}
}

// RegisterRoutes sets up the formatting routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/format", h.Format)
	r.POST("/format/batch", h.FormatBatch)
	r.POST("/filter", h.Filter)
	r.POST("/convert", h.Convert)
	r.GET("/locales/:tag", h.Locale)
}

var (
	errPresetNotFound = errors.New("preset not found")
	errValueTooLong   = errors.New("value exceeds maximum length")
)

// Format handles POST /v1/format
func (h *Handler) Format(c *gin.Context) {
	var req FormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid body"})
		return
	}

	res, err := h.format(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// FormatBatch handles POST /v1/format/batch
func (h *Handler) FormatBatch(c *gin.Context) {
	var req struct {
		Items []FormatRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid body"})
		return
	}
	if len(req.Items) == 0 || len(req.Items) > MaxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_batch",
			"message": fmt.Sprintf("items must contain 1 to %d entries", MaxBatchSize),
		})
		return
	}

	results := make([]BatchResult, len(req.Items))
	for i, item := range req.Items {
		res, err := h.format(c.Request.Context(), item)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		results[i].FormatResult = res
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

func (h *Handler) format(ctx context.Context, req FormatRequest) (*FormatResult, error) {
	if len(req.Value) > validation.MaxValueLength || len(req.Previous) > validation.MaxValueLength {
		return nil, errValueTooLong
	}
	trigger, err := numeric.ParseTrigger(req.Trigger)
	if err != nil {
		return nil, err
	}

	kind, opts := req.Kind, req.Options
	if req.Preset != "" {
		if h.presets == nil {
			return nil, errPresetNotFound
		}
		p, err := h.presets.Resolve(ctx, req.Preset)
		if err != nil {
			if errors.Is(err, presets.ErrNotFound) {
				return nil, errPresetNotFound
			}
			return nil, err
		}
		kind, opts = p.Kind, p.Options
	} else if errs := validation.Validate(
		validation.ValidKind("kind", string(kind)),
		validation.ValidLocales("locales", opts.Locales),
		validation.ValidCurrency("currency", opts.Currency),
		validation.ValidPlaces("decimalPlaces", opts.DecimalPlaces),
	); len(errs) > 0 {
		return nil, errs
	}
	if len(opts.Locales) == 0 && h.defaultLocale != "" {
		opts.Locales = locale.Tags{h.defaultLocale}
	}
	if opts.Currency == "" {
		opts.Currency = h.defaultCurrency
	}

	cfg, err := field.Build(kind, opts)
	if err != nil {
		return nil, err
	}

	ctx, span := traces.StartSpan(ctx, "formatapi.format",
		traces.Kind(string(cfg.Kind)),
		traces.Locale(opts.Locales.Primary()),
		traces.Trigger(trigger.String()),
	)
	defer span.End()
	done := metrics.ObserveFormat(string(cfg.Kind), trigger.String())
	display, canonical := cfg.Apply(req.Value, req.Previous, numeric.Context{Trigger: trigger, UserKeyed: req.UserKeyed})
	done()

	h.logger.DebugContext(ctx, "formatted", "kind", cfg.Kind, "display", display)
	return &FormatResult{Display: display, Numeric: canonical}, nil
}

// Filter handles POST /v1/filter
func (h *Handler) Filter(c *gin.Context) {
	var req struct {
		Filter   string `json:"filter"`
		Value    string `json:"value"`
		Previous string `json:"previous"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid body"})
		return
	}
	if len(req.Value) > validation.MaxValueLength {
		respondError(c, errValueTooLong)
		return
	}
	f, err := numeric.FilterByName(req.Filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_filter", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": f.Filter(req.Value, req.Previous)})
}

// Convert handles POST /v1/convert
func (h *Handler) Convert(c *gin.Context) {
	var req struct {
		Value string `json:"value"`
		From  string `json:"from"`
		To    string `json:"to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid body"})
		return
	}
	if len(req.Value) > validation.MaxValueLength {
		respondError(c, errValueTooLong)
		return
	}
	if errs := validation.Validate(
		validation.ValidLocales("from", nonEmpty(req.From)),
		validation.ValidLocales("to", nonEmpty(req.To)),
	); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_locale", "message": errs.Error()})
		return
	}
	_, span := traces.StartSpan(c.Request.Context(), "formatapi.convert", traces.Locale(req.To))
	defer span.End()

	value := numeric.NewConverter(req.From).Convert(req.Value, req.To)
	c.JSON(http.StatusOK, gin.H{"value": value})
}

// Locale handles GET /v1/locales/:tag
func (h *Handler) Locale(c *gin.Context) {
	tag := c.Param("tag")
	if _, err := locale.Parse(tag); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_locale", "message": err.Error()})
		return
	}
	code := c.DefaultQuery("currency", h.defaultCurrency)
	if _, err := locale.ParseCurrency(code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_currency", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locale":   locale.Lookup(tag),
		"currency": locale.Currency(tag, code),
	})
}

func respondError(c *gin.Context, err error) {
	var verrs validation.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": verrs.Error(), "details": verrs})
	case errors.Is(err, errPresetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	case errors.Is(err, errValueTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": "value_too_long", "message": err.Error()})
	case errors.Is(err, numeric.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_range", "message": err.Error()})
	case errors.Is(err, numeric.ErrInvalidBound), errors.Is(err, numeric.ErrInvalidPlaces),
		errors.Is(err, locale.ErrInvalidCurrency), errors.Is(err, locale.ErrInvalidTag):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_options", "message": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format_failed", "message": err.Error()})
	}
}

func nonEmpty(tag string) []string {
	if tag == "" {
		return nil
	}
	return []string{tag}
}
