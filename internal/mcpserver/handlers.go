package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mbd888/numerics/internal/validation"
	"github.com/mbd888/numerics/pkg/field"
	"github.com/mbd888/numerics/pkg/locale"
	"github.com/mbd888/numerics/pkg/numeric"
)

// Handlers implements the MCP tool handlers. Formatting runs in process;
// only the preset tools reach the API.
type Handlers struct {
	client          *APIClient
	defaultLocale   string
	defaultCurrency string
}

// NewHandlers creates handlers. client may be nil.
func NewHandlers(cfg Config, client *APIClient) *Handlers {
	h := &Handlers{
		client:          client,
		defaultLocale:   cfg.DefaultLocale,
		defaultCurrency: cfg.DefaultCurrency,
	}
	if h.defaultLocale == "" {
		h.defaultLocale = locale.Canonical
	}
	if h.defaultCurrency == "" {
		h.defaultCurrency = locale.DefaultCurrency
	}
	return h
}

// HandleFormatNumber formats a value through a field kind's pipeline.
func (h *Handlers) HandleFormatNumber(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value := req.GetString("value", "")
	if len(value) > validation.MaxValueLength {
		return mcp.NewToolResultError(fmt.Sprintf("value exceeds %d characters", validation.MaxValueLength)), nil
	}
	kind := field.Kind(req.GetString("kind", string(field.KindFloat)))
	if !kind.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown kind %q", kind)), nil
	}
	trigger, err := numeric.ParseTrigger(req.GetString("trigger", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rounding, err := numeric.ParseRoundingMode(req.GetString("rounding", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tag := req.GetString("locale", h.defaultLocale)
	if _, err := locale.Parse(tag); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts := field.Options{
		Locales:  locale.Tags{tag},
		Currency: req.GetString("currency", h.defaultCurrency),
		Rounding: rounding,
		Min:      req.GetString("min", ""),
		Max:      req.GetString("max", ""),
	}
	if _, err := locale.ParseCurrency(opts.Currency); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, ok := req.GetArguments()["decimal_places"]; ok {
		n := req.GetInt("decimal_places", 0)
		if n < 0 || n > numeric.MaxDecimalPlaces {
			return mcp.NewToolResultError(fmt.Sprintf("decimal_places must be between 0 and %d", numeric.MaxDecimalPlaces)), nil
		}
		opts.DecimalPlaces = numeric.Places(n)
	}

	cfg, err := field.Build(kind, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid options: %v", err)), nil
	}
	display, canonical := cfg.Apply(value, "", numeric.Context{Trigger: trigger})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Formatted %s (%s):\n", cfg.Kind, tag))
	sb.WriteString(fmt.Sprintf("  Display: %s\n", display))
	sb.WriteString(fmt.Sprintf("  Numeric: %s\n", canonical))
	return mcp.NewToolResultText(sb.String()), nil
}

// HandleConvertNumber rewrites a number between locales.
func (h *Handlers) HandleConvertNumber(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value := req.GetString("value", "")
	from := req.GetString("from", "")
	if from == "" {
		return mcp.NewToolResultError("from is required"), nil
	}
	to := req.GetString("to", locale.Canonical)
	for _, tag := range []string{from, to} {
		if _, err := locale.Parse(tag); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	out := numeric.NewConverter(from).Convert(value, to)
	return mcp.NewToolResultText(fmt.Sprintf("%s (%s) -> %s (%s)", value, from, out, to)), nil
}

// HandleFilterNumber strips characters a filter rejects.
func (h *Handlers) HandleFilterNumber(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("filter", numeric.FilterSignedFloat)
	f, err := numeric.FilterByName(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(f.Filter(req.GetString("value", ""), "")), nil
}

// HandleLocaleInfo describes a locale's number symbols.
func (h *Handlers) HandleLocaleInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag := req.GetString("locale", "")
	if tag == "" {
		return mcp.NewToolResultError("locale is required"), nil
	}
	if _, err := locale.Parse(tag); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	code := req.GetString("currency", h.defaultCurrency)
	if _, err := locale.ParseCurrency(code); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d := locale.Lookup(tag)
	c := locale.Currency(tag, code)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Locale %s:\n", d.Tag))
	sb.WriteString(fmt.Sprintf("  Decimal separator: %q\n", d.DecimalSeparator))
	sb.WriteString(fmt.Sprintf("  Group separator:   %q\n", d.GroupSeparator))
	sb.WriteString(fmt.Sprintf("  Currency: %s (symbol %q, %d fraction digits)\n", c.Code, c.Symbol, c.FractionLength))
	return mcp.NewToolResultText(sb.String()), nil
}

// HandleFormatTemplate splices digits into a literal template.
func (h *Handlers) HandleFormatTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("template", "")
	tpl, ok := numeric.TemplateByName(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown template %q", name)), nil
	}
	digits := numeric.ToNumeric.Filter(req.GetString("digits", ""), "")
	return mcp.NewToolResultText(tpl.Format(digits)), nil
}

// HandleListPresets lists presets stored on the API server.
func (h *Handlers) HandleListPresets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.client == nil {
		return mcp.NewToolResultError(errNoAPI.Error()), nil
	}
	raw, err := h.client.ListPresets(ctx, req.GetInt("limit", 20), req.GetString("cursor", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list presets: %v", err)), nil
	}

	text, err := formatPresetList(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse presets: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleFormatWithPreset formats a value with a stored preset.
func (h *Handlers) HandleFormatWithPreset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.client == nil {
		return mcp.NewToolResultError(errNoAPI.Error()), nil
	}
	ref := req.GetString("preset", "")
	if ref == "" {
		return mcp.NewToolResultError("preset is required"), nil
	}

	raw, err := h.client.FormatWithPreset(ctx, ref, req.GetString("value", ""), req.GetString("trigger", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Format failed: %v", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// --- Response formatting ---

func formatPresetList(raw json.RawMessage) (string, error) {
	var resp struct {
		Presets []struct {
			ID       string   `json:"id"`
			Name     string   `json:"name"`
			Kind     string   `json:"kind"`
			Locales  []string `json:"locales"`
			Currency string   `json:"currency"`
			Min      string   `json:"min"`
			Max      string   `json:"max"`
			Places   *int     `json:"decimalPlaces"`
		} `json:"presets"`
		NextCursor string `json:"nextCursor"`
		HasMore    bool   `json:"hasMore"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("unexpected presets response format")
	}
	if len(resp.Presets) == 0 {
		return "No presets found.", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d preset(s):\n\n", len(resp.Presets)))
	for i, p := range resp.Presets {
		sb.WriteString(fmt.Sprintf("%d. %s [%s] (%s)\n", i+1, p.Name, p.Kind, p.ID))
		if len(p.Locales) > 0 {
			sb.WriteString(fmt.Sprintf("   Locales: %s\n", strings.Join(p.Locales, ", ")))
		}
		if p.Currency != "" {
			sb.WriteString(fmt.Sprintf("   Currency: %s\n", p.Currency))
		}
		if p.Places != nil {
			sb.WriteString(fmt.Sprintf("   Decimal places: %d\n", *p.Places))
		}
		if p.Min != "" || p.Max != "" {
			sb.WriteString(fmt.Sprintf("   Range: [%s, %s]\n", p.Min, p.Max))
		}
	}
	if resp.HasMore {
		sb.WriteString(fmt.Sprintf("\nMore presets available; pass cursor %q.\n", resp.NextCursor))
	}
	return sb.String(), nil
}

func formatJSON(raw json.RawMessage) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return string(raw)
	}
	return pretty.String()
}
