package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the numerics MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var ToolFormatNumber = mcp.NewTool("format_number",
	mcp.WithDescription(
		"Format a numeric value the way an input field of the given kind would display it. "+
			"Returns the display text and the canonical numeric value extracted from it. "+
			"Values may be typed in any of the given locales, e.g. '1.234,5' for de-DE."),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("The raw value to format (e.g. '1234.5', '$1,234.50', '5551234567')")),
	mcp.WithString("kind",
		mcp.Description("Field kind (default 'float')"),
		mcp.Enum("float", "integer", "currency", "percent", "telephone", "ssn", "ein")),
	mcp.WithString("locale",
		mcp.Description("BCP 47 locale tag used to read and render separators (default from server config, e.g. 'en-US')")),
	mcp.WithString("currency",
		mcp.Description("ISO 4217 currency code for kind 'currency' (e.g. 'EUR', 'JPY')")),
	mcp.WithNumber("decimal_places",
		mcp.Description("Maximum number of fraction digits. Omit for the kind's default.")),
	mcp.WithString("rounding",
		mcp.Description("Rounding mode applied when the value has more fraction digits than allowed"),
		mcp.Enum("down", "up", "half_up", "half_down", "half_even", "ceiling", "floor")),
	mcp.WithString("min",
		mcp.Description("Smallest accepted value; out-of-range input keeps the previous display")),
	mcp.WithString("max",
		mcp.Description("Largest accepted value; out-of-range input keeps the previous display")),
	mcp.WithString("trigger",
		mcp.Description("'blur' finalizes the value (pads currency fractions, drops a trailing separator); 'change' formats as if typing"),
		mcp.Enum("none", "change", "blur")),
)

var ToolConvertNumber = mcp.NewTool("convert_number",
	mcp.WithDescription(
		"Rewrite a localized number from one locale's separators to another's. "+
			"Grouping separators are dropped and the decimal separator is replaced."),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("The localized number (e.g. '-1.234,5')")),
	mcp.WithString("from",
		mcp.Required(),
		mcp.Description("Locale the value is written in (e.g. 'de-DE')")),
	mcp.WithString("to",
		mcp.Description("Locale to rewrite the value for (default 'en-US')")),
)

var ToolFilterNumber = mcp.NewTool("filter_number",
	mcp.WithDescription(
		"Strip characters a numeric field would not accept. "+
			"'numeric' keeps digits, 'signed_numeric' keeps a leading sign and digits, "+
			"'signed_float' also keeps one decimal point."),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("The text to filter")),
	mcp.WithString("filter",
		mcp.Description("Filter to apply (default 'signed_float')"),
		mcp.Enum("numeric", "signed_numeric", "signed_float")),
)

var ToolLocaleInfo = mcp.NewTool("locale_info",
	mcp.WithDescription(
		"Look up the decimal and grouping separators of a locale and how a currency is displayed there."),
	mcp.WithString("locale",
		mcp.Required(),
		mcp.Description("BCP 47 locale tag (e.g. 'fr-FR')")),
	mcp.WithString("currency",
		mcp.Description("ISO 4217 currency code (default from server config)")),
)

var ToolFormatTemplate = mcp.NewTool("format_template",
	mcp.WithDescription(
		"Splice digits into a fixed template such as a US telephone number '(555) 123-4567', "+
			"a social security number or an employer identification number. Non-digits are ignored."),
	mcp.WithString("template",
		mcp.Required(),
		mcp.Description("Template name"),
		mcp.Enum("telephone", "ssn", "ein")),
	mcp.WithString("digits",
		mcp.Required(),
		mcp.Description("The digits to place (e.g. '5551234567')")),
)

var ToolListPresets = mcp.NewTool("list_presets",
	mcp.WithDescription(
		"List the field presets stored on the numerics API server, newest first. "+
			"Only available when the server is configured with an API URL."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of presets to return (default 20)")),
	mcp.WithString("cursor",
		mcp.Description("Cursor from a previous call to fetch the next page")),
)

var ToolFormatWithPreset = mcp.NewTool("format_with_preset",
	mcp.WithDescription(
		"Format a value with a stored preset, identified by its ID or name. "+
			"Only available when the server is configured with an API URL."),
	mcp.WithString("preset",
		mcp.Required(),
		mcp.Description("Preset ID (e.g. 'pre_...') or name (e.g. 'invoice-total')")),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("The raw value to format")),
	mcp.WithString("trigger",
		mcp.Description("'blur' finalizes the value; 'change' formats as if typing"),
		mcp.Enum("none", "change", "blur")),
)
