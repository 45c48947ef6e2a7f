package formatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/numerics/internal/logging"
	"github.com/mbd888/numerics/internal/presets"
	"github.com/mbd888/numerics/pkg/field"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	svc := presets.NewService(presets.NewMemoryStore(), logging.Discard())
	_, err := svc.Create(context.Background(), presets.CreateRequest{
		Name:    "pct-0-100",
		Kind:    field.KindPercent,
		Options: field.Options{Min: "0", Max: "100"},
	})
	require.NoError(t, err)

	r := gin.New()
	NewHandler(svc, "en-US", "USD", logging.Discard()).RegisterRoutes(r.Group("/v1"))
	return r
}

func post(t *testing.T, r http.Handler, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func TestFormat(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		name    string
		body    map[string]any
		display string
		numeric string
	}{
		{"float groups thousands", map[string]any{"value": "1234.567", "trigger": "change"}, "1,234.567", "1234.567"},
		{"float rounds down", map[string]any{"value": "1.29", "decimalPlaces": 1}, "1.2", "1.2"},
		{"percent appends sign", map[string]any{"kind": "percent", "value": "12.5", "trigger": "blur"}, "12.5%", "12.5"},
		{"percent while keyed", map[string]any{"kind": "percent", "value": "12.5", "userKeyed": true}, "12.5", "12.5"},
		{"currency pads on blur", map[string]any{"kind": "currency", "value": "1234.5", "trigger": "blur"}, "$1,234.50", "1234.50"},
		{"localized input", map[string]any{"value": "1.234,5", "locales": []string{"de-DE"}}, "1.234,5", "1234.5"},
		{"telephone", map[string]any{"kind": "telephone", "value": "5551234567"}, "(555) 123-4567", "5551234567"},
		{"preset by name", map[string]any{"preset": "pct-0-100", "value": "150", "previous": "15%"}, "15%", "15"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := post(t, r, "/v1/format", tc.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tc.display, resp["display"])
			assert.Equal(t, tc.numeric, resp["numeric"])
		})
	}
}

func TestFormat_Errors(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"max below min", map[string]any{"value": "1", "min": "10", "max": "1"}, http.StatusBadRequest, "invalid_range"},
		{"bad bound", map[string]any{"value": "1", "min": "ten"}, http.StatusBadRequest, "invalid_options"},
		{"unknown kind", map[string]any{"kind": "roman", "value": "1"}, http.StatusBadRequest, "validation_failed"},
		{"bad currency", map[string]any{"kind": "currency", "currency": "dollars"}, http.StatusBadRequest, "validation_failed"},
		{"unknown preset", map[string]any{"preset": "missing", "value": "1"}, http.StatusNotFound, "not_found"},
		{"bad trigger", map[string]any{"value": "1", "trigger": "hover"}, http.StatusBadRequest, "format_failed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := post(t, r, "/v1/format", tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Equal(t, tc.code, resp["error"])
		})
	}
}

func TestFormatBatch(t *testing.T) {
	r := setupRouter(t)

	w, resp := post(t, r, "/v1/format/batch", map[string]any{
		"items": []map[string]any{
			{"kind": "ssn", "value": "123456789"},
			{"value": "1", "trigger": "hover"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	results := resp["results"].([]any)
	require.Len(t, results, 2)
	assert.Equal(t, "123-45-6789", results[0].(map[string]any)["display"])
	assert.NotEmpty(t, results[1].(map[string]any)["error"])
	assert.NotContains(t, results[1].(map[string]any), "display")

	items := make([]map[string]any, MaxBatchSize+1)
	for i := range items {
		items[i] = map[string]any{"value": "1"}
	}
	w, resp = post(t, r, "/v1/format/batch", map[string]any{"items": items})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_batch", resp["error"])
}

func TestFilter(t *testing.T) {
	r := setupRouter(t)

	w, resp := post(t, r, "/v1/filter", map[string]any{"filter": "numeric", "value": "a1b2-3"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "123", resp["value"])

	w, resp = post(t, r, "/v1/filter", map[string]any{"value": "-1.2.3x"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "-1.23", resp["value"])

	w, resp = post(t, r, "/v1/filter", map[string]any{"filter": "hex", "value": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_filter", resp["error"])
}

func TestConvert(t *testing.T) {
	r := setupRouter(t)

	w, resp := post(t, r, "/v1/convert", map[string]any{"value": "-1.234,5", "from": "de-DE", "to": "en-US"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "-1234.5", resp["value"])

	w, resp = post(t, r, "/v1/convert", map[string]any{"value": "1234.5", "to": "de-DE"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1234,5", resp["value"])

	w, resp = post(t, r, "/v1/convert", map[string]any{"value": "1", "from": "!!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_locale", resp["error"])
}

func TestLocale(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/locales/de-DE?currency=JPY", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Locale struct {
			DecimalSeparator string `json:"decimalSeparator"`
			GroupSeparator   string `json:"groupSeparator"`
		} `json:"locale"`
		Currency struct {
			Code           string `json:"code"`
			FractionLength int    `json:"fractionLength"`
		} `json:"currency"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ",", resp.Locale.DecimalSeparator)
	assert.Equal(t, ".", resp.Locale.GroupSeparator)
	assert.Equal(t, "JPY", resp.Currency.Code)
	assert.Equal(t, 0, resp.Currency.FractionLength)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/locales/en-US?currency=nope", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
