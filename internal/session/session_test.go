package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/numerics/internal/logging"
	"github.com/mbd888/numerics/internal/presets"
	"github.com/mbd888/numerics/pkg/field"
)

type outbox struct {
	msgs []Outbound
}

func (o *outbox) emit(m Outbound) { o.msgs = append(o.msgs, m) }

func (o *outbox) take() []Outbound {
	msgs := o.msgs
	o.msgs = nil
	return msgs
}

func newTestSession(t *testing.T, cfg Config, resolver PresetResolver) (*Session, *outbox) {
	t.Helper()
	out := &outbox{}
	return NewSession("ses_test", cfg, resolver, out.emit, logging.Discard()), out
}

func mount(s *Session, id string, kind field.Kind, opts field.Options, value string) {
	s.Handle(context.Background(), Inbound{Type: TypeMount, Field: id, Kind: kind, Options: opts, Value: value})
}

func TestSession_MountSendsDisplayThenDeferredCorrection(t *testing.T) {
	s, out := newTestSession(t, Config{}, nil)

	mount(s, "ein", field.KindEIN, field.Options{}, "5432109876")
	assert.Equal(t, []Outbound{
		displayMsg("ein", "54-3210987"),
		numericMsg("ein", "543210987"),
	}, out.take())
	assert.Equal(t, 1, s.Fields())
}

func TestSession_CurrencyMountPads(t *testing.T) {
	s, out := newTestSession(t, Config{DefaultLocale: "en-US", DefaultCurrency: "USD"}, nil)

	mount(s, "amount", field.KindCurrency, field.Options{}, "5")
	assert.Equal(t, []Outbound{
		displayMsg("amount", "$5.00"),
		numericMsg("amount", "5.00"),
	}, out.take())
}

func TestSession_TypingTelephone(t *testing.T) {
	s, out := newTestSession(t, Config{}, nil)
	ctx := context.Background()
	mount(s, "tel", field.KindTelephone, field.Options{}, "")
	out.take()

	s.Handle(ctx, Inbound{Type: TypeKeyDown, Field: "tel", Key: "a"})
	assert.Equal(t, []Outbound{keyDownMsg("tel", false)}, out.take())

	s.Handle(ctx, Inbound{Type: TypeKeyDown, Field: "tel", Key: "5"})
	assert.Equal(t, []Outbound{keyDownMsg("tel", true)}, out.take())

	s.Handle(ctx, Inbound{Type: TypeChange, Field: "tel", Value: "5"})
	assert.Equal(t, []Outbound{
		numericMsg("tel", "5"),
		displayMsg("tel", "(5"),
	}, out.take())
}

func TestSession_PercentBlurAddsSign(t *testing.T) {
	s, out := newTestSession(t, Config{}, nil)
	ctx := context.Background()
	mount(s, "pct", field.KindPercent, field.Options{}, "")
	out.take()

	s.Handle(ctx, Inbound{Type: TypeKeyDown, Field: "pct", Key: "4"})
	s.Handle(ctx, Inbound{Type: TypeChange, Field: "pct", Value: "4"})
	s.Handle(ctx, Inbound{Type: TypeKeyDown, Field: "pct", Key: "8"})
	end := 2
	s.Handle(ctx, Inbound{Type: TypeChange, Field: "pct", Value: "48", SelectionEnd: &end})
	out.take()

	s.Handle(ctx, Inbound{Type: TypeBlur, Field: "pct", Value: "48"})
	assert.Equal(t, []Outbound{displayMsg("pct", "48%")}, out.take())

	s.Handle(ctx, Inbound{Type: TypeSet, Field: "pct", Value: "12"})
	assert.Equal(t, []Outbound{displayMsg("pct", "12%")}, out.take())
}

func TestSession_Errors(t *testing.T) {
	s, out := newTestSession(t, Config{MaxFields: 1}, nil)
	ctx := context.Background()

	s.Handle(ctx, Inbound{Type: TypeChange, Field: "nope", Value: "1"})
	s.Handle(ctx, Inbound{Type: "paste", Field: "nope"})
	s.Handle(ctx, Inbound{Type: TypeMount})
	s.Handle(ctx, Inbound{Type: TypeMount, Field: "bad", Options: field.Options{Min: "10", Max: "1"}})
	s.Handle(ctx, Inbound{Type: TypeMount, Field: "p", Preset: "missing"})
	mount(s, "a", field.KindFloat, field.Options{}, "")
	mount(s, "a", field.KindFloat, field.Options{}, "")
	mount(s, "b", field.KindFloat, field.Options{}, "")
	s.HandleRaw(ctx, []byte("{not json"))

	var codes []string
	for _, m := range out.take() {
		if m.Type == TypeError {
			codes = append(codes, m.Code)
		}
	}
	assert.Equal(t, []string{
		CodeUnknownField,
		CodeUnknownType,
		CodeInvalidMessage,
		CodeInvalidOptions,
		CodePresetNotFound,
		CodeFieldExists,
		CodeTooManyFields,
		CodeInvalidMessage,
	}, codes)
}

func TestSession_UnmountAndClose(t *testing.T) {
	s, out := newTestSession(t, Config{}, nil)
	ctx := context.Background()
	mount(s, "a", field.KindFloat, field.Options{}, "1")
	mount(s, "b", field.KindFloat, field.Options{}, "2")
	require.Equal(t, 2, s.Fields())

	s.Handle(ctx, Inbound{Type: TypeUnmount, Field: "a"})
	assert.Equal(t, 1, s.Fields())
	out.take()

	s.Handle(ctx, Inbound{Type: TypeBlur, Field: "a", Value: "3"})
	msgs := out.take()
	require.Len(t, msgs, 1)
	assert.Equal(t, CodeUnknownField, msgs[0].Code)

	s.Close()
	assert.Equal(t, 0, s.Fields())
}

func TestSession_MountFromPreset(t *testing.T) {
	svc := presets.NewService(presets.NewMemoryStore(), logging.Discard())
	_, err := svc.Create(context.Background(), presets.CreateRequest{
		Name:    "eur-de",
		Kind:    field.KindFloat,
		Options: field.Options{Locales: []string{"de-DE"}},
	})
	require.NoError(t, err)

	s, out := newTestSession(t, Config{DefaultLocale: "en-US"}, svc)
	s.Handle(context.Background(), Inbound{Type: TypeMount, Field: "total", Preset: "eur-de", Value: "1234.5"})
	assert.Equal(t, []Outbound{displayMsg("total", "1.234,5")}, out.take())
}

func TestSession_Throttle(t *testing.T) {
	s, out := newTestSession(t, Config{EventsPerSecond: 1}, nil)
	mount(s, "a", field.KindFloat, field.Options{}, "")
	out.take()

	s.Handle(context.Background(), Inbound{Type: TypeKeyDown, Field: "a", Key: "1"})
	msgs := out.take()
	require.Len(t, msgs, 1)
	assert.Equal(t, CodeRateLimited, msgs[0].Code)
}
