package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mbd888/numerics/internal/metrics"
	"github.com/mbd888/numerics/internal/presets"
	"github.com/mbd888/numerics/internal/ratelimit"
	"github.com/mbd888/numerics/internal/traces"
	"github.com/mbd888/numerics/pkg/field"
	"github.com/mbd888/numerics/pkg/locale"
)

// MaxFields is the number of fields one connection may mount at once.
const MaxFields = 64

// PresetResolver looks presets up by ID or name.
type PresetResolver interface {
	Resolve(ctx context.Context, ref string) (*presets.Preset, error)
}

// Config holds the defaults and limits applied to every session.
type Config struct {
	DefaultLocale   string
	DefaultCurrency string
	// EventsPerSecond throttles inbound events; zero disables throttling.
	EventsPerSecond int
	MaxFields       int
}

type liveField struct {
	field *field.Field
	kind  field.Kind
}

// Session owns the fields mounted over one connection. Events are handled
// one at a time in arrival order; Handle must not be called concurrently.
type Session struct {
	id       string
	cfg      Config
	presets  PresetResolver
	emit     func(Outbound)
	logger   *slog.Logger
	loop     *field.Loop
	throttle *ratelimit.Bucket
	fields   map[string]*liveField
}

// NewSession creates a session that reports every outbound message to emit.
func NewSession(id string, cfg Config, resolver PresetResolver, emit func(Outbound), logger *slog.Logger) *Session {
	if cfg.MaxFields <= 0 {
		cfg.MaxFields = MaxFields
	}
	s := &Session{
		id:      id,
		cfg:     cfg,
		presets: resolver,
		emit:    emit,
		logger:  logger.With("session_id", id),
		loop:    field.NewLoop(),
		fields:  make(map[string]*liveField),
	}
	if cfg.EventsPerSecond > 0 {
		s.throttle = ratelimit.NewBucket(float64(cfg.EventsPerSecond), cfg.EventsPerSecond)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Fields returns the number of mounted fields.
func (s *Session) Fields() int { return len(s.fields) }

// HandleRaw decodes and handles one client frame.
func (s *Session) HandleRaw(ctx context.Context, raw []byte) {
	var msg Inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.emit(errorMsg("", CodeInvalidMessage, "message is not valid JSON"))
		return
	}
	s.Handle(ctx, msg)
}

// Handle runs one event, then any corrections it deferred.
func (s *Session) Handle(ctx context.Context, msg Inbound) {
	if s.throttle != nil && !s.throttle.Allow() {
		s.emit(errorMsg(msg.Field, CodeRateLimited, "too many events"))
		return
	}

	s.dispatch(ctx, msg)
	s.loop.Flush()
}

func (s *Session) dispatch(ctx context.Context, msg Inbound) {
	switch msg.Type {
	case TypeMount:
		s.mount(ctx, msg)
		return
	case TypeKeyDown, TypeChange, TypeBlur, TypeSet, TypeUnmount:
	default:
		s.emit(errorMsg(msg.Field, CodeUnknownType, fmt.Sprintf("unknown message type %q", msg.Type)))
		return
	}

	lf, ok := s.fields[msg.Field]
	if !ok {
		s.emit(errorMsg(msg.Field, CodeUnknownField, "field is not mounted"))
		return
	}

	f := lf.field
	switch msg.Type {
	case TypeKeyDown:
		s.emit(keyDownMsg(msg.Field, f.KeyDown(msg.Key)))
	case TypeChange:
		selectionEnd := -1
		if msg.SelectionEnd != nil {
			selectionEnd = *msg.SelectionEnd
		}
		f.Change(msg.Value, selectionEnd)
		s.emit(displayMsg(msg.Field, f.Display()))
	case TypeBlur:
		f.Blur(msg.Value)
		s.emit(displayMsg(msg.Field, f.Display()))
	case TypeSet:
		f.SetValue(msg.Value)
		s.emit(displayMsg(msg.Field, f.Display()))
	case TypeUnmount:
		s.unmount(msg.Field)
	}
}

func (s *Session) mount(ctx context.Context, msg Inbound) {
	id := msg.Field
	if id == "" {
		s.emit(errorMsg("", CodeInvalidMessage, "field id is required"))
		return
	}
	if _, exists := s.fields[id]; exists {
		s.emit(errorMsg(id, CodeFieldExists, "field is already mounted"))
		return
	}
	if len(s.fields) >= s.cfg.MaxFields {
		s.emit(errorMsg(id, CodeTooManyFields, fmt.Sprintf("at most %d fields per session", s.cfg.MaxFields)))
		return
	}

	kind, opts := msg.Kind, msg.Options
	if msg.Preset != "" {
		p, err := s.resolve(ctx, msg.Preset)
		if err != nil {
			s.emit(errorMsg(id, CodePresetNotFound, err.Error()))
			return
		}
		kind, opts = p.Kind, p.Options
	}
	if len(opts.Locales) == 0 && s.cfg.DefaultLocale != "" {
		opts.Locales = locale.Tags{s.cfg.DefaultLocale}
	}
	if opts.Currency == "" {
		opts.Currency = s.cfg.DefaultCurrency
	}

	cfg, err := field.Build(kind, opts)
	if err != nil {
		s.emit(errorMsg(id, CodeInvalidOptions, err.Error()))
		return
	}

	_, span := traces.StartSpan(ctx, "session.mount",
		traces.SessionID(s.id), traces.FieldID(id), traces.Kind(string(cfg.Kind)))
	defer span.End()

	fieldOpts := append(cfg.Options(),
		field.WithScheduler(s.loop),
		field.WithObserver(metrics.FieldObserver{Kind: string(cfg.Kind)}),
		field.WithLogger(s.logger.With("field", id)),
	)
	f := field.New(msg.Value, func(v string) {
		s.emit(numericMsg(id, v))
	}, fieldOpts...)

	s.fields[id] = &liveField{field: f, kind: cfg.Kind}
	metrics.ActiveFields.Inc()
	s.logger.Debug("field mounted", "field", id, "kind", cfg.Kind)
	s.emit(displayMsg(id, f.Display()))
}

func (s *Session) resolve(ctx context.Context, ref string) (*presets.Preset, error) {
	if s.presets == nil {
		return nil, presets.ErrNotFound
	}
	p, err := s.presets.Resolve(ctx, ref)
	if errors.Is(err, presets.ErrNotFound) {
		return nil, fmt.Errorf("preset %q not found", ref)
	}
	return p, err
}

func (s *Session) unmount(id string) {
	lf, ok := s.fields[id]
	if !ok {
		return
	}
	lf.field.Close()
	delete(s.fields, id)
	metrics.ActiveFields.Dec()
	s.logger.Debug("field unmounted", "field", id, "kind", lf.kind)
}

// Close unmounts every field, cancelling deferred corrections.
func (s *Session) Close() {
	for id := range s.fields {
		s.unmount(id)
	}
}
