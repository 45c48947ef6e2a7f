package presets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mbd888/numerics/internal/idgen"
	"github.com/mbd888/numerics/internal/pagination"
	"github.com/mbd888/numerics/internal/syncutil"
	"github.com/mbd888/numerics/internal/traces"
	"github.com/mbd888/numerics/internal/validation"
	"github.com/mbd888/numerics/pkg/field"
	"github.com/mbd888/numerics/pkg/numeric"
)

// ErrInvalidOptions wraps configuration errors reported by field.Build.
var ErrInvalidOptions = errors.New("presets: invalid options")

// CreateRequest is the body of POST /v1/presets.
type CreateRequest struct {
	Name string     `json:"name"`
	Kind field.Kind `json:"kind"`
	field.Options
}

// UpdateRequest is the body of PATCH /v1/presets/:id. Nil fields are left
// unchanged; Options replaces all options when present.
type UpdateRequest struct {
	Name    *string        `json:"name"`
	Kind    *field.Kind    `json:"kind"`
	Options *field.Options `json:"options"`
}

// FormatResult is the outcome of formatting a value with a preset.
type FormatResult struct {
	Display string `json:"display"`
	Numeric string `json:"numeric"`
}

// Service implements preset lifecycle operations on top of a Store.
type Service struct {
	store  Store
	locks  *syncutil.KeyedMutex // serializes read-modify-write per preset ID
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a preset service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		locks:  syncutil.NewKeyedMutex(),
		logger: logger.With("component", "presets"),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Create validates and stores a new preset.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Preset, error) {
	req.Name = validation.SanitizeString(req.Name, 64)
	if req.Kind == "" {
		req.Kind = field.KindFloat
	}
	if errs := validateOptions(req.Name, req.Kind, req.Options); len(errs) > 0 {
		return nil, errs
	}

	now := s.now()
	p := &Preset{
		ID:        idgen.Preset(),
		Name:      req.Name,
		Kind:      req.Kind,
		Options:   req.Options,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := p.Build(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("preset created", "id", p.ID, "name", p.Name, "kind", p.Kind)
	return p, nil
}

// Get returns a preset by ID.
func (s *Service) Get(ctx context.Context, id string) (*Preset, error) {
	return s.store.Get(ctx, id)
}

// Resolve looks a preset up by ID or, failing the ID shape, by name.
func (s *Service) Resolve(ctx context.Context, ref string) (*Preset, error) {
	if validation.IsValidPresetID(ref) {
		return s.store.Get(ctx, ref)
	}
	return s.store.GetByName(ctx, ref)
}

// List returns a page of presets, newest first, and the cursor of the next
// page when there is one.
func (s *Service) List(ctx context.Context, limit int, cursor string) ([]*Preset, string, error) {
	after, err := pagination.Decode(cursor)
	if err != nil {
		return nil, "", err
	}
	items, err := s.store.List(ctx, limit+1, after)
	if err != nil {
		return nil, "", err
	}
	page := pagination.Trim(items, limit, func(p *Preset) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})
	return page.Items, page.Next, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Preset, error) {
	unlock, err := s.locks.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		p.Name = validation.SanitizeString(*req.Name, 64)
	}
	if req.Kind != nil {
		p.Kind = *req.Kind
	}
	if req.Options != nil {
		p.Options = *req.Options
	}
	if errs := validateOptions(p.Name, p.Kind, p.Options); len(errs) > 0 {
		return nil, errs
	}
	if _, err := p.Build(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	p.UpdatedAt = s.now()
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("preset updated", "id", p.ID, "name", p.Name)
	return p, nil
}

// Delete removes a preset.
func (s *Service) Delete(ctx context.Context, id string) error {
	unlock, err := s.locks.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("preset deleted", "id", id)
	return nil
}

// Format runs value through the preset's pipeline.
func (s *Service) Format(ctx context.Context, ref, value, previous string, fctx numeric.Context) (*FormatResult, error) {
	p, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	_, span := traces.StartSpan(ctx, "presets.format", traces.PresetID(p.ID), traces.Kind(string(p.Kind)))
	defer span.End()

	cfg, err := p.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	display, canonical := cfg.Apply(value, previous, fctx)
	return &FormatResult{Display: display, Numeric: canonical}, nil
}

func validateOptions(name string, kind field.Kind, opts field.Options) validation.ValidationErrors {
	return validation.Validate(
		validation.Required("name", name),
		validation.ValidName("name", name),
		validation.ValidKind("kind", string(kind)),
		validation.ValidLocales("locales", opts.Locales),
		validation.ValidCurrency("currency", opts.Currency),
		validation.ValidPlaces("decimalPlaces", opts.DecimalPlaces),
		validation.MaxLength("min", opts.Min, validation.MaxValueLength),
		validation.MaxLength("max", opts.Max, validation.MaxValueLength),
		validation.ValidBound("min", opts.Min),
		validation.ValidBound("max", opts.Max),
	)
}
