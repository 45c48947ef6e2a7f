// Package presets stores named field configurations so clients can mount
// a field or format a value by preset name instead of repeating options.
package presets

import (
	"errors"
	"time"

	"github.com/mbd888/numerics/pkg/field"
)

var (
	ErrNotFound  = errors.New("presets: not found")
	ErrNameTaken = errors.New("presets: name already taken")
)

// Preset is a named field kind plus its options.
type Preset struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Kind field.Kind `json:"kind"`
	field.Options
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Build resolves the preset into a field pipeline.
func (p *Preset) Build() (field.Config, error) {
	return field.Build(p.Kind, p.Options)
}

func (p *Preset) clone() *Preset {
	cp := *p
	if p.Locales != nil {
		cp.Locales = append(cp.Locales[:0:0], p.Locales...)
	}
	if p.DecimalPlaces != nil {
		n := *p.DecimalPlaces
		cp.DecimalPlaces = &n
	}
	return &cp
}
