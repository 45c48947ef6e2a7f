package presets

import (
	"context"

	"github.com/mbd888/numerics/internal/pagination"
)

// Store persists presets.
type Store interface {
	Create(ctx context.Context, p *Preset) error
	Get(ctx context.Context, id string) (*Preset, error)
	GetByName(ctx context.Context, name string) (*Preset, error)
	// List returns up to limit presets, newest first, strictly after the
	// cursor position when one is given.
	List(ctx context.Context, limit int, after *pagination.Cursor) ([]*Preset, error)
	Update(ctx context.Context, p *Preset) error
	Delete(ctx context.Context, id string) error
}

// before reports whether p sorts after the cursor in newest-first order.
func before(p *Preset, c *pagination.Cursor) bool {
	if c == nil {
		return true
	}
	if p.CreatedAt.Equal(c.CreatedAt) {
		return p.ID < c.ID
	}
	return p.CreatedAt.Before(c.CreatedAt)
}
