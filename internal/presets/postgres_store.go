package presets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"github.com/mbd888/numerics/internal/pagination"
	"github.com/mbd888/numerics/pkg/field"
)

// PostgresStore persists presets in PostgreSQL. Options are kept as JSONB.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed preset store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const presetColumns = `id, name, kind, options, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, p *Preset) error {
	opts, err := json.Marshal(p.Options)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO presets (`+presetColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, string(p.Kind), opts, p.CreatedAt, p.UpdatedAt,
	)
	return mapError(err)
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Preset, error) {
	return scanPreset(s.db.QueryRowContext(ctx, `
		SELECT `+presetColumns+` FROM presets WHERE id = $1`, id))
}

func (s *PostgresStore) GetByName(ctx context.Context, name string) (*Preset, error) {
	return scanPreset(s.db.QueryRowContext(ctx, `
		SELECT `+presetColumns+` FROM presets WHERE name = $1`, name))
}

func (s *PostgresStore) List(ctx context.Context, limit int, after *pagination.Cursor) ([]*Preset, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if after == nil {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+presetColumns+` FROM presets
			ORDER BY created_at DESC, id DESC
			LIMIT $1`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+presetColumns+` FROM presets
			WHERE (created_at, id) < ($1, $2)
			ORDER BY created_at DESC, id DESC
			LIMIT $3`, after.CreatedAt, after.ID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []*Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, p *Preset) error {
	opts, err := json.Marshal(p.Options)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE presets SET name = $1, kind = $2, options = $3, updated_at = $4
		WHERE id = $5`,
		p.Name, string(p.Kind), opts, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return expectOne(result)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(row scanner) (*Preset, error) {
	p := &Preset{}
	var (
		kind string
		opts []byte
	)
	err := row.Scan(&p.ID, &p.Name, &kind, &opts, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Kind = field.Kind(kind)
	if len(opts) > 0 {
		if err := json.Unmarshal(opts, &p.Options); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrNameTaken
	}
	return err
}

func expectOne(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
