package dayconfig

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrConfigNotFound = errors.New("day schedule config not found")

type Repository interface {
	Get(ctx context.Context, spaceID uuid.UUID, day time.Time) (*Config, error)
	Save(ctx context.Context, cfg Config) (*Config, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Get(ctx context.Context, spaceID uuid.UUID, day time.Time) (*Config, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT fecha, space_id, hora_inicio, hora_fin, horas_deshabilitadas, updated_at
		FROM day_schedule_configs
		WHERE space_id = $1 AND fecha = $2::date
	`, spaceID, day)

	var c Config
	err := row.Scan(&c.Date, &c.SpaceID, &c.StartHour, &c.EndHour, &c.Disabled, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	return &c, nil
}

func (r *PgRepository) Save(ctx context.Context, cfg Config) (*Config, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO day_schedule_configs (fecha, space_id, hora_inicio, hora_fin, horas_deshabilitadas, updated_at)
		VALUES ($1::date, $2, $3, $4, $5, now())
		ON CONFLICT (fecha, space_id) DO UPDATE
		SET hora_inicio = EXCLUDED.hora_inicio,
		    hora_fin = EXCLUDED.hora_fin,
		    horas_deshabilitadas = EXCLUDED.horas_deshabilitadas,
		    updated_at = now()
		RETURNING fecha, space_id, hora_inicio, hora_fin, horas_deshabilitadas, updated_at
	`, cfg.Date, cfg.SpaceID, cfg.StartHour, cfg.EndHour, cfg.Disabled)

	var c Config
	if err := row.Scan(&c.Date, &c.SpaceID, &c.StartHour, &c.EndHour, &c.Disabled, &c.UpdatedAt); err != nil {
		return nil, err
	}

	return &c, nil
}
