package space

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSpaceNotFound = errors.New("space not found")

// Space is a bookable cubicle or virtual room. Only spaces with
// Available set appear in the agenda grid.
type Space struct {
	ID          uuid.UUID
	Name        string
	Type        string
	Available   bool
	CostPerHour int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Space, error)
	List(ctx context.Context, onlyAvailable bool) ([]Space, error)
	Create(ctx context.Context, s Space) (*Space, error)
	Update(ctx context.Context, s Space) (*Space, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanSpace(row pgx.Row) (*Space, error) {
	var s Space
	err := row.Scan(&s.ID, &s.Name, &s.Type, &s.Available, &s.CostPerHour, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Space, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, nombre, tipo, disponible, costo_por_hora, created_at, updated_at
		FROM spaces
		WHERE id = $1
	`, id)
	return scanSpace(row)
}

func (r *PgRepository) List(ctx context.Context, onlyAvailable bool) ([]Space, error) {
	query := `
		SELECT id, nombre, tipo, disponible, costo_por_hora, created_at, updated_at
		FROM spaces`
	if onlyAvailable {
		query += `
		WHERE disponible`
	}
	query += `
		ORDER BY nombre`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Space
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func (r *PgRepository) Create(ctx context.Context, s Space) (*Space, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO spaces (id, nombre, tipo, disponible, costo_por_hora, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, nombre, tipo, disponible, costo_por_hora, created_at, updated_at
	`, s.ID, s.Name, s.Type, s.Available, s.CostPerHour)
	return scanSpace(row)
}

func (r *PgRepository) Update(ctx context.Context, s Space) (*Space, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE spaces
		SET nombre = $2,
		    tipo = $3,
		    disponible = $4,
		    costo_por_hora = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, nombre, tipo, disponible, costo_por_hora, created_at, updated_at
	`, s.ID, s.Name, s.Type, s.Available, s.CostPerHour)
	return scanSpace(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM spaces WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSpaceNotFound
	}
	return nil
}
