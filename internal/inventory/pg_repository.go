package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	itemColumns = `id, nombre, categoria, precio_cents, stock, prestable, created_at, updated_at`
	loanColumns = `l.id, l.item_id, i.nombre, l.patient_id, l.patient_name, l.cantidad, l.loaned_at, l.due_date, l.returned_at`
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Name, &it.Category, &it.PriceCents, &it.Stock, &it.Loanable, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

func scanLoan(row pgx.Row) (*Loan, error) {
	var l Loan
	err := row.Scan(&l.ID, &l.ItemID, &l.ItemName, &l.PatientID, &l.PatientName, &l.Quantity, &l.LoanedAt, &l.DueDate, &l.ReturnedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *PgRepository) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
	return scanItem(row)
}

func (r *PgRepository) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM inventory_items ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *it)
	}
	return result, rows.Err()
}

func (r *PgRepository) CreateItem(ctx context.Context, it Item) (*Item, error) {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO inventory_items (id, nombre, categoria, precio_cents, stock, prestable, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING `+itemColumns+`
	`, it.ID, it.Name, it.Category, it.PriceCents, it.Stock, it.Loanable)
	return scanItem(row)
}

func (r *PgRepository) UpdateItem(ctx context.Context, it Item) (*Item, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE inventory_items
		SET nombre = $2,
		    categoria = $3,
		    precio_cents = $4,
		    stock = $5,
		    prestable = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+itemColumns+`
	`, it.ID, it.Name, it.Category, it.PriceCents, it.Stock, it.Loanable)
	return scanItem(row)
}

func (r *PgRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *PgRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Item, error) {
	// the WHERE guard keeps stock non-negative without a transaction
	row := r.pool.QueryRow(ctx, `
		UPDATE inventory_items
		SET stock = stock + $2,
		    updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING `+itemColumns+`
	`, id, delta)

	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			// distinguish a missing item from an underflow
			if _, getErr := r.GetItem(ctx, id); getErr == nil {
				return nil, ErrInsufficientStock
			}
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return it, nil
}

func (r *PgRepository) GetLoan(ctx context.Context, id uuid.UUID) (*Loan, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+loanColumns+`
		FROM inventory_loans l
		JOIN inventory_items i ON i.id = l.item_id
		WHERE l.id = $1
	`, id)
	return scanLoan(row)
}

func (r *PgRepository) CreateLoan(ctx context.Context, l Loan) (*Loan, error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO inventory_loans (id, item_id, patient_id, patient_name, cantidad, loaned_at, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, l.ID, l.ItemID, l.PatientID, l.PatientName, l.Quantity, l.LoanedAt, l.DueDate)
	if err != nil {
		return nil, err
	}
	return r.GetLoan(ctx, l.ID)
}

func (r *PgRepository) CloseLoan(ctx context.Context, id uuid.UUID, returnedAt time.Time) (*Loan, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE inventory_loans
		SET returned_at = $2
		WHERE id = $1 AND returned_at IS NULL
	`, id, returnedAt)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetLoan(ctx, id); getErr == nil {
			return nil, ErrLoanAlreadyClosed
		}
		return nil, ErrLoanNotFound
	}
	return r.GetLoan(ctx, id)
}

func (r *PgRepository) ListOpenLoans(ctx context.Context) ([]Loan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+loanColumns+`
		FROM inventory_loans l
		JOIN inventory_items i ON i.id = l.item_id
		WHERE l.returned_at IS NULL
		ORDER BY l.due_date
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *l)
	}
	return result, rows.Err()
}
