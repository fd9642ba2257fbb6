package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Status string

const (
	StatusPending Status = "Pendiente"
	StatusPaid    Status = "Pagado"
	StatusVoided  Status = "Anulado"
)

func ValidStatus(s Status) bool {
	return s == StatusPending || s == StatusPaid || s == StatusVoided
}

type Method string

const (
	MethodCash     Method = "Efectivo"
	MethodCard     Method = "Tarjeta"
	MethodTransfer Method = "Transferencia"
)

func ValidMethod(m Method) bool {
	return m == MethodCash || m == MethodCard || m == MethodTransfer
}

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvalidAmount   = errors.New("amount must be positive")
)

// Payment tracks money owed or received for an appointment. Amounts are
// integer cents.
type Payment struct {
	ID            uuid.UUID
	AppointmentID *uuid.UUID
	PatientID     uuid.UUID
	PatientName   string
	AmountCents   int64
	Method        Method
	Status        Status
	Concept       string
	Date          time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]Payment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Payment, error)
	Create(ctx context.Context, p Payment) (*Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const paymentColumns = `
	id, appointment_id, patient_id, patient_name, amount_cents,
	metodo, estado, concepto, fecha, created_at, updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(
		&p.ID, &p.AppointmentID, &p.PatientID, &p.PatientName, &p.AmountCents,
		&p.Method, &p.Status, &p.Concept, &p.Date, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func collectPayments(rows pgx.Rows) ([]Payment, error) {
	defer rows.Close()

	var result []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+paymentColumns+`
		FROM payments
		WHERE id = $1
	`, id)
	return scanPayment(row)
}

func (r *PgRepository) ListByRange(ctx context.Context, from, to time.Time) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+paymentColumns+`
		FROM payments
		WHERE fecha >= $1::date AND fecha <= $2::date
		ORDER BY fecha DESC, created_at DESC
	`, from, to)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+paymentColumns+`
		FROM payments
		WHERE patient_id = $1
		ORDER BY fecha DESC, created_at DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

func (r *PgRepository) Create(ctx context.Context, p Payment) (*Payment, error) {
	if p.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = StatusPending
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO payments (
			id, appointment_id, patient_id, patient_name, amount_cents,
			metodo, estado, concepto, fecha, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::date, now(), now())
		RETURNING`+paymentColumns+`
	`, p.ID, p.AppointmentID, p.PatientID, p.PatientName, p.AmountCents,
		p.Method, p.Status, p.Concept, p.Date)
	return scanPayment(row)
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Payment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE payments
		SET estado = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING`+paymentColumns+`
	`, id, to)
	return scanPayment(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
