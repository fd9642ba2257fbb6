package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/agenda-api/internal/appointment"
)

type Kind string

const (
	KindAppointmentReminder Kind = "RecordatorioCita"
	KindLoanOverdue         Kind = "PrestamoVencido"
	KindPaymentDue          Kind = "PagoPendiente"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification is one inbox entry for a user. RefID points at the
// entity that triggered it and deduplicates repeated worker runs.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Kind      Kind
	Message   string
	RefID     *uuid.UUID
	Read      bool
	CreatedAt time.Time
}

type Repository interface {
	// Create inserts the notification; duplicates on (kind, ref_id)
	// are silently skipped and reported via the bool.
	Create(ctx context.Context, n Notification) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

// BuildReminders produces a therapist reminder for each Agendado
// appointment on the given day. Pure; the worker persists the result.
func BuildReminders(appts []appointment.Appointment, day time.Time) []Notification {
	var out []Notification
	for _, a := range appts {
		if a.Status != appointment.StatusScheduled {
			continue
		}
		refID := a.ID
		out = append(out, Notification{
			UserID: a.TherapistID,
			Kind:   KindAppointmentReminder,
			Message: fmt.Sprintf("Cita con %s el %s de %s a %s",
				a.PatientName, day.Format("2006-01-02"), a.Start, a.End),
			RefID: &refID,
		})
	}
	return out
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, n Notification) (bool, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, kind, message, ref_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, false, now())
		ON CONFLICT (kind, ref_id) WHERE ref_id IS NOT NULL DO NOTHING
	`, n.ID, n.UserID, n.Kind, n.Message, n.RefID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]Notification, error) {
	query := `
		SELECT id, user_id, kind, message, ref_id, read, created_at
		FROM notifications
		WHERE user_id = $1`
	if unreadOnly {
		query += ` AND NOT read`
	}
	query += `
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Message, &n.RefID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *PgRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET read = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
