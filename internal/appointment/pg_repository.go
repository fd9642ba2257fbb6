package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentColumns = `
	id, fecha, hora_inicio, hora_fin, space_id,
	patient_id, patient_name, therapist_id, therapist_name,
	estado, modalidad, materia, notas, created_at, updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.Date,
		&a.Start,
		&a.End,
		&a.SpaceID,
		&a.PatientID,
		&a.PatientName,
		&a.TherapistID,
		&a.TherapistName,
		&a.Status,
		&a.Modality,
		&a.Subject,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) ListBySpaceAndDay(ctx context.Context, spaceID uuid.UUID, day time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE space_id = $1 AND fecha = $2::date
		ORDER BY hora_inicio, created_at
	`, spaceID, day)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) ListByDay(ctx context.Context, day time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE fecha = $1::date
		ORDER BY space_id, hora_inicio, created_at
	`, day)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) ListByRange(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE fecha >= $1::date AND fecha <= $2::date
		ORDER BY fecha, space_id, hora_inicio
	`, from, to)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1
		ORDER BY fecha DESC, hora_inicio DESC
		LIMIT $2 OFFSET $3
	`, patientID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) Create(ctx context.Context, a Appointment) (*Appointment, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (
			id, fecha, hora_inicio, hora_fin, space_id,
			patient_id, patient_name, therapist_id, therapist_name,
			estado, modalidad, materia, notas, created_at, updated_at
		)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
		RETURNING`+appointmentColumns+`
	`, a.ID, a.Date, a.Start, a.End, a.SpaceID,
		a.PatientID, a.PatientName, a.TherapistID, a.TherapistName,
		a.Status, a.Modality, a.Subject, a.Notes)

	return scanAppointment(row)
}

func (r *PgRepository) Update(ctx context.Context, a Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET fecha = $2::date,
		    hora_inicio = $3,
		    hora_fin = $4,
		    space_id = $5,
		    patient_id = $6,
		    patient_name = $7,
		    therapist_id = $8,
		    therapist_name = $9,
		    estado = $10,
		    modalidad = $11,
		    materia = $12,
		    notas = $13,
		    updated_at = now()
		WHERE id = $1
		RETURNING`+appointmentColumns+`
	`, a.ID, a.Date, a.Start, a.End, a.SpaceID,
		a.PatientID, a.PatientName, a.TherapistID, a.TherapistName,
		a.Status, a.Modality, a.Subject, a.Notes)

	return scanAppointment(row)
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET estado = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING`+appointmentColumns+`
	`, id, to)

	return scanAppointment(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) FindScheduledEndedBefore(ctx context.Context, cutoff time.Time) ([]Appointment, error) {
	// hora_fin is zero-padded HH:mm, so lexical comparison is chronological
	clock := cutoff.Format("15:04")

	rows, err := r.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE estado = 'Agendado'
		  AND (fecha < $1::date OR (fecha = $1::date AND hora_fin <= $2))
	`, cutoff, clock)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointment_events (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert appointment event: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
