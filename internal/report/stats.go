package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/clinicore/agenda-api/internal/appointment"
)

// DB is the subset of pgxpool.Pool the stats queries need; it also
// matches the pgxmock pool used in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SpaceUsage summarizes one space's load over the reporting window.
type SpaceUsage struct {
	SpaceID      string `json:"espacioId"`
	SpaceName    string `json:"espacioNombre"`
	Appointments int64  `json:"citas"`
	Minutes      int64  `json:"minutos"`
}

// Dashboard is the front page of the reporting view.
type Dashboard struct {
	From              string                      `json:"desde"`
	To                string                      `json:"hasta"`
	AppointmentsTotal int64                       `json:"citasTotal"`
	ByStatus          map[appointment.Status]int64 `json:"citasPorEstado"`
	RevenueCents      int64                       `json:"ingresosCents"`
	PendingCents      int64                       `json:"porCobrarCents"`
	SpaceUsage        []SpaceUsage                `json:"usoEspacios"`
}

type StatsRepository struct {
	db DB
}

func NewStatsRepository(db DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetDashboard aggregates appointment and payment figures for the
// date range [from, to], both inclusive.
func (r *StatsRepository) GetDashboard(ctx context.Context, from, to time.Time) (*Dashboard, error) {
	d := &Dashboard{
		From:     from.Format("2006-01-02"),
		To:       to.Format("2006-01-02"),
		ByStatus: map[appointment.Status]int64{},
	}

	rows, err := r.db.Query(ctx, `
		SELECT estado, COUNT(*)
		FROM appointments
		WHERE fecha >= $1::date AND fecha <= $2::date
		GROUP BY estado
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}
	for rows.Next() {
		var status appointment.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, err
		}
		d.ByStatus[status] = count
		d.AppointmentsTotal += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM payments
		WHERE fecha >= $1::date AND fecha <= $2::date AND estado = 'Pagado'
	`, from, to).Scan(&d.RevenueCents)
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM payments
		WHERE fecha >= $1::date AND fecha <= $2::date AND estado = 'Pendiente'
	`, from, to).Scan(&d.PendingCents)
	if err != nil {
		return nil, fmt.Errorf("sum pending: %w", err)
	}

	usageRows, err := r.db.Query(ctx, `
		SELECT s.id, s.nombre, COUNT(a.id),
		       COALESCE(SUM(EXTRACT(EPOCH FROM (a.hora_fin::time - a.hora_inicio::time)) / 60), 0)::bigint
		FROM spaces s
		LEFT JOIN appointments a
		  ON a.space_id = s.id AND a.fecha >= $1::date AND a.fecha <= $2::date
		GROUP BY s.id, s.nombre
		ORDER BY s.nombre
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("space usage: %w", err)
	}
	defer usageRows.Close()

	for usageRows.Next() {
		var u SpaceUsage
		if err := usageRows.Scan(&u.SpaceID, &u.SpaceName, &u.Appointments, &u.Minutes); err != nil {
			return nil, err
		}
		d.SpaceUsage = append(d.SpaceUsage, u)
	}
	if err := usageRows.Err(); err != nil {
		return nil, err
	}

	return d, nil
}
