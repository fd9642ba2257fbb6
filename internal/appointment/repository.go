package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// For conflict checks and the grid
	ListBySpaceAndDay(ctx context.Context, spaceID uuid.UUID, day time.Time) ([]Appointment, error)
	ListByDay(ctx context.Context, day time.Time) ([]Appointment, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error)

	// Creation and updates
	Create(ctx context.Context, a Appointment) (*Appointment, error)
	Update(ctx context.Context, a Appointment) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// No-show worker
	FindScheduledEndedBefore(ctx context.Context, cutoff time.Time) ([]Appointment, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}
