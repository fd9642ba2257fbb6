package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/schedule"
)

// Status is the booking lifecycle state. The wire values are the
// Spanish labels the rest of the product uses.
type Status string

const (
	StatusScheduled Status = "Agendado"
	StatusCompleted Status = "Completado"
	StatusCancelled Status = "Cancelado"
	StatusNoShow    Status = "NoAsistio"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether the status ends the booking lifecycle.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

type Modality string

const (
	ModalityInPerson Modality = "Presencial"
	ModalityOnline   Modality = "Online"
)

func ValidModality(m Modality) bool {
	return m == ModalityInPerson || m == ModalityOnline
}

// Appointment is one booking of a space for the interval [Start, End)
// on Date. Date carries no meaningful time-of-day component; day
// matching always goes through schedule.SameDay.
type Appointment struct {
	ID            uuid.UUID
	Date          time.Time
	Start         string
	End           string
	SpaceID       uuid.UUID
	PatientID     uuid.UUID
	PatientName   string
	TherapistID   uuid.UUID
	TherapistName string
	Status        Status
	Modality      Modality
	Subject       string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Booking projects the appointment into the scheduler's read-only view.
func (a Appointment) Booking() schedule.Booking {
	return schedule.Booking{
		ID:      a.ID,
		SpaceID: a.SpaceID,
		Date:    a.Date,
		Start:   a.Start,
		End:     a.End,
	}
}

// Bookings converts a day's appointments for conflict and grid use.
func Bookings(appts []Appointment) []schedule.Booking {
	out := make([]schedule.Booking, len(appts))
	for i, a := range appts {
		out[i] = a.Booking()
	}
	return out
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
