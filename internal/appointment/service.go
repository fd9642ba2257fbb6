package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	redisclient "github.com/clinicore/agenda-api/internal/redis"
	"github.com/clinicore/agenda-api/internal/schedule"
)

const (
	EventAppointmentCreated       = "APPOINTMENT_CREATED"
	EventAppointmentUpdated       = "APPOINTMENT_UPDATED"
	EventAppointmentStatusChanged = "APPOINTMENT_STATUS_CHANGED"
	EventAppointmentDeleted       = "APPOINTMENT_DELETED"
	EventAppointmentNoShow        = "APPOINTMENT_NO_SHOW"
)

var (
	ErrInvalidTime     = errors.New("hora must be a valid HH:mm string")
	ErrInvalidStatus   = errors.New("unknown estado")
	ErrInvalidModality = errors.New("unknown modalidad")
	ErrAgendaBusy      = errors.New("agenda is being modified, please retry")
)

// ConflictError reports the appointment that already occupies the
// requested interval. Handlers surface the conflicting participant and
// time range to the user.
type ConflictError struct {
	Conflicting *Appointment
}

func (e *ConflictError) Error() string {
	c := e.Conflicting
	return fmt.Sprintf("slot conflicts with appointment for %s (%s-%s)", c.PatientName, c.Start, c.End)
}

// BookingInput carries the fields a client may set when creating or
// updating an appointment.
type BookingInput struct {
	Date          time.Time
	Start         string
	End           string
	SpaceID       uuid.UUID
	PatientID     uuid.UUID
	PatientName   string
	TherapistID   uuid.UUID
	TherapistName string
	Modality      Modality
	Subject       string
	Notes         string
}

type Service struct {
	repo   Repository
	locker redisclient.Locker
	log    *zap.Logger
}

func NewService(repo Repository, locker redisclient.Locker, log *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		log:    log,
	}
}

func (in BookingInput) validate() error {
	if !schedule.ValidClock(in.Start) || !schedule.ValidClock(in.End) {
		return ErrInvalidTime
	}
	if !ValidModality(in.Modality) {
		return ErrInvalidModality
	}
	return nil
}

// Create books a new appointment. Conflict validation runs inside a
// per-(space, day) lock so two concurrent requests for the same agenda
// cannot both pass the scan.
func (s *Service) Create(ctx context.Context, in BookingInput) (*Appointment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *Appointment

	err := s.locker.WithAgendaLock(ctx, in.SpaceID, in.Date, func(lockCtx context.Context) error {
		conflict, err := s.checkConflict(lockCtx, in, uuid.Nil)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &ConflictError{Conflicting: conflict}
		}

		appt, err := s.repo.Create(lockCtx, Appointment{
			Date:          in.Date,
			Start:         in.Start,
			End:           in.End,
			SpaceID:       in.SpaceID,
			PatientID:     in.PatientID,
			PatientName:   in.PatientName,
			TherapistID:   in.TherapistID,
			TherapistName: in.TherapistName,
			Status:        StatusScheduled,
			Modality:      in.Modality,
			Subject:       in.Subject,
			Notes:         in.Notes,
		})
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt
		s.logEvent(lockCtx, appt.ID, EventAppointmentCreated, map[string]any{
			"space_id":   in.SpaceID.String(),
			"fecha":      in.Date.Format("2006-01-02"),
			"hora":       in.Start + "-" + in.End,
			"patient_id": in.PatientID.String(),
		})
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrAgendaBusy
		}
		return nil, err
	}

	return created, nil
}

// Update rebooks an existing appointment, re-running conflict
// validation with the appointment's own id excluded.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in BookingInput) (*Appointment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	var updated *Appointment

	err = s.locker.WithAgendaLock(ctx, in.SpaceID, in.Date, func(lockCtx context.Context) error {
		conflict, err := s.checkConflict(lockCtx, in, id)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &ConflictError{Conflicting: conflict}
		}

		next := *existing
		next.Date = in.Date
		next.Start = in.Start
		next.End = in.End
		next.SpaceID = in.SpaceID
		next.PatientID = in.PatientID
		next.PatientName = in.PatientName
		next.TherapistID = in.TherapistID
		next.TherapistName = in.TherapistName
		next.Modality = in.Modality
		next.Subject = in.Subject
		next.Notes = in.Notes

		appt, err := s.repo.Update(lockCtx, next)
		if err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}

		updated = appt
		s.logEvent(lockCtx, appt.ID, EventAppointmentUpdated, map[string]any{
			"fecha": in.Date.Format("2006-01-02"),
			"hora":  in.Start + "-" + in.End,
		})
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrAgendaBusy
		}
		return nil, err
	}

	return updated, nil
}

// checkConflict loads the day's bookings for the space and runs the
// scheduler's first-match scan. All estados participate in the scan,
// matching the booking rules as originally shipped.
func (s *Service) checkConflict(ctx context.Context, in BookingInput, excludeID uuid.UUID) (*Appointment, error) {
	sameDay, err := s.repo.ListBySpaceAndDay(ctx, in.SpaceID, in.Date)
	if err != nil {
		return nil, fmt.Errorf("list day appointments: %w", err)
	}

	hit, err := schedule.FindConflict(schedule.Candidate{
		SpaceID:   in.SpaceID,
		Date:      in.Date,
		Start:     in.Start,
		End:       in.End,
		ExcludeID: excludeID,
	}, Bookings(sameDay))
	if err != nil {
		return nil, err
	}
	if hit == nil {
		return nil, nil
	}

	for i := range sameDay {
		if sameDay[i].ID == hit.ID {
			return &sameDay[i], nil
		}
	}
	return nil, nil
}

// CheckSlot exposes conflict validation without booking, for the form's
// pre-submit check.
func (s *Service) CheckSlot(ctx context.Context, spaceID uuid.UUID, day time.Time, start, end string, excludeID uuid.UUID) (*Appointment, error) {
	if !schedule.ValidClock(start) || !schedule.ValidClock(end) {
		return nil, ErrInvalidTime
	}
	return s.checkConflict(ctx, BookingInput{
		Date: day, Start: start, End: end, SpaceID: spaceID,
	}, excludeID)
}

// UpdateStatus moves an appointment through its lifecycle.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Appointment, error) {
	if !ValidStatus(to) {
		return nil, ErrInvalidStatus
	}

	appt, err := s.repo.UpdateStatus(ctx, id, to)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	s.logEvent(ctx, appt.ID, EventAppointmentStatusChanged, map[string]any{
		"estado": string(to),
	})
	return appt, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logEvent(ctx, id, EventAppointmentDeleted, map[string]any{})
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByDay(ctx context.Context, day time.Time) ([]Appointment, error) {
	return s.repo.ListByDay(ctx, day)
}

func (s *Service) ListByRange(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	return s.repo.ListByRange(ctx, from, to)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListBySpaceAndDay(ctx context.Context, spaceID uuid.UUID, day time.Time) ([]Appointment, error) {
	return s.repo.ListBySpaceAndDay(ctx, spaceID, day)
}

// MarkNoShows flags Agendado appointments whose interval ended before
// now minus the grace period. Intended to be called periodically by the
// worker.
func (s *Service) MarkNoShows(ctx context.Context, now time.Time, grace time.Duration) (int, error) {
	cutoff := now.Add(-grace)

	candidates, err := s.repo.FindScheduledEndedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("find ended appointments: %w", err)
	}

	marked := 0
	for _, appt := range candidates {
		if _, err := s.repo.UpdateStatus(ctx, appt.ID, StatusNoShow); err != nil {
			if errors.Is(err, ErrAppointmentNotFound) {
				continue
			}
			s.log.Warn("mark no-show failed",
				zap.String("appointment_id", appt.ID.String()),
				zap.Error(err))
			continue
		}
		marked++
		s.logEvent(ctx, appt.ID, EventAppointmentNoShow, map[string]any{
			"reason": "worker",
		})
	}

	return marked, nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("marshal event payload", zap.String("event", eventType), zap.Error(err))
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.log.Warn("insert event log",
			zap.String("event", eventType),
			zap.String("appointment_id", appointmentID.String()),
			zap.Error(err))
	}
}
