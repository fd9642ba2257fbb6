package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	appointments map[uuid.UUID]Appointment
	events       []EventLog
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{appointments: map[uuid.UUID]Appointment{}}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &a, nil
}

func (f *fakeRepo) ListBySpaceAndDay(_ context.Context, spaceID uuid.UUID, day time.Time) ([]Appointment, error) {
	var out []Appointment
	for _, a := range f.appointments {
		if a.SpaceID == spaceID && a.Date.Equal(day) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByDay(_ context.Context, day time.Time) ([]Appointment, error) {
	var out []Appointment
	for _, a := range f.appointments {
		if a.Date.Equal(day) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByRange(_ context.Context, from, to time.Time) ([]Appointment, error) {
	var out []Appointment
	for _, a := range f.appointments {
		if !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByPatient(_ context.Context, patientID uuid.UUID, _, _ int) ([]Appointment, error) {
	var out []Appointment
	for _, a := range f.appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, a Appointment) (*Appointment, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	f.appointments[a.ID] = a
	return &a, nil
}

func (f *fakeRepo) Update(_ context.Context, a Appointment) (*Appointment, error) {
	if _, ok := f.appointments[a.ID]; !ok {
		return nil, ErrAppointmentNotFound
	}
	a.UpdatedAt = time.Now()
	f.appointments[a.ID] = a
	return &a, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, to Status) (*Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	f.appointments[id] = a
	return &a, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.appointments[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(f.appointments, id)
	return nil
}

func (f *fakeRepo) FindScheduledEndedBefore(_ context.Context, cutoff time.Time) ([]Appointment, error) {
	clock := cutoff.Format("15:04")
	var out []Appointment
	for _, a := range f.appointments {
		if a.Status != StatusScheduled {
			continue
		}
		day := a.Date.Format("2006-01-02")
		cutoffDay := cutoff.Format("2006-01-02")
		if day < cutoffDay || (day == cutoffDay && a.End <= clock) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) InsertEvent(_ context.Context, ev EventLog) error {
	f.events = append(f.events, ev)
	return nil
}

// passLocker runs the critical section directly; the lock path itself
// is covered by the redis client's own behavior.
type passLocker struct{}

func (passLocker) WithAgendaLock(ctx context.Context, _ uuid.UUID, _ time.Time, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	return NewService(repo, passLocker{}, zap.NewNop()), repo
}

func validInput(space uuid.UUID, day time.Time, start, end string) BookingInput {
	return BookingInput{
		Date:          day,
		Start:         start,
		End:           end,
		SpaceID:       space,
		PatientID:     uuid.New(),
		PatientName:   "Ana Morales",
		TherapistID:   uuid.New(),
		TherapistName: "Dr. Rivas",
		Modality:      ModalityInPerson,
		Subject:       "Terapia individual",
	}
}

func TestCreateAndConflict(t *testing.T) {
	svc, _ := testService(t)
	space := uuid.New()
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	first, err := svc.Create(context.Background(), validInput(space, day, "09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, first.Status)

	_, err = svc.Create(context.Background(), validInput(space, day, "09:30", "10:30"))
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.Conflicting.ID)
	assert.Contains(t, conflict.Error(), "Ana Morales")
}

func TestCreateAdjacentSlots(t *testing.T) {
	svc, _ := testService(t)
	space := uuid.New()
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), validInput(space, day, "09:00", "10:00"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validInput(space, day, "10:00", "11:00"))
	assert.NoError(t, err)
}

func TestCreateRejectsInvalidInterval(t *testing.T) {
	svc, _ := testService(t)
	space := uuid.New()
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), validInput(space, day, "10:00", "09:00"))
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), validInput(space, day, "9:00", "10:00"))
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestCancelledAppointmentStillBlocksSlot(t *testing.T) {
	// Known product behavior: terminal estados are not filtered out of
	// the conflict scan, so a cancelled booking keeps blocking its slot.
	svc, _ := testService(t)
	space := uuid.New()
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	first, err := svc.Create(context.Background(), validInput(space, day, "09:00", "10:00"))
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), first.ID, StatusCancelled)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validInput(space, day, "09:00", "10:00"))
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestUpdateExcludesSelf(t *testing.T) {
	svc, _ := testService(t)
	space := uuid.New()
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	created, err := svc.Create(context.Background(), validInput(space, day, "09:00", "10:00"))
	require.NoError(t, err)

	// unchanged interval must not conflict with itself
	in := validInput(space, day, "09:00", "10:00")
	updated, err := svc.Update(context.Background(), created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
}

func TestUpdateConflictsWithOthers(t *testing.T) {
	svc, _ := testService(t)
	space := uuid.New()
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), validInput(space, day, "09:00", "10:00"))
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), validInput(space, day, "11:00", "12:00"))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), second.ID, validInput(space, day, "09:30", "10:30"))
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestCheckSlot(t *testing.T) {
	svc, _ := testService(t)
	space := uuid.New()
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	created, err := svc.Create(context.Background(), validInput(space, day, "09:00", "10:00"))
	require.NoError(t, err)

	hit, err := svc.CheckSlot(context.Background(), space, day, "09:30", "10:30", uuid.Nil)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, created.ID, hit.ID)

	hit, err = svc.CheckSlot(context.Background(), space, day, "10:00", "11:00", uuid.Nil)
	require.NoError(t, err)
	assert.Nil(t, hit)
}

func TestUpdateStatusValidation(t *testing.T) {
	svc, _ := testService(t)
	space := uuid.New()
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	created, err := svc.Create(context.Background(), validInput(space, day, "09:00", "10:00"))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, Status("Perdido"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	updated, err := svc.UpdateStatus(context.Background(), created.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)
}

func TestMarkNoShows(t *testing.T) {
	svc, repo := testService(t)
	space := uuid.New()
	yesterday := time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	past, err := svc.Create(context.Background(), validInput(space, yesterday, "09:00", "10:00"))
	require.NoError(t, err)
	upcoming, err := svc.Create(context.Background(), validInput(space, today, "16:00", "17:00"))
	require.NoError(t, err)

	now := time.Date(2026, 4, 6, 12, 0, 0, 0, time.UTC)
	marked, err := svc.MarkNoShows(context.Background(), now, 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	assert.Equal(t, StatusNoShow, repo.appointments[past.ID].Status)
	assert.Equal(t, StatusScheduled, repo.appointments[upcoming.ID].Status)
}

func TestDeleteMissing(t *testing.T) {
	svc, _ := testService(t)
	err := svc.Delete(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, ErrAppointmentNotFound))
}
