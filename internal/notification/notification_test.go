package notification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/agenda-api/internal/appointment"
)

func TestBuildReminders(t *testing.T) {
	day := time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC)
	therapist := uuid.New()

	appts := []appointment.Appointment{
		{
			ID:          uuid.New(),
			Date:        day,
			Start:       "09:00",
			End:         "10:00",
			PatientName: "Ana Morales",
			TherapistID: therapist,
			Status:      appointment.StatusScheduled,
		},
		{
			ID:          uuid.New(),
			Date:        day,
			Start:       "11:00",
			End:         "12:00",
			PatientName: "Luis Vega",
			TherapistID: therapist,
			Status:      appointment.StatusCancelled,
		},
	}

	reminders := BuildReminders(appts, day)

	require.Len(t, reminders, 1, "only Agendado appointments get reminders")
	r := reminders[0]
	assert.Equal(t, therapist, r.UserID)
	assert.Equal(t, KindAppointmentReminder, r.Kind)
	assert.Equal(t, appts[0].ID, *r.RefID)
	assert.Contains(t, r.Message, "Ana Morales")
	assert.Contains(t, r.Message, "2026-04-07")
	assert.Contains(t, r.Message, "09:00")
}

func TestBuildRemindersEmpty(t *testing.T) {
	assert.Empty(t, BuildReminders(nil, time.Now()))
}
