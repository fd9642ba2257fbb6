package dayconfig

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/schedule"
)

// Config is the persisted per-(date, space) schedule override. Absence
// of a record means the space runs on default business hours that day.
type Config struct {
	Date      time.Time `json:"fecha"`
	SpaceID   uuid.UUID `json:"espacioId"`
	StartHour int       `json:"horaInicio"`
	EndHour   int       `json:"horaFin"`
	Disabled  []string  `json:"horasDeshabilitadas"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Override converts the record into the scheduler's override shape.
// A nil Config resolves to the default schedule.
func (c *Config) Override() *schedule.Override {
	if c == nil {
		return nil
	}
	return &schedule.Override{
		StartHour: c.StartHour,
		EndHour:   c.EndHour,
		Disabled:  c.Disabled,
	}
}
