package schedule

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrHourDisabled is returned when a cell in the disabled set is selected.
	ErrHourDisabled = errors.New("hour is disabled for this space")
	// ErrCellOccupied is returned when the selected cell already owns an appointment.
	ErrCellOccupied = errors.New("cell already has an appointment")
)

// Cell is one (space, hour-label) position in the rendered timetable.
// Owner is set only on the cell where an appointment starts; that cell
// spans Span half-hour columns and the covered cells are marked Skip.
type Cell struct {
	Label string   `json:"label"`
	Owner *Booking `json:"owner,omitempty"`
	Span  int      `json:"span"`
	Skip  bool     `json:"skip"`
}

// BookingAt returns the booking whose start time exactly equals the
// label for the given space and date, or nil. That booking owns the cell.
func BookingAt(spaceID uuid.UUID, date time.Time, label string, bookings []Booking) *Booking {
	for i := range bookings {
		b := &bookings[i]
		if b.SpaceID == spaceID && SameDay(b.Date, date) && b.Start == label {
			return b
		}
	}
	return nil
}

// SkipCell reports whether the label falls strictly inside some
// booking's interval for the space and date, meaning the cell is covered
// by a preceding cell's span and must not render content of its own.
func SkipCell(spaceID uuid.UUID, date time.Time, label string, bookings []Booking) bool {
	labelMin := MinutesOfDay(label)
	for i := range bookings {
		b := &bookings[i]
		if b.SpaceID != spaceID || !SameDay(b.Date, date) {
			continue
		}
		if MinutesOfDay(b.Start) < labelMin && labelMin < MinutesOfDay(b.End) {
			return true
		}
	}
	return false
}

// Span returns the number of half-hour columns a booking's cell spans:
// ceil(duration / 30).
func Span(b Booking) int {
	d := Duration(b.Start, b.End)
	if d <= 0 {
		return 1
	}
	return (d + 29) / 30
}

// BuildRow computes the full cell row for one space across the resolved
// labels. Disabled status is taken from the day schedule, so callers in
// configuration mode can resolve against a draft override first.
func BuildRow(spaceID uuid.UUID, date time.Time, day DaySchedule, bookings []Booking) []Cell {
	cells := make([]Cell, 0, len(day.Labels))
	for _, label := range day.Labels {
		cell := Cell{Label: label, Span: 1}
		if owner := BookingAt(spaceID, date, label, bookings); owner != nil {
			cell.Owner = owner
			cell.Span = Span(*owner)
		} else if SkipCell(spaceID, date, label, bookings) {
			cell.Skip = true
		}
		cells = append(cells, cell)
	}
	return cells
}

// SelectCell validates a click on an empty grid cell before the booking
// form opens. Disabled hours and occupied cells are rejected locally,
// without touching the backend.
func SelectCell(spaceID uuid.UUID, date time.Time, label string, day DaySchedule, bookings []Booking) error {
	if day.IsDisabled(label) {
		return ErrHourDisabled
	}
	if BookingAt(spaceID, date, label, bookings) != nil {
		return ErrCellOccupied
	}
	return nil
}
