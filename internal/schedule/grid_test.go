package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSpan(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"09:00", "09:30", 1},
		{"09:00", "10:00", 2},
		{"09:00", "10:30", 3},
		{"09:00", "09:45", 2}, // 45 minutes still needs two columns
		{"09:00", "09:00", 1}, // degenerate interval renders one column
	}
	for _, tt := range tests {
		b := Booking{Start: tt.start, End: tt.end}
		if got := Span(b); got != tt.want {
			t.Errorf("Span(%s-%s) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestBuildRowSpanAndSkip(t *testing.T) {
	space := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	day := Resolve(&Override{StartHour: 9, EndHour: 11})
	bookings := []Booking{
		{
			ID:      uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001"),
			SpaceID: space,
			Date:    date,
			Start:   "09:00",
			End:     "10:30",
		},
	}

	cells := BuildRow(space, date, day, bookings)

	byLabel := map[string]Cell{}
	for _, c := range cells {
		byLabel[c.Label] = c
	}

	owner := byLabel["09:00"]
	if owner.Owner == nil || owner.Span != 3 || owner.Skip {
		t.Fatalf("09:00 cell = %+v, want owner with span 3", owner)
	}
	for _, label := range []string{"09:30", "10:00"} {
		c := byLabel[label]
		if !c.Skip || c.Owner != nil {
			t.Errorf("%s cell = %+v, want skip", label, c)
		}
	}
	free := byLabel["10:30"]
	if free.Skip || free.Owner != nil {
		t.Errorf("10:30 cell = %+v, want free", free)
	}

	// exactly span-1 cells are skipped after the owning cell
	skipped := 0
	for _, c := range cells {
		if c.Skip {
			skipped++
		}
	}
	if skipped != owner.Span-1 {
		t.Errorf("skipped cells = %d, want %d", skipped, owner.Span-1)
	}
}

func TestBookingAtMatchesExactStartOnly(t *testing.T) {
	space := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	bookings := []Booking{
		{SpaceID: space, Date: date, Start: "09:00", End: "10:30"},
	}

	if BookingAt(space, date, "09:00", bookings) == nil {
		t.Error("expected owner at 09:00")
	}
	if BookingAt(space, date, "09:30", bookings) != nil {
		t.Error("09:30 is covered, not owned")
	}
}

func TestSelectCell(t *testing.T) {
	space := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	day := Resolve(&Override{StartHour: 9, EndHour: 12, Disabled: []string{"10:00"}})
	bookings := []Booking{
		{SpaceID: space, Date: date, Start: "09:00", End: "09:30"},
	}

	if err := SelectCell(space, date, "10:00", day, bookings); !errors.Is(err, ErrHourDisabled) {
		t.Errorf("disabled hour: err = %v, want ErrHourDisabled", err)
	}
	if err := SelectCell(space, date, "09:00", day, bookings); !errors.Is(err, ErrCellOccupied) {
		t.Errorf("occupied cell: err = %v, want ErrCellOccupied", err)
	}
	if err := SelectCell(space, date, "11:00", day, bookings); err != nil {
		t.Errorf("free cell: err = %v, want nil", err)
	}
}
