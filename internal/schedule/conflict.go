package schedule

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEndNotAfterStart is returned before any conflict scan when the
	// candidate interval has zero or negative duration.
	ErrEndNotAfterStart = errors.New("end time must be after start time")
)

// Booking is the scheduler's read-only view of an appointment: just the
// fields needed for overlap and grid computations. The appointment
// package converts its full model into this shape.
type Booking struct {
	ID      uuid.UUID
	SpaceID uuid.UUID
	Date    time.Time
	Start   string
	End     string
}

// Candidate is a booking request being validated: the interval the user
// wants, plus the id of the appointment being edited (uuid.Nil when
// creating) so it does not conflict with itself.
type Candidate struct {
	SpaceID   uuid.UUID
	Date      time.Time
	Start     string
	End       string
	ExcludeID uuid.UUID
}

// SameDay compares two timestamps by calendar day, ignoring the
// time-of-day component entirely.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// FindConflict scans existing bookings in list order and returns the
// first one whose interval overlaps the candidate's, or nil if the slot
// is free. Bookings in a different space or on a different calendar day
// never conflict.
//
// Terminal-state appointments (cancelled, no-show) are not filtered out
// here; the caller decides which bookings to pass in.
func FindConflict(cand Candidate, existing []Booking) (*Booking, error) {
	if Duration(cand.Start, cand.End) <= 0 {
		return nil, ErrEndNotAfterStart
	}

	candStart := MinutesOfDay(cand.Start)
	candEnd := MinutesOfDay(cand.End)

	for i := range existing {
		b := &existing[i]
		if cand.ExcludeID != uuid.Nil && b.ID == cand.ExcludeID {
			continue
		}
		if b.SpaceID != cand.SpaceID {
			continue
		}
		if !SameDay(b.Date, cand.Date) {
			continue
		}

		bStart := MinutesOfDay(b.Start)
		bEnd := MinutesOfDay(b.End)

		if overlaps(candStart, candEnd, bStart, bEnd) {
			return b, nil
		}
	}

	return nil, nil
}

// overlaps implements the half-open interval test plus both containment
// cases. The containment clauses are subsumed by the first test; they
// are kept to mirror the booking rules as originally written, and the
// equivalence is pinned down in the property tests.
func overlaps(candStart, candEnd, bStart, bEnd int) bool {
	if candStart < bEnd && candEnd > bStart {
		return true
	}
	if candStart <= bStart && candEnd >= bEnd {
		return true
	}
	if bStart <= candStart && bEnd >= candEnd {
		return true
	}
	return false
}
