package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

var (
	spaceA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	spaceB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	day1   = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	day2   = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
)

func booking(id string, space uuid.UUID, date time.Time, start, end string) Booking {
	return Booking{
		ID:      uuid.MustParse(id),
		SpaceID: space,
		Date:    date,
		Start:   start,
		End:     end,
	}
}

func TestFindConflictOverlap(t *testing.T) {
	existing := []Booking{
		booking("aaaaaaaa-0000-0000-0000-000000000001", spaceA, day1, "09:00", "10:00"),
	}

	got, err := FindConflict(Candidate{SpaceID: spaceA, Date: day1, Start: "09:30", End: "10:30"}, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != existing[0].ID {
		t.Fatalf("expected conflict with existing booking, got %v", got)
	}
}

func TestFindConflictAdjacentIntervals(t *testing.T) {
	existing := []Booking{
		booking("aaaaaaaa-0000-0000-0000-000000000001", spaceA, day1, "09:00", "10:00"),
	}

	got, err := FindConflict(Candidate{SpaceID: spaceA, Date: day1, Start: "10:00", End: "11:00"}, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("back-to-back intervals must not conflict, got %v", got)
	}
}

func TestFindConflictEndNotAfterStart(t *testing.T) {
	for _, cand := range []Candidate{
		{SpaceID: spaceA, Date: day1, Start: "10:00", End: "10:00"},
		{SpaceID: spaceA, Date: day1, Start: "11:00", End: "10:00"},
	} {
		_, err := FindConflict(cand, nil)
		if !errors.Is(err, ErrEndNotAfterStart) {
			t.Errorf("candidate %s-%s: err = %v, want ErrEndNotAfterStart", cand.Start, cand.End, err)
		}
	}
}

func TestFindConflictScopes(t *testing.T) {
	existing := []Booking{
		booking("aaaaaaaa-0000-0000-0000-000000000001", spaceA, day1, "09:00", "10:00"),
	}

	tests := []struct {
		name string
		cand Candidate
	}{
		{"other space", Candidate{SpaceID: spaceB, Date: day1, Start: "09:00", End: "10:00"}},
		{"other day", Candidate{SpaceID: spaceA, Date: day2, Start: "09:00", End: "10:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindConflict(tt.cand, existing)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != nil {
				t.Fatalf("expected no conflict, got %v", got)
			}
		})
	}
}

func TestFindConflictDateComparedByCalendarDay(t *testing.T) {
	// the stored date may carry an arbitrary time-of-day component
	existing := []Booking{
		booking("aaaaaaaa-0000-0000-0000-000000000001", spaceA,
			time.Date(2026, 3, 9, 14, 22, 7, 0, time.UTC), "09:00", "10:00"),
	}

	got, err := FindConflict(Candidate{SpaceID: spaceA, Date: day1, Start: "09:00", End: "09:30"}, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("bookings on the same calendar day must conflict regardless of timestamp noise")
	}
}

func TestFindConflictSelfExclusion(t *testing.T) {
	id := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	existing := []Booking{
		booking(id.String(), spaceA, day1, "09:00", "10:00"),
	}

	// editing X with an unchanged interval never conflicts with itself
	got, err := FindConflict(Candidate{
		SpaceID: spaceA, Date: day1, Start: "09:00", End: "10:00", ExcludeID: id,
	}, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("self-exclusion failed, got %v", got)
	}
}

func TestFindConflictContainment(t *testing.T) {
	existing := []Booking{
		booking("aaaaaaaa-0000-0000-0000-000000000001", spaceA, day1, "09:00", "11:00"),
	}

	tests := []struct {
		name       string
		start, end string
	}{
		{"candidate inside existing", "09:30", "10:30"},
		{"candidate contains existing", "08:00", "12:00"},
		{"identical interval", "09:00", "11:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindConflict(Candidate{SpaceID: spaceA, Date: day1, Start: tt.start, End: tt.end}, existing)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil {
				t.Fatal("expected conflict")
			}
		})
	}
}

func TestFindConflictFirstMatchWins(t *testing.T) {
	existing := []Booking{
		booking("aaaaaaaa-0000-0000-0000-000000000001", spaceA, day1, "09:00", "10:00"),
		booking("aaaaaaaa-0000-0000-0000-000000000002", spaceA, day1, "09:30", "11:00"),
	}

	got, err := FindConflict(Candidate{SpaceID: spaceA, Date: day1, Start: "09:00", End: "12:00"}, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != existing[0].ID {
		t.Fatalf("expected the first booking in list order, got %v", got)
	}
}

// The overlap predicate must be symmetric: if A conflicts with B then B,
// presented as a candidate, conflicts with A. Exercised over a grid of
// half-hour intervals.
func TestOverlapSymmetry(t *testing.T) {
	var intervals [][2]string
	for s := 7 * 60; s < 12*60; s += 30 {
		for e := s + 30; e <= 12*60; e += 30 {
			intervals = append(intervals, [2]string{ClockOfMinutes(s), ClockOfMinutes(e)})
		}
	}

	idA := uuid.MustParse("aaaaaaaa-0000-0000-0000-00000000000a")
	idB := uuid.MustParse("aaaaaaaa-0000-0000-0000-00000000000b")

	for _, a := range intervals {
		for _, b := range intervals {
			ab, err := FindConflict(
				Candidate{SpaceID: spaceA, Date: day1, Start: a[0], End: a[1]},
				[]Booking{booking(idB.String(), spaceA, day1, b[0], b[1])},
			)
			if err != nil {
				t.Fatal(err)
			}
			ba, err := FindConflict(
				Candidate{SpaceID: spaceA, Date: day1, Start: b[0], End: b[1]},
				[]Booking{booking(idA.String(), spaceA, day1, a[0], a[1])},
			)
			if err != nil {
				t.Fatal(err)
			}
			if (ab != nil) != (ba != nil) {
				t.Fatalf("asymmetric overlap: %v vs %v", a, b)
			}
		}
	}
}

// The containment clauses in overlaps are redundant with the half-open
// test; pin the equivalence so a future simplification is safe.
func TestOverlapClausesEquivalentToHalfOpenTest(t *testing.T) {
	for cs := 0; cs < 16; cs++ {
		for ce := cs + 1; ce <= 16; ce++ {
			for bs := 0; bs < 16; bs++ {
				for be := bs + 1; be <= 16; be++ {
					got := overlaps(cs, ce, bs, be)
					want := cs < be && ce > bs
					if got != want {
						t.Fatalf("overlaps(%d,%d,%d,%d) = %v, half-open says %v", cs, ce, bs, be, got, want)
					}
				}
			}
		}
	}
}

func TestDisjointNeverConflict(t *testing.T) {
	existing := []Booking{
		booking("aaaaaaaa-0000-0000-0000-000000000001", spaceA, day1, "09:00", "10:00"),
	}

	for _, iv := range [][2]string{{"07:00", "09:00"}, {"10:00", "11:30"}, {"11:30", "12:00"}} {
		got, err := FindConflict(Candidate{SpaceID: spaceA, Date: day1, Start: iv[0], End: iv[1]}, existing)
		if err != nil {
			t.Fatal(err)
		}
		if got != nil {
			t.Errorf("disjoint interval %v reported conflict", iv)
		}
	}
}
