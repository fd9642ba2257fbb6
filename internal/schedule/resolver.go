package schedule

// Default business hours used when no override has been saved for a
// (date, space) pair: whole-hour slots from 07:00 up to but not
// including 18:00.
const (
	DefaultStartHour = 7
	DefaultEndHour   = 18
)

// Override is an explicit per-day, per-space schedule configuration.
// A nil *Override means "not configured, use the default business day".
type Override struct {
	StartHour int
	EndHour   int
	Disabled  []string
}

// DaySchedule is the resolved bookable grid for one space on one date.
type DaySchedule struct {
	StartHour int
	EndHour   int
	Labels    []string
	Disabled  map[string]bool
	Default   bool
}

// Resolve derives the bookable hour grid from an optional override.
//
// Without an override the grid exposes one whole-hour label per hour of
// the default business day, end-exclusive (07:00..17:00). With an
// override it switches to half-hour granularity between the override's
// bounds, inclusive of the closing hour's :00 mark but with no :30 past
// closing.
//
// Callers editing a draft configuration pass the draft here instead of
// the persisted override; Resolve itself is pure and keeps no state.
func Resolve(ov *Override) DaySchedule {
	if ov == nil {
		return DaySchedule{
			StartHour: DefaultStartHour,
			EndHour:   DefaultEndHour,
			Labels:    wholeHourLabels(DefaultStartHour, DefaultEndHour),
			Disabled:  map[string]bool{},
			Default:   true,
		}
	}

	start, end := ov.StartHour, ov.EndHour
	if start == 0 && end == 0 {
		start, end = DefaultStartHour, DefaultEndHour
	}

	disabled := make(map[string]bool, len(ov.Disabled))
	for _, label := range ov.Disabled {
		disabled[label] = true
	}

	return DaySchedule{
		StartHour: start,
		EndHour:   end,
		Labels:    halfHourLabels(start, end),
		Disabled:  disabled,
		Default:   false,
	}
}

// Available returns the labels that are not disabled, in grid order.
func (d DaySchedule) Available() []string {
	out := make([]string, 0, len(d.Labels))
	for _, label := range d.Labels {
		if !d.Disabled[label] {
			out = append(out, label)
		}
	}
	return out
}

// IsDisabled reports whether a label is blocked for booking.
func (d DaySchedule) IsDisabled(label string) bool {
	return d.Disabled[label]
}

func wholeHourLabels(start, end int) []string {
	labels := make([]string, 0, end-start)
	for h := start; h < end; h++ {
		labels = append(labels, HourLabel(h, 0))
	}
	return labels
}

func halfHourLabels(start, end int) []string {
	labels := make([]string, 0, 2*(end-start)+1)
	for h := start; h <= end; h++ {
		labels = append(labels, HourLabel(h, 0))
		if h < end {
			labels = append(labels, HourLabel(h, 30))
		}
	}
	return labels
}
