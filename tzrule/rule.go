package tzrule

import (
	"errors"
	"fmt"
	"time"
)

// MaxOffset is the largest distance from UTC a zone may have, in either direction,
// including its daylight delta.
const MaxOffset = 14 * time.Hour

// AdjustmentRule is a daylight saving regime in force between two dates.
type AdjustmentRule struct {
	dateStart     time.Time
	dateEnd       time.Time
	daylightDelta time.Duration
	start         TransitionTime
	end           TransitionTime
}

// NewAdjustmentRule returns a rule in force from dateStart through dateEnd, both
// inclusive. Daylight saving time begins at start and ends at end; in between,
// daylightDelta is added to the base offset of the zone.
//
// The dates must be at midnight of their own location. Only their calendar
// date is kept.
func NewAdjustmentRule(dateStart, dateEnd time.Time, daylightDelta time.Duration, start, end TransitionTime) (AdjustmentRule, error) {
	var errs []error
	if !isMidnight(dateStart) {
		errs = append(errs, fmt.Errorf("%w: date start %v: must not have a time of day", ErrInvalidArgument, dateStart))
	}
	if !isMidnight(dateEnd) {
		errs = append(errs, fmt.Errorf("%w: date end %v: must not have a time of day", ErrInvalidArgument, dateEnd))
	}
	r := AdjustmentRule{
		dateStart:     civilDate(dateStart),
		dateEnd:       civilDate(dateEnd),
		daylightDelta: daylightDelta,
		start:         start,
		end:           end,
	}
	if r.dateStart.After(r.dateEnd) {
		errs = append(errs, fmt.Errorf("%w: date start %s is after date end %s", ErrInvalidArgument, formatDate(r.dateStart), formatDate(r.dateEnd)))
	}
	if daylightDelta%time.Minute != 0 {
		errs = append(errs, fmt.Errorf("%w: daylight delta %v: must be a whole number of minutes", ErrInvalidArgument, daylightDelta))
	}
	if daylightDelta < -MaxOffset || daylightDelta > MaxOffset {
		errs = append(errs, fmt.Errorf("%w: daylight delta %v: must be within ±%v", ErrInvalidArgument, daylightDelta, MaxOffset))
	}
	if start.IsZero() || end.IsZero() {
		errs = append(errs, fmt.Errorf("%w: daylight transitions must be defined", ErrInvalidArgument))
	} else if start.Equal(end) {
		errs = append(errs, fmt.Errorf("%w: daylight transition start equals end (%v)", ErrInvalidArgument, start))
	}
	if err := errors.Join(errs...); err != nil {
		return AdjustmentRule{}, err
	}
	return r, nil
}

func isMidnight(t time.Time) bool {
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}

// civilDate drops the location of t, keeping its calendar date.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DateStart returns the first day the rule is in force, at midnight UTC.
func (r AdjustmentRule) DateStart() time.Time { return r.dateStart }

// DateEnd returns the last day the rule is in force, at midnight UTC.
func (r AdjustmentRule) DateEnd() time.Time { return r.dateEnd }

// DaylightDelta returns the amount added to the base offset during daylight saving time.
func (r AdjustmentRule) DaylightDelta() time.Duration { return r.daylightDelta }

// DaylightTransitionStart returns the transition into daylight saving time.
func (r AdjustmentRule) DaylightTransitionStart() TransitionTime { return r.start }

// DaylightTransitionEnd returns the transition back to standard time.
func (r AdjustmentRule) DaylightTransitionEnd() TransitionTime { return r.end }

// IsZero reports whether r is the zero value. A zero rule stands for a missing rule.
func (r AdjustmentRule) IsZero() bool {
	return r.dateStart.IsZero() && r.dateEnd.IsZero() && r.daylightDelta == 0 && r.start.IsZero() && r.end.IsZero()
}

// Covers reports whether the calendar date of the wall clock time t lies within the rule.
func (r AdjustmentRule) Covers(t time.Time) bool {
	d := civilDate(t)
	return !d.Before(r.dateStart) && !d.After(r.dateEnd)
}

// Transitions returns the wall clock times daylight saving time starts and ends in year.
func (r AdjustmentRule) Transitions(year int) (start, end time.Time) {
	return r.start.Resolve(year), r.end.Resolve(year)
}

// yearStraddling reports whether the daylight saving period runs over new year,
// as it does in the southern hemisphere.
func (r AdjustmentRule) yearStraddling() bool {
	return r.start.Month() > r.end.Month()
}

// Equal reports whether r and o describe the same rule.
func (r AdjustmentRule) Equal(o AdjustmentRule) bool {
	return r.dateStart.Equal(o.dateStart) &&
		r.dateEnd.Equal(o.dateEnd) &&
		r.daylightDelta == o.daylightDelta &&
		r.start.Equal(o.start) &&
		r.end.Equal(o.end)
}

func (r AdjustmentRule) String() string {
	return fmt.Sprintf("%s..%s %v from %v to %v", formatDate(r.dateStart), formatDate(r.dateEnd), r.daylightDelta, r.start, r.end)
}
