// Package tzrule implements time zones described by a base UTC offset and a
// sequence of daylight saving adjustment rules.
//
// A TransitionTime describes one annual boundary, either on a fixed calendar
// date ("March 25") or floating ("second Sunday of March"). An AdjustmentRule
// pairs the transition into and out of daylight saving time with the delta
// applied in between, over a range of dates. A Zone holds the rules and
// answers whether an instant falls into daylight saving time.
//
// All values are immutable once constructed and safe for concurrent use.
package tzrule

import (
	"errors"
	"fmt"
	"time"

	"github.com/ngrash/go-tzrule/internal/datemath"
)

// TransitionTime is the year-independent description of a daylight saving transition.
//
// The zero value is not a valid transition; use NewFixedDateRule or NewFloatingDateRule.
type TransitionTime struct {
	timeOfDay time.Duration
	month     time.Month
	week      int
	day       int
	dayOfWeek time.Weekday
	fixed     bool
}

// NewFixedDateRule returns a transition that happens every year on the given
// month and day at timeOfDay.
//
// timeOfDay is the wall clock time since midnight. It must be within [0, 24h)
// and a whole number of milliseconds.
func NewFixedDateRule(timeOfDay time.Duration, month time.Month, day int) (TransitionTime, error) {
	if err := validateTransitionTime(timeOfDay, month, 1, day, time.Sunday); err != nil {
		return TransitionTime{}, err
	}
	return TransitionTime{
		timeOfDay: timeOfDay,
		month:     month,
		week:      1,
		day:       day,
		dayOfWeek: time.Sunday,
		fixed:     true,
	}, nil
}

// NewFloatingDateRule returns a transition that happens on the week-th
// occurrence of dayOfWeek in month at timeOfDay. Week 5 denotes the last
// occurrence in the month.
func NewFloatingDateRule(timeOfDay time.Duration, month time.Month, week int, dayOfWeek time.Weekday) (TransitionTime, error) {
	if err := validateTransitionTime(timeOfDay, month, week, 1, dayOfWeek); err != nil {
		return TransitionTime{}, err
	}
	return TransitionTime{
		timeOfDay: timeOfDay,
		month:     month,
		week:      week,
		day:       1,
		dayOfWeek: dayOfWeek,
	}, nil
}

func validateTransitionTime(timeOfDay time.Duration, month time.Month, week, day int, dayOfWeek time.Weekday) error {
	var errs []error
	if month < time.January || month > time.December {
		errs = append(errs, fmt.Errorf("%w: month %d: must be in range [1, 12]", ErrInvalidArgument, month))
	}
	if day < 1 || day > 31 {
		errs = append(errs, fmt.Errorf("%w: day %d: must be in range [1, 31]", ErrInvalidArgument, day))
	}
	if week < 1 || week > 5 {
		errs = append(errs, fmt.Errorf("%w: week %d: must be in range [1, 5]", ErrInvalidArgument, week))
	}
	if dayOfWeek < time.Sunday || dayOfWeek > time.Saturday {
		errs = append(errs, fmt.Errorf("%w: day of week %d: must be in range [0, 6]", ErrInvalidArgument, dayOfWeek))
	}
	if timeOfDay < 0 || timeOfDay >= 24*time.Hour {
		errs = append(errs, fmt.Errorf("%w: time of day %v: must not carry a date", ErrInvalidArgument, timeOfDay))
	}
	if timeOfDay%time.Millisecond != 0 {
		errs = append(errs, fmt.Errorf("%w: time of day %v: must be a whole number of milliseconds", ErrInvalidArgument, timeOfDay))
	}
	return errors.Join(errs...)
}

// TimeOfDay returns the wall clock time since midnight at which the transition happens.
func (t TransitionTime) TimeOfDay() time.Duration { return t.timeOfDay }

// Month returns the month of the transition.
func (t TransitionTime) Month() time.Month { return t.month }

// Week returns the occurrence of DayOfWeek in Month for floating rules, 5 meaning last.
// It is 1 for fixed date rules.
func (t TransitionTime) Week() int { return t.week }

// Day returns the day of month for fixed date rules. It is 1 for floating rules.
func (t TransitionTime) Day() int { return t.day }

// DayOfWeek returns the weekday of floating rules. It is Sunday for fixed date rules.
func (t TransitionTime) DayOfWeek() time.Weekday { return t.dayOfWeek }

// IsFixedDateRule reports whether the transition happens on a fixed calendar date.
func (t TransitionTime) IsFixedDateRule() bool { return t.fixed }

// IsZero reports whether t is the zero value, i.e. was not built by a constructor.
func (t TransitionTime) IsZero() bool { return t == TransitionTime{} }

// Equal reports whether t and o describe the same transition.
// Fixed date rules compare time of day, month and day; floating rules compare
// time of day, month, week and weekday. A fixed and a floating rule are never equal.
func (t TransitionTime) Equal(o TransitionTime) bool {
	if t.fixed != o.fixed || t.timeOfDay != o.timeOfDay || t.month != o.month {
		return false
	}
	if t.fixed {
		return t.day == o.day
	}
	return t.week == o.week && t.dayOfWeek == o.dayOfWeek
}

// Resolve returns the wall clock date and time of the transition in year.
// The result is expressed in UTC only to carry no location of its own.
//
// A fixed date past the end of the month, e.g. February 30, is clamped to the
// last day of the month.
func (t TransitionTime) Resolve(year int) time.Time {
	var day int
	if t.fixed {
		day = min(t.day, datemath.DaysInMonth(year, t.month))
	} else {
		day = datemath.NthWeekdayOfMonth(year, t.month, t.week, t.dayOfWeek)
	}
	return time.Date(year, t.month, day, 0, 0, 0, 0, time.UTC).Add(t.timeOfDay)
}

var weekNames = [...]string{"", "first", "second", "third", "fourth", "last"}

func (t TransitionTime) String() string {
	if t.IsZero() {
		return "<undefined transition>"
	}
	clock := time.Time{}.Add(t.timeOfDay).Format("15:04:05.000")
	if t.fixed {
		return fmt.Sprintf("%s %d at %s", t.month, t.day, clock)
	}
	return fmt.Sprintf("%s %s of %s at %s", weekNames[t.week], t.dayOfWeek, t.month, clock)
}
