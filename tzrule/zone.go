package tzrule

import (
	"fmt"
	"slices"
	"time"
)

// ZoneConfig describes a zone to be created by CreateCustomZone.
type ZoneConfig struct {
	// ID identifies the zone. It must not be empty.
	ID string

	// BaseUTCOffset is the standard time offset from UTC.
	// It must be a whole number of minutes within ±14 hours.
	BaseUTCOffset time.Duration

	DisplayName  string
	StandardName string
	DaylightName string

	// AdjustmentRules must be in chronological order and must neither overlap
	// nor touch. Without rules the zone does not observe daylight saving time.
	AdjustmentRules []AdjustmentRule

	// DisableDaylightSavingTime ignores AdjustmentRules once they are validated.
	DisableDaylightSavingTime bool
}

// Zone is a time zone defined by a base offset and daylight saving adjustment rules.
type Zone struct {
	id            string
	displayName   string
	standardName  string
	daylightName  string
	baseUTCOffset time.Duration
	supportsDST   bool
	rules         []AdjustmentRule
}

// CreateCustomZone validates c and returns the zone it describes.
//
// It fails with ErrInvalidArgument on a malformed id or base offset and with
// ErrInvalidTimeZone when the adjustment rules are inconsistent.
func CreateCustomZone(c ZoneConfig) (*Zone, error) {
	if c.ID == "" {
		return nil, fmt.Errorf("%w: id must not be empty", ErrInvalidArgument)
	}
	if c.BaseUTCOffset%time.Minute != 0 {
		return nil, fmt.Errorf("%w: base offset %v: must be a whole number of minutes", ErrInvalidArgument, c.BaseUTCOffset)
	}
	if c.BaseUTCOffset < -MaxOffset || c.BaseUTCOffset > MaxOffset {
		return nil, fmt.Errorf("%w: base offset %v: must be within ±%v", ErrInvalidArgument, c.BaseUTCOffset, MaxOffset)
	}

	z := &Zone{
		id:            c.ID,
		displayName:   c.DisplayName,
		standardName:  c.StandardName,
		daylightName:  c.DaylightName,
		baseUTCOffset: c.BaseUTCOffset,
		supportsDST:   !c.DisableDaylightSavingTime,
	}
	if err := validateRules(c.BaseUTCOffset, c.AdjustmentRules); err != nil {
		return nil, fmt.Errorf("zone %q: %w", c.ID, err)
	}
	if c.DisableDaylightSavingTime {
		z.daylightName = ""
		return z, nil
	}
	if len(c.AdjustmentRules) == 0 {
		z.supportsDST = false
		return z, nil
	}
	z.rules = slices.Clone(c.AdjustmentRules)
	return z, nil
}

var utcZone = &Zone{id: "UTC", displayName: "(UTC) Coordinated Universal Time", standardName: "Coordinated Universal Time"}

// UTC returns the zone of Coordinated Universal Time.
// Every call returns the same zone.
func UTC() *Zone { return utcZone }

func (z *Zone) ID() string                   { return z.id }
func (z *Zone) DisplayName() string          { return z.displayName }
func (z *Zone) StandardName() string         { return z.standardName }
func (z *Zone) DaylightName() string         { return z.daylightName }
func (z *Zone) BaseUTCOffset() time.Duration { return z.baseUTCOffset }

// SupportsDaylightSavingTime reports whether any instant in z can be in daylight saving time.
func (z *Zone) SupportsDaylightSavingTime() bool { return z.supportsDST }

// AdjustmentRules returns a copy of the rules of z.
// It is empty for zones without daylight saving time.
func (z *Zone) AdjustmentRules() []AdjustmentRule {
	if !z.supportsDST {
		return nil
	}
	return slices.Clone(z.rules)
}

// Config returns the configuration z could be recreated from.
func (z *Zone) Config() ZoneConfig {
	return ZoneConfig{
		ID:              z.id,
		BaseUTCOffset:   z.baseUTCOffset,
		DisplayName:     z.displayName,
		StandardName:    z.standardName,
		DaylightName:    z.daylightName,
		AdjustmentRules: z.AdjustmentRules(),
	}
}

func (z *Zone) String() string {
	if z.displayName != "" {
		return z.displayName
	}
	return z.id
}

// ruleFor returns the rule in force on the calendar date of the wall clock time t.
func (z *Zone) ruleFor(t time.Time) (AdjustmentRule, bool) {
	for _, r := range z.rules {
		if r.Covers(t) {
			return r, true
		}
	}
	return AdjustmentRule{}, false
}

// IsDaylightSavingTime reports whether the instant u is in daylight saving time in z.
//
// The transition into daylight saving time is taken as standard wall clock
// time and the transition out of it as daylight wall clock time, so that
// daylight saving time covers the half-open interval [start, end).
func (z *Zone) IsDaylightSavingTime(u time.Time) bool {
	_, ok := z.daylightRule(u)
	return ok
}

// daylightRule returns the rule that puts u into daylight saving time, if any.
func (z *Zone) daylightRule(u time.Time) (AdjustmentRule, bool) {
	if !z.supportsDST {
		return AdjustmentRule{}, false
	}
	standard := u.UTC().Add(z.baseUTCOffset)
	r, ok := z.ruleFor(standard)
	if !ok {
		return AdjustmentRule{}, false
	}
	daylight := standard.Add(r.daylightDelta)

	if !r.yearStraddling() {
		if r.daylightDelta == 0 {
			return AdjustmentRule{}, false
		}
		start, end := r.Transitions(standard.Year())
		return r, !standard.Before(start) && daylight.Before(end)
	}

	// Across New Year the rule in force on the daylight date decides. Past the
	// last rule the rule of the standard date stays in force.
	if daylight.Year() != standard.Year() {
		if next, ok := z.ruleFor(daylight); ok {
			r = next
			daylight = standard.Add(r.daylightDelta)
		}
	}
	if r.daylightDelta == 0 {
		return AdjustmentRule{}, false
	}
	start, end := r.Transitions(daylight.Year())
	outside := standard.Before(start) && !daylight.Before(end)
	return r, !outside
}

// UTCOffset returns the offset from UTC in effect in z at the instant u.
func (z *Zone) UTCOffset(u time.Time) time.Duration {
	if r, ok := z.daylightRule(u); ok {
		return z.baseUTCOffset + r.daylightDelta
	}
	return z.baseUTCOffset
}

// ToLocal returns u in a fixed location carrying the offset and name in effect in z at u.
func (z *Zone) ToLocal(u time.Time) time.Time {
	name, off := z.standardName, z.baseUTCOffset
	if r, ok := z.daylightRule(u); ok {
		name, off = z.daylightName, off+r.daylightDelta
	}
	return u.In(time.FixedZone(name, int(off/time.Second)))
}

// DaylightTime is the daylight saving period of a zone in one year.
// Start and End are wall clock times expressed in UTC.
type DaylightTime struct {
	Start time.Time
	End   time.Time
	Delta time.Duration
}

// IsZero reports whether d describes no daylight saving time.
func (d DaylightTime) IsZero() bool {
	return d.Start.IsZero() && d.End.IsZero() && d.Delta == 0
}

// DaylightChanges returns the daylight saving period in force in year.
// The zero DaylightTime is returned if z observes no daylight saving time that year.
func (z *Zone) DaylightChanges(year int) DaylightTime {
	if !z.supportsDST {
		return DaylightTime{}
	}
	for _, r := range z.rules {
		if r.dateStart.Year() <= year && year <= r.dateEnd.Year() {
			start, end := r.Transitions(year)
			return DaylightTime{Start: start, End: end, Delta: r.daylightDelta}
		}
	}
	return DaylightTime{}
}
