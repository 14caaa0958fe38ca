package posixtz

import (
	"fmt"
	"strings"
	"time"

	"github.com/ngrash/go-tzrule/internal/datemath"
	"github.com/ngrash/go-tzrule/tzrule"
)

// Format renders z as a TZ string. Daylight saving time follows the last
// adjustment rule of z, as in the footer of a TZif file.
//
// It fails with tzrule.ErrInvalidArgument if z cannot be expressed: its
// names are not abbreviations, or the rule uses February 29 or fractional
// seconds.
func Format(z *tzrule.Zone) (string, error) {
	var b strings.Builder
	if err := writeName(&b, z.StandardName()); err != nil {
		return "", err
	}
	writeHMS(&b, -z.BaseUTCOffset())

	rules := z.AdjustmentRules()
	if len(rules) == 0 {
		return b.String(), nil
	}
	r := rules[len(rules)-1]
	if err := writeName(&b, z.DaylightName()); err != nil {
		return "", err
	}
	if r.DaylightDelta() != time.Hour {
		writeHMS(&b, -(z.BaseUTCOffset() + r.DaylightDelta()))
	}
	for _, t := range []tzrule.TransitionTime{r.DaylightTransitionStart(), r.DaylightTransitionEnd()} {
		b.WriteByte(',')
		if err := writeTransition(&b, t); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func writeName(b *strings.Builder, name string) error {
	if len(name) < 3 {
		return fmt.Errorf("%w: name %q is shorter than 3 characters", tzrule.ErrInvalidArgument, name)
	}
	alpha, quotable := true, true
	for _, ch := range name {
		alpha = alpha && isAlpha(ch)
		quotable = quotable && (isAlpha(ch) || isDigit(ch) || ch == '+' || ch == '-')
	}
	switch {
	case alpha:
		b.WriteString(name)
	case quotable:
		b.WriteString("<" + name + ">")
	default:
		return fmt.Errorf("%w: name %q is not an abbreviation", tzrule.ErrInvalidArgument, name)
	}
	return nil
}

// writeHMS writes d as [-]h[:mm[:ss]].
func writeHMS(b *strings.Builder, d time.Duration) {
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	h, m, s := int(d/time.Hour), int(d/time.Minute%60), int(d/time.Second%60)
	fmt.Fprintf(b, "%d", h)
	if m != 0 || s != 0 {
		fmt.Fprintf(b, ":%02d", m)
	}
	if s != 0 {
		fmt.Fprintf(b, ":%02d", s)
	}
}

func writeTransition(b *strings.Builder, t tzrule.TransitionTime) error {
	if t.TimeOfDay()%time.Second != 0 {
		return fmt.Errorf("%w: transition %v has fractional seconds", tzrule.ErrInvalidArgument, t)
	}
	if t.IsFixedDateRule() {
		// Days past the end of the month resolve to its last day.
		day := min(t.Day(), datemath.DaysInMonth(1, t.Month()))
		if t.Month() == time.February && t.Day() > 28 {
			return fmt.Errorf("%w: transition %v cannot be written as a julian day", tzrule.ErrInvalidArgument, t)
		}
		fmt.Fprintf(b, "J%d", datemath.DayOfYear(t.Month(), day))
	} else {
		fmt.Fprintf(b, "M%d.%d.%d", int(t.Month()), t.Week(), int(t.DayOfWeek()))
	}
	if t.TimeOfDay() != defaultTransitionTime {
		b.WriteByte('/')
		writeHMS(b, t.TimeOfDay())
	}
	return nil
}
