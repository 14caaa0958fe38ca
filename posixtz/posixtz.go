// Package posixtz converts between POSIX TZ strings, such as
// "EST5EDT,M3.2.0,M11.1.0", and zones.
//
// A TZ string names the standard time and its offset, optionally followed by
// daylight saving time with its own name, offset and the two annual
// transitions. Offsets are positive west of Greenwich. The daylight offset
// defaults to one hour ahead of standard time, the transitions to the United
// States rules and the transition time to 02:00.
package posixtz

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ngrash/go-tzrule/internal/datemath"
	"github.com/ngrash/go-tzrule/tzrule"
)

const (
	defaultRules          = "M3.2.0,M11.1.0"
	defaultTransitionTime = 2 * time.Hour
)

var (
	// A parsed TZ string applies to all representable years.
	ruleStart = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	ruleEnd   = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Parse returns the zone described by the TZ string s. The zone's id and
// display name are s itself.
//
// It fails with tzrule.ErrInvalidArgument on a malformed string. The
// zero-based day of year form of a transition and transition times outside
// a day are not supported.
func Parse(s string) (*tzrule.Zone, error) {
	p := parser{s: s}
	c, err := p.zone()
	if err != nil {
		return nil, fmt.Errorf("%w: TZ %q: %v", tzrule.ErrInvalidArgument, s, err)
	}
	return tzrule.CreateCustomZone(c)
}

type parser struct {
	s   string
	pos int
}

func (p *parser) done() bool { return p.pos >= len(p.s) }

func (p *parser) peek() byte {
	if p.done() {
		return 0
	}
	return p.s[p.pos]
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("at offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) zone() (tzrule.ZoneConfig, error) {
	c := tzrule.ZoneConfig{ID: p.s, DisplayName: p.s}

	var err error
	if c.StandardName, err = p.name(); err != nil {
		return c, err
	}
	stdWest, err := p.offset()
	if err != nil {
		return c, err
	}
	c.BaseUTCOffset = -stdWest
	if p.done() {
		return c, nil
	}

	if c.DaylightName, err = p.name(); err != nil {
		return c, err
	}
	dstWest := stdWest - time.Hour
	if ch := p.peek(); ch != ',' && ch != 0 {
		if dstWest, err = p.offset(); err != nil {
			return c, err
		}
	}

	rules := p.s[p.pos:]
	if rules == "" {
		rules = defaultRules
	} else if rules[0] != ',' {
		return c, p.errorf("unexpected %q", rules)
	} else {
		rules = rules[1:]
	}
	rp := parser{s: rules}
	start, err := rp.transition()
	if err != nil {
		return c, err
	}
	if rp.peek() != ',' {
		return c, fmt.Errorf("missing end of daylight saving time in %q", rules)
	}
	rp.pos++
	end, err := rp.transition()
	if err != nil {
		return c, err
	}
	if !rp.done() {
		return c, fmt.Errorf("trailing %q", rp.s[rp.pos:])
	}

	r, err := tzrule.NewAdjustmentRule(ruleStart, ruleEnd, stdWest-dstWest, start, end)
	if err != nil {
		return c, err
	}
	c.AdjustmentRules = []tzrule.AdjustmentRule{r}
	return c, nil
}

// name reads an abbreviation, either three or more letters or three or
// more characters in angle brackets.
func (p *parser) name() (string, error) {
	if p.peek() == '<' {
		end := strings.IndexByte(p.s[p.pos:], '>')
		if end < 0 {
			return "", p.errorf("unterminated <")
		}
		name := p.s[p.pos+1 : p.pos+end]
		if len(name) < 3 {
			return "", p.errorf("name %q is shorter than 3 characters", name)
		}
		for _, ch := range name {
			if !isAlpha(ch) && !isDigit(ch) && ch != '+' && ch != '-' {
				return "", p.errorf("invalid character %q in name %q", ch, name)
			}
		}
		p.pos += end + 1
		return name, nil
	}
	start := p.pos
	for !p.done() && isAlpha(rune(p.peek())) {
		p.pos++
	}
	if p.pos-start < 3 {
		return "", p.errorf("name %q is shorter than 3 letters", p.s[start:p.pos])
	}
	return p.s[start:p.pos], nil
}

// offset reads [+-]hh[:mm[:ss]], hours up to 24.
func (p *parser) offset() (time.Duration, error) {
	d, err := p.signedHMS()
	if err != nil {
		return 0, err
	}
	if d < -24*time.Hour || d > 24*time.Hour {
		return 0, p.errorf("offset %v out of range", d)
	}
	return d, nil
}

func (p *parser) signedHMS() (time.Duration, error) {
	neg := false
	switch p.peek() {
	case '-':
		neg = true
		p.pos++
	case '+':
		p.pos++
	}
	var d time.Duration
	for i, unit := range []time.Duration{time.Hour, time.Minute, time.Second} {
		if i > 0 {
			if p.peek() != ':' {
				break
			}
			p.pos++
		}
		n, err := p.number()
		if err != nil {
			return 0, err
		}
		if i > 0 && n > 59 {
			return 0, p.errorf("%d out of range", n)
		}
		d += time.Duration(n) * unit
	}
	if neg {
		d = -d
	}
	return d, nil
}

func (p *parser) number() (int, error) {
	start := p.pos
	for !p.done() && isDigit(rune(p.peek())) {
		p.pos++
	}
	if start == p.pos {
		return 0, p.errorf("expected a number")
	}
	n, err := strconv.Atoi(p.s[start:p.pos])
	if err != nil {
		return 0, p.errorf("%v", err)
	}
	return n, nil
}

// transition reads Jn, n or Mm.w.d optionally followed by /time.
func (p *parser) transition() (tzrule.TransitionTime, error) {
	var (
		month time.Month
		week  int
		day   int
		dow   time.Weekday
		fixed bool
	)
	switch ch := p.peek(); {
	case ch == 'J':
		p.pos++
		n, err := p.number()
		if err != nil {
			return tzrule.TransitionTime{}, err
		}
		if n < 1 || n > 365 {
			return tzrule.TransitionTime{}, p.errorf("julian day %d out of range", n)
		}
		month, day = datemath.MonthDayOfYear(n)
		fixed = true
	case ch == 'M':
		p.pos++
		fields := make([]int, 3)
		for i := range fields {
			if i > 0 {
				if p.peek() != '.' {
					return tzrule.TransitionTime{}, p.errorf("expected '.'")
				}
				p.pos++
			}
			n, err := p.number()
			if err != nil {
				return tzrule.TransitionTime{}, err
			}
			fields[i] = n
		}
		month, week, dow = time.Month(fields[0]), fields[1], time.Weekday(fields[2])
	case isDigit(rune(ch)):
		return tzrule.TransitionTime{}, p.errorf("zero-based day of year is not supported")
	default:
		return tzrule.TransitionTime{}, p.errorf("expected a transition")
	}

	tod := defaultTransitionTime
	if p.peek() == '/' {
		p.pos++
		var err error
		if tod, err = p.signedHMS(); err != nil {
			return tzrule.TransitionTime{}, err
		}
		if tod < 0 || tod >= 24*time.Hour {
			return tzrule.TransitionTime{}, p.errorf("transition time %v is outside a day", tod)
		}
	}

	if fixed {
		return tzrule.NewFixedDateRule(tod, month, day)
	}
	return tzrule.NewFloatingDateRule(tod, month, week, dow)
}

func isAlpha(ch rune) bool { return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' }
func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }
