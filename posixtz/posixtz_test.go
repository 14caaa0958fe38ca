package posixtz

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-tzrule/tzrule"
)

func utc(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, time.UTC)
}

func TestParse(t *testing.T) {
	type view struct {
		Standard, Daylight string
		Base               time.Duration
		Delta              time.Duration
		Start, End         string
	}
	cases := []struct {
		in   string
		want view
	}{
		{
			in:   "EST5EDT,M3.2.0,M11.1.0",
			want: view{"EST", "EDT", -5 * time.Hour, time.Hour, "second Sunday of March at 02:00:00.000", "first Sunday of November at 02:00:00.000"},
		},
		{
			in:   "EST5EDT",
			want: view{"EST", "EDT", -5 * time.Hour, time.Hour, "second Sunday of March at 02:00:00.000", "first Sunday of November at 02:00:00.000"},
		},
		{
			in:   "AEST-10AEDT,M10.1.0,M4.1.0/3",
			want: view{"AEST", "AEDT", 10 * time.Hour, time.Hour, "first Sunday of October at 02:00:00.000", "first Sunday of April at 03:00:00.000"},
		},
		{
			in:   "<+1030>-10:30<+11>-11,M10.1.0,M4.1.0",
			want: view{"+1030", "+11", 10*time.Hour + 30*time.Minute, 30 * time.Minute, "first Sunday of October at 02:00:00.000", "first Sunday of April at 02:00:00.000"},
		},
		{
			in:   "XXX3YYY1,J60/1:30:15,J365/23:59:59",
			want: view{"XXX", "YYY", -3 * time.Hour, 2 * time.Hour, "March 1 at 01:30:15.000", "December 31 at 23:59:59.000"},
		},
		{
			in:   "IST-5:30",
			want: view{Standard: "IST", Base: 5*time.Hour + 30*time.Minute},
		},
		{
			in:   "UTC0",
			want: view{Standard: "UTC"},
		},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			z, err := Parse(c.in)
			if err != nil {
				t.Fatalf("Parse(): %v", err)
			}
			got := view{Standard: z.StandardName(), Daylight: z.DaylightName(), Base: z.BaseUTCOffset()}
			if rules := z.AdjustmentRules(); len(rules) > 0 {
				if len(rules) != 1 {
					t.Fatalf("AdjustmentRules() = %v, want one rule", rules)
				}
				r := rules[0]
				got.Delta = r.DaylightDelta()
				got.Start = r.DaylightTransitionStart().String()
				got.End = r.DaylightTransitionEnd().String()
				if r.DateStart().Year() != 1 || r.DateEnd().Year() != 9999 {
					t.Errorf("rule in force %v..%v, want all years", r.DateStart(), r.DateEnd())
				}
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
			if z.ID() != c.in {
				t.Errorf("ID() = %q, want %q", z.ID(), c.in)
			}
		})
	}
}

func TestParse_Evaluate(t *testing.T) {
	us, err := Parse("EST5EDT,M3.2.0,M11.1.0")
	if err != nil {
		t.Fatal(err)
	}
	au, err := Parse("AEST-10AEDT,M10.1.0,M4.1.0/3")
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		z    *tzrule.Zone
		u    time.Time
		want time.Duration
	}{
		{us, utc(2024, time.March, 10, 6, 59, 59), -5 * time.Hour},
		{us, utc(2024, time.March, 10, 7, 0, 0), -4 * time.Hour},
		{us, utc(1900, time.July, 1, 0, 0, 0), -4 * time.Hour},
		{au, utc(2025, time.January, 15, 0, 0, 0), 11 * time.Hour},
		{au, utc(2025, time.April, 5, 15, 59, 59), 11 * time.Hour},
		{au, utc(2025, time.April, 5, 16, 0, 0), 10 * time.Hour},
		{au, utc(2025, time.July, 15, 0, 0, 0), 10 * time.Hour},
	}
	for _, c := range cases {
		if got := c.z.UTCOffset(c.u); got != c.want {
			t.Errorf("%s: UTCOffset(%v) = %v, want %v", c.z.ID(), c.u, got, c.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"ES5",
		"EST",
		"EST5:60",
		"EST25",
		"EST15",
		"<AB>5",
		"<EST5",
		"<E$T>5",
		"EST5EDT,M3.2.0",
		"EST5EDT;M3.2.0,M11.1.0",
		"EST5EDT,M3.2.0,M11.1.0x",
		"EST5EDT,60,300",
		"EST5EDT,M3.2.0/24,M11.1.0",
		"EST5EDT,M3.2.0/-1,M11.1.0",
		"IST-2IDT,M3.4.4/26,M10.5.0",
		"EST5EDT,M13.2.0,M11.1.0",
		"EST5EDT,M3.6.0,M11.1.0",
		"EST5EDT,M3.2,M11.1.0",
		"EST5EDT,J0,J300",
		"EST5EDT,J366,J300",
		"EST5EDT,M3.2.0,M3.2.0",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			if !errors.Is(err, tzrule.ErrInvalidArgument) {
				t.Errorf("Parse(%q) error = %v, want %v", in, err, tzrule.ErrInvalidArgument)
			}
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	for _, in := range []string{
		"EST5EDT,M3.2.0,M11.1.0",
		"AEST-10AEDT,M10.1.0,M4.1.0/3",
		"CET-1CEST,M3.5.0,M10.5.0/3",
		"<+1030>-10:30<+11>-11,M10.1.0,M4.1.0",
		"XXX3YYY1,J60/1:30:15,J365/23:59:59",
		"IST-5:30",
		"<-03>3",
		"UTC0",
	} {
		t.Run(in, func(t *testing.T) {
			z, err := Parse(in)
			if err != nil {
				t.Fatalf("Parse(): %v", err)
			}
			got, err := Format(z)
			if err != nil {
				t.Fatalf("Format(): %v", err)
			}
			if got != in {
				t.Errorf("Format(Parse(%q)) = %q", in, got)
			}
		})
	}
}

func TestFormat_Defaults(t *testing.T) {
	z, err := Parse("EST5EDT")
	if err != nil {
		t.Fatal(err)
	}
	got, err := Format(z)
	if err != nil {
		t.Fatalf("Format(): %v", err)
	}
	if want := "EST5EDT,M3.2.0,M11.1.0"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormat_LastRule(t *testing.T) {
	old := mustRule(t, 1987, 2006, mustFloating(t, time.April, 1), mustFloating(t, time.October, 5))
	cur := mustRule(t, 2007, 9999, mustFloating(t, time.March, 2), mustFloating(t, time.November, 1))
	z, err := tzrule.CreateCustomZone(tzrule.ZoneConfig{
		ID:              "Eastern Standard Time",
		BaseUTCOffset:   -5 * time.Hour,
		StandardName:    "EST",
		DaylightName:    "EDT",
		AdjustmentRules: []tzrule.AdjustmentRule{old, cur},
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := Format(z)
	if err != nil {
		t.Fatalf("Format(): %v", err)
	}
	if want := "EST5EDT,M3.2.0,M11.1.0"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormat_Invalid(t *testing.T) {
	leap, err := tzrule.NewFixedDateRule(0, time.February, 29)
	if err != nil {
		t.Fatal(err)
	}
	frac, err := tzrule.NewFloatingDateRule(2*time.Hour+500*time.Millisecond, time.March, 2, time.Sunday)
	if err != nil {
		t.Fatal(err)
	}
	nov := mustFloating(t, time.November, 1)

	cases := []struct {
		name string
		c    tzrule.ZoneConfig
	}{
		{"long standard name", tzrule.ZoneConfig{ID: "x", StandardName: "Coordinated Universal Time"}},
		{"short standard name", tzrule.ZoneConfig{ID: "x", StandardName: "Z"}},
		{"february 29", tzrule.ZoneConfig{ID: "x", StandardName: "AAA", DaylightName: "BBB",
			AdjustmentRules: []tzrule.AdjustmentRule{mustRule(t, 2000, 2010, leap, nov)}}},
		{"fractional seconds", tzrule.ZoneConfig{ID: "x", StandardName: "AAA", DaylightName: "BBB",
			AdjustmentRules: []tzrule.AdjustmentRule{mustRule(t, 2000, 2010, frac, nov)}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			z, err := tzrule.CreateCustomZone(c.c)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := Format(z); !errors.Is(err, tzrule.ErrInvalidArgument) {
				t.Errorf("Format() error = %v, want %v", err, tzrule.ErrInvalidArgument)
			}
		})
	}
}

func mustFloating(t *testing.T, month time.Month, week int) tzrule.TransitionTime {
	t.Helper()
	tt, err := tzrule.NewFloatingDateRule(2*time.Hour, month, week, time.Sunday)
	if err != nil {
		t.Fatal(err)
	}
	return tt
}

func mustRule(t *testing.T, from, to int, start, end tzrule.TransitionTime) tzrule.AdjustmentRule {
	t.Helper()
	r, err := tzrule.NewAdjustmentRule(
		time.Date(from, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(to, time.December, 31, 0, 0, 0, 0, time.UTC),
		time.Hour, start, end)
	if err != nil {
		t.Fatal(err)
	}
	return r
}
