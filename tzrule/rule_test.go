package tzrule

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// usRule returns the United States rule in force since 2007:
// second Sunday of March to first Sunday of November, 02:00 local time.
func usRule(t *testing.T, from, to time.Time) AdjustmentRule {
	t.Helper()
	return mustRule(t, from, to, time.Hour,
		mustFloating(t, 2*time.Hour, time.March, 2, time.Sunday),
		mustFloating(t, 2*time.Hour, time.November, 1, time.Sunday))
}

func mustRule(t *testing.T, from, to time.Time, delta time.Duration, start, end TransitionTime) AdjustmentRule {
	t.Helper()
	r, err := NewAdjustmentRule(from, to, delta, start, end)
	if err != nil {
		t.Fatalf("NewAdjustmentRule(%v, %v, %v, %v, %v): %v", from, to, delta, start, end, err)
	}
	return r
}

func TestNewAdjustmentRule(t *testing.T) {
	start := mustFloating(t, 2*time.Hour, time.March, 2, time.Sunday)
	end := mustFloating(t, 2*time.Hour, time.November, 1, time.Sunday)

	// Dates at midnight of another location keep their calendar date.
	berlin := time.FixedZone("CET", 3600)
	r := mustRule(t, time.Date(2007, time.January, 1, 0, 0, 0, 0, berlin), date(2010, time.December, 31), time.Hour, start, end)

	type view struct {
		DateStart, DateEnd time.Time
		Delta              time.Duration
		Start, End         TransitionTime
	}
	want := view{date(2007, time.January, 1), date(2010, time.December, 31), time.Hour, start, end}
	got := view{r.DateStart(), r.DateEnd(), r.DaylightDelta(), r.DaylightTransitionStart(), r.DaylightTransitionEnd()}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewAdjustmentRule() mismatch (-want +got):\n%s", diff)
	}
	if r.DateStart().Location() != time.UTC {
		t.Errorf("DateStart().Location() = %v, want UTC", r.DateStart().Location())
	}
}

func TestNewAdjustmentRule_Invalid(t *testing.T) {
	start := mustFloating(t, 2*time.Hour, time.March, 2, time.Sunday)
	end := mustFloating(t, 2*time.Hour, time.November, 1, time.Sunday)
	cases := []struct {
		name       string
		from, to   time.Time
		delta      time.Duration
		start, end TransitionTime
	}{
		{"start after end", date(2010, time.January, 1), date(2009, time.December, 31), time.Hour, start, end},
		{"start has time of day", date(2007, time.January, 1).Add(time.Hour), date(2009, time.December, 31), time.Hour, start, end},
		{"end has time of day", date(2007, time.January, 1), date(2009, time.December, 31).Add(time.Millisecond), time.Hour, start, end},
		{"delta not whole minutes", date(2007, time.January, 1), date(2009, time.December, 31), time.Hour + time.Second, start, end},
		{"delta beyond 14 hours", date(2007, time.January, 1), date(2009, time.December, 31), 15 * time.Hour, start, end},
		{"same transitions", date(2007, time.January, 1), date(2009, time.December, 31), time.Hour, start, start},
		{"missing transition", date(2007, time.January, 1), date(2009, time.December, 31), time.Hour, start, TransitionTime{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewAdjustmentRule(c.from, c.to, c.delta, c.start, c.end)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("NewAdjustmentRule() error = %v, want %v", err, ErrInvalidArgument)
			}
		})
	}
}

func TestAdjustmentRule_Covers(t *testing.T) {
	r := usRule(t, date(2007, time.January, 1), date(2010, time.December, 31))
	cases := []struct {
		t    time.Time
		want bool
	}{
		{time.Date(2006, time.December, 31, 23, 59, 59, 0, time.UTC), false},
		{date(2007, time.January, 1), true},
		{time.Date(2010, time.December, 31, 23, 59, 59, 0, time.UTC), true},
		{date(2011, time.January, 1), false},
	}
	for _, c := range cases {
		if got := r.Covers(c.t); got != c.want {
			t.Errorf("Covers(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestAdjustmentRule_Transitions(t *testing.T) {
	r := usRule(t, date(2007, time.January, 1), date(9999, time.December, 31))
	start, end := r.Transitions(2024)
	want := []time.Time{
		time.Date(2024, time.March, 10, 2, 0, 0, 0, time.UTC),
		time.Date(2024, time.November, 3, 2, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, []time.Time{start, end}); diff != "" {
		t.Errorf("Transitions(2024) mismatch (-want +got):\n%s", diff)
	}
}

func TestAdjustmentRule_IsZero(t *testing.T) {
	if !(AdjustmentRule{}).IsZero() {
		t.Error("AdjustmentRule{}.IsZero() = false")
	}
	// Year one is the zero time.Time, which alone must not make a rule zero.
	r := usRule(t, date(1, time.January, 1), date(9999, time.December, 31))
	if r.IsZero() {
		t.Error("IsZero() = true for a rule starting in year one")
	}
}

func TestValidateRules_DropsOverlappingRecord(t *testing.T) {
	r1 := usRule(t, date(2000, time.January, 1), date(2005, time.December, 31))
	r2 := usRule(t, date(2004, time.January, 1), date(2006, time.December, 31))
	r3 := usRule(t, date(2007, time.January, 1), date(2010, time.December, 31))

	got := ValidateRules([]AdjustmentRule{r1, r2, r3})
	if diff := cmp.Diff([]AdjustmentRule{r1, r3}, got); diff != "" {
		t.Errorf("ValidateRules() mismatch (-want +got):\n%s", diff)
	}
	if _, err := CreateCustomZone(ZoneConfig{ID: "test", BaseUTCOffset: -5 * time.Hour, AdjustmentRules: got}); err != nil {
		t.Errorf("CreateCustomZone(ValidateRules()) error = %v", err)
	}
}

func TestSanitizeRules(t *testing.T) {
	r1 := usRule(t, date(2000, time.January, 1), date(2005, time.December, 31))
	r2 := usRule(t, date(2003, time.January, 1), date(2004, time.December, 31))
	r3 := usRule(t, date(2005, time.December, 31), date(2006, time.December, 31))
	r4 := usRule(t, date(2006, time.January, 1), date(2008, time.December, 31))
	long := usRule(t, date(2003, time.January, 1), date(2010, time.December, 31))
	r5 := usRule(t, date(2007, time.January, 1), date(2008, time.December, 31))

	cases := []struct {
		name        string
		in          []AdjustmentRule
		wantKept    []AdjustmentRule
		wantDropped []int
	}{
		{name: "empty"},
		{
			name:     "already valid",
			in:       []AdjustmentRule{r1, r4},
			wantKept: []AdjustmentRule{r1, r4},
		},
		{
			name:        "contained in previous",
			in:          []AdjustmentRule{r1, r2, r4},
			wantKept:    []AdjustmentRule{r1, r4},
			wantDropped: []int{1},
		},
		{
			name:     "starts on the day the previous ends",
			in:       []AdjustmentRule{r1, r3},
			wantKept: []AdjustmentRule{r1, r3},
		},
		{
			name:        "compares with the last kept rule",
			in:          []AdjustmentRule{r1, long, r5},
			wantKept:    []AdjustmentRule{r1, r5},
			wantDropped: []int{1},
		},
		{
			name:        "missing rule",
			in:          []AdjustmentRule{{}, r1},
			wantKept:    []AdjustmentRule{r1},
			wantDropped: []int{0},
		},
		{
			name:        "out of order",
			in:          []AdjustmentRule{r4, r1},
			wantKept:    []AdjustmentRule{r4},
			wantDropped: []int{1},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			kept, dropped := SanitizeRules(c.in)
			if diff := cmp.Diff(c.wantKept, kept); diff != "" {
				t.Errorf("SanitizeRules() kept mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(c.wantDropped, dropped); diff != "" {
				t.Errorf("SanitizeRules() dropped mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
