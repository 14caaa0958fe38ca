// Package tzi implements the binary time zone information record of the
// Windows registry and converts it into adjustment rules.
package tzi

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/ngrash/go-tzrule/tzrule"
)

var order = binary.LittleEndian

// Size is the encoded size of a Record in bytes.
const Size = 44

// SystemTime is a SYSTEMTIME structure. In a Record it describes a transition:
// with Year zero it is a floating rule where Day is the week of the month
// (5 meaning last), otherwise a fixed date.
type SystemTime struct {
	Year         uint16
	Month        uint16
	DayOfWeek    uint16
	Day          uint16
	Hour         uint16
	Minute       uint16
	Second       uint16
	Milliseconds uint16
}

// IsZero reports whether t is unset. A Month of zero means no transition.
func (t SystemTime) IsZero() bool { return t.Month == 0 }

func (t SystemTime) timeOfDay() time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second +
		time.Duration(t.Milliseconds)*time.Millisecond
}

// Transition converts t into a transition time.
func (t SystemTime) Transition() (tzrule.TransitionTime, error) {
	if t.Year == 0 {
		return tzrule.NewFloatingDateRule(t.timeOfDay(), time.Month(t.Month), int(t.Day), time.Weekday(t.DayOfWeek))
	}
	return tzrule.NewFixedDateRule(t.timeOfDay(), time.Month(t.Month), int(t.Day))
}

// Record is a TZI registry value. Biases are in minutes and are subtracted
// from local time to get UTC.
type Record struct {
	Bias         int32
	StandardBias int32
	DaylightBias int32

	// StandardDate is the transition back to standard time.
	StandardDate SystemTime
	// DaylightDate is the transition into daylight saving time.
	DaylightDate SystemTime
}

// Decode reads a Record from exactly Size bytes.
func Decode(b []byte) (Record, error) {
	if len(b) != Size {
		return Record{}, fmt.Errorf("tzi record: got %d bytes, want %d", len(b), Size)
	}
	return ReadRecord(bytes.NewReader(b))
}

// DecodeString decodes a hex-encoded Record.
func DecodeString(s string) (Record, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Record{}, fmt.Errorf("tzi record: %w", err)
	}
	return Decode(b)
}

// ReadRecord reads a Record from r.
func ReadRecord(r io.Reader) (Record, error) {
	var rec Record
	if err := binary.Read(r, order, &rec); err != nil {
		return rec, fmt.Errorf("reading tzi record: %w", err)
	}
	return rec, nil
}

// Write writes the binary encoding of rec to w.
func (rec Record) Write(w io.Writer) error {
	return binary.Write(w, order, rec)
}

// Encode returns the binary encoding of rec.
func (rec Record) Encode() []byte {
	var buf bytes.Buffer
	buf.Grow(Size)
	// Writes to a bytes.Buffer do not fail.
	_ = rec.Write(&buf)
	return buf.Bytes()
}

func (rec Record) String() string {
	return hex.EncodeToString(rec.Encode())
}

// BaseUTCOffset returns the standard time offset from UTC.
func (rec Record) BaseUTCOffset() time.Duration {
	return -time.Duration(rec.Bias) * time.Minute
}

// DaylightDelta returns the amount daylight saving time adds to the base offset.
func (rec Record) DaylightDelta() time.Duration {
	return -time.Duration(rec.DaylightBias) * time.Minute
}

// Rule builds the adjustment rule rec describes for January 1 of startYear
// through December 31 of endYear.
//
// It reports false with the reason if rec carries no daylight saving time
// or its transitions are malformed. Such records are skipped, not failed.
func (rec Record) Rule(startYear, endYear int) (tzrule.AdjustmentRule, bool, error) {
	if rec.DaylightDate.IsZero() || rec.StandardDate.IsZero() {
		return tzrule.AdjustmentRule{}, false, nil
	}
	start, err := rec.DaylightDate.Transition()
	if err != nil {
		return tzrule.AdjustmentRule{}, false, fmt.Errorf("daylight date: %w", err)
	}
	end, err := rec.StandardDate.Transition()
	if err != nil {
		return tzrule.AdjustmentRule{}, false, fmt.Errorf("standard date: %w", err)
	}
	r, err := tzrule.NewAdjustmentRule(
		time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(endYear, time.December, 31, 0, 0, 0, 0, time.UTC),
		rec.DaylightDelta(), start, end)
	if err != nil {
		return tzrule.AdjustmentRule{}, false, err
	}
	return r, true, nil
}
