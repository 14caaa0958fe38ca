package tzrule

import "errors"

var (
	// ErrInvalidArgument is returned when a constructor receives a malformed value,
	// e.g. an out-of-range month or an offset that is not a whole number of minutes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidTimeZone is returned when a rule set is structurally invalid:
	// rules overlap, are out of order, or push the offset beyond ±14 hours.
	ErrInvalidTimeZone = errors.New("invalid time zone")

	// ErrNotFound is returned when a lookup by id or name has no match.
	ErrNotFound = errors.New("time zone not found")
)
