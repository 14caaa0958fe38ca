// Package tzlocal determines the local time zone once and shares it.
package tzlocal

import (
	"fmt"
	"os"
	"time"

	"github.com/coder/quartz"
	"go.uber.org/atomic"

	"github.com/ngrash/go-tzrule/posixtz"
	"github.com/ngrash/go-tzrule/tzrule"
	"github.com/ngrash/go-tzrule/zonedb"
)

// Factory determines a zone.
type Factory func() (*tzrule.Zone, error)

// Cell holds a zone that is determined on first use.
type Cell struct {
	zone    atomic.Pointer[tzrule.Zone]
	factory Factory
}

// NewCell returns a Cell that determines its zone with factory.
func NewCell(factory Factory) *Cell {
	return &Cell{factory: factory}
}

// Get returns the zone of c, calling the factory if c is empty.
//
// Concurrent callers on an empty cell may each call the factory. The first
// result stored wins and every caller gets it. Errors are not stored, so a
// later call tries again.
func (c *Cell) Get() (*tzrule.Zone, error) {
	if z := c.zone.Load(); z != nil {
		return z, nil
	}
	z, err := c.factory()
	if err != nil {
		return nil, err
	}
	if z == nil {
		return nil, fmt.Errorf("%w: no local time zone", tzrule.ErrNotFound)
	}
	if c.zone.CompareAndSwap(nil, z) {
		return z, nil
	}
	return c.zone.Load(), nil
}

// Reset empties c, so the next Get calls the factory again.
func (c *Cell) Reset() {
	c.zone.Store(nil)
}

var local = NewCell(FromEnvironment)

// Local returns the local time zone as determined by FromEnvironment.
func Local() (*tzrule.Zone, error) {
	return local.Get()
}

// ResetLocal forgets the local time zone, for example after TZ changed.
func ResetLocal() {
	local.Reset()
}

// FromEnvironment parses the TZ environment variable as a POSIX TZ string.
// An empty TZ means UTC. If TZ is not set it returns an error wrapping
// tzrule.ErrNotFound.
func FromEnvironment() (*tzrule.Zone, error) {
	tz, ok := os.LookupEnv("TZ")
	if !ok {
		return nil, fmt.Errorf("%w: TZ is not set", tzrule.ErrNotFound)
	}
	if tz == "" {
		return tzrule.UTC(), nil
	}
	return posixtz.Parse(tz)
}

// FromDB returns a factory looking up the zone a system reports for its
// local time by key name.
func FromDB(db *zonedb.DB, keyName string) Factory {
	return func() (*tzrule.Zone, error) {
		return db.FindByKeyName(keyName)
	}
}

// CurrentTime returns the current time of clock in z.
func CurrentTime(clock quartz.Clock, z *tzrule.Zone) time.Time {
	return z.ToLocal(clock.Now())
}

// CurrentUTCOffset returns the offset from UTC in effect in z now.
func CurrentUTCOffset(clock quartz.Clock, z *tzrule.Zone) time.Duration {
	return z.UTCOffset(clock.Now())
}

// InDaylightSavingTime reports whether z is in daylight saving time now.
func InDaylightSavingTime(clock quartz.Clock, z *tzrule.Zone) bool {
	return z.IsDaylightSavingTime(clock.Now())
}
