// Package zonedb holds a database of time zones described by registry style
// entries: a TZI record with optional per-year records for zones whose rules
// changed over time.
package zonedb

import (
	"context"
	"fmt"

	"cdr.dev/slog/v3"

	"github.com/ngrash/go-tzrule/tzi"
	"github.com/ngrash/go-tzrule/tzrule"
)

// Entry describes one zone.
type Entry struct {
	ID      string     `yaml:"id"`
	Display string     `yaml:"display"`
	Std     string     `yaml:"std"`
	Dlt     string     `yaml:"dlt"`
	TZI     tzi.Record `yaml:"tzi"`
	Dynamic *Dynamic   `yaml:"dynamic,omitempty"`
}

// Dynamic holds the records of a zone whose daylight saving rules changed.
// Years between FirstEntry and LastEntry without a record are skipped.
type Dynamic struct {
	FirstEntry int                `yaml:"first_entry"`
	LastEntry  int                `yaml:"last_entry"`
	Years      map[int]tzi.Record `yaml:"years"`
}

const (
	firstYear = 1
	lastYear  = 9999
)

// FromEntry builds the zone e describes.
//
// The base offset always comes from e.TZI. Without Dynamic, e.TZI applies to
// all years. With Dynamic, each year's record applies to that year only,
// except that the first record reaches back to year 1 and the last one
// forward to year 9999. Records that carry no daylight saving time or are
// malformed are skipped, and rules that overlap an earlier one are dropped.
func FromEntry(ctx context.Context, logger slog.Logger, e Entry) (*tzrule.Zone, error) {
	logger = logger.With(slog.F("zone", e.ID))

	var rules []tzrule.AdjustmentRule
	add := func(rec tzi.Record, year, from, to int) {
		r, ok, err := rec.Rule(from, to)
		switch {
		case err != nil:
			logger.Debug(ctx, "skipping malformed record", slog.F("year", year), slog.Error(err))
		case !ok:
			logger.Debug(ctx, "record has no daylight saving time", slog.F("year", year))
		default:
			rules = append(rules, r)
		}
	}

	if d := e.Dynamic; d != nil {
		if d.FirstEntry > d.LastEntry {
			return nil, fmt.Errorf("zone %q: %w: first entry %d is after last entry %d", e.ID, tzrule.ErrInvalidTimeZone, d.FirstEntry, d.LastEntry)
		}
		for year := d.FirstEntry; year <= d.LastEntry; year++ {
			rec, ok := d.Years[year]
			if !ok {
				continue
			}
			from, to := year, year
			if year == d.FirstEntry {
				from = firstYear
			}
			if year == d.LastEntry {
				to = lastYear
			}
			add(rec, year, from, to)
		}
	} else {
		add(e.TZI, 0, firstYear, lastYear)
	}

	kept, dropped := tzrule.SanitizeRules(rules)
	for _, i := range dropped {
		logger.Debug(ctx, "dropping overlapping rule", slog.F("rule", rules[i].String()))
	}

	return tzrule.CreateCustomZone(tzrule.ZoneConfig{
		ID:              e.ID,
		BaseUTCOffset:   e.TZI.BaseUTCOffset(),
		DisplayName:     e.Display,
		StandardName:    e.Std,
		DaylightName:    e.Dlt,
		AdjustmentRules: kept,
	})
}
