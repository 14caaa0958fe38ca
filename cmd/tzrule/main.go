// Command tzrule prints a zone, its adjustment rules and its state at an instant.
//
//	tzrule [--db zones.yaml ID | --tz POSIX] [--at RFC3339] [--year N] [--verbose]
//	tzrule --db zones.yaml --list
//
// Without --db and --tz the zone is taken from the TZ environment variable.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cdr.dev/slog/v3"
	"cdr.dev/slog/v3/sloggers/sloghuman"
	"github.com/coder/quartz"
	"github.com/spf13/pflag"

	"github.com/ngrash/go-tzrule/posixtz"
	"github.com/ngrash/go-tzrule/tzlocal"
	"github.com/ngrash/go-tzrule/tzrule"
	"github.com/ngrash/go-tzrule/zonedb"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, quartz.NewReal()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	db      string
	tz      string
	at      string
	year    int
	list    bool
	verbose bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, clock quartz.Clock) error {
	var opts options
	fs := pflag.NewFlagSet("tzrule", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.db, "db", "", "YAML zone database")
	fs.StringVar(&opts.tz, "tz", "", "POSIX TZ string, e.g. EST5EDT,M3.2.0,M11.1.0")
	fs.StringVar(&opts.at, "at", "", "instant to evaluate, RFC 3339 (default now)")
	fs.IntVar(&opts.year, "year", 0, "year to print transitions for (default the year of --at)")
	fs.BoolVarP(&opts.list, "list", "l", false, "list the zones of --db")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := slog.Make(sloghuman.Sink(stderr))
	if opts.verbose {
		logger = logger.Leveled(slog.LevelDebug)
	}

	var db *zonedb.DB
	if opts.db != "" {
		var err error
		if db, err = zonedb.LoadFile(ctx, logger, opts.db); err != nil {
			return err
		}
	}
	if opts.list {
		if db == nil {
			return errors.New("--list requires --db")
		}
		for _, z := range db.Zones() {
			fmt.Fprintf(stdout, "%-40s %s\n", z.ID(), z.DisplayName())
		}
		return nil
	}

	z, err := zoneFor(opts, db, fs.Args())
	if err != nil {
		return err
	}

	at := clock.Now()
	if opts.at != "" {
		if at, err = time.Parse(time.RFC3339, opts.at); err != nil {
			return fmt.Errorf("--at: %w", err)
		}
	}
	year := opts.year
	if year == 0 {
		year = z.ToLocal(at).Year()
	}

	printZone(stdout, z)
	printState(stdout, z, at)
	printDaylightChanges(stdout, z, year)
	return nil
}

func zoneFor(opts options, db *zonedb.DB, args []string) (*tzrule.Zone, error) {
	switch {
	case opts.tz != "" && db != nil:
		return nil, errors.New("--tz and --db are mutually exclusive")
	case opts.tz != "":
		return posixtz.Parse(opts.tz)
	case db != nil:
		if len(args) != 1 {
			return nil, errors.New("usage: tzrule --db <zones.yaml> <zone id>")
		}
		return db.FindByID(args[0])
	}
	return tzlocal.Local()
}

func printZone(w io.Writer, z *tzrule.Zone) {
	fmt.Fprintln(w, "Zone")
	fmt.Fprintln(w, "  ID       =", z.ID())
	fmt.Fprintln(w, "  Display  =", z.DisplayName())
	fmt.Fprintln(w, "  Standard =", z.StandardName())
	fmt.Fprintln(w, "  Daylight =", z.DaylightName())
	fmt.Fprintln(w, "  Base     =", z.BaseUTCOffset())
	if s, err := posixtz.Format(z); err == nil {
		fmt.Fprintln(w, "  TZ       =", s)
	}
	fmt.Fprintln(w)

	rules := z.AdjustmentRules()
	fmt.Fprintf(w, "Rules (%d)\n", len(rules))
	for _, r := range rules {
		fmt.Fprintln(w, " ", r)
	}
	fmt.Fprintln(w)
}

func printState(w io.Writer, z *tzrule.Zone, at time.Time) {
	fmt.Fprintln(w, "At", at.UTC().Format(time.RFC3339))
	fmt.Fprintln(w, "  Local    =", z.ToLocal(at).Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintln(w, "  Offset   =", z.UTCOffset(at))
	fmt.Fprintln(w, "  DST      =", z.IsDaylightSavingTime(at))
	fmt.Fprintln(w)
}

func printDaylightChanges(w io.Writer, z *tzrule.Zone, year int) {
	fmt.Fprintln(w, "Daylight saving time", year)
	dt := z.DaylightChanges(year)
	if dt.IsZero() {
		fmt.Fprintln(w, "  none")
		return
	}
	fmt.Fprintln(w, "  Start    =", dt.Start.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, "  End      =", dt.End.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, "  Delta    =", dt.Delta)
}
