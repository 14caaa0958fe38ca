// Command tzdiff compares the zones of two YAML zone databases.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"cdr.dev/slog/v3"
	"cdr.dev/slog/v3/sloggers/sloghuman"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/pflag"

	"github.com/ngrash/go-tzrule/tzrule"
	"github.com/ngrash/go-tzrule/zonedb"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("tzdiff", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.BoolP("verbose", "v", false, "log debug messages")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: tzdiff <zones.yaml A> <zones.yaml B>")
	}

	logger := slog.Make(sloghuman.Sink(stderr))
	if *verbose {
		logger = logger.Leveled(slog.LevelDebug)
	}

	a, err := zonedb.LoadFile(ctx, logger, fs.Arg(0))
	if err != nil {
		return err
	}
	b, err := zonedb.LoadFile(ctx, logger, fs.Arg(1))
	if err != nil {
		return err
	}

	if diff := cmp.Diff(configs(a), configs(b), cmpopts.EquateEmpty()); diff != "" {
		fmt.Fprintln(stdout, "zones are different: -A +B")
		fmt.Fprintln(stdout, diff)
	} else {
		fmt.Fprintln(stdout, "zones are identical")
	}
	return nil
}

func configs(db *zonedb.DB) map[string]tzrule.ZoneConfig {
	m := make(map[string]tzrule.ZoneConfig, db.Len())
	for _, z := range db.Zones() {
		m[z.ID()] = z.Config()
	}
	return m
}
