package zonedb

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode"

	"cdr.dev/slog/v3"
	"gopkg.in/yaml.v3"

	"github.com/ngrash/go-tzrule/tzrule"
)

// UTCID is the id of the zone of Coordinated Universal Time.
const UTCID = "UTC"

// aliases maps ids some systems report to the id of the entry.
var aliases = map[string]string{
	"Coordinated Universal Time": UTCID,
}

// DB is an immutable set of zones. It is safe for concurrent use.
type DB struct {
	zones   []*tzrule.Zone
	byID    map[string]*tzrule.Zone
	invalid map[string]error
}

type file struct {
	Zones []Entry `yaml:"zones"`
}

// Load reads a YAML zone database from r. See New for how entries are built.
func Load(ctx context.Context, logger slog.Logger, r io.Reader) (*DB, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f file
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding zone database: %w", err)
	}
	return New(ctx, logger, f.Zones)
}

// LoadFile reads the YAML zone database at path.
func LoadFile(ctx context.Context, logger slog.Logger, path string) (*DB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	db, err := Load(ctx, logger.With(slog.F("path", path)), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}

// New builds a database from entries.
//
// An entry that does not form a valid zone does not fail the database. It
// is left out of Zones and looking it up returns its error. Duplicate or
// empty ids do fail.
func New(ctx context.Context, logger slog.Logger, entries []Entry) (*DB, error) {
	db := &DB{
		byID:    make(map[string]*tzrule.Zone, len(entries)),
		invalid: make(map[string]error),
	}
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("entry %d: missing id", i)
		}
		if _, ok := db.byID[e.ID]; ok {
			return nil, fmt.Errorf("entry %d: duplicate id %q", i, e.ID)
		}
		if _, ok := db.invalid[e.ID]; ok {
			return nil, fmt.Errorf("entry %d: duplicate id %q", i, e.ID)
		}
		z, err := FromEntry(ctx, logger, e)
		if err != nil {
			logger.Warn(ctx, "invalid zone entry", slog.F("zone", e.ID), slog.Error(err))
			db.invalid[e.ID] = err
			continue
		}
		db.byID[e.ID] = z
		db.zones = append(db.zones, z)
	}
	tzrule.SortZones(db.zones)
	return db, nil
}

// FindByID returns the zone with the given id.
// It returns an error wrapping tzrule.ErrNotFound if there is none.
func (db *DB) FindByID(id string) (*tzrule.Zone, error) {
	if a, ok := aliases[id]; ok {
		id = a
	}
	if z, ok := db.byID[id]; ok {
		return z, nil
	}
	if err, ok := db.invalid[id]; ok {
		return nil, err
	}
	if id == UTCID {
		return tzrule.UTC(), nil
	}
	return nil, fmt.Errorf("%w: %q", tzrule.ErrNotFound, id)
}

// FindByStandardName returns the first zone, in the order of Zones, whose
// standard name is name.
func (db *DB) FindByStandardName(name string) (*tzrule.Zone, error) {
	for _, z := range db.zones {
		if z.StandardName() == name {
			return z, nil
		}
	}
	return nil, fmt.Errorf("%w: standard name %q", tzrule.ErrNotFound, name)
}

// FindByKeyName looks up a zone by the name a system reports for its local
// zone. Such names may carry stray characters around them, which are trimmed
// before the name is tried as an id and then as a standard name.
func (db *DB) FindByKeyName(name string) (*tzrule.Zone, error) {
	name = TrimName(name)
	z, err := db.FindByID(name)
	if err == nil {
		return z, nil
	}
	if z, err := db.FindByStandardName(name); err == nil {
		return z, nil
	}
	return nil, err
}

// TrimName trims everything before the first letter or digit of name and
// after the last letter, digit or closing parenthesis.
func TrimName(name string) string {
	runes := []rune(name)
	i := 0
	for i < len(runes) && !isAlnum(runes[i]) {
		i++
	}
	j := len(runes)
	for j > i && !isAlnum(runes[j-1]) && runes[j-1] != ')' {
		j--
	}
	return string(runes[i:j])
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Zones returns the valid zones of db ordered by tzrule.Compare.
func (db *DB) Zones() []*tzrule.Zone {
	return append([]*tzrule.Zone(nil), db.zones...)
}

// IDs returns the ids of Zones in the same order.
func (db *DB) IDs() []string {
	ids := make([]string, len(db.zones))
	for i, z := range db.zones {
		ids[i] = z.ID()
	}
	return ids
}

// Len returns the number of valid zones in db.
func (db *DB) Len() int { return len(db.zones) }
