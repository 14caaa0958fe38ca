package tzrule

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Compare orders zones by base offset, west to east, and zones with the same
// offset by display name.
func Compare(a, b *Zone) int {
	return compareWith(collate.New(language.English), a, b)
}

func compareWith(c *collate.Collator, a, b *Zone) int {
	switch {
	case a.baseUTCOffset < b.baseUTCOffset:
		return -1
	case a.baseUTCOffset > b.baseUTCOffset:
		return 1
	}
	return c.CompareString(a.displayName, b.displayName)
}

// SortZones sorts zones in the order defined by Compare.
// Zones that compare equal keep their relative order.
func SortZones(zones []*Zone) {
	c := collate.New(language.English)
	slices.SortStableFunc(zones, func(a, b *Zone) int {
		return compareWith(c, a, b)
	})
}
