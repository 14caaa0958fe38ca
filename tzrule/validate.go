package tzrule

import (
	"fmt"
	"time"
)

// validateRules checks rules supplied to CreateCustomZone. Any inconsistency
// fails the whole set.
func validateRules(baseUTCOffset time.Duration, rules []AdjustmentRule) error {
	var prev *AdjustmentRule
	for i := range rules {
		cur := &rules[i]
		if cur.IsZero() {
			return fmt.Errorf("%w: rule %d: missing adjustment rule", ErrInvalidTimeZone, i)
		}
		if cur.dateStart.After(cur.dateEnd) {
			return fmt.Errorf("%w: rule %d: date start %s is after date end %s", ErrInvalidTimeZone, i, formatDate(cur.dateStart), formatDate(cur.dateEnd))
		}
		if off := baseUTCOffset + cur.daylightDelta; off < -MaxOffset || off > MaxOffset {
			return fmt.Errorf("%w: rule %d: base offset %v plus daylight delta %v exceeds ±%v", ErrInvalidTimeZone, i, baseUTCOffset, cur.daylightDelta, MaxOffset)
		}
		if prev != nil {
			switch {
			case prev.dateStart.After(cur.dateStart):
				return fmt.Errorf("%w: rule %d: not in chronological order", ErrInvalidTimeZone, i)
			case prev.dateEnd.After(cur.dateStart):
				return fmt.Errorf("%w: rule %d: overlaps previous rule ending %s", ErrInvalidTimeZone, i, formatDate(prev.dateEnd))
			case prev.dateEnd.Equal(cur.dateStart):
				return fmt.Errorf("%w: rule %d: starts on %s, the day the previous rule ends", ErrInvalidTimeZone, i, formatDate(cur.dateStart))
			}
		}
		prev = cur
	}
	return nil
}

// ValidateRules returns a chronologically increasing subset of rules. It scans
// in order and drops every rule that starts before the previously kept rule
// ends. Missing (zero) rules are dropped too. A rule starting on the day the
// previous one ends is kept, which CreateCustomZone still rejects.
//
// ValidateRules is meant for rule data decoded from external sources. Rules
// supplied by callers should go straight to CreateCustomZone, which rejects
// the same inconsistencies instead of repairing them.
func ValidateRules(rules []AdjustmentRule) []AdjustmentRule {
	kept, _ := SanitizeRules(rules)
	return kept
}

// SanitizeRules works like ValidateRules and also reports the indexes of the
// rules it dropped.
func SanitizeRules(rules []AdjustmentRule) (kept []AdjustmentRule, dropped []int) {
	if len(rules) == 0 {
		return nil, nil
	}
	for i, cur := range rules {
		if cur.IsZero() {
			dropped = append(dropped, i)
			continue
		}
		if n := len(kept); n > 0 && kept[n-1].dateEnd.After(cur.dateStart) {
			dropped = append(dropped, i)
			continue
		}
		kept = append(kept, cur)
	}
	return kept, dropped
}
