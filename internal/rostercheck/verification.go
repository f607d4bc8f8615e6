package rostercheck

import (
	"fmt"
	"slices"
)

// verifyGrown checks that after holds the baseline in order followed by every
// added email exactly once.
func verifyGrown(baseline, after, added []string) error {
	if len(after) != len(baseline)+len(added) {
		return fmt.Errorf("%w: roster has %d entries, want %d", ErrRosterMismatch, len(after), len(baseline)+len(added))
	}
	if !slices.Equal(after[:len(baseline)], baseline) {
		return fmt.Errorf("%w: existing participants were reordered or removed", ErrRosterMismatch)
	}

	seen := make(map[string]int, len(after))
	for _, email := range after {
		seen[email]++
	}
	for _, email := range added {
		if seen[email] != 1 {
			return fmt.Errorf("%w: %s listed %d times", ErrRosterMismatch, email, seen[email])
		}
	}
	return nil
}

// verifyRestored checks that the roster matches the baseline again.
func verifyRestored(baseline, restored []string) error {
	if !slices.Equal(baseline, restored) {
		return fmt.Errorf("%w: roster %v does not match baseline %v", ErrRosterMismatch, restored, baseline)
	}
	return nil
}
