package smoke

import (
	"fmt"
	"slices"
)

// verifyEnrolled checks that after holds before as an unchanged prefix,
// followed by exactly the added emails in any order.
func verifyEnrolled(before, after, added []string) error {
	if len(after) != len(before)+len(added) {
		return fmt.Errorf("roster has %d participants, expected %d", len(after), len(before)+len(added))
	}
	if !slices.Equal(after[:len(before)], before) {
		return fmt.Errorf("existing participants were reordered or removed")
	}

	tail := slices.Clone(after[len(before):])
	want := slices.Clone(added)
	slices.Sort(tail)
	slices.Sort(want)
	if !slices.Equal(tail, want) {
		return fmt.Errorf("new participants do not match successful sign-ups")
	}
	return nil
}

// verifyRestored checks that the roster is exactly what it was before the run.
func verifyRestored(before, after []string) error {
	if !slices.Equal(before, after) {
		return fmt.Errorf("roster not restored: before=%v after=%v", before, after)
	}
	return nil
}
