package runtime

import "github.com/aretw0/checkmark/pkg/domain"

// Reconcile aligns a section state with an auto-track reading of obtained items.
// Auto-tracking is authoritative: Available becomes Total minus the reading, clamped
// to [0, Total], regardless of UserManipulated. dirty reports whether anything changed,
// so repeating the same reading is a no-op.
func Reconcile(state domain.SectionState, obtained, total int) (domain.SectionState, bool) {
	target := max(0, min(total-obtained, total))
	if state.Available == target {
		return state, false
	}
	state.Available = target
	return state, true
}
