package domain

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on a client.
type SnapshotDiff struct {
	// ID is always present to identify the target.
	ID string `json:"id"`

	// Sections contains only changed or added section states.
	Sections map[string]SectionState `json:"sections,omitempty"`

	// Items contains changed item counts. Removed items are reported as 0.
	Items map[string]int `json:"items,omitempty"`

	// Modes contains changed modes. Removed modes are reported as "".
	Modes map[string]string `json:"modes,omitempty"`

	Bosses map[string]string `json:"bosses,omitempty"`
	Prizes map[string]string `json:"prizes,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}
	if oldSnap == nil {
		oldSnap = &Snapshot{}
	}

	diff := &SnapshotDiff{
		ID:       newSnap.ID,
		Sections: diffMap(oldSnap.Sections, newSnap.Sections, SectionState{}),
		Items:    diffMap(oldSnap.Items, newSnap.Items, 0),
		Modes:    diffMap(oldSnap.Modes, newSnap.Modes, ""),
		Bosses:   diffMap(oldSnap.Bosses, newSnap.Bosses, ""),
		Prizes:   diffMap(oldSnap.Prizes, newSnap.Prizes, ""),
	}
	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// diffMap reports added and modified keys of newMap, and deleted keys with the zero value.
func diffMap[V comparable](oldMap, newMap map[string]V, zero V) map[string]V {
	delta := make(map[string]V)
	for k, newVal := range newMap {
		if oldVal, exists := oldMap[k]; !exists || oldVal != newVal {
			delta[k] = newVal
		}
	}
	for k := range oldMap {
		if _, exists := newMap[k]; !exists {
			delta[k] = zero
		}
	}
	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return len(d.Sections) == 0 &&
		len(d.Items) == 0 &&
		len(d.Modes) == 0 &&
		len(d.Bosses) == 0 &&
		len(d.Prizes) == 0
}
