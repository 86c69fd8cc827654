package domain

import "time"

// Snapshot is the persisted state of a tracking session.
// Section keys are SectionRef strings ("location/index").
// Loading a Snapshot applies only the entries it carries.
type Snapshot struct {
	ID        string                  `json:"id"`
	Catalog   string                  `json:"catalog,omitempty"`
	Sections  map[string]SectionState `json:"sections,omitempty"`
	Items     map[string]int          `json:"items,omitempty"`
	Modes     map[string]string       `json:"modes,omitempty"`
	Bosses    map[string]string       `json:"bosses,omitempty"`
	Prizes    map[string]string       `json:"prizes,omitempty"`
	UpdatedAt time.Time               `json:"updated_at"`
	// Sealed holds the encrypted form of the other fields when the snapshot
	// was written through an encrypting store.
	Sealed string `json:"sealed,omitempty"`
}

// NewSnapshot creates an empty snapshot with initialized maps.
func NewSnapshot(id string) *Snapshot {
	return &Snapshot{
		ID:       id,
		Sections: make(map[string]SectionState),
		Items:    make(map[string]int),
		Modes:    make(map[string]string),
		Bosses:   make(map[string]string),
		Prizes:   make(map[string]string),
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Sections = make(map[string]SectionState, len(s.Sections))
	for k, v := range s.Sections {
		c.Sections[k] = v
	}
	c.Items = cloneMap(s.Items)
	c.Modes = cloneMap(s.Modes)
	c.Bosses = cloneMap(s.Bosses)
	c.Prizes = cloneMap(s.Prizes)
	return &c
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
