package domain

// SectionStatus is a read-only view of one section, as presented to hosts.
type SectionStatus struct {
	Ref             SectionRef         `json:"ref"`
	Name            string             `json:"name,omitempty"`
	Kind            SectionKind        `json:"kind"`
	Total           int                `json:"total"`
	Available       int                `json:"available"`
	Accessible      int                `json:"accessible"`
	Accessibility   AccessibilityLevel `json:"accessibility"`
	Markable        bool               `json:"markable,omitempty"`
	Marking         MarkKind           `json:"marking,omitempty"`
	UserManipulated bool               `json:"user_manipulated,omitempty"`
	// Boss and Prize are set for boss and prize sections.
	Boss  string `json:"boss,omitempty"`
	Prize string `json:"prize,omitempty"`
}

// Cleared reports whether nothing is left to collect.
func (s SectionStatus) Cleared() bool {
	return s.Available == 0
}

// LocationStatus groups the sections of a location.
type LocationStatus struct {
	ID       string          `json:"id"`
	Name     string          `json:"name,omitempty"`
	Sections []SectionStatus `json:"sections"`
}

// Accessibility is the best level among sections with something left to collect.
func (l LocationStatus) Accessibility() AccessibilityLevel {
	level := None
	for _, s := range l.Sections {
		if !s.Cleared() {
			level = Join(level, s.Accessibility)
		}
	}
	return level
}

// Remaining sums Available over all sections.
func (l LocationStatus) Remaining() int {
	n := 0
	for _, s := range l.Sections {
		n += s.Available
	}
	return n
}

// NodeStatus is a read-only view of a graph node and its inbound edges.
type NodeStatus struct {
	ID      string             `json:"id"`
	Entry   bool               `json:"entry,omitempty"`
	Level   AccessibilityLevel `json:"level"`
	Inbound []EdgeStatus       `json:"inbound,omitempty"`
}

// EdgeStatus describes one inbound connection of a node.
type EdgeStatus struct {
	From        string             `json:"from"`
	Requirement string             `json:"requirement,omitempty"`
	Level       AccessibilityLevel `json:"level"`
	Max         AccessibilityLevel `json:"max"`
}
