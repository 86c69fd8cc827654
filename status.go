package checkmark

import (
	"github.com/aretw0/checkmark/internal/runtime"
	"github.com/aretw0/checkmark/pkg/domain"
)

// Locations returns the status of every location in catalog order.
func (t *Tracker) Locations() []domain.LocationStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	locs := t.engine.Locations()
	out := make([]domain.LocationStatus, 0, len(locs))
	for _, loc := range locs {
		out = append(out, t.locationStatus(loc))
	}
	return out
}

// Location returns the status of one location.
func (t *Tracker) Location(id string) (domain.LocationStatus, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	loc, err := t.engine.Location(id)
	if err != nil {
		return domain.LocationStatus{}, err
	}
	return t.locationStatus(loc), nil
}

// Section returns the status of one section.
func (t *Tracker) Section(ref domain.SectionRef) (domain.SectionStatus, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sec, err := t.engine.Section(ref)
	if err != nil {
		return domain.SectionStatus{}, err
	}
	return t.sectionStatus(sec), nil
}

// Nodes returns every graph node with its settled level and inbound edges.
func (t *Tracker) Nodes() []domain.NodeStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	nodes := t.engine.Nodes()
	out := make([]domain.NodeStatus, 0, len(nodes))
	for _, n := range nodes {
		st := domain.NodeStatus{ID: n.Name(), Entry: n.Entry(), Level: n.Level()}
		for _, c := range n.Inbound() {
			st.Inbound = append(st.Inbound, domain.EdgeStatus{
				From:        t.engine.Node(c.From).Name(),
				Requirement: t.engine.RequirementName(c.Requirement),
				Level:       t.engine.RequirementLevel(c.Requirement),
				Max:         c.Max,
			})
		}
		out = append(out, st)
	}
	return out
}

func (t *Tracker) locationStatus(loc *runtime.Location) domain.LocationStatus {
	st := domain.LocationStatus{ID: loc.ID, Name: loc.Name, Sections: make([]domain.SectionStatus, 0, len(loc.Sections))}
	for _, sec := range loc.Sections {
		st.Sections = append(st.Sections, t.sectionStatus(sec))
	}
	return st
}

func (t *Tracker) sectionStatus(sec *runtime.Section) domain.SectionStatus {
	st := domain.SectionStatus{
		Ref:             sec.Ref(),
		Name:            sec.Name(),
		Kind:            sec.Kind(),
		Total:           sec.Total(),
		Available:       sec.Available(),
		Accessible:      sec.Accessible(),
		Accessibility:   sec.Accessibility(),
		Markable:        sec.Markable(),
		Marking:         sec.Marking(),
		UserManipulated: sec.UserManipulated(),
	}
	if id := sec.Wiring().Placement; id != runtime.NoPlacement {
		st.Boss, st.Prize = t.engine.Placement(id)
	}
	return st
}
