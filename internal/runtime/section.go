package runtime

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/checkmark/pkg/domain"
)

// SectionDef is the static wiring of a section. Zero ids mean "not wired".
type SectionDef struct {
	Name  string
	Kind  domain.SectionKind
	Total int
	// Markable overrides the kind default when set.
	Markable *bool

	Node        NodeID
	Requirement ReqID
	// Visible is the node a visible-kind section can be inspected from.
	Visible NodeID
	// Pool provides the accessible item count of a dungeon section.
	Pool PoolID
	// Value is the auto-track source reporting how many items were obtained.
	Value ValueID
	// Placement supplies the boss (and prize) of boss and prize sections.
	Placement PlacementID
	// ExitNode receives an alternate exit while an entrance section is collected.
	ExitNode NodeID
}

// Location groups the sections behind one named place on the map.
type Location struct {
	ID       string
	Name     string
	Sections []*Section
}

// Section is the collectible unit behind a single check.
type Section struct {
	e        *Engine
	id       SectionID
	ref      domain.SectionRef
	def      SectionDef
	markable bool

	state         domain.SectionState
	accessible    int
	accessibility domain.AccessibilityLevel

	// clears is the stack of amounts removed by Clear and not yet given back.
	clears     []int
	valueDirty bool

	exitApplied  bool
	contribution string
}

func (s *Section) ID() SectionID              { return s.id }
func (s *Section) Ref() domain.SectionRef     { return s.ref }
func (s *Section) Name() string               { return s.def.Name }
func (s *Section) Kind() domain.SectionKind   { return s.def.Kind }
func (s *Section) Markable() bool             { return s.markable }
func (s *Section) Total() int                 { return s.def.Total }
func (s *Section) Available() int             { return s.state.Available }
func (s *Section) Accessible() int            { return s.accessible }
func (s *Section) UserManipulated() bool      { return s.state.UserManipulated }
func (s *Section) Marking() domain.MarkKind   { return s.state.Marking }
func (s *Section) State() domain.SectionState { return s.state }
func (s *Section) Wiring() SectionDef         { return s.def }
func (s *Section) Accessibility() domain.AccessibilityLevel {
	return s.accessibility
}

// CanBeCleared reports whether a collect is allowed.
// Markable sections may also be cleared at exactly Inspect until they carry a marking.
func (s *Section) CanBeCleared(force bool) bool {
	if s.state.Available <= 0 {
		return false
	}
	if force || s.accessibility > domain.Inspect {
		return true
	}
	return s.markable && s.accessibility == domain.Inspect && s.state.Marking == domain.MarkUnknown
}

// CanBeUncollected reports whether anything was collected.
func (s *Section) CanBeUncollected() bool {
	return s.state.Available < s.def.Total
}

// Clear collects what is currently reachable and returns the amount removed.
//
// Item sections take one at a time while the section is above None (or forced).
// Dungeon sections take their whole accessible count at once, or everything when forced.
// Singleton sections are emptied.
func (s *Section) Clear(ctx context.Context, force bool) int {
	s.e.markSection(s)
	before := s.state.Available
	switch s.def.Kind {
	case domain.KindItem:
		for (s.accessibility > domain.None || force) && s.state.Available > 0 {
			s.state.Available--
			s.derive()
		}
	case domain.KindDungeon:
		if force {
			s.state.Available = 0
		} else {
			s.state.Available -= s.accessible
		}
	default:
		s.state.Available = 0
	}
	delta := before - s.state.Available
	if delta > 0 {
		s.clears = append(s.clears, delta)
	}
	s.e.settle(ctx)
	return delta
}

// Uncollect gives back the amount removed by the most recent Clear, or one, bounded by Total.
// It returns the amount given back.
func (s *Section) Uncollect(ctx context.Context) int {
	if !s.CanBeUncollected() {
		return 0
	}
	s.e.markSection(s)
	before := s.state.Available
	delta := 1
	if n := len(s.clears); n > 0 {
		delta = s.clears[n-1]
		s.clears = s.clears[:n-1]
	}
	s.state.Available = min(s.def.Total, before+delta)
	s.e.settle(ctx)
	return s.state.Available - before
}

// Restore puts back a previously observed state. Available is clamped to [0, Total].
func (s *Section) Restore(ctx context.Context, st domain.SectionState) {
	st.Available = max(0, min(st.Available, s.def.Total))
	if st == s.state {
		return
	}
	s.e.markSection(s)
	s.state = st
	s.e.settle(ctx)
}

// ForgetClear drops the most recent Clear amount after that Clear was undone.
func (s *Section) ForgetClear() {
	if n := len(s.clears); n > 0 {
		s.clears = s.clears[:n-1]
	}
}

// RememberClear pushes back an amount consumed by an Uncollect that was undone.
func (s *Section) RememberClear(delta int) {
	if delta > 0 {
		s.clears = append(s.clears, delta)
	}
}

// SetUserManipulated records that a human changed Available.
func (s *Section) SetUserManipulated(v bool) {
	s.state.UserManipulated = v
}

// SetMarking sets the hint annotation. It does not affect Available.
func (s *Section) SetMarking(ctx context.Context, m domain.MarkKind) {
	if s.state.Marking == m {
		return
	}
	s.e.markSection(s)
	s.state.Marking = m
	s.e.settle(ctx)
}

// primary is the level of the section's own node and requirement.
func (s *Section) primary() domain.AccessibilityLevel {
	return domain.Meet(s.e.NodeLevel(s.def.Node), s.e.RequirementLevel(s.def.Requirement))
}

// derive recomputes Accessible and Accessibility from the live graph.
func (s *Section) derive() {
	available := s.state.Available
	switch s.def.Kind {
	case domain.KindItem:
		s.accessibility = s.primary()
		s.accessible = 0
		if s.accessibility.Reachable() {
			s.accessible = available
		}
		return
	case domain.KindDungeon:
		s.deriveDungeon()
		return
	case domain.KindBoss, domain.KindPrize:
		s.accessibility = domain.Meet(s.primary(), s.e.bossLevel(s.def.Placement))
	default:
		seen := domain.None
		if s.def.Visible != NoNode {
			seen = domain.Meet(domain.Inspect, s.e.NodeLevel(s.def.Visible))
		}
		s.accessibility = domain.Join(s.primary(), seen)
	}
	s.accessible = 0
	if s.accessibility.Reachable() {
		s.accessible = available
	}
}

func (s *Section) deriveDungeon() {
	provider := s.e.Pool(s.def.Pool)
	available := s.state.Available
	unavailable := s.def.Total - available
	s.accessible = max(0, min(provider.Accessible-unavailable, available))

	switch {
	case s.accessible >= available:
		s.accessibility = domain.Normal
		if normal := max(0, provider.Normal-unavailable); normal < available {
			s.accessibility = domain.SequenceBreak
		}
	case s.accessible > 0:
		s.accessibility = domain.Partial
	case unavailable == provider.Accessible && provider.Visible:
		s.accessibility = domain.Inspect
	default:
		s.accessibility = domain.None
	}
}

// applySideEffects keeps entrance exits and prize contributions in line with Available.
func (s *Section) applySideEffects() {
	collected := s.state.Available == 0

	if s.def.ExitNode != NoNode && collected != s.exitApplied {
		s.exitApplied = collected
		exit := s.e.node(s.def.ExitNode)
		if collected {
			exit.exits++
		} else {
			exit.exits--
		}
		s.e.seedNode(s.def.ExitNode)
	}

	if s.def.Kind == domain.KindPrize && s.def.Placement != NoPlacement {
		want := ""
		if collected {
			want = s.e.placement(s.def.Placement).prize
		}
		if want != s.contribution {
			if s.contribution != "" {
				s.e.ctx.contribute(s.contribution, -1)
			}
			if want != "" {
				s.e.ctx.contribute(want, 1)
			}
			s.contribution = want
		}
	}
}

// AddLocation registers a location. Sections are appended with AddSection.
func (e *Engine) AddLocation(id, name string) (*Location, error) {
	if err := e.checkBuilding(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("%w: location id is required", domain.ErrConfiguration)
	}
	if _, dup := e.locationIndex[id]; dup {
		return nil, fmt.Errorf("%w: duplicate location %q", domain.ErrConfiguration, id)
	}
	if name == "" {
		name = id
	}
	loc := &Location{ID: id, Name: name}
	e.locationIndex[id] = len(e.locations)
	e.locations = append(e.locations, loc)
	return loc, nil
}

// AddSection wires a section into a location.
func (e *Engine) AddSection(loc *Location, def SectionDef) (*Section, error) {
	if err := e.checkBuilding(); err != nil {
		return nil, err
	}
	where := fmt.Sprintf("%s/%d", loc.ID, len(loc.Sections))
	if err := e.checkSectionDef(def); err != nil {
		return nil, fmt.Errorf("%w: section %s: %v", domain.ErrConfiguration, where, err)
	}
	if def.Kind.Singleton() {
		def.Total = 1
	}
	markable := def.Kind.MarkableByDefault()
	if def.Markable != nil {
		markable = *def.Markable
	}

	id := SectionID(len(e.sections) + 1)
	s := &Section{
		e:        e,
		id:       id,
		ref:      domain.SectionRef{Location: loc.ID, Index: len(loc.Sections)},
		def:      def,
		markable: markable,
		state:    domain.SectionState{Available: def.Total},
	}
	e.sections = append(e.sections, s)
	e.dirtySections.grow()
	loc.Sections = append(loc.Sections, s)

	for _, n := range []NodeID{def.Node, def.Visible} {
		if n != NoNode && !slices.Contains(e.node(n).sections, id) {
			e.node(n).sections = append(e.node(n).sections, id)
		}
	}
	if def.Requirement != NoRequirement {
		r := e.req(def.Requirement)
		r.sections = append(r.sections, id)
	}
	if def.Pool != NoPool {
		p := e.pool(def.Pool)
		p.sections = append(p.sections, id)
	}
	if def.Value != NoValue {
		v := e.value(def.Value)
		v.sections = append(v.sections, id)
	}
	if def.Placement != NoPlacement {
		p := e.placement(def.Placement)
		p.sections = append(p.sections, id)
	}
	return s, nil
}

func (e *Engine) checkSectionDef(def SectionDef) error {
	if !def.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", def.Kind)
	}
	if def.Total < 0 {
		return fmt.Errorf("negative total %d", def.Total)
	}
	for _, n := range []NodeID{def.Node, def.Visible, def.ExitNode} {
		if n != NoNode && !e.validNode(n) {
			return fmt.Errorf("unknown node %d", n)
		}
	}
	if def.Requirement != NoRequirement && !e.validReq(def.Requirement) {
		return fmt.Errorf("unknown requirement %d", def.Requirement)
	}
	if def.Value != NoValue && (def.Value < NoValue || int(def.Value) > len(e.values)) {
		return fmt.Errorf("unknown value %d", def.Value)
	}
	if def.Placement != NoPlacement && !e.validPlacement(def.Placement) {
		return fmt.Errorf("unknown placement %d", def.Placement)
	}
	switch def.Kind {
	case domain.KindDungeon:
		if def.Pool == NoPool || int(def.Pool) > len(e.pools) || def.Pool < NoPool {
			return fmt.Errorf("dungeon section needs a pool")
		}
		if def.Node != NoNode || def.Requirement != NoRequirement {
			return fmt.Errorf("dungeon section takes its accessibility from the pool, not a node or requirement")
		}
	case domain.KindBoss, domain.KindPrize:
		if def.Node == NoNode {
			return fmt.Errorf("%s section needs a node", def.Kind)
		}
		if def.Placement == NoPlacement {
			return fmt.Errorf("%s section needs a placement", def.Kind)
		}
	default:
		if def.Node == NoNode {
			return fmt.Errorf("%s section needs a node", def.Kind)
		}
	}
	if def.Visible != NoNode && !def.Kind.Visible() {
		return fmt.Errorf("%s section cannot have a visible node", def.Kind)
	}
	return nil
}

// Locations returns every location in catalog order.
func (e *Engine) Locations() []*Location {
	return slices.Clone(e.locations)
}

// Location looks up a location by id.
func (e *Engine) Location(id string) (*Location, error) {
	i, ok := e.locationIndex[id]
	if !ok {
		return nil, fmt.Errorf("location %q: %w", id, domain.ErrUnknownLocation)
	}
	return e.locations[i], nil
}

// Section looks up a section by reference.
func (e *Engine) Section(ref domain.SectionRef) (*Section, error) {
	loc, err := e.Location(ref.Location)
	if err != nil {
		return nil, err
	}
	if ref.Index < 0 || ref.Index >= len(loc.Sections) {
		return nil, fmt.Errorf("section %s: %w", ref, domain.ErrUnknownSection)
	}
	return loc.Sections[ref.Index], nil
}

// Sections returns every section in registration order.
func (e *Engine) Sections() []*Section {
	return slices.Clone(e.sections)
}

func (e *Engine) section(id SectionID) *Section {
	return e.sections[id-1]
}

// markSection queues a section for re-derivation and records its observable
// values before the first change of the current settle.
func (e *Engine) markSection(s *Section) {
	if _, seen := e.sectionBefore[s.id]; !seen {
		e.sectionBefore[s.id] = sectionView{
			available:     s.state.Available,
			accessible:    s.accessible,
			accessibility: s.accessibility,
		}
	}
	e.dirtySections.mark(int(s.id) - 1)
}

func (e *Engine) settleSections() {
	if e.dirtySections.empty() {
		return
	}
	for i, s := range e.sections {
		if !e.dirtySections.take(i) {
			continue
		}
		if s.valueDirty {
			s.valueDirty = false
			e.reconcile(s)
		}
		s.derive()
		s.applySideEffects()
	}
}

func (e *Engine) reconcile(s *Section) {
	v, ok := e.Value(s.def.Value)
	if !ok {
		return
	}
	next, dirty := Reconcile(s.state, v, s.def.Total)
	if !dirty {
		return
	}
	s.state = next
	e.unsaved = true
	e.unsavedRaised = true
	e.reconciled[s.id] = true
}

type sectionView struct {
	available     int
	accessible    int
	accessibility domain.AccessibilityLevel
}
