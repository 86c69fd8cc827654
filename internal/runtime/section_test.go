package runtime_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/aretw0/checkmark/internal/runtime"
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSection_PlainSingleItem(t *testing.T) {
	w := newWorld(t)
	start := w.node("start", true)
	s := w.section("link_house", runtime.SectionDef{Name: "Chest", Kind: domain.KindItem, Total: 1, Node: start})
	ctx := w.start()

	require.True(t, s.CanBeCleared(false))
	assert.Equal(t, 1, s.Accessible())

	assert.Equal(t, 1, s.Clear(ctx, false))
	assert.Equal(t, 0, s.Available())
	assert.Equal(t, 0, s.Accessible())
	assert.Equal(t, domain.Normal, s.Accessibility(), "accessibility still mirrors the node")
	assert.False(t, s.CanBeCleared(false))
	assert.True(t, s.CanBeUncollected())
}

func TestSection_PlainClearTakesEverythingReachable(t *testing.T) {
	w := newWorld(t)
	start := w.node("start", true)
	far := w.node("far", false)
	s := w.section("cave", runtime.SectionDef{Kind: domain.KindItem, Total: 5, Node: start})
	blocked := w.section("far_cave", runtime.SectionDef{Kind: domain.KindItem, Total: 2, Node: far})
	ctx := w.start()

	assert.Equal(t, 5, s.Clear(ctx, false))
	assert.Equal(t, 0, s.Available())

	assert.False(t, blocked.CanBeCleared(false))
	assert.Equal(t, 0, blocked.Clear(ctx, false), "nothing reachable, nothing taken")
	assert.Equal(t, 2, blocked.Clear(ctx, true))
}

// dungeonWorld wires a pool with two reachable slots and one only visible slot.
func dungeonWorld(t *testing.T) (*world, *runtime.Section) {
	w := newWorld(t)
	inside := w.node("dungeon", true)
	peek := w.req("peek", runtime.Static(domain.Inspect))
	pool, err := w.e.AddPool("eastern_palace", []runtime.Slot{
		{Node: inside},
		{Node: inside},
		{Node: inside, Requirement: peek},
	})
	require.NoError(t, err)
	s := w.section("eastern_palace", runtime.SectionDef{Kind: domain.KindDungeon, Total: 3, Pool: pool})
	return w, s
}

func TestSection_Dungeon(t *testing.T) {
	w, s := dungeonWorld(t)
	ctx := w.start()

	assert.Equal(t, 3, s.Available())
	assert.Equal(t, 2, s.Accessible())
	assert.Equal(t, domain.Partial, s.Accessibility())

	s.Restore(ctx, domain.SectionState{Available: 1})
	assert.Equal(t, 0, s.Accessible())
	assert.Equal(t, domain.Inspect, s.Accessibility(), "everything reachable was taken and the rest is visible")
}

func TestSection_DungeonClearTakesAccessibleInOneStep(t *testing.T) {
	w, s := dungeonWorld(t)
	ctx := w.start()

	assert.Equal(t, 2, s.Clear(ctx, false))
	assert.Equal(t, 1, s.Available())
	assert.Equal(t, 2, s.Uncollect(ctx), "uncollect mirrors the clear delta")
	assert.Equal(t, 3, s.Available())

	assert.Equal(t, 3, s.Clear(ctx, true))
	assert.Equal(t, 0, s.Available())
	assert.Equal(t, domain.Normal, s.Accessibility())
}

func TestSection_DungeonSequenceBreak(t *testing.T) {
	w := newWorld(t)
	inside := w.node("dungeon", true)
	clip := w.req("clip", runtime.SequenceBreakEnabled("clip"))
	pool, err := w.e.AddPool("tower", []runtime.Slot{{Node: inside}, {Node: inside, Requirement: clip}})
	require.NoError(t, err)
	s := w.section("tower", runtime.SectionDef{Kind: domain.KindDungeon, Total: 2, Pool: pool})
	ctx := w.start()

	assert.Equal(t, domain.Partial, s.Accessibility())
	w.e.SetMode(ctx, domain.SequenceBreakModeKey("clip"), "on")
	assert.Equal(t, 2, s.Accessible())
	assert.Equal(t, domain.SequenceBreak, s.Accessibility())
}

func TestSection_EntranceVisibility(t *testing.T) {
	w := newWorld(t)
	overworld := w.node("overworld", true)
	cave := w.node("cave", false)
	s := w.section("hidden_cave", runtime.SectionDef{Kind: domain.KindEntrance, Node: cave, Visible: overworld})
	w.start()

	assert.Equal(t, domain.Inspect, s.Accessibility(), "visible from afar, never higher than Inspect")
	assert.Equal(t, 1, s.Total())
	assert.Equal(t, 0, s.Accessible())
	assert.True(t, s.Markable())
	assert.True(t, s.CanBeCleared(false), "first click on an inspectable markable section")

	s.SetMarking(context.Background(), domain.MarkInspected)
	assert.False(t, s.CanBeCleared(false), "marking consumed the inspect allowance")
	assert.True(t, s.CanBeCleared(true))
}

func TestSection_EntranceExitFeedsNode(t *testing.T) {
	w := newWorld(t)
	overworld := w.node("overworld", true)
	underworld := w.node("underworld", false)
	chestRoom := w.node("chest_room", false)
	w.connect(chestRoom, runtime.Edge(underworld, runtime.NoRequirement))
	door := w.section("door", runtime.SectionDef{Kind: domain.KindEntrance, Node: overworld, ExitNode: underworld})
	chest := w.section("chest_room", runtime.SectionDef{Kind: domain.KindItem, Total: 1, Node: chestRoom})
	ctx := w.start()

	assert.Equal(t, domain.None, chest.Accessibility())
	door.Clear(ctx, false)
	assert.Equal(t, 1, w.e.Node(underworld).Exits())
	assert.Equal(t, domain.Normal, chest.Accessibility(), "the collected entrance opens the node behind it")

	door.Uncollect(ctx)
	assert.Equal(t, 0, w.e.Node(underworld).Exits())
	assert.Equal(t, domain.None, chest.Accessibility())
}

func TestSection_PrizeContribution(t *testing.T) {
	w := newWorld(t)
	pendant := w.req("green_pendant", runtime.HasItem("green_pendant", 1))
	start := w.node("start", true)
	sanctuary := w.node("sanctuary", false)
	w.connect(sanctuary, runtime.Edge(start, pendant))
	placement, err := w.e.AddPlacement("eastern_palace", "armos", "green_pendant")
	require.NoError(t, err)
	prize := w.section("eastern_palace", runtime.SectionDef{Kind: domain.KindPrize, Node: start, Placement: placement})
	ctx := w.start()

	assert.Equal(t, domain.None, w.level(sanctuary))
	prize.Clear(ctx, false)
	assert.Equal(t, 1, w.e.Context().Item("green_pendant"))
	assert.Equal(t, 0, w.e.Context().Owned("green_pendant"), "contributions are not owned items")
	assert.Equal(t, domain.Normal, w.level(sanctuary))

	require.NoError(t, w.e.SetPrize(ctx, placement, "red_pendant"))
	assert.Equal(t, 0, w.e.Context().Item("green_pendant"), "the old prize contribution is removed")
	assert.Equal(t, 1, w.e.Context().Item("red_pendant"))
	assert.Equal(t, domain.None, w.level(sanctuary))

	prize.Uncollect(ctx)
	assert.Equal(t, 0, w.e.Context().Item("red_pendant"))

	require.NoError(t, w.e.SetPrize(ctx, placement, "green_pendant"))
	assert.Equal(t, 0, w.e.Context().Item("green_pendant"), "an uncollected prize contributes nothing")
}

func TestSection_BossRequirementFollowsPlacement(t *testing.T) {
	w := newWorld(t)
	bow := w.req("bow", runtime.HasItem("bow", 1))
	start := w.node("start", true)
	require.NoError(t, w.e.MapBoss("armos", bow))
	placement, err := w.e.AddPlacement("eastern_palace", "armos", "")
	require.NoError(t, err)
	boss := w.section("eastern_palace", runtime.SectionDef{Kind: domain.KindBoss, Node: start, Placement: placement})
	ctx := w.start()

	assert.Equal(t, domain.None, boss.Accessibility())
	w.e.SetItem(ctx, "bow", 1)
	assert.Equal(t, domain.Normal, boss.Accessibility())
	w.e.SetItem(ctx, "bow", 0)

	require.NoError(t, w.e.SetBoss(ctx, placement, "moldorm"))
	assert.Equal(t, domain.Normal, boss.Accessibility(), "a boss without a requirement does not restrict")
	assert.ErrorIs(t, w.e.SetBoss(ctx, 99, "armos"), domain.ErrUnknownPlacement)
}

func TestSection_ClearUncollectSymmetry(t *testing.T) {
	for _, kind := range []domain.SectionKind{domain.KindItem, domain.KindEntrance, domain.KindShop} {
		t.Run(string(kind), func(t *testing.T) {
			w := newWorld(t)
			far := w.node("far", false)
			s := w.section("loc", runtime.SectionDef{Kind: kind, Total: 4, Node: far})
			ctx := w.start()

			before := s.State()
			s.Clear(ctx, true)
			s.Uncollect(ctx)
			assert.Equal(t, before, s.State())
		})
	}
}

func TestSection_UncollectBoundedByTotal(t *testing.T) {
	w := newWorld(t)
	start := w.node("start", true)
	s := w.section("loc", runtime.SectionDef{Kind: domain.KindItem, Total: 3, Node: start})
	ctx := w.start()

	s.Restore(ctx, domain.SectionState{Available: 2})
	assert.Equal(t, 1, s.Uncollect(ctx), "no clear to mirror, give back one")
	assert.Equal(t, 0, s.Uncollect(ctx))
	assert.Equal(t, 3, s.Available())
}

func TestSection_InvariantUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	w := newWorld(t)
	key := w.req("key", runtime.HasItem("small_key", 1))
	start := w.node("start", true)
	back := w.node("back", false)
	w.connect(back, runtime.Edge(start, key))
	pool, err := w.e.AddPool("palace", []runtime.Slot{{Node: start}, {Node: back}, {Node: back, Requirement: key}})
	require.NoError(t, err)
	count := w.value("count", runtime.AddressValue(0x20, 0, 3))
	sections := []*runtime.Section{
		w.section("palace", runtime.SectionDef{Kind: domain.KindDungeon, Total: 3, Pool: pool, Value: count}),
		w.section("back", runtime.SectionDef{Kind: domain.KindItem, Total: 4, Node: back}),
		w.section("door", runtime.SectionDef{Kind: domain.KindEntrance, Node: start, ExitNode: back}),
	}
	ctx := w.start()

	for i := 0; i < 500; i++ {
		s := sections[rng.Intn(len(sections))]
		switch rng.Intn(5) {
		case 0:
			s.Clear(ctx, rng.Intn(2) == 0)
		case 1:
			s.Uncollect(ctx)
		case 2:
			w.e.SetItem(ctx, "small_key", rng.Intn(2))
		case 3:
			w.e.WriteMemory(ctx, 0x20, rng.Intn(6)-1)
		case 4:
			w.e.ClearMemory(ctx)
		}
		for _, sec := range sections {
			checkSectionInvariant(t, sec)
		}
	}
}

func TestSection_Lookup(t *testing.T) {
	w := newWorld(t)
	start := w.node("start", true)
	w.section("link_house", runtime.SectionDef{Kind: domain.KindItem, Total: 1, Node: start})
	w.start()

	s, err := w.e.Section(domain.SectionRef{Location: "link_house", Index: 0})
	require.NoError(t, err)
	assert.Equal(t, "link_house/0", s.Ref().String())

	_, err = w.e.Section(domain.SectionRef{Location: "link_house", Index: 3})
	assert.ErrorIs(t, err, domain.ErrUnknownSection)
	_, err = w.e.Location("ganons_tower")
	assert.ErrorIs(t, err, domain.ErrUnknownLocation)
}

func TestSection_WiringValidation(t *testing.T) {
	e := runtime.NewEngine()
	loc, err := e.AddLocation("loc", "")
	require.NoError(t, err)

	_, err = e.AddSection(loc, runtime.SectionDef{Kind: domain.KindDungeon, Total: 2})
	assert.ErrorIs(t, err, domain.ErrConfiguration, "dungeon without pool")

	_, err = e.AddSection(loc, runtime.SectionDef{Kind: "chest", Total: 1})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	n, err := e.AddNode("n", true)
	require.NoError(t, err)
	_, err = e.AddSection(loc, runtime.SectionDef{Kind: domain.KindItem, Total: -1, Node: n})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	_, err = e.AddSection(loc, runtime.SectionDef{Kind: domain.KindItem, Total: 1, Node: n, Visible: n})
	assert.ErrorIs(t, err, domain.ErrConfiguration, "only visible kinds take a visible node")

	pool, err := e.AddPool("pool", []runtime.Slot{{Node: n}})
	require.NoError(t, err)
	bow, err := e.AddRequirement("bow", runtime.HasItem("bow", 1))
	require.NoError(t, err)
	_, err = e.AddSection(loc, runtime.SectionDef{Kind: domain.KindDungeon, Total: 1, Pool: pool, Node: n})
	assert.ErrorIs(t, err, domain.ErrConfiguration, "dungeon sections ignore nodes")
	_, err = e.AddSection(loc, runtime.SectionDef{Kind: domain.KindDungeon, Total: 1, Pool: pool, Requirement: bow})
	assert.ErrorIs(t, err, domain.ErrConfiguration, "dungeon sections ignore requirements")
	_, err = e.AddSection(loc, runtime.SectionDef{Kind: domain.KindDungeon, Total: 1, Pool: pool})
	assert.NoError(t, err)
}
