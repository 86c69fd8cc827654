package checkmark_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/checkmark"
	"github.com/aretw0/checkmark/pkg/adapters/memory"
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/aretw0/checkmark/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	mushroom = domain.SectionRef{Location: "mushroom", Index: 0}
	chests   = domain.SectionRef{Location: "eastern_palace", Index: 0}
	prize    = domain.SectionRef{Location: "eastern_palace", Index: 1}
)

func openDemo(t *testing.T, opts ...checkmark.Option) *checkmark.Tracker {
	t.Helper()
	tr, err := checkmark.Open(context.Background(), "testdata/demo.yaml", opts...)
	require.NoError(t, err)
	return tr
}

func section(t *testing.T, tr *checkmark.Tracker, ref domain.SectionRef) domain.SectionStatus {
	t.Helper()
	st, err := tr.Section(ref)
	require.NoError(t, err)
	return st
}

func TestOpen_File(t *testing.T) {
	tr := openDemo(t, checkmark.WithSessionID("run-1"))

	assert.Equal(t, "run-1", tr.ID())
	assert.Equal(t, "demo", tr.CatalogName())
	assert.Equal(t, 1, tr.Owned("sword"))
	assert.Equal(t, "open", tr.Mode("world_state"))

	locs := tr.Locations()
	require.Len(t, locs, 2)
	assert.Equal(t, "eastern_palace", locs[0].ID)
	assert.Equal(t, "Eastern Palace", locs[0].Name)
	assert.Equal(t, "mushroom", locs[1].ID)

	boss := section(t, tr, prize)
	assert.Equal(t, "armos", boss.Boss)
	assert.Equal(t, "green_pendant", boss.Prize)
}

func TestOpen_GeneratesSessionID(t *testing.T) {
	tr := openDemo(t)
	assert.NotEmpty(t, tr.ID())
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := checkmark.Open(ctx, "")
	assert.Error(t, err)

	_, err = checkmark.Open(ctx, "testdata/missing.yaml")
	assert.Error(t, err)

	_, err = checkmark.New(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestOpen_WithLoader(t *testing.T) {
	data, err := os.ReadFile("testdata/demo.yaml")
	require.NoError(t, err)
	loader, err := memory.NewLoaderFromBytes(data)
	require.NoError(t, err)

	tr, err := checkmark.Open(context.Background(), "", checkmark.WithLoader(loader))
	require.NoError(t, err)
	assert.Len(t, tr.Locations(), 2)
}

func TestTracker_CollectUndoRedo(t *testing.T) {
	ctx := context.Background()
	tr := openDemo(t)

	err := tr.Collect(ctx, mushroom, false)
	assert.ErrorIs(t, err, domain.ErrCommandDeclined)
	assert.False(t, tr.CanUndo())

	require.NoError(t, tr.SetItem(ctx, "hammer", 1))
	assert.Equal(t, domain.Normal, section(t, tr, mushroom).Accessibility)

	require.NoError(t, tr.Collect(ctx, mushroom, false))
	st := section(t, tr, mushroom)
	assert.Equal(t, 0, st.Available)
	assert.True(t, st.UserManipulated)
	assert.Equal(t, []string{"set hammer to 1", "collect mushroom/0"}, tr.History())

	require.NoError(t, tr.Undo(ctx))
	assert.Equal(t, 1, section(t, tr, mushroom).Available)
	assert.True(t, tr.CanRedo())

	require.NoError(t, tr.Redo(ctx))
	assert.Equal(t, 0, section(t, tr, mushroom).Available)

	require.NoError(t, tr.Uncollect(ctx, mushroom))
	assert.Equal(t, 1, section(t, tr, mushroom).Available)
}

func TestTracker_UnknownSection(t *testing.T) {
	ctx := context.Background()
	tr := openDemo(t)

	err := tr.Collect(ctx, domain.SectionRef{Location: "nowhere"}, false)
	assert.ErrorIs(t, err, domain.ErrUnknownLocation)

	err = tr.Collect(ctx, domain.SectionRef{Location: "mushroom", Index: 4}, false)
	assert.ErrorIs(t, err, domain.ErrUnknownSection)

	_, err = tr.Location("nowhere")
	assert.ErrorIs(t, err, domain.ErrUnknownLocation)

	err = tr.Undo(ctx)
	assert.ErrorIs(t, err, domain.ErrNothingToUndo)
}

func TestTracker_SetItemNoop(t *testing.T) {
	ctx := context.Background()
	tr := openDemo(t)

	require.NoError(t, tr.SetItem(ctx, "sword", 1))
	assert.False(t, tr.CanUndo())

	err := tr.SetItem(ctx, "sword", -1)
	assert.ErrorIs(t, err, domain.ErrCommandDeclined)
}

func TestTracker_TogglePrize(t *testing.T) {
	ctx := context.Background()
	tr := openDemo(t)

	assert.Equal(t, domain.None, section(t, tr, prize).Accessibility)
	err := tr.TogglePrize(ctx, prize, false, "")
	assert.ErrorIs(t, err, domain.ErrCommandDeclined)

	require.NoError(t, tr.TogglePrize(ctx, prize, true, "red_pendant"))
	st := section(t, tr, prize)
	assert.Equal(t, 0, st.Available)
	assert.Equal(t, "red_pendant", st.Prize)
	assert.Equal(t, 1, tr.Item("red_pendant"))
	assert.Equal(t, 0, tr.Owned("red_pendant"))

	require.NoError(t, tr.Undo(ctx))
	st = section(t, tr, prize)
	assert.Equal(t, 1, st.Available)
	assert.Equal(t, "green_pendant", st.Prize)
	assert.Equal(t, 0, tr.Item("red_pendant"))

	err = tr.TogglePrize(ctx, mushroom, true, "")
	assert.ErrorIs(t, err, domain.ErrCommandDeclined)
}

func TestTracker_ChangePrize(t *testing.T) {
	ctx := context.Background()
	tr := openDemo(t)

	require.NoError(t, tr.ChangePrize(ctx, "eastern_palace", "crystal_1"))
	assert.Equal(t, "crystal_1", section(t, tr, prize).Prize)

	require.NoError(t, tr.Undo(ctx))
	assert.Equal(t, "green_pendant", section(t, tr, prize).Prize)

	err := tr.ChangePrize(ctx, "nowhere", "crystal_1")
	assert.ErrorIs(t, err, domain.ErrUnknownPlacement)
}

func TestTracker_ModesAndNodes(t *testing.T) {
	ctx := context.Background()
	tr := openDemo(t)

	require.NoError(t, tr.SetMode(ctx, domain.SequenceBreakModeKey("clip"), "on"))
	nodes := tr.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "light_world", nodes[0].ID)
	assert.True(t, nodes[0].Entry)
	back := nodes[2]
	assert.Equal(t, "eastern_palace_back", back.ID)
	assert.Equal(t, domain.SequenceBreak, back.Level)
	require.Len(t, back.Inbound, 1)
	assert.Equal(t, "eastern_palace", back.Inbound[0].From)
	assert.Equal(t, "bow_or_clip", back.Inbound[0].Requirement)
	assert.Equal(t, domain.Normal, back.Inbound[0].Max)

	require.NoError(t, tr.SetMode(ctx, "world_state", "inverted"))
	assert.Equal(t, domain.None, tr.Nodes()[1].Level)

	assert.Error(t, tr.SetMode(ctx, "", "x"))
}

func TestTracker_SaveRestore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tr := openDemo(t, checkmark.WithStore(store), checkmark.WithSessionID("s1"))

	err := tr.Restore(ctx)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	require.NoError(t, tr.SetItem(ctx, "hammer", 1))
	require.NoError(t, tr.Collect(ctx, mushroom, false))
	snap, err := tr.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s1", snap.ID)
	assert.Equal(t, "demo", snap.Catalog)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)

	require.NoError(t, tr.Reset(ctx))
	assert.Equal(t, 1, section(t, tr, mushroom).Available)
	assert.Equal(t, 0, tr.Owned("hammer"))
	assert.False(t, tr.CanUndo())

	require.NoError(t, tr.Restore(ctx))
	assert.Equal(t, 0, section(t, tr, mushroom).Available)
	assert.Equal(t, 1, tr.Owned("hammer"))
	assert.False(t, tr.CanUndo())
}

func TestTracker_MemoryUnsaved(t *testing.T) {
	ctx := context.Background()
	tr := openDemo(t)

	require.NoError(t, tr.WriteMemory(ctx, 0x7EF4C0, 2))
	assert.Equal(t, 1, section(t, tr, chests).Available)
	assert.True(t, tr.Unsaved())

	_, err := tr.Save(ctx)
	require.NoError(t, err)
	assert.False(t, tr.Unsaved())
}

func TestTracker_Attach(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := memory.NewSource()
	tr := openDemo(t)

	done, err := tr.Attach(ctx, src)
	require.NoError(t, err)

	src.Write(0x7EF4C0, 3)
	assert.Eventually(t, func() bool {
		return section(t, tr, chests).Available == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("feed did not stop after cancel")
	}
}

func TestTracker_ApplyMemoryBatch(t *testing.T) {
	ctx := context.Background()
	tr := openDemo(t)

	tr.ApplyMemory(ctx, []ports.MemoryReading{{Address: 0x7EF4C0, Value: 1}})
	assert.Equal(t, 2, section(t, tr, chests).Available)

	tr.ClearMemory(ctx)
	tr.ApplyMemory(ctx, nil)
	assert.True(t, tr.Unsaved())
}

func TestTracker_Hooks(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	var commands []string
	hooks := domain.LifecycleHooks{
		OnCommand: func(_ context.Context, ev *domain.CommandEvent) {
			mu.Lock()
			defer mu.Unlock()
			commands = append(commands, ev.Name)
		},
	}
	tr := openDemo(t, checkmark.WithLifecycleHooks(hooks))

	require.NoError(t, tr.SetItem(ctx, "hammer", 1))
	require.NoError(t, tr.Undo(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"set hammer to 1", "set hammer to 1"}, commands)
}

func TestTracker_ConcurrentUse(t *testing.T) {
	ctx := context.Background()
	tr := openDemo(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tr.WriteMemory(ctx, 0x10+i, i)
			_ = tr.Locations()
			_ = tr.Snapshot()
		}()
	}
	wg.Wait()
	assert.Len(t, tr.Locations(), 2)
}
