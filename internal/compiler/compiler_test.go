package compiler_test

import (
	"context"
	"os"
	"testing"

	"github.com/aretw0/checkmark/internal/compiler"
	"github.com/aretw0/checkmark/internal/runtime"
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/aretw0/checkmark/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileDemo(t *testing.T) *runtime.Engine {
	t.Helper()
	data, err := os.ReadFile("testdata/demo.yaml")
	require.NoError(t, err)
	cat, err := compiler.NewParser().Parse(data)
	require.NoError(t, err)
	e, err := compiler.Compile(context.Background(), cat)
	require.NoError(t, err)
	return e
}

func level(t *testing.T, e *runtime.Engine, node string) domain.AccessibilityLevel {
	t.Helper()
	id, ok := e.NodeByName(node)
	require.True(t, ok, "node %s", node)
	return e.NodeLevel(id)
}

func TestCompile_Demo(t *testing.T) {
	ctx := context.Background()
	e := compileDemo(t)

	assert.True(t, e.Started())
	assert.Equal(t, 1, e.Owned("sword"))
	assert.Equal(t, domain.Normal, level(t, e, "light_world"))
	assert.Equal(t, domain.Normal, level(t, e, "eastern_palace"))
	assert.Equal(t, domain.None, level(t, e, "eastern_palace_back"))

	e.SetMode(ctx, domain.SequenceBreakModeKey("clip"), "on")
	assert.Equal(t, domain.SequenceBreak, level(t, e, "eastern_palace_back"))

	e.SetItem(ctx, "bow", 1)
	assert.Equal(t, domain.Normal, level(t, e, "eastern_palace_back"))

	boss, err := e.Section(domain.SectionRef{Location: "eastern_palace", Index: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.Normal, boss.Accessibility())

	e.SetMode(ctx, "world_state", "inverted")
	assert.Equal(t, domain.None, level(t, e, "eastern_palace"))
	assert.Equal(t, domain.None, boss.Accessibility())
}

func TestCompile_WiresSections(t *testing.T) {
	e := compileDemo(t)

	chests, err := e.Section(domain.SectionRef{Location: "eastern_palace", Index: 0})
	require.NoError(t, err)
	assert.Equal(t, domain.KindDungeon, chests.Kind())
	assert.Equal(t, 3, chests.Total())
	assert.Equal(t, 3, chests.Available())
	assert.NotEqual(t, runtime.NoValue, chests.Wiring().Value)

	mushroom, err := e.Section(domain.SectionRef{Location: "mushroom", Index: 0})
	require.NoError(t, err)
	assert.Equal(t, domain.None, mushroom.Accessibility())

	id, ok := e.PlacementByName("eastern_palace")
	require.True(t, ok)
	boss, prize := e.Placement(id)
	assert.Equal(t, "armos", boss)
	assert.Equal(t, "green_pendant", prize)
}

func TestCompile_AutoTrack(t *testing.T) {
	ctx := context.Background()
	e := compileDemo(t)

	chests, err := e.Section(domain.SectionRef{Location: "eastern_palace", Index: 0})
	require.NoError(t, err)

	e.WriteMemory(ctx, 0x7EF4C0, 2)
	assert.Equal(t, 1, chests.Available())
	assert.True(t, e.Unsaved())
}

func TestCompile_InvalidCatalog(t *testing.T) {
	cat := &schema.Catalog{
		Nodes: []schema.NodeSpec{
			{ID: "a", Connections: []schema.ConnectionSpec{{From: "missing"}}},
		},
		Locations: []schema.LocationSpec{
			{ID: "x", Sections: []schema.SectionSpec{{Kind: "item", Node: "nowhere"}}},
		},
	}

	_, err := compiler.Compile(context.Background(), cat)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Len(t, schema.ValidationErrors(err), 2)
}
