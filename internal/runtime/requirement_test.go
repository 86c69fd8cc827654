package runtime_test

import (
	"testing"

	"github.com/aretw0/checkmark/internal/runtime"
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirements_Kinds(t *testing.T) {
	w := newWorld(t)
	glove := w.req("glove", runtime.HasItem("glove", 1))
	mitts := w.req("mitts", runtime.HasItem("glove", 2))
	inverted := w.req("inverted", runtime.ModeIs("world_state", "inverted"))
	fakeFlipper := w.req("fake_flipper", runtime.SequenceBreakEnabled("fake_flipper"))
	both := w.req("both", runtime.AllOf(glove, inverted))
	either := w.req("either", runtime.AnyOf(mitts, fakeFlipper))
	glitched := w.req("glitched", runtime.Capped(either, domain.SequenceBreak))
	ctx := w.start()

	levels := func() []domain.AccessibilityLevel {
		var out []domain.AccessibilityLevel
		for _, id := range []runtime.ReqID{glove, mitts, inverted, fakeFlipper, both, either, glitched} {
			out = append(out, w.e.RequirementLevel(id))
		}
		return out
	}

	// Absent data evaluates to None, never an error.
	assert.Equal(t, []domain.AccessibilityLevel{
		domain.None, domain.None, domain.None, domain.None, domain.None, domain.None, domain.None,
	}, levels())

	w.e.SetItem(ctx, "glove", 1)
	w.e.SetMode(ctx, "world_state", "inverted")
	w.e.SetMode(ctx, domain.SequenceBreakModeKey("fake_flipper"), "on")
	assert.Equal(t, []domain.AccessibilityLevel{
		domain.Normal, domain.None, domain.Normal, domain.SequenceBreak, domain.Normal, domain.SequenceBreak, domain.SequenceBreak,
	}, levels())

	w.e.AddItem(ctx, "glove", 1)
	assert.Equal(t, domain.Normal, w.e.RequirementLevel(either))
	assert.Equal(t, domain.SequenceBreak, w.e.RequirementLevel(glitched), "cap downgrades a fully reachable path")

	w.e.SetMode(ctx, domain.SequenceBreakModeKey("fake_flipper"), domain.SequenceBreakOff)
	assert.Equal(t, domain.None, w.e.RequirementLevel(fakeFlipper))
}

func TestRequirements_ItemCountNeverNegative(t *testing.T) {
	w := newWorld(t)
	w.req("bombs", runtime.HasItem("bombs", 1))
	ctx := w.start()

	w.e.AddItem(ctx, "bombs", -3)
	assert.Equal(t, 0, w.e.Context().Item("bombs"))
	w.e.AddItem(ctx, "bombs", 2)
	assert.Equal(t, 2, w.e.Context().Item("bombs"))
}

func TestRequirements_Validation(t *testing.T) {
	e := runtime.NewEngine()

	_, err := e.AddRequirement("bad", runtime.RequirementDef{Kind: "teleport"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = e.AddRequirement("forward", runtime.AllOf(runtime.ReqID(5)))
	assert.ErrorIs(t, err, domain.ErrConfiguration, "children must be registered first")

	id, err := e.AddRequirement("ok", runtime.Static(domain.Normal))
	require.NoError(t, err)
	_, err = e.AddRequirement("ok", runtime.Static(domain.Normal))
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = e.AddRequirement("cap", runtime.RequirementDef{Kind: runtime.ReqCap, Children: []runtime.ReqID{id, id}})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestRequirements_NoRequirementIsNormal(t *testing.T) {
	e := runtime.NewEngine()
	assert.Equal(t, domain.Normal, e.RequirementLevel(runtime.NoRequirement))
}
