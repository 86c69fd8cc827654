package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/checkmark/internal/runtime"
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name      string
		state     domain.SectionState
		obtained  int
		total     int
		want      domain.SectionState
		wantDirty bool
	}{
		{"already aligned", domain.SectionState{Available: 2}, 1, 3, domain.SectionState{Available: 2}, false},
		{"auto-tracker found items", domain.SectionState{Available: 3}, 2, 3, domain.SectionState{Available: 1}, true},
		{"overrides manual state", domain.SectionState{Available: 0, UserManipulated: true}, 0, 3, domain.SectionState{Available: 3, UserManipulated: true}, true},
		{"clamped above total", domain.SectionState{Available: 1}, 5, 3, domain.SectionState{Available: 0}, true},
		{"clamped below zero", domain.SectionState{Available: 1}, -2, 3, domain.SectionState{Available: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dirty := runtime.Reconcile(tt.state, tt.obtained, tt.total)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDirty, dirty)
		})
	}
}

func TestEngine_AutoTrackIsIdempotent(t *testing.T) {
	unsaved := 0
	var reconciled []domain.SectionRef
	w := newWorld(t, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnUnsaved: func(context.Context) { unsaved++ },
		OnReconcile: func(_ context.Context, evt *domain.SectionEvent) {
			reconciled = append(reconciled, evt.Ref)
		},
	}))
	start := w.node("start", true)
	count := w.value("hearts", runtime.AddressValue(0x30, 0, 4))
	s := w.section("heart_pieces", runtime.SectionDef{Kind: domain.KindItem, Total: 4, Node: start, Value: count})
	ctx := w.start()

	w.e.WriteMemory(ctx, 0x30, 3)
	assert.Equal(t, 1, s.Available())
	assert.True(t, w.e.Unsaved())
	assert.Equal(t, 1, unsaved)
	assert.Len(t, reconciled, 1)

	w.e.WriteMemory(ctx, 0x30, 3)
	assert.Equal(t, 1, unsaved, "same reading, no second toggle")
	assert.Len(t, reconciled, 1)

	w.e.MarkSaved()
	w.e.ReplaceMemory(ctx, map[int]int{0x30: 3})
	assert.False(t, w.e.Unsaved())
}

func TestEngine_AutoTrackOverridesManualCollect(t *testing.T) {
	w := newWorld(t)
	start := w.node("start", true)
	found := w.value("found", runtime.AddressBool(0x40, runtime.CompareNe, 0))
	s := w.section("chest", runtime.SectionDef{Kind: domain.KindItem, Total: 1, Node: start, Value: found})
	ctx := w.start()

	s.Clear(ctx, false)
	s.SetUserManipulated(true)
	assert.Equal(t, 0, s.Available())

	w.e.WriteMemory(ctx, 0x40, 0)
	assert.Equal(t, 1, s.Available(), "the reading says the chest is still closed")

	w.e.WriteMemory(ctx, 0x40, 1)
	assert.Equal(t, 0, s.Available())
}
