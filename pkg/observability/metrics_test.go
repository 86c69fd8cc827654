package observability

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/checkmark/pkg/domain"
)

func TestMetrics_Hooks(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics()
	h := m.Hooks()

	h.OnNodeChange(ctx, &domain.NodeEvent{NodeID: "a", From: domain.None, To: domain.Normal})
	h.OnSectionChange(ctx, &domain.SectionEvent{Kind: domain.KindItem, Accessibility: domain.Normal})
	h.OnReconcile(ctx, &domain.SectionEvent{Kind: domain.KindDungeon})
	h.OnCommand(ctx, &domain.CommandEvent{Name: "collect mushroom/0"})
	h.OnCommand(ctx, &domain.CommandEvent{Name: "collect mushroom/0", Undo: true})
	h.OnCommand(ctx, &domain.CommandEvent{Name: "set hammer to 1", IsError: true})
	h.OnUnsaved(ctx)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.nodeChanges.WithLabelValues("normal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sectionChanges.WithLabelValues("item", "normal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reconciles.WithLabelValues("dungeon")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("collect", "false", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("collect", "true", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("set", "false", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unsaved))
}

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics()
	m.Observe([]domain.LocationStatus{
		{ID: "a", Sections: []domain.SectionStatus{{Available: 2, Accessibility: domain.Partial}}},
		{ID: "b", Sections: []domain.SectionStatus{{Available: 1, Accessibility: domain.Normal}}},
		{ID: "c", Sections: []domain.SectionStatus{{Available: 0, Accessibility: domain.Normal}}},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.locations.WithLabelValues("partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.locations.WithLabelValues("normal")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.locations.WithLabelValues("none")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.remaining))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.Hooks().OnUnsaved(context.Background())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "checkmark_unsaved_total 1")
}

func TestMerge(t *testing.T) {
	ctx := context.Background()
	var calls []string
	a := domain.LifecycleHooks{
		OnCommand: func(context.Context, *domain.CommandEvent) { calls = append(calls, "a") },
		OnUnsaved: func(context.Context) { calls = append(calls, "a-unsaved") },
	}
	b := domain.LifecycleHooks{
		OnCommand: func(context.Context, *domain.CommandEvent) { calls = append(calls, "b") },
	}

	merged := Merge(a, domain.LifecycleHooks{}, b)
	merged.OnCommand(ctx, &domain.CommandEvent{})
	merged.OnUnsaved(ctx)
	assert.Nil(t, merged.OnNodeChange)
	assert.Equal(t, []string{"a", "b", "a-unsaved"}, calls)
}
