package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/checkmark/internal/runtime"
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/stretchr/testify/require"
)

// world is a small hand-wired graph used across the runtime tests.
type world struct {
	t *testing.T
	e *runtime.Engine
}

func newWorld(t *testing.T, opts ...runtime.EngineOption) *world {
	t.Helper()
	return &world{t: t, e: runtime.NewEngine(opts...)}
}

func (w *world) req(name string, def runtime.RequirementDef) runtime.ReqID {
	w.t.Helper()
	id, err := w.e.AddRequirement(name, def)
	require.NoError(w.t, err)
	return id
}

func (w *world) node(name string, entry bool) runtime.NodeID {
	w.t.Helper()
	id, err := w.e.AddNode(name, entry)
	require.NoError(w.t, err)
	return id
}

func (w *world) connect(to runtime.NodeID, c runtime.Connection) {
	w.t.Helper()
	require.NoError(w.t, w.e.Connect(to, c))
}

func (w *world) value(name string, def runtime.ValueDef) runtime.ValueID {
	w.t.Helper()
	id, err := w.e.AddValue(name, def)
	require.NoError(w.t, err)
	return id
}

func (w *world) section(location string, def runtime.SectionDef) *runtime.Section {
	w.t.Helper()
	loc, err := w.e.Location(location)
	if err != nil {
		loc, err = w.e.AddLocation(location, "")
		require.NoError(w.t, err)
	}
	s, err := w.e.AddSection(loc, def)
	require.NoError(w.t, err)
	return s
}

func (w *world) start() context.Context {
	w.t.Helper()
	ctx := context.Background()
	require.NoError(w.t, w.e.Start(ctx))
	return ctx
}

func (w *world) level(id runtime.NodeID) domain.AccessibilityLevel {
	return w.e.NodeLevel(id)
}

func checkSectionInvariant(t *testing.T, s *runtime.Section) {
	t.Helper()
	require.GreaterOrEqual(t, s.Accessible(), 0, "accessible below zero on %s", s.Ref())
	require.LessOrEqual(t, s.Accessible(), s.Available(), "accessible above available on %s", s.Ref())
	require.LessOrEqual(t, s.Available(), s.Total(), "available above total on %s", s.Ref())
}
