package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/checkmark"
	"github.com/aretw0/checkmark/pkg/adapters/memory"
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/aretw0/checkmark/pkg/observability"
	"github.com/aretw0/checkmark/pkg/ports"
	"github.com/aretw0/checkmark/pkg/session"
)

func newTracker(t *testing.T, opts ...checkmark.Option) *checkmark.Tracker {
	t.Helper()
	opts = append(opts, checkmark.WithSessionID("sess-1"))
	tr, err := checkmark.Open(context.Background(), "../../../testdata/demo.yaml", opts...)
	require.NoError(t, err)
	return tr
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Basics(t *testing.T) {
	h := NewHandler(newTracker(t), WithVersion("1.2.3"))

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "GET", "/info", "")
	assert.Contains(t, w.Body.String(), `"version":"1.2.3"`)
	assert.Contains(t, w.Body.String(), `"session":"sess-1"`)

	w = do(t, h, "GET", "/locations", "")
	require.Equal(t, http.StatusOK, w.Code)
	var locs []domain.LocationStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &locs))
	assert.Len(t, locs, 2)

	w = do(t, h, "GET", "/locations/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "OPTIONS", "/locations", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_CommandFlow(t *testing.T) {
	h := NewHandler(newTracker(t))

	w := do(t, h, "POST", "/locations/mushroom/sections/0/collect", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, "POST", "/locations/mushroom/sections/x/collect", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "POST", "/locations/mushroom/sections/9/collect", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "PUT", "/items/hammer", `{"count": 1}`)
	require.Equal(t, http.StatusOK, w.Code)
	var diff domain.SnapshotDiff
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &diff))
	assert.Equal(t, 1, diff.Items["hammer"])

	w = do(t, h, "POST", "/locations/mushroom/sections/0/collect", "")
	require.Equal(t, http.StatusOK, w.Code)
	var loc domain.LocationStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loc))
	assert.Equal(t, 0, loc.Sections[0].Available)

	w = do(t, h, "POST", "/undo", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, h, "POST", "/undo", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, h, "POST", "/undo", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, "POST", "/redo", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "PUT", "/items/hammer", `{"count": 1}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, "PUT", "/items/hammer", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_MemoryAndModes(t *testing.T) {
	h := NewHandler(newTracker(t))

	w := do(t, h, "PUT", "/memory/0x7EF4C0", `{"value": 2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "eastern_palace/0")

	w = do(t, h, "PUT", "/memory/zzz", `{"value": 2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "PUT", "/modes/world_state", `{"value": "inverted"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"world_state":"inverted"`)

	w = do(t, h, "POST", "/reset", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "GET", "/snapshot", "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "open", snap.Modes["world_state"])
}

func TestServer_Save(t *testing.T) {
	store := memory.NewStore()
	h := NewHandler(newTracker(t, checkmark.WithStore(store)))

	w := do(t, h, "POST", "/save", "")
	require.Equal(t, http.StatusOK, w.Code)

	snap, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "demo", snap.Catalog)
}

func TestServer_Metrics(t *testing.T) {
	metrics := observability.NewMetrics()
	tr := newTracker(t, checkmark.WithLifecycleHooks(metrics.Hooks()))
	h := NewHandler(tr, WithMetrics(metrics))

	do(t, h, "PUT", "/items/hammer", `{"count": 1}`)

	w := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `checkmark_commands_total{command="set",result="ok",undo="false"} 1`)
	assert.Contains(t, body, "checkmark_remaining_items")
}

type busyLocker struct{}

func (busyLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	return nil, fmt.Errorf("%w: %s", domain.ErrSessionLocked, key)
}

func TestServer_SessionLocked(t *testing.T) {
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(busyLocker{}))
	h := NewHandler(newTracker(t), WithSessionManager(mgr))

	w := do(t, h, "PUT", "/items/hammer", `{"count": 1}`)
	assert.Equal(t, http.StatusLocked, w.Code)

	w = do(t, h, "POST", "/save", "")
	assert.Equal(t, http.StatusLocked, w.Code)

	w = do(t, h, "GET", "/locations", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubscribeEvents(t *testing.T) {
	h := NewHandler(newTracker(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest("GET", "/events?watch=items", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(wSub, reqSub)
	}()

	time.Sleep(100 * time.Millisecond) // Wait for subscription to register

	do(t, h, "PUT", "/modes/world_state", `{"value": "inverted"}`)
	do(t, h, "PUT", "/items/hammer", `{"count": 1}`)

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	output := wSub.Body.String()
	assert.Contains(t, output, "event: ping")
	assert.Contains(t, output, `"hammer":1`)
	assert.NotContains(t, output, "inverted")
}
