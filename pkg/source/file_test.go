package source_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/togglekit/togglekit/pkg/rollout"
	"github.com/togglekit/togglekit/pkg/source"
	"github.com/togglekit/togglekit/pkg/store"
	"github.com/togglekit/togglekit/pkg/toggle"
)

// The rollout engine is the intended receiver for every source.
var _ source.Handler = (*rollout.Engine)(nil)

// recordingHandler captures every pushed toggle set.
type recordingHandler struct {
	mu   sync.Mutex
	sets [][]toggle.Toggle
	err  error
}

func (h *recordingHandler) OnToggleDefinitionsUpdated(_ context.Context, defs []toggle.Toggle) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	cp := make([]toggle.Toggle, len(defs))
	copy(cp, defs)
	h.sets = append(h.sets, cp)
	return nil
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sets)
}

func (h *recordingHandler) last() []toggle.Toggle {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.sets) == 0 {
		return nil
	}
	return h.sets[len(h.sets)-1]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeDoc(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNewFileSource(t *testing.T) {
	t.Parallel()

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		_, err := source.NewFileSource("", &recordingHandler{})
		assert.ErrorIs(t, err, source.ErrEmptyPath)
	})

	t.Run("nil handler", func(t *testing.T) {
		t.Parallel()

		_, err := source.NewFileSource("toggles.yaml", nil)
		assert.ErrorIs(t, err, source.ErrNilHandler)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()

		_, err := source.NewFileSource("toggles.toml", &recordingHandler{})
		assert.ErrorIs(t, err, source.ErrUnsupportedFormat)
	})
}

func TestFileSource_Sync(t *testing.T) {
	t.Parallel()

	t.Run("pushes a yaml document", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "toggles.yaml")
		writeDoc(t, path, sampleYAML)

		rec := &recordingHandler{}
		src, err := source.NewFileSource(path, rec, source.WithFileLogger(discardLogger()))
		require.NoError(t, err)

		require.NoError(t, src.Sync(context.Background()))
		assertSampleSet(t, rec.last())
	})

	t.Run("pushes a json document", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "toggles.json")
		writeDoc(t, path, sampleJSON)

		rec := &recordingHandler{}
		src, err := source.NewFileSource(path, rec, source.WithFileLogger(discardLogger()))
		require.NoError(t, err)

		require.NoError(t, src.Sync(context.Background()))
		assertSampleSet(t, rec.last())
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "toggles.yaml")

		rec := &recordingHandler{}
		src, err := source.NewFileSource(path, rec, source.WithFileLogger(discardLogger()))
		require.NoError(t, err)

		err = src.Sync(context.Background())
		assert.ErrorIs(t, err, source.ErrReadDocument)
		assert.Zero(t, rec.count())
	})

	t.Run("malformed document pushes nothing", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "toggles.yaml")
		writeDoc(t, path, "toggles: {broken")

		rec := &recordingHandler{}
		src, err := source.NewFileSource(path, rec, source.WithFileLogger(discardLogger()))
		require.NoError(t, err)

		err = src.Sync(context.Background())
		assert.ErrorIs(t, err, source.ErrInvalidDocument)
		assert.Zero(t, rec.count())
	})

	t.Run("handler rejection propagates", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "toggles.yaml")
		writeDoc(t, path, sampleYAML)

		rejection := errors.New("batch rejected")
		rec := &recordingHandler{err: rejection}
		src, err := source.NewFileSource(path, rec, source.WithFileLogger(discardLogger()))
		require.NoError(t, err)

		assert.ErrorIs(t, src.Sync(context.Background()), rejection)
	})

	t.Run("feeds a real engine", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "toggles.yaml")
		writeDoc(t, path, sampleYAML)

		eng, err := rollout.New(store.New(), rollout.NewDecisionCache(64, time.Minute))
		require.NoError(t, err)

		src, err := source.NewFileSource(path, eng, source.WithFileLogger(discardLogger()))
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, src.Sync(ctx))

		d := eng.Evaluate(ctx, "checkout-redesign", "user-1")
		assert.Equal(t, toggle.SourceResolved, d.Source)
		assert.True(t, d.Enabled)

		d = eng.Evaluate(ctx, "maintenance-banner", "user-1")
		assert.Equal(t, toggle.SourceFallbackInactive, d.Source)
	})
}

const updatedYAML = `toggles:
  - name: search-ranking
    active: true
    variants:
      - name: bm25
        weight: 1
`

func TestFileSource_Watch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "toggles.yaml")
	writeDoc(t, path, sampleYAML)

	rec := &recordingHandler{}
	src, err := source.NewFileSource(path, rec, source.WithFileLogger(discardLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- src.Watch(ctx) }()

	// The initial load is pushed before any file change.
	require.Eventually(t, func() bool { return rec.count() >= 1 },
		5*time.Second, 10*time.Millisecond, "initial document never pushed")
	assertSampleSet(t, rec.last())

	// An in-place rewrite is picked up.
	writeDoc(t, path, updatedYAML)
	require.Eventually(t, func() bool {
		last := rec.last()
		return len(last) == 1 && last[0].Name == "search-ranking"
	}, 5*time.Second, 10*time.Millisecond, "rewritten document never pushed")

	// A malformed rewrite is skipped and the last good set stays.
	writeDoc(t, path, "toggles: {broken")
	time.Sleep(200 * time.Millisecond)
	last := rec.last()
	require.Len(t, last, 1)
	assert.Equal(t, "search-ranking", last[0].Name)

	// An atomic replace (write-then-rename, the way editors and config
	// mounts update files) is picked up too.
	tmp := filepath.Join(dir, "toggles.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(sampleYAML), 0o600))
	require.NoError(t, os.Rename(tmp, path))
	require.Eventually(t, func() bool { return len(rec.last()) == 2 },
		5*time.Second, 10*time.Millisecond, "replaced document never pushed")

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
