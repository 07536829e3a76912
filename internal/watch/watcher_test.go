package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ecsact-dev/ecsact-lang-cpp/internal/logx"
)

type recorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recorder) record(files []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, files)
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.batches...)
}

func TestDebouncerBatches(t *testing.T) {
	var rec recorder
	d := NewDebouncer(30 * time.Millisecond)
	d.SetCallback(rec.record)
	defer d.Stop()

	d.Add("b.yaml")
	d.Add("a.yaml")
	d.Add("b.yaml")

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, [][]string{{"a.yaml", "b.yaml"}}, rec.snapshot())

	d.Add("c.yaml")
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"c.yaml"}, rec.snapshot()[1])
}

func TestDebouncerStop(t *testing.T) {
	var rec recorder
	d := NewDebouncer(20 * time.Millisecond)
	d.SetCallback(rec.record)

	d.Add("a.yaml")
	d.Stop()
	d.Stop()
	d.Add("b.yaml")

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestNewRequiresFiles(t *testing.T) {
	_, err := New(nil, 0, nil, func([]string) error { return nil })
	require.Error(t, err)
}

func TestNewWatchesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "pkgs")
	w, err := New([]string{
		filepath.Join(dir, "game.ecsact.yaml"),
		filepath.Join(sub, "util.ecsact.json"),
		filepath.Join(dir, "world.ecsact.yaml"),
	}, 0, nil, func([]string) error { return nil })
	require.NoError(t, err)
	defer w.Stop()

	assert.Equal(t, []string{dir, sub}, w.Dirs())
	assert.Equal(t, DefaultDebounce, w.debouncer.duration)
}

func TestWatcherTriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "game.ecsact.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(tracked, []byte("name: game\n"), 0o644))

	var rec recorder
	w, err := New([]string{tracked}, 30*time.Millisecond, nil, func(files []string) error {
		rec.record(files)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(tracked, []byte("name: game\ncomponents: []\n"), 0o644))

	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, 2*time.Second, 10*time.Millisecond)
	for _, batch := range rec.snapshot() {
		assert.Equal(t, []string{tracked}, batch)
	}
}

func TestWatcherLogsCallbackErrors(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "game.ecsact.yaml")
	require.NoError(t, os.WriteFile(tracked, []byte("name: game\n"), 0o644))

	core, logs := observer.New(zapcore.DebugLevel)
	w, err := New([]string{tracked}, 20*time.Millisecond, logx.NewZapLogger(zap.New(core)), func([]string) error {
		return errors.New("bad snapshot")
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(tracked, []byte("name: broken\n"), 0o644))
	require.Eventually(t, func() bool {
		return logs.FilterMessage("handling file changes").Len() > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{filepath.Join(dir, "a.yaml")}, 0, nil, func([]string) error { return nil })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
