package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSystem(t *testing.T, path, starID string) {
	t.Helper()
	content := fmt.Sprintf(`
[[bodies]]
id = %q
name = "Star"
type = "star"
scale = 2.0

[bodies.material]
color = "#FFCC66"
`, starID)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func awaitRecords(t *testing.T, ch <-chan []Record) []Record {
	t.Helper()
	select {
	case records := <-ch:
		return records
	case <-time.After(5 * time.Second):
		t.Fatal("no catalog emission before timeout")
		return nil
	}
}

func TestWatcherEmitsValidatedReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system.toml")
	writeSystem(t, path, "alpha")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	writeSystem(t, path, "beta")

	records := awaitRecords(t, w.Records)
	require.Len(t, records, 1)
	assert.Equal(t, "beta", records[0].ID)
}

func TestWatcherSkipsInvalidSets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system.toml")
	writeSystem(t, path, "alpha")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	// No star at all: the reload must be dropped, not emitted.
	require.NoError(t, os.WriteFile(path, []byte(`
[[bodies]]
id = "rogue"
name = "Rogue"
type = "planet"
scale = 1.0
`), 0o644))

	select {
	case records := <-w.Records:
		t.Fatalf("invalid catalog emitted: %v", records)
	case <-time.After(500 * time.Millisecond):
	}

	// A valid rewrite flows through afterwards.
	writeSystem(t, path, "gamma")
	records := awaitRecords(t, w.Records)
	require.Len(t, records, 1)
	assert.Equal(t, "gamma", records[0].ID)
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system.toml")
	writeSystem(t, path, "alpha")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0o644))

	select {
	case records := <-w.Records:
		t.Fatalf("sibling write emitted: %v", records)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherStopClosesChannel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system.toml")
	writeSystem(t, path, "alpha")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Start())

	w.Stop()

	_, open := <-w.Records
	assert.False(t, open)
}

func TestWatcherMissingDirectory(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "absent", "system.toml"))
	require.NoError(t, err)
	require.Error(t, w.Start())
}
