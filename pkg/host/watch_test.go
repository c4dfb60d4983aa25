package host

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgio "github.com/matzehuels/flowtower/pkg/io"
)

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nodes:\n  - id: a\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	docs := make(chan *pkgio.Document, 4)
	errCh := make(chan error, 1)
	go func() {
		errCh <- Watch(ctx, path, nil, func(d *pkgio.Document) { docs <- d })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)

	// A broken save is skipped; the following good one is delivered.
	require.NoError(t, os.WriteFile(path, []byte("nodes: [\n"), 0o644))
	time.Sleep(3 * WatchDebounce)
	require.NoError(t, os.WriteFile(path, []byte("nodes:\n  - id: a\n  - id: b\nedges:\n  - from: a\n    to: b\n"), 0o644))

	select {
	case doc := <-docs:
		assert.Len(t, doc.Nodes, 2)
		assert.Len(t, doc.Edges, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s")
	}

	// Sibling files do not trigger reloads.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("nodes: []\n"), 0o644))
	select {
	case doc := <-docs:
		t.Fatalf("unexpected reload with %d nodes", len(doc.Nodes))
	case <-time.After(3 * WatchDebounce):
	}

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}
