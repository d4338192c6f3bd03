package source

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	path := writeTemp(t, "g.yaml", "nodes: A, B\nedges: A-B 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Loaded, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, Options{}, log.New(io.Discard), func(l *Loaded) {
			reloaded <- l
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	// A broken file is logged and skipped.
	require.NoError(t, os.WriteFile(path, []byte("nodes: A\nedges: A-B oops\n"), 0o644))
	time.Sleep(2 * reloadDelay)
	require.NoError(t, os.WriteFile(path, []byte("nodes: A, B, C\nedges: A-B 1, B-C 2\n"), 0o644))

	select {
	case l := <-reloaded:
		assert.Len(t, l.Graph.Nodes, 3)
		assert.Len(t, l.Graph.Edges, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), "/nonexistent/dir/g.yaml", Options{}, log.New(io.Discard), func(*Loaded) {})
	assert.Error(t, err)
}
