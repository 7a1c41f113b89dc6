//go:build unit

package broker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeCloser struct {
	mu     sync.Mutex
	closed bool
}

func (f *fakeCloser) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeCloser) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestCloseOnDone(t *testing.T) {
	t.Run("context cancellation closes the connection", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		conn := &fakeCloser{}

		stop := closeOnDone(ctx, conn)
		defer stop()

		cancel()
		assert.Eventually(t, conn.isClosed, time.Second, 5*time.Millisecond)
	})

	t.Run("stop releases the watcher without closing", func(t *testing.T) {
		// the consume loop ending on its own must not leave a watcher
		// behind that closes the next connection
		ctx, cancel := context.WithCancel(context.Background())
		conn := &fakeCloser{}

		stop := closeOnDone(ctx, conn)
		stop()
		cancel()

		time.Sleep(50 * time.Millisecond)
		assert.False(t, conn.isClosed())
	})
}
