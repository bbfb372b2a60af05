package metering

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("Add Get Remove", func(t *testing.T) {
		r := newRegistry()
		s := &session{id: "session-1", streamID: "stream-1"}

		r.add(s)
		got, ok := r.get("session-1")
		require.True(t, ok)
		assert.Same(t, s, got)
		assert.Equal(t, 1, r.viewers("stream-1"))

		r.remove(s)
		_, ok = r.get("session-1")
		assert.False(t, ok)
		assert.Equal(t, 0, r.viewers("stream-1"))
	})

	t.Run("Stream Index", func(t *testing.T) {
		r := newRegistry()
		a1 := &session{id: "a-1", streamID: "stream-a"}
		a2 := &session{id: "a-2", streamID: "stream-a"}
		b1 := &session{id: "b-1", streamID: "stream-b"}
		r.add(a1)
		r.add(a2)
		r.add(b1)

		assert.Len(t, r.byStreamID("stream-a"), 2)
		assert.Len(t, r.byStreamID("stream-b"), 1)
		assert.Empty(t, r.byStreamID("stream-c"))
		assert.Len(t, r.all(), 3)

		r.remove(a1)
		r.remove(a2)
		assert.Empty(t, r.byStreamID("stream-a"))
		assert.Equal(t, 0, r.viewers("stream-a"))
		assert.Equal(t, 1, r.viewers("stream-b"))
	})

	t.Run("Concurrent Adds", func(t *testing.T) {
		r := newRegistry()
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				r.add(&session{id: fmt.Sprintf("session-%d", n), streamID: "stream-1"})
			}(i)
		}
		wg.Wait()

		assert.Len(t, r.all(), 100)
		assert.Equal(t, 100, r.viewers("stream-1"))
	})
}
