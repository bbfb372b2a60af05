package metering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitter(t *testing.T) {
	t.Run("Gapless Sequence From One", func(t *testing.T) {
		e := newEmitter(2 * time.Millisecond)
		e.start("session-1")
		defer e.stop()

		for want := uint64(1); want <= 5; want++ {
			select {
			case event := <-e.ticks:
				assert.Equal(t, want, event.Sequence)
				assert.Equal(t, "session-1", event.SessionId)
				assert.False(t, event.At.IsZero())
			case <-time.After(time.Second):
				t.Fatalf("tick %d never arrived", want)
			}
		}
	})

	t.Run("Slow Consumer Gets Consecutive Sequences", func(t *testing.T) {
		e := newEmitter(2 * time.Millisecond)
		e.start("session-1")
		defer e.stop()

		first := <-e.ticks
		require.Equal(t, uint64(1), first.Sequence)

		// Let the ticker fire many times while nobody is receiving. A tick
		// that was never handed over is never numbered, so the next one
		// delivered is 2, not 10.
		time.Sleep(20 * time.Millisecond)
		second := <-e.ticks
		assert.Equal(t, uint64(2), second.Sequence)
	})

	t.Run("Stop Halts Delivery", func(t *testing.T) {
		e := newEmitter(time.Millisecond)
		e.start("session-1")

		<-e.ticks
		e.stop()

		select {
		case event := <-e.ticks:
			t.Fatalf("tick %d delivered after stop", event.Sequence)
		case <-time.After(10 * time.Millisecond):
		}
	})

	t.Run("Stop Is Idempotent", func(t *testing.T) {
		e := newEmitter(time.Millisecond)
		e.start("session-1")
		e.stop()
		e.stop()
	})

	t.Run("Stop Before Start", func(t *testing.T) {
		e := newEmitter(time.Millisecond)
		e.stop()
	})
}
