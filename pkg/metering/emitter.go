package metering

import (
	"sync"
	"time"

	"github.com/vilokanam/tickmeter/pkg/models"
)

// emitter produces the tick sequence for one active session. Sequence numbers
// start at 1 and increase by exactly one per emitted tick; a tick the consumer
// never takes is never numbered, so the sequence has no gaps.
//
// Delivery is an unbuffered channel send: the ticker may fire while the
// previous tick is still settling, but the next event is not handed over until
// the consumer is ready. Settlement is therefore serialized per session.
type emitter struct {
	interval time.Duration
	ticks    chan models.TickEvent

	started  bool
	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
}

func newEmitter(interval time.Duration) *emitter {
	return &emitter{
		interval: interval,
		ticks:    make(chan models.TickEvent),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// start begins emission for the session.
func (e *emitter) start(sessionID string) {
	e.started = true
	go e.run(sessionID)
}

func (e *emitter) run(sessionID string) {
	defer close(e.done)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	var sequence uint64
	for {
		select {
		case <-e.quit:
			return
		case at := <-ticker.C:
			sequence++
			event := models.TickEvent{SessionId: sessionID, Sequence: sequence, At: at}
			select {
			case e.ticks <- event:
			case <-e.quit:
				return
			}
		}
	}
}

// stop halts emission. After it returns no further ticks are delivered.
// Idempotent, and safe on an emitter that was never started.
func (e *emitter) stop() {
	e.quitOnce.Do(func() { close(e.quit) })
	if e.started {
		<-e.done
	}
}
