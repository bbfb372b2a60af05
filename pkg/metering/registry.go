package metering

import (
	"hash/fnv"
	"sync"
)

const shardCount = 16

// registry is the process-wide map of live sessions. It is sharded by session
// id so unrelated sessions never contend on one lock, with a per-stream index
// for stream-wide fan-out. Session state itself is not guarded here; each
// session serializes its own mutation.
type registry struct {
	shards [shardCount]shard

	streamMu sync.RWMutex
	byStream map[string]map[string]*session
}

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newRegistry() *registry {
	r := &registry{byStream: make(map[string]map[string]*session)}
	for i := range r.shards {
		r.shards[i].sessions = make(map[string]*session)
	}
	return r
}

func (r *registry) shardFor(sessionID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &r.shards[h.Sum32()%shardCount]
}

// add registers a session under its id and its stream.
func (r *registry) add(s *session) {
	sh := r.shardFor(s.id)
	sh.mu.Lock()
	sh.sessions[s.id] = s
	sh.mu.Unlock()

	r.streamMu.Lock()
	if r.byStream[s.streamID] == nil {
		r.byStream[s.streamID] = make(map[string]*session)
	}
	r.byStream[s.streamID][s.id] = s
	r.streamMu.Unlock()
}

// remove drops a session from the map and the stream index.
func (r *registry) remove(s *session) {
	sh := r.shardFor(s.id)
	sh.mu.Lock()
	delete(sh.sessions, s.id)
	sh.mu.Unlock()

	r.streamMu.Lock()
	if members := r.byStream[s.streamID]; members != nil {
		delete(members, s.id)
		if len(members) == 0 {
			delete(r.byStream, s.streamID)
		}
	}
	r.streamMu.Unlock()
}

// get looks up a live session by id.
func (r *registry) get(sessionID string) (*session, bool) {
	sh := r.shardFor(sessionID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	s, ok := sh.sessions[sessionID]
	return s, ok
}

// byStreamID returns the live sessions of one stream.
func (r *registry) byStreamID(streamID string) []*session {
	r.streamMu.RLock()
	defer r.streamMu.RUnlock()
	sessions := make([]*session, 0, len(r.byStream[streamID]))
	for _, s := range r.byStream[streamID] {
		sessions = append(sessions, s)
	}
	return sessions
}

// viewers returns the live session count of one stream.
func (r *registry) viewers(streamID string) int {
	r.streamMu.RLock()
	defer r.streamMu.RUnlock()
	return len(r.byStream[streamID])
}

// all returns every live session.
func (r *registry) all() []*session {
	var sessions []*session
	for i := range r.shards {
		sh := &r.shards[i]
		sh.mu.RLock()
		for _, s := range sh.sessions {
			sessions = append(sessions, s)
		}
		sh.mu.RUnlock()
	}
	return sessions
}
