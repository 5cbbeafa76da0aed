package memory

import (
	"sync"

	"unit-chat-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// sessionState is the non-durable, per-session controller state: the live
// message sequence (which may run ahead of or behind the persisted one, see the
// regenerate contract) and the single-flight sending gate.
type sessionState struct {
	Messages []entity.Message
	Sending  bool
}

// RuntimeRepository holds in-memory session state. Entries never expire on
// their own; a provisionally truncated sequence must survive until the process
// restarts or the session is deleted.
type RuntimeRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewRuntimeRepository() *RuntimeRepository {
	return &RuntimeRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Messages returns the live sequence for the session, when one is tracked.
func (r *RuntimeRepository) Messages(sessionId string) ([]entity.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.get(sessionId)
	if !ok {
		return nil, false
	}
	return state.Messages, true
}

func (r *RuntimeRepository) SetMessages(sessionId string, messages []entity.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.get(sessionId)
	if !ok {
		state = &sessionState{}
		r.cache.Set(sessionId, state, cache.NoExpiration)
	}
	state.Messages = messages
}

// TryBeginSending flips the Idle -> Sending gate. It reports false when a call
// is already in flight for the session; the caller must then reject, not queue.
func (r *RuntimeRepository) TryBeginSending(sessionId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.get(sessionId)
	if !ok {
		state = &sessionState{}
		r.cache.Set(sessionId, state, cache.NoExpiration)
	}
	if state.Sending {
		return false
	}
	state.Sending = true
	return true
}

func (r *RuntimeRepository) EndSending(sessionId string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state, ok := r.get(sessionId); ok {
		state.Sending = false
	}
}

func (r *RuntimeRepository) Delete(sessionId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(sessionId)
}

func (r *RuntimeRepository) get(sessionId string) (*sessionState, bool) {
	if x, found := r.cache.Get(sessionId); found {
		return x.(*sessionState), true
	}
	return nil, false
}
