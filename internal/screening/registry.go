package screening

import "sync"

// Registry tracks live sessions keyed by the user. Session state
// lives only in memory until completion, so there is nothing to persist here;
// starting a new attempt under the same key simply discards the prior session.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: map[string]*Session{},
	}
}

// Put registers the session for the key, replacing any prior attempt.
func (r *Registry) Put(key string, session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[key] = session
}

// Get returns the session for the key, or nil when none is registered.
func (r *Registry) Get(key string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[key]
}

// Delete discards the session for the key.
func (r *Registry) Delete(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
}
