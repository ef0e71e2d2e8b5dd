package imports

import "sync"

// Registry holds the live upload sessions by import job ID. Per-item
// statuses only exist for the lifetime of the process; completed jobs keep
// their aggregate counters in the database.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Add registers a session under a job ID
func (r *Registry) Add(jobID string, session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[jobID] = session
}

// Get looks up the session for a job ID
func (r *Registry) Get(jobID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[jobID]
	return session, ok
}

// Remove drops a session from the registry
func (r *Registry) Remove(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, jobID)
}
