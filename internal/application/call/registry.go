package call

import (
	"fmt"
	"sync"

	"github.com/go-call-verify/internal/application/verification"
	"github.com/go-call-verify/internal/domain"
)

// entry pairs a session with the lock that serializes its turns.
type entry struct {
	mu      sync.Mutex
	session *domain.CallSession
	machine *verification.Machine
}

// registry holds live calls in memory. Nothing in it is persisted.
type registry struct {
	mu    sync.Mutex
	calls map[string]*entry
}

func newRegistry() *registry {
	return &registry{calls: make(map[string]*entry)}
}

func (r *registry) add(e *entry) {
	r.mu.Lock()
	r.calls[e.session.CallID] = e
	r.mu.Unlock()
}

func (r *registry) get(callID string) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.calls[callID]
	if !ok {
		return nil, fmt.Errorf("call %s: %w", callID, domain.ErrNotFound)
	}
	return e, nil
}

// remove reports whether callID was still registered.
func (r *registry) remove(callID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.calls[callID]; !ok {
		return false
	}
	delete(r.calls, callID)
	return true
}

// live reports whether e is still the registered entry for callID.
func (r *registry) live(callID string, e *entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[callID] == e
}

func (r *registry) snapshot() []*entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entry, 0, len(r.calls))
	for _, e := range r.calls {
		out = append(out, e)
	}
	return out
}
