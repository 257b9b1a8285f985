package orders

import (
	"fmt"
	"sync"
)

// Store keeps orders keyed by id, split into the pending and active sets.
// An order lives in exactly one set at any time, never both. The interface
// exists so persistence can be swapped in without touching the state
// machine.
type Store interface {
	// PutPending inserts a newly created order; duplicate ids are rejected.
	PutPending(o *Order) error
	// Pending returns a pending order by id.
	Pending(id string) (*Order, bool)
	// Active returns an active order by id.
	Active(id string) (*Order, bool)
	// Find returns an order from whichever set holds it.
	Find(id string) (*Order, bool)
	// Activate moves an order from pending to active.
	Activate(id string) (*Order, error)
	// Delete removes an order from whichever set holds it.
	Delete(id string) bool
	// ListPending returns pending orders in creation order.
	ListPending() []*Order
	// ListActive returns active orders in activation order.
	ListActive() []*Order
}

// MemoryStore is the in-process store. State does not survive a restart;
// that is an accepted limitation, not a bug.
type MemoryStore struct {
	mu          sync.Mutex
	pending     map[string]*Order
	active      map[string]*Order
	pendingIDs  []string
	activeIDs   []string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pending: map[string]*Order{},
		active:  map[string]*Order{},
	}
}

func (s *MemoryStore) PutPending(o *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[o.ID]; ok {
		return fmt.Errorf("order %s already pending", o.ID)
	}
	if _, ok := s.active[o.ID]; ok {
		return fmt.Errorf("order %s already active", o.ID)
	}

	s.pending[o.ID] = o
	s.pendingIDs = append(s.pendingIDs, o.ID)
	return nil
}

func (s *MemoryStore) Pending(id string) (*Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.pending[id]
	return o, ok
}

func (s *MemoryStore) Active(id string) (*Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.active[id]
	return o, ok
}

func (s *MemoryStore) Find(id string) (*Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.active[id]; ok {
		return o, true
	}
	o, ok := s.pending[id]
	return o, ok
}

func (s *MemoryStore) Activate(id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.pending[id]
	if !ok {
		return nil, fmt.Errorf("order %s is not pending", id)
	}

	delete(s.pending, id)
	s.pendingIDs = removeID(s.pendingIDs, id)
	s.active[id] = o
	s.activeIDs = append(s.activeIDs, id)
	return o, nil
}

func (s *MemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[id]; ok {
		delete(s.pending, id)
		s.pendingIDs = removeID(s.pendingIDs, id)
		return true
	}
	if _, ok := s.active[id]; ok {
		delete(s.active, id)
		s.activeIDs = removeID(s.activeIDs, id)
		return true
	}
	return false
}

func (s *MemoryStore) ListPending() []*Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Order, 0, len(s.pendingIDs))
	for _, id := range s.pendingIDs {
		out = append(out, s.pending[id])
	}
	return out
}

func (s *MemoryStore) ListActive() []*Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Order, 0, len(s.activeIDs))
	for _, id := range s.activeIDs {
		out = append(out, s.active[id])
	}
	return out
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
