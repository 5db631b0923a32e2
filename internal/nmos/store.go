package nmos

// Store holds the node's local resource inventory. It carries no locking of
// its own: the engine serialises all access under its single shared mutex
// (spec §5), the same discipline nmos::resources uses under nmos::mutex in
// the reference implementation. Store only owns the monotonic tick counter
// and the insertion order used to produce a stable resync snapshot.
type Store struct {
	resources map[string]*Resource
	order     []string
	tick      Tick
}

// NewStore returns an empty resource store.
func NewStore() *Store {
	return &Store{resources: make(map[string]*Resource)}
}

// nextTick advances and returns the store's strictly increasing counter.
// Every resource mutation and every grain touch consumes one tick, so ticks
// are never reused and never equal across two distinct mutations.
func (s *Store) nextTick() Tick {
	s.tick++
	return s.tick
}

// Touch assigns the next tick to a grain, used after appending events to it
// so grain.updated advances in the same sequence as resource updates.
func (s *Store) Touch(g *Grain) {
	g.Updated = s.nextTick()
}

// Find returns the resource with the given id, if present.
func (s *Store) Find(id string) (*Resource, bool) {
	r, ok := s.resources[id]
	return r, ok
}

// Insert adds a new resource, assigning it the store's next tick. Returns
// false without effect if a resource with the same id already exists.
func (s *Store) Insert(r *Resource) bool {
	if _, exists := s.resources[r.ID]; exists {
		return false
	}
	r.Updated = s.nextTick()
	s.resources[r.ID] = r
	s.order = append(s.order, r.ID)
	return true
}

// Modify replaces the Data of an existing resource, returning the resource's
// data before and after the mutation for event construction. The zero,
// false result means no resource with that id exists.
func (s *Store) Modify(id string, data []byte) (pre, post []byte, ok bool) {
	r, exists := s.resources[id]
	if !exists {
		return nil, nil, false
	}
	pre = r.Data
	r.Data = data
	r.Updated = s.nextTick()
	return pre, r.Data, true
}

// Remove deletes a resource, returning its last known data for event
// construction.
func (s *Store) Remove(id string) (pre []byte, ok bool) {
	r, exists := s.resources[id]
	if !exists {
		return nil, false
	}
	delete(s.resources, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return r.Data, true
}

// Snapshot returns every resource in insertion order. It exists only for
// the initial_registration resync helper (spec §4.5 step 1, "seed the grain
// from every currently held resource") — ordinary engine operation never
// enumerates the store, it only reacts to grain events.
func (s *Store) Snapshot() []*Resource {
	out := make([]*Resource, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.resources[id])
	}
	return out
}
