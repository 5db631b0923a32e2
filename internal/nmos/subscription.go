package nmos

// Subscription describes the engine's one synthetic query subscription
// (spec §3): it always matches every resource, is never persisted, and
// carries no rate limit, since the engine drains its grain as fast as it
// can process events rather than on a timer.
type Subscription struct {
	ID             string
	ResourcePath   string
	Params         map[string]string
	Persist        bool
	MaxUpdateRateMs int
}

// NewSubscription builds the engine's synthetic subscription. Its shape is
// fixed by spec §3 and never configured: resource_path="" and params={}
// match every resource type, persist=false because it exists only for the
// engine's own process lifetime, and max_update_rate_ms=0 because the
// engine consumes events synchronously rather than on a batching timer.
func NewSubscription() *Subscription {
	return &Subscription{
		ID:              NewID(),
		ResourcePath:    "",
		Params:          map[string]string{},
		Persist:         false,
		MaxUpdateRateMs: 0,
	}
}

// MakeResourceEvents snapshots every resource currently in the store into a
// sequence of grain events, used to seed the grain each time
// initial_registration begins (spec §4.5 step 1). The node resource, if
// present, is always ordered first so a
// registrar that processes the sync in order creates the node before
// anything that references it; every other resource follows in the store's
// insertion order.
func MakeResourceEvents(store *Store, eventType EventType) []Event {
	snapshot := store.Snapshot()
	events := make([]Event, 0, len(snapshot))

	for _, r := range snapshot {
		if r.Type != TypeNode {
			continue
		}
		events = append(events, NewEvent(r.Type, r.ID, eventType, nil, r.Data))
	}
	for _, r := range snapshot {
		if r.Type == TypeNode {
			continue
		}
		events = append(events, NewEvent(r.Type, r.ID, eventType, nil, r.Data))
	}
	return events
}
