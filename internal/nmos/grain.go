package nmos

// Grain is the engine's private view of the synthetic subscription's event
// buffer (spec §3 "Grain"). Unlike ordinary resources its payload is never
// serialised to JSON for another consumer - the engine is the grain's sole
// reader (spec invariant, §3) - so events are kept as a typed slice rather
// than round-tripped through nmosjson.
type Grain struct {
	ID             string
	SubscriptionID string
	Events         []Event
	Updated        Tick
}

// NewGrain constructs an empty grain bound to a subscription id.
func NewGrain(id, subscriptionID string) *Grain {
	return &Grain{ID: id, SubscriptionID: subscriptionID}
}

// Append adds an event to the tail of the grain's buffer. Callers must hold
// the engine's lock; the caller is responsible for bumping Updated via the
// owning Store so grain.updated and the store's tick stay consistent.
func (g *Grain) Append(e Event) {
	g.Events = append(g.Events, e)
}

// Take atomically empties the grain's event buffer, handing the caller the
// events that had accumulated. Pair with Restore, called under the same
// lock once the drain ends, to implement
// the take-then-restore discipline of spec §4.5 step 4 / §9
// "node_behaviour_grain_guard": events left unprocessed when the drain is
// cut short must return to the grain, ahead of anything appended meanwhile.
func (g *Grain) Take() []Event {
	taken := g.Events
	g.Events = nil
	return taken
}

// Restore re-prepends events that were taken but never reached a terminal
// outcome, preserving their original order ahead of any events the store
// appended to the grain while the drain was in flight.
func (g *Grain) Restore(remaining []Event) {
	if len(remaining) == 0 {
		return
	}
	if len(g.Events) == 0 {
		g.Events = remaining
		return
	}
	merged := make([]Event, 0, len(remaining)+len(g.Events))
	merged = append(merged, remaining...)
	merged = append(merged, g.Events...)
	g.Events = merged
}

// Reset replaces the grain's event buffer wholesale, used when
// initial_registration reseeds the grain from a full store snapshot
// (spec §4.5 "Setup under the lock").
func (g *Grain) Reset(events []Event) {
	g.Events = events
}
