package engine

import (
	"context"
	"errors"

	"github.com/jasperpeeters/nmos-node/internal/nmos"
	"github.com/jasperpeeters/nmos-node/internal/ports"
)

// runInitialRegistration implements the synchroniser of spec §4.5: seed the
// grain from a full store snapshot, then drain it against the candidate
// registries until the node's own resource registers successfully or the
// candidate list is exhausted.
func (e *Engine) runInitialRegistration(ctx context.Context) {
	lastSeen := e.seedGrainForRegistration()

	e.mu.Lock()
	e.serviceError = false
	e.nodeRegistered = false
	e.mu.Unlock()

	for {
		e.mu.Lock()
		for !e.shutdown && !e.serviceError && !e.nodeRegistered && !e.candidatesEmptyLocked() && e.grain.Updated <= lastSeen {
			e.cond.Wait()
		}

		if e.shutdown {
			e.mu.Unlock()
			return
		}

		if e.serviceError {
			e.metrics.ObserveFailover()
			e.candidates.Pop()
			e.serviceError = false
		}

		if e.candidatesEmptyLocked() {
			e.mu.Unlock()
			break
		}

		if e.nodeRegistered {
			e.mu.Unlock()
			break
		}

		top, _ := e.candidates.Top()
		if e.client == nil || e.client.BaseURI() != top {
			e.client = e.newClient(top)
		}

		taken := e.grain.Take()
		e.store.Touch(e.grain)
		tickAtTake := e.grain.Updated

		remaining := e.drainInitialRegistration(taken)

		e.grain.Restore(remaining)
		if len(remaining) > 0 {
			e.store.Touch(e.grain)
		} else {
			lastSeen = tickAtTake
		}
		e.mu.Unlock()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.nodeRegistered {
		e.mode = ModeRegisteredOperation
		e.discoveryBackoff = 0
	} else {
		e.mode = ModeInitialDiscovery
	}
}

// candidatesEmptyLocked reports whether the candidate list is exhausted.
// Callers must hold e.mu.
func (e *Engine) candidatesEmptyLocked() bool {
	return e.candidates == nil || e.candidates.Empty()
}

// seedGrainForRegistration resets the grain to a fresh "added" snapshot of
// every currently held resource (spec §4.5 "Setup under the lock") and
// returns a lastSeen mark that is already satisfied, so the synchroniser's
// wait loop processes the seeded batch without blocking first.
func (e *Engine) seedGrainForRegistration() nmos.Tick {
	e.mu.Lock()
	defer e.mu.Unlock()
	events := nmos.MakeResourceEvents(e.store, nmos.EventAdded)
	e.grain.Reset(events)
	e.store.Touch(e.grain)
	if e.grain.Updated == 0 {
		return 0
	}
	return e.grain.Updated - 1
}

// drainInitialRegistration processes taken events in order, releasing the
// engine's lock only around each event's synchronous POST (spec §5
// "inverse-lock guard"). Caller must hold e.mu on entry and on return.
func (e *Engine) drainInitialRegistration(taken []nmos.Event) []nmos.Event {
	for i, ev := range taken {
		if !ev.IsNodeAddedOrSync() {
			continue // registration cannot proceed before the node itself
		}

		e.selfID = ev.ID
		client := e.client

		e.mu.Unlock()
		err := attemptCreate(client, ev)
		e.mu.Lock()

		if err == nil {
			e.nodeRegistered = true
			e.metrics.ObserveRegistration("create", "success")
			return taken[i+1:]
		}

		var clientErr *ports.ClientError
		if errors.As(err, &clientErr) {
			e.log.Error("engine: node registration rejected by registry, discarding event", err)
			e.metrics.ObserveRegistration("create", "client_error")
			continue
		}

		e.log.Error("engine: node registration failed, failing over", err)
		e.serviceError = true
		e.metrics.ObserveRegistration("create", "service_error")
		return taken[i:]
	}
	return nil
}

