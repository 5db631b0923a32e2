package engine

import (
	"context"
	"errors"

	"github.com/jasperpeeters/nmos-node/internal/nmos"
	"github.com/jasperpeeters/nmos-node/internal/ports"
)

// runRegisteredOperation implements spec §4.6: probe a newly selected
// registry with a synchronous heartbeat, keep it alive with a background
// heartbeat task, and drain the grain against it with the same
// take-then-restore discipline as initial_registration.
//
// Clean node deletion and a 404-on-heartbeat both latch node_unregistered
// and exit this loop the same way; the mode chosen afterwards depends only
// on whether candidate registries remain, not on which condition fired
// (node_behaviour.cpp:696-825 - see DESIGN.md for the resolution of the
// apparent conflict with the "remain in registered_operation" prose).
func (e *Engine) runRegisteredOperation(ctx context.Context) {
	e.mu.Lock()
	e.serviceError = false
	e.nodeUnregistered = false
	// Force a fresh initial probe even if the top candidate is unchanged
	// from initial_registration: registered_operation always starts from a
	// clean client, per node_behaviour.cpp's own local (not shared) client.
	e.client = nil
	// Zero, not e.grain.Updated: the wait below blocks while
	// grain.Updated <= lastSeen, so starting at the grain's current tick
	// would skip the probe heartbeat and strand whatever events
	// initial_registration already restored into the grain
	// (node_behaviour.cpp:688 zero-inits most_recent_update for the same
	// reason).
	var lastSeen nmos.Tick
	e.mu.Unlock()

	var hb *heartbeatHandle
	stopHeartbeat := func() {
		if hb == nil {
			return
		}
		e.mu.Unlock()
		hb.stop()
		e.mu.Lock()
		hb = nil
	}

	e.mu.Lock()
	defer func() {
		if hb != nil {
			e.mu.Unlock()
			hb.stop()
			return
		}
		e.mu.Unlock()
	}()

	for {
		for !e.shutdown && !e.serviceError && !e.nodeUnregistered && e.grain.Updated <= lastSeen {
			e.cond.Wait()
		}

		if e.shutdown {
			return
		}

		if e.serviceError {
			e.metrics.ObserveFailover()
			e.candidates.Pop()
			e.serviceError = false
			stopHeartbeat()
		}

		if e.candidatesEmptyLocked() || e.nodeUnregistered {
			break
		}

		top, _ := e.candidates.Top()
		if e.client == nil || e.client.BaseURI() != top {
			e.client = e.newClient(top)
			stopHeartbeat()

			client := e.client
			selfID := e.selfID
			e.mu.Unlock()
			probeErr := client.Heartbeat(selfID)
			e.mu.Lock()

			if probeErr != nil {
				var nodeUnknown *ports.NodeUnknownError
				if errors.As(probeErr, &nodeUnknown) {
					e.nodeUnregistered = true
				} else {
					e.log.Error("engine: registered operation probe heartbeat failed", probeErr)
					e.serviceError = true
					e.metrics.ObserveHeartbeat("service_error")
				}
			} else {
				e.metrics.ObserveHeartbeat("success")
			}

			if e.shutdown || e.serviceError || e.nodeUnregistered {
				continue
			}

			hb = e.startHeartbeat(client, selfID, e.settings.RegistrationHeartbeatInterval)
		}

		taken := e.grain.Take()
		e.store.Touch(e.grain)
		tickAtTake := e.grain.Updated

		remaining := e.drainRegisteredOperation(taken)

		e.grain.Restore(remaining)
		if len(remaining) > 0 {
			e.store.Touch(e.grain)
		} else {
			lastSeen = tickAtTake
		}
	}

	// The reference implementation picks the next mode purely on whether a
	// candidate registry remains, independent of which flag broke the loop
	// (see the function doc comment).
	if e.candidatesEmptyLocked() {
		e.mode = ModeRediscovery
	} else {
		e.mode = ModeInitialRegistration
	}
}

// drainRegisteredOperation processes taken events in order, releasing the
// engine's lock only around each event's synchronous request. Caller must
// hold e.mu on entry and on return.
func (e *Engine) drainRegisteredOperation(taken []nmos.Event) []nmos.Event {
	for i, ev := range taken {
		client := e.client

		e.mu.Unlock()
		err := requestRegistration(client, ev)
		e.mu.Lock()

		if err == nil {
			if ev.Kind == nmos.TypeNode && ev.ID == e.selfID && ev.Type == nmos.EventRemoved {
				e.nodeUnregistered = true
				return taken[i+1:]
			}
			continue
		}

		var clientErr *ports.ClientError
		if errors.As(err, &clientErr) {
			e.log.Error("engine: registration request rejected by registry, discarding event", err)
			continue
		}

		e.log.Error("engine: registration request failed, failing over", err)
		e.serviceError = true
		return taken[i:]
	}
	return nil
}
