package engine

import (
	"errors"

	"github.com/jasperpeeters/nmos-node/internal/nmos"
	"github.com/jasperpeeters/nmos-node/internal/ports"
)

// requestRegistration dispatches a single grain event to the registry
// operation its event type calls for: added/sync events create, modified
// events update, removed events delete (spec §4.2, node_behaviour.cpp's
// request_registration). Used by registered_operation for every event;
// initial_registration calls attemptCreate directly for the node event.
func requestRegistration(client ports.RegistryClient, ev nmos.Event) error {
	switch ev.Type {
	case nmos.EventAdded, nmos.EventSync:
		return attemptCreate(client, ev)
	case nmos.EventModified:
		return client.Update(ev.Kind, ev.Post)
	case nmos.EventRemoved:
		return client.Delete(ev.Kind, ev.ID)
	default:
		return nil
	}
}

// attemptCreate issues Create for an event's payload, recovering from a
// 200-on-first-create response (spec §4.2, SPEC_FULL feature 3) via
// Delete then RetryCreate before giving up.
func attemptCreate(client ports.RegistryClient, ev nmos.Event) error {
	err := client.Create(ev.Kind, ev.Post)

	var alreadyExists *ports.AlreadyExistsError
	if !errors.As(err, &alreadyExists) {
		return err
	}

	if delErr := client.Delete(ev.Kind, ev.ID); delErr != nil {
		return delErr
	}
	return client.RetryCreate()
}
