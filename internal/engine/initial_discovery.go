package engine

import (
	"context"
	"time"

	"github.com/jasperpeeters/nmos-node/internal/discovery"
)

// runInitialDiscovery implements spec §4.1 "initial_discovery": wait out
// discovery_backoff, browse, and either advance to initial_registration
// (growing the backoff for next time) or fall back to
// peer_to_peer_operation.
func (e *Engine) runInitialDiscovery(ctx context.Context) {
	e.mu.Lock()
	backoff := e.discoveryBackoff
	e.mu.Unlock()

	if backoff != 0 {
		e.waitTimeoutOrShutdown(time.Duration(backoff * float64(time.Second)))
		if e.isShutdown() {
			return
		}
	}

	svc, err := discovery.Browse(ctx, e.browser, e.settings, e.log)
	if err != nil {
		e.log.Error("engine: discovery browse failed", err)
		svc = discovery.NewServices()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shutdown {
		return
	}

	if !svc.Empty() {
		e.candidates = svc
		e.discoveryBackoff = growDiscoveryBackoff(e.settings, e.discoveryBackoff)
		e.mode = ModeInitialRegistration
	} else {
		e.mode = ModePeerToPeerOperation
	}
}

// runRediscovery implements spec §4.1 "rediscovery": identical browse to
// initial_discovery but without a backoff wait.
func (e *Engine) runRediscovery(ctx context.Context) {
	svc, err := discovery.Browse(ctx, e.browser, e.settings, e.log)
	if err != nil {
		e.log.Error("engine: rediscovery browse failed", err)
		svc = discovery.NewServices()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shutdown {
		return
	}

	if !svc.Empty() {
		e.candidates = svc
		e.mode = ModeRegisteredOperation
	} else {
		e.mode = ModePeerToPeerOperation
	}
}
