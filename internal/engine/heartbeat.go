package engine

import (
	"context"
	"errors"
	"time"

	"github.com/jasperpeeters/nmos-node/internal/ports"
)

// heartbeatHandle tracks a background heartbeat goroutine started by
// registered_operation (spec §4.6 "Background heartbeat"). stop cancels it
// and blocks until it has actually exited, mirroring the reference
// implementation's cancel-then-wait sequence around background_heartbeats.
type heartbeatHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// startHeartbeat issues client.Heartbeat(selfID) every interval until
// cancelled, an error latches service_error or node_unregistered, or the
// heartbeat itself succeeds forever. On any terminal outcome it acquires
// the engine lock to record the flag and wakes the synchroniser loop, the
// same "acquire the lock to update flags" discipline node_behaviour.cpp
// uses for its background_heartbeats continuation.
func (e *Engine) startHeartbeat(client ports.RegistryClient, selfID string, interval time.Duration) *heartbeatHandle {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)

		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			err := client.Heartbeat(selfID)
			if err == nil {
				e.metrics.ObserveHeartbeat("success")
				timer.Reset(interval)
				continue
			}

			e.mu.Lock()
			var nodeUnknown *ports.NodeUnknownError
			if errors.As(err, &nodeUnknown) {
				e.nodeUnregistered = true
				e.metrics.ObserveHeartbeat("node_unknown")
			} else {
				e.log.Error("engine: background heartbeat failed, failing over", err)
				e.serviceError = true
				e.metrics.ObserveHeartbeat("service_error")
			}
			e.cond.Broadcast()
			e.mu.Unlock()
			return
		}
	}()

	return &heartbeatHandle{cancel: cancel, done: done}
}

// stop cancels the background heartbeat and waits for it to exit. Callers
// must not hold e.mu, since the goroutine may need it to record a terminal
// flag before observing cancellation.
func (h *heartbeatHandle) stop() {
	if h == nil {
		return
	}
	h.cancel()
	<-h.done
}
