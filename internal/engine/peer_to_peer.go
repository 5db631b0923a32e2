package engine

import (
	"context"
	"time"

	"github.com/jasperpeeters/nmos-node/internal/discovery"
	"github.com/jasperpeeters/nmos-node/internal/nmos"
)

// runPeerToPeerOperation implements spec §4.7: advertise the node with
// api_proto/api_ver plus the ver_* counters (all zero on entry), then track
// resource changes in those counters while a background task periodically
// re-browses for a registry.
func (e *Engine) runPeerToPeerOperation(ctx context.Context) {
	e.mu.Lock()
	e.registrationServicesDiscovered = false
	e.versions = nmos.ApiResourceVersions{}
	base := discovery.BaseTXT(e.settings)
	unadvertised := e.settings.Unadvertised()
	// Zero, not e.grain.Updated: events already sitting in the grain when
	// peer-to-peer is entered must drain on the first pass instead of being
	// skipped by the wait below (node_behaviour.cpp:909 zero-inits ver the
	// same way before its first drain).
	var lastSeen nmos.Tick
	e.mu.Unlock()

	if !unadvertised {
		e.publishAdvertisement(ctx, discovery.WithVersions(base, e.versions))
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go e.runBackgroundDiscovery(ctx, e.settings.BackoffMaxSeconds, stop, done)

	defer func() {
		close(stop)
		<-done
	}()

	for {
		e.mu.Lock()
		for !e.shutdown && !e.registrationServicesDiscovered && e.grain.Updated <= lastSeen {
			e.cond.Wait()
		}

		if e.shutdown || e.registrationServicesDiscovered {
			e.mu.Unlock()
			break
		}

		taken := e.grain.Take()
		e.store.Touch(e.grain)
		tickAtTake := e.grain.Updated
		e.mu.Unlock()

		for _, ev := range taken {
			e.versions.Increment(ev.Kind)
		}
		v := e.versions
		e.metrics.SetVersions(v.Self, v.Devices, v.Sources, v.Flows, v.Senders, v.Receivers)

		if !unadvertised {
			e.publishAdvertisement(ctx, discovery.WithVersions(base, e.versions))
		}

		e.mu.Lock()
		lastSeen = tickAtTake
		e.mu.Unlock()
	}

	if !unadvertised {
		e.publishAdvertisement(ctx, base)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shutdown {
		return
	}
	// The only non-shutdown exit is a background discovery finding a
	// registry (spec §4.7): "on rediscovery transition to
	// initial_registration".
	e.mode = ModeInitialRegistration
}

// publishAdvertisement updates the node's mDNS TXT record set, publishing
// for the first time if nothing has been advertised yet. e.mu must not be
// held; the advertiser call is made outside the lock (spec §5
// "inverse-lock guard" applies equally to advertiser I/O).
func (e *Engine) publishAdvertisement(ctx context.Context, txt map[string]string) {
	e.mu.Lock()
	first := e.advertisedTXT == nil
	e.mu.Unlock()

	var err error
	if first {
		err = e.advertiser.Advertise(ctx, txt)
	} else {
		err = e.advertiser.Update(ctx, txt)
	}
	if err != nil {
		e.log.Error("engine: peer-to-peer advertisement failed", err)
		return
	}

	e.mu.Lock()
	e.advertisedTXT = txt
	e.mu.Unlock()
}

// runBackgroundDiscovery re-browses for a registration service every
// interval seconds until stop is closed, latching
// registrationServicesDiscovered on the first non-empty result (spec
// §4.7 "background task").
func (e *Engine) runBackgroundDiscovery(ctx context.Context, intervalSeconds float64, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := time.Duration(intervalSeconds * float64(time.Second))
	if interval <= 0 {
		interval = time.Second
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.C:
		}

		svc, err := discovery.Browse(ctx, e.browser, e.settings, e.log)
		if err != nil {
			e.log.Error("engine: peer-to-peer background discovery failed", err)
			timer.Reset(interval)
			continue
		}

		if svc.Empty() {
			timer.Reset(interval)
			continue
		}

		e.mu.Lock()
		e.candidates = svc
		e.registrationServicesDiscovered = true
		e.cond.Broadcast()
		e.mu.Unlock()
		return
	}
}
