package engine

import (
	"context"
	"sync"
	"time"

	"github.com/jasperpeeters/nmos-node/internal/config"
	"github.com/jasperpeeters/nmos-node/internal/discovery"
	"github.com/jasperpeeters/nmos-node/internal/nmos"
	"github.com/jasperpeeters/nmos-node/internal/ports"
)

// Engine drives the node behaviour state machine. A single dedicated
// goroutine runs Run; at most two background goroutines (heartbeat,
// peer-to-peer rediscovery) coexist with it, coordinated through the
// engine's own mutex and condition variable (spec §5).
type Engine struct {
	mu   sync.Mutex
	cond *sync.Cond

	store        *nmos.Store
	grain        *nmos.Grain
	subscription *nmos.Subscription

	settings   *config.Settings
	log        ports.Logger
	metrics    ports.Metrics
	downgrader ports.Downgrader
	browser    ports.Browser
	advertiser ports.Advertiser
	newClient  ports.RegistryClientFactory
	clock      ports.Clock

	mode             Mode
	shutdown         bool
	discoveryBackoff float64 // seconds, mirrors node_behaviour.cpp's double discovery_backoff

	candidates *discovery.Services
	client     ports.RegistryClient

	selfID string

	serviceError                   bool
	nodeRegistered                 bool
	nodeUnregistered               bool
	registrationServicesDiscovered bool

	versions          nmos.ApiResourceVersions
	lastSeenGrainTick nmos.Tick

	advertisedTXT map[string]string
}

// Deps bundles the external collaborators the engine consumes through
// narrow ports interfaces (spec §1, §6).
type Deps struct {
	Settings   *config.Settings
	Log        ports.Logger
	Metrics    ports.Metrics
	Downgrader ports.Downgrader
	Browser    ports.Browser
	Advertiser ports.Advertiser
	NewClient  ports.RegistryClientFactory
	Clock      ports.Clock
}

// New constructs an Engine with a freshly created store, grain and
// synthetic subscription, per spec §3's invariant that exactly one of each
// exists for the engine's lifetime.
func New(deps Deps) *Engine {
	store := nmos.NewStore()
	sub := nmos.NewSubscription()
	grain := nmos.NewGrain(nmos.NewID(), sub.ID)

	e := &Engine{
		store:        store,
		grain:        grain,
		subscription: sub,
		settings:     deps.Settings,
		log:          deps.Log,
		metrics:      deps.Metrics,
		downgrader:   deps.Downgrader,
		browser:      deps.Browser,
		advertiser:   deps.Advertiser,
		newClient:    deps.NewClient,
		clock:        deps.Clock,
		mode:         ModeInitialDiscovery,
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Store exposes the resource store to the host process (§6 "resource
// store contract"). Callers must use InsertResource/ModifyResource/
// RemoveResource, not Store() methods directly, so grain events and the
// condition variable stay consistent with store mutations.
func (e *Engine) Store() *nmos.Store {
	return e.store
}

// SelfID returns the node's own id once it has been observed (spec §3
// invariant: defined once at least one added/sync node event has been
// seen, stable thereafter).
func (e *Engine) SelfID() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selfID, e.selfID != ""
}

// Mode returns the state machine's current mode, for diagnostics.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// InsertResource inserts a resource into the store and appends the
// corresponding "added" event to the grain, atomically under the engine's
// lock, then notifies the condition variable (spec §3 "the store appends
// events to the grain atomically with each resource mutation").
func (e *Engine) InsertResource(r *nmos.Resource) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.store.Insert(r) {
		return false
	}
	e.appendEventLocked(nmos.NewEvent(r.Type, r.ID, nmos.EventAdded, nil, r.Data))
	e.cond.Broadcast()
	return true
}

// ModifyResource replaces a resource's data and appends a "modified"
// event.
func (e *Engine) ModifyResource(id string, data []byte) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.store.Find(id)
	if !ok {
		return false
	}
	pre, post, ok := e.store.Modify(id, data)
	if !ok {
		return false
	}
	e.appendEventLocked(nmos.NewEvent(r.Type, id, nmos.EventModified, pre, post))
	e.cond.Broadcast()
	return true
}

// RemoveResource deletes a resource and appends a "removed" event.
func (e *Engine) RemoveResource(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.store.Find(id)
	if !ok {
		return false
	}
	pre, ok := e.store.Remove(id)
	if !ok {
		return false
	}
	e.appendEventLocked(nmos.NewEvent(r.Type, id, nmos.EventRemoved, pre, nil))
	e.cond.Broadcast()
	return true
}

// appendEventLocked appends an event to the grain and bumps its tick.
// Callers must hold e.mu.
func (e *Engine) appendEventLocked(ev nmos.Event) {
	e.grain.Append(ev)
	e.store.Touch(e.grain)
}

// RequestShutdown sets the shutdown flag and wakes every waiter, observed
// at the head of every loop under the lock (spec §5 "Cancellation and
// timeouts").
func (e *Engine) RequestShutdown() {
	e.mu.Lock()
	e.shutdown = true
	e.cond.Broadcast()
	e.mu.Unlock()
}

func (e *Engine) isShutdown() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shutdown
}

// Run executes the mode state machine until shutdown is requested or ctx
// is cancelled.
func (e *Engine) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		e.RequestShutdown()
	}()

	for {
		if e.isShutdown() {
			return
		}

		mode := e.Mode()
		e.metrics.ObserveModeTransition(mode.String())

		switch mode {
		case ModeInitialDiscovery:
			e.runInitialDiscovery(ctx)
		case ModeInitialRegistration:
			e.runInitialRegistration(ctx)
		case ModeRegisteredOperation:
			e.runRegisteredOperation(ctx)
		case ModeRediscovery:
			e.runRediscovery(ctx)
		case ModePeerToPeerOperation:
			e.runPeerToPeerOperation(ctx)
		}
	}
}

// waitTimeoutOrShutdown blocks on the condition variable until either d
// elapses or shutdown is requested, mirroring condition.wait_for in the
// reference implementation (spec §4.1 "wait up to discovery_backoff
// seconds on the condition variable or until shutdown").
func (e *Engine) waitTimeoutOrShutdown(d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.AfterFunc(d, func() {
		e.mu.Lock()
		e.cond.Broadcast()
		e.mu.Unlock()
	})
	defer timer.Stop()

	deadline := e.clock.Now().Add(d)
	e.mu.Lock()
	defer e.mu.Unlock()
	for !e.shutdown && e.clock.Now().Before(deadline) {
		e.cond.Wait()
	}
}
