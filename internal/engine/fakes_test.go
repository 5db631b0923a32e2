package engine

import (
	"context"
	"sync"

	"github.com/jasperpeeters/nmos-node/internal/nmos"
	"github.com/jasperpeeters/nmos-node/internal/ports"
)

// nopLogger discards everything, mirroring the registryclient package's
// own test logger.
type nopLogger struct{}

func (nopLogger) TooMuchInfo(string, ...ports.Field) {}
func (nopLogger) Info(string, ...ports.Field)        {}
func (nopLogger) MoreInfo(string, ...ports.Field)    {}
func (nopLogger) Warning(string, ...ports.Field)     {}
func (nopLogger) Error(string, error, ...ports.Field) {}

// fakeCall records one request made to a fakeRegistryClient, for test
// assertions about ordering and content.
type fakeCall struct {
	Op   string
	Type nmos.Type
	ID   string
}

// fakeRegistryHub is a shared scriptable backend for one or more
// fakeRegistryClient instances, keyed by base URI.
type fakeRegistryHub struct {
	mu    sync.Mutex
	calls []fakeCall

	// createOutcome queues, per base URI, the errors returned by successive
	// Create/RetryCreate calls against that URI; an empty queue means
	// succeed normally.
	createOutcome map[string][]error
	heartbeatErr  map[string][]error
}

func newFakeRegistryHub() *fakeRegistryHub {
	return &fakeRegistryHub{
		createOutcome: make(map[string][]error),
		heartbeatErr:  make(map[string][]error),
	}
}

func (h *fakeRegistryHub) scriptCreate(baseURI string, errs ...error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.createOutcome[baseURI] = append(h.createOutcome[baseURI], errs...)
}

func (h *fakeRegistryHub) scriptHeartbeat(baseURI string, errs ...error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.heartbeatErr[baseURI] = append(h.heartbeatErr[baseURI], errs...)
}

func (h *fakeRegistryHub) record(c fakeCall) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, c)
}

func (h *fakeRegistryHub) callsCopy() []fakeCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]fakeCall, len(h.calls))
	copy(out, h.calls)
	return out
}

func (h *fakeRegistryHub) countOp(op string) int {
	n := 0
	for _, c := range h.callsCopy() {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (h *fakeRegistryHub) nextCreateErr(baseURI string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	queue := h.createOutcome[baseURI]
	if len(queue) == 0 {
		return nil
	}
	err := queue[0]
	h.createOutcome[baseURI] = queue[1:]
	return err
}

func (h *fakeRegistryHub) nextHeartbeatErr(baseURI string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	queue := h.heartbeatErr[baseURI]
	if len(queue) == 0 {
		return nil
	}
	err := queue[0]
	h.heartbeatErr[baseURI] = queue[1:]
	return err
}

// fakeRegistryClient is a ports.RegistryClient bound to one URI, backed by
// a fakeRegistryHub shared across every client the engine builds during a
// test.
type fakeRegistryClient struct {
	hub            *fakeRegistryHub
	baseURI        string
	lastCreateBody []byte
}

func fakeFactory(hub *fakeRegistryHub) ports.RegistryClientFactory {
	return func(baseURI string) ports.RegistryClient {
		return &fakeRegistryClient{hub: hub, baseURI: baseURI}
	}
}

func (c *fakeRegistryClient) BaseURI() string { return c.baseURI }

func (c *fakeRegistryClient) Create(resourceType nmos.Type, data []byte) error {
	c.lastCreateBody = data
	c.hub.record(fakeCall{Op: "create", Type: resourceType})
	return c.hub.nextCreateErr(c.baseURI)
}

func (c *fakeRegistryClient) RetryCreate() error {
	c.hub.record(fakeCall{Op: "create", Type: ""})
	return c.hub.nextCreateErr(c.baseURI)
}

func (c *fakeRegistryClient) Update(resourceType nmos.Type, data []byte) error {
	c.hub.record(fakeCall{Op: "update", Type: resourceType})
	return nil
}

func (c *fakeRegistryClient) Delete(resourceType nmos.Type, id string) error {
	c.hub.record(fakeCall{Op: "delete", Type: resourceType, ID: id})
	return nil
}

func (c *fakeRegistryClient) Heartbeat(nodeID string) error {
	c.hub.record(fakeCall{Op: "heartbeat", ID: nodeID})
	return c.hub.nextHeartbeatErr(c.baseURI)
}

// fakeBrowser resolves to a fixed, mutable list of candidates.
type fakeBrowser struct {
	mu    sync.Mutex
	found []ports.RegistrationService
}

func (b *fakeBrowser) set(found []ports.RegistrationService) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.found = found
}

func (b *fakeBrowser) Browse(ctx context.Context) ([]ports.RegistrationService, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ports.RegistrationService, len(b.found))
	copy(out, b.found)
	return out, nil
}

// fakeAdvertiser records the currently published TXT set.
type fakeAdvertiser struct {
	mu        sync.Mutex
	published bool
	txt       map[string]string
	history   []map[string]string
}

func (a *fakeAdvertiser) Advertise(ctx context.Context, txt map[string]string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.published = true
	a.txt = cloneMap(txt)
	a.history = append(a.history, cloneMap(txt))
	return nil
}

func (a *fakeAdvertiser) Update(ctx context.Context, txt map[string]string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.txt = cloneMap(txt)
	a.history = append(a.history, cloneMap(txt))
	return nil
}

func (a *fakeAdvertiser) Withdraw(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.published = false
	return nil
}

func (a *fakeAdvertiser) current() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneMap(a.txt)
}

func cloneMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

