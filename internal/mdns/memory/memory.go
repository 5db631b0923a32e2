// Package memory provides a deterministic in-process double for
// internal/ports.Browser and internal/ports.Advertiser. No mDNS/DNS-SD
// library exists anywhere in the retrieved corpus, and spec §1 places the
// real mDNS transport out of scope as an external collaborator consumed
// through a narrow interface; this package is that interface's only
// implementation carried in-tree, useful for tests and for
// peer-to-peer-only deployments that share a process rather than a real
// network.
package memory

import (
	"context"
	"sync"

	"github.com/jasperpeeters/nmos-node/internal/ports"
)

// Registry is a shared in-memory rendezvous point: registration services
// added with Publish become visible to any Browser sharing the same
// Registry. Advertisers do not write to it; their TXT state stays local to
// each Advertiser.
type Registry struct {
	mu       sync.Mutex
	services []ports.RegistrationService
	txt      map[string]map[string]string // service id -> TXT records
}

// NewRegistry returns an empty shared registry.
func NewRegistry() *Registry {
	return &Registry{txt: make(map[string]map[string]string)}
}

// Publish registers a candidate registry at a given priority so Browsers
// sharing this Registry observe it.
func (r *Registry) Publish(uri string, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services = append(r.services, ports.RegistrationService{URI: uri, Priority: priority})
}

// Browser is a Registry-backed ports.Browser.
type Browser struct {
	registry *Registry
}

// NewBrowser returns a Browser that resolves against reg.
func NewBrowser(reg *Registry) *Browser {
	return &Browser{registry: reg}
}

func (b *Browser) Browse(ctx context.Context) ([]ports.RegistrationService, error) {
	b.registry.mu.Lock()
	defer b.registry.mu.Unlock()
	out := make([]ports.RegistrationService, len(b.registry.services))
	copy(out, b.registry.services)
	return out, nil
}

// Advertiser is an in-memory ports.Advertiser recording a single node
// service's TXT record state; nothing it records is visible to Browsers.
type Advertiser struct {
	registry  *Registry
	serviceID string

	mu        sync.Mutex
	published bool
	txt       map[string]string
}

// NewAdvertiser returns an Advertiser identified by serviceID within reg.
func NewAdvertiser(reg *Registry, serviceID string) *Advertiser {
	return &Advertiser{registry: reg, serviceID: serviceID}
}

func (a *Advertiser) Advertise(ctx context.Context, txt map[string]string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.published = true
	a.txt = cloneTXT(txt)
	return nil
}

func (a *Advertiser) Update(ctx context.Context, txt map[string]string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.txt = cloneTXT(txt)
	return nil
}

func (a *Advertiser) Withdraw(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.published = false
	a.txt = nil
	return nil
}

// TXT returns the currently published TXT record set, for test assertions.
func (a *Advertiser) TXT() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneTXT(a.txt)
}

// Published reports whether Advertise has been called without a matching
// Withdraw.
func (a *Advertiser) Published() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.published
}

func cloneTXT(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
