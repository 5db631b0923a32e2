// Package nmosnode wires the node behaviour engine up with default
// adapters and exposes simple lifecycle hooks for embedding it inside any
// Go service, mirroring the teacher's pkg/aegisflow.EdgeRuntime shape.
package nmosnode

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jasperpeeters/nmos-node/internal/clockutil"
	"github.com/jasperpeeters/nmos-node/internal/downgrade"
	"github.com/jasperpeeters/nmos-node/internal/engine"
	"github.com/jasperpeeters/nmos-node/internal/mdns/memory"
	"github.com/jasperpeeters/nmos-node/internal/nmos"
	"github.com/jasperpeeters/nmos-node/internal/ports"
	"github.com/jasperpeeters/nmos-node/internal/registryclient"
	"github.com/jasperpeeters/nmos-node/internal/telemetry"
)

// Re-exported ports so consumers can implement adapters against this
// package alone.
type (
	Logger                = ports.Logger
	Field                 = ports.Field
	Downgrader            = ports.Downgrader
	Browser               = ports.Browser
	Advertiser            = ports.Advertiser
	RegistrationService   = ports.RegistrationService
	RegistryClient        = ports.RegistryClient
	RegistryClientFactory = ports.RegistryClientFactory
	Metrics               = ports.Metrics
	Clock                 = ports.Clock
)

// Re-exported resource types for hosts populating the store.
type (
	Resource     = nmos.Resource
	ResourceType = nmos.Type
)

const (
	TypeNode       = nmos.TypeNode
	TypeDevice     = nmos.TypeDevice
	TypeSource     = nmos.TypeSource
	TypeFlow       = nmos.TypeFlow
	TypeSender     = nmos.TypeSender
	TypeReceiver   = nmos.TypeReceiver
	TypeSubscription = nmos.TypeSubscription
)

// Option customizes the dependencies used by New.
type Option func(*overrides)

type overrides struct {
	log        Logger
	metrics    Metrics
	downgrader Downgrader
	browser    Browser
	advertiser Advertiser
	newClient  RegistryClientFactory
	clock      Clock
	registerer prometheus.Registerer
}

// WithLogger injects a structured logger. Defaults to a slog-backed
// ports.Logger writing to os.Stderr.
func WithLogger(l Logger) Option { return func(o *overrides) { o.log = l } }

// WithMetrics injects a metrics sink. Defaults to a Prometheus-backed
// implementation registered against the registerer chosen with
// WithMetricsRegisterer, or prometheus.DefaultRegisterer if none is chosen.
func WithMetrics(m Metrics) Option { return func(o *overrides) { o.metrics = m } }

// WithMetricsRegisterer selects the Prometheus registerer used to build
// the default Metrics implementation, ignored if WithMetrics is also set.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *overrides) { o.registerer = reg }
}

// WithDowngrader injects a schema downgrader for registries requesting an
// older AMWA IS-04 version than the authoring version. Defaults to the
// identity transform.
func WithDowngrader(d Downgrader) Option { return func(o *overrides) { o.downgrader = d } }

// WithDiscoveryBrowser injects the mDNS/DNS-SD browser used to locate
// Registration APIs. Defaults to an in-memory double useful only for
// single-process peer-to-peer testing.
func WithDiscoveryBrowser(b Browser) Option { return func(o *overrides) { o.browser = b } }

// WithAdvertiser injects the mDNS/DNS-SD advertiser used to publish the
// node's own service. Defaults to the same in-memory double as
// WithDiscoveryBrowser.
func WithAdvertiser(a Advertiser) Option { return func(o *overrides) { o.advertiser = a } }

// WithRegistryClientFactory overrides how Registration API clients are
// built. Defaults to registryclient.Factory.
func WithRegistryClientFactory(f RegistryClientFactory) Option {
	return func(o *overrides) { o.newClient = f }
}

// WithClock overrides the time source, useful for deterministic tests of
// backoff and heartbeat timing.
func WithClock(c Clock) Option { return func(o *overrides) { o.clock = c } }

// Node wraps the node behaviour engine with lifecycle helpers.
type Node struct {
	engine   *engine.Engine
	settings *Settings
}

// New constructs a Node with default adapters (in-memory discovery,
// identity downgrade, Prometheus metrics, slog logging), overridable via
// Option values.
func New(settings *Settings, opts ...Option) (*Node, error) {
	if settings == nil {
		return nil, fmt.Errorf("nmosnode: settings is required")
	}

	var o overrides
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	log := o.log
	if log == nil {
		log = telemetry.NewSlogLogger(slog.Default())
	}

	metrics := o.metrics
	if metrics == nil {
		reg := o.registerer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		metrics = telemetry.NewMetrics(reg)
	}

	downgrader := o.downgrader
	if downgrader == nil {
		downgrader = downgrade.Passthrough{}
	}

	browser, advertiser := o.browser, o.advertiser
	if browser == nil || advertiser == nil {
		reg := memory.NewRegistry()
		if browser == nil {
			browser = memory.NewBrowser(reg)
		}
		if advertiser == nil {
			advertiser = memory.NewAdvertiser(reg, nmos.NewID())
		}
	}

	newClient := o.newClient
	if newClient == nil {
		newClient = registryclient.Factory(downgrader, log)
	}

	clock := o.clock
	if clock == nil {
		clock = clockutil.System{}
	}

	e := engine.New(engine.Deps{
		Settings:   settings,
		Log:        log,
		Metrics:    metrics,
		Downgrader: downgrader,
		Browser:    browser,
		Advertiser: advertiser,
		NewClient:  newClient,
		Clock:      clock,
	})

	return &Node{engine: e, settings: settings}, nil
}

// Store exposes the resource store for the host process to populate via
// InsertResource/ModifyResource/RemoveResource.
func (n *Node) Store() *nmos.Store { return n.engine.Store() }

// InsertResource adds a resource to the store, reporting false if a
// resource with the same id already exists.
func (n *Node) InsertResource(r *Resource) bool { return n.engine.InsertResource(r) }

// ModifyResource replaces a resource's data, reporting false if the id is
// unknown.
func (n *Node) ModifyResource(id string, data []byte) bool {
	return n.engine.ModifyResource(id, data)
}

// RemoveResource deletes a resource, reporting false if the id is unknown.
func (n *Node) RemoveResource(id string) bool { return n.engine.RemoveResource(id) }

// SelfID returns the node's own resource id once observed.
func (n *Node) SelfID() (string, bool) { return n.engine.SelfID() }

// Mode reports the state machine's current mode, for diagnostics.
func (n *Node) Mode() string { return n.engine.Mode().String() }

// Run executes the node behaviour state machine until ctx is cancelled.
func (n *Node) Run(ctx context.Context) error {
	n.engine.Run(ctx)
	return ctx.Err()
}

// Shutdown requests the engine stop at its next opportunity, without
// waiting for it to do so. Callers driving Run from a separate goroutine
// should cancel that goroutine's context instead; Shutdown exists for
// hosts that call Run synchronously from a signal handler.
func (n *Node) Shutdown() { n.engine.RequestShutdown() }
