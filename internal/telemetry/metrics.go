package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jasperpeeters/nmos-node/internal/ports"
)

var (
	_ ports.Metrics = (*Metrics)(nil)
	_ ports.Metrics = NoopMetrics{}
)

// Metrics exposes the engine's Prometheus surface: registration and
// heartbeat outcome counters plus the per-resource-type ver_* gauges
// mirrored from nmos.ApiResourceVersions so an operator can watch
// peer-to-peer activity externally.
type Metrics struct {
	registrationAttempts *prometheus.CounterVec
	heartbeats           *prometheus.CounterVec
	discoveryFailovers   prometheus.Counter
	modeTransitions      *prometheus.CounterVec

	verSelf      prometheus.Gauge
	verDevices   prometheus.Gauge
	verSources   prometheus.Gauge
	verFlows     prometheus.Gauge
	verSenders   prometheus.Gauge
	verReceivers prometheus.Gauge
}

// NewMetrics constructs and registers the engine's Prometheus collectors
// against reg. Pass prometheus.DefaultRegisterer in production, or a fresh
// prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		registrationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nmos_node_registration_attempts_total",
			Help: "Registration API create/update/delete attempts by outcome.",
		}, []string{"op", "outcome"}),
		heartbeats: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nmos_node_heartbeats_total",
			Help: "Heartbeat POSTs by outcome (success, node_unknown, service_error).",
		}, []string{"outcome"}),
		discoveryFailovers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nmos_node_discovery_failovers_total",
			Help: "Number of times the engine popped a registry and failed over.",
		}),
		modeTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nmos_node_mode_transitions_total",
			Help: "State machine transitions by target mode.",
		}, []string{"mode"}),
		verSelf: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nmos_node_ver_self",
			Help: "Peer-to-peer ver_self counter.",
		}),
		verDevices: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nmos_node_ver_devices",
			Help: "Peer-to-peer ver_devices counter.",
		}),
		verSources: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nmos_node_ver_sources",
			Help: "Peer-to-peer ver_sources counter.",
		}),
		verFlows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nmos_node_ver_flows",
			Help: "Peer-to-peer ver_flows counter.",
		}),
		verSenders: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nmos_node_ver_senders",
			Help: "Peer-to-peer ver_senders counter.",
		}),
		verReceivers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nmos_node_ver_receivers",
			Help: "Peer-to-peer ver_receivers counter.",
		}),
	}

	reg.MustRegister(
		m.registrationAttempts,
		m.heartbeats,
		m.discoveryFailovers,
		m.modeTransitions,
		m.verSelf,
		m.verDevices,
		m.verSources,
		m.verFlows,
		m.verSenders,
		m.verReceivers,
	)
	return m
}

func (m *Metrics) ObserveRegistration(op, outcome string) {
	m.registrationAttempts.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) ObserveHeartbeat(outcome string) {
	m.heartbeats.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveFailover() {
	m.discoveryFailovers.Inc()
}

func (m *Metrics) ObserveModeTransition(mode string) {
	m.modeTransitions.WithLabelValues(mode).Inc()
}

// SetVersions mirrors an nmos.ApiResourceVersions snapshot into gauges.
func (m *Metrics) SetVersions(self, devices, sources, flows, senders, receivers uint32) {
	m.verSelf.Set(float64(self))
	m.verDevices.Set(float64(devices))
	m.verSources.Set(float64(sources))
	m.verFlows.Set(float64(flows))
	m.verSenders.Set(float64(senders))
	m.verReceivers.Set(float64(receivers))
}
