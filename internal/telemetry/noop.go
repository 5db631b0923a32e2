package telemetry

// NoopMetrics discards every observation, used where a host process has
// not wired Prometheus.
type NoopMetrics struct{}

func (NoopMetrics) ObserveRegistration(op, outcome string) {}
func (NoopMetrics) ObserveHeartbeat(outcome string)        {}
func (NoopMetrics) ObserveFailover()                       {}
func (NoopMetrics) ObserveModeTransition(mode string)      {}
func (NoopMetrics) SetVersions(self, devices, sources, flows, senders, receivers uint32) {
}
