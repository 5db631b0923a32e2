package ports

// Metrics is the engine's telemetry sink. Kept narrow and separate from
// Logger so a host process can wire Prometheus (or nothing) independently
// of its logging backend.
type Metrics interface {
	ObserveRegistration(op, outcome string)
	ObserveHeartbeat(outcome string)
	ObserveFailover()
	ObserveModeTransition(mode string)
	SetVersions(self, devices, sources, flows, senders, receivers uint32)
}
