package engine

import "github.com/jasperpeeters/nmos-node/internal/config"

// growDiscoveryBackoff computes the next discovery_backoff on a successful
// browse (entry to initial_registration), following
// node_behaviour.cpp:117: clamp(backoff_min, backoff*factor, backoff_max).
// It is deliberately updated on this transition rather than on observed
// failure - the open question of spec §9 - because that is what the
// reference implementation does.
func growDiscoveryBackoff(settings *config.Settings, current float64) float64 {
	grown := current * settings.DiscoveryBackoffFactor
	min := settings.BackoffMinSeconds
	max := settings.BackoffMaxSeconds
	if grown < min {
		grown = min
	}
	if grown > max {
		grown = max
	}
	return grown
}
