package ports

import "github.com/jasperpeeters/nmos-node/internal/nmos"

// Downgrader adapts a resource payload authored at one schema version to
// the version a target registry requested. Its contract is external and
// opaque to the engine (spec §4.2, §9 "Downgrade").
type Downgrader interface {
	Downgrade(sourceVersion string, resourceType nmos.Type, data []byte, registryVersion string) ([]byte, error)
}
