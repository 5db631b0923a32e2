// Package downgrade provides the default ports.Downgrader implementation.
// Schema downgrading itself is an external collaborator per spec §1/§9 -
// "treated as opaque" - so this package supplies only the identity
// transform; hosts that register with older registries needing real
// AMWA IS-04 schema translation must supply their own via
// nmosnode.WithDowngrader.
package downgrade

import "github.com/jasperpeeters/nmos-node/internal/nmos"

// Passthrough returns the payload unchanged regardless of version. It
// satisfies ports.Downgrader for deployments where every registry accepts
// the authoring version.
type Passthrough struct{}

func (Passthrough) Downgrade(sourceVersion string, resourceType nmos.Type, data []byte, registryVersion string) ([]byte, error) {
	return data, nil
}
