package ports

import "context"

// RegistrationService is one discovered or configured candidate registry
// (spec §4.3).
type RegistrationService struct {
	URI      string
	Priority int
}

// Browser resolves _nmos-registration._tcp once with no cancellation (spec
// §4.3). It is the sole mDNS-consuming interface for discovery.
type Browser interface {
	Browse(ctx context.Context) ([]RegistrationService, error)
}

// Advertiser publishes and updates the node's _nmos-node._tcp service
// (spec §4.4).
type Advertiser interface {
	// Advertise publishes the node service for the first time with the
	// given TXT records (api_proto, api_ver and, in peer_to_peer_operation,
	// the ver_* records); pri is never included.
	Advertise(ctx context.Context, txt map[string]string) error

	// Update replaces the currently published TXT record set wholesale.
	Update(ctx context.Context, txt map[string]string) error

	// Withdraw removes the node service, used only at process shutdown.
	Withdraw(ctx context.Context) error
}
