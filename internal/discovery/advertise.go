package discovery

import (
	"github.com/jasperpeeters/nmos-node/internal/config"
	"github.com/jasperpeeters/nmos-node/internal/nmos"
)

// BaseTXT returns the node service's standard TXT record set, excluding
// pri (never carried on node advertisements per spec §4.4) and ver_*
// (present only in peer_to_peer_operation).
func BaseTXT(settings *config.Settings) map[string]string {
	return map[string]string{
		"api_proto": settings.APIProto,
		"api_ver":   settings.RegistryVersion,
	}
}

// WithVersions returns a copy of base merged with the ver_* TXT records
// derived from versions, used on entry to peer_to_peer_operation.
func WithVersions(base map[string]string, versions nmos.ApiResourceVersions) map[string]string {
	verRecords := versions.TXTRecords()
	out := make(map[string]string, len(base)+len(verRecords))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range verRecords {
		out[k] = v
	}
	return out
}
