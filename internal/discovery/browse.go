package discovery

import (
	"context"

	"github.com/jasperpeeters/nmos-node/internal/config"
	"github.com/jasperpeeters/nmos-node/internal/ports"
)

// Discovered is a resolved registration service, ready to be inserted into
// a Services candidate list.
type Discovered struct {
	URI      string
	Priority int
}

// Browse performs one mDNS resolution of _nmos-registration._tcp through
// browser, merges in the configured fallback when the result is empty, and
// logs at the severities spec §4.3 names: info on start, info with count
// on success, warning on empty.
func Browse(ctx context.Context, browser ports.Browser, settings *config.Settings, log ports.Logger) (*Services, error) {
	log.Info("discovery: browsing for _nmos-registration._tcp")

	found, err := browser.Browse(ctx)
	if err != nil {
		return nil, err
	}

	discovered := make([]Discovered, 0, len(found))
	for _, f := range found {
		discovered = append(discovered, Discovered{URI: f.URI, Priority: f.Priority})
	}

	if len(discovered) == 0 {
		log.Warning("discovery: browse returned no registration services")
	} else {
		log.Info("discovery: browse succeeded", ports.Field{Key: "count", Value: len(discovered)})
	}

	return FromBrowse(discovered, settings), nil
}
