// Package discovery implements the browse/merge logic of spec §4.3 and the
// TXT record building of §4.4 on top of internal/ports's Browser/Advertiser
// interfaces and internal/mdns/memory's in-process double.
package discovery

import (
	"sort"
	"strconv"

	"github.com/jasperpeeters/nmos-node/internal/config"
)

// candidate pairs a discovered/fallback registry with the insertion
// sequence used to break priority ties in a stable, arbitrary order (spec
// §3 "RegistrationServices").
type candidate struct {
	uri      string
	priority int
	seq      int
}

// Services is the priority-ordered candidate registry list (spec §3
// "RegistrationServices"): a multimap keyed by priority, smaller value
// preferred, ties broken by stable insertion order.
type Services struct {
	items []candidate
	next  int
}

// NewServices returns an empty candidate list.
func NewServices() *Services {
	return &Services{}
}

// Insert adds a candidate and re-sorts by (priority, insertion order).
func (s *Services) Insert(uri string, priority int) {
	s.items = append(s.items, candidate{uri: uri, priority: priority, seq: s.next})
	s.next++
	sort.SliceStable(s.items, func(i, j int) bool {
		return s.items[i].priority < s.items[j].priority
	})
}

// Top returns the current highest-preference candidate (smallest
// priority), the "begin()" of the multimap in spec §8's property test.
func (s *Services) Top() (uri string, ok bool) {
	if len(s.items) == 0 {
		return "", false
	}
	return s.items[0].uri, true
}

// Pop removes the current top candidate, used on ServiceError fail-over.
func (s *Services) Pop() {
	if len(s.items) == 0 {
		return
	}
	s.items = s.items[1:]
}

// Empty reports whether no candidates remain.
func (s *Services) Empty() bool {
	return len(s.items) == 0
}

// Len returns the number of remaining candidates.
func (s *Services) Len() int {
	return len(s.items)
}

// FromBrowse builds a Services list from browse results, inserting the
// configured fallback at config.NoPriority when the browse came back empty
// (spec §4.3).
func FromBrowse(found []Discovered, settings *config.Settings) *Services {
	svc := NewServices()
	for _, d := range found {
		svc.Insert(d.URI, d.Priority)
	}
	if len(found) == 0 && settings.RegistryAddress != "" {
		svc.Insert(fallbackURI(settings), config.NoPriority)
	}
	return svc
}

func fallbackURI(settings *config.Settings) string {
	return settings.APIProto + "://" + settings.RegistryAddress + ":" +
		strconv.Itoa(settings.RegistrationPort) + "/x-nmos/registration/" + settings.RegistryVersion
}
