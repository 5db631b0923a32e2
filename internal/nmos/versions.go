package nmos

import "strconv"

// ApiResourceVersions tracks the per-resource-type "ver_*" counters
// advertised in the node's mDNS TXT records during peer_to_peer_operation
// (spec §4.7). Counters wrap the way the reference implementation's
// increments do: they are opaque monotonic markers a peer node compares for
// inequality, never for magnitude.
type ApiResourceVersions struct {
	Self      uint32
	Devices   uint32
	Sources   uint32
	Flows     uint32
	Senders   uint32
	Receivers uint32
}

// Increment bumps the counter for a resource type, mirroring
// update_resource_version in the reference implementation. Types with no
// corresponding TXT counter (subscription, grain) are a no-op.
func (v *ApiResourceVersions) Increment(t Type) {
	switch t {
	case TypeNode:
		v.Self++
	case TypeDevice:
		v.Devices++
	case TypeSource:
		v.Sources++
	case TypeFlow:
		v.Flows++
	case TypeSender:
		v.Senders++
	case TypeReceiver:
		v.Receivers++
	}
}

// TXTRecords returns the "ver_*" TXT record values for this counter set,
// keyed the way the peer-to-peer advertiser expects them (spec §4.7,
// §6 "mDNS TXT records").
func (v ApiResourceVersions) TXTRecords() map[string]string {
	return map[string]string{
		"ver_self":      strconv.FormatUint(uint64(v.Self), 10),
		"ver_devices":   strconv.FormatUint(uint64(v.Devices), 10),
		"ver_sources":   strconv.FormatUint(uint64(v.Sources), 10),
		"ver_flows":     strconv.FormatUint(uint64(v.Flows), 10),
		"ver_senders":   strconv.FormatUint(uint64(v.Senders), 10),
		"ver_receivers": strconv.FormatUint(uint64(v.Receivers), 10),
	}
}
