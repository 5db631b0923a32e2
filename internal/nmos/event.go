package nmos

import (
	"fmt"
	"strings"
)

// EventType mirrors the four event kinds a grain can carry.
type EventType string

const (
	EventAdded    EventType = "added"
	EventModified EventType = "modified"
	EventRemoved  EventType = "removed"
	EventSync     EventType = "sync"
)

// Event is one entry of a grain's message.grain.data array (spec §3).
// Pre/Post are raw JSON, absent (nil) per the rules in spec §3: Pre is
// absent for added/sync, Post is absent for removed.
type Event struct {
	Path string
	Type EventType
	ID   string
	Kind Type
	Pre  []byte
	Post []byte
}

// NewEvent builds an Event, deriving Path from Kind and ID.
func NewEvent(kind Type, id string, eventType EventType, pre, post []byte) Event {
	return Event{
		Path: kind.Plural() + "/" + id,
		Type: eventType,
		ID:   id,
		Kind: kind,
	}.withBodies(pre, post)
}

func (e Event) withBodies(pre, post []byte) Event {
	e.Pre = pre
	e.Post = post
	return e
}

// ParseEventPath splits a "{resource_type_plural}/{id}" path into its
// resource type and id, mirroring get_node_behaviour_event_id_type in the
// nmos-cpp reference implementation.
func ParseEventPath(path string) (Type, string, error) {
	slash := strings.IndexByte(path, '/')
	if slash < 0 {
		return "", "", fmt.Errorf("nmos: malformed event path %q", path)
	}
	kind := typeFromPlural(path[:slash])
	if kind == Type("") {
		return "", "", fmt.Errorf("nmos: unknown resource type in event path %q", path)
	}
	return kind, path[slash+1:], nil
}

// IsNodeAddedOrSync reports whether the event represents the arrival of a
// node resource via an "added" or "sync" event - the only events that can
// carry self_id during initial_registration (spec §4.5).
func (e Event) IsNodeAddedOrSync() bool {
	return e.Kind == TypeNode && (e.Type == EventAdded || e.Type == EventSync)
}
