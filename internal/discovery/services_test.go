package discovery

import (
	"testing"

	"github.com/jasperpeeters/nmos-node/internal/config"
)

func TestServicesTopOrdersByPriority(t *testing.T) {
	s := NewServices()
	s.Insert("http://b.local:3210/x-nmos/registration/v1.2", 20)
	s.Insert("http://a.local:3210/x-nmos/registration/v1.2", 10)

	top, ok := s.Top()
	if !ok || top != "http://a.local:3210/x-nmos/registration/v1.2" {
		t.Fatalf("Top() = (%q, %v), want the pri=10 candidate first", top, ok)
	}
}

func TestServicesPopFailsOver(t *testing.T) {
	s := NewServices()
	s.Insert("http://a.local:3210/x-nmos/registration/v1.2", 10)
	s.Insert("http://b.local:3210/x-nmos/registration/v1.2", 20)

	s.Pop()
	top, ok := s.Top()
	if !ok || top != "http://b.local:3210/x-nmos/registration/v1.2" {
		t.Fatalf("Top() after Pop = (%q, %v), want b", top, ok)
	}

	s.Pop()
	if !s.Empty() {
		t.Fatalf("Empty() = false after popping every candidate")
	}
}

func TestServicesStableTieBreak(t *testing.T) {
	s := NewServices()
	s.Insert("first", 10)
	s.Insert("second", 10)

	top, _ := s.Top()
	if top != "first" {
		t.Fatalf("Top() = %q, want first (stable insertion order on tie)", top)
	}
}

func TestFromBrowseInsertsFallbackAtNoPriority(t *testing.T) {
	settings := &config.Settings{RegistryAddress: "reg.local", RegistrationPort: 3210, RegistryVersion: "v1.2", APIProto: "http"}

	svc := FromBrowse(nil, settings)
	if svc.Empty() {
		t.Fatalf("FromBrowse(nil) with fallback configured produced an empty list")
	}
	top, _ := svc.Top()
	want := "http://reg.local:3210/x-nmos/registration/v1.2"
	if top != want {
		t.Fatalf("fallback URI = %q, want %q", top, want)
	}
}

func TestFromBrowseNoFallbackWhenNotConfigured(t *testing.T) {
	settings := &config.Settings{}
	svc := FromBrowse(nil, settings)
	if !svc.Empty() {
		t.Fatalf("FromBrowse(nil) with no fallback configured = non-empty, want empty")
	}
}

func TestFromBrowsePrefersDiscoveredOverFallback(t *testing.T) {
	settings := &config.Settings{RegistryAddress: "reg.local", RegistrationPort: 3210, RegistryVersion: "v1.2", APIProto: "http"}
	svc := FromBrowse([]Discovered{{URI: "http://found.local", Priority: 5}}, settings)

	if svc.Len() != 1 {
		t.Fatalf("FromBrowse with a discovered service produced %d candidates, want 1 (no fallback added)", svc.Len())
	}
}
