package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "host_address: 192.168.1.10\n")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.RegistrationPort != 3210 {
		t.Fatalf("RegistrationPort = %d, want 3210", s.RegistrationPort)
	}
	if s.RegistryVersion != "v1.2" {
		t.Fatalf("RegistryVersion = %q, want v1.2", s.RegistryVersion)
	}
	if s.DiscoveryBackoffMin.Seconds() != 1 {
		t.Fatalf("DiscoveryBackoffMin = %v, want 1s", s.DiscoveryBackoffMin)
	}
	if s.DiscoveryBackoffMax.Seconds() != 30 {
		t.Fatalf("DiscoveryBackoffMax = %v, want 30s", s.DiscoveryBackoffMax)
	}
}

func TestLoadRejectsMissingHostAddress(t *testing.T) {
	path := writeConfig(t, "registration_port: 3210\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("Load with no host_address = nil error, want error")
	}
}

func TestLoadRejectsBackoffMinAboveMax(t *testing.T) {
	path := writeConfig(t, "host_address: 10.0.0.1\ndiscovery_backoff_min: 40\ndiscovery_backoff_max: 30\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("Load with backoff_min > backoff_max = nil error, want error")
	}
}

func TestUnadvertised(t *testing.T) {
	s := Settings{Pri: NoPriority}
	if !s.Unadvertised() {
		t.Fatalf("Unadvertised() = false, want true for pri=no_priority")
	}
	s.Pri = 10
	if s.Unadvertised() {
		t.Fatalf("Unadvertised() = true, want false for pri=10")
	}
}
