// Package config loads and validates the engine's Settings, the read-only
// configuration surface described in spec §3/§6, following the
// Load/applyDefaults/validate shape used throughout the teacher's own
// config package.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// NoPriority is the mDNS "pri" sentinel value meaning "do not register /
// treat as unadvertised" (glossary: Pri).
const NoPriority = 100

// AuthoringVersion is the schema version resource payloads are authored at
// before any registry-specific downgrade is applied.
const AuthoringVersion = "v1.3"

// Settings is the engine's read-only configuration (spec §3, §6). It is
// loaded once at process start and never mutated by the engine.
type Settings struct {
	Pri int `yaml:"pri"`

	HostAddress  string   `yaml:"host_address"`
	HostAddresses []string `yaml:"host_addresses"`

	RegistryAddress  string `yaml:"registry_address"`
	RegistrationPort int    `yaml:"registration_port"`
	RegistryVersion  string `yaml:"registry_version"`

	RegistrationHeartbeatInterval time.Duration `yaml:"-"`
	HeartbeatIntervalSeconds      float64       `yaml:"registration_heartbeat_interval"`

	DiscoveryBackoffMin    time.Duration `yaml:"-"`
	DiscoveryBackoffMax    time.Duration `yaml:"-"`
	BackoffMinSeconds      float64       `yaml:"discovery_backoff_min"`
	BackoffMaxSeconds      float64       `yaml:"discovery_backoff_max"`
	DiscoveryBackoffFactor float64       `yaml:"discovery_backoff_factor"`

	MDNSHost string `yaml:"mdns_host"`
	MDNSPort int    `yaml:"mdns_port"`

	APIProto string `yaml:"api_proto"`
}

// Unadvertised reports whether pri is the no_priority sentinel, in which
// case the engine publishes no node advertisement in peer_to_peer_operation
// (SPEC_FULL supplemented feature 1, node_behaviour.cpp:190). The engine
// does not consult it during discovery or registration: an unadvertised
// node still registers with any registry it finds.
func (s Settings) Unadvertised() bool {
	return s.Pri == NoPriority
}

// Load reads and validates Settings from a YAML file.
func Load(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Settings
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, err
	}

	s.applyDefaults()
	if err := s.validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Settings) applyDefaults() {
	if s.RegistryVersion == "" {
		s.RegistryVersion = "v1.2"
	}
	if s.RegistrationPort == 0 {
		s.RegistrationPort = 3210
	}
	if s.HeartbeatIntervalSeconds == 0 {
		s.HeartbeatIntervalSeconds = 5
	}
	if s.BackoffMinSeconds == 0 {
		s.BackoffMinSeconds = 1
	}
	if s.BackoffMaxSeconds == 0 {
		s.BackoffMaxSeconds = 30
	}
	if s.DiscoveryBackoffFactor == 0 {
		s.DiscoveryBackoffFactor = 2
	}
	if s.APIProto == "" {
		s.APIProto = "http"
	}
	if s.MDNSPort == 0 {
		s.MDNSPort = 80
	}

	s.RegistrationHeartbeatInterval = durationFromSeconds(s.HeartbeatIntervalSeconds)
	s.DiscoveryBackoffMin = durationFromSeconds(s.BackoffMinSeconds)
	s.DiscoveryBackoffMax = durationFromSeconds(s.BackoffMaxSeconds)
}

func (s *Settings) validate() error {
	if s.HostAddress == "" && len(s.HostAddresses) == 0 {
		return fmt.Errorf("config: host_address or host_addresses is required")
	}
	if s.DiscoveryBackoffFactor <= 1 {
		return fmt.Errorf("config: discovery_backoff_factor must be > 1, got %v", s.DiscoveryBackoffFactor)
	}
	if s.BackoffMinSeconds > s.BackoffMaxSeconds {
		return fmt.Errorf("config: discovery_backoff_min (%v) exceeds discovery_backoff_max (%v)", s.BackoffMinSeconds, s.BackoffMaxSeconds)
	}
	if s.RegistrationPort <= 0 || s.RegistrationPort > 65535 {
		return fmt.Errorf("config: registration_port %d out of range", s.RegistrationPort)
	}
	return nil
}

func durationFromSeconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
