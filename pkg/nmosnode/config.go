package nmosnode

import "github.com/jasperpeeters/nmos-node/internal/config"

// Settings re-exports the engine's configuration type so downstream
// projects can construct or load it without reaching into internal
// packages.
type Settings = config.Settings

// LoadSettings loads and validates YAML settings from disk.
func LoadSettings(path string) (*Settings, error) {
	return config.Load(path)
}
