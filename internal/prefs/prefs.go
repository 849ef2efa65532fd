// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const prefsFile = "preferences.json"

// Settings holds user-tunable annotation defaults.
type Settings struct {
	// SimplifyEpsilonFactor controls polygon simplification when converting
	// masks back to polygons. Typical range 0.0005-0.005.
	SimplifyEpsilonFactor float64 `json:"simplify_epsilon_factor"`

	// PixelPriorityEnabled resolves multi-class pixels to a single class
	// in the exported tensor.
	PixelPriorityEnabled bool `json:"pixel_priority_enabled"`

	// PixelPriorityAscending makes lower class channels win overlaps.
	PixelPriorityAscending bool `json:"pixel_priority_ascending"`

	// OverlayOpacity is the default segment overlay opacity, 0.0 - 1.0.
	OverlayOpacity float64 `json:"overlay_opacity"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		SimplifyEpsilonFactor:  0.001,
		PixelPriorityEnabled:   false,
		PixelPriorityAscending: true,
		OverlayOpacity:         0.7,
	}
}

// Path returns the preferences file location under the user config dir.
func Path() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "annotator", prefsFile)
}

// Load reads settings from the preferences file, falling back to defaults
// for a missing or unreadable file.
func Load() Settings {
	return LoadFrom(Path())
}

// LoadFrom reads settings from an explicit path.
func LoadFrom(path string) Settings {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	_ = json.Unmarshal(data, &s)
	return s
}

// Save writes settings to the preferences file.
func (s Settings) Save() error {
	return s.SaveTo(Path())
}

// SaveTo writes settings to an explicit path, creating the directory if
// needed.
func (s Settings) SaveTo(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
