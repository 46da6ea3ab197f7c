package personality

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile is a named personality stored on disk.
type Profile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Traits      Traits `yaml:"traits"`
}

var presets = map[string]Profile{
	"neutral": {Name: "neutral", Description: "All traits at the population mean"},
	"open": {Name: "open", Description: "Curious and imaginative",
		Traits: Traits{Openness: 1}},
	"conscientious": {Name: "conscientious", Description: "Organised and deliberate",
		Traits: Traits{Conscientiousness: 1}},
	"extravert": {Name: "extravert", Description: "Outgoing and energetic",
		Traits: Traits{Extraversion: 1}},
	"agreeable": {Name: "agreeable", Description: "Warm and accommodating",
		Traits: Traits{Agreeableness: 1}},
	"neurotic": {Name: "neurotic", Description: "Tense and easily unsettled",
		Traits: Traits{Neuroticism: 1}},
}

// Preset returns a built-in profile by name.
func Preset(name string) (Profile, bool) {
	p, ok := presets[strings.ToLower(name)]
	return p, ok
}

// PresetNames lists the built-in profiles in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadProfile reads a YAML profile. A leading ~ is expanded to the home
// directory.
func LoadProfile(path string) (Profile, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return Profile{}, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}

	p, err := ParseProfile(data)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// ParseProfile decodes YAML profile data. Out-of-range traits are clamped,
// not rejected.
func ParseProfile(data []byte) (Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile YAML: %w", err)
	}
	p.Traits = p.Traits.Clamped()
	return p, nil
}

// Save writes the profile as YAML.
func (p Profile) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// Resolve returns the preset called ref, or loads ref as a file path.
func Resolve(ref string) (Profile, error) {
	if p, ok := Preset(ref); ok {
		return p, nil
	}
	return LoadProfile(ref)
}
