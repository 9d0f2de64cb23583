package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// builtinPresets are the named data set sizes available without a preset file.
var builtinPresets = map[string]Options{
	"tiny": {
		NumUsers:        5,
		PostsPerUser:    2,
		CommentsPerPost: 1,
		RatingsPerPost:  2,
		Clean:           true,
	},
	"default": DefaultOptions,
	"large": {
		NumUsers:        200,
		PostsPerUser:    10,
		CommentsPerPost: 5,
		RatingsPerPost:  12,
		MaxDays:         365,
		Clean:           true,
	},
}

// LoadPreset resolves a preset name, checking file definitions (when path is
// non-empty) before the built-in table. File presets shadow built-ins of the
// same name.
func LoadPreset(name, path string) (Options, error) {
	if path != "" {
		presets, err := loadPresetFile(path)
		if err != nil {
			return Options{}, err
		}
		if opts, ok := presets[name]; ok {
			return opts, nil
		}
	}

	if opts, ok := builtinPresets[name]; ok {
		return opts, nil
	}
	return Options{}, fmt.Errorf("unknown preset %q", name)
}

// loadPresetFile parses a YAML file mapping preset names to options:
//
//	demo:
//	  users: 40
//	  posts_per_user: 6
//	  clean: true
func loadPresetFile(path string) (map[string]Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset file: %w", err)
	}

	presets := make(map[string]Options)
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("parse preset file %s: %w", path, err)
	}
	return presets, nil
}
