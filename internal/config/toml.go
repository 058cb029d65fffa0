// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Quiz QuizConfig `toml:"quiz"`
}

// QuizConfig maps quiz settings. Nil fields were not set in the file.
type QuizConfig struct {
	Clef           *string  `toml:"clef"`
	Duration       *int     `toml:"duration"`
	AdvanceDelayMs *int     `toml:"advance-delay-ms"`
	ToneSeconds    *float64 `toml:"tone-seconds"`
	Audio          *string  `toml:"audio"`
	MIDIOut        *string  `toml:"midi-out"`
	FocusMissed    *bool    `toml:"focus-missed"`
	FocusWindow    *int     `toml:"focus-window"`
	FocusFactor    *float64 `toml:"focus-factor"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
