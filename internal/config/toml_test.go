package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Quiz.Clef != nil || cfg.Quiz.Duration != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `[quiz]
clef = "bass"
duration = 120
advance-delay-ms = 0
audio = "midi"
focus-missed = true
focus-factor = 3.5
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	q := cfg.Quiz
	if q.Clef == nil || *q.Clef != "bass" {
		t.Fatalf("unexpected clef: %v", q.Clef)
	}
	if q.Duration == nil || *q.Duration != 120 {
		t.Fatalf("unexpected duration: %v", q.Duration)
	}
	if q.AdvanceDelayMs == nil || *q.AdvanceDelayMs != 0 {
		t.Fatalf("explicit zero delay lost: %v", q.AdvanceDelayMs)
	}
	if q.Audio == nil || *q.Audio != "midi" {
		t.Fatalf("unexpected audio: %v", q.Audio)
	}
	if q.FocusMissed == nil || !*q.FocusMissed || q.FocusFactor == nil || *q.FocusFactor != 3.5 {
		t.Fatalf("unexpected focus settings: %+v", q)
	}
	if q.ToneSeconds != nil || q.MIDIOut != nil {
		t.Fatalf("unset keys should stay nil: %+v", q)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[quiz]\ntempo = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "quiz.tempo") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "notetutor", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "notetutor", "notetutor.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}
