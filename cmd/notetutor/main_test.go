package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/notetutor/internal/audio"
	"github.com/verte-zerg/notetutor/internal/catalog"
	"github.com/verte-zerg/notetutor/internal/config"
	"github.com/verte-zerg/notetutor/internal/model"
)

func TestValidatePlayOptions(t *testing.T) {
	good := playOptions{
		Config:       model.Config{Clef: model.Treble, Duration: 60},
		AdvanceDelay: 130 * time.Millisecond,
		ToneSeconds:  0.9,
		FocusWindow:  20,
		FocusFactor:  2,
	}
	if err := validatePlayOptions(good); err != nil {
		t.Fatalf("expected valid options, got %v", err)
	}
	cases := []struct {
		name   string
		mutate func(*playOptions)
		want   string
	}{
		{"zero duration", func(o *playOptions) { o.Config.Duration = 0 }, "--duration"},
		{"negative delay", func(o *playOptions) { o.AdvanceDelay = -time.Millisecond }, "--advance-delay"},
		{"zero tone", func(o *playOptions) { o.ToneSeconds = 0 }, "--tone"},
		{"negative window", func(o *playOptions) { o.FocusWindow = -1 }, "--focus-window"},
		{"negative factor", func(o *playOptions) { o.FocusFactor = -0.5 }, "--focus-factor"},
	}
	for _, tc := range cases {
		opts := good
		tc.mutate(&opts)
		err := validatePlayOptions(opts)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error mentioning %s, got %v", tc.name, tc.want, err)
		}
	}
}

func TestResolveStatsConfig(t *testing.T) {
	cfg, err := resolveStatsConfig("Bass", "2024-05-01", 3)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Clef != model.Bass || cfg.Last != 3 || cfg.Since == nil || cfg.Since.Day() != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if _, err := resolveStatsConfig("alto", "", 0); err == nil {
		t.Fatalf("expected clef error")
	}
	if _, err := resolveStatsConfig("", "05/01/2024", 0); err == nil {
		t.Fatalf("expected since error")
	}
	if _, err := resolveStatsConfig("", "", -1); err == nil {
		t.Fatalf("expected last error")
	}
}

func TestBuildCue(t *testing.T) {
	var bell bytes.Buffer
	cue, rec := buildCue(playOptions{Audio: audio.ModeBell}, &bell)
	if rec != nil {
		t.Fatalf("bell mode should not record")
	}
	cue.PlayTone(model.Note{Letter: model.A, Octave: 4}, 0.5)
	if bell.String() != "\a" {
		t.Fatalf("expected bell, got %q", bell.String())
	}

	bell.Reset()
	path := filepath.Join(t.TempDir(), "out.mid")
	cue, rec = buildCue(playOptions{Audio: audio.ModeBoth, MIDIOut: path}, &bell)
	if rec == nil {
		t.Fatalf("both mode should record")
	}
	cue.PlayTone(model.Note{Letter: model.C, Octave: 4}, 0.5)
	if bell.String() != "\a" || rec.Len() == 0 {
		t.Fatalf("expected bell and recorded tone, got %q and %d events", bell.String(), rec.Len())
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("close recorder: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected midi file: %v", err)
	}

	cue, rec = buildCue(playOptions{Audio: audio.ModeOff}, &bell)
	if rec != nil {
		t.Fatalf("off mode should not record")
	}
	if _, ok := cue.(audio.Off); !ok {
		t.Fatalf("expected Off cue, got %T", cue)
	}
}

func TestWriteNotes(t *testing.T) {
	var out bytes.Buffer
	if err := writeNotes(&out, catalog.Default(), []model.Clef{model.Treble}); err != nil {
		t.Fatalf("write notes: %v", err)
	}
	text := out.String()
	if !strings.HasPrefix(text, "treble (10 notes)\n") {
		t.Fatalf("unexpected header: %q", text)
	}
	if !strings.Contains(text, "A4    440.00 Hz  midi 69") {
		t.Fatalf("expected A4 line, got %q", text)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Quiz.Clef != nil || cfg.Quiz.Duration != nil {
		t.Fatalf("template should leave values commented out: %+v", cfg.Quiz)
	}
}
