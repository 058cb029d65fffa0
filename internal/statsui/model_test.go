package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/verte-zerg/notetutor/internal/model"
	"github.com/verte-zerg/notetutor/internal/store"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "notetutor.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	e4 := model.Note{Letter: model.E, Octave: 4}
	g4 := model.Note{Letter: model.G, Octave: 4}
	rec := model.SessionRecord{
		ID:        uuid.New(),
		Config:    model.Config{Clef: model.Treble, Duration: 30},
		StartedAt: start,
		EndedAt:   start.Add(30 * time.Second),
		Attempts: []model.Attempt{
			{Note: e4, Guess: model.E, Correct: true, At: start.Add(time.Second)},
			{Note: g4, Guess: model.A, Correct: false, At: start.Add(2 * time.Second)},
		},
	}
	ctx := context.Background()
	if err := st.InsertSession(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.SetHighScore(ctx, 7); err != nil {
		t.Fatalf("high score: %v", err)
	}
	return st
}

func TestOverviewAndNoteTable(t *testing.T) {
	m := NewModel(seededStore(t), model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	for _, want := range []string{"Overview", "Sessions", "Best score", "high score=7"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in overview:\n%s", want, view)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabNoteTable {
		t.Fatalf("expected note table tab, got %d", m.activeTab)
	}
	view = m.View()
	if !strings.Contains(view, "G4") || !strings.Contains(view, "E4") {
		t.Fatalf("expected per-note rows:\n%s", view)
	}
}

func TestFilterNarrowsToClef(t *testing.T) {
	m := NewModel(seededStore(t), model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.filterInputs[filterClef].SetValue("bass")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode || m.cfg.Clef != model.Bass {
		t.Fatalf("filter not applied: mode=%v cfg=%+v", m.filterMode, m.cfg)
	}
	if len(m.report.Sessions) != 0 {
		t.Fatalf("expected no bass sessions, got %d", len(m.report.Sessions))
	}
	if !strings.Contains(m.View(), "No sessions found.") {
		t.Fatalf("expected empty overview")
	}
}

func TestParseFilter(t *testing.T) {
	cfg, err := parseFilter(" treble ", "2024-05-01", "4")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Clef != model.Treble || cfg.Since == nil || cfg.Last != 4 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if _, err := parseFilter("", "", "-2"); err == nil {
		t.Fatalf("expected last error")
	}
	if _, err := parseFilter("", "yesterday", ""); err == nil {
		t.Fatalf("expected since error")
	}
	if _, err := parseFilter("tenor", "", ""); err == nil {
		t.Fatalf("expected clef error")
	}
}
