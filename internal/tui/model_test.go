package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/notetutor/internal/catalog"
	"github.com/verte-zerg/notetutor/internal/model"
	"github.com/verte-zerg/notetutor/internal/session"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, defaults model.Config) (*Model, *session.Machine) {
	t.Helper()
	cat := catalog.Default()
	machine := session.New(session.Options{Picker: catalog.NewSeededSelector(cat, 3)})
	return NewModel(machine, cat, defaults), machine
}

func TestMenuSelectionAndStart(t *testing.T) {
	m, machine := newTestModel(t, model.Config{Clef: model.Treble, Duration: 60})
	m.Update(runeKey("b"))
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.clef != model.Bass || m.duration != 30 {
		t.Fatalf("unexpected selection: %s %d", m.clef, m.duration)
	}
	m.Update(runeKey("r"))
	if m.clef != model.Treble || m.duration != 60 {
		t.Fatalf("reset did not restore treble/60: %s %d", m.clef, m.duration)
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected tick command after start")
	}
	v := machine.View()
	if v.State != session.StateActive || v.Config.Clef != model.Treble || v.Remaining != 60 {
		t.Fatalf("unexpected session after start: %+v", v)
	}
}

func TestAnswerAndTicksReachSummary(t *testing.T) {
	m, machine := newTestModel(t, model.Config{Clef: model.Bass, Duration: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	shown := machine.View().Note
	m.Update(runeKey(strings.ToLower(shown.Letter.String())))
	if snap := machine.View().Snapshot; snap.Total != 1 || snap.Correct != 1 {
		t.Fatalf("answer not recorded: %+v", snap)
	}

	id := machine.View().SessionID
	for i := 0; i < 30; i++ {
		_, cmd := m.Update(tickMsg{session: id})
		if i < 29 && cmd == nil {
			t.Fatalf("tick chain stopped early at %d", i+1)
		}
		if i == 29 && cmd != nil {
			t.Fatalf("tick chain continued after expiry")
		}
	}
	if machine.State() != session.StateSummary {
		t.Fatalf("expected summary, got %s", machine.State())
	}
	out := m.View()
	for _, want := range []string{"Summary", "Accuracy", "100%", "Notes/min", "Nice! No mistakes."} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}

	m.Update(runeKey("m"))
	if machine.State() != session.StateMenu {
		t.Fatalf("expected menu, got %s", machine.State())
	}
}

func TestStaleTickIgnored(t *testing.T) {
	m, machine := newTestModel(t, model.Config{Clef: model.Treble, Duration: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	old := machine.View().SessionID
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd := m.Update(tickMsg{session: old})
	if cmd != nil {
		t.Fatalf("stale tick rescheduled")
	}
	if machine.View().Remaining != 30 {
		t.Fatalf("stale tick consumed a second: %d", machine.View().Remaining)
	}
}

func TestMenuShowsStartError(t *testing.T) {
	cat := catalog.New(map[model.Clef][]model.Note{})
	machine := session.New(session.Options{Picker: catalog.NewSeededSelector(cat, 1)})
	m := NewModel(machine, cat, model.Config{Clef: model.Treble, Duration: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if machine.State() != session.StateMenu {
		t.Fatalf("expected menu after failed start, got %s", machine.State())
	}
	if !strings.Contains(m.View(), "configuration error") {
		t.Fatalf("menu does not show start error:\n%s", m.View())
	}
}

func TestDurationChoicesIncludeConfigured(t *testing.T) {
	got := durationChoices(45)
	want := []int{30, 45, 60, 120}
	if len(got) != len(want) {
		t.Fatalf("unexpected choices %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected choices %v", got)
		}
	}
}
