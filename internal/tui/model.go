// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/verte-zerg/notetutor/internal/catalog"
	"github.com/verte-zerg/notetutor/internal/model"
	"github.com/verte-zerg/notetutor/internal/session"
	"github.com/verte-zerg/notetutor/internal/stats"
)

const recentLimit = 8

var baseDurations = []int{30, 60, 120}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FBF7F"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	staffStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noteStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle      = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

type tickMsg struct {
	session uuid.UUID
}

type advanceMsg struct {
	id uint64
}

// Model implements the Bubble Tea quiz UI.
type Model struct {
	machine  *session.Machine
	catalog  *catalog.Catalog
	defaults model.Config

	keys keyMap
	help help.Model

	clef      model.Clef
	duration  int
	durations []int
	startErr  string

	width  int
	height int
}

// NewModel constructs a quiz TUI model. defaults seeds the menu selection.
func NewModel(machine *session.Machine, cat *catalog.Catalog, defaults model.Config) *Model {
	m := &Model{
		machine:   machine,
		catalog:   cat,
		defaults:  defaults,
		keys:      defaultKeyMap(),
		help:      help.New(),
		durations: durationChoices(defaults.Duration),
	}
	m.resetSelection()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg)
	case advanceMsg:
		m.machine.CompleteAdvance(msg.id)
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ExitProg) {
			return m, tea.Quit
		}
		switch m.machine.State() {
		case session.StateMenu:
			return m, m.updateMenu(msg)
		case session.StateActive:
			return m, m.updateGame(msg)
		case session.StateSummary:
			return m, m.updateSummary(msg)
		}
	}
	return m, nil
}

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Treble):
		m.clef = model.Treble
	case key.Matches(msg, m.keys.Bass):
		m.clef = model.Bass
	case key.Matches(msg, m.keys.Shorter):
		m.stepDuration(-1)
	case key.Matches(msg, m.keys.Longer):
		m.stepDuration(1)
	case key.Matches(msg, m.keys.Reset):
		m.clef = model.Treble
		m.duration = 60
	case key.Matches(msg, m.keys.Start):
		return m.start()
	}
	return nil
}

func (m *Model) updateGame(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.machine.Quit()
	case key.Matches(msg, m.keys.Skip):
		m.machine.Skip()
	case key.Matches(msg, m.keys.Answer):
		letter, ok := model.ParseLetter(msg.String())
		if !ok {
			return nil
		}
		res, ok := m.machine.SubmitAnswer(letter)
		if !ok || res.Advance == nil {
			return nil
		}
		id := res.Advance.ID
		return tea.Tick(res.Advance.Delay, func(time.Time) tea.Msg {
			return advanceMsg{id: id}
		})
	}
	return nil
}

func (m *Model) updateSummary(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Again):
		return m.start()
	case key.Matches(msg, m.keys.Menu):
		m.machine.BackToMenu()
	}
	return nil
}

func (m *Model) start() tea.Cmd {
	cfg := model.Config{Clef: m.clef, Duration: m.duration}
	var err error
	if m.machine.State() == session.StateSummary {
		err = m.machine.PlayAgain(cfg)
	} else {
		err = m.machine.StartGame(cfg)
	}
	if err != nil {
		m.startErr = err.Error()
		if m.machine.State() == session.StateSummary {
			m.machine.BackToMenu()
		}
		return nil
	}
	m.startErr = ""
	return tickCmd(m.machine.View().SessionID)
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	v := m.machine.View()
	if v.State != session.StateActive || v.SessionID != msg.session {
		return nil
	}
	if m.machine.Tick() {
		return nil
	}
	return tickCmd(msg.session)
}

func tickCmd(id uuid.UUID) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{session: id}
	})
}

func (m *Model) resetSelection() {
	m.clef = m.defaults.Clef
	if m.clef == "" {
		m.clef = model.Treble
	}
	m.duration = m.defaults.Duration
	if m.duration <= 0 {
		m.duration = 60
	}
}

func (m *Model) stepDuration(delta int) {
	idx := 0
	for i, d := range m.durations {
		if d == m.duration {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.durations) {
		idx = len(m.durations) - 1
	}
	m.duration = m.durations[idx]
}

func durationChoices(configured int) []int {
	out := append([]int(nil), baseDurations...)
	if configured > 0 {
		found := false
		for _, d := range out {
			if d == configured {
				found = true
				break
			}
		}
		if !found {
			out = append(out, configured)
			sort.Ints(out)
		}
	}
	return out
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	var keys bindings
	switch m.machine.State() {
	case session.StateActive:
		content = m.renderGame()
		keys = m.keys.gameHelp()
	case session.StateSummary:
		content = m.renderSummary()
		keys = m.keys.summaryHelp()
	default:
		content = m.renderMenu()
		keys = m.keys.menuHelp()
	}
	footer := footerStyle.Render(m.help.View(keys))
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderMenu() string {
	clefs := make([]string, 0, 2)
	for _, c := range []model.Clef{model.Treble, model.Bass} {
		label := strings.ToUpper(string(c[:1])) + string(c[1:])
		if c == m.clef {
			clefs = append(clefs, selectedStyle.Render("["+label+"]"))
		} else {
			clefs = append(clefs, mutedStyle.Render(" "+label+" "))
		}
	}
	durations := make([]string, 0, len(m.durations))
	for _, d := range m.durations {
		label := fmt.Sprintf("%ds", d)
		if d == m.duration {
			durations = append(durations, selectedStyle.Render("["+label+"]"))
		} else {
			durations = append(durations, mutedStyle.Render(" "+label+" "))
		}
	}
	lines := []string{
		titleStyle.Render("Music Tutor"),
		mutedStyle.Render("Identify notes on the staff as quickly as you can."),
		"",
		"Clef      " + strings.Join(clefs, " "),
		"Duration  " + strings.Join(durations, " "),
		"",
		metricCard("High score", fmt.Sprintf("%d", m.machine.HighScore())),
	}
	if m.startErr != "" {
		lines = append(lines, incorrectStyle.Render(m.startErr))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderGame() string {
	v := m.machine.View()
	notes, err := m.catalog.Notes(v.Config.Clef)
	if err != nil {
		notes = nil
	}
	header := fmt.Sprintf("Clef: %s   Time left: %ds   Score: %d", v.Config.Clef, v.Remaining, v.Snapshot.Correct)
	lines := []string{
		titleStyle.Render(header),
		"",
		"Identify this note",
		"",
		renderStaff(v.Config.Clef, notes, v.Note, v.HasNote),
		"",
		renderLetters(),
		"",
		mutedStyle.Render(fmt.Sprintf("Correct: %d · Attempts: %d · Mistakes: %d", v.Snapshot.Correct, v.Snapshot.Total, len(v.Snapshot.Mistakes))),
	}
	if recent := renderRecent(v.Recent); recent != "" {
		lines = append(lines, "", recent)
	}
	return strings.Join(lines, "\n")
}

func renderLetters() string {
	parts := make([]string, 0, len(model.Letters))
	for _, l := range model.Letters {
		parts = append(parts, cardStyle.Render(l.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderRecent(recent []model.Attempt) string {
	if len(recent) == 0 {
		return ""
	}
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	lines := []string{mutedStyle.Render("Recent attempts")}
	for _, a := range recent {
		mark := correctStyle.Render("✓")
		if !a.Correct {
			mark = incorrectStyle.Render("✗")
		}
		lines = append(lines, fmt.Sprintf("%s %s: you guessed %s", mark, a.Note, a.Guess))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSummary() string {
	v := m.machine.View()
	snap := v.Snapshot
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Score", fmt.Sprintf("%d", snap.Correct)),
		metricCard("Accuracy", fmt.Sprintf("%d%%", snap.AccuracyPercent)),
		metricCard("Attempts", fmt.Sprintf("%d", snap.Total)),
		metricCard("Notes/min", fmt.Sprintf("%d", stats.NotesPerMinute(snap.Total, v.Config.Duration))),
	)
	lines := []string{
		titleStyle.Render("Summary"),
		cards,
		mutedStyle.Render(fmt.Sprintf("High score: %d", v.HighScore)),
		"",
		titleStyle.Render("Mistakes"),
	}
	if len(snap.Mistakes) == 0 {
		lines = append(lines, correctStyle.Render("Nice! No mistakes."))
	} else {
		for _, mistake := range snap.Mistakes {
			lines = append(lines, fmt.Sprintf("• %s: you guessed %s", mistake.Note, mistake.Guess))
		}
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", mutedStyle.Render(label), titleStyle.Render(value))
	return cardStyle.Render(content)
}
