// Package session implements the quiz state machine.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/notetutor/internal/catalog"
	"github.com/verte-zerg/notetutor/internal/ledger"
	"github.com/verte-zerg/notetutor/internal/model"
	"github.com/verte-zerg/notetutor/internal/timer"
)

// State is a quiz screen.
type State int

// Quiz states.
const (
	StateMenu State = iota
	StateActive
	StateSummary
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateActive:
		return "active"
	case StateSummary:
		return "summary"
	default:
		return "unknown"
	}
}

const (
	// DefaultAdvanceDelay separates answer feedback from the next note.
	DefaultAdvanceDelay = 130 * time.Millisecond
	// DefaultToneSeconds is the feedback tone length.
	DefaultToneSeconds = 0.9
)

// Options wires the machine to its collaborators. Picker is required.
type Options struct {
	Picker       NotePicker
	Cue          ToneCue
	Scores       ScoreKeeper
	Recorder     SessionRecorder
	AdvanceDelay time.Duration
	ToneSeconds  float64
	Now          func() time.Time
}

// Advance is a scheduled switch to the next note. The caller waits Delay and
// then passes ID to CompleteAdvance.
type Advance struct {
	ID    uint64
	Delay time.Duration
}

// Result describes an accepted answer.
type Result struct {
	Attempt model.Attempt
	// Advance is nil when the next note is already showing.
	Advance *Advance
}

// View is a read-only picture of the machine for rendering.
type View struct {
	State     State
	Config    model.Config
	SessionID uuid.UUID
	Note      model.Note
	HasNote   bool
	Remaining int
	Snapshot  model.Snapshot
	Recent    []model.Attempt // newest first
	HighScore int
}

// Machine drives menu, game and summary transitions. It is not safe for
// concurrent use; every trigger is expected on a single goroutine.
type Machine struct {
	picker       NotePicker
	cue          ToneCue
	scores       ScoreKeeper
	recorder     SessionRecorder
	advanceDelay time.Duration
	toneSeconds  float64
	now          func() time.Time

	state     State
	config    model.Config
	sessionID uuid.UUID
	startedAt time.Time
	note      model.Note
	hasNote   bool
	ledger    *ledger.Ledger
	countdown timer.Countdown
	highScore int

	pending     *pendingAdvance
	nextAdvance uint64
}

type pendingAdvance struct {
	id   uint64
	note model.Note
}

// New builds a Machine in the menu state and loads the stored high score.
func New(opts Options) *Machine {
	m := &Machine{
		picker:       opts.Picker,
		cue:          opts.Cue,
		scores:       opts.Scores,
		recorder:     opts.Recorder,
		advanceDelay: opts.AdvanceDelay,
		toneSeconds:  opts.ToneSeconds,
		now:          opts.Now,
		state:        StateMenu,
	}
	if m.cue == nil {
		m.cue = silentCue{}
	}
	if m.scores == nil {
		m.scores = &memoryScores{}
	}
	if m.advanceDelay < 0 {
		m.advanceDelay = 0
	}
	if m.toneSeconds <= 0 {
		m.toneSeconds = DefaultToneSeconds
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.ledger = ledger.New(m.now)
	m.highScore = m.scores.LoadHighScore()
	if m.highScore < 0 {
		m.highScore = 0
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// HighScore returns the best score seen so far.
func (m *Machine) HighScore() int {
	return m.highScore
}

// StartGame begins a new session. On error the machine is left as it was.
func (m *Machine) StartGame(cfg model.Config) error {
	if m.state == StateActive {
		return nil
	}
	if cfg.Duration <= 0 {
		return &catalog.ConfigurationError{Clef: cfg.Clef, Reason: "duration must be greater than 0"}
	}
	if m.picker == nil {
		return &catalog.ConfigurationError{Clef: cfg.Clef, Reason: "no note source"}
	}
	first, err := m.picker.RandomNote(cfg.Clef)
	if err != nil {
		return err
	}
	m.config = cfg
	m.sessionID = uuid.New()
	m.startedAt = m.now()
	m.ledger.Reset()
	m.pending = nil
	m.note = first
	m.hasNote = true
	m.countdown.Start(cfg.Duration)
	m.state = StateActive
	return nil
}

// PlayAgain starts a fresh session from the summary.
func (m *Machine) PlayAgain(cfg model.Config) error {
	return m.StartGame(cfg)
}

// SubmitAnswer scores letter against the shown note. It reports false and
// changes nothing when no note is showing or the game is not active.
func (m *Machine) SubmitAnswer(letter model.Letter) (Result, bool) {
	if m.state != StateActive || !m.hasNote {
		return Result{}, false
	}
	answered := m.note
	attempt := m.ledger.Record(answered, letter)
	m.cue.PlayTone(answered, m.toneSeconds)

	next, err := m.picker.RandomNote(m.config.Clef)
	if err != nil {
		// The range was valid at start; keep the current note rather than blank the staff.
		next = answered
	}
	if m.advanceDelay == 0 {
		m.note = next
		return Result{Attempt: attempt}, true
	}
	m.nextAdvance++
	m.pending = &pendingAdvance{id: m.nextAdvance, note: next}
	m.hasNote = false
	return Result{
		Attempt: attempt,
		Advance: &Advance{ID: m.nextAdvance, Delay: m.advanceDelay},
	}, true
}

// CompleteAdvance shows the note scheduled by SubmitAnswer. Superseded or
// unknown IDs are ignored.
func (m *Machine) CompleteAdvance(id uint64) bool {
	if m.state != StateActive || m.pending == nil || m.pending.id != id {
		return false
	}
	m.note = m.pending.note
	m.hasNote = true
	m.pending = nil
	return true
}

// Skip replaces the shown note without scoring it.
func (m *Machine) Skip() bool {
	if m.state != StateActive {
		return false
	}
	next, err := m.picker.RandomNote(m.config.Clef)
	if err != nil {
		return false
	}
	m.pending = nil
	m.note = next
	m.hasNote = true
	return true
}

// Tick advances the countdown by one second. It returns true when the
// session ends on this tick.
func (m *Machine) Tick() bool {
	if m.state != StateActive {
		return false
	}
	if !m.countdown.Tick() {
		return false
	}
	m.finish()
	return true
}

func (m *Machine) finish() {
	m.pending = nil
	m.hasNote = false
	m.note = model.Note{}
	m.state = StateSummary

	snap := m.ledger.Snapshot()
	if snap.Correct > m.highScore {
		m.highScore = snap.Correct
		m.scores.SaveHighScore(snap.Correct)
	}
	if m.recorder != nil {
		m.recorder.RecordSession(model.SessionRecord{
			ID:        m.sessionID,
			Config:    m.config,
			StartedAt: m.startedAt,
			EndedAt:   m.now(),
			Attempts:  m.ledger.History(),
		})
	}
}

// Quit abandons the active session and returns to the menu.
func (m *Machine) Quit() {
	if m.state != StateActive {
		return
	}
	m.countdown.Cancel()
	m.pending = nil
	m.hasNote = false
	m.note = model.Note{}
	m.ledger.Reset()
	m.state = StateMenu
}

// BackToMenu leaves the summary.
func (m *Machine) BackToMenu() {
	if m.state != StateSummary {
		return
	}
	m.state = StateMenu
}

// View returns the state needed to render the current screen.
func (m *Machine) View() View {
	history := m.ledger.History()
	recent := make([]model.Attempt, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		recent = append(recent, history[i])
	}
	return View{
		State:     m.state,
		Config:    m.config,
		SessionID: m.sessionID,
		Note:      m.note,
		HasNote:   m.hasNote,
		Remaining: m.countdown.Remaining(),
		Snapshot:  m.ledger.Snapshot(),
		Recent:    recent,
		HighScore: m.highScore,
	}
}
