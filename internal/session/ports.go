package session

import "github.com/verte-zerg/notetutor/internal/model"

// NotePicker draws the next note for a clef.
type NotePicker interface {
	RandomNote(clef model.Clef) (model.Note, error)
}

// ToneCue plays feedback for an answered note. Calls must not block.
type ToneCue interface {
	PlayTone(note model.Note, seconds float64)
}

// ScoreKeeper persists the high score. LoadHighScore returns 0 when no
// usable value is stored; SaveHighScore failures are the keeper's concern.
type ScoreKeeper interface {
	LoadHighScore() int
	SaveHighScore(score int)
}

// SessionRecorder receives each completed session.
type SessionRecorder interface {
	RecordSession(rec model.SessionRecord)
}

type silentCue struct{}

func (silentCue) PlayTone(model.Note, float64) {}

type memoryScores struct {
	best int
}

func (m *memoryScores) LoadHighScore() int { return m.best }

func (m *memoryScores) SaveHighScore(score int) { m.best = score }
