// Package ledger keeps the running score of a quiz session.
package ledger

import (
	"math"
	"time"

	"github.com/verte-zerg/notetutor/internal/model"
)

// Ledger counts attempts and keeps an append-only history.
// History and mistakes are stored oldest first.
type Ledger struct {
	now      func() time.Time
	total    int
	correct  int
	mistakes []model.Attempt
	history  []model.Attempt
}

// New returns an empty Ledger. A nil clock defaults to time.Now.
func New(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now}
}

// Reset discards every recorded attempt.
func (l *Ledger) Reset() {
	l.total = 0
	l.correct = 0
	l.mistakes = nil
	l.history = nil
}

// Record scores a guess against note and appends the attempt.
func (l *Ledger) Record(note model.Note, guess model.Letter) model.Attempt {
	attempt := model.Attempt{
		Note:    note,
		Guess:   guess,
		Correct: guess == note.Letter,
		At:      l.now(),
	}
	l.history = append(l.history, attempt)
	l.total++
	if attempt.Correct {
		l.correct++
	} else {
		l.mistakes = append(l.mistakes, attempt)
	}
	return attempt
}

// Snapshot returns the current totals. It does not modify the ledger.
func (l *Ledger) Snapshot() model.Snapshot {
	return model.Snapshot{
		Total:           l.total,
		Correct:         l.correct,
		Mistakes:        append([]model.Attempt(nil), l.mistakes...),
		AccuracyPercent: AccuracyPercent(l.correct, l.total),
	}
}

// History returns a copy of all attempts, oldest first.
func (l *Ledger) History() []model.Attempt {
	return append([]model.Attempt(nil), l.history...)
}

// AccuracyPercent rounds correct/total to a whole percentage; 0 when total is 0.
func AccuracyPercent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(correct) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
