// Package audio provides feedback cues for answered notes.
package audio

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/notetutor/internal/model"
)

// Cue plays a tone for a note. Implementations return immediately.
type Cue interface {
	PlayTone(note model.Note, seconds float64)
}

// Mode names a cue backend selection.
type Mode string

// Cue modes.
const (
	ModeBell Mode = "bell"
	ModeMIDI Mode = "midi"
	ModeBoth Mode = "both"
	ModeOff  Mode = "off"
)

// ParseMode validates a cue mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeBell:
		return ModeBell, nil
	case ModeMIDI:
		return ModeMIDI, nil
	case ModeBoth:
		return ModeBoth, nil
	case ModeOff, "":
		return ModeOff, nil
	default:
		return "", fmt.Errorf("unknown audio mode %q (use bell, midi, both or off)", s)
	}
}

// Off discards every tone.
type Off struct{}

// PlayTone implements Cue.
func (Off) PlayTone(model.Note, float64) {}

// Bell rings the terminal bell once per tone.
type Bell struct {
	w io.Writer
}

// NewBell returns a Bell writing to w, usually the controlling terminal.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// PlayTone implements Cue.
func (b *Bell) PlayTone(model.Note, float64) {
	if b.w == nil {
		return
	}
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		// Best-effort bell.
		_ = err
	}
}

// Multi fans a tone out to several cues.
type Multi []Cue

// PlayTone implements Cue.
func (m Multi) PlayTone(note model.Note, seconds float64) {
	for _, c := range m {
		if c != nil {
			c.PlayTone(note, seconds)
		}
	}
}
