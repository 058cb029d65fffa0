// Package model defines shared data structures.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Letter is a natural note name, A through G.
type Letter byte

// Natural note letters.
const (
	A Letter = 'A'
	B Letter = 'B'
	C Letter = 'C'
	D Letter = 'D'
	E Letter = 'E'
	F Letter = 'F'
	G Letter = 'G'
)

// Letters lists the answer keys in display order.
var Letters = []Letter{A, B, C, D, E, F, G}

// ParseLetter accepts a single letter a-g in either case.
func ParseLetter(s string) (Letter, bool) {
	if len(s) != 1 {
		return 0, false
	}
	ch := s[0]
	if ch >= 'a' && ch <= 'g' {
		ch -= 'a' - 'A'
	}
	if ch < 'A' || ch > 'G' {
		return 0, false
	}
	return Letter(ch), true
}

func (l Letter) String() string {
	return string(rune(l))
}

// Note is a natural note identified by letter and octave.
type Note struct {
	Letter Letter
	Octave int
}

func (n Note) String() string {
	return fmt.Sprintf("%s%d", n.Letter, n.Octave)
}

// ParseNote parses names like "E4".
func ParseNote(s string) (Note, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Note{}, fmt.Errorf("invalid note %q", s)
	}
	letter, ok := ParseLetter(s[:1])
	if !ok {
		return Note{}, fmt.Errorf("invalid note letter in %q", s)
	}
	octave, err := strconv.Atoi(s[1:])
	if err != nil || octave < 0 {
		return Note{}, fmt.Errorf("invalid note octave in %q", s)
	}
	return Note{Letter: letter, Octave: octave}, nil
}

// Clef selects the active note range.
type Clef string

// Supported clefs.
const (
	Treble Clef = "treble"
	Bass   Clef = "bass"
)

// ParseClef normalizes a clef name.
func ParseClef(s string) (Clef, error) {
	switch Clef(strings.ToLower(strings.TrimSpace(s))) {
	case Treble:
		return Treble, nil
	case Bass:
		return Bass, nil
	default:
		return "", fmt.Errorf("unknown clef %q (use treble or bass)", s)
	}
}

// Config is the session configuration chosen in the menu.
type Config struct {
	Clef     Clef
	Duration int // seconds
}

// Attempt is one recorded answer.
type Attempt struct {
	Note    Note
	Guess   Letter
	Correct bool
	At      time.Time
}

// Snapshot is a read-only view of the ledger.
type Snapshot struct {
	Total           int
	Correct         int
	Mistakes        []Attempt
	AccuracyPercent int
}

// SessionRecord captures a completed quiz session.
type SessionRecord struct {
	ID        uuid.UUID
	Config    Config
	StartedAt time.Time
	EndedAt   time.Time
	Attempts  []Attempt
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Clef   Clef
	Since  *time.Time
	Last   int
	Window int
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID string
	EndedAt   time.Time
	Clef      Clef
	Duration  int
	Total     int
	Correct   int
}

// NoteAggregate aggregates attempts on one note across sessions.
type NoteAggregate struct {
	Note      string
	Correct   int
	Incorrect int
}
