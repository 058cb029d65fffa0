// Package catalog holds the fixed note ranges and random note selection.
package catalog

import (
	"fmt"
	"math"

	"github.com/verte-zerg/notetutor/internal/model"
)

const concertA = 440.0

// Semitone offsets from A within the same octave number.
var semitoneFromA = map[model.Letter]int{
	model.C: -9,
	model.D: -7,
	model.E: -5,
	model.F: -4,
	model.G: -2,
	model.A: 0,
	model.B: 2,
}

// ConfigurationError reports a clef with no usable note range.
type ConfigurationError struct {
	Clef   model.Clef
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Clef == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error for clef %q: %s", e.Clef, e.Reason)
}

// Catalog maps each clef to its ordered list of playable notes.
type Catalog struct {
	ranges map[model.Clef][]model.Note
}

// Default returns the standard treble and bass ranges.
func Default() *Catalog {
	return New(map[model.Clef][]model.Note{
		model.Treble: mustNotes("E4", "F4", "G4", "A4", "B4", "C5", "D5", "E5", "F5", "G5"),
		model.Bass:   mustNotes("G2", "A2", "B2", "C3", "D3", "E3", "F3", "G3", "A3", "B3"),
	})
}

// New builds a catalog from explicit ranges. The slices are copied.
func New(ranges map[model.Clef][]model.Note) *Catalog {
	c := &Catalog{ranges: make(map[model.Clef][]model.Note, len(ranges))}
	for clef, notes := range ranges {
		c.ranges[clef] = append([]model.Note(nil), notes...)
	}
	return c
}

// Notes returns a copy of the ordered range for clef.
func (c *Catalog) Notes(clef model.Clef) ([]model.Note, error) {
	notes, err := c.lookup(clef)
	if err != nil {
		return nil, err
	}
	return append([]model.Note(nil), notes...), nil
}

// Contains reports whether note belongs to the clef's range.
func (c *Catalog) Contains(clef model.Clef, note model.Note) bool {
	for _, n := range c.ranges[clef] {
		if n == note {
			return true
		}
	}
	return false
}

func (c *Catalog) lookup(clef model.Clef) ([]model.Note, error) {
	notes, ok := c.ranges[clef]
	if !ok {
		return nil, &ConfigurationError{Clef: clef, Reason: "no note range defined"}
	}
	if len(notes) == 0 {
		return nil, &ConfigurationError{Clef: clef, Reason: "note range is empty"}
	}
	return notes, nil
}

// Frequency returns the equal-tempered pitch of note in Hz (A4 = 440).
func Frequency(note model.Note) float64 {
	offset, ok := semitoneFromA[note.Letter]
	if !ok {
		return concertA
	}
	semitones := offset + (note.Octave-4)*12
	return concertA * math.Pow(2, float64(semitones)/12)
}

// MIDIKey returns the MIDI key number for note, with C4 = 60.
func MIDIKey(note model.Note) uint8 {
	offset, ok := semitoneFromA[note.Letter]
	if !ok {
		return 69
	}
	key := 69 + offset + (note.Octave-4)*12
	if key < 0 {
		return 0
	}
	if key > 127 {
		return 127
	}
	return uint8(key)
}

func mustNotes(names ...string) []model.Note {
	notes := make([]model.Note, 0, len(names))
	for _, name := range names {
		n, err := model.ParseNote(name)
		if err != nil {
			panic(err)
		}
		notes = append(notes, n)
	}
	return notes
}
