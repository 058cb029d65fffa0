package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/verte-zerg/notetutor/internal/catalog"
	"github.com/verte-zerg/notetutor/internal/model"
)

const (
	midiTempoBPM   = 120.0
	midiResolution = 960
	midiChannel    = 0
	midiVelocity   = 90
)

type midiEvent struct {
	at  time.Duration
	seq int
	msg midi.Message
}

// MIDIRecorder captures feedback tones and writes them as a Standard MIDI File.
type MIDIRecorder struct {
	path   string
	now    func() time.Time
	origin time.Time
	events []midiEvent
	seq    int
}

// NewMIDIRecorder returns a recorder that writes to path on Close. A nil
// clock defaults to time.Now.
func NewMIDIRecorder(path string, now func() time.Time) *MIDIRecorder {
	if now == nil {
		now = time.Now
	}
	return &MIDIRecorder{path: path, now: now}
}

// PlayTone implements Cue by queuing a note-on and its matching note-off.
func (r *MIDIRecorder) PlayTone(note model.Note, seconds float64) {
	now := r.now()
	if r.origin.IsZero() {
		r.origin = now
	}
	start := now.Sub(r.origin)
	length := time.Duration(seconds * float64(time.Second))
	if length <= 0 {
		length = time.Millisecond
	}
	key := catalog.MIDIKey(note)
	r.push(start, midi.NoteOn(midiChannel, key, midiVelocity))
	r.push(start+length, midi.NoteOff(midiChannel, key))
}

func (r *MIDIRecorder) push(at time.Duration, msg midi.Message) {
	r.seq++
	r.events = append(r.events, midiEvent{at: at, seq: r.seq, msg: msg})
}

// Len returns the number of recorded tones.
func (r *MIDIRecorder) Len() int {
	return len(r.events) / 2
}

// Build assembles the recorded tones into a single-track SMF.
func (r *MIDIRecorder) Build() (*smf.SMF, error) {
	events := append([]midiEvent(nil), r.events...)
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].at == events[j].at {
			return events[i].seq < events[j].seq
		}
		return events[i].at < events[j].at
	})

	ticks := smf.MetricTicks(midiResolution)
	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName("notetutor"))
	track.Add(0, smf.MetaTempo(midiTempoBPM))

	var prev time.Duration
	for _, ev := range events {
		delta := ticks.Ticks(midiTempoBPM, ev.at-prev)
		track.Add(delta, ev.msg)
		prev = ev.at
	}
	track.Close(0)

	file := smf.New()
	file.TimeFormat = ticks
	if err := file.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add midi track: %w", err)
	}
	return file, nil
}

// Close writes the recording to its path. Nothing is written when no tone
// was recorded.
func (r *MIDIRecorder) Close() error {
	if r.path == "" || len(r.events) == 0 {
		return nil
	}
	file, err := r.Build()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create midi output directory: %w", err)
	}
	if err := file.WriteFile(r.path); err != nil {
		return fmt.Errorf("failed to write midi file: %w", err)
	}
	return nil
}
