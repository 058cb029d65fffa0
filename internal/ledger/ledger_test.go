package ledger

import (
	"reflect"
	"testing"
	"time"

	"github.com/verte-zerg/notetutor/internal/model"
)

func fixedClock() func() time.Time {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * time.Second)
	}
}

func note(t *testing.T, name string) model.Note {
	t.Helper()
	n, err := model.ParseNote(name)
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return n
}

func TestRecordKeepsCountsConsistent(t *testing.T) {
	l := New(fixedClock())
	guesses := []struct {
		note  string
		guess model.Letter
	}{
		{"E4", model.E},
		{"F4", model.G},
		{"C5", model.C},
		{"A2", model.B},
		{"B3", model.B},
		{"D5", model.A},
	}
	for i, g := range guesses {
		l.Record(note(t, g.note), g.guess)
		snap := l.Snapshot()
		if snap.Total != i+1 {
			t.Fatalf("after %d records total = %d", i+1, snap.Total)
		}
		if snap.Correct+len(snap.Mistakes) != snap.Total {
			t.Fatalf("correct %d + mistakes %d != total %d", snap.Correct, len(snap.Mistakes), snap.Total)
		}
		if len(l.History()) != snap.Total {
			t.Fatalf("history length %d != total %d", len(l.History()), snap.Total)
		}
		if snap.AccuracyPercent < 0 || snap.AccuracyPercent > 100 {
			t.Fatalf("accuracy out of range: %d", snap.AccuracyPercent)
		}
	}
	snap := l.Snapshot()
	if snap.Correct != 3 || len(snap.Mistakes) != 3 || snap.AccuracyPercent != 50 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestRecordWrongLetter(t *testing.T) {
	l := New(fixedClock())
	n := note(t, "G4")
	attempt := l.Record(n, model.A)
	if attempt.Correct {
		t.Fatalf("expected incorrect attempt")
	}
	snap := l.Snapshot()
	if len(snap.Mistakes) != 1 {
		t.Fatalf("expected 1 mistake, got %d", len(snap.Mistakes))
	}
	m := snap.Mistakes[0]
	if m.Note != n || m.Guess != model.A {
		t.Fatalf("mistake does not record note and guess: %+v", m)
	}
}

func TestHistoryIsChronological(t *testing.T) {
	l := New(fixedClock())
	l.Record(note(t, "E4"), model.E)
	l.Record(note(t, "F4"), model.F)
	h := l.History()
	if h[0].Note.String() != "E4" || h[1].Note.String() != "F4" {
		t.Fatalf("history not oldest first: %v", h)
	}
	if !h[0].At.Before(h[1].At) {
		t.Fatalf("timestamps out of order")
	}
}

func TestSnapshotEmptyAndIdempotent(t *testing.T) {
	l := New(nil)
	snap := l.Snapshot()
	if snap.Total != 0 || snap.AccuracyPercent != 0 {
		t.Fatalf("unexpected empty snapshot: %+v", snap)
	}
	l.Record(note(t, "B4"), model.D)
	l.Record(note(t, "C5"), model.C)
	first := l.Snapshot()
	second := l.Snapshot()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("snapshots differ: %+v vs %+v", first, second)
	}
}

func TestReset(t *testing.T) {
	l := New(nil)
	l.Record(note(t, "B4"), model.D)
	l.Reset()
	snap := l.Snapshot()
	if snap.Total != 0 || snap.Correct != 0 || len(snap.Mistakes) != 0 || len(l.History()) != 0 {
		t.Fatalf("reset left data behind: %+v", snap)
	}
}

func TestAccuracyPercentRounds(t *testing.T) {
	cases := []struct {
		correct, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{5, 5, 100},
	}
	for _, tc := range cases {
		if got := AccuracyPercent(tc.correct, tc.total); got != tc.want {
			t.Fatalf("AccuracyPercent(%d, %d) = %d, want %d", tc.correct, tc.total, got, tc.want)
		}
	}
}
