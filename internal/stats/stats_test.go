package stats

import (
	"bytes"
	"testing"

	"github.com/verte-zerg/notetutor/internal/model"
)

func TestNotesPerMinute(t *testing.T) {
	cases := []struct {
		total, duration, want int
	}{
		{0, 60, 0},
		{30, 60, 30},
		{15, 30, 30},
		{25, 120, 13},
		{5, 0, 0},
	}
	for _, tc := range cases {
		if got := NotesPerMinute(tc.total, tc.duration); got != tc.want {
			t.Fatalf("NotesPerMinute(%d, %d) = %d, want %d", tc.total, tc.duration, got, tc.want)
		}
	}
}

func TestSparklineFlatAndRange(t *testing.T) {
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	got := Sparkline([]float64{0, 10})
	if got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
}

func TestScoreTrendWindow(t *testing.T) {
	sessions := []model.SessionAggregate{{Correct: 1}, {Correct: 5}, {Correct: 9}}
	if got := ScoreTrend(sessions, 2); len(got) != 2 {
		t.Fatalf("expected trend limited to 2 points, got %q", got)
	}
}

func TestSelectWeakNotes(t *testing.T) {
	aggs := []model.NoteAggregate{
		{Note: "E4", Correct: 9, Incorrect: 1},
		{Note: "F4", Correct: 1, Incorrect: 3},
		{Note: "G4", Correct: 5, Incorrect: 0},
		{Note: "A4", Correct: 2, Incorrect: 2},
	}
	weak := SelectWeakNotes(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak notes, got %v", weak)
	}
	for _, name := range []string{"F4", "A4"} {
		n, _ := model.ParseNote(name)
		if _, ok := weak[n]; !ok {
			t.Fatalf("expected %s to be weak, got %v", name, weak)
		}
	}
	all := SelectWeakNotes(aggs, 0)
	if len(all) != 3 {
		t.Fatalf("expected every missed note, got %v", all)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil, 10); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No sessions found.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
