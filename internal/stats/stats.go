// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/notetutor/internal/ledger"
	"github.com/verte-zerg/notetutor/internal/model"
)

const sparkChars = " .:-=+*#%@"

// NotesPerMinute returns total answers scaled to a minute of play.
func NotesPerMinute(total, durationSeconds int) int {
	if durationSeconds <= 0 {
		return 0
	}
	return int(math.Round(float64(total) / (float64(durationSeconds) / 60.0)))
}

// SessionMetrics computes accuracy percent and notes per minute for a stored session.
func SessionMetrics(s model.SessionAggregate) (accuracy, perMinute int) {
	return ledger.AccuracyPercent(s.Correct, s.Total), NotesPerMinute(s.Total, s.Duration)
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// ScoreTrend renders the correct-answer count of each session as a sparkline,
// limited to the last width sessions when width > 0.
func ScoreTrend(sessions []model.SessionAggregate, width int) string {
	if width > 0 && len(sessions) > width {
		sessions = sessions[len(sessions)-width:]
	}
	values := make([]float64, len(sessions))
	for i, s := range sessions {
		values[i] = float64(s.Correct)
	}
	return Sparkline(values)
}

// Totals summarizes a set of sessions.
type Totals struct {
	Sessions     int
	BestScore    int
	AvgScore     float64
	AvgAccuracy  float64
	AvgPerMinute float64
}

// Summarize computes Totals for sessions.
func Summarize(sessions []model.SessionAggregate) Totals {
	t := Totals{Sessions: len(sessions)}
	if len(sessions) == 0 {
		return t
	}
	var score, acc, perMin float64
	for _, s := range sessions {
		a, p := SessionMetrics(s)
		score += float64(s.Correct)
		acc += float64(a)
		perMin += float64(p)
		if s.Correct > t.BestScore {
			t.BestScore = s.Correct
		}
	}
	count := float64(len(sessions))
	t.AvgScore = score / count
	t.AvgAccuracy = acc / count
	t.AvgPerMinute = perMin / count
	return t
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate, trendWidth int) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	t := Summarize(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", t.Sessions),
		fmt.Sprintf("Best score: %d", t.BestScore),
		fmt.Sprintf("Avg score: %.1f", t.AvgScore),
		fmt.Sprintf("Avg accuracy: %.1f%%", t.AvgAccuracy),
		fmt.Sprintf("Avg notes/min: %.1f", t.AvgPerMinute),
		fmt.Sprintf("Score trend: [%s]", ScoreTrend(sessions, trendWidth)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// NoteAccuracy returns correct/(correct+incorrect) as a fraction; 1 when unseen.
func NoteAccuracy(agg model.NoteAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}

// SortByAccuracy returns aggs ordered from weakest to strongest.
func SortByAccuracy(aggs []model.NoteAggregate) []model.NoteAggregate {
	out := append([]model.NoteAggregate(nil), aggs...)
	sort.Slice(out, func(i, j int) bool {
		ai := NoteAccuracy(out[i])
		aj := NoteAccuracy(out[j])
		if ai == aj {
			return out[i].Note < out[j].Note
		}
		return ai < aj
	})
	return out
}

// NoteTableRows formats aggs as table cells, weakest first.
func NoteTableRows(aggs []model.NoteAggregate) [][]string {
	sorted := SortByAccuracy(aggs)
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		rows = append(rows, []string{
			agg.Note,
			fmt.Sprintf("%.1f%%", NoteAccuracy(agg)*100),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
			fmt.Sprintf("%d", agg.Correct+agg.Incorrect),
		})
	}
	return rows
}

// NoteTableHeaders names the NoteTableRows columns.
var NoteTableHeaders = []string{"Note", "Accuracy", "Correct", "Incorrect", "Total"}

// RenderNoteTable prints per-note aggregates.
func RenderNoteTable(w io.Writer, aggs []model.NoteAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No note stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Note"); err != nil {
		return err
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(NoteTableHeaders, NoteTableRows(aggs), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderReport prints the summary followed by the per-note table.
func RenderReport(w io.Writer, r Report, trendWidth int) error {
	if err := RenderSummary(w, r.Sessions, trendWidth); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	return RenderNoteTable(w, r.NoteAggs)
}
