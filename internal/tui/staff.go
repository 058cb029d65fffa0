package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/notetutor/internal/model"
)

const (
	staffWidth = 33
	noteGlyph  = "●"
	lineGlyph  = "─"
)

// staffRows lays the range out bottom to top: even indexes sit on a line,
// odd indexes in the space above it. Both default ranges start on the
// bottom line of their clef.
func staffRows(notes []model.Note, note model.Note, hasNote bool) []string {
	idx := -1
	if hasNote {
		for i, n := range notes {
			if n == note {
				idx = i
				break
			}
		}
	}
	center := (staffWidth - runewidth.StringWidth(noteGlyph)) / 2
	rows := make([]string, 0, len(notes))
	for i := len(notes) - 1; i >= 0; i-- {
		fill := " "
		if i%2 == 0 {
			fill = lineGlyph
		}
		if i == idx {
			row := strings.Repeat(fill, center) + noteGlyph
			row += strings.Repeat(fill, staffWidth-center-runewidth.StringWidth(noteGlyph))
			rows = append(rows, row)
			continue
		}
		rows = append(rows, strings.Repeat(fill, staffWidth))
	}
	return rows
}

func renderStaff(clef model.Clef, notes []model.Note, note model.Note, hasNote bool) string {
	rows := staffRows(notes, note, hasNote)
	label := clefLabel(clef)
	labelWidth := runewidth.StringWidth(label)
	var b strings.Builder
	for i, row := range rows {
		prefix := strings.Repeat(" ", labelWidth+1)
		if i == len(rows)/2 {
			prefix = label + " "
		}
		b.WriteString(prefix)
		if strings.Contains(row, noteGlyph) {
			b.WriteString(noteStyle.Render(row))
		} else {
			b.WriteString(staffStyle.Render(row))
		}
		if i < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	if !hasNote {
		b.WriteString("\n" + strings.Repeat(" ", labelWidth+1) + mutedStyle.Render(runewidth.FillLeft("no note", (staffWidth+7)/2)))
	}
	return b.String()
}

func clefLabel(clef model.Clef) string {
	switch clef {
	case model.Bass:
		return "bass  "
	default:
		return "treble"
	}
}
