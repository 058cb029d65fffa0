package stats

import (
	"github.com/verte-zerg/notetutor/internal/model"
)

// SelectWeakNotes picks up to top notes with the lowest accuracy. Notes that
// were never missed are not considered weak.
func SelectWeakNotes(aggs []model.NoteAggregate, top int) map[model.Note]struct{} {
	weak := map[model.Note]struct{}{}
	candidates := make([]model.NoteAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Incorrect > 0 {
			candidates = append(candidates, agg)
		}
	}
	candidates = SortByAccuracy(candidates)
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, agg := range candidates[:top] {
		n, err := model.ParseNote(agg.Note)
		if err != nil {
			continue
		}
		weak[n] = struct{}{}
	}
	return weak
}
