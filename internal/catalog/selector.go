package catalog

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/notetutor/internal/model"
)

// Selector picks random notes from a catalog.
type Selector struct {
	catalog *Catalog
	rnd     *rand.Rand
	weak    map[model.Note]struct{}
	factor  float64
}

// NewSelector returns a Selector seeded with the current time.
func NewSelector(c *Catalog) *Selector {
	return NewSeededSelector(c, time.Now().UnixNano())
}

// NewSeededSelector returns a Selector with a fixed seed.
func NewSeededSelector(c *Catalog, seed int64) *Selector {
	return &Selector{catalog: c, rnd: rand.New(rand.NewSource(seed))}
}

// Focus biases selection toward weak notes. An empty set restores uniform selection.
func (s *Selector) Focus(weak map[model.Note]struct{}, factor float64) {
	if len(weak) == 0 || factor <= 0 {
		s.weak = nil
		s.factor = 0
		return
	}
	s.weak = make(map[model.Note]struct{}, len(weak))
	for n := range weak {
		s.weak[n] = struct{}{}
	}
	s.factor = factor
}

// RandomNote draws a note for clef. Repeats are allowed.
func (s *Selector) RandomNote(clef model.Clef) (model.Note, error) {
	notes, err := s.catalog.lookup(clef)
	if err != nil {
		return model.Note{}, err
	}
	if len(s.weak) == 0 {
		return notes[s.rnd.Intn(len(notes))], nil
	}
	return s.weighted(notes), nil
}

func (s *Selector) weighted(notes []model.Note) model.Note {
	weights := make([]float64, len(notes))
	total := 0.0
	for i, n := range notes {
		w := 1.0
		if _, ok := s.weak[n]; ok {
			w += s.factor
		}
		weights[i] = w
		total += w
	}
	r := s.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return notes[i]
		}
	}
	return notes[len(notes)-1]
}
