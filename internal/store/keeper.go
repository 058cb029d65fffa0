package store

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/notetutor/internal/model"
)

// Keeper adapts a Store to the quiz engine's persistence ports. Failures are
// logged to the error writer and never reach the engine.
type Keeper struct {
	store  *Store
	errOut io.Writer
}

// NewKeeper wraps st. A nil errOut discards failure messages.
func NewKeeper(st *Store, errOut io.Writer) *Keeper {
	if errOut == nil {
		errOut = io.Discard
	}
	return &Keeper{store: st, errOut: errOut}
}

// LoadHighScore returns the stored high score, or 0 when it cannot be read.
func (k *Keeper) LoadHighScore() int {
	score, err := k.store.HighScore(context.Background())
	if err != nil {
		k.logf("failed to load high score: %v\n", err)
		return 0
	}
	return score
}

// SaveHighScore stores score as the new high score.
func (k *Keeper) SaveHighScore(score int) {
	if err := k.store.SetHighScore(context.Background(), score); err != nil {
		k.logf("failed to save high score: %v\n", err)
	}
}

// RecordSession stores a completed session.
func (k *Keeper) RecordSession(rec model.SessionRecord) {
	if err := k.store.InsertSession(context.Background(), rec); err != nil {
		k.logf("failed to save session: %v\n", err)
	}
}

func (k *Keeper) logf(format string, args ...any) {
	if _, err := fmt.Fprintf(k.errOut, format, args...); err != nil {
		// Best-effort logging.
		_ = err
	}
}
