package tui

import (
	"errors"

	"github.com/vovakirdan/dropmerge/internal/registry"
	"github.com/vovakirdan/dropmerge/internal/sessionlog"
	"github.com/vovakirdan/dropmerge/internal/storage"
)

// SaveResult stores a finished game: score and session in the database and
// one row in the CSV session log. Games that do not record sessions only
// save a non-zero score. A nil store or empty logPath skips that sink.
func SaveResult(store *storage.Store, logPath string, g registry.Game) error {
	r, ok := g.(registry.Recorder)
	if !ok {
		if score := g.State().Score; store != nil && score > 0 {
			_, err := store.SaveScore(g.ID(), score)
			return err
		}
		return nil
	}

	rec := r.Record()
	var errs []error
	if store != nil {
		if _, err := store.SaveGame(storage.NewSession(g.ID(), r.Mode(), r.Moves(), rec)); err != nil {
			errs = append(errs, err)
		}
	}
	if logPath != "" {
		if err := sessionlog.Append(logPath, []sessionlog.Record{rec}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
