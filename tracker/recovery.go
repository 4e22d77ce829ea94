package tracker

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/rollseq/rollseq"
	"github.com/sirupsen/logrus"
)

// RecoveryFileName is the name of the recovery file in the user config
// directory.
const RecoveryFileName = "recovery.txt"

// DefaultRecoveryDelay is how long the score must stay unchanged before the
// recovery file is written.
const DefaultRecoveryDelay = 2 * time.Second

// Recovery keeps a copy of the unsaved score on disk, so the work is not lost
// if the program crashes. Writes are debounced: a burst of edits results in a
// single write once the edits stop. A nil *Recovery does nothing.
type Recovery struct {
	path      string
	debounced func(f func())
	log       logrus.FieldLogger
}

func NewRecovery(path string, delay time.Duration, log logrus.FieldLogger) *Recovery {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Recovery{
		path:      path,
		debounced: debounce.New(delay),
		log:       log.WithField("path", path),
	}
}

func (r *Recovery) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// Schedule writes a snapshot of the score once no more edits have been
// scheduled for the debounce delay. The snapshot is taken when the write
// happens, so it includes all the edits of the burst.
func (r *Recovery) Schedule(h *ScoreHandle) {
	if r == nil || r.path == "" {
		return
	}
	r.debounced(func() {
		if err := r.Save(h.Snapshot()); err != nil {
			r.log.WithError(err).Warn("could not write recovery file")
		}
	})
}

// Save writes the score to the recovery file immediately.
func (r *Recovery) Save(s *rollseq.Score) error {
	if r == nil || r.path == "" {
		return errors.New("no recovery file path")
	}
	var buf bytes.Buffer
	if err := rollseq.WriteScore(&buf, s); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), os.ModePerm); err != nil {
		return fmt.Errorf("could not create recovery directory: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("could not write recovery file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("could not replace recovery file: %w", err)
	}
	r.log.Debug("wrote recovery file")
	return nil
}

// Load reads the recovery file. The error wraps fs.ErrNotExist if there is
// nothing to recover.
func (r *Recovery) Load() (*rollseq.Score, error) {
	if r == nil || r.path == "" {
		return nil, errors.New("no recovery file path")
	}
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("could not open recovery file: %w", err)
	}
	defer f.Close()
	return rollseq.ReadScore(f)
}

// Remove deletes the recovery file, e.g. after the song has been saved.
func (r *Recovery) Remove() error {
	if r == nil || r.path == "" {
		return nil
	}
	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not remove recovery file: %w", err)
	}
	return nil
}
