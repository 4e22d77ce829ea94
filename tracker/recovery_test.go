package tracker_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rollseq/rollseq"
	"github.com/rollseq/rollseq/tracker"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverySaveLoad(t *testing.T) {
	log, _ := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "nested", tracker.RecoveryFileName)
	r := tracker.NewRecovery(path, 10*time.Millisecond, log)
	_, err := r.Load()
	assert.ErrorIs(t, err, fs.ErrNotExist)

	s := rollseq.NewScore(100)
	s.InsertOrRemove(c4, 0, 8)
	require.NoError(t, r.Save(s))
	got, err := r.Load()
	require.NoError(t, err)
	assert.True(t, got.Equal(s))

	require.NoError(t, r.Remove())
	require.NoError(t, r.Remove(), "removing twice is fine")
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRecoveryNil(t *testing.T) {
	var r *tracker.Recovery
	r.Schedule(tracker.NewScoreHandle(nil))
	assert.NoError(t, r.Remove())
	assert.Error(t, r.Save(rollseq.NewScore(120)))
	assert.Equal(t, "", r.Path())
}

func TestModelRecovery(t *testing.T) {
	log, _ := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), tracker.RecoveryFileName)
	newModel := func() *tracker.Model {
		h := tracker.NewScoreHandle(nil)
		p := tracker.NewPlayer(nil, h, nil, 48000)
		return tracker.NewModel(h, p, nil, tracker.ModelOptions{
			Log:      log,
			Recovery: tracker.NewRecovery(path, 10*time.Millisecond, log),
		})
	}
	m := newModel()
	m.Do(tracker.ToggleNote)
	m.Do(tracker.CursorRight)
	m.Do(tracker.ToggleNote)
	require.Eventually(t, func() bool {
		s, err := tracker.NewRecovery(path, 0, log).Load()
		return err == nil && s.Len() == 2
	}, 2*time.Second, 10*time.Millisecond)

	restored := newModel()
	assert.False(t, newModel().ChangedSinceSave())
	require.True(t, restored.Recover())
	assert.Equal(t, 2, restored.Score().Snapshot().Len())
	assert.True(t, restored.ChangedSinceSave())
}
