package testsupport

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/misterclayt0n/repcoach/internal/models"
	"github.com/misterclayt0n/repcoach/internal/storage"
)

// NewStore opens a fresh SQLite database in the test's temp dir and closes it on cleanup.
func NewStore(t testing.TB) *storage.Storage {
	t.Helper()
	st, err := storage.NewStorage("file:"+filepath.Join(t.TempDir(), "repcoach.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// StateOption tweaks a pending session built by NewState.
type StateOption func(*models.SessionState)

func WithTally(mode string, reps float64) StateOption {
	return func(s *models.SessionState) { s.Tallies[mode] = reps }
}

func EndingAt(end time.Time) StateOption {
	return func(s *models.SessionState) {
		s.StartTime = end.Add(-10 * time.Minute)
		s.EndTime = end
	}
}

// NewState returns a finished session for user that ended at Epoch.
func NewState(id, user string, opts ...StateOption) *models.SessionState {
	s := &models.SessionState{
		SessionID:      id,
		Username:       user,
		Source:         "test.jsonl",
		StartTime:      Epoch.Add(-10 * time.Minute),
		EndTime:        Epoch,
		Frames:         300,
		DetectedFrames: 290,
		SafetyScore:    100,
		Tallies:        map[string]float64{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
