package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misterclayt0n/repcoach/internal/storage"
	"github.com/misterclayt0n/repcoach/internal/testsupport"
)

func TestSaveSessionTruncatesHalfReps(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewStore(t)

	state := testsupport.NewState("s1", "ana",
		testsupport.WithTally("neck_rotation", 3.5),
		testsupport.WithTally("squat", 12),
		testsupport.WithTally("arm_circle", 0.5),
	)
	saved, err := st.SaveSession(ctx, state)
	require.NoError(t, err)
	require.Len(t, saved.Progress, 2)

	got, err := st.GetSessionByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "ana", got.Username)
	assert.Equal(t, 290, got.DetectedFrames)
	assert.Equal(t, testsupport.Epoch, *got.EndedAt)

	reps := map[string]int{}
	for _, p := range got.Progress {
		reps[p.Exercise] = p.Reps
	}
	assert.Equal(t, map[string]int{"neck_rotation": 3, "squat": 12}, reps)
}

func TestSaveSessionRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewStore(t)

	_, err := st.SaveSession(ctx, testsupport.NewState("s1", "ana", testsupport.WithTally("squat", 1)))
	require.NoError(t, err)
	_, err = st.SaveSession(ctx, testsupport.NewState("s1", "ana", testsupport.WithTally("squat", 1)))
	require.Error(t, err)

	board, err := st.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, 1, board[0].TotalReps)
}

func TestGetUnknownSession(t *testing.T) {
	st := testsupport.NewStore(t)
	_, err := st.GetSessionByID(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	assert.ErrorIs(t, st.DeleteSession(context.Background(), "nope"), storage.ErrSessionNotFound)
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewStore(t)

	for _, s := range []struct {
		id, user string
		reps     float64
	}{
		{"a1", "ana", 10},
		{"a2", "ana", 5},
		{"b1", "bruno", 20},
		{"c1", "carla", 1},
	} {
		_, err := st.SaveSession(ctx, testsupport.NewState(s.id, s.user, testsupport.WithTally("squat", s.reps)))
		require.NoError(t, err)
	}

	board, err := st.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "bruno", board[0].Username)
	assert.Equal(t, 20, board[0].TotalReps)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, "ana", board[1].Username)
	assert.Equal(t, 15, board[1].TotalReps)
	assert.Equal(t, 2, board[1].Sessions)
}

func TestUserProgressAndStats(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewStore(t)

	day1 := testsupport.Epoch
	day2 := testsupport.Epoch.AddDate(0, 0, 1)
	_, err := st.SaveSession(ctx, testsupport.NewState("s1", "ana", testsupport.EndingAt(day1),
		testsupport.WithTally("squat", 8), testsupport.WithTally("bicep_curl", 3)))
	require.NoError(t, err)
	_, err = st.SaveSession(ctx, testsupport.NewState("s2", "ana", testsupport.EndingAt(day2),
		testsupport.WithTally("squat", 12)))
	require.NoError(t, err)

	totals, err := st.UserProgress(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "squat", totals[0].Exercise)
	assert.Equal(t, 20, totals[0].TotalReps)
	assert.Equal(t, 2, totals[0].Sessions)
	assert.Equal(t, 12, totals[0].BestReps)
	assert.Equal(t, day2, totals[0].LastDate)

	stats, err := st.UserStats(ctx, "ana", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 23, stats.TotalReps)
	assert.Equal(t, 2, stats.Sessions)
	assert.Equal(t, 2, stats.ActiveDays)
	assert.Equal(t, "squat", stats.BestExercise)

	daily, err := st.DailyReps(ctx, "ana", 3, day2, time.UTC)
	require.NoError(t, err)
	require.Len(t, daily, 3)
	assert.Equal(t, []int{0, 11, 12}, []int{daily[0].Reps, daily[1].Reps, daily[2].Reps})
	assert.Equal(t, "2025-03-02", daily[2].Day.Format(time.DateOnly))
}

func TestListSessionsFilters(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewStore(t)

	day1 := testsupport.Epoch
	day2 := testsupport.Epoch.AddDate(0, 0, 1)
	for _, s := range []struct {
		id, user, mode string
		end            time.Time
	}{
		{"s1", "ana", "squat", day1},
		{"s2", "ana", "push_up", day2},
		{"s3", "bruno", "squat", day2},
	} {
		_, err := st.SaveSession(ctx, testsupport.NewState(s.id, s.user, testsupport.EndingAt(s.end), testsupport.WithTally(s.mode, 4)))
		require.NoError(t, err)
	}

	ids := func(f storage.SessionFilter) []string {
		sessions, err := st.ListSessions(ctx, f)
		require.NoError(t, err)
		var out []string
		for _, s := range sessions {
			out = append(out, s.ID)
		}
		return out
	}

	assert.Equal(t, []string{"s2", "s3", "s1"}, ids(storage.SessionFilter{}))
	assert.Equal(t, []string{"s2", "s1"}, ids(storage.SessionFilter{Username: "ana"}))
	assert.ElementsMatch(t, []string{"s1", "s3"}, ids(storage.SessionFilter{Exercise: "squat"}))
	assert.ElementsMatch(t, []string{"s2", "s3"}, ids(storage.SessionFilter{Day: day2}))
	assert.Equal(t, []string{"s2"}, ids(storage.SessionFilter{Limit: 1}))
}

func TestDeleteSessionRemovesProgress(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewStore(t)

	_, err := st.SaveSession(ctx, testsupport.NewState("s1", "ana", testsupport.WithTally("squat", 4)))
	require.NoError(t, err)
	require.NoError(t, st.DeleteSession(ctx, "s1"))

	board, err := st.Leaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, board)
}

func TestExportImportTOML(t *testing.T) {
	ctx := context.Background()
	src := testsupport.NewStore(t)

	_, err := src.SaveSession(ctx, testsupport.NewState("s1", "ana", testsupport.WithTally("squat", 7)))
	require.NoError(t, err)

	dump := filepath.Join(t.TempDir(), "dump.toml")
	require.NoError(t, src.ExportTOML(ctx, dump))

	data, err := os.ReadFile(dump)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[[coach_sessions]]")
	assert.Contains(t, string(data), "[[user_progress]]")

	dst := testsupport.NewStore(t)
	_, err = dst.SaveSession(ctx, testsupport.NewState("old", "zed", testsupport.WithTally("squat", 99)))
	require.NoError(t, err)
	require.NoError(t, dst.ImportTOML(ctx, dump))

	board, err := dst.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "ana", board[0].Username)
	assert.Equal(t, 7, board[0].TotalReps)

	got, err := dst.GetSessionByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 100, got.SafetyScore)
}

func TestImportRejectsUnknownTables(t *testing.T) {
	st := testsupport.NewStore(t)
	dump := filepath.Join(t.TempDir(), "dump.toml")
	require.NoError(t, os.WriteFile(dump, []byte("[[users]]\nname = \"x\"\n"), 0o644))

	err := st.ImportTOML(context.Background(), dump)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown table "users"`)
}
