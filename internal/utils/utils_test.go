package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misterclayt0n/repcoach/internal/models"
	"github.com/misterclayt0n/repcoach/internal/testsupport"
	"github.com/misterclayt0n/repcoach/internal/utils"
)

func TestSessionStateLifecycle(t *testing.T) {
	testsupport.NewConfig(t)

	assert.False(t, utils.SessionExists())
	_, err := utils.LoadSessionState()
	require.ErrorIs(t, err, utils.ErrNoSession)

	state := &models.SessionState{
		SessionID:   "abc",
		Username:    "ana",
		StartTime:   testsupport.Epoch,
		EndTime:     testsupport.At(60),
		SafetyScore: 88,
		Tallies:     map[string]float64{"neck_rotation": 2.5, "squat": 4},
	}
	require.NoError(t, utils.SaveSessionState(state))
	assert.True(t, utils.SessionExists())

	got, err := utils.LoadSessionState()
	require.NoError(t, err)
	assert.Equal(t, "ana", got.Username)
	assert.Equal(t, 88, got.SafetyScore)
	assert.Equal(t, state.Tallies, got.Tallies)
	assert.True(t, state.EndTime.Equal(got.EndTime))

	require.NoError(t, utils.ClearSessionState())
	assert.False(t, utils.SessionExists())
	assert.ErrorIs(t, utils.ClearSessionState(), utils.ErrNoSession)
}

func TestParseDay(t *testing.T) {
	now := time.Date(2025, time.March, 2, 1, 30, 0, 0, time.UTC)
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 01:30 UTC is still the evening before in São Paulo.
	today, err := utils.ParseDay("today", now, loc)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", today.Format(time.DateOnly))

	yesterday, err := utils.ParseDay("yesterday", now, loc)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", yesterday.Format(time.DateOnly))

	day, err := utils.ParseDay("2025-01-15", now, loc)
	require.NoError(t, err)
	assert.Equal(t, loc, day.Location())

	_, err = utils.ParseDay("15/01/2025", now, loc)
	assert.Error(t, err)
}

func TestWeekStreak(t *testing.T) {
	now := testsupport.Epoch
	times := []time.Time{
		now,
		now.AddDate(0, 0, -7),
		now.AddDate(0, 0, -14),
		now.AddDate(0, 0, -35),
	}
	assert.Equal(t, 3, utils.WeekStreak(times, now))
	assert.Equal(t, 0, utils.WeekStreak(times[1:], now))
	assert.Equal(t, 0, utils.WeekStreak(nil, now))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, utils.SortedKeys(map[string]float64{"b": 1, "a": 2}))
	assert.Equal(t, "  hi  ", utils.CenterText("hi", 6))
	assert.Equal(t, "█████", utils.Bar(5, 10, 10))
	assert.Equal(t, "█", utils.Bar(1, 100, 10))
	assert.Equal(t, "", utils.Bar(0, 10, 10))
}
