package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/misterclayt0n/repcoach/internal/models"
)

// Leaderboard ranks users by their total saved reps over every exercise.
func (s *Storage) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.DB.QueryContext(ctx, `
        SELECT username, SUM(reps) AS total_reps, COUNT(DISTINCT session_id)
        FROM user_progress
        GROUP BY username
        ORDER BY total_reps DESC, username ASC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []models.LeaderboardEntry
	for rows.Next() {
		e := models.LeaderboardEntry{Rank: len(out) + 1}
		if err := rows.Scan(&e.Username, &e.TotalReps, &e.Sessions); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UserProgress returns per-exercise totals for one user, largest first.
func (s *Storage) UserProgress(ctx context.Context, username string) ([]models.ExerciseTotal, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT exercise, SUM(reps) AS total_reps, COUNT(DISTINCT session_id), MAX(reps), MAX(date)
        FROM user_progress
        WHERE username = ?
        GROUP BY exercise
        ORDER BY total_reps DESC, exercise ASC`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer rows.Close()

	var out []models.ExerciseTotal
	for rows.Next() {
		var (
			e       models.ExerciseTotal
			rawDate string
		)
		if err := rows.Scan(&e.Exercise, &e.TotalReps, &e.Sessions, &e.BestReps, &rawDate); err != nil {
			return nil, err
		}
		e.LastDate = parseTime(rawDate)
		out = append(out, e)
	}
	return out, rows.Err()
}

// UserStats summarizes a user's history. Active days are counted in loc.
func (s *Storage) UserStats(ctx context.Context, username string, loc *time.Location) (*models.UserStats, error) {
	totals, err := s.UserProgress(ctx, username)
	if err != nil {
		return nil, err
	}

	stats := &models.UserStats{Username: username}
	for i, t := range totals {
		stats.TotalReps += t.TotalReps
		if i == 0 {
			stats.BestExercise = t.Exercise
		}
	}

	if err := s.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM coach_sessions WHERE username = ?", username,
	).Scan(&stats.Sessions); err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	dates, err := s.progressDates(ctx, username, time.Time{})
	if err != nil {
		return nil, err
	}
	days := make(map[string]bool)
	for _, d := range dates {
		days[d.date.In(loc).Format(time.DateOnly)] = true
	}
	stats.ActiveDays = len(days)
	return stats, nil
}

// DailyReps returns one bucket per calendar day in loc, oldest first, for the given number of
// days up to and including now. Days without reps are present with zero.
func (s *Storage) DailyReps(ctx context.Context, username string, days int, now time.Time, loc *time.Location) ([]models.DailyReps, error) {
	if days <= 0 {
		return nil, nil
	}
	local := now.In(loc)
	first := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -(days - 1))

	dates, err := s.progressDates(ctx, username, first)
	if err != nil {
		return nil, err
	}

	out := make([]models.DailyReps, days)
	index := make(map[string]int, days)
	for i := range out {
		day := first.AddDate(0, 0, i)
		out[i].Day = day
		index[day.Format(time.DateOnly)] = i
	}
	for _, d := range dates {
		if i, ok := index[d.date.In(loc).Format(time.DateOnly)]; ok {
			out[i].Reps += d.reps
		}
	}
	return out, nil
}

type datedReps struct {
	date time.Time
	reps int
}

func (s *Storage) progressDates(ctx context.Context, username string, since time.Time) ([]datedReps, error) {
	query := "SELECT date, reps FROM user_progress WHERE username = ?"
	args := []any{username}
	if !since.IsZero() {
		query += " AND date >= ?"
		args = append(args, formatTime(since))
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress dates: %w", err)
	}
	defer rows.Close()

	var out []datedReps
	for rows.Next() {
		var (
			raw string
			d   datedReps
		)
		if err := rows.Scan(&raw, &d.reps); err != nil {
			return nil, err
		}
		d.date = parseTime(raw)
		out = append(out, d)
	}
	return out, rows.Err()
}
