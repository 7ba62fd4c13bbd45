package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/misterclayt0n/repcoach/internal/models"
)

// SaveSession stores a finished coaching run and one progress row per exercise that reached at
// least one whole rep. Half reps are dropped here: tallies are truncated toward zero.
func (s *Storage) SaveSession(ctx context.Context, state *models.SessionState) (*models.CoachSession, error) {
	if state.SessionID == "" {
		return nil, errors.New("session has no id")
	}
	if state.Username == "" {
		return nil, errors.New("session has no user")
	}

	end := state.EndTime
	if end.IsZero() {
		end = time.Now()
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO coach_sessions
		(id, username, source, started_at, ended_at, frames, detected_frames, safety_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		state.SessionID,
		state.Username,
		state.Source,
		formatTime(state.StartTime),
		formatTime(end),
		state.Frames,
		state.DetectedFrames,
		state.SafetyScore,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create coach session: %w", err)
	}

	saved := &models.CoachSession{
		ID:             state.SessionID,
		Username:       state.Username,
		StartedAt:      state.StartTime.UTC().Truncate(time.Second),
		EndedAt:        ptr(end.UTC().Truncate(time.Second)),
		Frames:         state.Frames,
		DetectedFrames: state.DetectedFrames,
		SafetyScore:    state.SafetyScore,
	}

	exercises := make([]string, 0, len(state.Tallies))
	for ex := range state.Tallies {
		exercises = append(exercises, ex)
	}
	sort.Strings(exercises)

	for _, ex := range exercises {
		reps := int(state.Tallies[ex])
		if reps <= 0 {
			continue
		}
		p := models.Progress{
			ID:        uuid.New().String(),
			SessionID: state.SessionID,
			Username:  state.Username,
			Exercise:  ex,
			Reps:      reps,
			Date:      end.UTC().Truncate(time.Second),
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_progress (id, session_id, username, exercise, reps, date)
			VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.SessionID, p.Username, p.Exercise, p.Reps, formatTime(p.Date),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to save progress for %s: %w", ex, err)
		}
		saved.Progress = append(saved.Progress, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit session: %w", err)
	}
	return saved, nil
}

// GetSessionByID returns a coach session with its progress rows.
func (s *Storage) GetSessionByID(ctx context.Context, sessionID string) (*models.CoachSession, error) {
	row := s.DB.QueryRowContext(ctx, `
        SELECT id, username, started_at, ended_at, frames, detected_frames, safety_score
        FROM coach_sessions
        WHERE id = ?`, sessionID)

	cs, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, err
	}

	progress, err := s.progressForSessions(ctx, []string{cs.ID})
	if err != nil {
		return nil, err
	}
	cs.Progress = progress[cs.ID]
	return cs, nil
}

// SessionFilter narrows ListSessions. Zero fields match everything.
type SessionFilter struct {
	Username string
	Exercise string
	// Day selects sessions started on that calendar day in Day's location.
	Day   time.Time
	Limit int
}

// ListSessions returns matching sessions, newest first.
func (s *Storage) ListSessions(ctx context.Context, f SessionFilter) ([]models.CoachSession, error) {
	query := `SELECT cs.id, cs.username, cs.started_at, cs.ended_at, cs.frames, cs.detected_frames, cs.safety_score
        FROM coach_sessions cs
        WHERE 1 = 1`
	var args []any

	if f.Username != "" {
		query += " AND cs.username = ?"
		args = append(args, f.Username)
	}
	if f.Exercise != "" {
		query += " AND EXISTS (SELECT 1 FROM user_progress up WHERE up.session_id = cs.id AND up.exercise = ?)"
		args = append(args, f.Exercise)
	}
	if !f.Day.IsZero() {
		start := time.Date(f.Day.Year(), f.Day.Month(), f.Day.Day(), 0, 0, 0, 0, f.Day.Location())
		query += " AND cs.started_at >= ? AND cs.started_at < ?"
		args = append(args, formatTime(start), formatTime(start.AddDate(0, 0, 1)))
	}
	query += " ORDER BY cs.started_at DESC, cs.id ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var (
		sessions []models.CoachSession
		ids      []string
	)
	for rows.Next() {
		cs, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *cs)
		ids = append(ids, cs.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	progress, err := s.progressForSessions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		sessions[i].Progress = progress[sessions[i].ID]
	}
	return sessions, nil
}

// DeleteSession removes a session and, through the cascade, its progress rows.
func (s *Storage) DeleteSession(ctx context.Context, sessionID string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Explicit delete as well, the remote driver does not always honour the cascade.
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_progress WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM coach_sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return tx.Commit()
}

func (s *Storage) progressForSessions(ctx context.Context, ids []string) (map[string][]models.Progress, error) {
	out := make(map[string][]models.Progress, len(ids))
	for _, id := range ids {
		rows, err := s.DB.QueryContext(ctx, `
            SELECT id, session_id, username, exercise, reps, date
            FROM user_progress
            WHERE session_id = ?
            ORDER BY exercise ASC`, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load progress: %w", err)
		}
		for rows.Next() {
			var (
				p       models.Progress
				rawDate string
			)
			if err := rows.Scan(&p.ID, &p.SessionID, &p.Username, &p.Exercise, &p.Reps, &rawDate); err != nil {
				rows.Close()
				return nil, err
			}
			p.Date = parseTime(rawDate)
			out[id] = append(out[id], p)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*models.CoachSession, error) {
	var (
		cs        models.CoachSession
		startedAt string
		endedAt   sql.NullString // Use NullString to handle NULL.
	)
	if err := row.Scan(&cs.ID, &cs.Username, &startedAt, &endedAt, &cs.Frames, &cs.DetectedFrames, &cs.SafetyScore); err != nil {
		return nil, err
	}
	cs.StartedAt = parseTime(startedAt)
	if endedAt.Valid {
		cs.EndedAt = ptr(parseTime(endedAt.String))
	}
	return &cs, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func ptr[T any](v T) *T {
	return &v
}
