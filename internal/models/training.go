package models

import "time"

// CoachSession is one recorded coaching run as stored in coach_sessions.
type CoachSession struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	Frames         int        `json:"frames"`
	DetectedFrames int        `json:"detected_frames"`
	SafetyScore    int        `json:"safety_score"`
	Progress       []Progress `json:"progress"`
}

// Progress is one row of user_progress: whole reps of one exercise in one session.
type Progress struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Username  string    `json:"username"`
	Exercise  string    `json:"exercise"`
	Reps      int       `json:"reps"`
	Date      time.Time `json:"date"`
}

type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Username  string `json:"username"`
	TotalReps int    `json:"total_reps"`
	Sessions  int    `json:"sessions"`
}

type ExerciseTotal struct {
	Exercise  string    `json:"exercise"`
	TotalReps int       `json:"total_reps"`
	Sessions  int       `json:"sessions"`
	BestReps  int       `json:"best_reps"`
	LastDate  time.Time `json:"last_date"`
}

type UserStats struct {
	Username     string `json:"username"`
	TotalReps    int    `json:"total_reps"`
	Sessions     int    `json:"sessions"`
	ActiveDays   int    `json:"active_days"`
	BestExercise string `json:"best_exercise"`
	WeekStreak   int    `json:"week_streak"`
}

type DailyReps struct {
	Day  time.Time `json:"day"`
	Reps int       `json:"reps"`
}

// SessionState is a finished coaching run waiting to be saved or discarded.
type SessionState struct {
	SessionID      string             `toml:"session_id"`
	Username       string             `toml:"username"`
	Source         string             `toml:"source"`
	StartTime      time.Time          `toml:"start_time"`
	EndTime        time.Time          `toml:"end_time"`
	Frames         int                `toml:"frames"`
	DetectedFrames int                `toml:"detected_frames"`
	SafetyScore    int                `toml:"safety_score"`
	Tallies        map[string]float64 `toml:"tallies"`
	LastMode       string             `toml:"last_mode,omitempty"`
}
