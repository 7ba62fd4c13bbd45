package coach

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/misterclayt0n/repcoach/internal/rules"
	"github.com/misterclayt0n/repcoach/internal/safety"
	"github.com/misterclayt0n/repcoach/internal/voice"
)

const (
	NoPoseDetected     = "No pose detected"
	NoModeSelected     = "Select an exercise to continue"
	EmergencyStopAlert = "Emergency stop activated. Exercise halted."

	maxFeedbackLines = 2
	maxAlertLines    = 2
)

// Announcer receives spoken prompts. It must not block; voice.Dispatcher is the usual one.
type Announcer interface {
	Announce(text string)
}

type Options struct {
	User string
	// Announcer may be nil, in which case allowed prompts are only reported in Result.
	Announcer Announcer
	// Cooldown overrides the family's voice cooldown when positive.
	Cooldown time.Duration
	Log      *logrus.Entry
	// Now stamps frames without a timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Session is the coaching state of one user in front of one camera. It is not safe for
// concurrent use; feed it from a single frame loop.
type Session struct {
	ID        string
	User      string
	StartedAt time.Time

	table   *rules.Table
	mode    *rules.Mode
	profile safety.Profile
	phase   string
	tallies map[string]float64

	safetyScore int
	feedback    []string
	alerts      []string

	throttle  *voice.Throttle
	cooldown  time.Duration
	announcer Announcer
	log       *logrus.Entry
	now       func() time.Time

	frames    int
	detected  int
	lastFrame time.Time
	stopped   bool
}

func NewSession(table *rules.Table, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}

	id := uuid.NewString()
	return &Session{
		ID:          id,
		User:        opts.User,
		StartedAt:   opts.Now(),
		table:       table,
		profile:     safety.ProfileFor(rules.General),
		tallies:     make(map[string]float64),
		safetyScore: safety.MaxScore,
		throttle:    voice.NewThrottle(rules.General.VoiceCooldown()),
		cooldown:    opts.Cooldown,
		announcer:   opts.Announcer,
		log:         opts.Log.WithFields(logrus.Fields{"session": id, "user": opts.User}),
		now:         opts.Now,
	}
}

// SelectMode activates a mode. The phase is reset in the same step, so a rep that was in
// progress under the previous mode is dropped. Tallies of other modes are kept.
func (s *Session) SelectMode(id string) error {
	m, err := s.table.Get(id)
	if err != nil {
		return err
	}

	s.mode = m
	s.phase = ""
	s.profile = safety.ProfileFor(m.Family)
	s.feedback = nil
	s.alerts = nil
	s.stopped = false
	if s.cooldown > 0 {
		s.throttle.SetCooldown(s.cooldown)
	} else {
		s.throttle.SetCooldown(m.Family.VoiceCooldown())
	}

	s.log.WithField("mode", m.ID).Info("mode selected")
	return nil
}

// EmergencyStop deactivates the current mode. Frames keep flowing but nothing is counted until
// a mode is selected again. The stop announcement ignores the cooldown and restarts it at now,
// or at the last frame when now is zero. Before the first frame the cooldown is left alone, so
// the frame clock never has to catch up with a foreign timestamp.
func (s *Session) EmergencyStop(now time.Time) {
	if now.IsZero() {
		now = s.lastFrame
	}
	if s.mode != nil {
		s.log.WithField("mode", s.mode.ID).Warn("emergency stop")
	}

	s.mode = nil
	s.phase = ""
	s.feedback = []string{NoModeSelected}
	s.alerts = []string{EmergencyStopAlert}
	s.stopped = true
	if !now.IsZero() {
		s.throttle.Mark(now)
	}
	s.announce(EmergencyStopAlert)
}

// ResetCount zeroes the active mode's tally and forgets the current phase.
func (s *Session) ResetCount() {
	if s.mode == nil {
		return
	}
	delete(s.tallies, s.mode.ID)
	s.phase = ""
	s.log.WithField("mode", s.mode.ID).Info("counter reset")
}

// Mode returns the active mode, or nil after an emergency stop or before the first selection.
func (s *Session) Mode() *rules.Mode { return s.mode }

// Phase returns the last terminal phase, "" while unclassified.
func (s *Session) Phase() string { return s.phase }

// RepCount is the active mode's tally.
func (s *Session) RepCount() float64 {
	if s.mode == nil {
		return 0
	}
	return s.tallies[s.mode.ID]
}

func (s *Session) Tally(modeID string) float64 { return s.tallies[modeID] }

func (s *Session) SafetyScore() int { return s.safetyScore }

func (s *Session) Feedback() []string { return append([]string(nil), s.feedback...) }

func (s *Session) Alerts() []string { return append([]string(nil), s.alerts...) }

// Summary is what gets persisted once the session ends.
type Summary struct {
	ID             string
	User           string
	StartedAt      time.Time
	EndedAt        time.Time
	Frames         int
	DetectedFrames int
	SafetyScore    int
	Tallies        map[string]float64
	LastMode       string
}

func (s *Session) Summary() Summary {
	end := s.lastFrame
	if end.IsZero() {
		end = s.now()
	}
	sum := Summary{
		ID:             s.ID,
		User:           s.User,
		StartedAt:      s.StartedAt,
		EndedAt:        end,
		Frames:         s.frames,
		DetectedFrames: s.detected,
		SafetyScore:    s.safetyScore,
		Tallies:        maps.Clone(s.tallies),
	}
	if s.mode != nil {
		sum.LastMode = s.mode.ID
	}
	return sum
}

func (s *Session) announce(text string) {
	if s.announcer != nil && text != "" {
		s.announcer.Announce(text)
	}
}

func (s *Session) alertPrefix() string {
	if s.profile.Family == rules.Pregnancy {
		return "Pregnancy safety alert: "
	}
	return "Safety alert: "
}

func (s *Session) String() string {
	mode := "none"
	if s.mode != nil {
		mode = s.mode.ID
	}
	return fmt.Sprintf("session %s (user %s, mode %s)", s.ID, s.User, mode)
}
