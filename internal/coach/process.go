package coach

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/misterclayt0n/repcoach/internal/pose"
	"github.com/misterclayt0n/repcoach/internal/rules"
	"github.com/misterclayt0n/repcoach/internal/safety"
)

// Result describes what one frame did to the session.
type Result struct {
	Time     time.Time
	Detected bool
	// Counted is set on the frame that completed a rep.
	Counted     bool
	Phase       string
	Reps        float64
	Reading     rules.Reading
	Confidence  float64
	FormScore   float64
	SafetyScore int
	Feedback    []string
	Alerts      []string
	// Announced is the prompt handed to the announcer on this frame, if any.
	Announced string
	Overlay   []string
}

// Process runs one frame through the counter and the safety evaluator. A frame without
// landmarks changes nothing.
func (s *Session) Process(f pose.Frame) Result {
	now := f.Time
	if now.IsZero() {
		now = s.now()
	}
	if s.frames == 0 {
		// The session spans the recording, not the moment it was replayed.
		s.StartedAt = now
	}
	s.frames++
	s.lastFrame = now

	if !f.Detected() {
		res := s.result(now)
		res.Overlay = s.overlay(res, []string{NoPoseDetected}, nil)
		return res
	}
	s.detected++
	snap := f.Landmarks

	if s.mode == nil {
		return s.idle(now, snap)
	}
	m := s.mode

	reading := m.Metric.Measure(snap)
	class := m.Classify(reading)

	var (
		counted bool
		lines   []string
		rep     string
		cue     string
	)
	switch class {
	case rules.InTarget:
		if s.phase == m.Start.Name {
			s.tallies[m.ID] += m.Increment
			counted = true
			rep = m.RepMessage(s.tallies[m.ID])
			lines = append(lines, rep)
			s.log.WithFields(logrus.Fields{"mode": m.ID, "reps": s.tallies[m.ID]}).Debug("rep counted")
		} else {
			lines = append(lines, m.Feedback.Target)
		}
		s.phase = m.Target.Name
	case rules.InStart:
		if s.phase != m.Start.Name {
			cue = m.Feedback.Cue
		}
		s.phase = m.Start.Name
		lines = append(lines, m.Feedback.Start)
	default:
		lines = append(lines, m.Correction(reading, s.phase))
	}

	passed := 0
	if class != rules.InBetween {
		passed++
	}
	for _, c := range m.Checks {
		if c.Passes(snap) {
			passed++
			continue
		}
		lines = append(lines, c.Feedback)
	}

	assessment := s.profile.Evaluate(snap)
	if assessment.Penalty > 0 {
		before := s.safetyScore
		s.safetyScore = safety.Deduct(s.safetyScore, assessment.Penalty)
		if s.safetyScore != before {
			s.log.WithFields(logrus.Fields{"mode": m.ID, "safety_score": s.safetyScore}).Debug("safety penalty")
		}
	}
	s.feedback = compact(lines)
	s.alerts = assessment.Alerts

	// One prompt per frame: a finished rep beats a safety alert, which beats a cue.
	var speak string
	switch {
	case rep != "":
		speak = rep
	case len(assessment.Alerts) > 0:
		speak = s.alertPrefix() + assessment.Alerts[0]
	default:
		speak = cue
	}
	res := s.result(now)
	if speak != "" && s.throttle.Allow(now) {
		s.announce(speak)
		res.Announced = speak
	}

	res.Detected = true
	res.Counted = counted
	res.Reading = reading
	res.Confidence = assessment.Confidence
	res.FormScore = float64(passed) / float64(1+len(m.Checks)) * 100
	res.Overlay = s.overlay(res, s.feedback, s.alerts)
	return res
}

// idle handles a detected pose while no mode is active. Safety rules still run and their alerts
// are shown and spoken, but nothing is counted or scored.
func (s *Session) idle(now time.Time, snap *pose.Snapshot) Result {
	assessment := s.profile.Evaluate(snap)
	s.alerts = assessment.Alerts
	if s.stopped {
		s.alerts = append([]string{EmergencyStopAlert}, assessment.Alerts...)
	}

	res := s.result(now)
	res.Detected = true
	res.Confidence = assessment.Confidence
	if len(assessment.Alerts) > 0 && s.throttle.Allow(now) {
		speak := s.alertPrefix() + assessment.Alerts[0]
		s.announce(speak)
		res.Announced = speak
	}

	feedback := s.feedback
	if len(feedback) == 0 {
		feedback = []string{NoModeSelected}
	}
	res.Overlay = s.overlay(res, feedback, s.alerts)
	return res
}

func (s *Session) result(now time.Time) Result {
	return Result{
		Time:        now,
		Phase:       s.phase,
		Reps:        s.RepCount(),
		SafetyScore: s.safetyScore,
		Feedback:    s.Feedback(),
		Alerts:      s.Alerts(),
	}
}

// overlay renders the text lines drawn over the video: mode, reps, confidence, safety score for
// scored families, then at most two feedback and two alert lines.
func (s *Session) overlay(res Result, feedback, alerts []string) []string {
	var out []string
	if s.mode != nil {
		out = append(out, s.mode.Name, "Reps: "+rules.FormatReps(res.Reps))
	}
	if res.Detected {
		out = append(out, fmt.Sprintf("Confidence: %.0f%%", res.Confidence))
	}
	if s.mode != nil && s.profile.Scored {
		out = append(out, fmt.Sprintf("Safety: %d/100", res.SafetyScore))
	}
	out = append(out, head(feedback, maxFeedbackLines)...)
	for _, a := range head(alerts, maxAlertLines) {
		out = append(out, "! "+a)
	}
	return out
}

func head(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}

func compact(lines []string) []string {
	out := lines[:0]
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
