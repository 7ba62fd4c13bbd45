package safety

import (
	"math"

	"github.com/misterclayt0n/repcoach/internal/pose"
	"github.com/misterclayt0n/repcoach/internal/rules"
)

// MaxScore is where every session's safety score starts.
const MaxScore = 100

type Kind string

const (
	// Nose dropping below the hip centre, in normalized units.
	ForwardLean Kind = "forward_lean"
	// Angle at the nose between straight down and the nose-to-left-hip line, in degrees.
	TorsoTilt Kind = "torso_tilt"
	// Horizontal distance between the ankles.
	WideStance Kind = "wide_stance"
	// Difference between shoulder width and hip width, seen from the front.
	TorsoTwist Kind = "torso_twist"
)

// Rule raises Alert whenever its measurement exceeds Threshold.
type Rule struct {
	Kind      Kind
	Threshold float64
	Penalty   int
	Alert     string
}

func (r Rule) Measure(s *pose.Snapshot) float64 {
	switch r.Kind {
	case ForwardLean:
		return s[pose.Nose].Y - s.Center(pose.LeftHip, pose.RightHip).Y
	case TorsoTilt:
		nose := s.Point(pose.Nose)
		below := pose.Point{X: nose.X, Y: nose.Y + 0.1}
		return pose.Angle(below, nose, s.Point(pose.LeftHip))
	case WideStance:
		return math.Abs(s[pose.LeftAnkle].X - s[pose.RightAnkle].X)
	case TorsoTwist:
		shoulders := s[pose.LeftShoulder].X - s[pose.RightShoulder].X
		hips := s[pose.LeftHip].X - s[pose.RightHip].X
		return math.Abs(shoulders - hips)
	}
	return 0
}

func (r Rule) Violated(s *pose.Snapshot) bool {
	return r.Measure(s) > r.Threshold
}

// Profile is the set of safety rules for one family. Unscored profiles only raise alerts.
type Profile struct {
	Family rules.Family
	Rules  []Rule
	Scored bool
}

// ProfileFor returns the built-in profile of a family. Yoga poses routinely exceed the general
// posture limits, so that family carries no rules.
func ProfileFor(f rules.Family) Profile {
	switch f {
	case rules.Senior:
		return Profile{Family: f, Scored: true, Rules: []Rule{
			{Kind: TorsoTilt, Threshold: 45, Penalty: 5, Alert: "Avoid bending too far forward"},
			{Kind: WideStance, Threshold: 0.2, Penalty: 3, Alert: "Widen stance for better balance"},
		}}
	case rules.Pregnancy:
		return Profile{Family: f, Scored: true, Rules: []Rule{
			{Kind: ForwardLean, Threshold: 0.15, Penalty: 5, Alert: "Avoid excessive forward bending"},
			{Kind: WideStance, Threshold: 0.25, Penalty: 3, Alert: "Widen stance for better balance"},
			{Kind: TorsoTwist, Threshold: 0.1, Penalty: 7, Alert: "Avoid twisting motions - keep torso stable"},
		}}
	case rules.Yoga:
		return Profile{Family: f}
	default:
		return Profile{Family: rules.General, Rules: []Rule{
			{Kind: ForwardLean, Threshold: 0.15, Alert: "Avoid excessive forward bending"},
			{Kind: WideStance, Threshold: 0.25, Alert: "Widen stance for better balance"},
			{Kind: TorsoTwist, Threshold: 0.1, Alert: "Keep your torso square"},
		}}
	}
}

// Assessment is the read-only verdict on a single frame.
type Assessment struct {
	Confidence float64
	Alerts     []string
	Penalty    int
}

// Evaluate runs every rule of the profile. Penalties are only reported by scored profiles.
func (p Profile) Evaluate(s *pose.Snapshot) Assessment {
	a := Assessment{Confidence: Confidence(s)}
	for _, r := range p.Rules {
		if !r.Violated(s) {
			continue
		}
		a.Alerts = append(a.Alerts, r.Alert)
		if p.Scored {
			a.Penalty += r.Penalty
		}
	}
	return a
}

// Confidence is the mean landmark visibility as a percentage. It never gates counting.
func Confidence(s *pose.Snapshot) float64 {
	return s.MeanVisibility() * 100
}

// Deduct lowers score by penalty without going below zero.
func Deduct(score, penalty int) int {
	if penalty <= 0 {
		return score
	}
	return max(0, score-penalty)
}
