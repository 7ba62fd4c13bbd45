package testsupport

import (
	"math"
	"time"

	"github.com/misterclayt0n/repcoach/internal/pose"
)

// Standing returns a fully visible, upright front-facing body with arms hanging and feet under
// the hips. It trips none of the built-in safety rules.
func Standing() pose.Snapshot {
	var s pose.Snapshot
	set := func(id pose.LandmarkID, x, y float64) {
		s[id] = pose.Landmark{X: x, Y: y, Visibility: 1}
	}

	set(pose.Nose, 0.50, 0.15)
	for _, id := range []pose.LandmarkID{pose.LeftEyeInner, pose.LeftEye, pose.LeftEyeOuter, pose.LeftEar, pose.MouthLeft} {
		set(id, 0.48, 0.14)
	}
	for _, id := range []pose.LandmarkID{pose.RightEyeInner, pose.RightEye, pose.RightEyeOuter, pose.RightEar, pose.MouthRight} {
		set(id, 0.52, 0.14)
	}

	set(pose.LeftShoulder, 0.45, 0.30)
	set(pose.RightShoulder, 0.55, 0.30)
	set(pose.LeftElbow, 0.43, 0.45)
	set(pose.RightElbow, 0.57, 0.45)
	set(pose.LeftWrist, 0.43, 0.60)
	set(pose.RightWrist, 0.57, 0.60)
	for _, id := range []pose.LandmarkID{pose.LeftPinky, pose.LeftIndex, pose.LeftThumb} {
		set(id, 0.43, 0.63)
	}
	for _, id := range []pose.LandmarkID{pose.RightPinky, pose.RightIndex, pose.RightThumb} {
		set(id, 0.57, 0.63)
	}

	set(pose.LeftHip, 0.47, 0.55)
	set(pose.RightHip, 0.53, 0.55)
	set(pose.LeftKnee, 0.47, 0.72)
	set(pose.RightKnee, 0.53, 0.72)
	set(pose.LeftAnkle, 0.47, 0.90)
	set(pose.RightAnkle, 0.53, 0.90)
	set(pose.LeftHeel, 0.47, 0.92)
	set(pose.RightHeel, 0.53, 0.92)
	set(pose.LeftFootIndex, 0.46, 0.93)
	set(pose.RightFootIndex, 0.54, 0.93)

	return s
}

// WithAngle moves the end point c so that the angle a-b-c equals deg. a and b stay put and the
// b-c segment keeps its length.
func WithAngle(s pose.Snapshot, a, b, c pose.LandmarkID, deg float64) pose.Snapshot {
	ax, ay := s[a].X-s[b].X, s[a].Y-s[b].Y
	norm := math.Hypot(ax, ay)
	length := math.Hypot(s[c].X-s[b].X, s[c].Y-s[b].Y)
	if length == 0 {
		length = 0.15
	}
	ux, uy := ax/norm, ay/norm

	theta := deg * math.Pi / 180
	rx := ux*math.Cos(theta) - uy*math.Sin(theta)
	ry := ux*math.Sin(theta) + uy*math.Cos(theta)

	s[c].X = s[b].X + rx*length
	s[c].Y = s[b].Y + ry*length
	return s
}

// With places a single landmark.
func With(s pose.Snapshot, id pose.LandmarkID, x, y float64) pose.Snapshot {
	s[id].X = x
	s[id].Y = y
	return s
}

// WithVisibility sets the same visibility on every landmark.
func WithVisibility(s pose.Snapshot, v float64) pose.Snapshot {
	for i := range s {
		s[i].Visibility = v
	}
	return s
}

// Frame wraps a snapshot for the given instant.
func Frame(at time.Time, s pose.Snapshot) pose.Frame {
	snap := s
	return pose.Frame{Time: at, Landmarks: &snap}
}

// Empty is a frame where the model detected nobody.
func Empty(at time.Time) pose.Frame {
	return pose.Frame{Time: at}
}

// Epoch is a fixed base time for deterministic frame sequences.
var Epoch = time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

// At returns Epoch shifted by the given number of seconds.
func At(seconds float64) time.Time {
	return Epoch.Add(time.Duration(seconds * float64(time.Second)))
}
