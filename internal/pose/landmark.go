package pose

import (
	"fmt"
	"strings"
	"time"
)

// LandmarkID indexes the 33 body points produced by MediaPipe Pose.
type LandmarkID int

const (
	Nose LandmarkID = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex
	NumLandmarks
)

var landmarkNames = [NumLandmarks]string{
	"NOSE", "LEFT_EYE_INNER", "LEFT_EYE", "LEFT_EYE_OUTER", "RIGHT_EYE_INNER", "RIGHT_EYE",
	"RIGHT_EYE_OUTER", "LEFT_EAR", "RIGHT_EAR", "MOUTH_LEFT", "MOUTH_RIGHT",
	"LEFT_SHOULDER", "RIGHT_SHOULDER", "LEFT_ELBOW", "RIGHT_ELBOW", "LEFT_WRIST", "RIGHT_WRIST",
	"LEFT_PINKY", "RIGHT_PINKY", "LEFT_INDEX", "RIGHT_INDEX", "LEFT_THUMB", "RIGHT_THUMB",
	"LEFT_HIP", "RIGHT_HIP", "LEFT_KNEE", "RIGHT_KNEE", "LEFT_ANKLE", "RIGHT_ANKLE",
	"LEFT_HEEL", "RIGHT_HEEL", "LEFT_FOOT_INDEX", "RIGHT_FOOT_INDEX",
}

func (id LandmarkID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("LANDMARK(%d)", int(id))
	}
	return landmarkNames[id]
}

func (id LandmarkID) Valid() bool {
	return id >= 0 && id < NumLandmarks
}

// ParseLandmark accepts the MediaPipe enum names, case insensitive ("left_knee", "LEFT_KNEE").
func ParseLandmark(name string) (LandmarkID, error) {
	want := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range landmarkNames {
		if n == want {
			return LandmarkID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown landmark %q", name)
}

// Landmark is one normalized body point. X and Y are relative to the frame (0..1, y grows
// downwards), Visibility is the model's confidence that the point is in view.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

func (l Landmark) Point() Point {
	return Point{X: l.X, Y: l.Y}
}

// Snapshot holds every landmark of a single frame. It is never mutated once built.
type Snapshot [NumLandmarks]Landmark

func (s *Snapshot) Point(id LandmarkID) Point {
	return s[id].Point()
}

// Center returns the centroid of the given landmarks.
func (s *Snapshot) Center(ids ...LandmarkID) Point {
	if len(ids) == 0 {
		return Point{}
	}
	var c Point
	for _, id := range ids {
		c.X += s[id].X
		c.Y += s[id].Y
	}
	n := float64(len(ids))
	return Point{X: c.X / n, Y: c.Y / n}
}

// MeanVisibility is the average visibility over all landmarks, in 0..1.
func (s *Snapshot) MeanVisibility() float64 {
	var sum float64
	for _, l := range s {
		sum += l.Visibility
	}
	return sum / float64(NumLandmarks)
}

// Frame is what the pose source hands over once per video frame. A nil Landmarks means the
// model did not detect a body.
type Frame struct {
	Time      time.Time
	Landmarks *Snapshot
}

func (f Frame) Detected() bool {
	return f.Landmarks != nil
}
