package rules

import (
	"errors"
	"fmt"
	"math"

	"github.com/misterclayt0n/repcoach/internal/pose"
)

type MetricKind string

const (
	// Interior angle per joint triple, in degrees.
	MetricAngle MetricKind = "angle"
	// |Δy| between two landmark groups, largest over all pairs.
	MetricVerticalOffset MetricKind = "vertical_offset"
	// |Δx| between two landmark groups, largest over all pairs.
	MetricHorizontalOffset MetricKind = "horizontal_offset"
	// from.y - to.y per pair; positive when "to" sits above "from".
	MetricElevation MetricKind = "elevation"
)

// Joint is an angle with its vertex in the middle.
type Joint struct {
	A      pose.LandmarkID
	Vertex pose.LandmarkID
	C      pose.LandmarkID
}

// Group is measured at the centroid of its landmarks.
type Group []pose.LandmarkID

type Pair struct {
	From Group
	To   Group
}

type Metric struct {
	Kind   MetricKind
	Joints []Joint
	Pairs  []Pair
}

func AngleAt(a, vertex, c pose.LandmarkID) Metric {
	return Metric{Kind: MetricAngle, Joints: []Joint{{A: a, Vertex: vertex, C: c}}}
}

// Reading holds one value per measured side.
type Reading []float64

func (r Reading) Mean() float64 {
	if len(r) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range r {
		sum += v
	}
	return sum / float64(len(r))
}

// Measure evaluates the metric over a snapshot.
func (m Metric) Measure(s *pose.Snapshot) Reading {
	switch m.Kind {
	case MetricAngle:
		out := make(Reading, 0, len(m.Joints))
		for _, j := range m.Joints {
			out = append(out, pose.Angle(s.Point(j.A), s.Point(j.Vertex), s.Point(j.C)))
		}
		return out
	case MetricVerticalOffset, MetricHorizontalOffset:
		var largest float64
		for _, p := range m.Pairs {
			from, to := s.Center(p.From...), s.Center(p.To...)
			d := math.Abs(from.Y - to.Y)
			if m.Kind == MetricHorizontalOffset {
				d = math.Abs(from.X - to.X)
			}
			largest = math.Max(largest, d)
		}
		return Reading{largest}
	case MetricElevation:
		out := make(Reading, 0, len(m.Pairs))
		for _, p := range m.Pairs {
			out = append(out, s.Center(p.From...).Y-s.Center(p.To...).Y)
		}
		return out
	}
	return nil
}

func (m Metric) validate() error {
	checkIDs := func(ids ...pose.LandmarkID) error {
		for _, id := range ids {
			if !id.Valid() {
				return fmt.Errorf("invalid landmark %d", int(id))
			}
		}
		return nil
	}

	switch m.Kind {
	case MetricAngle:
		if len(m.Joints) == 0 {
			return errors.New("angle metric needs at least one joint")
		}
		if len(m.Pairs) > 0 {
			return errors.New("angle metric does not take pairs")
		}
		for _, j := range m.Joints {
			if err := checkIDs(j.A, j.Vertex, j.C); err != nil {
				return err
			}
			if j.A == j.Vertex || j.C == j.Vertex {
				return fmt.Errorf("joint %s-%s-%s repeats its vertex", j.A, j.Vertex, j.C)
			}
		}
	case MetricVerticalOffset, MetricHorizontalOffset, MetricElevation:
		if len(m.Pairs) == 0 {
			return fmt.Errorf("%s metric needs at least one pair", m.Kind)
		}
		if len(m.Joints) > 0 {
			return fmt.Errorf("%s metric does not take joints", m.Kind)
		}
		for _, p := range m.Pairs {
			if len(p.From) == 0 || len(p.To) == 0 {
				return errors.New("pair groups must not be empty")
			}
			if err := checkIDs(p.From...); err != nil {
				return err
			}
			if err := checkIDs(p.To...); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown metric kind %q", m.Kind)
	}
	return nil
}
