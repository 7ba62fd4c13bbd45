package pose

import "math"

// Vectors shorter than this are treated as coincident points.
const degenerateEpsilon = 1e-9

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Angle returns the interior angle at vertex b formed by a-b-c, in degrees within [0, 180].
// Coincident or non-finite points yield 0 instead of failing: landmark noise produces them for
// single frames and the next frame corrects itself.
func Angle(a, b, c Point) float64 {
	bax, bay := a.X-b.X, a.Y-b.Y
	bcx, bcy := c.X-b.X, c.Y-b.Y

	if math.Hypot(bax, bay) < degenerateEpsilon || math.Hypot(bcx, bcy) < degenerateEpsilon {
		return 0
	}

	radians := math.Atan2(bcy, bcx) - math.Atan2(bay, bax)
	angle := math.Abs(radians * 180.0 / math.Pi)
	if angle > 180.0 {
		angle = 360.0 - angle
	}

	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	return angle
}
