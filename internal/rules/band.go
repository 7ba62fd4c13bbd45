package rules

import (
	"fmt"
	"math"
	"strconv"
)

// Band is the open interval (Min, Max). An inverted band selects the closed complement, i.e.
// everything outside [Min, Max]. Unbounded sides use ±Inf.
type Band struct {
	Min    float64
	Max    float64
	Invert bool
}

func Above(v float64) Band { return Band{Min: v, Max: math.Inf(1)} }

func Below(v float64) Band { return Band{Min: math.Inf(-1), Max: v} }

func Between(lo, hi float64) Band { return Band{Min: lo, Max: hi} }

func Outside(lo, hi float64) Band { return Band{Min: lo, Max: hi, Invert: true} }

func (b Band) Contains(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	inside := v > b.Min && v < b.Max
	if b.Invert {
		return !inside
	}
	return inside
}

// ContainsAll reports whether every side of a reading falls inside the band. An empty reading
// is never inside anything.
func (b Band) ContainsAll(r Reading) bool {
	if len(r) == 0 {
		return false
	}
	for _, v := range r {
		if !b.Contains(v) {
			return false
		}
	}
	return true
}

// Overlaps reports whether some value would be inside both bands.
func (b Band) Overlaps(o Band) bool {
	switch {
	case b.Invert && o.Invert:
		return true
	case b.Invert:
		return !(o.Min >= b.Min && o.Max <= b.Max)
	case o.Invert:
		return !(b.Min >= o.Min && b.Max <= o.Max)
	default:
		return b.Min < o.Max && o.Min < b.Max
	}
}

func (b Band) validate() error {
	if math.IsNaN(b.Min) || math.IsNaN(b.Max) {
		return fmt.Errorf("band bound is NaN")
	}
	if b.Min >= b.Max {
		return fmt.Errorf("band %s is empty: min must be below max", b)
	}
	if b.Invert && math.IsInf(b.Min, -1) && math.IsInf(b.Max, 1) {
		return fmt.Errorf("inverted band %s is empty", b)
	}
	return nil
}

// towards returns the direction v has to move to end up inside the band.
func (b Band) towards(v float64) Direction {
	if b.Invert {
		// Leave [Min, Max] through the closer edge.
		if v-b.Min < b.Max-v {
			return Decrease
		}
		return Increase
	}
	if v <= b.Min {
		return Increase
	}
	return Decrease
}

func (b Band) String() string {
	f := func(v float64) string {
		switch {
		case math.IsInf(v, 1):
			return "+inf"
		case math.IsInf(v, -1):
			return "-inf"
		default:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	switch {
	case b.Invert:
		return fmt.Sprintf("outside [%s, %s]", f(b.Min), f(b.Max))
	case math.IsInf(b.Min, -1):
		return "< " + f(b.Max)
	case math.IsInf(b.Max, 1):
		return "> " + f(b.Min)
	default:
		return fmt.Sprintf("%s..%s", f(b.Min), f(b.Max))
	}
}

type Direction int

const (
	Increase Direction = iota + 1
	Decrease
)
