package models

//
// For TOML parsing only
//

// ModeImport is the top level of a custom modes file:
//
//	[[mode]]
//	id = "lunge"
//	name = "Lunge"
//	family = "general"
//	increment = 1
//
//	[mode.metric]
//	kind = "angle"
//	joints = [["left_hip", "left_knee", "left_ankle"]]
//
//	[mode.start]
//	name = "up"
//	min = 160
//
//	[mode.target]
//	name = "down"
//	max = 100
type ModeImport struct {
	Modes []ModeTOML `toml:"mode"`
}

type ModeTOML struct {
	ID        string       `toml:"id"`
	Name      string       `toml:"name"`
	Family    string       `toml:"family"`
	Metric    MetricTOML   `toml:"metric"`
	Start     PhaseTOML    `toml:"start"`
	Target    PhaseTOML    `toml:"target"`
	Increment float64      `toml:"increment,omitempty"`
	Feedback  FeedbackTOML `toml:"feedback"`
	Checks    []CheckTOML  `toml:"check,omitempty"`
}

type MetricTOML struct {
	Kind   string     `toml:"kind"`
	Joints [][]string `toml:"joints,omitempty"` // landmark triples, vertex in the middle
	Pairs  []PairTOML `toml:"pair,omitempty"`
}

type PairTOML struct {
	From []string `toml:"from"`
	To   []string `toml:"to"`
}

// PhaseTOML leaves min or max unset for an open side.
type PhaseTOML struct {
	Name   string   `toml:"name"`
	Min    *float64 `toml:"min,omitempty"`
	Max    *float64 `toml:"max,omitempty"`
	Invert bool     `toml:"invert,omitempty"`
}

type FeedbackTOML struct {
	Start    string `toml:"start,omitempty"`
	Target   string `toml:"target,omitempty"`
	Rep      string `toml:"rep"`
	Increase string `toml:"increase,omitempty"`
	Decrease string `toml:"decrease,omitempty"`
	Cue      string `toml:"cue,omitempty"`
}

type CheckTOML struct {
	Name     string     `toml:"name"`
	Feedback string     `toml:"feedback"`
	Metric   MetricTOML `toml:"metric"`
	Min      *float64   `toml:"min,omitempty"`
	Max      *float64   `toml:"max,omitempty"`
	Invert   bool       `toml:"invert,omitempty"`
}
