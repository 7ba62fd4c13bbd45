package rules

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/misterclayt0n/repcoach/internal/pose"
)

// Family groups modes by population. It selects the safety profile and voice cooldown.
type Family string

const (
	General   Family = "general"
	Yoga      Family = "yoga"
	Senior    Family = "senior"
	Pregnancy Family = "pregnancy"
)

var Families = []Family{General, Yoga, Senior, Pregnancy}

func (f Family) Valid() bool {
	switch f {
	case General, Yoga, Senior, Pregnancy:
		return true
	}
	return false
}

// VoiceCooldown is the minimum gap between two spoken prompts for this population.
func (f Family) VoiceCooldown() time.Duration {
	if f == Pregnancy {
		return 8 * time.Second
	}
	return 5 * time.Second
}

// Phase is a named band of the primary metric.
type Phase struct {
	Name string
	Band Band
}

type Feedback struct {
	Start    string // resting in the start band
	Target   string // resting in the target band
	Rep      string // a rep was just counted; "{reps}" expands to the running total
	Increase string // metric must grow to reach the next band
	Decrease string // metric must shrink to reach the next band
	Cue      string // spoken when the start band is entered
}

// Check is an additional form predicate. It passes while its metric is inside Band.
type Check struct {
	Name     string
	Metric   Metric
	Band     Band
	Feedback string
}

func (c Check) Passes(s *pose.Snapshot) bool {
	return c.Band.ContainsAll(c.Metric.Measure(s))
}

// Mode is one row of the rule table. A rep is counted when the reading enters Target while
// the last recorded phase is Start, so the choice of Start fixes the counting direction.
type Mode struct {
	ID        string
	Name      string
	Family    Family
	Metric    Metric
	Start     Phase
	Target    Phase
	Increment float64
	Feedback  Feedback
	Checks    []Check
}

type Class int

const (
	InBetween Class = iota
	InStart
	InTarget
)

func (m *Mode) Classify(r Reading) Class {
	switch {
	case m.Start.Band.ContainsAll(r):
		return InStart
	case m.Target.Band.ContainsAll(r):
		return InTarget
	default:
		return InBetween
	}
}

// PhaseFor maps a terminal class to its phase name.
func (m *Mode) PhaseFor(c Class) string {
	switch c {
	case InStart:
		return m.Start.Name
	case InTarget:
		return m.Target.Name
	}
	return ""
}

// Correction picks the corrective feedback for an in-between reading. After the start phase the
// next stop is the target band, otherwise the start band. Without a directional message it
// falls back to the resting feedback of the band being left, which already points onwards.
func (m *Mode) Correction(r Reading, phase string) string {
	next := m.Start
	if phase == m.Start.Name {
		next = m.Target
	}

	dir := Increase
	for _, v := range r {
		if !next.Band.Contains(v) {
			dir = next.Band.towards(v)
			break
		}
	}

	switch {
	case dir == Increase && m.Feedback.Increase != "":
		return m.Feedback.Increase
	case dir == Decrease && m.Feedback.Decrease != "":
		return m.Feedback.Decrease
	case next.Name == m.Target.Name:
		return m.Feedback.Start
	default:
		return m.Feedback.Target
	}
}

// RepMessage renders the rep feedback for the given running total.
func (m *Mode) RepMessage(total float64) string {
	return strings.ReplaceAll(m.Feedback.Rep, "{reps}", FormatReps(total))
}

// FormatReps prints whole counts without decimals and half reps with one.
func FormatReps(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (m *Mode) validate() error {
	var errs error
	add := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("mode id must be set")
	}
	if strings.ContainsAny(m.ID, " \t") {
		add("id must not contain whitespace")
	}
	if strings.TrimSpace(m.Name) == "" {
		add("name must be set")
	}
	if !m.Family.Valid() {
		add("unknown family %q", m.Family)
	}
	if err := m.Metric.validate(); err != nil {
		add("metric: %w", err)
	}
	if m.Start.Name == "" || m.Target.Name == "" {
		add("start and target phases must be named")
	} else if m.Start.Name == m.Target.Name {
		add("start and target phases share the name %q", m.Start.Name)
	}
	if err := m.Start.Band.validate(); err != nil {
		add("start band: %w", err)
	}
	if err := m.Target.Band.validate(); err != nil {
		add("target band: %w", err)
	}
	if m.Start.Band.Overlaps(m.Target.Band) {
		add("start band %s overlaps target band %s", m.Start.Band, m.Target.Band)
	}
	if m.Increment <= 0 {
		add("increment must be positive, got %v", m.Increment)
	}
	if strings.TrimSpace(m.Feedback.Rep) == "" {
		add("rep feedback must be set")
	}
	for i, c := range m.Checks {
		if err := c.Metric.validate(); err != nil {
			add("check %d metric: %w", i+1, err)
		}
		if err := c.Band.validate(); err != nil {
			add("check %d band: %w", i+1, err)
		}
		if strings.TrimSpace(c.Feedback) == "" {
			add("check %d feedback must be set", i+1)
		}
	}

	if errs != nil {
		return fmt.Errorf("mode %s: %w", m.ID, errs)
	}
	return nil
}
