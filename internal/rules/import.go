package rules

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"

	"github.com/misterclayt0n/repcoach/internal/models"
	"github.com/misterclayt0n/repcoach/internal/pose"
)

// LoadFile reads custom modes from a TOML file. The modes are converted but not validated;
// pass them through NewTable or Default.
func LoadFile(path string) ([]Mode, error) {
	var imp models.ModeImport
	if _, err := toml.DecodeFile(path, &imp); err != nil {
		return nil, fmt.Errorf("error parsing modes file: %w", err)
	}
	return FromImport(imp)
}

func FromImport(imp models.ModeImport) ([]Mode, error) {
	var (
		modes []Mode
		errs  error
	)
	for i, mt := range imp.Modes {
		m, err := FromTOML(mt)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("mode #%d (%s): %w", i+1, mt.ID, err))
			continue
		}
		modes = append(modes, m)
	}
	if errs != nil {
		return nil, errs
	}
	return modes, nil
}

func FromTOML(mt models.ModeTOML) (Mode, error) {
	metric, err := metricFromTOML(mt.Metric)
	if err != nil {
		return Mode{}, fmt.Errorf("metric: %w", err)
	}

	m := Mode{
		ID:        mt.ID,
		Name:      mt.Name,
		Family:    Family(mt.Family),
		Metric:    metric,
		Start:     Phase{Name: mt.Start.Name, Band: bandFromTOML(mt.Start.Min, mt.Start.Max, mt.Start.Invert)},
		Target:    Phase{Name: mt.Target.Name, Band: bandFromTOML(mt.Target.Min, mt.Target.Max, mt.Target.Invert)},
		Increment: mt.Increment,
		Feedback: Feedback{
			Start:    mt.Feedback.Start,
			Target:   mt.Feedback.Target,
			Rep:      mt.Feedback.Rep,
			Increase: mt.Feedback.Increase,
			Decrease: mt.Feedback.Decrease,
			Cue:      mt.Feedback.Cue,
		},
	}
	if m.Name == "" {
		m.Name = m.ID
	}
	if m.Increment == 0 {
		m.Increment = 1
	}

	for i, ct := range mt.Checks {
		cm, err := metricFromTOML(ct.Metric)
		if err != nil {
			return Mode{}, fmt.Errorf("check %d metric: %w", i+1, err)
		}
		m.Checks = append(m.Checks, Check{
			Name:     ct.Name,
			Metric:   cm,
			Band:     bandFromTOML(ct.Min, ct.Max, ct.Invert),
			Feedback: ct.Feedback,
		})
	}
	return m, nil
}

// ToTOML is the inverse of FromTOML, used when custom modes are written back to disk.
func ToTOML(m *Mode) models.ModeTOML {
	bound := func(v float64) *float64 {
		if math.IsInf(v, 0) {
			return nil
		}
		return &v
	}

	mt := models.ModeTOML{
		ID:        m.ID,
		Name:      m.Name,
		Family:    string(m.Family),
		Metric:    metricToTOML(m.Metric),
		Start:     models.PhaseTOML{Name: m.Start.Name, Min: bound(m.Start.Band.Min), Max: bound(m.Start.Band.Max), Invert: m.Start.Band.Invert},
		Target:    models.PhaseTOML{Name: m.Target.Name, Min: bound(m.Target.Band.Min), Max: bound(m.Target.Band.Max), Invert: m.Target.Band.Invert},
		Increment: m.Increment,
		Feedback: models.FeedbackTOML{
			Start:    m.Feedback.Start,
			Target:   m.Feedback.Target,
			Rep:      m.Feedback.Rep,
			Increase: m.Feedback.Increase,
			Decrease: m.Feedback.Decrease,
			Cue:      m.Feedback.Cue,
		},
	}
	for _, c := range m.Checks {
		mt.Checks = append(mt.Checks, models.CheckTOML{
			Name:     c.Name,
			Feedback: c.Feedback,
			Metric:   metricToTOML(c.Metric),
			Min:      bound(c.Band.Min),
			Max:      bound(c.Band.Max),
			Invert:   c.Band.Invert,
		})
	}
	return mt
}

func bandFromTOML(lo, hi *float64, invert bool) Band {
	b := Band{Min: math.Inf(-1), Max: math.Inf(1), Invert: invert}
	if lo != nil {
		b.Min = *lo
	}
	if hi != nil {
		b.Max = *hi
	}
	return b
}

func metricFromTOML(mt models.MetricTOML) (Metric, error) {
	m := Metric{Kind: MetricKind(mt.Kind)}
	for _, names := range mt.Joints {
		if len(names) != 3 {
			return Metric{}, fmt.Errorf("joint %v must name exactly 3 landmarks", names)
		}
		ids, err := parseGroup(names)
		if err != nil {
			return Metric{}, err
		}
		m.Joints = append(m.Joints, Joint{A: ids[0], Vertex: ids[1], C: ids[2]})
	}
	for _, p := range mt.Pairs {
		from, err := parseGroup(p.From)
		if err != nil {
			return Metric{}, err
		}
		to, err := parseGroup(p.To)
		if err != nil {
			return Metric{}, err
		}
		m.Pairs = append(m.Pairs, Pair{From: from, To: to})
	}
	return m, nil
}

func metricToTOML(m Metric) models.MetricTOML {
	names := func(g Group) []string {
		out := make([]string, len(g))
		for i, id := range g {
			out[i] = id.String()
		}
		return out
	}

	mt := models.MetricTOML{Kind: string(m.Kind)}
	for _, j := range m.Joints {
		mt.Joints = append(mt.Joints, []string{j.A.String(), j.Vertex.String(), j.C.String()})
	}
	for _, p := range m.Pairs {
		mt.Pairs = append(mt.Pairs, models.PairTOML{From: names(p.From), To: names(p.To)})
	}
	return mt
}

func parseGroup(names []string) (Group, error) {
	g := make(Group, 0, len(names))
	for _, n := range names {
		id, err := pose.ParseLandmark(n)
		if err != nil {
			return nil, err
		}
		g = append(g, id)
	}
	return g, nil
}

// WriteFile stores modes as a TOML modes file, replacing any previous content.
func WriteFile(path string, modes []*Mode) error {
	imp := models.ModeImport{}
	for _, m := range modes {
		imp.Modes = append(imp.Modes, ToTOML(m))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating modes directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating modes file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(imp); err != nil {
		return fmt.Errorf("error encoding modes: %w", err)
	}
	return nil
}
