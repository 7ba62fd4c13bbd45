package rules

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/multierr"
)

var ErrUnknownMode = errors.New("unknown exercise mode")

// Table is the validated, read-only set of exercise modes. It is safe to share between
// sessions.
type Table struct {
	modes []*Mode
	byID  map[string]*Mode
}

// NewTable validates every mode and reports all authoring defects at once. Malformed bands are
// a startup failure, never something the frame loop has to tolerate.
func NewTable(modes ...Mode) (*Table, error) {
	t := &Table{byID: make(map[string]*Mode, len(modes))}

	var errs error
	for i := range modes {
		m := modes[i]
		if err := m.validate(); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if _, dup := t.byID[m.ID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("mode %s: duplicate id", m.ID))
			continue
		}
		t.modes = append(t.modes, &m)
		t.byID[m.ID] = &m
	}
	if errs != nil {
		return nil, fmt.Errorf("invalid rule table: %w", errs)
	}
	return t, nil
}

// Default builds the table of built-in modes plus any extra ones.
func Default(extra ...Mode) (*Table, error) {
	return NewTable(append(Builtin(), extra...)...)
}

func (t *Table) Get(id string) (*Mode, error) {
	m, ok := t.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, id)
	}
	return m, nil
}

// Modes returns every mode in declaration order.
func (t *Table) Modes() []*Mode {
	out := make([]*Mode, len(t.modes))
	copy(out, t.modes)
	return out
}

func (t *Table) ByFamily(f Family) []*Mode {
	var out []*Mode
	for _, m := range t.modes {
		if m.Family == f {
			out = append(out, m)
		}
	}
	return out
}

// IDs returns the sorted mode identifiers.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.byID))
	for id := range t.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
