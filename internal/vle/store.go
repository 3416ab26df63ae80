package vle

import (
	"sync"

	"github.com/daryltucker/mccabe-thiele/internal/model"
	"github.com/daryltucker/mccabe-thiele/internal/output"
)

// Store owns the process-wide equilibrium table. Writers replace the whole
// table (last writer wins); readers take a Snapshot and compute against it, so
// a run never sees a table swapped halfway through.
type Store struct {
	mu    sync.RWMutex
	curve *Curve
}

// NewStore starts with the bundled methanol-water table.
func NewStore() *Store {
	return &Store{curve: DefaultCurve()}
}

// Replace installs points as the current table. An invalid table is logged,
// the store falls back to the default table, and the validation error is
// returned.
func (s *Store) Replace(points []model.Point) error {
	c, err := NewCurve(points)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		output.Logger.Error("VLE table rejected, falling back to methanol-water", "error", err)
		s.curve = DefaultCurve()
		return err
	}
	s.curve = c
	output.Logger.Info("VLE table initialized", "points", c.Len())
	return nil
}

// Snapshot returns the current curve. Curves are immutable, so the caller may
// keep it for the whole run.
func (s *Store) Snapshot() *Curve {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.curve
}
