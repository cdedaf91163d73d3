// Package store holds the baseline and report snapshot collections in
// memory and persists them to sqlite so ingested data survives restarts.
package store

import (
	"fmt"
	"sort"
	"sync"

	"seguimiento/internal/dates"
	"seguimiento/internal/track"
)

// ErrDuplicateSnapshot is returned when appending a snapshot whose identity
// already exists; replacing it requires the explicit ReplaceSnapshot call
// (the user confirmation lives at the CLI/tool boundary).
var ErrDuplicateSnapshot = fmt.Errorf("a report with the same date and week already exists")

// Store is a thread-safe holder for the baseline and the ordered snapshot
// collection. Readers get copies, so a running aggregation never observes a
// partially-updated collection.
type Store struct {
	mu        sync.RWMutex
	baseline  []track.BaselineItem
	snapshots []track.ReportSnapshot
}

func New() *Store {
	return &Store{}
}

// SetBaseline replaces the baseline wholesale. Baseline items are never
// mutated individually.
func (s *Store) SetBaseline(items []track.BaselineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseline = append([]track.BaselineItem(nil), items...)
}

// Baseline returns a copy of the baseline items.
func (s *Store) Baseline() []track.BaselineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]track.BaselineItem(nil), s.baseline...)
}

// Snapshots returns a copy of the snapshots in chronological report order,
// which is the feed order the deduplicator's last-wins tie-break expects.
func (s *Store) Snapshots() []track.ReportSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]track.ReportSnapshot(nil), s.snapshots...)
}

// HasSnapshot reports whether a snapshot with the given identity exists.
func (s *Store) HasSnapshot(fechaReporte string, semanaReporte int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(fechaReporte, semanaReporte) >= 0
}

// AppendSnapshot adds a new snapshot, keeping the collection sorted
// chronologically. Appending an existing identity is refused with
// ErrDuplicateSnapshot.
func (s *Store) AppendSnapshot(snap track.ReportSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(snap.FechaReporte, snap.SemanaReporte) >= 0 {
		return ErrDuplicateSnapshot
	}
	s.snapshots = append(s.snapshots, snap)
	s.sortLocked()
	return nil
}

// ReplaceSnapshot overwrites the snapshot sharing snap's identity, or adds
// snap when none exists. Replacement is wholesale, never field-by-field.
func (s *Store) ReplaceSnapshot(snap track.ReportSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(snap.FechaReporte, snap.SemanaReporte); i >= 0 {
		s.snapshots[i] = snap
	} else {
		s.snapshots = append(s.snapshots, snap)
	}
	s.sortLocked()
}

// Counts returns the baseline and snapshot sizes.
func (s *Store) Counts() (baseline, snapshots int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.baseline), len(s.snapshots)
}

func (s *Store) indexOf(fecha string, semana int) int {
	for i, snap := range s.snapshots {
		if snap.FechaReporte == fecha && snap.SemanaReporte == semana {
			return i
		}
	}
	return -1
}

func (s *Store) sortLocked() {
	sort.SliceStable(s.snapshots, func(i, j int) bool {
		if c := dates.Compare(s.snapshots[i].FechaReporte, s.snapshots[j].FechaReporte); c != 0 {
			return c < 0
		}
		return s.snapshots[i].SemanaReporte < s.snapshots[j].SemanaReporte
	})
}
