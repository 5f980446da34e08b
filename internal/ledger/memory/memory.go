// Package memory provides an in-memory ledger store, used as the default
// backend and as a test double for the SQLite store.
package memory

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type Store struct {
	mu        sync.Mutex
	snapshots []core.Snapshot
	rules     []core.Rule
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// NewFromFiles seeds a store from legacy JSON files in base, when present.
// Missing or unreadable seed files leave the store empty.
func NewFromFiles(reg core.Registry, base string) *Store {
	s := New()
	if data, err := os.ReadFile(filepath.Join(base, "financial_data.json")); err == nil {
		if snaps, err := ledger.ParseLegacySnapshots(reg, data); err == nil {
			ledger.EnsureSnapshotGUIDs(snaps)
			s.snapshots = snaps
		}
	}
	if data, err := os.ReadFile(filepath.Join(base, "prediction_rules.json")); err == nil {
		if rules, err := ledger.ParseLegacyRules(reg, data); err == nil {
			ledger.EnsureRuleIDs(rules)
			s.rules = rules
		}
	}
	return s
}

// LoadSnapshots implements ledger.SnapshotStore.
func (s *Store) LoadSnapshots(_ context.Context) ([]core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSnapshots(s.snapshots), nil
}

// ReplaceSnapshots implements ledger.SnapshotStore.
func (s *Store) ReplaceSnapshots(_ context.Context, snapshots []core.Snapshot) error {
	snapshots = cloneSnapshots(snapshots)
	ledger.EnsureSnapshotGUIDs(snapshots)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = snapshots
	return nil
}

// LoadRules implements ledger.RuleStore.
func (s *Store) LoadRules(_ context.Context) ([]core.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Rule(nil), s.rules...), nil
}

// ReplaceRules implements ledger.RuleStore.
func (s *Store) ReplaceRules(_ context.Context, rules []core.Rule) error {
	rules = append([]core.Rule(nil), rules...)
	ledger.EnsureRuleIDs(rules)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = rules
	return nil
}

func cloneSnapshots(in []core.Snapshot) []core.Snapshot {
	out := make([]core.Snapshot, len(in))
	for i, s := range in {
		s.Values = s.Values.Clone()
		out[i] = s
	}
	return out
}
