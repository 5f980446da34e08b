// Package ledger defines the persistence ports for snapshots and prediction
// rules. Both collections use full-overwrite semantics: every mutation loads
// the whole set, changes it in memory and writes it back wholesale. Store
// failures surface as hard errors; no retries happen at this layer.
package ledger

import (
	"context"

	"fintrack/internal/core"
)

type (
	// SnapshotStore persists the dated account-snapshot ledger.
	SnapshotStore interface {
		LoadSnapshots(ctx context.Context) ([]core.Snapshot, error)
		// ReplaceSnapshots overwrites the full collection. Implementations
		// assign a GUID to any record missing one before writing.
		ReplaceSnapshots(ctx context.Context, snapshots []core.Snapshot) error
	}

	// RuleStore persists the recurring-adjustment rule definitions.
	RuleStore interface {
		LoadRules(ctx context.Context) ([]core.Rule, error)
		// ReplaceRules overwrites the full collection with the same
		// GUID-backfill contract as ReplaceSnapshots.
		ReplaceRules(ctx context.Context, rules []core.Rule) error
	}

	// Store combines both collections behind one backend.
	Store interface {
		SnapshotStore
		RuleStore
	}
)
