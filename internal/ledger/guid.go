package ledger

import (
	"github.com/google/uuid"

	"fintrack/internal/core"
)

// EnsureSnapshotGUIDs assigns a fresh GUID to every snapshot missing one.
// Records that already carry a GUID are left untouched, so replaying an
// unchanged collection never reassigns identifiers. It reports whether any
// assignment happened.
func EnsureSnapshotGUIDs(snapshots []core.Snapshot) bool {
	changed := false
	for i := range snapshots {
		if snapshots[i].GUID == "" {
			snapshots[i].GUID = uuid.NewString()
			changed = true
		}
	}
	return changed
}

// EnsureRuleIDs assigns a fresh identifier to every rule missing one.
func EnsureRuleIDs(rules []core.Rule) bool {
	changed := false
	for i := range rules {
		if rules[i].ID == "" {
			rules[i].ID = uuid.NewString()
			changed = true
		}
	}
	return changed
}
