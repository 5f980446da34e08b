package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
)

// ErrNotFound is returned when a GUID addresses no stored record.
var ErrNotFound = errors.New("not found")

// ChangePublisher notifies downstream consumers that the ledger changed.
// Publishing is best effort: a failed publish never fails the edit.
type ChangePublisher interface {
	PublishLedgerChanged(ctx context.Context, scope string) error
}

// LedgerService owns snapshot editing. Every mutation loads the full ledger,
// applies the change in memory and writes it back wholesale, matching the
// store's replace semantics.
type LedgerService struct {
	store     ledger.SnapshotStore
	reg       core.Registry
	publisher ChangePublisher
}

func NewLedgerService(store ledger.SnapshotStore, reg core.Registry, publisher ChangePublisher) *LedgerService {
	return &LedgerService{store: store, reg: reg, publisher: publisher}
}

// List returns all snapshots in stored order.
func (s *LedgerService) List(ctx context.Context) ([]core.Snapshot, error) {
	return s.store.LoadSnapshots(ctx)
}

// Latest returns the snapshot with the maximum date.
func (s *LedgerService) Latest(ctx context.Context) (core.Snapshot, bool, error) {
	snapshots, err := s.store.LoadSnapshots(ctx)
	if err != nil {
		return core.Snapshot{}, false, err
	}
	latest, ok := core.Latest(snapshots)
	return latest, ok, nil
}

// Create validates and appends a snapshot, assigning it a fresh GUID. Derived
// fields are recomputed before storing so stale client values never persist.
func (s *LedgerService) Create(ctx context.Context, snap core.Snapshot) (core.Snapshot, error) {
	if err := snap.Validate(s.reg); err != nil {
		return core.Snapshot{}, fmt.Errorf("validate snapshot: %w", err)
	}

	snap.GUID = uuid.NewString()
	if snap.Values == nil {
		snap.Values = core.Values{}
	}
	s.reg.Recompute(snap.Values)

	snapshots, err := s.store.LoadSnapshots(ctx)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("load snapshots: %w", err)
	}
	snapshots = append(snapshots, snap)
	if err := s.store.ReplaceSnapshots(ctx, snapshots); err != nil {
		return core.Snapshot{}, fmt.Errorf("replace snapshots: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot created",
		applog.FieldSnapshotID, snap.GUID, applog.FieldDate, snap.Date.String())
	s.publish(ctx, amqp.ScopeSnapshots)
	return snap, nil
}

// Update replaces the snapshot with the given GUID in place, preserving its
// ledger position and identity.
func (s *LedgerService) Update(ctx context.Context, guid string, snap core.Snapshot) (core.Snapshot, error) {
	if err := snap.Validate(s.reg); err != nil {
		return core.Snapshot{}, fmt.Errorf("validate snapshot: %w", err)
	}

	snapshots, err := s.store.LoadSnapshots(ctx)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("load snapshots: %w", err)
	}

	found := false
	for i := range snapshots {
		if snapshots[i].GUID == guid {
			snap.GUID = guid
			if snap.Values == nil {
				snap.Values = core.Values{}
			}
			s.reg.Recompute(snap.Values)
			snapshots[i] = snap
			found = true
			break
		}
	}
	if !found {
		return core.Snapshot{}, fmt.Errorf("snapshot %q: %w", guid, ErrNotFound)
	}

	if err := s.store.ReplaceSnapshots(ctx, snapshots); err != nil {
		return core.Snapshot{}, fmt.Errorf("replace snapshots: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot updated",
		applog.FieldSnapshotID, guid, applog.FieldDate, snap.Date.String())
	s.publish(ctx, amqp.ScopeSnapshots)
	return snap, nil
}

// Delete removes the snapshot with the given GUID.
func (s *LedgerService) Delete(ctx context.Context, guid string) error {
	snapshots, err := s.store.LoadSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("load snapshots: %w", err)
	}

	kept := snapshots[:0]
	found := false
	for _, snap := range snapshots {
		if snap.GUID == guid {
			found = true
			continue
		}
		kept = append(kept, snap)
	}
	if !found {
		return fmt.Errorf("snapshot %q: %w", guid, ErrNotFound)
	}

	if err := s.store.ReplaceSnapshots(ctx, kept); err != nil {
		return fmt.Errorf("replace snapshots: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot deleted", applog.FieldSnapshotID, guid)
	s.publish(ctx, amqp.ScopeSnapshots)
	return nil
}

func (s *LedgerService) publish(ctx context.Context, scope string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerChanged(ctx, scope); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger change", "scope", scope, "error", err)
	}
}
