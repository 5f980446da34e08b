package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func TestReplaceAndLoadSnapshots(t *testing.T) {
	ctx := context.Background()
	s := New()

	in := []core.Snapshot{
		{Date: core.NewDate(2025, 5, 9), Values: core.Values{core.FieldHDFC: decimal.NewFromInt(100)}},
	}
	if err := s.ReplaceSnapshots(ctx, in); err != nil {
		t.Fatalf("ReplaceSnapshots: %v", err)
	}

	got, err := s.LoadSnapshots(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshots: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(got))
	}
	if got[0].GUID == "" {
		t.Error("GUID was not backfilled on replace")
	}
	// The caller's slice must not alias the store.
	if in[0].GUID != "" {
		t.Error("ReplaceSnapshots mutated the caller's slice")
	}
}

func TestReplaceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.ReplaceSnapshots(ctx, []core.Snapshot{{Date: core.NewDate(2025, 5, 9)}}); err != nil {
		t.Fatalf("ReplaceSnapshots: %v", err)
	}
	first, _ := s.LoadSnapshots(ctx)

	// Round-trip: replacing with the loaded set changes nothing.
	if err := s.ReplaceSnapshots(ctx, first); err != nil {
		t.Fatalf("ReplaceSnapshots round trip: %v", err)
	}
	second, _ := s.LoadSnapshots(ctx)

	if len(first) != len(second) {
		t.Fatalf("round trip changed length: %d vs %d", len(first), len(second))
	}
	if first[0].GUID != second[0].GUID {
		t.Errorf("round trip reassigned GUID: %q vs %q", first[0].GUID, second[0].GUID)
	}
}

func TestReplaceAndLoadRules(t *testing.T) {
	ctx := context.Background()
	s := New()

	rules := []core.Rule{
		{Day: 2, Description: "top up", Account: core.FieldSBIOD, Amount: decimal.NewFromInt(25000), Operation: core.OpAdd},
	}
	if err := s.ReplaceRules(ctx, rules); err != nil {
		t.Fatalf("ReplaceRules: %v", err)
	}

	got, err := s.LoadRules(ctx)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rules, want 1", len(got))
	}
	if got[0].ID == "" {
		t.Error("rule ID was not backfilled")
	}

	if err := s.ReplaceRules(ctx, nil); err != nil {
		t.Fatalf("ReplaceRules with empty set: %v", err)
	}
	got, _ = s.LoadRules(ctx)
	if len(got) != 0 {
		t.Errorf("replace with empty set left %d rules", len(got))
	}
}

func TestNewFromFilesMissingDirectory(t *testing.T) {
	reg := core.DefaultRegistry(decimal.NewFromInt(95))
	s := NewFromFiles(reg, t.TempDir())

	snaps, err := s.LoadSnapshots(context.Background())
	if err != nil {
		t.Fatalf("LoadSnapshots: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("expected empty store, got %d snapshots", len(snaps))
	}
}
