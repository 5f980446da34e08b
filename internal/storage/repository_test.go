package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	in := []core.Snapshot{
		{
			GUID: "a",
			Date: core.NewDate(2025, 5, 9),
			Values: core.Values{
				core.FieldHDFC:   decimal.NewFromInt(6357),
				core.FieldOPEuro: decimal.NewFromInt(1300),
			},
		},
		{GUID: "b", Date: core.NewDate(2025, 5, 10), Values: core.Values{}},
	}

	if err := repo.ReplaceSnapshots(ctx, in); err != nil {
		t.Fatalf("ReplaceSnapshots: %v", err)
	}

	got, err := repo.LoadSnapshots(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshots: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(got))
	}
	if got[0].GUID != "a" || got[1].GUID != "b" {
		t.Errorf("stored order not preserved: %q, %q", got[0].GUID, got[1].GUID)
	}
	if !got[0].Values.Get(core.FieldHDFC).Equal(decimal.NewFromInt(6357)) {
		t.Errorf("HDFC = %s, want 6357", got[0].Values.Get(core.FieldHDFC))
	}
	if got[0].Date.String() != "2025-05-09" {
		t.Errorf("date = %s", got[0].Date)
	}
	// A snapshot without values still loads.
	if len(got[1].Values) != 0 {
		t.Errorf("empty snapshot gained %d values", len(got[1].Values))
	}
}

func TestReplaceSnapshotsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	if err := repo.ReplaceSnapshots(ctx, []core.Snapshot{{Date: core.NewDate(2025, 5, 9)}}); err != nil {
		t.Fatalf("ReplaceSnapshots: %v", err)
	}
	first, err := repo.LoadSnapshots(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshots: %v", err)
	}
	if first[0].GUID == "" {
		t.Fatal("GUID was not backfilled")
	}

	if err := repo.ReplaceSnapshots(ctx, first); err != nil {
		t.Fatalf("ReplaceSnapshots round trip: %v", err)
	}
	second, err := repo.LoadSnapshots(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshots: %v", err)
	}
	if len(second) != 1 || second[0].GUID != first[0].GUID {
		t.Error("round trip drifted: GUID reassigned or count changed")
	}
}

func TestRuleRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)
	may := 5

	in := []core.Rule{
		{ID: "1", Day: 2, Description: "top up", Account: core.FieldSBIOD, Amount: decimal.NewFromInt(25000), Operation: core.OpAdd},
		{ID: "2", Day: 16, Month: &may, Description: "rent", Account: core.FieldOPEuro, Amount: decimal.RequireFromString("1200.50"), Operation: core.OpSubtract},
	}
	if err := repo.ReplaceRules(ctx, in); err != nil {
		t.Fatalf("ReplaceRules: %v", err)
	}

	got, err := repo.LoadRules(ctx)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rules, want 2", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("rule order not preserved")
	}
	if got[0].Month != nil {
		t.Error("any-month rule came back with a month")
	}
	if got[1].Month == nil || *got[1].Month != 5 {
		t.Error("month 5 was not preserved")
	}
	if !got[1].Amount.Equal(decimal.RequireFromString("1200.50")) {
		t.Errorf("amount = %s, want 1200.50", got[1].Amount)
	}
	if got[1].Operation != core.OpSubtract {
		t.Errorf("operation = %q", got[1].Operation)
	}
}

func TestReplaceRulesClears(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)

	if err := repo.ReplaceRules(ctx, []core.Rule{{ID: "1", Day: 2, Description: "x", Account: core.FieldHDFC, Amount: decimal.NewFromInt(1), Operation: core.OpAdd}}); err != nil {
		t.Fatalf("ReplaceRules: %v", err)
	}
	if err := repo.ReplaceRules(ctx, nil); err != nil {
		t.Fatalf("ReplaceRules empty: %v", err)
	}

	got, err := repo.LoadRules(ctx)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("replace with empty set left %d rules", len(got))
	}
}
