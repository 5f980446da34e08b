package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func testRegistry() core.Registry {
	return core.DefaultRegistry(decimal.NewFromInt(95))
}

func TestParseLegacySnapshots(t *testing.T) {
	data := []byte(`[{
		"GUID": "abc",
		"Date": "2025-05-09",
		"HDFC (₹)": 6357,
		"OP (Euro)": 1300,
		"OP (₹)": 123500
	}]`)

	snaps, err := ParseLegacySnapshots(testRegistry(), data)
	if err != nil {
		t.Fatalf("ParseLegacySnapshots: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(snaps))
	}
	s := snaps[0]
	if s.GUID != "abc" {
		t.Errorf("GUID = %q", s.GUID)
	}
	if s.Date.String() != "2025-05-09" {
		t.Errorf("date = %s", s.Date)
	}
	if !s.Values.Get(core.FieldHDFC).Equal(decimal.NewFromInt(6357)) {
		t.Errorf("HDFC = %s", s.Values.Get(core.FieldHDFC))
	}
}

func TestParseLegacySnapshotsErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "unknown column", data: `[{"Date": "2025-05-09", "Mystery": 1}]`},
		{name: "missing date", data: `[{"GUID": "a", "HDFC (₹)": 1}]`},
		{name: "bad date", data: `[{"Date": "09/05/2025"}]`},
		{name: "non-numeric value", data: `[{"Date": "2025-05-09", "HDFC (₹)": "lots"}]`},
		{name: "not an array", data: `{"Date": "2025-05-09"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLegacySnapshots(testRegistry(), []byte(tt.data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseLegacyRules(t *testing.T) {
	data := []byte(`[
		{"id": "1", "day": 2, "month": null, "description": "Add ₹25,000 to SBI Overdraft",
		 "account": "SBI Overdraft (₹)", "amount": 25000, "operation": "add"},
		{"id": "4", "day": 16, "month": 5, "description": "Subtract €1,200 from OP (Euro) for rent",
		 "account": "OP (Euro)", "amount": 1200, "operation": "subtract"}
	]`)

	rules, err := ParseLegacyRules(testRegistry(), data)
	if err != nil {
		t.Fatalf("ParseLegacyRules: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if rules[0].Month != nil {
		t.Error("null month should decode as any-month")
	}
	if rules[1].Month == nil || *rules[1].Month != 5 {
		t.Error("month 5 did not decode")
	}
	if !rules[1].Amount.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("amount = %s", rules[1].Amount)
	}
}

func TestParseLegacyRulesRejectsInvalid(t *testing.T) {
	data := []byte(`[{"id": "1", "day": 42, "description": "x", "account": "HDFC (₹)", "amount": 1, "operation": "add"}]`)
	if _, err := ParseLegacyRules(testRegistry(), data); err == nil {
		t.Fatal("expected validation error for day 42")
	}
}

func TestEnsureGUIDs(t *testing.T) {
	snaps := []core.Snapshot{
		{GUID: "keep", Date: core.NewDate(2025, 5, 9)},
		{Date: core.NewDate(2025, 5, 10)},
	}
	if changed := EnsureSnapshotGUIDs(snaps); !changed {
		t.Error("expected change report for missing GUID")
	}
	if snaps[0].GUID != "keep" {
		t.Error("existing GUID was replaced")
	}
	if snaps[1].GUID == "" {
		t.Error("missing GUID was not assigned")
	}
	if changed := EnsureSnapshotGUIDs(snaps); changed {
		t.Error("second pass must be a no-op")
	}

	rules := []core.Rule{{Day: 1}}
	if changed := EnsureRuleIDs(rules); !changed || rules[0].ID == "" {
		t.Error("rule ID was not assigned")
	}
}
