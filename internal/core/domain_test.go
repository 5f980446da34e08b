package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func intPtr(n int) *int { return &n }

func TestDateRoundTripJSON(t *testing.T) {
	d := NewDate(2025, 5, 9)

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-05-09"` {
		t.Fatalf("marshal = %s, want \"2025-05-09\"", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip changed date: %s != %s", back, d)
	}
}

func TestLatest(t *testing.T) {
	tests := []struct {
		name      string
		snapshots []Snapshot
		wantGUID  string
		wantOK    bool
	}{
		{
			name:   "empty ledger",
			wantOK: false,
		},
		{
			name: "picks max date",
			snapshots: []Snapshot{
				{GUID: "a", Date: NewDate(2025, 5, 1)},
				{GUID: "b", Date: NewDate(2025, 5, 9)},
				{GUID: "c", Date: NewDate(2025, 4, 30)},
			},
			wantGUID: "b",
			wantOK:   true,
		},
		{
			name: "ties break on first match",
			snapshots: []Snapshot{
				{GUID: "a", Date: NewDate(2025, 5, 9)},
				{GUID: "b", Date: NewDate(2025, 5, 9)},
			},
			wantGUID: "a",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Latest(tt.snapshots)
			if ok != tt.wantOK {
				t.Fatalf("Latest() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.GUID != tt.wantGUID {
				t.Errorf("Latest() = %q, want %q", got.GUID, tt.wantGUID)
			}
		})
	}
}

func TestRuleValidate(t *testing.T) {
	reg := DefaultRegistry(dec("95"))

	valid := Rule{
		ID:          "1",
		Day:         2,
		Description: "Add to overdraft",
		Account:     FieldSBIOD,
		Amount:      dec("25000"),
		Operation:   OpAdd,
	}

	tests := []struct {
		name    string
		mutate  func(*Rule)
		wantErr error
	}{
		{name: "valid any-month rule", mutate: func(*Rule) {}},
		{name: "valid specific month", mutate: func(r *Rule) { r.Month = intPtr(5) }},
		{name: "day too low", mutate: func(r *Rule) { r.Day = 0 }, wantErr: ErrInvalidDay},
		{name: "day too high", mutate: func(r *Rule) { r.Day = 32 }, wantErr: ErrInvalidDay},
		{name: "month out of range", mutate: func(r *Rule) { r.Month = intPtr(13) }, wantErr: ErrInvalidMonth},
		{name: "day 30 in February", mutate: func(r *Rule) { r.Day = 30; r.Month = intPtr(2) }, wantErr: ErrInvalidDay},
		{name: "day 29 in February fires in leap years", mutate: func(r *Rule) { r.Day = 29; r.Month = intPtr(2) }},
		{name: "day 31 in a 30-day month", mutate: func(r *Rule) { r.Day = 31; r.Month = intPtr(4) }, wantErr: ErrInvalidDay},
		{name: "day 31 in a 31-day month", mutate: func(r *Rule) { r.Day = 31; r.Month = intPtr(1) }},
		{name: "negative amount", mutate: func(r *Rule) { r.Amount = dec("-1") }, wantErr: ErrNegativeAmount},
		{name: "blank description", mutate: func(r *Rule) { r.Description = "  " }, wantErr: ErrEmptyDescription},
		{name: "bad operation", mutate: func(r *Rule) { r.Operation = "multiply" }, wantErr: ErrInvalidOperation},
		{name: "unknown account", mutate: func(r *Rule) { r.Account = "Nope" }, wantErr: ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate(reg)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRuleMatches(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		date Date
		want bool
	}{
		{name: "any month, day matches", rule: Rule{Day: 2}, date: NewDate(2025, 6, 2), want: true},
		{name: "any month, day differs", rule: Rule{Day: 2}, date: NewDate(2025, 6, 3), want: false},
		{name: "month 5 matches May", rule: Rule{Day: 16, Month: intPtr(5)}, date: NewDate(2025, 5, 16), want: true},
		{name: "month 5 skips June", rule: Rule{Day: 16, Month: intPtr(5)}, date: NewDate(2025, 6, 16), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Matches(tt.date); got != tt.want {
				t.Errorf("Matches(%s) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestRuleSummary(t *testing.T) {
	reg := DefaultRegistry(dec("95"))

	add := Rule{Day: 2, Description: "x", Account: FieldSBIOD, Amount: dec("25000"), Operation: OpAdd}
	if got := add.Summary(reg); got != "Every 2 of the month: Add ₹25,000 to SBI Overdraft (₹)." {
		t.Errorf("Summary() = %q", got)
	}

	sub := Rule{Day: 16, Month: intPtr(5), Description: "x", Account: FieldOPEuro, Amount: dec("1200"), Operation: OpSubtract}
	if got := sub.Summary(reg); got != "On May 16: Subtract €1,200 from OP (Euro)." {
		t.Errorf("Summary() = %q", got)
	}
}

func TestSnapshotValidate(t *testing.T) {
	reg := DefaultRegistry(dec("95"))

	ok := Snapshot{GUID: "a", Date: NewDate(2025, 5, 9), Values: Values{FieldHDFC: dec("1")}}
	if err := ok.Validate(reg); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	noDate := Snapshot{GUID: "a"}
	if err := noDate.Validate(reg); err == nil {
		t.Error("expected error for zero date")
	}

	badField := Snapshot{GUID: "a", Date: NewDate(2025, 5, 9), Values: Values{"Mystery": dec("1")}}
	if err := badField.Validate(reg); err == nil {
		t.Error("expected error for unknown field")
	}
}
