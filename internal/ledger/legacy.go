package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Legacy JSON files store each snapshot as one flat object: a GUID key, a
// Date key and one numeric entry per account column. Rules files already
// match the current rule shape. These decoders exist for the one-shot
// import of those files into a configured store.

const (
	legacyGUIDKey = "GUID"
	legacyDateKey = "Date"
)

// ParseLegacySnapshots decodes a legacy financial_data.json payload.
// Unknown columns are rejected; missing columns read as zero later, so they
// are fine here.
func ParseLegacySnapshots(reg core.Registry, data []byte) ([]core.Snapshot, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode legacy snapshots: %w", err)
	}

	snapshots := make([]core.Snapshot, 0, len(raw))
	for i, row := range raw {
		s := core.Snapshot{Values: make(core.Values, len(row))}
		for key, val := range row {
			switch key {
			case legacyGUIDKey:
				if err := json.Unmarshal(val, &s.GUID); err != nil {
					return nil, fmt.Errorf("row %d: decode GUID: %w", i, err)
				}
			case legacyDateKey:
				var ds string
				if err := json.Unmarshal(val, &ds); err != nil {
					return nil, fmt.Errorf("row %d: decode date: %w", i, err)
				}
				d, err := core.ParseDate(ds)
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", i, err)
				}
				s.Date = d
			default:
				if !reg.Has(key) {
					return nil, fmt.Errorf("row %d: %w: %q", i, core.ErrUnknownField, key)
				}
				var num json.Number
				if err := json.Unmarshal(val, &num); err != nil {
					return nil, fmt.Errorf("row %d: field %q: %w", i, key, err)
				}
				d, err := decimal.NewFromString(num.String())
				if err != nil {
					return nil, fmt.Errorf("row %d: field %q: %w", i, key, err)
				}
				s.Values[key] = d
			}
		}
		if s.Date.IsZero() {
			return nil, fmt.Errorf("row %d: %w", i, core.ErrZeroDate)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}

// ParseLegacyRules decodes a legacy prediction_rules.json payload and
// validates each rule against the registry.
func ParseLegacyRules(reg core.Registry, data []byte) ([]core.Rule, error) {
	var rules []core.Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("decode legacy rules: %w", err)
	}
	for i, r := range rules {
		if err := r.Validate(reg); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, r.ID, err)
		}
	}
	return rules, nil
}
