// Package core holds the domain model shared by every component: the account
// field registry, snapshots, prediction rules and projected events.
package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	CurrencyRupee Currency = "rupee"
	CurrencyEuro  Currency = "euro"
)

const (
	TotalAdd      TotalOp = "add"
	TotalSubtract TotalOp = "subtract"
	TotalSkip     TotalOp = "skip"
)

type (
	// Currency tags a field with its currency kind. It replaces the old
	// substring sniffing on field names ("does it contain Euro").
	Currency string

	// TotalOp says how a field participates in the grand total.
	TotalOp string

	// Field describes one named account column.
	Field struct {
		Name     string
		Currency Currency
		Derived  bool
		TotalOp  TotalOp
	}

	// Registry is the single ordered list of account fields plus the two
	// derivation formulas (currency conversion and grand total). It is
	// immutable after construction and injected into every component that
	// reads or writes account values, so column order and totals cannot
	// drift between them.
	Registry struct {
		fields    []Field
		byName    map[string]Field
		euroField string
		converted string
		total     string
		rate      decimal.Decimal
	}

	// Values holds one amount per registry field, keyed by field name.
	// Missing fields read as zero.
	Values map[string]decimal.Decimal
)

// Field names of the default registry.
const (
	FieldHDFC        = "HDFC (₹)"
	FieldICICI       = "ICICI (₹)"
	FieldSBI         = "SBI (₹)"
	FieldSBIOD       = "SBI Overdraft (₹)"
	FieldOPRupee     = "OP (₹)"
	FieldGrowStock   = "Grow Stock (₹)"
	FieldGrowMutual  = "Grow Mutual Funds (₹)"
	FieldNeedToGet   = "Need to get"
	FieldCreditCard  = "Credit card+ other exp"
	FieldTotal       = "Total (₹)"
	FieldOPEuro      = "OP (Euro)"
)

var ErrUnknownField = errors.New("unknown account field")

// NewRegistry builds a registry from an ordered field list. euroField is the
// secondary-currency source, converted the field derived from it, total the
// grand-total field. rate is the fixed conversion rate applied to euroField.
func NewRegistry(fields []Field, euroField, converted, total string, rate decimal.Decimal) (Registry, error) {
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return Registry{}, errors.New("field with empty name")
		}
		if _, dup := byName[f.Name]; dup {
			return Registry{}, fmt.Errorf("duplicate field %q", f.Name)
		}
		byName[f.Name] = f
	}
	for _, name := range []string{euroField, converted, total} {
		if _, ok := byName[name]; !ok {
			return Registry{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}
	return Registry{
		fields:    append([]Field(nil), fields...),
		byName:    byName,
		euroField: euroField,
		converted: converted,
		total:     total,
		rate:      rate,
	}, nil
}

// DefaultRegistry returns the tracker's account columns in display order.
// rate is the Euro to Rupee conversion rate (a business constant, supplied
// by configuration rather than hardcoded here).
func DefaultRegistry(rate decimal.Decimal) Registry {
	fields := []Field{
		{Name: FieldHDFC, Currency: CurrencyRupee, TotalOp: TotalAdd},
		{Name: FieldICICI, Currency: CurrencyRupee, TotalOp: TotalAdd},
		{Name: FieldSBI, Currency: CurrencyRupee, TotalOp: TotalAdd},
		{Name: FieldSBIOD, Currency: CurrencyRupee, TotalOp: TotalAdd},
		{Name: FieldOPRupee, Currency: CurrencyRupee, Derived: true, TotalOp: TotalAdd},
		{Name: FieldGrowStock, Currency: CurrencyRupee, TotalOp: TotalAdd},
		{Name: FieldGrowMutual, Currency: CurrencyRupee, TotalOp: TotalAdd},
		{Name: FieldNeedToGet, Currency: CurrencyRupee, TotalOp: TotalAdd},
		{Name: FieldCreditCard, Currency: CurrencyRupee, TotalOp: TotalSubtract},
		{Name: FieldTotal, Currency: CurrencyRupee, Derived: true, TotalOp: TotalSkip},
		{Name: FieldOPEuro, Currency: CurrencyEuro, TotalOp: TotalSkip},
	}
	reg, err := NewRegistry(fields, FieldOPEuro, FieldOPRupee, FieldTotal, rate)
	if err != nil {
		// The default field list is a compile-time constant; a failure here
		// is a programming error.
		panic(err)
	}
	return reg
}

// Fields returns the ordered field list.
func (r Registry) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

// Names returns the ordered field names, including derived fields.
func (r Registry) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// Has reports whether name is a registry field.
func (r Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Lookup returns the descriptor for name.
func (r Registry) Lookup(name string) (Field, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// EuroField returns the secondary-currency source field name.
func (r Registry) EuroField() string { return r.euroField }

// ConvertedField returns the name of the field derived from the euro field.
func (r Registry) ConvertedField() string { return r.converted }

// TotalField returns the grand-total field name.
func (r Registry) TotalField() string { return r.total }

// Rate returns the fixed currency conversion rate.
func (r Registry) Rate() decimal.Decimal { return r.rate }

// Symbol returns the currency symbol for a field, for display formatting.
func (r Registry) Symbol(name string) string {
	if f, ok := r.byName[name]; ok && f.Currency == CurrencyEuro {
		return "€"
	}
	return "₹"
}

// Convert recomputes the converted-currency field from the euro field.
func (r Registry) Convert(v Values) {
	v[r.converted] = v.Get(r.euroField).Mul(r.rate)
}

// Total applies the grand-total formula to v without mutating it.
func (r Registry) Total(v Values) decimal.Decimal {
	total := decimal.Zero
	for _, f := range r.fields {
		if f.Name == r.total {
			continue
		}
		switch f.TotalOp {
		case TotalAdd:
			total = total.Add(v.Get(f.Name))
		case TotalSubtract:
			total = total.Sub(v.Get(f.Name))
		}
	}
	return total
}

// Recompute refreshes both derived fields in place: the converted-currency
// field first, then the grand total.
func (r Registry) Recompute(v Values) {
	r.Convert(v)
	v[r.total] = r.Total(v)
}

// Get returns the amount for name, or zero when the field is absent.
func (v Values) Get(name string) decimal.Decimal {
	if d, ok := v[name]; ok {
		return d
	}
	return decimal.Zero
}

// Clone returns an independent copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, d := range v {
		out[k] = d
	}
	return out
}
