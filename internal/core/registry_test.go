package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDefaultRegistryOrder(t *testing.T) {
	reg := DefaultRegistry(dec("95"))

	want := []string{
		FieldHDFC, FieldICICI, FieldSBI, FieldSBIOD, FieldOPRupee,
		FieldGrowStock, FieldGrowMutual, FieldNeedToGet, FieldCreditCard,
		FieldTotal, FieldOPEuro,
	}
	got := reg.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() returned %d fields, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistryConvert(t *testing.T) {
	reg := DefaultRegistry(dec("95"))
	v := Values{FieldOPEuro: dec("1300")}

	reg.Convert(v)

	if !v.Get(FieldOPRupee).Equal(dec("123500")) {
		t.Errorf("converted field = %s, want 123500", v.Get(FieldOPRupee))
	}
}

func TestRegistryTotal(t *testing.T) {
	reg := DefaultRegistry(dec("95"))

	v := Values{
		FieldHDFC:       dec("6357"),
		FieldICICI:      dec("56752"),
		FieldSBI:        dec("81000"),
		FieldSBIOD:      dec("815000"),
		FieldGrowStock:  dec("20000"),
		FieldGrowMutual: dec("203000"),
		FieldNeedToGet:  dec("443780"),
		FieldCreditCard: dec("565000"),
		FieldOPEuro:     dec("1300"),
	}
	reg.Recompute(v)

	// 6357+56752+81000+815000+123500+20000+203000+443780-565000
	if !v.Get(FieldTotal).Equal(dec("1184389")) {
		t.Errorf("total = %s, want 1184389", v.Get(FieldTotal))
	}
	// The euro balance itself must not enter the total, only its conversion.
	v[FieldOPEuro] = dec("0")
	if !reg.Total(v).Equal(dec("1184389")) {
		t.Errorf("total must not include the euro field directly")
	}
}

func TestRegistryTotalMissingFieldsReadAsZero(t *testing.T) {
	reg := DefaultRegistry(dec("95"))
	v := Values{FieldHDFC: dec("100")}

	reg.Recompute(v)

	if !v.Get(FieldTotal).Equal(dec("100")) {
		t.Errorf("total = %s, want 100", v.Get(FieldTotal))
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	fields := []Field{
		{Name: "A", Currency: CurrencyRupee, TotalOp: TotalAdd},
		{Name: "A", Currency: CurrencyRupee, TotalOp: TotalAdd},
	}
	if _, err := NewRegistry(fields, "A", "A", "A", dec("1")); err == nil {
		t.Fatal("expected error for duplicate field names")
	}
}

func TestValuesCloneIsIndependent(t *testing.T) {
	v := Values{FieldHDFC: dec("1")}
	c := v.Clone()
	c[FieldHDFC] = dec("2")

	if !v.Get(FieldHDFC).Equal(dec("1")) {
		t.Error("mutating clone changed the original")
	}
}
