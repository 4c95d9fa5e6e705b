package harness

import (
	"testing"

	"github.com/matzehuels/harnesskit/pkg/errors"
)

func TestPrefix(t *testing.T) {
	tests := []struct {
		kind     Kind
		category Category
		want     string
	}{
		{KindConnector, "", "X"},
		{KindCable, "", "C"},
		{KindWire, "", "W"},
		{KindTerminal, "", "T"},
		{"splice", "", "X"},
		{KindConnector, CategoryFuse, "F"},
		{KindConnector, CategoryCircuitBreaker, "CB"},
		{"generic", CategoryRelay, "K"},
		{KindConnector, CategorySwitch, "S"},
		{KindConnector, CategoryPowerSupply, "PS"},
		{KindConnector, CategoryMotor, "M"},
		{KindConnector, CategoryFan, "X"},
	}
	for _, tt := range tests {
		if got := Prefix(tt.kind, tt.category); got != tt.want {
			t.Errorf("Prefix(%q, %q) = %q, want %q", tt.kind, tt.category, got, tt.want)
		}
	}
}

func TestDesignatorsGenerate(t *testing.T) {
	d := NewDesignators()

	got := []string{
		d.Generate(KindConnector, ""),
		d.Generate(KindConnector, ""),
		d.Generate(KindCable, ""),
		d.Generate(KindConnector, CategoryFuse),
		d.Generate(KindConnector, ""),
	}
	want := []string{"X1", "X2", "C1", "F1", "X3"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Generate #%d = %q, want %q", i, got[i], want[i])
		}
	}
	for _, id := range want {
		if !d.IsUsed(id) {
			t.Errorf("IsUsed(%q) = false after Generate", id)
		}
	}
}

func TestDesignatorsSkipsRegistered(t *testing.T) {
	d := NewDesignators()
	if err := d.Register("X2"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if got := d.Generate(KindConnector, ""); got != "X1" {
		t.Errorf("first = %q, want X1", got)
	}
	if got := d.Generate(KindConnector, ""); got != "X3" {
		t.Errorf("second = %q, want X3 (X2 is registered)", got)
	}
}

func TestDesignatorsRegisterDuplicate(t *testing.T) {
	d := NewDesignators()
	if got := d.Generate(KindCable, ""); got != "C1" {
		t.Fatalf("Generate = %q", got)
	}

	err := d.Register("C1")
	if !errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
		t.Fatalf("Register(C1) = %v, want DUPLICATE_IDENTIFIER", err)
	}
	if err := d.Register("C9"); err != nil {
		t.Errorf("Register(C9) = %v", err)
	}
}

func TestDesignatorsReset(t *testing.T) {
	d := NewDesignators()
	d.Generate(KindWire, "")
	d.Generate(KindWire, "")
	d.Reset()

	if d.IsUsed("W1") {
		t.Error("W1 still used after Reset")
	}
	if got := d.Generate(KindWire, ""); got != "W1" {
		t.Errorf("Generate after Reset = %q, want W1", got)
	}
}
