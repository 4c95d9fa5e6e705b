package validate

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/harnesskit/pkg/errors"
	"github.com/matzehuels/harnesskit/pkg/harness"
)

var wire = harness.WireSpec{MPN: "UL1007-22-BK", Manufacturer: "Alpha Wire", Gauge: 22, Color: harness.ColorBlack}

func connector(t *testing.T, h *harness.Harness, positions int) *harness.Component {
	t.Helper()
	c, err := h.AddComponent(harness.KindConnector, "43025-0400", "Molex", harness.WithPositions(positions))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func cable(t *testing.T, h *harness.Harness, cores ...int) *harness.Component {
	t.Helper()
	var cs []harness.Core
	for _, n := range cores {
		cs = append(cs, harness.Core{Number: n, Gauge: 22, Color: harness.ColorRed})
	}
	c, err := h.AddComponent(harness.KindCable, "2464-3C", "Belden", harness.WithCores(cs...))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func connect(t *testing.T, h *harness.Harness, a, b harness.Endpoint) {
	t.Helper()
	if _, err := h.Connect(a, b, harness.WithWire(wire)); err != nil {
		t.Fatal(err)
	}
}

func countContaining(msgs []string, sub string) int {
	n := 0
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			n++
		}
	}
	return n
}

func TestEmptyHarness(t *testing.T) {
	res := Validate(harness.New("T", ""))
	if res.Valid {
		t.Fatal("empty harness reported valid")
	}
	if !slices.Equal(res.Errors, []string{"Harness has no components"}) {
		t.Errorf("Errors = %q", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %q, want none", res.Warnings)
	}
	if !errors.Is(res.Err(), errors.ErrCodeValidationFailed) {
		t.Errorf("Err() = %v, want VALIDATION_FAILED", res.Err())
	}
}

func TestSingleConnectorUnconnected(t *testing.T) {
	h := harness.New("T", "")
	connector(t, h, 2)

	res := Validate(h)
	if !res.Valid {
		t.Fatalf("Errors = %q", res.Errors)
	}
	want := []string{"Connector X1 has unconnected pins: [1, 2]"}
	if !slices.Equal(res.Warnings, want) {
		t.Errorf("Warnings = %q, want %q", res.Warnings, want)
	}
	if res.Err() != nil {
		t.Errorf("Err() = %v, want nil", res.Err())
	}
}

func TestPinRange(t *testing.T) {
	tests := []struct {
		name    string
		pin1    int
		pin2    int
		wantErr int
	}{
		{"both in range", 1, 3, 0},
		{"upper bound", 3, 3, 0},
		{"one above", 4, 1, 1},
		{"zero pin", 0, 1, 1},
		{"both out", 5, -1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := harness.New("T", "")
			x1 := connector(t, h, 3)
			x2 := connector(t, h, 3)
			connect(t, h, x1.Pin(tt.pin1), x2.Pin(tt.pin2))

			res := Validate(h)
			if got := countContaining(res.Errors, "invalid pin"); got != tt.wantErr {
				t.Errorf("invalid pin errors = %d, want %d (%q)", got, tt.wantErr, res.Errors)
			}
			if res.Valid != (tt.wantErr == 0) {
				t.Errorf("Valid = %v", res.Valid)
			}
		})
	}
}

func TestPinRangeMessage(t *testing.T) {
	h := harness.New("T", "")
	x1 := connector(t, h, 2)
	x2 := connector(t, h, 2)
	connect(t, h, x1.Pin(1), x2.Pin(3))

	res := Validate(h)
	want := "Connection 0 references invalid pin 3 on X2 (valid range: 1-2)"
	if !slices.Contains(res.Errors, want) {
		t.Errorf("Errors = %q, want %q", res.Errors, want)
	}
}

func TestCoreUsage(t *testing.T) {
	for edges := 1; edges <= 4; edges++ {
		h := harness.New("T", "")
		c1 := cable(t, h, 1, 2)
		x1 := connector(t, h, 4)
		for i := range edges {
			if _, err := h.Connect(x1.Pin(i+1), c1.Core(1)); err != nil {
				t.Fatal(err)
			}
		}

		res := Validate(h)
		got := countContaining(res.Errors, "Cable core C1.1 has")
		want := 0
		if edges > 2 {
			want = 1
		}
		if got != want {
			t.Errorf("%d edges: core errors = %d, want %d (%q)", edges, got, want, res.Errors)
		}
		if countContaining(res.Errors, "C1.2") != 0 {
			t.Errorf("%d edges: unexpected error for C1.2", edges)
		}
	}
}

func TestCoreUsageSamePinTwice(t *testing.T) {
	h := harness.New("T", "")
	c1 := cable(t, h, 1)
	x1 := connector(t, h, 1)
	for range 2 {
		if _, err := h.Connect(x1.Pin(1), c1.Core(1)); err != nil {
			t.Fatal(err)
		}
	}

	res := Validate(h)
	if !res.Valid {
		t.Errorf("Errors = %q", res.Errors)
	}
	if !slices.Contains(res.Warnings, "Pin X1.1 used in multiple connections") {
		t.Errorf("Warnings = %q", res.Warnings)
	}
}

func TestUnknownReferences(t *testing.T) {
	h := harness.New("T", "")
	x1 := connector(t, h, 1)
	c1 := cable(t, h, 1, 2)
	connect(t, h, x1.Pin(1), harness.Pin("X9", 1))
	if _, err := h.Connect(c1.Core(7), harness.CoreOf("C9", 1)); err != nil {
		t.Fatal(err)
	}

	res := Validate(h)
	for _, want := range []string{
		"Connection 0 references unknown component: X9",
		"Connection 1 references invalid core 7 on C1",
		"Connection 1 references unknown component: C9",
	} {
		if !slices.Contains(res.Errors, want) {
			t.Errorf("missing error %q in %q", want, res.Errors)
		}
	}
}

func TestComponentFields(t *testing.T) {
	h := harness.New("T", "")
	x1 := connector(t, h, 1)
	c1 := cable(t, h, 1, 2)
	if _, err := h.AddComponent("clip", "", "", harness.WithDesignator("CL1")); err != nil {
		t.Fatal(err)
	}

	x1.Positions = 0
	c1.Cores = append(c1.Cores, harness.Core{Number: 2}, harness.Core{Number: 0})
	c1.Designator = "X1"

	res := Validate(h)
	for _, want := range []string{
		"Duplicate designator: X1",
		"Component CL1 missing MPN",
		"Component CL1 missing manufacturer",
		"Connector X1 has invalid positions: 0",
		"Cable X1 has duplicate core number: 2",
		"Cable X1 has invalid core number: 0",
	} {
		if !slices.Contains(res.Errors, want) {
			t.Errorf("missing error %q in %q", want, res.Errors)
		}
	}
}

func TestUnconnectedCores(t *testing.T) {
	h := harness.New("T", "")
	c1 := cable(t, h, 3, 1, 2)
	if _, err := h.Connect(c1.Core(2), harness.Lead(harness.FlyingLeadBare)); err != nil {
		t.Fatal(err)
	}

	res := Validate(h)
	want := []string{"Cable C1 has unconnected cores: [1, 3]"}
	if !slices.Equal(res.Warnings, want) {
		t.Errorf("Warnings = %q, want %q", res.Warnings, want)
	}
}

func TestValidateIsDeterministic(t *testing.T) {
	h := harness.New("T", "")
	x1 := connector(t, h, 4)
	x2 := connector(t, h, 2)
	c1 := cable(t, h, 1, 2, 3)
	connect(t, h, x1.Pin(1), x2.Pin(5))
	connect(t, h, x1.Pin(1), x2.Pin(1))
	for range 3 {
		if _, err := h.Connect(x1.Pin(2), c1.Core(3)); err != nil {
			t.Fatal(err)
		}
	}

	first := Validate(h)
	for range 5 {
		again := Validate(h)
		if !slices.Equal(first.Errors, again.Errors) || !slices.Equal(first.Warnings, again.Warnings) {
			t.Fatalf("diagnostics changed:\n%+v\n%+v", first, again)
		}
	}
}
