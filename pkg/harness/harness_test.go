package harness

import (
	"testing"

	"github.com/matzehuels/harnesskit/pkg/errors"
)

var testWire = WireSpec{MPN: "UL1007-22-RD", Manufacturer: "Alpha Wire", Gauge: 22, Color: ColorRed}

func mustComponent(t *testing.T, h *Harness, kind Kind, opts ...ComponentOption) *Component {
	t.Helper()
	c, err := h.AddComponent(kind, "MPN", "Acme", opts...)
	if err != nil {
		t.Fatalf("AddComponent(%s): %v", kind, err)
	}
	return c
}

func TestAddComponentGeneratesDesignators(t *testing.T) {
	h := New("T", "")
	x1 := mustComponent(t, h, KindConnector, WithPositions(2))
	c1 := mustComponent(t, h, KindCable, WithCores(Core{Number: 1, Gauge: 22, Color: ColorRed}))
	f1 := mustComponent(t, h, "fuse_holder", WithCategory(CategoryFuse))
	x2 := mustComponent(t, h, KindConnector, WithPositions(4))

	for _, tt := range []struct{ got, want string }{
		{x1.Designator, "X1"}, {c1.Designator, "C1"}, {f1.Designator, "F1"}, {x2.Designator, "X2"},
	} {
		if tt.got != tt.want {
			t.Errorf("designator = %q, want %q", tt.got, tt.want)
		}
	}
	if h.ComponentCount() != 4 {
		t.Errorf("ComponentCount = %d, want 4", h.ComponentCount())
	}
	if c, ok := h.Component("C1"); !ok || c != c1 {
		t.Error("Component(C1) did not return the stored cable")
	}
}

func TestAddComponentRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		opts []ComponentOption
	}{
		{"connector without positions", KindConnector, nil},
		{"cable without cores", KindCable, []ComponentOption{WithCores()}},
		{"wire without color", KindWire, []ComponentOption{WithGauge(18)}},
		{"wire without gauge", KindWire, []ComponentOption{WithColor(ColorBlack)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New("T", "")
			_, err := h.AddComponent(tt.kind, "MPN", "Acme", tt.opts...)
			if !errors.Is(err, errors.ErrCodeMissingField) {
				t.Fatalf("err = %v, want MISSING_FIELD", err)
			}
			if h.ComponentCount() != 0 {
				t.Errorf("ComponentCount = %d after failed add", h.ComponentCount())
			}
			if h.IsUsed(Prefix(tt.kind, "") + "1") {
				t.Error("failed add consumed a designator")
			}
		})
	}
}

func TestAddComponentDuplicateDesignator(t *testing.T) {
	h := New("T", "")
	mustComponent(t, h, KindConnector, WithPositions(2), WithDesignator("J1"))
	before := len(h.Components())

	_, err := h.AddComponent(KindConnector, "MPN", "Acme", WithPositions(2), WithDesignator("J1"))
	if !errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
		t.Fatalf("err = %v, want DUPLICATE_IDENTIFIER", err)
	}
	if after := len(h.Components()); after != before {
		t.Errorf("components = %d, want %d", after, before)
	}
}

func TestAddComponentSuppliedDesignatorBlocksGenerated(t *testing.T) {
	h := New("T", "")
	mustComponent(t, h, KindConnector, WithPositions(2), WithDesignator("X1"))
	x := mustComponent(t, h, KindConnector, WithPositions(2))
	if x.Designator != "X2" {
		t.Errorf("generated designator = %q, want X2", x.Designator)
	}
}

func TestIsUsed(t *testing.T) {
	h := New("T", "")
	mustComponent(t, h, KindConnector, WithPositions(2), WithDesignator("J7"))
	mustComponent(t, h, KindWire, WithGauge(22), WithColor(ColorRed))

	for _, id := range []string{"J7", "W1"} {
		if !h.IsUsed(id) {
			t.Errorf("IsUsed(%q) = false", id)
		}
	}
	if h.IsUsed("X1") {
		t.Error("IsUsed(X1) = true before any connector was generated")
	}

	h.Clear()
	if h.IsUsed("J7") || h.IsUsed("W1") {
		t.Error("Clear kept reserved designators")
	}
}

func TestAddComponentInvalidDesignator(t *testing.T) {
	h := New("T", "")
	_, err := h.AddComponent(KindConnector, "MPN", "Acme", WithPositions(2), WithDesignator("X 1"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestAddComponentKeepsUnusedOptionsAsAttrs(t *testing.T) {
	h := New("T", "")
	g := mustComponent(t, h, "relay_socket",
		WithCategory(CategoryRelay),
		WithPositions(5),
		WithGender(GenderFemale),
		WithAttr("coil_voltage", "12V"))

	if g.Designator != "K1" {
		t.Errorf("designator = %q, want K1", g.Designator)
	}
	if g.Positions != 0 {
		t.Errorf("generic Positions = %d, want 0", g.Positions)
	}
	if g.Attrs["positions"] != 5 {
		t.Errorf("Attrs[positions] = %v, want 5", g.Attrs["positions"])
	}
	if g.Attrs["contact_gender"] != "female" {
		t.Errorf("Attrs[contact_gender] = %v", g.Attrs["contact_gender"])
	}
	if g.Attrs["coil_voltage"] != "12V" {
		t.Errorf("Attrs[coil_voltage] = %v", g.Attrs["coil_voltage"])
	}
}

func TestConnect(t *testing.T) {
	h := New("T", "")
	x1 := mustComponent(t, h, KindConnector, WithPositions(2))
	x2 := mustComponent(t, h, KindConnector, WithPositions(2))
	c1 := mustComponent(t, h, KindCable, WithCores(Core{Number: 1}, Core{Number: 2}))

	t.Run("wire required", func(t *testing.T) {
		_, err := h.Connect(x1.Pin(1), x2.Pin(1))
		if !errors.Is(err, errors.ErrCodeMissingWire) {
			t.Fatalf("err = %v, want MISSING_WIRE", err)
		}
		if h.ConnectionCount() != 0 {
			t.Error("failed Connect stored a connection")
		}
	})

	t.Run("core end needs no wire", func(t *testing.T) {
		if _, err := h.Connect(x1.Pin(2), c1.Core(1)); err != nil {
			t.Fatalf("pin to core: %v", err)
		}
		if _, err := h.Connect(c1.Core(1), Lead(FlyingLeadTinned)); err != nil {
			t.Fatalf("core to lead: %v", err)
		}
	})

	t.Run("nil endpoint", func(t *testing.T) {
		_, err := h.Connect(nil, x2.Pin(1), WithWire(testWire))
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Fatalf("err = %v, want INVALID_INPUT", err)
		}
	})

	t.Run("endpoints not checked", func(t *testing.T) {
		if _, err := h.Connect(Pin("NOPE", 99), x2.Pin(7), WithWire(testWire)); err != nil {
			t.Fatalf("Connect: %v", err)
		}
	})

	if h.ConnectionCount() != 3 {
		t.Errorf("ConnectionCount = %d, want 3", h.ConnectionCount())
	}
}

func TestConnectionsAreCopies(t *testing.T) {
	h := New("T", "")
	x1 := mustComponent(t, h, KindConnector, WithPositions(1))
	x2 := mustComponent(t, h, KindConnector, WithPositions(1))
	if _, err := h.Connect(x1.Pin(1), x2.Pin(1), WithWire(testWire), WithLength(100)); err != nil {
		t.Fatal(err)
	}

	conns := h.Connections()
	conns[0].Wire.Gauge = 10
	*conns[0].LengthMM = 5

	again := h.Connections()[0]
	if again.Wire.Gauge != 22 || *again.LengthMM != 100 {
		t.Errorf("stored connection changed: gauge=%d length=%v", again.Wire.Gauge, *again.LengthMM)
	}
}

func TestCoreEnd(t *testing.T) {
	tests := []struct {
		name      string
		conn      Connection
		wantCore  CoreRef
		wantLabel string
		wantOK    bool
	}{
		{"pin to core", Connection{End1: Pin("X1", 1), End2: CoreOf("C1", 2), LabelEnd1: "a"}, CoreOf("C1", 2), "a", true},
		{"core to lead", Connection{End1: CoreOf("C1", 1), End2: Lead(""), LabelEnd2: "b"}, CoreOf("C1", 1), "b", true},
		{"core jumper", Connection{End1: CoreOf("C1", 1), End2: CoreOf("C2", 1)}, CoreOf("C1", 1), "", true},
		{"pin to pin", Connection{End1: Pin("X1", 1), End2: Pin("X2", 1)}, CoreRef{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, _, label, ok := tt.conn.CoreEnd()
			if ok != tt.wantOK || core != tt.wantCore || label != tt.wantLabel {
				t.Errorf("CoreEnd() = %v, %q, %v; want %v, %q, %v", core, label, ok, tt.wantCore, tt.wantLabel, tt.wantOK)
			}
		})
	}
}

func TestLabels(t *testing.T) {
	h := New("T", "")
	x1 := mustComponent(t, h, KindConnector, WithPositions(2))
	c1 := mustComponent(t, h, KindCable, WithCores(Core{Number: 1}))

	t.Run("target required", func(t *testing.T) {
		if _, err := h.AddLabel("none"); !errors.Is(err, errors.ErrCodeMissingTarget) {
			t.Errorf("no target: err = %v", err)
		}
		if _, err := h.AddLabel("both", OnConnector("X1"), OnCable("C1")); !errors.Is(err, errors.ErrCodeMissingTarget) {
			t.Errorf("two targets: err = %v", err)
		}
		if _, err := h.AddLabel("ghost", OnConnector("X9")); !errors.Is(err, errors.ErrCodeMissingTarget) {
			t.Errorf("unknown target: err = %v", err)
		}
	})

	t.Run("bad color", func(t *testing.T) {
		_, err := h.AddLabel("x", OnConnector("X1"), WithTextColor("red"))
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("err = %v, want INVALID_INPUT", err)
		}
	})

	if n := len(h.Labels(LabelFilter{})); n != 0 {
		t.Fatalf("failed calls stored %d labels", n)
	}

	power, err := h.AddLabel("POWER", OnConnector(x1.Designator))
	if err != nil {
		t.Fatal(err)
	}
	if power.ID == "" || power.WidthMM != DefaultLabelWidthMM || power.FontSize != DefaultLabelFontSize {
		t.Errorf("defaults not applied: %+v", power)
	}
	if power.TextColor != "#000000" || power.BackgroundColor != "#FFFFFF" {
		t.Errorf("colors = %s on %s", power.TextColor, power.BackgroundColor)
	}

	h.SetLabelSettings(LabelSettings{ShowOnCanvas: false, DefaultWidthMM: 12})
	auto, err := h.AddLabel("", OnCable(c1.Designator), AutoDesignator(), WithCableEnd(CableEndBoth))
	if err != nil {
		t.Fatal(err)
	}
	if auto.Text != "C1" || !auto.AutoGenerated {
		t.Errorf("auto label = %q (auto=%v)", auto.Text, auto.AutoGenerated)
	}
	if auto.WidthMM != 12 {
		t.Errorf("WidthMM = %v, want settings default 12", auto.WidthMM)
	}

	if got := h.Labels(LabelFilter{Cable: "C1"}); len(got) != 1 || got[0].ID != auto.ID {
		t.Errorf("Labels(cable C1) = %v", got)
	}
	if got := h.Labels(LabelFilter{Connector: "X1"}); len(got) != 1 || got[0].ID != power.ID {
		t.Errorf("Labels(connector X1) = %v", got)
	}

	if err := h.RemoveLabel(power.ID); err != nil {
		t.Fatalf("RemoveLabel: %v", err)
	}
	if err := h.RemoveLabel(power.ID); !errors.Is(err, errors.ErrCodeLabelNotFound) {
		t.Errorf("second RemoveLabel = %v, want LABEL_NOT_FOUND", err)
	}
	if n := len(h.Labels(LabelFilter{})); n != 1 {
		t.Errorf("labels after remove = %d, want 1", n)
	}
}

func TestNotesAndClear(t *testing.T) {
	h := New("T", "desc")
	mustComponent(t, h, KindConnector, WithPositions(1))
	n := h.AddNote(Point{X: 10, Y: 20}, "Check", "torque to 0.5Nm")
	if n.ID == "" || len(n.Content) != 1 {
		t.Errorf("note = %+v", n)
	}
	empty := h.AddNote(Point{}, "Empty")
	if empty.Content == nil {
		t.Error("Content is nil, want empty slice")
	}

	h.Clear()
	if h.ComponentCount() != 0 || len(h.Notes()) != 0 {
		t.Error("Clear left state behind")
	}
	if h.Name() != "T" || h.Description() != "desc" {
		t.Error("Clear dropped name or description")
	}
	x := mustComponent(t, h, KindConnector, WithPositions(1))
	if x.Designator != "X1" {
		t.Errorf("designator after Clear = %q, want X1", x.Designator)
	}
}
