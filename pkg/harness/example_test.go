package harness_test

import (
	"fmt"

	"github.com/matzehuels/harnesskit/pkg/harness"
)

func ExampleHarness_AddComponent() {
	h := harness.New("Sensor loom", "")
	x1, _ := h.AddComponent(harness.KindConnector, "43025-0400", "Molex", harness.WithPositions(4))
	c1, _ := h.AddComponent(harness.KindCable, "2464-3C", "Belden",
		harness.WithCores(
			harness.Core{Number: 1, Gauge: 22, Color: harness.ColorRed},
			harness.Core{Number: 2, Gauge: 22, Color: harness.ColorBlack},
		))
	f1, _ := h.AddComponent("fuse_holder", "0287005", "Littelfuse", harness.WithCategory(harness.CategoryFuse))

	fmt.Println(x1.Designator, c1.Designator, f1.Designator)
	// Output:
	// X1 C1 F1
}

func ExampleHarness_Connect() {
	h := harness.New("Jumper", "")
	x1, _ := h.AddComponent(harness.KindConnector, "43025-0200", "Molex", harness.WithPositions(2))
	x2, _ := h.AddComponent(harness.KindConnector, "43025-0200", "Molex", harness.WithPositions(2))

	_, err := h.Connect(x1.Pin(1), x2.Pin(1))
	fmt.Println(err != nil)

	conn, _ := h.Connect(x1.Pin(1), x2.Pin(1),
		harness.WithWire(harness.WireSpec{MPN: "UL1007-22-RD", Manufacturer: "Alpha", Gauge: 22, Color: harness.ColorRed}),
		harness.WithLength(100))
	fmt.Println(conn.End1, "->", conn.End2)
	// Output:
	// true
	// X1.1 -> X2.1
}
