// Package harness provides the in-memory model of a wiring-harness design.
//
// # Overview
//
// A [Harness] holds components (connectors, multi-core cables, wire parts and
// generic items such as fuses or relays), the connections between their pins
// and cable cores, bundle labels and free-form design notes. It is the input
// to the validate and export packages.
//
// # Basic Usage
//
// Add components with [Harness.AddComponent] and connect endpoints with
// [Harness.Connect]:
//
//	h := harness.New("Sensor loom", "")
//	x1, _ := h.AddComponent(harness.KindConnector, "43025-0400", "Molex", harness.WithPositions(4))
//	x2, _ := h.AddComponent(harness.KindConnector, "43025-0400", "Molex", harness.WithPositions(4))
//	_, _ = h.Connect(x1.Pin(1), x2.Pin(1),
//		harness.WithWire(harness.WireSpec{MPN: "UL1007-22-RD", Manufacturer: "Alpha", Gauge: 22, Color: harness.ColorRed}),
//		harness.WithLength(250))
//
// # Designators
//
// Every component has a unique designator. Unless one is supplied with
// [WithDesignator], the harness's [Designators] allocator generates one from
// the kind and category prefix ("X1", "C1", "W1", "F1", "CB1", ...). Supplied
// designators are reserved in the same allocator, so generated ones never
// collide with them.
//
// # Endpoints
//
// A connection joins two [Endpoint] values: a [PinRef], a [CoreRef] or a
// [FlyingLead]. A cable core is a conductor in its own right, so a connection
// touching a core needs no [WireSpec]; every other connection does.
//
// # Errors
//
// Construction errors carry codes from the errors package (MISSING_FIELD,
// DUPLICATE_IDENTIFIER, MISSING_WIRE, MISSING_TARGET, LABEL_NOT_FOUND) and
// never leave partial state behind. Structural problems such as pins out of
// range are not construction errors; they are reported by validate.Validate.
//
// # Concurrency
//
// A Harness must not be mutated concurrently. Distinct harnesses share nothing
// and may be used from different goroutines.
package harness
