// Package pkg provides the harnesskit libraries for wiring-harness designs.
//
// # Overview
//
// A harness is a set of components (connectors, cables and auxiliary parts)
// joined by connections. The libraries build harnesses, check them, and
// export them as wire-list documents. They are organized into these areas:
//
//  1. [harness] - the component graph and its designator allocator
//  2. [validate] - integrity checks producing errors and warnings
//  3. [export] - the exchange document (catalog, wire map, canvas data)
//  4. [design] - TOML, YAML and JSON design files
//  5. [diagram] - DOT and SVG connectivity diagrams
//  6. [pipeline] - load → validate → serialize → diagram orchestration
//  7. [store], [cache], [upload] - persistence, caching and publishing
//
// # Architecture
//
//	design file (TOML/YAML/JSON)
//	         ↓
//	    [design] package (decode + build)
//	         ↓
//	    [harness] package (components, connections, labels)
//	         ↓
//	    [validate] package (diagnostics)
//	         ↓
//	    [export] / [diagram] packages (document JSON, DOT, SVG)
//
// # Quick Start
//
//	h := harness.New("Sensor loom", "")
//	x1, _ := h.AddComponent(harness.KindConnector, "43025-0400", "Molex", harness.WithPositions(4))
//	c1, _ := h.AddComponent(harness.KindCable, "2464-3C", "Belden",
//	    harness.WithCores(harness.Core{Number: 1, Gauge: 22, Color: harness.ColorRed}))
//	h.Connect(x1.Pin(1), c1.Core(1))
//
//	if err := validate.Validate(h).Err(); err != nil {
//	    return err
//	}
//	data, err := export.Marshal(h)
//
// # Error Handling
//
// Errors carry a machine-readable code from the [errors] package:
//
//	if errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
//	    // designator already taken
//	}
//
// # Observability
//
// The [observability] package lets an application receive pipeline, store,
// cache and HTTP events without the libraries depending on a metrics
// backend.
//
// [harness]: https://pkg.go.dev/github.com/matzehuels/harnesskit/pkg/harness
// [validate]: https://pkg.go.dev/github.com/matzehuels/harnesskit/pkg/validate
// [export]: https://pkg.go.dev/github.com/matzehuels/harnesskit/pkg/export
// [design]: https://pkg.go.dev/github.com/matzehuels/harnesskit/pkg/design
// [diagram]: https://pkg.go.dev/github.com/matzehuels/harnesskit/pkg/diagram
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/harnesskit/pkg/pipeline
// [store]: https://pkg.go.dev/github.com/matzehuels/harnesskit/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/harnesskit/pkg/cache
// [upload]: https://pkg.go.dev/github.com/matzehuels/harnesskit/pkg/upload
// [errors]: https://pkg.go.dev/github.com/matzehuels/harnesskit/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/harnesskit/pkg/observability
package pkg
