package harness

import (
	"maps"
	"slices"
)

// Attrs is the open-ended bag of extra named attributes carried by a component.
// Values are written verbatim into the part "spec" object on export, so they
// should be JSON-encodable.
type Attrs map[string]any

// Point is a 2-D canvas position. It is stored and exported as given.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Core describes one conductor of a multi-core cable.
type Core struct {
	Number        int           `json:"core_no"`                  // 1-based, unique within the cable
	Gauge         int           `json:"awg,omitempty"`            // AWG
	Color         string        `json:"core_color,omitempty"`     // see the Color* constants
	Label         string        `json:"label,omitempty"`          // optional
	Stranding     string        `json:"stranding,omitempty"`      // optional, see the Stranding* constants
	ConductorType ConductorType `json:"conductor_type,omitempty"` // optional, defaults to stranded on export
}

// Component is a part placed in a harness: a connector, cable, wire or any
// other (generic) item.
//
// Typed per-kind fields are only meaningful for their kind: Positions, Gender
// and Shape for connectors, Cores for cables, Gauge and Color for wires.
// Everything else lives in Attrs.
//
// Designator is assigned when the component is added and must not be changed
// afterwards; connections refer to components by designator only.
type Component struct {
	Kind         Kind
	Designator   string
	MPN          string
	Manufacturer string
	Position     *Point
	Category     Category
	Attrs        Attrs

	// Connector
	Positions int
	Gender    Gender
	Shape     Shape

	// Cable
	Cores []Core

	// Wire
	Gauge int
	Color string
}

// IsConnector reports whether the component is a connector.
func (c *Component) IsConnector() bool { return c.Kind == KindConnector }

// IsCable reports whether the component is a multi-core cable.
func (c *Component) IsCable() bool { return c.Kind == KindCable }

// IsWire reports whether the component is a wire part.
func (c *Component) IsWire() bool { return c.Kind == KindWire }

// Pin returns a reference to pin n of this component.
func (c *Component) Pin(n int) PinRef { return PinRef{Designator: c.Designator, Pin: n} }

// Core returns a reference to core n of this component.
func (c *Component) Core(n int) CoreRef { return CoreRef{Designator: c.Designator, Core: n} }

// CoreNumbers returns the core numbers of a cable in declaration order.
func (c *Component) CoreNumbers() []int {
	nums := make([]int, len(c.Cores))
	for i, core := range c.Cores {
		nums[i] = core.Number
	}
	return nums
}

// HasCore reports whether the cable declares core n.
func (c *Component) HasCore(n int) bool {
	return slices.ContainsFunc(c.Cores, func(core Core) bool { return core.Number == n })
}

// ComponentOption configures a component passed to [Harness.AddComponent].
type ComponentOption func(*componentConfig)

// componentConfig collects options before the component shape is chosen.
// Pointer fields distinguish "not given" from a zero value.
type componentConfig struct {
	designator string
	position   *Point
	category   Category
	positions  *int
	gender     Gender
	shape      Shape
	cores      []Core
	gauge      *int
	color      *string
	attrs      Attrs
}

// WithDesignator uses id instead of an auto-generated designator.
func WithDesignator(id string) ComponentOption {
	return func(c *componentConfig) { c.designator = id }
}

// WithPosition places the component on the canvas.
func WithPosition(x, y float64) ComponentOption {
	return func(c *componentConfig) { c.position = &Point{X: x, Y: y} }
}

// WithCategory sets the component category (fuse, relay, ...).
func WithCategory(category Category) ComponentOption {
	return func(c *componentConfig) { c.category = category }
}

// WithPositions sets the number of pins of a connector.
func WithPositions(n int) ComponentOption {
	return func(c *componentConfig) { c.positions = &n }
}

// WithGender sets a connector's contact gender.
func WithGender(g Gender) ComponentOption {
	return func(c *componentConfig) { c.gender = g }
}

// WithShape sets a connector's housing shape.
func WithShape(s Shape) ComponentOption {
	return func(c *componentConfig) { c.shape = s }
}

// WithCores sets the cores of a cable.
func WithCores(cores ...Core) ComponentOption {
	return func(c *componentConfig) { c.cores = slices.Clone(cores) }
}

// WithGauge sets the AWG of a wire part.
func WithGauge(awg int) ComponentOption {
	return func(c *componentConfig) { c.gauge = &awg }
}

// WithColor sets the color of a wire part.
func WithColor(color string) ComponentOption {
	return func(c *componentConfig) { c.color = &color }
}

// WithAttr adds one extra attribute.
func WithAttr(key string, value any) ComponentOption {
	return func(c *componentConfig) {
		if c.attrs == nil {
			c.attrs = Attrs{}
		}
		c.attrs[key] = value
	}
}

// WithAttrs adds several extra attributes.
func WithAttrs(attrs Attrs) ComponentOption {
	return func(c *componentConfig) {
		if c.attrs == nil {
			c.attrs = Attrs{}
		}
		maps.Copy(c.attrs, attrs)
	}
}

// build dispatches on kind and returns the component shape without a
// designator. Typed options that the kind does not use are kept in Attrs
// under their export names.
func (cfg *componentConfig) build(kind Kind, mpn, manufacturer string) (*Component, error) {
	c := &Component{
		Kind:         kind,
		MPN:          mpn,
		Manufacturer: manufacturer,
		Position:     cfg.position,
		Category:     cfg.category,
		Attrs:        maps.Clone(cfg.attrs),
	}
	if c.Attrs == nil {
		c.Attrs = Attrs{}
	}

	switch kind {
	case KindConnector:
		if cfg.positions == nil {
			return nil, missingField(kind, "positions")
		}
		c.Positions = *cfg.positions
		c.Gender = cfg.gender
		c.Shape = cfg.shape
		cfg.keepCores(c)
		cfg.keepWire(c)
	case KindCable:
		if len(cfg.cores) == 0 {
			return nil, missingField(kind, "cores")
		}
		c.Cores = cfg.cores
		cfg.keepConnector(c)
		cfg.keepWire(c)
	case KindWire:
		if cfg.gauge == nil || cfg.color == nil {
			return nil, missingField(kind, "awg and color")
		}
		c.Gauge = *cfg.gauge
		c.Color = *cfg.color
		cfg.keepConnector(c)
		cfg.keepCores(c)
	default:
		cfg.keepConnector(c)
		cfg.keepCores(c)
		cfg.keepWire(c)
	}
	return c, nil
}

func (cfg *componentConfig) keepConnector(c *Component) {
	if cfg.positions != nil {
		c.Attrs["positions"] = *cfg.positions
	}
	if cfg.gender != "" {
		c.Attrs["contact_gender"] = string(cfg.gender)
	}
	if cfg.shape != "" {
		c.Attrs["shape"] = string(cfg.shape)
	}
}

func (cfg *componentConfig) keepCores(c *Component) {
	if len(cfg.cores) > 0 {
		c.Attrs["cores"] = cfg.cores
	}
}

func (cfg *componentConfig) keepWire(c *Component) {
	if cfg.gauge != nil {
		c.Attrs["awg"] = *cfg.gauge
	}
	if cfg.color != nil {
		c.Attrs["color"] = *cfg.color
	}
}
