// Package design reads harness descriptions from TOML, YAML or JSON files.
//
// A design file lists components, connections, labels and notes in the
// order they should be added to the harness:
//
//	name = "Sensor loom"
//
//	[[components]]
//	kind = "connector"
//	mpn = "43025-0400"
//	manufacturer = "Molex"
//	positions = 4
//
//	[[components]]
//	kind = "cable"
//	designator = "C1"
//	mpn = "2464-3C"
//	manufacturer = "Belden"
//	cores = [{number = 1, awg = 22, color = "red"}, {number = 2, awg = 22, color = "black"}]
//
//	[[connections]]
//	end1 = "X1.1"
//	end2 = "C1.1"
//
//	[[connections]]
//	end1 = "X1.2"
//	end2 = "lead:tinned"
//	strip_mm = 5
//	wire = {mpn = "UL1007-22-BK", manufacturer = "Alpha Wire", awg = 22, color = "black"}
//
// Endpoints are written "<designator>.<n>". When the designator names a
// cable, n is a core number; otherwise it is a pin. "lead" or
// "lead:<termination>" is a flying lead.
//
// Unknown keys are rejected in every format so typos do not silently drop
// data.
package design

// File is the decoded form of a design file.
type File struct {
	Name          string         `json:"name" yaml:"name" toml:"name"`
	Description   string         `json:"description" yaml:"description" toml:"description"`
	Components    []Component    `json:"components" yaml:"components" toml:"components"`
	Connections   []Connection   `json:"connections" yaml:"connections" toml:"connections"`
	Labels        []Label        `json:"labels" yaml:"labels" toml:"labels"`
	Notes         []Note         `json:"notes" yaml:"notes" toml:"notes"`
	LabelSettings *LabelSettings `json:"label_settings,omitempty" yaml:"label_settings,omitempty" toml:"label_settings,omitempty"`
}

// Point is a canvas position.
type Point struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// Component describes one component. Which of the typed fields are required
// depends on Kind.
type Component struct {
	Kind         string         `json:"kind" yaml:"kind" toml:"kind"`
	Designator   string         `json:"designator,omitempty" yaml:"designator,omitempty" toml:"designator,omitempty"`
	MPN          string         `json:"mpn" yaml:"mpn" toml:"mpn"`
	Manufacturer string         `json:"manufacturer" yaml:"manufacturer" toml:"manufacturer"`
	Category     string         `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`
	Position     *Point         `json:"position,omitempty" yaml:"position,omitempty" toml:"position,omitempty"`
	Positions    *int           `json:"positions,omitempty" yaml:"positions,omitempty" toml:"positions,omitempty"`
	Gender       string         `json:"gender,omitempty" yaml:"gender,omitempty" toml:"gender,omitempty"`
	Shape        string         `json:"shape,omitempty" yaml:"shape,omitempty" toml:"shape,omitempty"`
	Cores        []Core         `json:"cores,omitempty" yaml:"cores,omitempty" toml:"cores,omitempty"`
	AWG          *int           `json:"awg,omitempty" yaml:"awg,omitempty" toml:"awg,omitempty"`
	Color        *string        `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Attrs        map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty" toml:"attrs,omitempty"`
}

// Core describes one cable core.
type Core struct {
	Number        int    `json:"number" yaml:"number" toml:"number"`
	AWG           int    `json:"awg,omitempty" yaml:"awg,omitempty" toml:"awg,omitempty"`
	Color         string `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Label         string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Stranding     string `json:"stranding,omitempty" yaml:"stranding,omitempty" toml:"stranding,omitempty"`
	ConductorType string `json:"conductor_type,omitempty" yaml:"conductor_type,omitempty" toml:"conductor_type,omitempty"`
}

// Wire describes the wire of a connection.
type Wire struct {
	MPN           string `json:"mpn" yaml:"mpn" toml:"mpn"`
	Manufacturer  string `json:"manufacturer" yaml:"manufacturer" toml:"manufacturer"`
	AWG           int    `json:"awg" yaml:"awg" toml:"awg"`
	Color         string `json:"color" yaml:"color" toml:"color"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Stranding     string `json:"stranding,omitempty" yaml:"stranding,omitempty" toml:"stranding,omitempty"`
	ConductorType string `json:"conductor_type,omitempty" yaml:"conductor_type,omitempty" toml:"conductor_type,omitempty"`
}

// Connection links two endpoints. StripMM, TinMM and LeadLabel apply to a
// flying-lead end.
type Connection struct {
	End1      string   `json:"end1" yaml:"end1" toml:"end1"`
	End2      string   `json:"end2" yaml:"end2" toml:"end2"`
	Wire      *Wire    `json:"wire,omitempty" yaml:"wire,omitempty" toml:"wire,omitempty"`
	LengthMM  *float64 `json:"length_mm,omitempty" yaml:"length_mm,omitempty" toml:"length_mm,omitempty"`
	Label     string   `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	LabelEnd1 string   `json:"label_end1,omitempty" yaml:"label_end1,omitempty" toml:"label_end1,omitempty"`
	LabelEnd2 string   `json:"label_end2,omitempty" yaml:"label_end2,omitempty" toml:"label_end2,omitempty"`
	StripMM   *float64 `json:"strip_mm,omitempty" yaml:"strip_mm,omitempty" toml:"strip_mm,omitempty"`
	TinMM     *float64 `json:"tin_mm,omitempty" yaml:"tin_mm,omitempty" toml:"tin_mm,omitempty"`
	LeadLabel string   `json:"lead_label,omitempty" yaml:"lead_label,omitempty" toml:"lead_label,omitempty"`
}

// Label describes a bundle label.
type Label struct {
	Text            string   `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
	Connector       string   `json:"connector,omitempty" yaml:"connector,omitempty" toml:"connector,omitempty"`
	Cable           string   `json:"cable,omitempty" yaml:"cable,omitempty" toml:"cable,omitempty"`
	Auto            bool     `json:"auto,omitempty" yaml:"auto,omitempty" toml:"auto,omitempty"`
	CableEnd        string   `json:"cable_end,omitempty" yaml:"cable_end,omitempty" toml:"cable_end,omitempty"`
	WireKeys        []string `json:"wire_keys,omitempty" yaml:"wire_keys,omitempty" toml:"wire_keys,omitempty"`
	WidthMM         *float64 `json:"width_mm,omitempty" yaml:"width_mm,omitempty" toml:"width_mm,omitempty"`
	FontSize        *float64 `json:"font_size,omitempty" yaml:"font_size,omitempty" toml:"font_size,omitempty"`
	TextColor       string   `json:"text_color,omitempty" yaml:"text_color,omitempty" toml:"text_color,omitempty"`
	BackgroundColor string   `json:"background_color,omitempty" yaml:"background_color,omitempty" toml:"background_color,omitempty"`
}

// Note is a canvas note.
type Note struct {
	Title   string   `json:"title" yaml:"title" toml:"title"`
	X       float64  `json:"x" yaml:"x" toml:"x"`
	Y       float64  `json:"y" yaml:"y" toml:"y"`
	Content []string `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
}

// LabelSettings overrides the harness label settings.
type LabelSettings struct {
	ShowOnCanvas   *bool    `json:"show_on_canvas,omitempty" yaml:"show_on_canvas,omitempty" toml:"show_on_canvas,omitempty"`
	DefaultWidthMM *float64 `json:"default_width_mm,omitempty" yaml:"default_width_mm,omitempty" toml:"default_width_mm,omitempty"`
}
