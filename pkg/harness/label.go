package harness

import "slices"

// Label defaults.
const (
	DefaultLabelWidthMM   = 9.0
	DefaultLabelFontSize  = 10.0
	DefaultLabelTextColor = "#000000"
	DefaultLabelBgColor   = "#FFFFFF"
)

// Label is a bundle label attached to exactly one connector or cable, used
// for identification and heat-shrink printing.
type Label struct {
	ID              string
	Text            string
	AutoGenerated   bool     // Text is the target's designator
	Connector       string   // designator, mutually exclusive with Cable
	Cable           string   // designator, mutually exclusive with Connector
	CableEnd        CableEnd // only meaningful for cable labels
	WireKeys        []string // exported wire keys covered; empty means all
	WidthMM         float64
	FontSize        float64
	TextColor       string
	BackgroundColor string
}

// Target returns the designator the label is attached to.
func (l *Label) Target() string {
	if l.Connector != "" {
		return l.Connector
	}
	return l.Cable
}

// LabelSettings are the harness-wide label display settings.
type LabelSettings struct {
	ShowOnCanvas   bool
	DefaultWidthMM float64
}

// DefaultLabelSettings returns the settings used by a new harness.
func DefaultLabelSettings() LabelSettings {
	return LabelSettings{ShowOnCanvas: true, DefaultWidthMM: DefaultLabelWidthMM}
}

// LabelFilter selects labels in [Harness.Labels]. Empty fields match everything.
type LabelFilter struct {
	Connector string
	Cable     string
}

func (f LabelFilter) match(l *Label) bool {
	if f.Connector != "" && l.Connector != f.Connector {
		return false
	}
	if f.Cable != "" && l.Cable != f.Cable {
		return false
	}
	return true
}

// LabelOption configures a label passed to [Harness.AddLabel].
type LabelOption func(*labelConfig)

type labelConfig struct {
	label Label
	auto  bool
	width *float64
}

// OnConnector attaches the label to a connector.
func OnConnector(designator string) LabelOption {
	return func(c *labelConfig) { c.label.Connector = designator }
}

// OnCable attaches the label to a cable.
func OnCable(designator string) LabelOption {
	return func(c *labelConfig) { c.label.Cable = designator }
}

// AutoDesignator replaces the label text with the target's designator.
func AutoDesignator() LabelOption {
	return func(c *labelConfig) { c.auto = true }
}

// WithCableEnd selects the cable end the label is printed for.
func WithCableEnd(end CableEnd) LabelOption {
	return func(c *labelConfig) { c.label.CableEnd = end }
}

// WithWireKeys restricts the label to the given exported wire keys.
func WithWireKeys(keys ...string) LabelOption {
	return func(c *labelConfig) { c.label.WireKeys = slices.Clone(keys) }
}

// WithWidth sets the printed width in millimeters.
func WithWidth(mm float64) LabelOption {
	return func(c *labelConfig) { c.width = &mm }
}

// WithFontSize sets the font size.
func WithFontSize(size float64) LabelOption {
	return func(c *labelConfig) { c.label.FontSize = size }
}

// WithTextColor sets the text color (#RRGGBB).
func WithTextColor(color string) LabelOption {
	return func(c *labelConfig) { c.label.TextColor = color }
}

// WithBackgroundColor sets the background color (#RRGGBB).
func WithBackgroundColor(color string) LabelOption {
	return func(c *labelConfig) { c.label.BackgroundColor = color }
}
