package design

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/harnesskit/pkg/errors"
	"github.com/matzehuels/harnesskit/pkg/harness"
)

// Format is a design file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported design file extension %q (want .toml, .yaml, .yml or .json)", filepath.Ext(path))
	}
}

// Decode reads a design file in the given format from r.
// Unknown keys are an INVALID_FORMAT error.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown keys: %v", undecoded)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			if err == io.EOF {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "empty design")
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported design format %q", format)
	}
	return &f, nil
}

// Parse decodes data and builds the harness it describes.
func Parse(data []byte, format Format) (*harness.Harness, error) {
	f, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, err
	}
	return f.Build()
}

// Load reads the design file at path, picking the format from its extension.
func Load(path string) (*harness.Harness, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	h, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// Build creates the harness described by f. Components are added first, then
// connections, label settings, labels and notes, each in file order. The
// first construction error stops the build; its error code is preserved.
func (f *File) Build() (*harness.Harness, error) {
	h := harness.New(f.Name, f.Description)

	for i, c := range f.Components {
		if c.Kind == "" {
			return nil, errors.New(errors.ErrCodeMissingField, "component %d: kind is required", i)
		}
		if _, err := h.AddComponent(harness.Kind(c.Kind), c.MPN, c.Manufacturer, componentOptions(c)...); err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
	}

	for i, c := range f.Connections {
		end1, err := endpoint(h, c.End1, c)
		if err != nil {
			return nil, fmt.Errorf("connection %d: %w", i, err)
		}
		end2, err := endpoint(h, c.End2, c)
		if err != nil {
			return nil, fmt.Errorf("connection %d: %w", i, err)
		}
		if _, err := h.Connect(end1, end2, connectOptions(c)...); err != nil {
			return nil, fmt.Errorf("connection %d: %w", i, err)
		}
	}

	if s := f.LabelSettings; s != nil {
		settings := h.LabelSettings()
		if s.ShowOnCanvas != nil {
			settings.ShowOnCanvas = *s.ShowOnCanvas
		}
		if s.DefaultWidthMM != nil {
			settings.DefaultWidthMM = *s.DefaultWidthMM
		}
		h.SetLabelSettings(settings)
	}

	for i, l := range f.Labels {
		if _, err := h.AddLabel(l.Text, labelOptions(l)...); err != nil {
			return nil, fmt.Errorf("label %d: %w", i, err)
		}
	}

	for _, n := range f.Notes {
		h.AddNote(harness.Point{X: n.X, Y: n.Y}, n.Title, n.Content...)
	}
	return h, nil
}

func componentOptions(c Component) []harness.ComponentOption {
	var opts []harness.ComponentOption
	if c.Designator != "" {
		opts = append(opts, harness.WithDesignator(c.Designator))
	}
	if c.Category != "" {
		opts = append(opts, harness.WithCategory(c.Category))
	}
	if c.Position != nil {
		opts = append(opts, harness.WithPosition(c.Position.X, c.Position.Y))
	}
	if c.Positions != nil {
		opts = append(opts, harness.WithPositions(*c.Positions))
	}
	if c.Gender != "" {
		opts = append(opts, harness.WithGender(harness.Gender(c.Gender)))
	}
	if c.Shape != "" {
		opts = append(opts, harness.WithShape(harness.Shape(c.Shape)))
	}
	if len(c.Cores) > 0 {
		cores := make([]harness.Core, len(c.Cores))
		for i, core := range c.Cores {
			cores[i] = harness.Core{
				Number:        core.Number,
				Gauge:         core.AWG,
				Color:         core.Color,
				Label:         core.Label,
				Stranding:     core.Stranding,
				ConductorType: harness.ConductorType(core.ConductorType),
			}
		}
		opts = append(opts, harness.WithCores(cores...))
	}
	if c.AWG != nil {
		opts = append(opts, harness.WithGauge(*c.AWG))
	}
	if c.Color != nil {
		opts = append(opts, harness.WithColor(*c.Color))
	}
	if len(c.Attrs) > 0 {
		opts = append(opts, harness.WithAttrs(c.Attrs))
	}
	return opts
}

func connectOptions(c Connection) []harness.ConnectOption {
	var opts []harness.ConnectOption
	if w := c.Wire; w != nil {
		opts = append(opts, harness.WithWire(harness.WireSpec{
			MPN:           w.MPN,
			Manufacturer:  w.Manufacturer,
			Gauge:         w.AWG,
			Color:         w.Color,
			Description:   w.Description,
			Stranding:     w.Stranding,
			ConductorType: harness.ConductorType(w.ConductorType),
		}))
	}
	if c.LengthMM != nil {
		opts = append(opts, harness.WithLength(*c.LengthMM))
	}
	if c.Label != "" {
		opts = append(opts, harness.WithLabel(c.Label))
	}
	if c.LabelEnd1 != "" || c.LabelEnd2 != "" {
		opts = append(opts, harness.WithEndLabels(c.LabelEnd1, c.LabelEnd2))
	}
	return opts
}

func labelOptions(l Label) []harness.LabelOption {
	var opts []harness.LabelOption
	if l.Connector != "" {
		opts = append(opts, harness.OnConnector(l.Connector))
	}
	if l.Cable != "" {
		opts = append(opts, harness.OnCable(l.Cable))
	}
	if l.Auto {
		opts = append(opts, harness.AutoDesignator())
	}
	if l.CableEnd != "" {
		opts = append(opts, harness.WithCableEnd(harness.CableEnd(l.CableEnd)))
	}
	if len(l.WireKeys) > 0 {
		opts = append(opts, harness.WithWireKeys(l.WireKeys...))
	}
	if l.WidthMM != nil {
		opts = append(opts, harness.WithWidth(*l.WidthMM))
	}
	if l.FontSize != nil {
		opts = append(opts, harness.WithFontSize(*l.FontSize))
	}
	if l.TextColor != "" {
		opts = append(opts, harness.WithTextColor(l.TextColor))
	}
	if l.BackgroundColor != "" {
		opts = append(opts, harness.WithBackgroundColor(l.BackgroundColor))
	}
	return opts
}

var terminations = map[harness.FlyingLeadType]bool{
	harness.FlyingLeadBare:       true,
	harness.FlyingLeadTinned:     true,
	harness.FlyingLeadHeatShrink: true,
}

// endpoint parses "<designator>.<n>" or "lead[:termination]". The number is a
// core when the designator names a cable already in h, a pin otherwise.
func endpoint(h *harness.Harness, s string, c Connection) (harness.Endpoint, error) {
	s = strings.TrimSpace(s)
	if s == "lead" || strings.HasPrefix(s, "lead:") {
		termination := harness.FlyingLeadType(strings.TrimPrefix(s, "lead:"))
		if s == "lead" {
			termination = harness.FlyingLeadBare
		}
		if !terminations[termination] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown flying lead termination %q", termination)
		}
		lead := harness.Lead(termination)
		if c.StripMM != nil {
			lead = lead.WithStrip(*c.StripMM)
		}
		if c.TinMM != nil {
			lead = lead.WithTin(*c.TinMM)
		}
		lead.Label = c.LeadLabel
		return lead, nil
	}

	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "endpoint %q: want <designator>.<n> or lead[:termination]", s)
	}
	n, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "endpoint %q: %q is not a number", s, s[i+1:])
	}
	id := s[:i]
	if comp, ok := h.Component(id); ok && comp.IsCable() {
		return harness.CoreOf(id, n), nil
	}
	return harness.Pin(id, n), nil
}
