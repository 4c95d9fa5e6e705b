package harness

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/harnesskit/pkg/errors"
)

// Note is a free-form design note placed on the canvas. Notes are stored and
// exported as given.
type Note struct {
	ID       string
	Position Point
	Title    string
	Content  []string
}

// Harness is an in-memory wiring-harness design: an ordered collection of
// components, the connections between their pins and cores, bundle labels and
// design notes.
//
// Construction calls fail fast: a call that returns an error leaves the
// harness exactly as it was. Endpoint correctness (pin ranges, core numbers,
// unknown designators) is deliberately not checked by [Harness.Connect]; run
// the validate package once the design is complete.
//
// The zero value is not usable - use New.
// Harness is not safe for concurrent use without external synchronization.
type Harness struct {
	name        string
	description string

	components  []*Component
	connections []Connection
	labels      []*Label
	notes       []Note
	settings    LabelSettings

	designators *Designators
}

// New creates an empty harness.
func New(name, description string) *Harness {
	return &Harness{
		name:        name,
		description: description,
		settings:    DefaultLabelSettings(),
		designators: NewDesignators(),
	}
}

// Name returns the harness name.
func (h *Harness) Name() string { return h.name }

// Description returns the harness description.
func (h *Harness) Description() string { return h.description }

// IsUsed reports whether designator is reserved in this harness, either by a
// component or by an earlier allocation. Reservations are only released by
// [Harness.Clear].
func (h *Harness) IsUsed(designator string) bool { return h.designators.IsUsed(designator) }

// AddComponent adds a component and returns it.
//
// The designator comes from [WithDesignator] when given (and must not be in
// use) or is generated from the kind and category otherwise. Per-kind
// requirements:
//   - connector: [WithPositions]
//   - cable: [WithCores] with at least one core
//   - wire: [WithGauge] and [WithColor]
//
// Any other kind builds a generic component that keeps every option in Attrs.
//
// Returns MISSING_FIELD when a required attribute is absent,
// DUPLICATE_IDENTIFIER when the designator is taken, and INVALID_INPUT when a
// supplied designator is malformed. Required fields are checked before the
// designator is reserved, so failures never consume a designator.
//
// The returned pointer refers to the stored component; fields other than
// Designator may be adjusted later (for example Positions before validation).
func (h *Harness) AddComponent(kind Kind, mpn, manufacturer string, opts ...ComponentOption) (*Component, error) {
	var cfg componentConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	c, err := cfg.build(kind, mpn, manufacturer)
	if err != nil {
		return nil, err
	}

	if cfg.designator != "" {
		if err := errors.ValidateDesignator(cfg.designator); err != nil {
			return nil, err
		}
		if err := h.designators.Register(cfg.designator); err != nil {
			return nil, err
		}
		c.Designator = cfg.designator
	} else {
		c.Designator = h.designators.Generate(kind, cfg.category)
	}

	h.components = append(h.components, c)
	return c, nil
}

// Connect creates a connection between two endpoints and returns a copy of it.
//
// A wire is required unless at least one endpoint is a [CoreRef]; otherwise
// MISSING_WIRE is returned. Nil endpoints are rejected with INVALID_INPUT.
// No other checks are made here.
func (h *Harness) Connect(end1, end2 Endpoint, opts ...ConnectOption) (Connection, error) {
	if end1 == nil || end2 == nil {
		return Connection{}, errors.New(errors.ErrCodeInvalidInput, "connection endpoints must not be nil")
	}

	conn := Connection{End1: end1, End2: end2}
	for _, opt := range opts {
		opt(&conn)
	}

	if conn.Wire == nil && !conn.HasCoreEnd() {
		return Connection{}, errors.New(errors.ErrCodeMissingWire,
			"connection %s - %s requires a wire (only cable core connections may omit it)", end1, end2)
	}

	h.connections = append(h.connections, conn.clone())
	return conn, nil
}

// AddLabel attaches a bundle label to exactly one connector or cable.
//
// Returns MISSING_TARGET when neither or both of [OnConnector] and [OnCable]
// are given or the target does not exist, and INVALID_INPUT for malformed
// colors. The label width defaults to the harness label settings.
func (h *Harness) AddLabel(text string, opts ...LabelOption) (*Label, error) {
	cfg := labelConfig{label: Label{
		Text:            text,
		FontSize:        DefaultLabelFontSize,
		TextColor:       DefaultLabelTextColor,
		BackgroundColor: DefaultLabelBgColor,
	}}
	for _, opt := range opts {
		opt(&cfg)
	}
	l := cfg.label

	switch {
	case l.Connector == "" && l.Cable == "":
		return nil, errors.New(errors.ErrCodeMissingTarget, "label %q needs a connector or a cable", text)
	case l.Connector != "" && l.Cable != "":
		return nil, errors.New(errors.ErrCodeMissingTarget, "label %q cannot target both a connector and a cable", text)
	}
	if _, ok := h.Component(l.Target()); !ok {
		return nil, errors.New(errors.ErrCodeMissingTarget, "label %q targets unknown component %q", text, l.Target())
	}
	for _, color := range []string{l.TextColor, l.BackgroundColor} {
		if err := errors.ValidateColor(color); err != nil {
			return nil, err
		}
	}

	if cfg.auto {
		l.Text = l.Target()
		l.AutoGenerated = true
	}
	l.WidthMM = h.settings.DefaultWidthMM
	if cfg.width != nil {
		l.WidthMM = *cfg.width
	}
	l.ID = uuid.NewString()

	h.labels = append(h.labels, &l)
	return &l, nil
}

// RemoveLabel removes the label with the given ID.
// Returns LABEL_NOT_FOUND if no such label exists.
func (h *Harness) RemoveLabel(id string) error {
	i := slices.IndexFunc(h.labels, func(l *Label) bool { return l.ID == id })
	if i < 0 {
		return errors.New(errors.ErrCodeLabelNotFound, "label %q not found", id)
	}
	h.labels = slices.Delete(h.labels, i, i+1)
	return nil
}

// Labels returns the labels matching filter in creation order.
// The returned slice is never nil.
func (h *Harness) Labels(filter LabelFilter) []*Label {
	out := []*Label{}
	for _, l := range h.labels {
		if filter.match(l) {
			out = append(out, l)
		}
	}
	return out
}

// LabelSettings returns the harness-wide label settings.
func (h *Harness) LabelSettings() LabelSettings { return h.settings }

// SetLabelSettings replaces the harness-wide label settings. Existing labels
// keep their widths.
func (h *Harness) SetLabelSettings(s LabelSettings) { h.settings = s }

// AddNote stores a design note and returns it.
func (h *Harness) AddNote(pos Point, title string, content ...string) Note {
	n := Note{
		ID:       uuid.NewString(),
		Position: pos,
		Title:    title,
		Content:  slices.Clone(content),
	}
	if n.Content == nil {
		n.Content = []string{}
	}
	h.notes = append(h.notes, n)
	return n
}

// Notes returns a copy of the design notes in creation order.
func (h *Harness) Notes() []Note { return slices.Clone(h.notes) }

// Components returns the components in creation order. The pointers refer to
// the stored components; Designator is read-only once assigned, and changing
// it breaks connection and label references.
func (h *Harness) Components() []*Component { return slices.Clone(h.components) }

// Component returns the first component with the given designator.
func (h *Harness) Component(designator string) (*Component, bool) {
	for _, c := range h.components {
		if c.Designator == designator {
			return c, true
		}
	}
	return nil, false
}

// ComponentCount returns the number of components.
func (h *Harness) ComponentCount() int { return len(h.components) }

// Connections returns copies of the connections in creation order.
// Modifying them does not affect the harness.
func (h *Harness) Connections() []Connection {
	out := make([]Connection, len(h.connections))
	for i, c := range h.connections {
		out[i] = c.clone()
	}
	return out
}

// ConnectionCount returns the number of connections.
func (h *Harness) ConnectionCount() int { return len(h.connections) }

// Clear removes all components, connections, labels and notes and resets the
// designator allocator. Name, description and label settings are kept.
func (h *Harness) Clear() {
	h.components = nil
	h.connections = nil
	h.labels = nil
	h.notes = nil
	h.designators.Reset()
}

func missingField(kind Kind, field string) error {
	return errors.New(errors.ErrCodeMissingField, "%s requires %s", kind, field)
}
