package export

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/harnesskit/pkg/errors"
	"github.com/matzehuels/harnesskit/pkg/harness"
)

// coreKey identifies one core of one cable in the pending merge table.
type coreKey struct {
	cable string
	core  int
}

func (k coreKey) String() string { return k.cable + "." + strconv.Itoa(k.core) }

// halfEdge is the first of the two connections touching a cable core.
type halfEdge struct {
	end      Endpoint
	label    string
	lengthMM *float64
}

// Serialize converts h into a [Document].
//
// Every component becomes a catalog entry keyed by its designator. Connections
// without a cable core get sequential wire keys (W1, W2, ...) and a catalog
// entry for their wire; a key already used by a component designator is
// skipped. The two connections touching the same cable core are merged into
// one mapping entry keyed "<cable>.<core>": the first one seen supplies end1,
// the second end2. A core connected on one side only is still emitted, with a
// null end2.
//
// A core touched by more than two connections has no place in the document
// format. The first two are merged and the rest are left out; validate reports
// such cores as errors.
//
// Serialize does not validate h. The only error is INTERNAL_ERROR for an
// endpoint that is not one of the harness endpoint types.
//
// Catalog part ids are fresh UUIDs on every call; everything else is
// identical for an unchanged harness.
func Serialize(h *harness.Harness) (*Document, error) {
	doc := &Document{
		BOM: orderedmap.New[string, BOMItem](),
		Data: Data{
			Mapping:            orderedmap.New[string, MappingEntry](),
			ConnectorPositions: map[string]harness.Point{},
			CablePositions:     map[string]harness.Point{},
			WireAnchors:        map[string]harness.Point{},
			DesignNotes:        []DesignNote{},
			BundleLabels:       orderedmap.New[string, BundleLabel](),
			Name:               h.Name(),
			Description:        h.Description(),
		},
	}

	for _, c := range h.Components() {
		doc.BOM.Set(c.Designator, componentItem(c))
		if c.Position == nil {
			continue
		}
		if c.IsCable() {
			doc.Data.CablePositions[c.Designator] = *c.Position
		} else {
			doc.Data.ConnectorPositions[c.Designator] = *c.Position
		}
	}

	if err := serializeConnections(doc, h.Connections()); err != nil {
		return nil, err
	}

	for _, n := range h.Notes() {
		doc.Data.DesignNotes = append(doc.Data.DesignNotes, DesignNote{
			ID:      n.ID,
			X:       n.Position.X,
			Y:       n.Position.Y,
			Title:   n.Title,
			Content: slices.Clone(n.Content),
		})
	}

	for _, l := range h.Labels(harness.LabelFilter{}) {
		doc.Data.BundleLabels.Set(l.ID, bundleLabel(l))
	}
	settings := h.LabelSettings()
	doc.Data.LabelSettings = LabelSettings{
		ShowLabelsOnCanvas: settings.ShowOnCanvas,
		DefaultWidthMM:     settings.DefaultWidthMM,
	}

	return doc, nil
}

func serializeConnections(doc *Document, conns []harness.Connection) error {
	pending := make(map[coreKey]halfEdge)
	var pendingOrder []coreKey
	wireNo := 0

	for i, conn := range conns {
		core, other, otherLabel, isCore := conn.CoreEnd()
		if !isCore {
			key := nextWireKey(doc, &wireNo)
			entry, err := wireEntry(conn)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "connection %d", i)
			}
			if conn.Wire != nil {
				doc.BOM.Set(key, wireItem(key, conn.Wire))
			}
			doc.Data.Mapping.Set(key, entry)
			continue
		}

		end, err := convertEndpoint(other)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "connection %d", i)
		}
		key := coreKey{cable: core.Designator, core: core.Core}
		if _, merged := doc.Data.Mapping.Get(key.String()); merged {
			continue
		}

		first, ok := pending[key]
		if !ok {
			pending[key] = halfEdge{end: end, label: otherLabel, lengthMM: conn.LengthMM}
			pendingOrder = append(pendingOrder, key)
			continue
		}
		delete(pending, key)

		entry := MappingEntry{
			End1:      first.end,
			End2:      &end,
			LengthMM:  first.lengthMM,
			LabelEnd1: first.label,
			LabelEnd2: otherLabel,
		}
		if entry.LengthMM == nil {
			entry.LengthMM = conn.LengthMM
		}
		if entry.LabelEnd2 == "" {
			entry.LabelEnd2 = conn.Label
		}
		doc.Data.Mapping.Set(key.String(), entry)
	}

	for _, key := range pendingOrder {
		half, ok := pending[key]
		if !ok {
			continue
		}
		delete(pending, key)
		doc.Data.Mapping.Set(key.String(), MappingEntry{
			End1:      half.end,
			LengthMM:  half.lengthMM,
			LabelEnd1: half.label,
		})
	}
	return nil
}

// nextWireKey advances *n to the next wire key not already taken by a catalog
// entry, so a wire component designated W1 keeps its own entry.
func nextWireKey(doc *Document, n *int) string {
	for {
		*n++
		key := "W" + strconv.Itoa(*n)
		if _, taken := doc.BOM.Get(key); !taken {
			return key
		}
	}
}

func wireEntry(conn harness.Connection) (MappingEntry, error) {
	end1, err := convertEndpoint(conn.End1)
	if err != nil {
		return MappingEntry{}, err
	}
	end2, err := convertEndpoint(conn.End2)
	if err != nil {
		return MappingEntry{}, err
	}
	entry := MappingEntry{
		End1:      end1,
		End2:      &end2,
		LengthMM:  conn.LengthMM,
		LabelEnd1: conn.LabelEnd1,
		LabelEnd2: conn.LabelEnd2,
	}
	if entry.LabelEnd2 == "" {
		entry.LabelEnd2 = conn.Label
	}
	return entry, nil
}

func convertEndpoint(ep harness.Endpoint) (Endpoint, error) {
	switch e := ep.(type) {
	case harness.PinRef:
		return Endpoint{
			Type:              EndpointConnectorPin,
			ConnectorInstance: e.Designator,
			Pin:               e.Pin,
			Side:              sideLeft,
		}, nil
	case harness.CoreRef:
		return Endpoint{
			Type:          EndpointCableCore,
			CableInstance: e.Designator,
			CoreNo:        e.Core,
			Side:          sideLeft,
		}, nil
	case harness.FlyingLead:
		termination := e.Termination
		if termination == "" {
			termination = harness.FlyingLeadBare
		}
		return Endpoint{
			Type:            EndpointFlyingLead,
			TerminationType: string(termination),
			StripLengthMM:   e.StripLengthMM,
			TinLengthMM:     e.TinLengthMM,
			Label:           e.Label,
		}, nil
	default:
		return Endpoint{}, fmt.Errorf("unsupported endpoint %T", ep)
	}
}

// componentItem builds the catalog entry for a component. Typed fields come
// first; extra attributes follow in key order and never replace them.
func componentItem(c *harness.Component) BOMItem {
	id := uuid.NewString()
	spec := orderedmap.New[string, any]()

	switch {
	case c.IsConnector():
		spec.Set("positions", c.Positions)
		if c.Gender != "" {
			spec.Set("contact_gender", string(c.Gender))
		}
		if c.Shape != "" {
			spec.Set("shape", string(c.Shape))
		}
	case c.IsCable():
		cores := make([]coreSpec, len(c.Cores))
		for i, core := range c.Cores {
			cores[i] = newCoreSpec(core)
		}
		spec.Set("core_count", len(c.Cores))
		spec.Set("cores", cores)
	case c.IsWire():
		spec.Set("awg", c.Gauge)
		spec.Set("color", c.Color)
		spec.Set("conductor_type", string(harness.ConductorStranded))
	}
	spec.Set("part_id", id)
	if c.Category != "" {
		spec.Set("category", c.Category)
	}

	keys := make([]string, 0, len(c.Attrs))
	for k := range c.Attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if _, taken := spec.Get(k); taken || k == "kind" || k == "designator" {
			continue
		}
		spec.Set(k, c.Attrs[k])
	}

	unit := UnitEach
	if c.IsWire() {
		unit = UnitFeet
	}
	return BOMItem{
		InstanceID: c.Designator,
		Part: Part{
			ID:           id,
			Kind:         string(c.Kind),
			MPN:          c.MPN,
			Manufacturer: c.Manufacturer,
			Spec:         spec,
		},
		Unit: unit,
	}
}

// coreSpec is the catalog form of a cable core. Gauge and color are null
// when unset.
type coreSpec struct {
	CoreNo        int     `json:"core_no"`
	AWG           *int    `json:"awg"`
	CoreColor     *string `json:"core_color"`
	ConductorType string  `json:"conductor_type"`
	Label         string  `json:"label,omitempty"`
	Stranding     string  `json:"stranding,omitempty"`
}

func newCoreSpec(core harness.Core) coreSpec {
	cs := coreSpec{
		CoreNo:        core.Number,
		ConductorType: string(core.ConductorType),
		Label:         core.Label,
		Stranding:     core.Stranding,
	}
	if core.Gauge != 0 {
		cs.AWG = &core.Gauge
	}
	if core.Color != "" {
		cs.CoreColor = &core.Color
	}
	if cs.ConductorType == "" {
		cs.ConductorType = string(harness.ConductorStranded)
	}
	return cs
}

func wireItem(key string, w *harness.WireSpec) BOMItem {
	id := uuid.NewString()
	conductor := w.ConductorType
	if conductor == "" {
		conductor = harness.ConductorStranded
	}
	var stranding any
	if w.Stranding != "" {
		stranding = w.Stranding
	}

	spec := orderedmap.New[string, any]()
	spec.Set("awg", w.Gauge)
	spec.Set("color", w.Color)
	spec.Set("conductor_type", string(conductor))
	spec.Set("part_id", id)
	spec.Set("stranding", stranding)
	spec.Set("stripe", nil)

	return BOMItem{
		InstanceID: key,
		Part: Part{
			ID:           id,
			Kind:         string(harness.KindWire),
			MPN:          w.MPN,
			Manufacturer: w.Manufacturer,
			Description:  w.Description,
			Spec:         spec,
		},
		Unit: UnitFeet,
	}
}

func bundleLabel(l *harness.Label) BundleLabel {
	keys := slices.Clone(l.WireKeys)
	if keys == nil {
		keys = []string{}
	}
	bl := BundleLabel{
		LabelText:           l.Text,
		IsAutoGenerated:     l.AutoGenerated,
		ConnectorInstanceID: l.Connector,
		CableInstanceID:     l.Cable,
		WireKeys:            keys,
		WidthMM:             l.WidthMM,
		FontSize:            l.FontSize,
		TextColor:           l.TextColor,
		BackgroundColor:     l.BackgroundColor,
	}
	if l.Cable != "" {
		bl.CableEnd = string(l.CableEnd)
	}
	return bl
}
