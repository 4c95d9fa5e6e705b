package export

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/harnesskit/pkg/harness"
)

// Endpoint record types.
const (
	EndpointConnectorPin = "connector_pin"
	EndpointCableCore    = "cable_core"
	EndpointFlyingLead   = "flying_lead"
)

// Units used in catalog entries.
const (
	UnitEach = "each"
	UnitFeet = "ft"
)

// sideLeft is the only side the exporter emits; the downstream editor
// re-routes ends when the design is opened.
const sideLeft = "left"

// Document is the normalized wire-list document.
type Document struct {
	BOM  *orderedmap.OrderedMap[string, BOMItem] `json:"bom"`
	Data Data                                    `json:"data"`
}

// BOMItem is one catalog entry, keyed by component designator or wire key.
type BOMItem struct {
	InstanceID string `json:"instance_id"`
	Part       Part   `json:"part"`
	Unit       string `json:"unit"`
}

// Part describes the purchased part behind a catalog entry. Spec holds the
// kind-specific fields followed by the component's extra attributes.
type Part struct {
	ID           string                              `json:"id"`
	Kind         string                              `json:"kind"`
	MPN          string                              `json:"mpn"`
	Manufacturer string                              `json:"manufacturer"`
	Description  string                              `json:"description,omitempty"`
	Spec         *orderedmap.OrderedMap[string, any] `json:"spec"`
}

// Data is the design section of the document.
type Data struct {
	Mapping            *orderedmap.OrderedMap[string, MappingEntry] `json:"mapping"`
	ConnectorPositions map[string]harness.Point                     `json:"connector_positions"`
	CablePositions     map[string]harness.Point                     `json:"cable_positions"`
	WireAnchors        map[string]harness.Point                     `json:"wire_anchors"`
	DesignNotes        []DesignNote                                 `json:"design_notes"`
	BundleLabels       *orderedmap.OrderedMap[string, BundleLabel]  `json:"bundle_labels"`
	LabelSettings      LabelSettings                                `json:"label_settings"`
	Name               string                                       `json:"name"`
	Description        string                                       `json:"description"`
	Notes              *string                                      `json:"notes"` // always null
}

// MappingEntry is one wire or cable core in the connection map. End2 is nil
// for a cable core connected on one side only.
type MappingEntry struct {
	End1      Endpoint  `json:"end1"`
	End2      *Endpoint `json:"end2"`
	LengthMM  *float64  `json:"length_mm,omitempty"`
	LabelEnd1 string    `json:"label_end1,omitempty"`
	LabelEnd2 string    `json:"label_end2,omitempty"`
}

// Endpoint is the document form of a connection end. Which fields are
// meaningful depends on Type.
type Endpoint struct {
	Type string `json:"type"`

	ConnectorInstance string  `json:"connector_instance,omitempty"`
	Pin               int     `json:"pin,omitempty"`
	TerminalInstance  *string `json:"terminal_instance,omitempty"`

	CableInstance string `json:"cable_instance,omitempty"`
	CoreNo        int    `json:"core_no,omitempty"`

	Side string `json:"side,omitempty"`

	TerminationType string   `json:"termination_type,omitempty"`
	StripLengthMM   *float64 `json:"strip_length_mm,omitempty"`
	TinLengthMM     *float64 `json:"tin_length_mm,omitempty"`
	Label           string   `json:"label,omitempty"`
}

// MarshalJSON writes only the fields of the endpoint's type, in a fixed order.
func (e Endpoint) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case EndpointConnectorPin:
		return json.Marshal(struct {
			Type              string  `json:"type"`
			ConnectorInstance string  `json:"connector_instance"`
			Pin               int     `json:"pin"`
			Side              string  `json:"side"`
			TerminalInstance  *string `json:"terminal_instance"`
		}{e.Type, e.ConnectorInstance, e.Pin, e.Side, e.TerminalInstance})
	case EndpointCableCore:
		return json.Marshal(struct {
			Type          string `json:"type"`
			CableInstance string `json:"cable_instance"`
			CoreNo        int    `json:"core_no"`
			Side          string `json:"side"`
		}{e.Type, e.CableInstance, e.CoreNo, e.Side})
	case EndpointFlyingLead:
		return json.Marshal(struct {
			Type            string   `json:"type"`
			TerminationType string   `json:"termination_type"`
			StripLengthMM   *float64 `json:"strip_length_mm,omitempty"`
			TinLengthMM     *float64 `json:"tin_length_mm,omitempty"`
			Label           string   `json:"label,omitempty"`
		}{e.Type, e.TerminationType, e.StripLengthMM, e.TinLengthMM, e.Label})
	default:
		return nil, fmt.Errorf("unsupported endpoint type %q", e.Type)
	}
}

// UnmarshalJSON reads any endpoint type.
func (e *Endpoint) UnmarshalJSON(data []byte) error {
	type plain Endpoint
	return json.Unmarshal(data, (*plain)(e))
}

// DesignNote is a canvas note.
type DesignNote struct {
	ID      string   `json:"id"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Title   string   `json:"title"`
	Content []string `json:"content"`
}

// BundleLabel is the document form of a harness label.
type BundleLabel struct {
	LabelText           string   `json:"label_text"`
	IsAutoGenerated     bool     `json:"is_auto_generated"`
	ConnectorInstanceID string   `json:"connector_instance_id,omitempty"`
	CableInstanceID     string   `json:"cable_instance_id,omitempty"`
	CableEnd            string   `json:"cable_end,omitempty"`
	WireKeys            []string `json:"wire_keys"`
	WidthMM             float64  `json:"width_mm"`
	FontSize            float64  `json:"font_size"`
	TextColor           string   `json:"text_color"`
	BackgroundColor     string   `json:"background_color"`
}

// LabelSettings is the document form of the harness label settings.
type LabelSettings struct {
	ShowLabelsOnCanvas bool    `json:"show_labels_on_canvas"`
	DefaultWidthMM     float64 `json:"default_width_mm"`
}
