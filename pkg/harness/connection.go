package harness

// WireSpec is the wire used by a single connection. It becomes its own
// catalog entry on export.
type WireSpec struct {
	MPN           string
	Manufacturer  string
	Gauge         int
	Color         string
	Description   string
	Stranding     string
	ConductorType ConductorType
}

// Connection links two endpoints. Connections are created by
// [Harness.Connect] and never change afterwards.
//
// Wire may be nil only when at least one end is a [CoreRef]: a cable core is
// its own conductor, so core jumpers and pin-to-core terminations need no
// separate wire part.
type Connection struct {
	End1     Endpoint
	End2     Endpoint
	Wire     *WireSpec
	LengthMM *float64

	// Label is a single label for the whole connection. Kept for older
	// designs; LabelEnd1 and LabelEnd2 take precedence.
	Label     string
	LabelEnd1 string
	LabelEnd2 string
}

// CoreEnd returns the first core reference of the connection, the opposite
// endpoint, the per-end label of that opposite endpoint, and whether a core
// end was found.
func (c Connection) CoreEnd() (core CoreRef, other Endpoint, otherLabel string, ok bool) {
	if ref, isCore := c.End1.(CoreRef); isCore {
		return ref, c.End2, c.LabelEnd2, true
	}
	if ref, isCore := c.End2.(CoreRef); isCore {
		return ref, c.End1, c.LabelEnd1, true
	}
	return CoreRef{}, nil, "", false
}

// HasCoreEnd reports whether either end is a cable core.
func (c Connection) HasCoreEnd() bool {
	_, _, _, ok := c.CoreEnd()
	return ok
}

func (c Connection) clone() Connection {
	out := c
	if c.Wire != nil {
		w := *c.Wire
		out.Wire = &w
	}
	if c.LengthMM != nil {
		l := *c.LengthMM
		out.LengthMM = &l
	}
	return out
}

// ConnectOption configures a connection passed to [Harness.Connect].
type ConnectOption func(*Connection)

// WithWire sets the wire used by the connection.
func WithWire(w WireSpec) ConnectOption {
	return func(c *Connection) { c.Wire = &w }
}

// WithLength sets the wire length in millimeters.
func WithLength(mm float64) ConnectOption {
	return func(c *Connection) { c.LengthMM = &mm }
}

// WithLabel sets the single connection label.
//
// Deprecated: use WithEndLabels. The single label is only exported as the
// end2 label when no per-end label is set.
func WithLabel(label string) ConnectOption {
	return func(c *Connection) { c.Label = label }
}

// WithEndLabels sets per-end labels. Empty strings leave that end unlabeled.
func WithEndLabels(end1, end2 string) ConnectOption {
	return func(c *Connection) {
		c.LabelEnd1 = end1
		c.LabelEnd2 = end2
	}
}
