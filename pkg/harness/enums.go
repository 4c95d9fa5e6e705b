package harness

// Kind identifies the type of a component placed in a harness.
// Kinds other than the constants below are accepted and produce generic
// components that keep all of their attributes in [Component.Attrs].
type Kind string

// Component kinds with dedicated shapes or designator prefixes.
const (
	KindConnector Kind = "connector"
	KindCable     Kind = "cable"
	KindWire      Kind = "wire"
	KindTerminal  Kind = "terminal"
)

// Category refines a component kind, mostly for connector-like parts.
// Some categories carry their own designator prefix (see [Prefix]).
type Category = string

// Known categories.
const (
	CategoryCircuitBreaker Category = "circuit_breaker"
	CategoryFuse           Category = "fuse"
	CategoryFan            Category = "fan"
	CategoryPushButton     Category = "push_button"
	CategorySwitch         Category = "switch"
	CategoryRelay          Category = "relay"
	CategoryContactor      Category = "contactor"
	CategoryTimer          Category = "timer"
	CategoryPCB            Category = "pcb"
	CategoryPowerSupply    Category = "power_supply"
	CategoryMotor          Category = "motor"
	CategoryOther          Category = "other"
)

// Common wire and core colors.
const (
	ColorBlack   = "black"
	ColorWhite   = "white"
	ColorRed     = "red"
	ColorGreen   = "green"
	ColorBlue    = "blue"
	ColorYellow  = "yellow"
	ColorOrange  = "orange"
	ColorBrown   = "brown"
	ColorPurple  = "purple"
	ColorGray    = "gray"
	ColorPink    = "pink"
	ColorViolet  = "violet"
	ColorTan     = "tan"
	ColorNatural = "natural"
	ColorClear   = "clear"
)

// ConductorType describes how a conductor is built.
type ConductorType string

const (
	ConductorSolid    ConductorType = "solid"
	ConductorStranded ConductorType = "stranded"
)

// Common stranding specifications. Any other string is accepted as-is.
const (
	StrandingSolid  = "solid"
	StrandingClass5 = "Class 5"
	Stranding24AWG  = "7/32"
	Stranding22AWG  = "7/30"
	Stranding20AWG  = "7/28"
	Stranding18AWG  = "16/30"
	Stranding16AWG  = "26/30"
	Stranding14AWG  = "41/30"
	Stranding12AWG  = "65/30"
	Stranding10AWG  = "105/30"
)

// FlyingLeadType is the finish applied to an unterminated wire end.
type FlyingLeadType string

const (
	FlyingLeadBare       FlyingLeadType = "bare"
	FlyingLeadTinned     FlyingLeadType = "tinned"
	FlyingLeadHeatShrink FlyingLeadType = "heat_shrink"
)

// Gender of a connector's contacts.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderNone   Gender = "none"
)

// Shape of a connector housing.
type Shape string

const (
	ShapeCircular        Shape = "circular"
	ShapeRectangular     Shape = "rectangular"
	ShapeDSub            Shape = "dsub"
	ShapeTerminalBlock   Shape = "terminal_block"
	ShapeFerrule         Shape = "ferrule"
	ShapeQuickDisconnect Shape = "quickdisconnect"
	ShapeRing            Shape = "ring"
	ShapeButton          Shape = "button"
	ShapeOther           Shape = "other"
)

// CableEnd selects which end of a cable a label is printed for.
type CableEnd string

const (
	CableEndStart CableEnd = "start"
	CableEndEnd   CableEnd = "end"
	CableEndBoth  CableEnd = "both"
)

// prefixes maps kinds to designator prefixes.
var prefixes = map[Kind]string{
	KindConnector: "X",
	KindCable:     "C",
	KindWire:      "W",
	KindTerminal:  "T",
}

// categoryPrefixes override the kind prefix for specialized parts.
var categoryPrefixes = map[Category]string{
	CategoryFuse:           "F",
	CategoryCircuitBreaker: "CB",
	CategorySwitch:         "S",
	CategoryRelay:          "K",
	CategoryPowerSupply:    "PS",
	CategoryMotor:          "M",
}

// Prefix returns the designator prefix for a kind and optional category.
// A category with its own prefix wins over the kind; unknown kinds use "X".
func Prefix(kind Kind, category Category) string {
	if p, ok := categoryPrefixes[category]; ok {
		return p
	}
	if p, ok := prefixes[kind]; ok {
		return p
	}
	return "X"
}
