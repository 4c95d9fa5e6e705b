package harness

import "fmt"

// Endpoint is one end of a connection. It is a closed set of three variants:
// [PinRef], [CoreRef] and [FlyingLead]. Consumers switch on the concrete type
// and must treat anything else as an unsupported endpoint.
type Endpoint interface {
	endpoint()
	fmt.Stringer
}

// PinRef references pin Pin (1-based) of the component with designator Designator.
type PinRef struct {
	Designator string
	Pin        int
}

// CoreRef references core Core of the cable with designator Designator.
type CoreRef struct {
	Designator string
	Core       int
}

// FlyingLead is an unterminated wire end: bare, tinned or heat-shrunk.
type FlyingLead struct {
	Termination   FlyingLeadType
	StripLengthMM *float64
	TinLengthMM   *float64
	Label         string
}

func (PinRef) endpoint()     {}
func (CoreRef) endpoint()    {}
func (FlyingLead) endpoint() {}

// Pin builds a PinRef without holding the component.
func Pin(designator string, pin int) PinRef { return PinRef{Designator: designator, Pin: pin} }

// CoreOf builds a CoreRef without holding the cable.
func CoreOf(designator string, core int) CoreRef {
	return CoreRef{Designator: designator, Core: core}
}

// Lead builds a flying lead with the given finish. A zero termination means bare.
func Lead(termination FlyingLeadType) FlyingLead {
	if termination == "" {
		termination = FlyingLeadBare
	}
	return FlyingLead{Termination: termination}
}

// WithStrip returns a copy of the lead with a strip length in millimeters.
func (f FlyingLead) WithStrip(mm float64) FlyingLead {
	f.StripLengthMM = &mm
	return f
}

// WithTin returns a copy of the lead with a tin length in millimeters.
func (f FlyingLead) WithTin(mm float64) FlyingLead {
	f.TinLengthMM = &mm
	return f
}

func (p PinRef) String() string  { return fmt.Sprintf("%s.%d", p.Designator, p.Pin) }
func (c CoreRef) String() string { return fmt.Sprintf("%s:%d", c.Designator, c.Core) }

func (f FlyingLead) String() string {
	if f.Label != "" {
		return fmt.Sprintf("flying lead (%s, %s)", f.Termination, f.Label)
	}
	return fmt.Sprintf("flying lead (%s)", f.Termination)
}
