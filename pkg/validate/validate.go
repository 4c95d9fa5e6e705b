// Package validate checks a harness for structural problems that construction
// does not catch: unknown designators, pins out of range, missing cores,
// over-subscribed cable cores and unconnected pins or cores.
//
// Validation never fails. Problems are collected in a [Result]; errors make
// the harness invalid, warnings are advisory. The same harness always yields
// the same diagnostics in the same order.
package validate

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/harnesskit/pkg/errors"
	"github.com/matzehuels/harnesskit/pkg/harness"
)

// Result holds the diagnostics of one validation run.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Valid = false
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Err returns nil for a valid result and a VALIDATION_FAILED error listing
// every error message otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return errors.New(errors.ErrCodeValidationFailed, "harness validation failed: %s", strings.Join(r.Errors, "; "))
}

// coreKey identifies one core of one cable.
type coreKey struct {
	cable string
	core  int
}

// checker carries the lookups built while walking connections.
type checker struct {
	res        Result
	components map[string]*harness.Component
	pinUsage   map[string]map[int]struct{}
	coreUsage  map[coreKey]int
	coreOrder  []coreKey // first-seen order of coreUsage keys
}

// Validate checks h and returns the collected diagnostics.
//
// An empty harness yields exactly one error and nothing else. Otherwise the
// checks run in this order: duplicate designators, per-component fields,
// per-connection endpoints (with pin reuse warnings), cores used by more than
// two connections, then unconnected pins and cores.
func Validate(h *harness.Harness) Result {
	c := &checker{
		res:        Result{Valid: true, Errors: []string{}, Warnings: []string{}},
		components: make(map[string]*harness.Component),
		pinUsage:   make(map[string]map[int]struct{}),
		coreUsage:  make(map[coreKey]int),
	}

	components := h.Components()
	if len(components) == 0 {
		c.res.errorf("Harness has no components")
		return c.res
	}

	c.checkDuplicates(components)
	for _, comp := range components {
		c.checkComponent(comp)
	}
	for i, conn := range h.Connections() {
		c.checkConnection(i, conn)
	}
	for _, key := range c.coreOrder {
		if n := c.coreUsage[key]; n > 2 {
			c.res.errorf("Cable core %s.%d has %d connection(s), maximum is 2 (one on each side of the core)",
				key.cable, key.core, n)
		}
	}
	for _, comp := range components {
		c.checkUnconnected(comp)
	}
	return c.res
}

func (c *checker) checkDuplicates(components []*harness.Component) {
	for _, comp := range components {
		if _, seen := c.components[comp.Designator]; seen {
			c.res.errorf("Duplicate designator: %s", comp.Designator)
			continue
		}
		c.components[comp.Designator] = comp
	}
}

func (c *checker) checkComponent(comp *harness.Component) {
	if comp.MPN == "" {
		c.res.errorf("Component %s missing MPN", comp.Designator)
	}
	if comp.Manufacturer == "" {
		c.res.errorf("Component %s missing manufacturer", comp.Designator)
	}

	switch {
	case comp.IsConnector():
		if comp.Positions < 1 {
			c.res.errorf("Connector %s has invalid positions: %d", comp.Designator, comp.Positions)
		}
	case comp.IsCable():
		if len(comp.Cores) == 0 {
			c.res.errorf("Cable %s has no cores", comp.Designator)
		}
		seen := make(map[int]struct{}, len(comp.Cores))
		for _, core := range comp.Cores {
			if core.Number < 1 {
				c.res.errorf("Cable %s has invalid core number: %d", comp.Designator, core.Number)
			}
			if _, dup := seen[core.Number]; dup {
				c.res.errorf("Cable %s has duplicate core number: %d", comp.Designator, core.Number)
			}
			seen[core.Number] = struct{}{}
		}
	}
}

func (c *checker) checkConnection(i int, conn harness.Connection) {
	if conn.Wire == nil && !conn.HasCoreEnd() {
		c.res.errorf("Connection %d missing wire specification", i)
	}
	c.checkEndpoint(i, conn.End1)
	c.checkEndpoint(i, conn.End2)
}

func (c *checker) checkEndpoint(i int, end harness.Endpoint) {
	switch ep := end.(type) {
	case harness.PinRef:
		comp, ok := c.components[ep.Designator]
		if !ok {
			c.res.errorf("Connection %d references unknown component: %s", i, ep.Designator)
		} else if comp.IsConnector() && (ep.Pin < 1 || ep.Pin > comp.Positions) {
			c.res.errorf("Connection %d references invalid pin %d on %s (valid range: 1-%d)",
				i, ep.Pin, ep.Designator, comp.Positions)
		}

		used, ok := c.pinUsage[ep.Designator]
		if !ok {
			used = make(map[int]struct{})
			c.pinUsage[ep.Designator] = used
		}
		if _, dup := used[ep.Pin]; dup {
			c.res.warnf("Pin %s.%d used in multiple connections", ep.Designator, ep.Pin)
		}
		used[ep.Pin] = struct{}{}

	case harness.CoreRef:
		comp, ok := c.components[ep.Designator]
		if !ok {
			c.res.errorf("Connection %d references unknown component: %s", i, ep.Designator)
		} else if comp.IsCable() && !comp.HasCore(ep.Core) {
			c.res.errorf("Connection %d references invalid core %d on %s", i, ep.Core, ep.Designator)
		}

		key := coreKey{cable: ep.Designator, core: ep.Core}
		if _, seen := c.coreUsage[key]; !seen {
			c.coreOrder = append(c.coreOrder, key)
		}
		c.coreUsage[key]++

	case harness.FlyingLead:
		// Nothing to resolve.

	default:
		c.res.errorf("Connection %d has unsupported endpoint type %T", i, end)
	}
}

func (c *checker) checkUnconnected(comp *harness.Component) {
	switch {
	case comp.IsConnector():
		used := c.pinUsage[comp.Designator]
		var open []int
		for pin := 1; pin <= comp.Positions; pin++ {
			if _, ok := used[pin]; !ok {
				open = append(open, pin)
			}
		}
		if len(open) > 0 {
			c.res.warnf("Connector %s has unconnected pins: %s", comp.Designator, formatInts(open))
		}
	case comp.IsCable():
		var open []int
		for _, n := range sortedUnique(comp.CoreNumbers()) {
			if _, ok := c.coreUsage[coreKey{cable: comp.Designator, core: n}]; !ok {
				open = append(open, n)
			}
		}
		if len(open) > 0 {
			c.res.warnf("Cable %s has unconnected cores: %s", comp.Designator, formatInts(open))
		}
	}
}

// formatInts renders nums as "[1, 2, 3]".
func formatInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func sortedUnique(nums []int) []int {
	out := slices.Clone(nums)
	slices.Sort(out)
	return slices.Compact(out)
}
