package diagram

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/harnesskit/pkg/errors"
	"github.com/matzehuels/harnesskit/pkg/harness"
)

// Format is a diagram output format.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the MPN and manufacturer to node headers.
	Detailed bool
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatDOT, FormatSVG:
		return f, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported diagram format %q (want dot or svg)", s)
	}
}

// Render draws h in the given format.
func Render(ctx context.Context, h *harness.Harness, format Format, opts Options) ([]byte, error) {
	dot := ToDOT(h, opts)
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported diagram format %q", format)
	}
}

// node collects what a component needs to be drawn.
type node struct {
	comp  *harness.Component // nil for designators no component has
	pins  []int
	cores []int
}

// ToDOT converts a harness to Graphviz DOT source. The output only depends on
// the harness contents, so it can be used as a cache key for rendered output.
func ToDOT(h *harness.Harness, opts Options) string {
	var order []string
	nodes := make(map[string]*node)
	get := func(id string) *node {
		n, ok := nodes[id]
		if !ok {
			n = &node{}
			nodes[id] = n
			order = append(order, id)
		}
		return n
	}

	for _, c := range h.Components() {
		n := get(c.Designator)
		if n.comp == nil {
			n.comp = c
		}
		for i := 1; i <= c.Positions; i++ {
			n.pins = append(n.pins, i)
		}
		n.cores = append(n.cores, c.CoreNumbers()...)
	}

	conns := h.Connections()
	for _, conn := range conns {
		for _, end := range []harness.Endpoint{conn.End1, conn.End2} {
			switch e := end.(type) {
			case harness.PinRef:
				n := get(e.Designator)
				n.pins = append(n.pins, e.Pin)
			case harness.CoreRef:
				n := get(e.Designator)
				n.cores = append(n.cores, e.Core)
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=plain, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [arrowhead=none, penwidth=2, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range order {
		n := nodes[id]
		fmt.Fprintf(&buf, "  %q [label=<%s>];\n", id, nodeLabel(id, n, opts.Detailed))
	}

	buf.WriteString("\n")
	wire, lead := 0, 0
	for _, conn := range conns {
		var name string
		if core, _, _, ok := conn.CoreEnd(); ok {
			name = fmt.Sprintf("%s.%d", core.Designator, core.Core)
		} else {
			wire++
			name = "W" + strconv.Itoa(wire)
		}
		from, decl := endpointRef(conn.End1, &lead)
		buf.WriteString(decl)
		to, decl := endpointRef(conn.End2, &lead)
		buf.WriteString(decl)
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", from, to, strings.Join(edgeAttrs(conn, name, nodes), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(id string, n *node, detailed bool) string {
	var b strings.Builder
	b.WriteString(`<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="4"`)
	if n.comp == nil {
		b.WriteString(` STYLE="dashed"`)
	}
	b.WriteString(">")

	b.WriteString(`<TR><TD BGCOLOR="lightgrey"><B>`)
	b.WriteString(html.EscapeString(id))
	b.WriteString("</B>")
	if c := n.comp; c != nil {
		fmt.Fprintf(&b, "<BR/>%s", html.EscapeString(string(c.Kind)))
		if detailed {
			fmt.Fprintf(&b, "<BR/>%s<BR/>%s", html.EscapeString(c.MPN), html.EscapeString(c.Manufacturer))
		}
	} else {
		b.WriteString("<BR/>unknown")
	}
	b.WriteString("</TD></TR>")

	for _, p := range sortedUnique(n.pins) {
		fmt.Fprintf(&b, `<TR><TD PORT="p%d">%d</TD></TR>`, p, p)
	}
	for _, c := range sortedUnique(n.cores) {
		text := strconv.Itoa(c)
		if n.comp != nil {
			for _, core := range n.comp.Cores {
				if core.Number == c && core.Color != "" {
					text += " " + html.EscapeString(core.Color)
					break
				}
			}
		}
		fmt.Fprintf(&b, `<TR><TD PORT="c%d">%s</TD></TR>`, c, text)
	}
	b.WriteString("</TABLE>")
	return b.String()
}

// endpointRef returns the DOT reference for an endpoint and any node
// declaration it needs. Each flying lead gets its own point node.
func endpointRef(end harness.Endpoint, lead *int) (ref, decl string) {
	switch e := end.(type) {
	case harness.PinRef:
		return fmt.Sprintf("%q:p%d", e.Designator, e.Pin), ""
	case harness.CoreRef:
		return fmt.Sprintf("%q:c%d", e.Designator, e.Core), ""
	case harness.FlyingLead:
		*lead++
		id := fmt.Sprintf("lead%d", *lead)
		xlabel := string(e.Termination)
		if e.Label != "" {
			xlabel += " " + e.Label
		}
		return fmt.Sprintf("%q", id), fmt.Sprintf("  %q [shape=point, width=0.12, xlabel=%q];\n", id, xlabel)
	default:
		*lead++
		id := fmt.Sprintf("unsupported%d", *lead)
		return fmt.Sprintf("%q", id), fmt.Sprintf("  %q [shape=point, color=red, xlabel=%q];\n", id, fmt.Sprintf("%T", end))
	}
}

func edgeAttrs(conn harness.Connection, name string, nodes map[string]*node) []string {
	label := name
	if conn.Label != "" {
		label += "\n" + conn.Label
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}

	color := ""
	if conn.Wire != nil {
		color = conn.Wire.Color
	} else if core, _, _, ok := conn.CoreEnd(); ok {
		if n := nodes[core.Designator]; n != nil && n.comp != nil {
			for _, c := range n.comp.Cores {
				if c.Number == core.Core {
					color = c.Color
					break
				}
			}
		}
	}
	attrs = append(attrs, fmt.Sprintf("color=%q", dotColor(color)))

	if conn.Wire == nil && !conn.HasCoreEnd() {
		attrs = append(attrs, "style=dashed")
	}
	if l := conn.LengthMM; l != nil {
		attrs = append(attrs, fmt.Sprintf("headlabel=%q", strconv.FormatFloat(*l, 'f', -1, 64)+" mm"))
	}
	return attrs
}

// dotColors maps wire colors to Graphviz color names.
var dotColors = map[string]string{
	harness.ColorBlack:   "black",
	harness.ColorWhite:   "gray90",
	harness.ColorRed:     "red",
	harness.ColorGreen:   "green4",
	harness.ColorBlue:    "blue",
	harness.ColorYellow:  "gold",
	harness.ColorOrange:  "orange",
	harness.ColorBrown:   "saddlebrown",
	harness.ColorPurple:  "purple",
	harness.ColorGray:    "gray50",
	harness.ColorPink:    "pink",
	harness.ColorViolet:  "violet",
	harness.ColorTan:     "tan",
	harness.ColorNatural: "wheat",
	harness.ColorClear:   "lightgray",
}

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func dotColor(c string) string {
	if hexColorRe.MatchString(c) {
		return c
	}
	if name, ok := dotColors[strings.ToLower(c)]; ok {
		return name
	}
	return "black"
}

func sortedUnique(nums []int) []int {
	out := slices.Clone(nums)
	slices.Sort(out)
	return slices.Compact(out)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
