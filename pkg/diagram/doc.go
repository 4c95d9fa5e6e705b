// Package diagram draws a harness as a connectivity diagram.
//
// # Overview
//
// Every component becomes a Graphviz node with one port per pin or core,
// and every connection an edge between those ports. Flying leads are drawn
// as small point nodes. Edge colors follow the wire (or core) color.
//
// # Usage
//
// Convert a harness to DOT, then render to SVG:
//
//	dot := diagram.ToDOT(h, diagram.Options{Detailed: true})
//	svg, err := diagram.RenderSVG(ctx, dot)
//
// or do both in one call with [Render].
//
// # Options
//
//   - Detailed: node headers include the MPN and manufacturer
//
// Diagrams are drawn from whatever the harness holds, including connections
// to unknown components or out-of-range pins; these are drawn dashed so a
// broken design can still be inspected.
//
// # Dependencies
//
// SVG output uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process without a system install.
package diagram
