package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/goccy/go-graphviz"

	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	"github.com/matzehuels/cliquecrit/pkg/page"
	"github.com/matzehuels/cliquecrit/pkg/render"
)

// DefaultLayout is the Graphviz engine used when none is given.
const DefaultLayout = "fdp"

// Layouts lists the accepted Graphviz engines.
var Layouts = []string{"fdp", "neato", "sfdp", "circo", "twopi", "dot", "osage"}

// Options configures page drawing.
type Options struct {
	// NodeSize is the vertex diameter in inches. Zero means 0.12.
	NodeSize float64

	// HideTitle omits the page heading.
	HideTitle bool
}

// ValidateLayout reports an INVALID_INPUT error for an unknown engine.
// The empty string is valid and means DefaultLayout.
func ValidateLayout(layout string) error {
	if layout == "" || slices.Contains(Layouts, layout) {
		return nil
	}
	return errs.New(errs.ErrCodeInvalidInput, "unknown layout %q (want one of %v)", layout, Layouts)
}

// ToDOT converts a page to Graphviz DOT source with one cluster per graph.
// Vertex names are "g<i>_<position>", so labels of the input graphs do not
// leak into the drawing.
func ToDOT(p page.Page, opts Options) string {
	size := opts.NodeSize
	if size <= 0 {
		size = 0.12
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	if !opts.HideTitle {
		fmt.Fprintf(&buf, "  label=%q;\n", p.Title())
		buf.WriteString("  labelloc=t;\n")
		buf.WriteString("  fontsize=24;\n")
	}
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fillcolor=black, label=\"\", fixedsize=true, width=%.2f, height=%.2f];\n", size, size)
	buf.WriteString("  edge [penwidth=1.2];\n")

	for i, g := range p.Graphs {
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", clusterLabel(p, i))
		buf.WriteString("    fontsize=14;\n")
		buf.WriteString("    color=\"lightgrey\";\n")
		for v := range g.Order() {
			fmt.Fprintf(&buf, "    %s;\n", nodeName(i, v))
		}
		for _, e := range g.Edges() {
			fmt.Fprintf(&buf, "    %s -- %s;\n", nodeName(i, e[0]), nodeName(i, e[1]))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func clusterLabel(p page.Page, i int) string {
	return fmt.Sprintf("%s - Graph %d", p.Key, p.Offset+i+1)
}

func nodeName(cluster, v int) string {
	return "g" + strconv.Itoa(cluster) + "_" + strconv.Itoa(v)
}

// RenderSVG renders DOT source to SVG using the given Graphviz engine.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot, layout string) ([]byte, error) {
	if err := ValidateLayout(layout); err != nil {
		return nil, err
	}
	if layout == "" {
		layout = DefaultLayout
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(layout))

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPage draws a page straight to SVG.
func RenderPage(ctx context.Context, p page.Page, layout string, opts Options) ([]byte, error) {
	return RenderSVG(ctx, ToDOT(p, opts), layout)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the pt-sized svg header Graphviz emits with a
// zero-origin viewBox so the page scales cleanly in browsers and rsvg.
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot, layout string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot, layout)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot, layout string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot, layout)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
