// Package nodelink draws pages of classified graphs as node-link diagrams.
//
// # Overview
//
// Every graph on a [page.Page] becomes one Graphviz cluster labelled with
// its bucket key and its 1-based position in the bucket, e.g.
// "16 - Graph 7". Vertices are drawn as small filled circles without
// labels, edges as plain lines. The page title heads the drawing.
//
// # Usage
//
// Convert a page to DOT, then render it:
//
//	dot := nodelink.ToDOT(p, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.DefaultLayout)
//
// [RenderPage] does both. For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot, nodelink.DefaultLayout)
//	png, err := nodelink.RenderPNG(ctx, dot, nodelink.DefaultLayout, 2.0)
//
// # Layouts
//
// Any Graphviz engine that handles undirected clusters may be used; see
// [Layouts]. The default is fdp, which keeps each cluster compact.
//
// # Dependencies
//
// Rendering to SVG uses the WebAssembly build of Graphviz bundled with
// github.com/goccy/go-graphviz and needs no system install. PDF and PNG
// conversion require rsvg-convert (see package render).
package nodelink
