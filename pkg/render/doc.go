// Package render converts rendered pages into output documents.
//
// Pages are drawn by the [nodelink] subpackage, which lays out every graph
// of a page with Graphviz and returns SVG. This package converts that SVG
// into other formats with the external rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderPage(ctx, p, nodelink.Options{})
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [ToPDFDocument] joins many page SVGs into one multi-page PDF, the format
// of the classification table.
package render
