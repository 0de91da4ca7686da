package pipeline

import (
	"bytes"
	"context"
	"fmt"

	pkgio "github.com/matzehuels/cliquecrit/pkg/io"
	"github.com/matzehuels/cliquecrit/pkg/page"
	"github.com/matzehuels/cliquecrit/pkg/render"
	"github.com/matzehuels/cliquecrit/pkg/render/nodelink"
)

// Artifact is one rendered output file. Name is a base name derived from
// [Options.Stem]; callers choose the directory.
type Artifact struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Data   []byte `json:"data"`
}

// isPageFormat reports whether format draws pages (as opposed to
// serializing the report).
func isPageFormat(format string) bool {
	switch format {
	case FormatPDF, FormatSVG, FormatPNG, FormatDOT:
		return true
	}
	return false
}

// HasPageFormat reports whether any requested format draws pages.
func (o *Options) HasPageFormat() bool {
	for _, f := range o.Formats {
		if isPageFormat(f) {
			return true
		}
	}
	return false
}

// renderer draws pages once and shares the SVGs between formats.
type renderer struct {
	pages []page.Page
	opts  Options
	svgs  [][]byte
}

func newRenderer(pages []page.Page, opts Options) *renderer {
	return &renderer{pages: pages, opts: opts}
}

func (rd *renderer) pageSVGs(ctx context.Context) ([][]byte, error) {
	if rd.svgs != nil {
		return rd.svgs, nil
	}
	svgs := make([][]byte, len(rd.pages))
	for i, p := range rd.pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		svg, err := nodelink.RenderPage(ctx, p, rd.opts.Layout, nodelink.Options{})
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", p.Title(), err)
		}
		svgs[i] = svg
	}
	rd.svgs = svgs
	return svgs, nil
}

func (rd *renderer) render(ctx context.Context, format string) ([]Artifact, error) {
	stem := rd.opts.Stem()

	if format == FormatDOT {
		out := make([]Artifact, len(rd.pages))
		for i, p := range rd.pages {
			out[i] = Artifact{
				Name:   pageName(stem, i, format),
				Format: format,
				Data:   []byte(nodelink.ToDOT(p, nodelink.Options{})),
			}
		}
		return out, nil
	}

	svgs, err := rd.pageSVGs(ctx)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatPDF:
		data, err := render.ToPDFDocument(ctx, svgs)
		if err != nil {
			return nil, err
		}
		return []Artifact{{Name: stem + ".pdf", Format: format, Data: data}}, nil

	case FormatSVG:
		out := make([]Artifact, len(svgs))
		for i, svg := range svgs {
			out[i] = Artifact{Name: pageName(stem, i, format), Format: format, Data: svg}
		}
		return out, nil

	case FormatPNG:
		out := make([]Artifact, len(svgs))
		for i, svg := range svgs {
			data, err := render.ToPNG(ctx, svg, DefaultPNGScale)
			if err != nil {
				return nil, err
			}
			out[i] = Artifact{Name: pageName(stem, i, format), Format: format, Data: data}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported page format: %s", format)
}

func pageName(stem string, i int, ext string) string {
	return fmt.Sprintf("%s-%03d.%s", stem, i+1, ext)
}

// renderReport serializes the report itself.
func renderReport(report *pkgio.Report, format string, opts Options) (Artifact, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatJSON:
		err = pkgio.WriteJSON(report, &buf)
	case FormatTOML:
		err = pkgio.WriteTOML(report, &buf)
	default:
		return Artifact{}, fmt.Errorf("unsupported report format: %s", format)
	}
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: opts.Stem() + "." + format, Format: format, Data: buf.Bytes()}, nil
}
