package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	errs "github.com/matzehuels/cliquecrit/pkg/errors"
)

const converter = "rsvg-convert"

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
// Scale of 2.0 produces a 2x resolution image.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// ToPDFDocument converts one SVG per page into a single multi-page PDF.
// Zero pages is an error.
func ToPDFDocument(ctx context.Context, pages [][]byte) ([]byte, error) {
	if len(pages) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "pdf document needs at least one page")
	}
	if err := checkConverter("pdf"); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "cliquecrit-pages-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	args := []string{"-f", "pdf"}
	for i, svg := range pages {
		path := filepath.Join(dir, fmt.Sprintf("page-%05d.svg", i))
		if err := os.WriteFile(path, svg, 0o600); err != nil {
			return nil, err
		}
		args = append(args, path)
	}
	return run(ctx, nil, args...)
}

// Available reports whether rsvg-convert is installed.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

func checkConverter(format string) error {
	if !Available() {
		return errs.New(errs.ErrCodeUnsupported, "%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}
	return nil
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if err := checkConverter(format); err != nil {
		return nil, err
	}
	args := append([]string{"-f", format}, extraArgs...)
	return run(ctx, svg, args...)
}

func run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, converter, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "rsvg-convert: %s", errBuf.String())
	}
	return out.Bytes(), nil
}
