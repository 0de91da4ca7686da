package render

import (
	"bytes"
	"context"
	"testing"

	errs "github.com/matzehuels/cliquecrit/pkg/errors"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestToPDFDocumentNoPages(t *testing.T) {
	if _, err := ToPDFDocument(context.Background(), nil); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("got %v, want INVALID_INPUT", err)
	}
}

func TestConvert(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	ctx := context.Background()

	pdf, err := ToPDF(ctx, []byte(square))
	if err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("ToPDF did not produce a PDF")
	}

	png, err := ToPNG(ctx, []byte(square), 2)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("ToPNG did not produce a PNG")
	}

	doc, err := ToPDFDocument(ctx, [][]byte{[]byte(square), []byte(square)})
	if err != nil {
		t.Fatalf("ToPDFDocument: %v", err)
	}
	if n := bytes.Count(doc, []byte("/Type /Page\n")) + bytes.Count(doc, []byte("/Type /Page ")); n != 0 && n != 2 {
		t.Errorf("document has %d pages, want 2", n)
	}
}

func TestConvertMissingTool(t *testing.T) {
	if Available() {
		t.Skip("rsvg-convert installed")
	}
	if _, err := ToPDF(context.Background(), []byte(square)); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("got %v, want UNSUPPORTED", err)
	}
}
