package pdfdoc

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Document is a parsed PDF ready for page reassembly.
type Document struct {
	ctx *model.Context
}

// newConfig returns a relaxed pdfcpu configuration: real-world PDFs often
// violate the PDF standard in ways that do not affect page extraction.
func newConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Load parses data as a PDF.
func Load(data []byte) (*Document, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), newConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &Document{ctx: ctx}, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// Reassemble copies the pages at the given 0-based indices, in order, into a
// new PDF. Repeated indices produce repeated pages.
func (d *Document) Reassemble(indices []int) ([]byte, error) {
	if len(indices) == 0 {
		return nil, ErrNoPages
	}
	n := d.PageCount()
	pageNrs := make([]int, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: %d (document has %d pages)", ErrIndexOutOfRange, idx, n)
		}
		pageNrs[i] = idx + 1
	}

	out, err := pdfcpu.ExtractPages(d.ctx, pageNrs, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	var buf bytes.Buffer
	if err := api.WriteContext(out, &buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// PageSize is a page's media box size in PDF points.
type PageSize struct {
	Width  float64
	Height float64
}

// PageDims parses data and returns the size of every page.
func PageDims(data []byte) ([]PageSize, error) {
	doc, err := Load(data)
	if err != nil {
		return nil, err
	}
	dims, err := doc.ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	out := make([]PageSize, len(dims))
	for i, d := range dims {
		out[i] = PageSize{Width: d.Width, Height: d.Height}
	}
	return out, nil
}
