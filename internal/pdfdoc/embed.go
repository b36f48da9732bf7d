package pdfdoc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Embedder builds a PDF with one page per image. Each page takes the image's
// pixel dimensions as its size in points, with the image drawn full-bleed.
type Embedder struct {
	acc   []byte
	pages int
}

// Add appends a page holding img (JPEG or PNG).
func (e *Embedder) Add(img io.Reader) error {
	imp := pdfcpu.DefaultImportConfig()
	imp.Pos = types.Full

	var src io.ReadSeeker
	if e.acc != nil {
		src = bytes.NewReader(e.acc)
	}
	var buf bytes.Buffer
	if err := api.ImportImages(src, &buf, []io.Reader{img}, imp, newConfig()); err != nil {
		return fmt.Errorf("%w: %w", ErrImageImport, err)
	}
	e.acc = buf.Bytes()
	e.pages++
	return nil
}

// Pages returns the number of pages added so far.
func (e *Embedder) Pages() int { return e.pages }

// Bytes returns the document, or ErrNoPages if no image was added.
func (e *Embedder) Bytes() ([]byte, error) {
	if e.acc == nil {
		return nil, ErrNoPages
	}
	return e.acc, nil
}
