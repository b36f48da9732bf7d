package docassist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"iter"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-docassist/internal/docx"
	"github.com/alnah/go-docassist/internal/pdfdoc"
	"github.com/alnah/go-docassist/internal/raster"
)

var fixedTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

const fixtureHeight = 50

// fixtureWidth returns the width of fixture page i, unique per page.
func fixtureWidth(i int) int { return 100 + i*10 }

func fixturePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{G: uint8(x), A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// fixturePDF returns an n-page PDF starting at fixture page first.
func fixturePDF(t *testing.T, first, n int) []byte {
	t.Helper()
	var e pdfdoc.Embedder
	for i := first; i < first+n; i++ {
		if err := e.Add(bytes.NewReader(fixturePNG(t, fixtureWidth(i), fixtureHeight))); err != nil {
			t.Fatalf("Embedder.Add(%d): %v", i, err)
		}
	}
	data, err := e.Bytes()
	if err != nil {
		t.Fatalf("Embedder.Bytes: %v", err)
	}
	return data
}

// pageWidths returns the page widths of a PDF rounded to whole points.
func pageWidths(t *testing.T, data []byte) []int {
	t.Helper()
	dims, err := pdfdoc.PageDims(data)
	if err != nil {
		t.Fatalf("PageDims: %v", err)
	}
	out := make([]int, len(dims))
	for i, d := range dims {
		out[i] = int(math.Round(d.Width))
	}
	return out
}

// fakeRaster renders synthetic pages without MuPDF.
type fakeRaster struct {
	mu      sync.Mutex
	pages   int
	outline []raster.Entry
	failAt  int           // 1-based page whose render fails, 0 = none
	block   chan struct{} // when set, Pages waits for close or ctx
	started chan struct{} // closed when Pages begins, if set
	closed  bool
}

func (f *fakeRaster) PageCount() int { return f.pages }

func (f *fakeRaster) Outline() []raster.Entry { return f.outline }

func (f *fakeRaster) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeRaster) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeRaster) Pages(ctx context.Context) iter.Seq2[raster.Page, error] {
	return func(yield func(raster.Page, error) bool) {
		if f.started != nil {
			close(f.started)
		}
		if f.block != nil {
			select {
			case <-f.block:
			case <-ctx.Done():
				yield(raster.Page{}, ctx.Err())
				return
			}
		}
		for i := range f.pages {
			if err := ctx.Err(); err != nil {
				yield(raster.Page{}, err)
				return
			}
			if f.failAt == i+1 {
				yield(raster.Page{}, errors.New("render failed"))
				return
			}
			page := raster.Page{
				Number: i + 1,
				Total:  f.pages,
				Width:  10,
				Height: 10,
				Data:   []byte(fmt.Sprintf("jpeg-%d", i+1)),
			}
			if !yield(page, nil) {
				return
			}
		}
	}
}

// fakeWords records what it was asked to package.
type fakeWords struct {
	images [][]byte
	props  docx.Properties
	err    error
}

func (w *fakeWords) Build(images [][]byte, props docx.Properties) ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	w.images = images
	w.props = props
	return []byte("docx"), nil
}

// newTestProcessor returns a Processor with deterministic clock and run ID.
// Raster documents come from doc; PDF backends are the real ones.
func newTestProcessor(t *testing.T, doc *fakeRaster, opts ...Option) *Processor {
	t.Helper()
	p, err := NewProcessor(opts...)
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}
	p.now = func() time.Time { return fixedTime }
	p.newRunID = func() string { return "run-1" }
	if doc != nil {
		p.openRaster = func([]byte, raster.Options) (rasterDocument, error) {
			return doc, nil
		}
	}
	return p
}

func pdfFile(name string, data []byte) File {
	return File{Name: name, ContentType: ContentTypePDF, Data: data}
}

func artifactNames(as []Artifact) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Name
	}
	return out
}
