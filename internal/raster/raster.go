package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"iter"
	"math"
	"sync"

	"github.com/gen2brain/go-fitz"
)

// pointsPerInch is the PDF user-space unit density.
const pointsPerInch = 72.0

// Sentinel errors.
var (
	ErrDecode   = errors.New("failed to open document for rendering")
	ErrRender   = errors.New("failed to render page")
	ErrEncode   = errors.New("failed to encode page image")
	ErrConsumed = errors.New("page sequence already consumed")
)

// Options control page rendering.
type Options struct {
	Scale   float64 // 1.0 renders at 72 DPI
	Quality float64 // JPEG quality in (0, 1]
}

// DefaultOptions renders at 144 DPI with JPEG quality 0.92.
func DefaultOptions() Options {
	return Options{Scale: 2.0, Quality: 0.92}
}

func (o Options) dpi() float64 {
	return pointsPerInch * o.Scale
}

func (o Options) jpegQuality() int {
	q := int(math.Round(o.Quality * 100))
	return max(1, min(q, 100))
}

// Page is one rendered page.
type Page struct {
	Number int // 1-based
	Total  int
	Width  int // pixels
	Height int
	Data   []byte // JPEG
}

// renderer is the subset of a MuPDF document used here.
type renderer interface {
	NumPage() int
	Render(index int, dpi float64) (image.Image, error)
	Outline() ([]Entry, error)
	Close()
}

// Document is an opened PDF. Its pages can be iterated once.
type Document struct {
	mu       sync.Mutex
	r        renderer
	opts     Options
	buf      bytes.Buffer // reused across pages
	consumed bool
	closed   bool
}

// Open loads data with MuPDF. Zero option fields take their defaults.
func Open(data []byte, opts Options) (*Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return newDocument(fitzRenderer{doc: doc}, opts), nil
}

func newDocument(r renderer, opts Options) *Document {
	def := DefaultOptions()
	if opts.Scale <= 0 {
		opts.Scale = def.Scale
	}
	if opts.Quality <= 0 || opts.Quality > 1 {
		opts.Quality = def.Quality
	}
	return &Document{r: r, opts: opts}
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.r.NumPage()
}

// Pages yields the rendered pages in ascending order. The sequence stops at
// the first error, which is yielded with a zero Page. A second iteration
// yields ErrConsumed. ctx is checked before each page.
func (d *Document) Pages(ctx context.Context) iter.Seq2[Page, error] {
	return func(yield func(Page, error) bool) {
		d.mu.Lock()
		if d.consumed || d.closed {
			d.mu.Unlock()
			yield(Page{}, ErrConsumed)
			return
		}
		d.consumed = true
		d.mu.Unlock()

		total := d.PageCount()
		for i := range total {
			if err := ctx.Err(); err != nil {
				yield(Page{}, err)
				return
			}
			page, err := d.render(i, total)
			if !yield(page, err) || err != nil {
				return
			}
		}
	}
}

// render draws and encodes page i. The encode buffer is shared, so the
// returned data is a copy.
func (d *Document) render(i, total int) (Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := d.r.Render(i, d.opts.dpi())
	if err != nil {
		return Page{}, fmt.Errorf("%w %d: %w", ErrRender, i+1, err)
	}
	d.buf.Reset()
	if err := jpeg.Encode(&d.buf, img, &jpeg.Options{Quality: d.opts.jpegQuality()}); err != nil {
		return Page{}, fmt.Errorf("%w %d: %w", ErrEncode, i+1, err)
	}
	b := img.Bounds()
	return Page{
		Number: i + 1,
		Total:  total,
		Width:  b.Dx(),
		Height: b.Dy(),
		Data:   bytes.Clone(d.buf.Bytes()),
	}, nil
}

// Close releases the MuPDF document. It is safe to call more than once.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.r.Close()
	return nil
}

// fitzRenderer adapts a go-fitz document.
type fitzRenderer struct {
	doc *fitz.Document
}

func (f fitzRenderer) NumPage() int { return f.doc.NumPage() }

func (f fitzRenderer) Render(index int, dpi float64) (image.Image, error) {
	return f.doc.ImageDPI(index, dpi)
}

func (f fitzRenderer) Outline() ([]Entry, error) {
	toc, err := f.doc.ToC()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(toc))
	for i, o := range toc {
		entries[i] = Entry{Level: o.Level, Title: o.Title, PageIndex: o.Page}
	}
	return entries, nil
}

func (f fitzRenderer) Close() { f.doc.Close() }
