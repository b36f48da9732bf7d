//go:build integration

package raster_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/alnah/go-docassist/internal/pdfdoc"
	"github.com/alnah/go-docassist/internal/raster"
)

func fixturePDF(t *testing.T, n int) []byte {
	t.Helper()
	var e pdfdoc.Embedder
	for i := range n {
		var buf bytes.Buffer
		if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 100+i*10, 50))); err != nil {
			t.Fatalf("png.Encode: %v", err)
		}
		if err := e.Add(&buf); err != nil {
			t.Fatalf("Embedder.Add: %v", err)
		}
	}
	data, err := e.Bytes()
	if err != nil {
		t.Fatalf("Embedder.Bytes: %v", err)
	}
	return data
}

func TestOpen_RendersEveryPage(t *testing.T) {
	doc, err := raster.Open(fixturePDF(t, 3), raster.Options{Scale: 2})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	if got := doc.PageCount(); got != 3 {
		t.Fatalf("PageCount() = %d, want 3", got)
	}
	var n int
	for page, err := range doc.Pages(context.Background()) {
		if err != nil {
			t.Fatalf("page %d: %v", n+1, err)
		}
		n++
		wantWidth := 2 * (100 + (page.Number-1)*10)
		if page.Width < wantWidth-2 || page.Width > wantWidth+2 {
			t.Errorf("page %d width = %d, want about %d", page.Number, page.Width, wantWidth)
		}
	}
	if n != 3 {
		t.Errorf("rendered %d pages, want 3", n)
	}
	if got := doc.Outline(); got != nil {
		t.Errorf("Outline() = %v, want nil for a document without bookmarks", got)
	}
}

func TestOpen_Garbage(t *testing.T) {
	_, err := raster.Open([]byte("not a pdf"), raster.Options{})
	if !errors.Is(err, raster.ErrDecode) {
		t.Errorf("Open(garbage) error = %v, want ErrDecode", err)
	}
}
