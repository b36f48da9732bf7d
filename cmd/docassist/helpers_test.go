package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	docassist "github.com/alnah/go-docassist"
	"github.com/alnah/go-docassist/internal/pdfdoc"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fixtures and fakes
// ---------------------------------------------------------------------------

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// testEnv returns an Environment writing to buffers, with a mailer factory
// that hands out mailer.
func testEnv(mailer docassist.Mailer) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return fixedTime },
		Stdout: &stdout,
		Stderr: &stderr,
		NewMailer: func(docassist.GraphConfig) (docassist.Mailer, error) {
			if mailer == nil {
				return nil, docassist.ErrDeliveryNotConfigured
			}
			return mailer, nil
		},
	}
	return env, &stdout, &stderr
}

// fixturePNG returns a w x h PNG image.
func fixturePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{B: uint8(x), A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// fixturePDF returns an n-page PDF, one generated image per page.
func fixturePDF(t *testing.T, n int) []byte {
	t.Helper()
	var e pdfdoc.Embedder
	for i := 0; i < n; i++ {
		if err := e.Add(bytes.NewReader(fixturePNG(t, 100+i*10, 80))); err != nil {
			t.Fatalf("Embedder.Add(%d): %v", i, err)
		}
	}
	data, err := e.Bytes()
	if err != nil {
		t.Fatalf("Embedder.Bytes: %v", err)
	}
	return data
}

// writeFile writes data to dir/name and returns the path.
func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
	return path
}

// pageCount parses the PDF at path.
func pageCount(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	doc, err := pdfdoc.Load(data)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	return doc.PageCount()
}

// fakeMailer records sent mail.
type fakeMailer struct {
	mu   sync.Mutex
	sent []docassist.Mail
	err  error
}

func (m *fakeMailer) SendMail(_ context.Context, mail docassist.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

// fakeRunner returns canned results, keyed by the first file name.
type fakeRunner struct {
	mu    sync.Mutex
	runs  []docassist.Input
	fail  map[string]error
	delay time.Duration
}

func (r *fakeRunner) Run(ctx context.Context, in docassist.Input, sink docassist.ProgressSink) (*docassist.Result, error) {
	r.mu.Lock()
	r.runs = append(r.runs, in)
	r.mu.Unlock()

	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	name := in.Files[0].Name
	if err := r.fail[name]; err != nil {
		return nil, err
	}
	if sink != nil {
		sink.Report(docassist.Progress{Message: "Working...", Percent: 100})
	}
	return &docassist.Result{
		RunID:     "run-" + name,
		Artifacts: []docassist.Artifact{{Name: in.OutputName + ".pdf", ContentType: docassist.ContentTypePDF, Data: []byte(name)}},
	}, nil
}

// fakePool hands out the same runner up to size times concurrently.
type fakePool struct {
	runner   Runner
	size     int
	acquired int
	released int
	mu       sync.Mutex
}

func (p *fakePool) Acquire() Runner {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acquired++
	return p.runner
}

func (p *fakePool) Release(Runner) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}

func (p *fakePool) Size() int { return p.size }
