package docassist

import (
	"context"
	"fmt"
	"io"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alnah/go-docassist/internal/assets"
	"github.com/alnah/go-docassist/internal/docx"
	"github.com/alnah/go-docassist/internal/pdfdoc"
	"github.com/alnah/go-docassist/internal/raster"
)

// Compile-time interface implementation checks.
var (
	_ pageSource     = (*pdfdoc.Document)(nil)
	_ pdfMerger      = (*pdfdoc.Merger)(nil)
	_ imageEmbedder  = (*pdfdoc.Embedder)(nil)
	_ rasterDocument = (*raster.Document)(nil)
	_ wordWriter     = (*docx.Builder)(nil)
)

// pageSource is a decoded PDF whose pages can be copied out.
type pageSource interface {
	PageCount() int
	Reassemble(indices []int) ([]byte, error)
}

// pdfMerger folds whole documents into one.
type pdfMerger interface {
	Append(data []byte) error
	Len() int
	Bytes() ([]byte, error)
}

// imageEmbedder builds a PDF with one page per image.
type imageEmbedder interface {
	Add(img io.Reader) error
	Pages() int
	Bytes() ([]byte, error)
}

// rasterDocument renders pages and reads the outline.
type rasterDocument interface {
	PageCount() int
	Pages(ctx context.Context) iter.Seq2[raster.Page, error]
	Outline() []raster.Entry
	Close() error
}

// wordWriter packages page images as a Word document.
type wordWriter interface {
	Build(images [][]byte, props docx.Properties) ([]byte, error)
}

// State is the lifecycle state of a Processor.
type State int32

// Processor states.
const (
	StateIdle State = iota
	StateRunning
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Processor runs document operations one at a time.
// Create with NewProcessor, then call Run for each job.
type Processor struct {
	cfg processorConfig

	mu    sync.Mutex
	state State

	loadPDF     func(data []byte) (pageSource, error)
	openRaster  func(data []byte, opts raster.Options) (rasterDocument, error)
	newMerger   func() pdfMerger
	newEmbedder func() imageEmbedder
	words       wordWriter
	now         func() time.Time
	newRunID    func() string
}

// NewProcessor creates a Processor with default configuration.
// Returns ErrInvalidTemplateDir if WithDOCXTemplateDir names an unusable
// directory or its templates do not parse.
func NewProcessor(opts ...Option) (*Processor, error) {
	p := &Processor{
		cfg: processorConfig{
			scale:   DefaultRasterScale,
			quality: DefaultJPEGQuality,
			limits:  DefaultLimits(),
			logger:  zerolog.Nop(),
		},
		loadPDF: func(data []byte) (pageSource, error) {
			return pdfdoc.Load(data)
		},
		openRaster: func(data []byte, opts raster.Options) (rasterDocument, error) {
			return raster.Open(data, opts)
		},
		newMerger:   func() pdfMerger { return &pdfdoc.Merger{} },
		newEmbedder: func() imageEmbedder { return &pdfdoc.Embedder{} },
		now:         time.Now,
		newRunID:    func() string { return uuid.NewString() },
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.words == nil {
		builder, err := newWordWriter(p.cfg.templateDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTemplateDir, err)
		}
		p.words = builder
	}

	return p, nil
}

// newWordWriter builds the DOCX writer from the embedded parts, or from dir
// with embedded fallbacks when dir is set.
func newWordWriter(dir string) (*docx.Builder, error) {
	if dir == "" {
		return docx.NewDefaultBuilder()
	}
	resolver, err := assets.NewAssetResolver(dir)
	if err != nil {
		return nil, err
	}
	set, err := resolver.LoadPartSet()
	if err != nil {
		return nil, err
	}
	return docx.NewBuilder(set)
}

// clone returns an idle Processor sharing p's configuration and backends.
func (p *Processor) clone() *Processor {
	return &Processor{
		cfg:         p.cfg,
		loadPDF:     p.loadPDF,
		openRaster:  p.openRaster,
		newMerger:   p.newMerger,
		newEmbedder: p.newEmbedder,
		words:       p.words,
		now:         p.now,
		newRunID:    p.newRunID,
	}
}

// State returns the current lifecycle state.
func (p *Processor) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Run executes one operation and returns its artifacts in order. Progress
// events go to sink (nil discards them). A second Run while one is in
// flight fails with ErrRunInProgress. On error no artifacts are returned.
// Recovers from backend panics so they surface as errors.
func (p *Processor) Run(ctx context.Context, in Input, sink ProgressSink) (res *Result, err error) {
	if !p.begin() {
		return nil, ErrRunInProgress
	}

	runID := p.newRunID()
	log := p.cfg.logger.With().
		Str("run_id", runID).
		Str("operation", string(in.Operation)).
		Logger()
	started := p.now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrExternalService, r)
		}
		if err != nil {
			res = nil
			log.Error().Err(err).Dur("elapsed", p.now().Sub(started)).Msg("run failed")
		} else {
			log.Info().Int("artifacts", len(res.Artifacts)).Dur("elapsed", p.now().Sub(started)).Msg("run succeeded")
		}
		p.end(err)
	}()

	if sink == nil {
		sink = nopSink{}
	}
	if p.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.timeout)
		defer cancel()
	}

	log.Debug().Int("files", len(in.Files)).Msg("run started")

	if err := p.validate(in); err != nil {
		return nil, err
	}

	artifacts, err := p.dispatch(ctx, in, sink, log)
	if err != nil {
		return nil, err
	}
	return &Result{RunID: runID, Artifacts: artifacts}, nil
}

// begin moves the processor to Running unless a run is in flight.
func (p *Processor) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateRunning {
		return false
	}
	p.state = StateRunning
	return true
}

func (p *Processor) end(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = StateFailed
		return
	}
	p.state = StateSucceeded
}

// rasterOptions maps the processor configuration onto the rasterizer.
func (p *Processor) rasterOptions() raster.Options {
	return raster.Options{Scale: p.cfg.scale, Quality: p.cfg.quality}
}
