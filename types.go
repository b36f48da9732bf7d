package docassist

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Operation selects the pipeline a run executes.
type Operation string

// Supported operations.
const (
	OpMerge          Operation = "merge"
	OpSplitRanges    Operation = "split-ranges"
	OpSplitBookmarks Operation = "split-bookmarks"
	OpPDFToJPG       Operation = "pdf-to-jpg"
	OpImagesToPDF    Operation = "jpg-to-pdf"
	OpPDFToDOCX      Operation = "pdf-to-docx"
)

// Operations lists every supported operation in display order.
var Operations = []Operation{
	OpMerge, OpSplitRanges, OpSplitBookmarks, OpPDFToJPG, OpImagesToPDF, OpPDFToDOCX,
}

// singleFile reports whether the operation takes exactly one input.
func (o Operation) singleFile() bool {
	switch o {
	case OpSplitRanges, OpSplitBookmarks, OpPDFToJPG, OpPDFToDOCX:
		return true
	}
	return false
}

// Valid reports whether o is a known operation.
func (o Operation) Valid() bool {
	for _, op := range Operations {
		if op == o {
			return true
		}
	}
	return false
}

// Content types.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeZIP  = "application/zip"
)

// File is an in-memory input document.
type File struct {
	Name        string
	ContentType string // declared MIME type, may be empty
	Data        []byte
}

// IsPDF reports whether the file is declared as a PDF or named like one.
func (f File) IsPDF() bool {
	return f.ContentType == ContentTypePDF || strings.EqualFold(filepath.Ext(f.Name), ".pdf")
}

// stem returns the file name without its extension.
func (f File) stem() string {
	base := filepath.Base(f.Name)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		return base[:idx]
	}
	return base
}

// ImageFormat identifies an embeddable raster format.
type ImageFormat string

// Supported image formats.
const (
	ImageJPEG ImageFormat = "jpeg"
	ImagePNG  ImageFormat = "png"
)

// DetectImageFormat resolves the image format from the declared content type,
// falling back to the file extension.
func DetectImageFormat(f File) (ImageFormat, error) {
	switch f.ContentType {
	case ContentTypeJPEG:
		return ImageJPEG, nil
	case ContentTypePNG:
		return ImagePNG, nil
	}
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".jpg", ".jpeg":
		return ImageJPEG, nil
	case ".png":
		return ImagePNG, nil
	}
	return "", fmt.Errorf("%w for %s", ErrUnsupportedFormat, f.Name)
}

// Input describes one run.
type Input struct {
	Operation  Operation
	Files      []File
	Ranges     string // split-ranges only, e.g. "1-3, 4-4, 5-"
	OutputName string // base name for artifacts (optional)
}

// Artifact is a named output of a run. Its ordinal is its slice index.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Result holds the artifacts of a successful run, in order.
type Result struct {
	RunID     string
	Artifacts []Artifact
}

// Limits bound the input accepted by a run.
type Limits struct {
	MaxFiles    int
	MaxFileSize int64 // bytes
}

// Default input limits.
const (
	DefaultMaxFiles    = 20
	DefaultMaxFileSize = 50 << 20
)

// DefaultLimits returns the default input limits.
func DefaultLimits() Limits {
	return Limits{MaxFiles: DefaultMaxFiles, MaxFileSize: DefaultMaxFileSize}
}

// Rasterization defaults: 2x the 72-DPI page space, JPEG quality 0.92.
const (
	DefaultRasterScale = 2.0
	DefaultJPEGQuality = 0.92
)

// Option configures a Processor.
type Option func(*Processor)

// processorConfig holds internal configuration for Processor.
type processorConfig struct {
	timeout     time.Duration // 0 = no deadline
	scale       float64
	quality     float64
	limits      Limits
	templateDir string
	logger      zerolog.Logger
}

// WithTimeout bounds every run with a deadline.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("docassist: WithTimeout duration must be positive")
	}
	return func(p *Processor) {
		p.cfg.timeout = d
	}
}

// WithRasterScale sets the page rendering scale (1.0 = 72 DPI).
// Panics if scale <= 0.
func WithRasterScale(scale float64) Option {
	if scale <= 0 {
		panic("docassist: WithRasterScale scale must be positive")
	}
	return func(p *Processor) {
		p.cfg.scale = scale
	}
}

// WithJPEGQuality sets the JPEG quality used for rendered pages, in (0, 1].
// Panics if q is out of range.
func WithJPEGQuality(q float64) Option {
	if q <= 0 || q > 1 {
		panic("docassist: WithJPEGQuality quality must be in (0, 1]")
	}
	return func(p *Processor) {
		p.cfg.quality = q
	}
}

// WithLimits overrides the input limits. Zero fields keep their defaults.
func WithLimits(l Limits) Option {
	return func(p *Processor) {
		if l.MaxFiles > 0 {
			p.cfg.limits.MaxFiles = l.MaxFiles
		}
		if l.MaxFileSize > 0 {
			p.cfg.limits.MaxFileSize = l.MaxFileSize
		}
	}
}

// WithLogger sets the logger used for run and stage diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Processor) {
		p.cfg.logger = l
	}
}

// WithDOCXTemplateDir overrides the Word document part templates with files
// from dir/ooxml/. Parts missing there fall back to the built-in ones.
func WithDOCXTemplateDir(dir string) Option {
	return func(p *Processor) {
		p.cfg.templateDir = dir
	}
}
