package docassist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-docassist/internal/docx"
	"github.com/alnah/go-docassist/internal/raster"
)

// Progress messages, one per stage.
const (
	msgMerge      = "Merging PDFs..."
	msgSplitRange = "Splitting PDF by ranges..."
	msgSplitMarks = "Splitting by bookmarks..."
	msgToJPG      = "Converting PDF to JPG..."
	msgToPDF      = "Converting JPGs..."
	msgToDOCX     = "Converting PDF to DOCX..."
)

// DOCX progress checkpoints after rasterization.
const (
	docxRasterCeiling = 90
	docxAssembled     = 95
)

// Default artifact base names.
const (
	defaultMergeName  = "merged"
	defaultSplitName  = "split"
	defaultImagesName = "images"
	defaultDocxName   = "document"
	docxCreator       = "docassist"
)

// validate checks the input against the limits and the operation's file
// requirements. No document is decoded here.
func (p *Processor) validate(in Input) error {
	if !in.Operation.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownOperation, in.Operation)
	}
	if strings.ContainsAny(in.OutputName, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidOutputName, in.OutputName)
	}

	limits := p.cfg.limits
	switch n := len(in.Files); {
	case n == 0:
		return ErrNoFiles
	case n > limits.MaxFiles:
		return fmt.Errorf("%w: %d (maximum %d)", ErrTooManyFiles, n, limits.MaxFiles)
	case in.Operation.singleFile() && n != 1:
		return fmt.Errorf("%w: got %d", ErrExactlyOneFile, n)
	}

	for _, f := range in.Files {
		if int64(len(f.Data)) > limits.MaxFileSize {
			return fmt.Errorf("%w: %s (%d MB, maximum %d MB)",
				ErrFileTooLarge, f.Name, len(f.Data)>>20, limits.MaxFileSize>>20)
		}
	}

	if in.Operation == OpImagesToPDF {
		for _, f := range in.Files {
			if _, err := DetectImageFormat(f); err != nil {
				return err
			}
		}
		return nil
	}
	for _, f := range in.Files {
		if !f.IsPDF() {
			return fmt.Errorf("%w: %s", ErrNotPDF, f.Name)
		}
	}
	return nil
}

// dispatch runs the handler for in.Operation.
func (p *Processor) dispatch(ctx context.Context, in Input, sink ProgressSink, log zerolog.Logger) ([]Artifact, error) {
	switch in.Operation {
	case OpMerge:
		return p.merge(ctx, in, sink, log)
	case OpSplitRanges:
		return p.splitRanges(ctx, in, sink, log)
	case OpSplitBookmarks:
		return p.splitBookmarks(ctx, in, sink, log)
	case OpPDFToJPG:
		return p.pdfToJPG(ctx, in, sink, log)
	case OpImagesToPDF:
		return p.imagesToPDF(ctx, in, sink, log)
	case OpPDFToDOCX:
		return p.pdfToDOCX(ctx, in, sink, log)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, in.Operation)
}

func (p *Processor) merge(ctx context.Context, in Input, sink ProgressSink, log zerolog.Logger) ([]Artifact, error) {
	stage := newStage(sink, msgMerge)
	stage.start()

	m := p.newMerger()
	for i, f := range in.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := m.Append(f.Data); err != nil {
			return nil, decodeError(f, err)
		}
		stage.step(i+1, len(in.Files))
	}
	data, err := m.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	log.Debug().Int("sources", m.Len()).Msg("merge done")
	return []Artifact{{
		Name:        baseName(in.OutputName, defaultMergeName) + ".pdf",
		ContentType: ContentTypePDF,
		Data:        data,
	}}, nil
}

func (p *Processor) splitRanges(ctx context.Context, in Input, sink ProgressSink, log zerolog.Logger) ([]Artifact, error) {
	if _, err := ParseRanges(in.Ranges); err != nil {
		return nil, err
	}

	f := in.Files[0]
	doc, err := p.loadPDF(f.Data)
	if err != nil {
		return nil, decodeError(f, err)
	}
	n := doc.PageCount()
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, f.Name)
	}
	ranges, err := ResolveRanges(in.Ranges, n)
	if err != nil {
		return nil, err
	}

	stage := newStage(sink, msgSplitRange)
	stage.start()

	base := baseName(in.OutputName, defaultSplitName)
	artifacts := make([]Artifact, 0, len(ranges))
	for i, r := range ranges {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := reassemble(doc, r.Indices(n))
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{
			Name:        fmt.Sprintf("%s_%d.pdf", base, i+1),
			ContentType: ContentTypePDF,
			Data:        data,
		})
		stage.step(i+1, len(ranges))
	}

	log.Debug().Int("pages", n).Int("outputs", len(artifacts)).Msg("split by ranges done")
	return artifacts, nil
}

func (p *Processor) splitBookmarks(ctx context.Context, in Input, sink ProgressSink, log zerolog.Logger) ([]Artifact, error) {
	f := in.Files[0]
	base := baseName(in.OutputName, f.stem())

	stage := newStage(sink, msgSplitMarks)
	stage.start()

	rdoc, err := p.openRaster(f.Data, p.rasterOptions())
	if err != nil {
		return nil, decodeError(f, err)
	}
	defer rdoc.Close()
	entries := rdoc.Outline()

	doc, err := p.loadPDF(f.Data)
	if err != nil {
		return nil, decodeError(f, err)
	}
	n := doc.PageCount()
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, f.Name)
	}

	outline := make([]OutlineEntry, len(entries))
	for i, e := range entries {
		outline[i] = OutlineEntry{Title: e.Title, PageIndex: e.PageIndex}
	}
	sections := ResolveOutline(outline, n)
	if len(sections) == 0 {
		log.Debug().Msg("no outline, passing document through")
		stage.set(100)
		return []Artifact{{Name: base + ".pdf", ContentType: ContentTypePDF, Data: f.Data}}, nil
	}

	labels := uniqueLabels(sections)
	artifacts := make([]Artifact, 0, len(sections))
	for i, s := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := reassemble(doc, s.Range.Indices(n))
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{
			Name:        fmt.Sprintf("%s_%s.pdf", base, labels[i]),
			ContentType: ContentTypePDF,
			Data:        data,
		})
		stage.step(i+1, len(sections))
	}

	log.Debug().Int("pages", n).Int("sections", len(sections)).Msg("split by bookmarks done")
	return artifacts, nil
}

func (p *Processor) pdfToJPG(ctx context.Context, in Input, sink ProgressSink, log zerolog.Logger) ([]Artifact, error) {
	f := in.Files[0]
	stage := newStage(sink, msgToJPG)

	pages, err := p.rasterize(ctx, f, stage)
	if err != nil {
		return nil, err
	}

	base := baseName(in.OutputName, f.stem())
	artifacts := make([]Artifact, len(pages))
	for i, pg := range pages {
		artifacts[i] = Artifact{
			Name:        fmt.Sprintf("%s_page_%d.jpg", base, pg.Number),
			ContentType: ContentTypeJPEG,
			Data:        pg.Data,
		}
	}

	log.Debug().Int("pages", len(pages)).Msg("rasterization done")
	return artifacts, nil
}

func (p *Processor) imagesToPDF(ctx context.Context, in Input, sink ProgressSink, log zerolog.Logger) ([]Artifact, error) {
	stage := newStage(sink, msgToPDF)
	stage.start()

	e := p.newEmbedder()
	for i, f := range in.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.Add(bytes.NewReader(f.Data)); err != nil {
			return nil, decodeError(f, err)
		}
		stage.step(i+1, len(in.Files))
	}
	data, err := e.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	log.Debug().Int("pages", e.Pages()).Msg("image embedding done")
	return []Artifact{{
		Name:        baseName(in.OutputName, defaultImagesName) + ".pdf",
		ContentType: ContentTypePDF,
		Data:        data,
	}}, nil
}

func (p *Processor) pdfToDOCX(ctx context.Context, in Input, sink ProgressSink, log zerolog.Logger) ([]Artifact, error) {
	f := in.Files[0]
	stage := newStage(sink, msgToDOCX).capped(docxRasterCeiling)

	pages, err := p.rasterize(ctx, f, stage)
	if err != nil {
		return nil, err
	}
	images := make([][]byte, len(pages))
	for i, pg := range pages {
		images[i] = pg.Data
	}
	stage.capped(100).set(docxAssembled)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := p.words.Build(images, docx.Properties{
		Title:   f.stem(),
		Creator: docxCreator,
		Created: p.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	stage.set(100)

	log.Debug().Int("pages", len(pages)).Msg("docx packaging done")
	return []Artifact{{
		Name:        baseName(in.OutputName, defaultDocxName) + ".docx",
		ContentType: ContentTypeDOCX,
		Data:        data,
	}}, nil
}

// rasterize renders every page of f, reporting page/total to stage.
func (p *Processor) rasterize(ctx context.Context, f File, stage *stageReporter) ([]raster.Page, error) {
	doc, err := p.openRaster(f.Data, p.rasterOptions())
	if err != nil {
		return nil, decodeError(f, err)
	}
	defer doc.Close()

	if doc.PageCount() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, f.Name)
	}
	stage.start()

	var pages []raster.Page
	for page, err := range doc.Pages(ctx) {
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %s: %w", ErrEncode, f.Name, err)
		}
		pages = append(pages, page)
		stage.step(page.Number, page.Total)
	}
	return pages, nil
}

// reassemble copies indices out of doc. Out-of-range indices are reported
// as is; any other failure is an encoding error.
func reassemble(doc pageSource, indices []int) ([]byte, error) {
	data, err := doc.Reassemble(indices)
	if err == nil {
		return data, nil
	}
	if errors.Is(err, ErrIndexOutOfRange) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %w", ErrEncode, err)
}

// uniqueLabels returns the section labels with "_2", "_3"... appended to
// repeats so every artifact name is distinct.
func uniqueLabels(sections []Section) []string {
	used := make(map[string]bool, len(sections))
	labels := make([]string, len(sections))
	for i, s := range sections {
		label := s.Label
		for n := 2; used[label]; n++ {
			label = fmt.Sprintf("%s_%d", s.Label, n)
		}
		used[label] = true
		labels[i] = label
	}
	return labels
}

// baseName returns name, or fallback when name is blank.
func baseName(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}

func decodeError(f File, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDecode, f.Name, err)
}
