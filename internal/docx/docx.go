// Package docx writes Word documents made of full-page images, one section
// per image on a US Letter page with zero margins.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/alnah/go-docassist/internal/assets"
)

// US Letter page geometry.
const (
	PageWidthTwips  = 12240 // 8.5in
	PageHeightTwips = 15840 // 11in
	emuPerTwip      = 635
	PageWidthEMU    = PageWidthTwips * emuPerTwip
	PageHeightEMU   = PageHeightTwips * emuPerTwip
)

// Sentinel errors.
var (
	ErrNoImages = errors.New("no images to write")
	ErrTemplate = errors.New("invalid document template")
)

// Properties fill docProps/core.xml.
type Properties struct {
	Title   string
	Creator string
	Created time.Time
}

type pageData struct {
	WidthTwips, HeightTwips int
	WidthEMU, HeightEMU     int
}

type imageData struct {
	ID    int
	RelID string
	File  string
	Last  bool
}

type documentData struct {
	Page   pageData
	Images []imageData
}

type zipPart struct {
	name string
	data []byte
}

type coreData struct {
	Title   string
	Creator string
	Created string
}

// Builder writes documents from a parsed part set. It is safe for
// concurrent use.
type Builder struct {
	contentTypes string
	rels         string
	document     *template.Template
	documentRels *template.Template
	core         *template.Template
}

// NewBuilder parses the templated parts of set.
func NewBuilder(set *assets.PartSet) (*Builder, error) {
	funcs := template.FuncMap{"xml": escapeXML}
	parse := func(name, text string) (*template.Template, error) {
		t, err := template.New(name).Funcs(funcs).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTemplate, name, err)
		}
		return t, nil
	}

	b := &Builder{contentTypes: set.ContentTypes, rels: set.Rels}
	var err error
	if b.document, err = parse(assets.PartDocument, set.Document); err != nil {
		return nil, err
	}
	if b.documentRels, err = parse(assets.PartDocumentRels, set.DocumentRels); err != nil {
		return nil, err
	}
	if b.core, err = parse(assets.PartCoreProps, set.CoreProps); err != nil {
		return nil, err
	}
	return b, nil
}

// NewDefaultBuilder uses the embedded parts.
func NewDefaultBuilder() (*Builder, error) {
	set, err := assets.LoadPartSet()
	if err != nil {
		return nil, err
	}
	return NewBuilder(set)
}

// Build writes one section per JPEG image, in order.
func (b *Builder) Build(images [][]byte, props Properties) ([]byte, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	data := documentData{
		Page: pageData{
			WidthTwips: PageWidthTwips, HeightTwips: PageHeightTwips,
			WidthEMU: PageWidthEMU, HeightEMU: PageHeightEMU,
		},
		Images: make([]imageData, len(images)),
	}
	for i := range images {
		data.Images[i] = imageData{
			ID:    i + 1,
			RelID: fmt.Sprintf("rId%d", i+1),
			File:  fmt.Sprintf("image%d.jpeg", i+1),
			Last:  i == len(images)-1,
		}
	}

	var document, documentRels, core bytes.Buffer
	if err := b.document.Execute(&document, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplate, assets.PartDocument, err)
	}
	if err := b.documentRels.Execute(&documentRels, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplate, assets.PartDocumentRels, err)
	}
	if props.Created.IsZero() {
		props.Created = time.Now()
	}
	cd := coreData{
		Title:   props.Title,
		Creator: props.Creator,
		Created: props.Created.UTC().Format(time.RFC3339),
	}
	if err := b.core.Execute(&core, cd); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplate, assets.PartCoreProps, err)
	}

	parts := []zipPart{
		{"[Content_Types].xml", []byte(b.contentTypes)},
		{"_rels/.rels", []byte(b.rels)},
		{"docProps/core.xml", core.Bytes()},
		{"word/document.xml", document.Bytes()},
		{"word/_rels/document.xml.rels", documentRels.Bytes()},
	}
	for i, img := range images {
		parts = append(parts, zipPart{"word/media/" + data.Images[i].File, img})
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		hdr := &zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: props.Created}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing document: %w", err)
	}
	return buf.Bytes(), nil
}

func escapeXML(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
