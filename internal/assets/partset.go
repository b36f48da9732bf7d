package assets

import "fmt"

// Part template names.
const (
	PartContentTypes = "content_types"
	PartRels         = "rels"
	PartDocument     = "document"
	PartDocumentRels = "document_rels"
	PartCoreProps    = "core"
)

// PartSet holds the templates needed to write one Word document.
type PartSet struct {
	ContentTypes string
	Rels         string
	Document     string
	DocumentRels string
	CoreProps    string
}

// loadPartSet loads every part from loader. A missing part is reported as
// ErrPartNotFound naming it.
func loadPartSet(loader AssetLoader) (*PartSet, error) {
	set := &PartSet{}
	targets := []struct {
		name string
		dst  *string
	}{
		{PartContentTypes, &set.ContentTypes},
		{PartRels, &set.Rels},
		{PartDocument, &set.Document},
		{PartDocumentRels, &set.DocumentRels},
		{PartCoreProps, &set.CoreProps},
	}
	for _, t := range targets {
		content, err := loader.LoadPart(t.name)
		if err != nil {
			return nil, fmt.Errorf("loading part %s: %w", t.name, err)
		}
		*t.dst = content
	}
	return set, nil
}
