// Package pdfdoc reassembles, merges and builds PDF documents with pdfcpu.
//
// A Document wraps a parsed pdfcpu context. Reassemble copies an ordered
// selection of its pages into a new, independently serializable PDF:
//
//	doc, err := pdfdoc.Load(data)
//	out, err := doc.Reassemble([]int{2, 0, 1}) // 0-based, any order
//
// Merger folds whole documents into one accumulating output, and Embedder
// appends one page per JPEG/PNG image, sized to the image's pixel dimensions.
package pdfdoc

import "github.com/pdfcpu/pdfcpu/pkg/api"

func init() {
	// Keep pdfcpu from creating a config directory under the user's home.
	api.DisableConfigDir()
}
