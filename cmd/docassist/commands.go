package main

import (
	docassist "github.com/alnah/go-docassist"
)

// command describes one document operation exposed on the command line.
type command struct {
	name      string
	operation docassist.Operation
	args      string
	summary   string
	perFile   bool // one job per input file
}

// commands lists the operation commands in help order.
var commands = []command{
	{
		name:      "merge",
		operation: docassist.OpMerge,
		args:      "<file.pdf> <file.pdf>...",
		summary:   "Merge PDFs into one document, in argument order",
	},
	{
		name:      "split",
		operation: docassist.OpSplitRanges,
		args:      "<file.pdf>... --ranges <spec>",
		summary:   "Split PDFs into one document per page range",
		perFile:   true,
	},
	{
		name:      "bookmarks",
		operation: docassist.OpSplitBookmarks,
		args:      "<file.pdf>...",
		summary:   "Split PDFs at their top-level bookmarks",
		perFile:   true,
	},
	{
		name:      "to-jpg",
		operation: docassist.OpPDFToJPG,
		args:      "<file.pdf>...",
		summary:   "Render every PDF page to a JPEG image",
		perFile:   true,
	},
	{
		name:      "to-pdf",
		operation: docassist.OpImagesToPDF,
		args:      "<image>...",
		summary:   "Combine JPEG/PNG images into one PDF, one page per image",
	},
	{
		name:      "to-docx",
		operation: docassist.OpPDFToDOCX,
		args:      "<file.pdf>...",
		summary:   "Convert PDFs to Word documents with one page image per page",
		perFile:   true,
	},
}

// lookupCommand returns the operation command registered under name.
func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// rendersPages reports whether the command rasterizes pages.
func (c command) rendersPages() bool {
	return c.operation == docassist.OpPDFToJPG || c.operation == docassist.OpPDFToDOCX
}
