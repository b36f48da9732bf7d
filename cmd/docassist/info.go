package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	docassist "github.com/alnah/go-docassist"
	"github.com/alnah/go-docassist/internal/pdfdoc"
	"github.com/alnah/go-docassist/internal/raster"
)

// pdfInfo describes one inspected PDF.
type pdfInfo struct {
	File    string        `json:"file"`
	Pages   int           `json:"pages"`
	Sizes   []sizeRun     `json:"sizes"`
	Outline []outlineItem `json:"outline,omitempty"`
}

// sizeRun is a run of consecutive pages sharing one size, 1-based inclusive.
type sizeRun struct {
	First  int     `json:"first"`
	Last   int     `json:"last"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// outlineItem is a top-level bookmark; Page is 1-based, 0 without a target.
type outlineItem struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
}

// runInfo prints page count, page sizes and bookmarks of PDF files.
func runInfo(args []string, env *Environment) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	jsonOutput := fs.Bool("json", false, "print machine-readable JSON")
	fs.Usage = func() { printInfoUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: usage: docassist info <file.pdf>...", ErrNoInput)
	}

	infos := make([]*pdfInfo, 0, fs.NArg())
	for _, path := range fs.Args() {
		info, err := inspectPDF(path)
		if err != nil {
			return err
		}
		infos = append(infos, info)
	}

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	for i, info := range infos {
		if i > 0 {
			fmt.Fprintln(env.Stdout)
		}
		printInfo(env.Stdout, info)
	}
	return nil
}

// inspectPDF reads path and collects its page geometry and outline.
func inspectPDF(path string) (*pdfInfo, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided input path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	dims, err := pdfdoc.PageDims(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", docassist.ErrDecode, path, err)
	}

	doc, err := raster.Open(data, raster.Options{})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", docassist.ErrDecode, path, err)
	}
	defer func() { _ = doc.Close() }()

	info := &pdfInfo{
		File:  filepath.Base(path),
		Pages: len(dims),
		Sizes: groupSizes(dims),
	}
	for _, e := range doc.Outline() {
		info.Outline = append(info.Outline, outlineItem{Title: e.Title, Page: e.PageIndex + 1})
	}
	return info, nil
}

// groupSizes collapses consecutive pages of equal size.
func groupSizes(dims []pdfdoc.PageSize) []sizeRun {
	var runs []sizeRun
	for i, d := range dims {
		n := len(runs)
		if n > 0 && runs[n-1].Width == d.Width && runs[n-1].Height == d.Height {
			runs[n-1].Last = i + 1
			continue
		}
		runs = append(runs, sizeRun{First: i + 1, Last: i + 1, Width: d.Width, Height: d.Height})
	}
	return runs
}

// printInfo outputs a human-readable summary.
func printInfo(w io.Writer, info *pdfInfo) {
	fmt.Fprintf(w, "File:   %s\n", info.File)
	fmt.Fprintf(w, "Pages:  %d\n", info.Pages)
	for _, r := range info.Sizes {
		pages := fmt.Sprintf("page %d", r.First)
		if r.Last > r.First {
			pages = fmt.Sprintf("pages %d-%d", r.First, r.Last)
		}
		fmt.Fprintf(w, "Size:   %.0f x %.0f pt (%s)\n", r.Width, r.Height, pages)
	}
	if len(info.Outline) == 0 {
		fmt.Fprintln(w, "Outline: none")
		return
	}
	fmt.Fprintln(w, "Outline:")
	for _, item := range info.Outline {
		if item.Page < 1 {
			fmt.Fprintf(w, "  %s\n", item.Title)
			continue
		}
		fmt.Fprintf(w, "  %s (page %d)\n", item.Title, item.Page)
	}
}
