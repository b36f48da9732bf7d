package docassist_test

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alnah/go-docassist"
)

// Example merges two PDFs read from disk.
func Example() {
	a, err := os.ReadFile("a.pdf")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	b, err := os.ReadFile("b.pdf")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	proc, err := docassist.NewProcessor(docassist.WithTimeout(time.Minute))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	res, err := proc.Run(context.Background(), docassist.Input{
		Operation: docassist.OpMerge,
		Files: []docassist.File{
			{Name: "a.pdf", Data: a},
			{Name: "b.pdf", Data: b},
		},
	}, docassist.ProgressFunc(func(p docassist.Progress) {
		fmt.Printf("%s %d%%\n", p.Message, p.Percent)
	}))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	out := &docassist.DirDeliverer{Dir: "out"}
	if _, err := out.Deliver(context.Background(), res.Artifacts, nil); err != nil {
		fmt.Println("error:", err)
	}
}

// ExampleParseRanges shows how range tokens map onto page indices of a
// 12-page document. Malformed tokens are skipped.
func ExampleParseRanges() {
	ranges, err := docassist.ParseRanges("1-3, 7-5, x, 10-")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, r := range ranges {
		fmt.Println(r.Indices(12))
	}
	// Output:
	// [0 1 2]
	// [4 5 6]
	// [9 10 11]
}

// ExampleResolveOutline turns bookmark start pages into sections.
func ExampleResolveOutline() {
	sections := docassist.ResolveOutline([]docassist.OutlineEntry{
		{Title: "Introduction", PageIndex: 0},
		{Title: "Methods & Data", PageIndex: 3},
		{Title: "Dangling", PageIndex: 99},
	}, 6)
	for _, s := range sections {
		fmt.Printf("%s: pages %d-%d\n", s.Label, s.Range.Start, s.Range.End)
	}
	// Output:
	// Introduction: pages 1-3
	// Methods_Data: pages 4-6
}

// ExampleBundle packs several artifacts into one ZIP attachment.
func ExampleBundle() {
	zip, err := docassist.Bundle([]docassist.Artifact{
		{Name: "page_1.jpg", Data: []byte("jpeg-1")},
		{Name: "page_2.jpg", Data: []byte("jpeg-2")},
	}, "scans", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(zip.Name, zip.ContentType)
	// Output:
	// scans.zip application/zip
}

// ExampleProcessorPool runs split jobs concurrently.
func ExampleProcessorPool() {
	pool, err := docassist.NewProcessorPool(docassist.ResolvePoolSize(0))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer pool.Close()

	proc := pool.Acquire()
	defer pool.Release(proc)

	data, err := os.ReadFile("report.pdf")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	res, err := proc.Run(context.Background(), docassist.Input{
		Operation: docassist.OpSplitRanges,
		Files:     []docassist.File{{Name: "report.pdf", Data: data}},
		Ranges:    "1-3,4-",
	}, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, a := range res.Artifacts {
		fmt.Println(a.Name)
	}
}
