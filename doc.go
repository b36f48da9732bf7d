// Package docassist merges, splits and converts PDF documents in memory.
//
// # Quick Start
//
// Create a processor, run an operation, and save the artifacts:
//
//	proc, err := docassist.NewProcessor()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := proc.Run(ctx, docassist.Input{
//	    Operation: docassist.OpSplitRanges,
//	    Files:     []docassist.File{{Name: "report.pdf", Data: data}},
//	    Ranges:    "1-3, 4-4, 5-",
//	}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, a := range res.Artifacts {
//	    os.WriteFile(a.Name, a.Data, 0644)
//	}
//
// # Operations
//
//   - OpMerge: concatenate PDFs in input order.
//   - OpSplitRanges: one PDF per page range ("1-3, 5-").
//   - OpSplitBookmarks: one PDF per top-level outline entry. A document
//     without a usable outline is passed through unchanged.
//   - OpPDFToJPG: one JPEG per page.
//   - OpImagesToPDF: one page per JPEG or PNG, sized to the image.
//   - OpPDFToDOCX: a Word document with one US Letter section per page image.
//
// Page decoding and reassembly use pdfcpu; rendering and outline reading use
// MuPDF through go-fitz, which requires cgo.
//
// # Progress
//
// Run reports stage-local progress to a ProgressSink. Percentages within a
// stage never decrease:
//
//	sink := docassist.ProgressFunc(func(p docassist.Progress) {
//	    fmt.Printf("%s %d%%\n", p.Message, p.Percent)
//	})
//	res, err := proc.Run(ctx, in, sink)
//
// # Errors
//
// Failures match one category with errors.Is: ErrValidation, ErrInvalidSpec,
// ErrIndexOutOfRange or ErrExternalService. Cancellation returns the
// context's error. A Processor runs one job at a time; a concurrent Run
// returns ErrRunInProgress.
//
// # Parallel Processing
//
// For batch processing, use ProcessorPool:
//
//	pool, err := docassist.NewProcessorPool(docassist.ResolvePoolSize(0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	proc := pool.Acquire()
//	defer pool.Release(proc)
//	res, err := proc.Run(ctx, in, nil)
//
// # Delivery
//
// DirDeliverer saves artifacts to a directory. MailDeliverer sends them as a
// single attachment (a ZIP bundle when there are several) through a Mailer;
// NewGraphMailer posts to Microsoft Graph with a caller-supplied token.
package docassist
