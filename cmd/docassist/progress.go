package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	docassist "github.com/alnah/go-docassist"
)

// barWidth is the rendered bar width in cells.
const barWidth = 30

// barSink renders progress events as terminal bars, one bar per stage.
// A new message ends the current bar and starts the next one. A bar that
// stops short of 100% keeps its last state.
type barSink struct {
	mu      sync.Mutex
	w       io.Writer
	message string
	bar     *progressbar.ProgressBar
}

// Compile-time check that barSink implements docassist.ProgressSink.
var _ docassist.ProgressSink = (*barSink)(nil)

func newBarSink(w io.Writer) *barSink {
	return &barSink{w: w}
}

// Report updates the bar for the event's stage.
func (s *barSink) Report(p docassist.Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bar == nil || p.Message != s.message {
		s.finish()
		s.message = p.Message
		s.bar = s.newBar(p)
	}

	if p.Indeterminate() {
		_ = s.bar.Add(1)
		return
	}
	_ = s.bar.Set(p.Percent)
}

// Close finishes the current bar, if any.
func (s *barSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finish()
}

func (s *barSink) newBar(p docassist.Progress) *progressbar.ProgressBar {
	total := 100
	if p.Indeterminate() {
		total = -1 // spinner
	}
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionSetDescription(p.Message),
		progressbar.OptionSetWidth(barWidth),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (s *barSink) finish() {
	if s.bar == nil {
		return
	}
	fmt.Fprintln(s.w)
	s.bar = nil
}
