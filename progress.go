package docassist

import "math"

// PercentIndeterminate marks a progress event without a known completion.
const PercentIndeterminate = -1

// Progress is a stage-local progress event. Percent is in [0, 100] or
// PercentIndeterminate; it is never normalized across stages.
type Progress struct {
	Message string
	Percent int
}

// Indeterminate reports whether the event carries no percentage.
func (p Progress) Indeterminate() bool {
	return p.Percent == PercentIndeterminate
}

// ProgressSink receives progress events. Implementations must not block for
// long: events are delivered synchronously from the running pipeline.
type ProgressSink interface {
	Report(Progress)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(Progress)

// Report calls f(p).
func (f ProgressFunc) Report(p Progress) { f(p) }

// nopSink discards events.
type nopSink struct{}

func (nopSink) Report(Progress) {}

// stageReporter emits events for one named stage and never lets the
// percentage go backwards.
type stageReporter struct {
	sink    ProgressSink
	message string
	last    int
	ceiling int
}

func newStage(sink ProgressSink, message string) *stageReporter {
	return &stageReporter{sink: sink, message: message, last: PercentIndeterminate, ceiling: 100}
}

// capped limits the percentages emitted by set to ceiling, leaving room for
// later checkpoints of a multi-step stage.
func (s *stageReporter) capped(ceiling int) *stageReporter {
	s.ceiling = ceiling
	return s
}

// start emits the stage's 0% event.
func (s *stageReporter) start() {
	s.set(0)
}

// set emits percent, clamped to the ceiling and raised to the last emitted
// value if lower.
func (s *stageReporter) set(percent int) {
	percent = max(0, min(percent, s.ceiling))
	if percent < s.last {
		percent = s.last
	}
	s.last = percent
	s.sink.Report(Progress{Message: s.message, Percent: percent})
}

// step emits done/total as a rounded percentage.
func (s *stageReporter) step(done, total int) {
	s.set(fraction(done, total))
}

// fraction returns round(done/total*100), or 100 for an empty total.
func fraction(done, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
