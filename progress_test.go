package docassist

import (
	"slices"
	"testing"
)

// recordingSink collects events for assertions.
type recordingSink struct {
	events []Progress
}

func (r *recordingSink) Report(p Progress) { r.events = append(r.events, p) }

func (r *recordingSink) percents(message string) []int {
	var out []int
	for _, e := range r.events {
		if e.Message == message {
			out = append(out, e.Percent)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// TestStageReporter - Monotonic stage-local percentages
// ---------------------------------------------------------------------------

func TestStageReporter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		drive func(s *stageReporter)
		want  []int
	}{
		{
			name: "steps round to whole percent",
			drive: func(s *stageReporter) {
				s.start()
				s.step(1, 3)
				s.step(2, 3)
				s.step(3, 3)
			},
			want: []int{0, 33, 67, 100},
		},
		{
			name: "never decreases",
			drive: func(s *stageReporter) {
				s.set(40)
				s.set(10)
				s.set(60)
			},
			want: []int{40, 40, 60},
		},
		{
			name: "clamped to bounds",
			drive: func(s *stageReporter) {
				s.set(-5)
				s.set(250)
			},
			want: []int{0, 100},
		},
		{
			name: "ceiling leaves room for checkpoints",
			drive: func(s *stageReporter) {
				s.capped(90)
				s.step(1, 1)
				s.capped(100).set(95)
				s.set(100)
			},
			want: []int{90, 95, 100},
		},
		{
			name: "empty total completes",
			drive: func(s *stageReporter) {
				s.step(0, 0)
			},
			want: []int{100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sink := &recordingSink{}
			tt.drive(newStage(sink, "stage"))

			if got := sink.percents("stage"); !slices.Equal(got, tt.want) {
				t.Errorf("percents = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgress_Indeterminate(t *testing.T) {
	t.Parallel()

	if !(Progress{Percent: PercentIndeterminate}).Indeterminate() {
		t.Error("PercentIndeterminate should be indeterminate")
	}
	if (Progress{Percent: 0}).Indeterminate() {
		t.Error("0% should not be indeterminate")
	}
}

func TestProgressFunc(t *testing.T) {
	t.Parallel()

	var got Progress
	var sink ProgressSink = ProgressFunc(func(p Progress) { got = p })
	sink.Report(Progress{Message: "m", Percent: 5})

	if got.Message != "m" || got.Percent != 5 {
		t.Errorf("ProgressFunc received %+v", got)
	}
}
