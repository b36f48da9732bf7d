package docassist

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// OpenEnd marks a PageRange that runs to the last page ("5-"). An explicit
// end of 0 is a real bound and clamps to the first page.
const OpenEnd = -1

// Outline label limits.
const (
	maxLabelLength = 50
	defaultLabel   = "Section"
)

var (
	rangeTokenPattern = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)?$`)
	labelUnsafeChars  = regexp.MustCompile(`[^\w\-]+`)
)

// PageRange is a 1-based inclusive page interval as typed by the user.
// Start may be greater than End; Indices normalizes the interval.
type PageRange struct {
	Start int
	End   int // OpenEnd = last page
}

// Indices maps the range onto 0-based page indices of an n-page document.
// Both bounds are clamped to [1, n] before enumeration, so the result is
// never empty for n >= 1 and always ascending.
func (r PageRange) Indices(n int) []int {
	if n < 1 {
		return nil
	}
	end := r.End
	if end == OpenEnd {
		end = n
	}
	s := clamp(r.Start, 1, n)
	e := clamp(end, 1, n)
	lo, hi := min(s, e), max(s, e)

	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i-1)
	}
	return out
}

// ParseRanges parses comma-separated "start-end" tokens ("1-3, 4-4, 5-").
// Tokens that do not match the syntax, or that start at page 0, are skipped.
// Returns ErrInvalidSpec if no token survives.
func ParseRanges(spec string) ([]PageRange, error) {
	var out []PageRange
	for _, part := range strings.Split(spec, ",") {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		m := rangeTokenPattern.FindStringSubmatch(token)
		if m == nil {
			continue
		}
		start := parsePage(m[1])
		if start <= 0 {
			continue
		}
		end := OpenEnd
		if m[2] != "" {
			end = parsePage(m[2])
		}
		out = append(out, PageRange{Start: start, End: end})
	}
	if len(out) == 0 {
		return nil, ErrInvalidSpec
	}
	return out, nil
}

// ResolveRanges parses spec and binds open ends to pageCount.
func ResolveRanges(spec string, pageCount int) ([]PageRange, error) {
	ranges, err := ParseRanges(spec)
	if err != nil {
		return nil, err
	}
	for i := range ranges {
		if ranges[i].End == OpenEnd {
			ranges[i].End = pageCount
		}
	}
	return ranges, nil
}

// OutlineEntry is a top-level bookmark with a resolved 0-based page index.
type OutlineEntry struct {
	Title     string
	PageIndex int
}

// Section is one output of a bookmark split.
type Section struct {
	Label string
	Range PageRange
}

// ResolveOutline turns bookmark start points into page ranges. Entries that
// point outside the document are dropped. Each section runs up to (but not
// including) the next section's first page; the last one runs to the end.
// Returns nil when nothing resolves.
func ResolveOutline(entries []OutlineEntry, pageCount int) []Section {
	starts := make([]OutlineEntry, 0, len(entries))
	for _, e := range entries {
		if e.PageIndex >= 0 && e.PageIndex < pageCount {
			starts = append(starts, e)
		}
	}
	if len(starts) == 0 {
		return nil
	}
	slices.SortStableFunc(starts, func(a, b OutlineEntry) int {
		return cmp.Compare(a.PageIndex, b.PageIndex)
	})

	sections := make([]Section, 0, len(starts))
	for i, s := range starts {
		first := s.PageIndex + 1
		last := pageCount
		if i+1 < len(starts) {
			// Entries sharing a start page: the earlier one keeps that page.
			last = max(starts[i+1].PageIndex, first)
		}
		sections = append(sections, Section{
			Label: SanitizeLabel(s.Title),
			Range: PageRange{Start: first, End: last},
		})
	}
	return sections
}

// SanitizeLabel makes a bookmark title safe as a file-name fragment.
func SanitizeLabel(title string) string {
	if title == "" {
		title = defaultLabel
	}
	s := labelUnsafeChars.ReplaceAllString(title, "_")
	if len(s) > maxLabelLength {
		s = s[:maxLabelLength]
	}
	return s
}

// parsePage converts a run of digits, saturating at math.MaxInt so that
// oversized page numbers clamp to the last page instead of being dropped.
func parsePage(digits string) int {
	v, err := strconv.Atoi(digits)
	if err != nil {
		return math.MaxInt
	}
	return v
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
