package raster

// Entry is one outline item. PageIndex is 0-based, negative when the item has
// no page destination.
type Entry struct {
	Level     int
	Title     string
	PageIndex int
}

// Outline returns the top-level outline entries in document order. A
// document without an outline yields no entries and no error.
func (d *Document) Outline() []Entry {
	d.mu.Lock()
	defer d.mu.Unlock()

	// MuPDF reports a missing outline as an error.
	all, err := d.r.Outline()
	if err != nil || len(all) == 0 {
		return nil
	}
	return topLevel(all)
}

// topLevel keeps entries at the shallowest level that have a destination.
func topLevel(entries []Entry) []Entry {
	minLevel := entries[0].Level
	for _, e := range entries[1:] {
		minLevel = min(minLevel, e.Level)
	}
	var out []Entry
	for _, e := range entries {
		if e.Level == minLevel && e.PageIndex >= 0 {
			out = append(out, e)
		}
	}
	return out
}
