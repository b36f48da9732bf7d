// Package bundle packs named files into a single flat ZIP archive.
package bundle

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors.
var (
	ErrEmpty     = errors.New("nothing to bundle")
	ErrEntryName = errors.New("invalid bundle entry name")
)

// Entry is one file of the bundle.
type Entry struct {
	Name string
	Data []byte
}

// Zip writes entries, in order, as top-level deflated files. Names must be
// non-empty, unique and free of path separators. modTime stamps every entry;
// the zero time leaves the archive's default.
func Zip(entries []Entry, modTime time.Time) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if err := validateName(e.Name); err != nil {
			return nil, err
		}
		if _, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate %q", ErrEntryName, e.Name)
		}
		seen[e.Name] = struct{}{}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		if !modTime.IsZero() {
			hdr.Modified = modTime
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("creating entry %q: %w", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, fmt.Errorf("writing entry %q: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}
	return buf.Bytes(), nil
}

func validateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrEntryName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrEntryName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains a null byte", ErrEntryName, name)
	}
	return nil
}
