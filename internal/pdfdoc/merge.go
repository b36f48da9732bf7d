package pdfdoc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Merger concatenates whole PDFs in the order they are appended.
type Merger struct {
	acc   []byte
	count int
}

// Append folds data into the accumulated document. The first source is
// validated and kept as is.
func (m *Merger) Append(data []byte) error {
	if m.acc == nil {
		if _, err := Load(data); err != nil {
			return err
		}
		m.acc = data
		m.count++
		return nil
	}

	var buf bytes.Buffer
	sources := []io.ReadSeeker{bytes.NewReader(m.acc), bytes.NewReader(data)}
	if err := api.MergeRaw(sources, &buf, false, newConfig()); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	m.acc = buf.Bytes()
	m.count++
	return nil
}

// Len returns the number of sources merged so far.
func (m *Merger) Len() int { return m.count }

// Bytes returns the merged document, or ErrNoPages if nothing was appended.
func (m *Merger) Bytes() ([]byte, error) {
	if m.acc == nil {
		return nil, ErrNoPages
	}
	return m.acc, nil
}
