package pdfdoc

import "errors"

// Sentinel errors for PDF operations.
var (
	ErrDecode          = errors.New("failed to read PDF")
	ErrEncode          = errors.New("failed to write PDF")
	ErrIndexOutOfRange = errors.New("page index out of range")
	ErrNoPages         = errors.New("no pages selected")
	ErrImageImport     = errors.New("failed to import image")
)
