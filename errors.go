package docassist

import (
	"errors"

	"github.com/alnah/go-docassist/internal/bundle"
	"github.com/alnah/go-docassist/internal/pdfdoc"
)

// Error categories. Operation failures match exactly one of them with
// errors.Is; cancellation surfaces as the context's own error.
var (
	ErrValidation      = errors.New("validation failed")
	ErrInvalidSpec     = errors.New("no valid page ranges (expected e.g. \"1-3,5-7,10-\")")
	ErrIndexOutOfRange = pdfdoc.ErrIndexOutOfRange
	ErrExternalService = errors.New("external service failed")
)

// Validation errors. Each one also matches ErrValidation.
var (
	ErrNoFiles            = validationError("please add at least one file")
	ErrTooManyFiles       = validationError("too many files")
	ErrFileTooLarge       = validationError("file exceeds maximum size")
	ErrNotPDF             = validationError("file is not a PDF")
	ErrUnsupportedFormat  = validationError("unsupported image type")
	ErrExactlyOneFile     = validationError("operation requires exactly one file")
	ErrEmptyDocument      = validationError("document has no pages")
	ErrUnknownOperation   = validationError("unknown operation")
	ErrMissingRecipient   = validationError("please provide a recipient email")
	ErrInvalidOutputName  = validationError("invalid output name")
	ErrInvalidTemplateDir = validationError("invalid DOCX template directory")
)

// External service errors. Each one also matches ErrExternalService.
var (
	ErrDecode                = externalError("decoding document")
	ErrEncode                = externalError("encoding document")
	ErrDelivery              = externalError("delivering artifacts")
	ErrDeliveryNotConfigured = externalError("email delivery is not configured")
)

// Run lifecycle errors.
var (
	ErrRunInProgress = errors.New("a run is already in progress")
)

// Bundling errors.
var (
	ErrBundleEmpty     = bundle.ErrEmpty
	ErrBundleEntryName = bundle.ErrEntryName
)

// categorizedError is a sentinel that also matches its category.
type categorizedError struct {
	msg      string
	category error
}

func (e *categorizedError) Error() string { return e.msg }

func (e *categorizedError) Is(target error) bool { return target == e.category }

func validationError(msg string) error {
	return &categorizedError{msg: msg, category: ErrValidation}
}

func externalError(msg string) error {
	return &categorizedError{msg: msg, category: ErrExternalService}
}
