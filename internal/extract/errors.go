package extract

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrCorruptDocument   = errors.New("corrupt document")
	ErrStorageRead       = errors.New("document read failed")
)

// IsExtractionError reports whether err belongs to the extraction failure set.
func IsExtractionError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrDocumentNotFound) ||
		errors.Is(err, ErrCorruptDocument) ||
		errors.Is(err, ErrStorageRead)
}
