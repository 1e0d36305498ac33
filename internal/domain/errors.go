package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrEmptyFile           = errors.New("file is empty")
	ErrUploadFailed        = errors.New("result upload to storage failed")

	ErrJobNotFound         = errors.New("job not found")
	ErrJobNotReady         = errors.New("job has not finished")
	ErrInvalidTransition   = errors.New("invalid job state transition")
	ErrInvalidRatio        = errors.New("invalid output ratio")
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrInvalidPageFilter   = errors.New("invalid page filter")
	ErrNoPagesSelected     = errors.New("page filter selects no pages")

	ErrNoPages           = errors.New("renderer produced no pages")
	ErrPageCountMismatch = errors.New("rendered page count does not match source document")
	ErrUnreadableSource  = errors.New("source document is unreadable")

	ErrDocumentFinalized = errors.New("document already finalized")
	ErrInvalidColor      = errors.New("invalid hex color")
)
