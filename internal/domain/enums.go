package domain

import "strings"

// FileType represents the source document types accepted for conversion.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeGIF  FileType = "gif"
	FileTypeBMP  FileType = "bmp"
	FileTypeWEBP FileType = "webp"
	FileTypeTIFF FileType = "tiff"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeJPG:  "image/jpeg",
	FileTypePNG:  "image/png",
	FileTypeGIF:  "image/gif",
	FileTypeBMP:  "image/bmp",
	FileTypeWEBP: "image/webp",
	FileTypeTIFF: "image/tiff",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"image/gif":       FileTypeGIF,
	"image/bmp":       FileTypeBMP,
	"image/webp":      FileTypeWEBP,
	"image/tiff":      FileTypeTIFF,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"gif":  FileTypeGIF,
	"bmp":  FileTypeBMP,
	"webp": FileTypeWEBP,
	"tif":  FileTypeTIFF,
	"tiff": FileTypeTIFF,
}

// JobState is the lifecycle state of a conversion job.
type JobState string

const (
	JobStatePending    JobState = "pending"
	JobStateProcessing JobState = "processing"
	JobStateDone       JobState = "done"
	JobStateFailed     JobState = "failed"
)

// IsTerminal reports whether no further transitions are possible.
func (s JobState) IsTerminal() bool {
	return s == JobStateDone || s == JobStateFailed
}

// JobStep names the stage a job is currently executing.
type JobStep string

const (
	StepQueued     JobStep = "queued"
	StepInit       JobStep = "init"
	StepConverting JobStep = "converting"
	StepOCR        JobStep = "ocr"
	StepInpainting JobStep = "inpainting"
	StepPptx       JobStep = "pptx"
	StepSaving     JobStep = "saving"
)

// SlideRatio selects one of the two supported canvas presets.
type SlideRatio string

const (
	Ratio16x9 SlideRatio = "16:9"
	Ratio4x3  SlideRatio = "4:3"
)

// ParseSlideRatio validates a ratio string. Empty input yields 16:9.
func ParseSlideRatio(s string) (SlideRatio, error) {
	switch SlideRatio(strings.TrimSpace(s)) {
	case "", Ratio16x9:
		return Ratio16x9, nil
	case Ratio4x3:
		return Ratio4x3, nil
	default:
		return "", ErrInvalidRatio
	}
}

// OutputFormat selects the serialized form of the finished deck.
type OutputFormat string

const (
	OutputPPTX OutputFormat = "pptx"
	OutputPDF  OutputFormat = "pdf"
)

// ParseOutputFormat validates a format string. Empty input yields pptx.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputPPTX:
		return OutputPPTX, nil
	case OutputPDF:
		return OutputPDF, nil
	default:
		return "", ErrInvalidOutputFormat
	}
}

// ContentType returns the MIME type of the serialized deck.
func (f OutputFormat) ContentType() string {
	if f == OutputPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
}

// Extension returns the file extension without the dot.
func (f OutputFormat) Extension() string {
	if f == OutputPDF {
		return "pdf"
	}
	return "pptx"
}

// FontWeight is the recognized weight of a text region.
type FontWeight string

const (
	FontWeightNormal FontWeight = "normal"
	FontWeightBold   FontWeight = "bold"
)
