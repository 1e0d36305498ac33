package domain

// DocumentKind classifies a source by whether its pages carry a text layer.
type DocumentKind string

const (
	KindNativePDF DocumentKind = "native_pdf"
	KindImagePDF  DocumentKind = "image_pdf"
	KindMixed     DocumentKind = "mixed"
	KindImage     DocumentKind = "image"
)

// Orientation of the first page.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// PaperSize is the physical size of a page and the closest standard name.
type PaperSize struct {
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
	Name     string  `json:"name"`
}

// CostEstimate is the expected recognition spend in USD.
type CostEstimate struct {
	OCR        float64 `json:"ocr"`
	Inpainting float64 `json:"inpainting"`
	Total      float64 `json:"total"`
	Currency   string  `json:"currency"`
}

// DocumentAnalysis summarizes an upload before conversion.
type DocumentAnalysis struct {
	Kind          DocumentKind `json:"type"`
	Pages         int          `json:"pages"`
	PagesWithText int          `json:"pages_with_text"`
	PagesNeedOCR  int          `json:"pages_need_ocr"`
	OriginalSize  PaperSize    `json:"original_size"`
	Orientation   Orientation  `json:"orientation"`
	EstimatedCost CostEstimate `json:"estimated_cost"`
}
