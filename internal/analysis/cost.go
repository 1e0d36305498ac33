package analysis

import "repdf/internal/domain"

// Per-page token budget and pricing (USD per million tokens) of the hosted
// recognition model.
const (
	inputTokensPerPage  = 2000
	outputTokensPerPage = 500
	inputPricePerM      = 0.50
	outputPricePerM     = 3.00
)

// EstimateCost prices recognition for pages. Background fill runs locally,
// so inpainting is always zero.
func EstimateCost(pages int) domain.CostEstimate {
	if pages < 0 {
		pages = 0
	}
	in := float64(pages * inputTokensPerPage)
	out := float64(pages * outputTokensPerPage)
	ocr := round((in*inputPricePerM+out*outputPricePerM)/1_000_000, 4)
	return domain.CostEstimate{
		OCR:        ocr,
		Inpainting: 0,
		Total:      ocr,
		Currency:   "USD",
	}
}
