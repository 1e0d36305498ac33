// Package deck assembles reconstructed pages into an output document.
package deck

import (
	"fmt"

	"repdf/internal/domain"
	"repdf/internal/port"
)

// New returns an empty builder for the requested output format with its
// canvas fixed by ratio.
func New(format domain.OutputFormat, ratio domain.SlideRatio) (port.DeckBuilder, error) {
	canvas := domain.CanvasForRatio(ratio)
	switch format {
	case domain.OutputPPTX, "":
		return NewPPTX(canvas), nil
	case domain.OutputPDF:
		return NewPDF(canvas), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidOutputFormat, format)
	}
}
