package port

import (
	"image"

	"repdf/internal/domain"
)

// DeckBuilder assembles an output document one page at a time.
// Regions passed to AddPage are already mapped into canvas units (EMU).
type DeckBuilder interface {
	Canvas() domain.Canvas
	AddPage(background image.Image, regions []domain.TextRegion) error
	// Finalize serializes the document. A second call returns domain.ErrDocumentFinalized.
	Finalize() ([]byte, error)
}
