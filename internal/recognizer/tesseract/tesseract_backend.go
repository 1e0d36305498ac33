//go:build tesseract

package tesseract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"repdf/internal/config"
	"repdf/internal/port"
)

// Backend implements port.RecognitionBackend with a local Tesseract install.
// Each recognized text line becomes one region.
type Backend struct {
	clientFactory func() *gosseract.Client
	languages     []string
}

// NewBackend creates a Tesseract-backed recognizer.
func NewBackend(cfg *config.RecognizerProviderConfig) *Backend {
	return &Backend{clientFactory: gosseract.NewClient, languages: cfg.Languages}
}

func (b *Backend) Name() string { return "tesseract" }

type reply struct {
	Texts []replyText `json:"texts"`
}

type replyText struct {
	Content    string  `json:"content"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

func (b *Backend) Recognize(ctx context.Context, input port.RecognizeInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := b.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(input.Image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if len(b.languages) > 0 {
		if err := c.SetLanguage(b.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return "", fmt.Errorf("recognize lines: %w", err)
	}

	return EncodeBoxes(boxes)
}

// EncodeBoxes renders Tesseract line boxes as a {"texts": [...]} reply.
// Blank lines are dropped and confidence is scaled from percent to [0,1].
func EncodeBoxes(boxes []gosseract.BoundingBox) (string, error) {
	out := reply{Texts: []replyText{}}
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		out.Texts = append(out.Texts, replyText{
			Content:    text,
			X:          box.Box.Min.X,
			Y:          box.Box.Min.Y,
			Width:      box.Box.Dx(),
			Height:     box.Box.Dy(),
			Confidence: box.Confidence / 100.0,
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshaling reply: %w", err)
	}
	return string(data), nil
}
