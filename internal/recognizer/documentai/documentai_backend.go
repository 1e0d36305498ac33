package documentai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"repdf/internal/config"
	"repdf/internal/port"
)

// Processor is the subset of the Document AI client used by Backend.
type Processor interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error)
}

// Backend implements port.RecognitionBackend with a Google Document AI OCR
// processor. Detected paragraphs are reported as regions in the same JSON
// shape the language-model backends return.
type Backend struct {
	processor Processor
	name      string
	languages []string
}

// NewBackend dials the regional Document AI endpoint.
func NewBackend(ctx context.Context, cfg *config.RecognizerProviderConfig) (*Backend, error) {
	if cfg.ProjectID == "" || cfg.ProcessorID == "" {
		return nil, fmt.Errorf("documentai: project_id and processor_id are required")
	}
	location := cfg.Location
	if location == "" {
		location = "us"
	}
	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s-documentai.googleapis.com:443", location)
	}

	opts := []option.ClientOption{option.WithEndpoint(endpoint)}
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Document AI client: %w", err)
	}

	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s", cfg.ProjectID, location, cfg.ProcessorID)
	return NewBackendWithProcessor(client, name, cfg.Languages), nil
}

// NewBackendWithProcessor wraps an existing processor (for testing).
func NewBackendWithProcessor(p Processor, processorName string, languages []string) *Backend {
	return &Backend{processor: p, name: processorName, languages: languages}
}

func (b *Backend) Name() string {
	return "documentai"
}

func (b *Backend) Recognize(ctx context.Context, input port.RecognizeInput) (string, error) {
	req := &documentaipb.ProcessRequest{
		Name: b.name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  input.Image,
				MimeType: input.ContentType,
			},
		},
		SkipHumanReview: true,
	}
	if len(b.languages) > 0 {
		req.ProcessOptions = &documentaipb.ProcessOptions{
			OcrConfig: &documentaipb.OcrConfig{
				Hints: &documentaipb.OcrConfig_Hints{LanguageHints: b.languages},
			},
		}
	}

	resp, err := b.processor.ProcessDocument(ctx, req)
	if err != nil {
		return "", fmt.Errorf("documentai process: %w", err)
	}

	out := reply{Texts: []replyText{}}
	doc := resp.GetDocument()
	if doc != nil && len(doc.Pages) > 0 {
		out.Texts = pageTexts(doc.Pages[0], doc.Text, float64(input.Width), float64(input.Height))
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshaling reply: %w", err)
	}
	return string(data), nil
}

type reply struct {
	Texts []replyText `json:"texts"`
}

type replyText struct {
	Content    string  `json:"content"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence"`
}

// pageTexts prefers paragraphs and falls back to lines.
func pageTexts(page *documentaipb.Document_Page, fullText string, width, height float64) []replyText {
	var layouts []*documentaipb.Document_Page_Layout
	for _, p := range page.Paragraphs {
		layouts = append(layouts, p.GetLayout())
	}
	if len(layouts) == 0 {
		for _, l := range page.Lines {
			layouts = append(layouts, l.GetLayout())
		}
	}

	if width <= 0 || height <= 0 {
		if dim := page.GetDimension(); dim != nil {
			width, height = float64(dim.Width), float64(dim.Height)
		}
	}

	runes := []rune(fullText)
	texts := []replyText{}
	for _, layout := range layouts {
		content := strings.TrimSpace(textFromLayout(layout, runes))
		if content == "" {
			continue
		}
		x0, y0, x1, y1, ok := bounds(layout, width, height)
		if !ok {
			continue
		}
		texts = append(texts, replyText{
			Content:    content,
			X:          x0,
			Y:          y0,
			Width:      x1 - x0,
			Height:     y1 - y0,
			Confidence: float64(layout.GetConfidence()),
		})
	}
	return texts
}

// textFromLayout joins a layout's text anchor segments.
func textFromLayout(layout *documentaipb.Document_Page_Layout, runes []rune) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	var sb strings.Builder
	total := int64(len(runes))
	for _, seg := range layout.TextAnchor.TextSegments {
		start, end := seg.StartIndex, seg.EndIndex
		if start < 0 {
			start = 0
		}
		if end > total {
			end = total
		}
		if start > end {
			start = end
		}
		sb.WriteString(string(runes[start:end]))
	}
	return sb.String()
}

// bounds scales normalized vertices to pixels.
func bounds(layout *documentaipb.Document_Page_Layout, width, height float64) (x0, y0, x1, y1 float64, ok bool) {
	poly := layout.GetBoundingPoly()
	if poly == nil || len(poly.NormalizedVertices) == 0 {
		return 0, 0, 0, 0, false
	}
	x0, y0 = math.Inf(1), math.Inf(1)
	x1, y1 = math.Inf(-1), math.Inf(-1)
	for _, v := range poly.NormalizedVertices {
		x := float64(v.X) * width
		y := float64(v.Y) * height
		x0, x1 = math.Min(x0, x), math.Max(x1, x)
		y0, y1 = math.Min(y0, y), math.Max(y1, y)
	}
	return math.Round(x0), math.Round(y0), math.Round(x1), math.Round(y1), true
}
