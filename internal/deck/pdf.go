package deck

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"repdf/internal/domain"
)

// emuPerPoint converts canvas units to PDF points.
const emuPerPoint = 12700.0

// lineSpacing is the line height as a multiple of the font size.
const lineSpacing = 1.2

// PDF renders the same slide geometry as PPTX into a PDF with one page per
// slide. Text uses the core Helvetica font, so characters outside Latin-1 are
// replaced.
type PDF struct {
	mu        sync.Mutex
	canvas    domain.Canvas
	doc       *fpdf.Fpdf
	pages     int
	finalized bool
	latin1    *encoding.Encoder
}

// NewPDF creates an empty PDF deck on canvas.
func NewPDF(canvas domain.Canvas) *PDF {
	doc := fpdf.New("L", "pt", "", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	doc.SetCreator("repdf", true)
	return &PDF{
		canvas: canvas,
		doc:    doc,
		latin1: encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()),
	}
}

func (d *PDF) Canvas() domain.Canvas {
	return d.canvas
}

func (d *PDF) pageSize() (float64, float64) {
	return float64(d.canvas.Width) / emuPerPoint, float64(d.canvas.Height) / emuPerPoint
}

// AddPage appends one page with the background stretched to the page and one
// text frame per non-blank region.
func (d *PDF) AddPage(background image.Image, regions []domain.TextRegion) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.finalized {
		return domain.ErrDocumentFinalized
	}
	if background == nil {
		return fmt.Errorf("page %d: missing background", d.pages+1)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, background); err != nil {
		return fmt.Errorf("page %d: encoding background: %w", d.pages+1, err)
	}

	d.pages++
	w, h := d.pageSize()
	orientation := "L"
	if h > w {
		orientation = "P"
	}
	d.doc.AddPageFormat(orientation, fpdf.SizeType{Wd: w, Ht: h})

	name := fmt.Sprintf("page%d", d.pages)
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	d.doc.RegisterImageOptionsReader(name, opts, &buf)
	d.doc.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")

	for _, r := range regions {
		if !hasText(r) {
			continue
		}
		d.drawText(r)
	}

	if err := d.doc.Error(); err != nil {
		return fmt.Errorf("page %d: %w", d.pages, err)
	}
	return nil
}

func (d *PDF) drawText(r domain.TextRegion) {
	b := boxOf(r)
	st := resolveStyle(r)

	size := st.size
	if size <= 0 {
		size = DefaultFontSize
	}
	fontStyle := ""
	if st.bold {
		fontStyle = "B"
	}
	d.doc.SetFont("Helvetica", fontStyle, size)
	if st.hasColor {
		d.doc.SetTextColor(int(st.color.R), int(st.color.G), int(st.color.B))
	} else {
		d.doc.SetTextColor(0, 0, 0)
	}

	x := float64(b.x) / emuPerPoint
	y := float64(b.y) / emuPerPoint
	w := float64(b.w) / emuPerPoint

	text, err := d.latin1.String(strings.ReplaceAll(r.Content, "\r\n", "\n"))
	if err != nil {
		text = r.Content
	}
	d.doc.SetXY(x, y)
	d.doc.MultiCell(w, size*lineSpacing, text, "", "L", false)
}

// Finalize returns the PDF bytes. It may be called once.
func (d *PDF) Finalize() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.finalized {
		return nil, domain.ErrDocumentFinalized
	}
	d.finalized = true

	var buf bytes.Buffer
	if err := d.doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}
