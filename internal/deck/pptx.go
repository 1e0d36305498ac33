package deck

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"
	"time"

	"repdf/internal/domain"
)

// PPTX builds an Office Open XML presentation. Every slide uses a single
// blank layout; the background is a picture stretched over the canvas and
// text boxes follow it in z-order.
type PPTX struct {
	mu        sync.Mutex
	canvas    domain.Canvas
	slides    []pptxSlide
	finalized bool
}

type pptxSlide struct {
	background []byte
	regions    []domain.TextRegion
}

// NewPPTX creates an empty presentation on canvas.
func NewPPTX(canvas domain.Canvas) *PPTX {
	return &PPTX{canvas: canvas}
}

func (d *PPTX) Canvas() domain.Canvas {
	return d.canvas
}

// AddPage appends one slide. Regions must already be in EMU; blank ones are
// dropped and degenerate sizes get the default footprint.
func (d *PPTX) AddPage(background image.Image, regions []domain.TextRegion) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.finalized {
		return domain.ErrDocumentFinalized
	}
	if background == nil {
		return fmt.Errorf("slide %d: missing background", len(d.slides)+1)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, background); err != nil {
		return fmt.Errorf("slide %d: encoding background: %w", len(d.slides)+1, err)
	}

	kept := make([]domain.TextRegion, 0, len(regions))
	for _, r := range regions {
		if hasText(r) {
			kept = append(kept, r)
		}
	}
	d.slides = append(d.slides, pptxSlide{background: buf.Bytes(), regions: kept})
	return nil
}

// Finalize writes the package. It may be called once.
func (d *PPTX) Finalize() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.finalized {
		return nil, domain.ErrDocumentFinalized
	}
	d.finalized = true

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := time.Now().UTC()

	add := func(name string, body []byte) error {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
		if _, err := w.Write(body); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		return nil
	}

	parts := []struct {
		name string
		body []byte
	}{
		{"[Content_Types].xml", d.contentTypes()},
		{"_rels/.rels", []byte(rootRels)},
		{"docProps/core.xml", []byte(fmt.Sprintf(corePropsXML, modified.Format(time.RFC3339), modified.Format(time.RFC3339)))},
		{"docProps/app.xml", []byte(fmt.Sprintf(appPropsXML, len(d.slides)))},
		{"ppt/presentation.xml", d.presentation()},
		{"ppt/_rels/presentation.xml.rels", d.presentationRels()},
		{"ppt/presProps.xml", []byte(presPropsXML)},
		{"ppt/viewProps.xml", []byte(viewPropsXML)},
		{"ppt/tableStyles.xml", []byte(tableStylesXML)},
		{"ppt/theme/theme1.xml", []byte(themeXML)},
		{"ppt/slideMasters/slideMaster1.xml", []byte(slideMasterXML)},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", []byte(slideMasterRels)},
		{"ppt/slideLayouts/slideLayout1.xml", []byte(slideLayoutXML)},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", []byte(slideLayoutRels)},
	}
	for _, p := range parts {
		if err := add(p.name, p.body); err != nil {
			return nil, err
		}
	}

	for i, s := range d.slides {
		n := i + 1
		if err := add(fmt.Sprintf("ppt/slides/slide%d.xml", n), d.slideXML(s)); err != nil {
			return nil, err
		}
		if err := add(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), []byte(fmt.Sprintf(slideRels, n))); err != nil {
			return nil, err
		}
		if err := add(fmt.Sprintf("ppt/media/image%d.png", n), s.background); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing package: %w", err)
	}
	d.slides = nil
	return buf.Bytes(), nil
}

func (d *PPTX) contentTypes() []byte {
	var sb strings.Builder
	sb.WriteString(contentTypesHead)
	for i := range d.slides {
		fmt.Fprintf(&sb, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
	}
	sb.WriteString(`</Types>`)
	return []byte(sb.String())
}

// Slide relationship ids start after the fixed presentation parts.
const firstSlideRID = 6

func (d *PPTX) presentation() []byte {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:presentation ` + pmlNamespaces + ` saveSubsetFonts="1">`)
	sb.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if len(d.slides) > 0 {
		sb.WriteString(`<p:sldIdLst>`)
		for i := range d.slides {
			fmt.Fprintf(&sb, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, firstSlideRID+i)
		}
		sb.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&sb, `<p:sldSz cx="%d" cy="%d"/>`, d.canvas.Width, d.canvas.Height)
	sb.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	sb.WriteString(`</p:presentation>`)
	return []byte(sb.String())
}

func (d *PPTX) presentationRels() []byte {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString(`<Relationship Id="rId1" Type="` + relNS + `/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	sb.WriteString(`<Relationship Id="rId2" Type="` + relNS + `/presProps" Target="presProps.xml"/>`)
	sb.WriteString(`<Relationship Id="rId3" Type="` + relNS + `/viewProps" Target="viewProps.xml"/>`)
	sb.WriteString(`<Relationship Id="rId4" Type="` + relNS + `/theme" Target="theme/theme1.xml"/>`)
	sb.WriteString(`<Relationship Id="rId5" Type="` + relNS + `/tableStyles" Target="tableStyles.xml"/>`)
	for i := range d.slides {
		fmt.Fprintf(&sb, `<Relationship Id="rId%d" Type="`+relNS+`/slide" Target="slides/slide%d.xml"/>`, firstSlideRID+i, i+1)
	}
	sb.WriteString(`</Relationships>`)
	return []byte(sb.String())
}

func (d *PPTX) slideXML(s pptxSlide) []byte {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:sld ` + pmlNamespaces + `><p:cSld><p:spTree>`)
	sb.WriteString(groupShapeProps)

	fmt.Fprintf(&sb, `<p:pic><p:nvPicPr><p:cNvPr id="2" name="Background"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill><a:blip r:embed="rId2"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`+
		`<p:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
		d.canvas.Width, d.canvas.Height)

	for i, r := range s.regions {
		writeTextBox(&sb, i+3, i+1, r)
	}

	sb.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return []byte(sb.String())
}

func writeTextBox(w *strings.Builder, shapeID, n int, r domain.TextRegion) {
	b := boxOf(r)
	st := resolveStyle(r)

	fmt.Fprintf(w, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, shapeID, n)
	fmt.Fprintf(w, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`,
		b.x, b.y, b.w, b.h)
	w.WriteString(`<p:txBody><a:bodyPr wrap="square" rtlCol="0"><a:noAutofit/></a:bodyPr><a:lstStyle/>`)

	rPr := runProperties(st)
	for _, line := range lines(r.Content) {
		w.WriteString(`<a:p><a:r>`)
		w.WriteString(rPr)
		w.WriteString(`<a:t>`)
		escape(w, line)
		w.WriteString(`</a:t></a:r></a:p>`)
	}
	w.WriteString(`</p:txBody></p:sp>`)
}

// DrawingML run sizes are hundredths of a point in [100, 400000].
func runProperties(st textStyle) string {
	var sb strings.Builder
	sb.WriteString(`<a:rPr lang="en-US"`)
	if st.size > 0 {
		sz := int(st.size*100 + 0.5)
		sz = max(100, min(400000, sz))
		fmt.Fprintf(&sb, ` sz="%d"`, sz)
	}
	if st.bold {
		sb.WriteString(` b="1"`)
	}
	sb.WriteString(` dirty="0"`)
	if st.hasColor {
		fmt.Fprintf(&sb, `><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:rPr>`, st.color.Hex())
	} else {
		sb.WriteString(`/>`)
	}
	return sb.String()
}

func escape(w io.Writer, s string) {
	_ = xml.EscapeText(w, []byte(s))
}
