package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	pdflib "github.com/ledongthuc/pdf"

	"repdf/internal/domain"
	"repdf/internal/port"
)

// DefaultDPI is the rasterization resolution when none is configured.
const DefaultDPI = 150

// PdftoppmRenderer rasterizes PDFs with the poppler pdftoppm binary. The page
// count read from the PDF itself is checked against the number of images
// produced.
type PdftoppmRenderer struct {
	path      string
	timeout   time.Duration
	maxPixels int
}

// NewPdftoppmRenderer creates a renderer. An empty path looks up "pdftoppm"
// on PATH; a non-positive maxPixels uses DefaultMaxPixels.
func NewPdftoppmRenderer(path string, timeout time.Duration, maxPixels int) *PdftoppmRenderer {
	if path == "" {
		path = "pdftoppm"
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &PdftoppmRenderer{path: path, timeout: timeout, maxPixels: maxPixels}
}

// Check reports whether the pdftoppm binary can be found.
func (r *PdftoppmRenderer) Check(_ context.Context) error {
	if _, err := exec.LookPath(r.path); err != nil {
		return fmt.Errorf("pdftoppm unavailable: %w", err)
	}
	return nil
}

func (r *PdftoppmRenderer) Render(ctx context.Context, input port.RenderInput) ([]domain.PageImage, error) {
	if len(input.Data) == 0 {
		return nil, domain.ErrEmptyFile
	}
	dpi := input.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	dir, err := os.MkdirTemp("", "repdf-render-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "source.pdf")
	if err := os.WriteFile(src, input.Data, 0o600); err != nil {
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	want, err := CountPages(input.Data)
	if err != nil {
		return nil, err
	}
	if want == 0 {
		return nil, domain.ErrNoPages
	}

	first, last := 1, want
	var selected map[int]bool
	if len(input.Pages) > 0 {
		selected = make(map[int]bool, len(input.Pages))
		first, last = want+1, 0
		for _, n := range input.Pages {
			if n < 1 || n > want {
				continue
			}
			selected[n] = true
			first, last = min(first, n), max(last, n)
		}
		if first > last {
			return nil, fmt.Errorf("%w: document has %d pages", domain.ErrNoPagesSelected, want)
		}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, r.path,
		"-r", strconv.Itoa(dpi),
		"-f", strconv.Itoa(first),
		"-l", strconv.Itoa(last),
		"-png", src, prefix)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("pdftoppm: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: pdftoppm: %v: %s", domain.ErrUnreadableSource, err, strings.TrimSpace(stderr.String()))
	}

	files, err := pageFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.ErrNoPages
	}
	if expected := last - first + 1; len(files) != expected {
		return nil, fmt.Errorf("%w: expected pages %d-%d (%d), rendered %d",
			domain.ErrPageCountMismatch, first, last, expected, len(files))
	}

	pages := make([]domain.PageImage, 0, len(files))
	for _, f := range files {
		if selected != nil && !selected[f.n] {
			continue
		}
		img, err := decodeFile(f.path, r.maxPixels)
		if err != nil {
			return nil, fmt.Errorf("decoding page %d: %w", f.n, err)
		}
		pages = append(pages, domain.PageImage{Index: f.n, Image: img, DPI: dpi})
	}
	log.Printf("render.PdftoppmRenderer: %d of %d pages at %d dpi in %s",
		len(pages), want, dpi, time.Since(start).Round(time.Millisecond))
	return pages, nil
}

// CountPages reads the page count from the PDF structure.
func CountPages(data []byte) (n int, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			n, err = 0, fmt.Errorf("%w: %v", domain.ErrUnreadableSource, rec)
		}
	}()
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrUnreadableSource, err)
	}
	return reader.NumPage(), nil
}

type pageFile struct {
	n    int
	path string
}

// pageFiles lists pdftoppm outputs ordered by page number. Output names are
// page-N.png with N zero-padded to the width of the last page number.
func pageFiles(dir string) ([]pageFile, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	out := make([]pageFile, 0, len(matches))
	for _, m := range matches {
		base := strings.TrimSuffix(filepath.Base(m), ".png")
		n, err := strconv.Atoi(base[strings.LastIndex(base, "-")+1:])
		if err != nil {
			continue
		}
		out = append(out, pageFile{n: n, path: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].n < out[j].n })
	return out, nil
}

func decodeFile(path string, maxPixels int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeBounded(f, maxPixels)
}
