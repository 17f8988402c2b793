// Package convert turns PDFs into markdown plus their embedded images, and
// Office documents into intermediate PDFs. Text extraction is delegated to
// go-fitz (MuPDF); embedded image extraction to poppler's pdfimages; Office
// conversion to headless LibreOffice.
package convert

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog"

	"github.com/paultsoi1014/document-parser/internal/domain"
)

// NamedImage is one embedded image discovered in a document, keyed by the
// placeholder name used in the markdown output.
type NamedImage struct {
	Name  string
	Image image.Image
}

// Result is the converter output: markdown text with one literal
// ![name](name) placeholder per embedded image, and the images themselves in
// discovery order (page order, then order within the page).
type Result struct {
	Markdown string
	Images   []NamedImage
}

// PDFConverter converts a PDF file into markdown and embedded images.
type PDFConverter struct {
	logger       zerolog.Logger
	pdfImagesBin string
}

// NewPDFConverter creates a PDF converter. An empty pdfImagesBin falls back
// to "pdfimages" on PATH.
func NewPDFConverter(logger zerolog.Logger, pdfImagesBin string) *PDFConverter {
	if pdfImagesBin == "" {
		pdfImagesBin = "pdfimages"
	}
	return &PDFConverter{
		logger:       logger,
		pdfImagesBin: pdfImagesBin,
	}
}

// Convert extracts per-page text and embedded images from the PDF at pdfPath.
// Temporary extraction artifacts are removed before returning, on success and
// failure alike.
func (c *PDFConverter) Convert(ctx context.Context, pdfPath string) (*Result, error) {
	if err := ValidatePDFPath(pdfPath); err != nil {
		return nil, err
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, domain.ConversionError("failed to open PDF", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, domain.ValidationError("PDF has no pages", nil)
	}

	pages := make([]string, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		text, err := doc.Text(pageNum)
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("failed to extract text from page %d", pageNum+1), err)
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	tempDir, err := os.MkdirTemp("", "document-parser-images-*")
	if err != nil {
		return nil, domain.IOError("failed to create temp directory", err)
	}
	defer os.RemoveAll(tempDir)

	extracted, err := c.extractImages(ctx, pdfPath, tempDir)
	if err != nil {
		return nil, err
	}

	images := make([]NamedImage, 0, len(extracted))
	namesByPage := make(map[int][]string)
	for _, path := range extracted {
		page, _, ok := parseImageFileName(path)
		if !ok {
			continue
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.IOError("failed to read extracted image", err)
		}

		img, err := domain.DecodeImage(raw)
		if err != nil {
			// pdfimages -all can emit formats outside the codec's reach
			// (ccitt, jbig2 sidecars). Those carry no caption value.
			c.logger.Debug().Str("file", filepath.Base(path)).Msg("Skipping undecodable embedded image")
			continue
		}

		name := filepath.Base(path)
		images = append(images, NamedImage{Name: name, Image: img})
		namesByPage[page] = append(namesByPage[page], name)
	}

	return &Result{
		Markdown: buildMarkdown(pages, namesByPage),
		Images:   images,
	}, nil
}

// extractImages runs pdfimages and returns the produced files sorted by page
// and per-page index.
func (c *PDFConverter) extractImages(ctx context.Context, pdfPath, tempDir string) ([]string, error) {
	root := filepath.Join(tempDir, "img")

	cmd := exec.CommandContext(ctx, c.pdfImagesBin, "-all", "-p", pdfPath, root)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, domain.ConversionError(fmt.Sprintf("pdfimages failed: %s", strings.TrimSpace(string(output))), err)
	}

	matches, err := filepath.Glob(root + "-*")
	if err != nil {
		return nil, domain.IOError("failed to list extracted images", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		pi, ii, _ := parseImageFileName(matches[i])
		pj, ij, _ := parseImageFileName(matches[j])
		if pi != pj {
			return pi < pj
		}
		return ii < ij
	})

	return matches, nil
}

// parseImageFileName extracts the page and image numbers from a pdfimages
// output name of the form root-PPP-NNN.ext.
func parseImageFileName(path string) (page, index int, ok bool) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.Split(base, "-")
	if len(parts) < 3 {
		return 0, 0, false
	}

	page, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return 0, 0, false
	}
	index, err = strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, 0, false
	}
	return page, index, true
}

// buildMarkdown joins per-page text, appending one ![name](name) placeholder
// after the owning page's text for each embedded image.
func buildMarkdown(pages []string, namesByPage map[int][]string) string {
	var sb strings.Builder
	for i, text := range pages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)

		for _, name := range namesByPage[i+1] {
			sb.WriteString(fmt.Sprintf("\n\n![%s](%s)", name, name))
		}
	}
	return sb.String()
}
