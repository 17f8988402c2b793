package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/paultsoi1014/document-parser/internal/domain"
)

// OfficeConverter converts DOC/DOCX/PPT/PPTX files into PDFs by shelling out
// to headless LibreOffice. The binary's absence or a non-zero exit is fatal
// to the conversion.
type OfficeConverter struct {
	logger zerolog.Logger
	bin    string
}

// NewOfficeConverter creates an Office converter. An empty bin falls back to
// "libreoffice" on PATH.
func NewOfficeConverter(logger zerolog.Logger, bin string) *OfficeConverter {
	if bin == "" {
		bin = "libreoffice"
	}
	return &OfficeConverter{
		logger: logger,
		bin:    bin,
	}
}

// ConvertToPDF converts the Office document at inputPath into a PDF inside
// outDir and returns the produced file's path.
func (c *OfficeConverter) ConvertToPDF(ctx context.Context, inputPath, outDir string) (string, error) {
	if err := ValidateOfficeName(inputPath); err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, c.bin,
		"--headless",
		"--convert-to", "pdf",
		"--outdir", outDir,
		inputPath,
	)

	c.logger.Debug().Str("input", inputPath).Str("outdir", outDir).Msg("Converting Office document to PDF")

	if output, err := cmd.CombinedOutput(); err != nil {
		return "", domain.ConversionError(fmt.Sprintf("libreoffice conversion failed: %s", strings.TrimSpace(string(output))), err)
	}

	base := filepath.Base(inputPath)
	pdfPath := filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".pdf")

	if _, err := os.Stat(pdfPath); err != nil {
		return "", domain.ConversionError("libreoffice did not produce the expected PDF", err)
	}

	return pdfPath, nil
}
