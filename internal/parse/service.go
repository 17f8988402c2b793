// Package parse orchestrates document parsing: format dispatch, temp-file
// lifecycle, caption substitution and response envelope assembly.
package parse

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/paultsoi1014/document-parser/internal/convert"
	"github.com/paultsoi1014/document-parser/internal/domain"
	"github.com/paultsoi1014/document-parser/internal/vision"
)

// PDFConverter converts a PDF file into markdown plus embedded images.
type PDFConverter interface {
	Convert(ctx context.Context, pdfPath string) (*convert.Result, error)
}

// OfficeConverter converts an Office document into an intermediate PDF.
type OfficeConverter interface {
	ConvertToPDF(ctx context.Context, inputPath, outDir string) (string, error)
}

// Captioner turns an image and a task prompt into a prompt-keyed caption.
type Captioner interface {
	Describe(ctx context.Context, img image.Image, taskPrompt string) (vision.CaptionResult, error)
}

// Service is the document parsing orchestrator. One instance is shared
// across all requests; per-request state lives on the stack.
type Service struct {
	logger     zerolog.Logger
	converter  PDFConverter
	office     OfficeConverter
	captioner  Captioner
	taskPrompt string
}

// NewService creates the orchestrator. An empty taskPrompt falls back to the
// captioning default.
func NewService(logger zerolog.Logger, converter PDFConverter, office OfficeConverter, captioner Captioner, taskPrompt string) *Service {
	if taskPrompt == "" {
		taskPrompt = vision.DefaultTaskPrompt
	}
	return &Service{
		logger:     logger,
		converter:  converter,
		office:     office,
		captioner:  captioner,
		taskPrompt: taskPrompt,
	}
}

// PDFInput is either a filesystem path ending in .pdf or raw PDF bytes.
type PDFInput struct {
	Path string
	Data []byte
}

// DocumentInput is an Office document: a path, or raw bytes plus the original
// filename (the extension drives LibreOffice format detection).
type DocumentInput struct {
	Path string
	Name string
	Data []byte
}

// ImageInput is exactly one of: raw image bytes, a base64-encoded string, or
// an already-decoded image.
type ImageInput struct {
	Data   []byte
	Base64 string
	Image  image.Image
}

// ParsePDF converts a PDF into text plus captioned, base64-packaged images.
// When raw bytes are supplied they are written to a temporary file that is
// removed before returning, on success and failure alike.
func (s *Service) ParsePDF(ctx context.Context, in PDFInput) (*domain.DocumentResponse, error) {
	inputPath := in.Path

	if inputPath == "" {
		if len(in.Data) == 0 {
			return nil, domain.ValidationError("PDF input requires a path or raw bytes", nil)
		}

		tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("document-parser-%s.pdf", uuid.NewString()))
		if err := os.WriteFile(tempPath, in.Data, 0o600); err != nil {
			return nil, domain.IOError("failed to write temporary PDF", err)
		}
		defer os.Remove(tempPath)

		inputPath = tempPath
	}

	result, err := s.converter.Convert(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	text, err := s.substituteCaptions(ctx, result.Markdown, result.Images)
	if err != nil {
		return nil, err
	}

	resp := domain.NewDocumentResponse(text)
	for _, img := range result.Images {
		if err := resp.AddImage(img.Name, img.Image, nil); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Int("images", len(resp.Images)).Int("text_len", len(resp.Text)).Msg("Parsed PDF document")
	return resp, nil
}

// ParseDocPPT converts a DOC/DOCX/PPT/PPTX document to an intermediate PDF
// via LibreOffice and then proceeds as the PDF path. Conversion failure is
// fatal and propagated.
func (s *Service) ParseDocPPT(ctx context.Context, in DocumentInput) (*domain.DocumentResponse, error) {
	inputPath := in.Path

	workDir, err := os.MkdirTemp("", "document-parser-office-*")
	if err != nil {
		return nil, domain.IOError("failed to create temp directory", err)
	}
	defer os.RemoveAll(workDir)

	if inputPath == "" {
		if len(in.Data) == 0 {
			return nil, domain.ValidationError("document input requires a path or raw bytes", nil)
		}
		if err := convert.ValidateOfficeName(in.Name); err != nil {
			return nil, err
		}

		// Keep the caller's extension so LibreOffice detects the format.
		inputPath = filepath.Join(workDir, fmt.Sprintf("upload-%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(in.Name))))
		if err := os.WriteFile(inputPath, in.Data, 0o600); err != nil {
			return nil, domain.IOError("failed to write temporary document", err)
		}
	}

	pdfPath, err := s.office.ConvertToPDF(ctx, inputPath, workDir)
	if err != nil {
		return nil, err
	}

	return s.ParsePDF(ctx, PDFInput{Path: pdfPath})
}

// ParseImage captions a standalone image with the caller-supplied or default
// task prompt and wraps the caption text into a response envelope. A non-empty
// imageName is recorded in the envelope metadata.
func (s *Service) ParseImage(ctx context.Context, in ImageInput, imageName, taskPrompt string) (*domain.DocumentResponse, error) {
	img, err := decodeImageInput(in)
	if err != nil {
		return nil, err
	}

	if taskPrompt == "" {
		taskPrompt = s.taskPrompt
	}

	result, err := s.captioner.Describe(ctx, img, taskPrompt)
	if err != nil {
		return nil, err
	}

	resp := domain.NewDocumentResponse(result[taskPrompt])
	if imageName != "" {
		resp.Metadata["image_name"] = imageName
	}

	return resp, nil
}

// substituteCaptions captions each image with the default prompt and replaces
// every literal ![name](name) occurrence in the markdown with the caption.
// Identical names all receive the same replacement. The first captioning
// failure aborts the whole document.
func (s *Service) substituteCaptions(ctx context.Context, markdown string, images []convert.NamedImage) (string, error) {
	for _, img := range images {
		result, err := s.captioner.Describe(ctx, img.Image, s.taskPrompt)
		if err != nil {
			return "", err
		}

		placeholder := fmt.Sprintf("![%s](%s)", img.Name, img.Name)
		markdown = strings.ReplaceAll(markdown, placeholder, result[s.taskPrompt])
	}
	return markdown, nil
}

// decodeImageInput normalizes the three accepted image input forms into an
// in-memory image.
func decodeImageInput(in ImageInput) (image.Image, error) {
	switch {
	case in.Image != nil:
		return in.Image, nil
	case len(in.Data) > 0:
		return domain.DecodeImage(in.Data)
	case in.Base64 != "":
		return domain.DecodeImageBase64(in.Base64)
	default:
		return nil, domain.ValidationError("invalid image input: expected raw bytes, base64 data or a decoded image", nil)
	}
}
