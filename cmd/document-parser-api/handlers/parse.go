// Package handlers provides HTTP handlers for the document parser API.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/paultsoi1014/document-parser/internal/convert"
	"github.com/paultsoi1014/document-parser/internal/domain"
	"github.com/paultsoi1014/document-parser/internal/parse"
)

// maxUploadSize bounds the in-memory portion of multipart parsing.
const maxUploadSize = 64 << 20

// DocumentParser is the orchestrator surface the handlers depend on.
type DocumentParser interface {
	ParsePDF(ctx context.Context, in parse.PDFInput) (*domain.DocumentResponse, error)
	ParseDocPPT(ctx context.Context, in parse.DocumentInput) (*domain.DocumentResponse, error)
	ParseImage(ctx context.Context, in parse.ImageInput, imageName, taskPrompt string) (*domain.DocumentResponse, error)
}

// ParseHandler handles document parsing requests.
type ParseHandler struct {
	logger zerolog.Logger
	parser DocumentParser
}

// NewParseHandler creates a new parse handler.
func NewParseHandler(logger zerolog.Logger, parser DocumentParser) *ParseHandler {
	return &ParseHandler{
		logger: logger,
		parser: parser,
	}
}

// ParsePDF handles POST /parse/pdf.
func (h *ParseHandler) ParsePDF(w http.ResponseWriter, r *http.Request) {
	data, filename, _, ok := h.readUpload(w, r, "file")
	if !ok {
		return
	}

	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		h.writeError(w, http.StatusBadRequest, "Only PDF files are accepted.", "")
		return
	}

	requestID := uuid.New()
	h.logger.Info().
		Str("request_id", requestID.String()).
		Str("filename", filename).
		Int("size", len(data)).
		Msg("Parsing PDF upload")

	resp, err := h.parser.ParsePDF(r.Context(), parse.PDFInput{Data: data})
	if err != nil {
		h.writeParseError(w, requestID, "pdf parse failed", err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// ParseImage handles POST /parse/image.
func (h *ParseHandler) ParseImage(w http.ResponseWriter, r *http.Request) {
	data, filename, contentType, ok := h.readUpload(w, r, "image")
	if !ok {
		return
	}

	if !strings.HasPrefix(contentType, "image/") {
		h.writeError(w, http.StatusBadRequest, "Only image files are accepted.", "")
		return
	}

	taskPrompt := r.FormValue("task_prompt")

	requestID := uuid.New()
	h.logger.Info().
		Str("request_id", requestID.String()).
		Str("filename", filename).
		Str("task_prompt", taskPrompt).
		Int("size", len(data)).
		Msg("Parsing image upload")

	resp, err := h.parser.ParseImage(r.Context(), parse.ImageInput{Data: data}, filename, taskPrompt)
	if err != nil {
		h.writeParseError(w, requestID, "image parse failed", err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// ParseDocPPT handles POST /parse/doc_ppt.
func (h *ParseHandler) ParseDocPPT(w http.ResponseWriter, r *http.Request) {
	data, filename, _, ok := h.readUpload(w, r, "file")
	if !ok {
		return
	}

	if !convert.IsOfficeName(filename) {
		h.writeError(w, http.StatusBadRequest, "Only DOC, DOCX, PPT, and PPTX files are accepted.", "")
		return
	}

	requestID := uuid.New()
	h.logger.Info().
		Str("request_id", requestID.String()).
		Str("filename", filename).
		Int("size", len(data)).
		Msg("Parsing Office upload")

	resp, err := h.parser.ParseDocPPT(r.Context(), parse.DocumentInput{Name: filename, Data: data})
	if err != nil {
		h.writeParseError(w, requestID, "document parse failed", err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// readUpload parses the multipart form and reads the named file field in
// full. On failure it writes the client error itself and returns ok=false.
func (h *ParseHandler) readUpload(w http.ResponseWriter, r *http.Request, field string) (data []byte, filename, contentType string, ok bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return nil, "", "", false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, field+" field is required", err.Error())
		return nil, "", "", false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to read upload", err.Error())
		return nil, "", "", false
	}

	return data, header.Filename, header.Header.Get("Content-Type"), true
}

func (h *ParseHandler) writeParseError(w http.ResponseWriter, requestID uuid.UUID, message string, err error) {
	status := http.StatusInternalServerError
	if domain.IsValidation(err) {
		status = http.StatusBadRequest
	}

	h.logger.Error().
		Str("request_id", requestID.String()).
		Err(err).
		Msg(message)

	h.writeError(w, status, message, err.Error())
}

func (h *ParseHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *ParseHandler) writeError(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]string{
		"error":   message,
		"message": message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	json.NewEncoder(w).Encode(resp)
}
