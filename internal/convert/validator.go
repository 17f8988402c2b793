package convert

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/paultsoi1014/document-parser/internal/domain"
)

// officeExtensions is the fixed allow-list of Office formats handled by the
// LibreOffice conversion path.
var officeExtensions = map[string]struct{}{
	".doc":  {},
	".docx": {},
	".ppt":  {},
	".pptx": {},
}

// ValidatePDFPath checks that path exists and carries a .pdf extension.
func ValidatePDFPath(path string) error {
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return domain.ValidationError("only PDF files are accepted", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return domain.ValidationError("PDF file not found", err)
	}
	return nil
}

// IsOfficeName reports whether name carries a supported Office extension.
func IsOfficeName(name string) bool {
	_, ok := officeExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ValidateOfficeName checks that name carries a supported Office extension.
func ValidateOfficeName(name string) error {
	if !IsOfficeName(name) {
		return domain.ValidationError("only DOC, DOCX, PPT and PPTX files are accepted", nil)
	}
	return nil
}
