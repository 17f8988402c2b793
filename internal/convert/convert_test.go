package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paultsoi1014/document-parser/internal/domain"
)

func TestParseImageFileName(t *testing.T) {
	tests := []struct {
		path     string
		wantPage int
		wantIdx  int
		wantOK   bool
	}{
		{"/tmp/x/img-001-000.png", 1, 0, true},
		{"/tmp/x/img-001-001.jpg", 1, 1, true},
		{"/tmp/x/img-042-013.ppm", 42, 13, true},
		{"img-003-000.png", 3, 0, true},
		{"/tmp/x/readme.txt", 0, 0, false},
		{"/tmp/x/img-abc-000.png", 0, 0, false},
		{"/tmp/x/img-001-xyz.png", 0, 0, false},
		{"/tmp/x/img.png", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			page, idx, ok := parseImageFileName(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantPage, page)
				assert.Equal(t, tt.wantIdx, idx)
			}
		})
	}
}

func TestBuildMarkdownPlacesPlaceholdersAfterOwningPage(t *testing.T) {
	pages := []string{"page one text", "page two text", "page three text"}
	namesByPage := map[int][]string{
		1: {"img-001-000.png"},
		3: {"img-003-000.png", "img-003-001.png"},
	}

	got := buildMarkdown(pages, namesByPage)

	want := "page one text\n\n![img-001-000.png](img-001-000.png)\n\n" +
		"page two text\n\n" +
		"page three text\n\n![img-003-000.png](img-003-000.png)\n\n![img-003-001.png](img-003-001.png)"
	assert.Equal(t, want, got)
}

func TestBuildMarkdownNoImages(t *testing.T) {
	got := buildMarkdown([]string{"only text"}, nil)
	assert.Equal(t, "only text", got)
}

func TestValidatePDFPath(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "real.pdf")
	require.NoError(t, os.WriteFile(existing, []byte("%PDF-1.4"), 0o644))

	assert.NoError(t, ValidatePDFPath(existing))

	err := ValidatePDFPath(filepath.Join(dir, "missing.pdf"))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	err = ValidatePDFPath(filepath.Join(dir, "notes.txt"))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestIsOfficeName(t *testing.T) {
	for _, name := range []string{"a.doc", "b.docx", "c.ppt", "d.pptx", "e.DOCX", "dir/f.PpTx"} {
		assert.True(t, IsOfficeName(name), name)
	}
	for _, name := range []string{"a.pdf", "b.txt", "c.odt", "d", "e.docx.bak"} {
		assert.False(t, IsOfficeName(name), name)
	}
}

func TestValidateOfficeName(t *testing.T) {
	assert.NoError(t, ValidateOfficeName("deck.pptx"))

	err := ValidateOfficeName("notes.odt")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestPDFConverterRejectsBadPath(t *testing.T) {
	conv := NewPDFConverter(zerolog.Nop(), "")

	_, err := conv.Convert(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestOfficeConverterRejectsBadExtension(t *testing.T) {
	conv := NewOfficeConverter(zerolog.Nop(), "")

	_, err := conv.ConvertToPDF(context.Background(), "notes.txt", t.TempDir())
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestOfficeConverterMissingBinaryIsConversionError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "deck.pptx")
	require.NoError(t, os.WriteFile(input, []byte("fake"), 0o644))

	conv := NewOfficeConverter(zerolog.Nop(), filepath.Join(dir, "no-such-binary"))

	_, err := conv.ConvertToPDF(context.Background(), input, dir)
	require.Error(t, err)
	assert.Equal(t, domain.ErrTypeConversion, domain.TypeOf(err))
}
