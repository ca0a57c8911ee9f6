// Package upload validates resume files before they are sent to the backend.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"careerhub/internal/models"

	"github.com/gabriel-vasile/mimetype"
)

// MaxSize is the largest accepted resume, 5 MB.
const MaxSize = 5 * 1024 * 1024

const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var allowed = []string{MIMEPDF, MIMEDOCX}

// File is a resume that passed validation.
type File struct {
	Name    string
	MIME    string
	Content []byte
}

// Size returns the file length in bytes.
func (f File) Size() int {
	return len(f.Content)
}

var (
	errEmpty    = models.NewValidationError("The selected file is empty")
	errTooLarge = models.NewValidationError(fmt.Sprintf("File exceeds the %d MB limit", MaxSize/(1024*1024)))
	errType     = models.NewValidationError("Only PDF or DOCX files are accepted")
)

// Validate checks size and sniffed content type. The declared name and extension play no part
// in the decision.
func Validate(name string, content []byte) (File, error) {
	if len(content) == 0 {
		return File{}, errEmpty
	}
	if len(content) > MaxSize {
		return File{}, errTooLarge
	}
	detected := mimetype.Detect(content)
	for _, m := range allowed {
		if detected.Is(m) {
			return File{Name: cleanName(name, m), MIME: m, Content: content}, nil
		}
	}
	return File{}, errType
}

// FromMultipart reads and validates a form file. Oversized files are rejected from the header
// before their content is read.
func FromMultipart(fh *multipart.FileHeader) (File, error) {
	if fh == nil {
		return File{}, models.NewValidationError("Choose a file to upload")
	}
	if fh.Size > MaxSize {
		return File{}, errTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return File{}, models.NewInternalError(err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, MaxSize+1))
	if err != nil {
		return File{}, models.NewInternalError(err)
	}
	return Validate(fh.Filename, content)
}

func cleanName(name, mime string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == "/" || base == "" {
		base = "resume"
	}
	want := ".pdf"
	if mime == MIMEDOCX {
		want = ".docx"
	}
	if !strings.EqualFold(filepath.Ext(base), want) {
		base = strings.TrimSuffix(base, filepath.Ext(base)) + want
	}
	return base
}
