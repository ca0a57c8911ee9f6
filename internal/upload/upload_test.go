package upload

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"careerhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func TestValidate(t *testing.T) {
	pngHeader := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	tests := []struct {
		name     string
		fileName string
		content  []byte
		wantErr  string
		wantName string
	}{
		{name: "pdf accepted", fileName: "cv.pdf", content: samplePDF, wantName: "cv.pdf"},
		{name: "pdf with wrong extension renamed", fileName: "cv.txt", content: samplePDF, wantName: "cv.pdf"},
		{name: "empty rejected", fileName: "cv.pdf", content: nil, wantErr: "The selected file is empty"},
		{name: "image rejected", fileName: "cv.pdf", content: pngHeader, wantErr: "Only PDF or DOCX files are accepted"},
		{name: "text named docx rejected", fileName: "cv.docx", content: []byte("plain text resume"), wantErr: "Only PDF or DOCX files are accepted"},
		{
			name:     "over limit rejected",
			fileName: "cv.pdf",
			content:  append(append([]byte{}, samplePDF...), bytes.Repeat([]byte{' '}, MaxSize)...),
			wantErr:  "File exceeds the 5 MB limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Validate(tt.fileName, tt.content)
			if tt.wantErr != "" {
				require.Error(t, err)
				var appErr *models.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
				assert.Equal(t, tt.wantErr, appErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, MIMEPDF, f.MIME)
			assert.Equal(t, tt.wantName, f.Name)
			assert.Equal(t, len(tt.content), f.Size())
		})
	}
}

func TestValidate_ExactLimitAccepted(t *testing.T) {
	content := append(append([]byte{}, samplePDF...), bytes.Repeat([]byte{' '}, MaxSize-len(samplePDF))...)
	require.Len(t, content, MaxSize)

	_, err := Validate("cv.pdf", content)
	assert.NoError(t, err)
}

func TestFromMultipart(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "resume.pdf")
	require.NoError(t, err)
	_, err = part.Write(samplePDF)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/resume", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(MaxSize))
	_, fh, err := req.FormFile("file")
	require.NoError(t, err)

	f, err := FromMultipart(fh)
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", f.Name)
	assert.Equal(t, samplePDF, f.Content)

	_, err = FromMultipart(nil)
	assert.Error(t, err)

	fh.Size = MaxSize + 1
	_, err = FromMultipart(fh)
	assert.ErrorIs(t, err, errTooLarge)
}
