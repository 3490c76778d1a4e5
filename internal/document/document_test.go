package document

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/intake-api/internal/model"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	pdfHeader = []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n")
	gifHeader = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
)

func TestInspectAcceptsKnownTypes(t *testing.T) {
	i := NewInspector(0)

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", pngHeader, "image/png"},
		{"pdf", pdfHeader, "application/pdf"},
		{"gif", gifHeader, "image/gif"},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`), "image/svg+xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := i.Inspect(&model.Upload{FileName: "id." + tt.name, Data: tt.data})
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.ContentType)
			assert.Equal(t, int64(len(tt.data)), doc.Size)
		})
	}
}

func TestInspectIgnoresClaimedExtension(t *testing.T) {
	i := NewInspector(0)

	_, err := i.Inspect(&model.Upload{FileName: "passport.png", Data: []byte("MZ\x90\x00 not an image")})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestInspectRejectsEmptyAndOversized(t *testing.T) {
	i := NewInspector(64)

	_, err := i.Inspect(nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = i.Inspect(&model.Upload{FileName: "a.png"})
	assert.ErrorIs(t, err, ErrEmptyDocument)

	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)
	_, err = i.Inspect(&model.Upload{FileName: "a.png", Data: big})
	assert.ErrorIs(t, err, ErrDocumentTooLarge)
}

func TestInspectStripsDirectories(t *testing.T) {
	i := NewInspector(0)

	doc, err := i.Inspect(&model.Upload{FileName: `..\..\etc/passport.pdf`, Data: pdfHeader})
	require.NoError(t, err)
	assert.Equal(t, "passport.pdf", doc.FileName)

	doc, err = i.Inspect(&model.Upload{Data: pdfHeader})
	require.NoError(t, err)
	assert.Equal(t, "identification.pdf", doc.FileName)
}
