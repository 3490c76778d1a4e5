// Package document checks identification document uploads before they are stored.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jwalitptl/intake-api/internal/model"
)

const DefaultMaxSize = 10 << 20

var (
	ErrEmptyDocument    = errors.New("identification document is empty")
	ErrDocumentTooLarge = errors.New("identification document is too large")
	ErrUnsupportedType  = errors.New("identification document type is not supported")
)

// AllowedTypes are the accepted MIME types: SVG, PNG, JPG, GIF and PDF.
var AllowedTypes = []string{
	"image/svg+xml",
	"image/png",
	"image/jpeg",
	"image/gif",
	"application/pdf",
}

type Inspector struct {
	maxSize int64
}

func NewInspector(maxSize int64) *Inspector {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Inspector{maxSize: maxSize}
}

func (i *Inspector) MaxSize() int64 {
	return i.maxSize
}

// Inspect sniffs the upload's content type from its bytes; the client supplied
// name and type are not trusted.
func (i *Inspector) Inspect(upload *model.Upload) (*model.IdentificationDocument, error) {
	if upload == nil || len(upload.Data) == 0 {
		return nil, ErrEmptyDocument
	}
	if int64(len(upload.Data)) > i.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrDocumentTooLarge, len(upload.Data), i.maxSize)
	}

	mt := mimetype.Detect(upload.Data)
	contentType := ""
	for _, allowed := range AllowedTypes {
		if mt.Is(allowed) {
			contentType = allowed
			break
		}
	}
	if contentType == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	return &model.IdentificationDocument{
		FileName:    cleanName(upload.FileName, mt.Extension()),
		ContentType: contentType,
		Size:        int64(len(upload.Data)),
		Data:        upload.Data,
	}, nil
}

func cleanName(name, ext string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == "" {
		return "identification" + ext
	}
	return name
}
