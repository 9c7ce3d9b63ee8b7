package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
)

// MaxDocumentSize is the largest supporting document accepted, in bytes.
const MaxDocumentSize = 1 << 20

var allowedDocumentExtensions = map[string]bool{
	"pdf":  true,
	"jpg":  true,
	"jpeg": true,
	"png":  true,
}

// DocumentRef is what the document store hands back for a stored payload.
type DocumentRef struct {
	Reference string `json:"reference"`
	Size      int64  `json:"size"`
	Extension string `json:"extension"`
}

// DocumentUpload is a supporting document waiting to be stored.
type DocumentUpload struct {
	FileName string
	Content  []byte
}

// Extension returns the lowercase extension of the file name without the dot.
func (u DocumentUpload) Extension() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(u.FileName), "."))
}

// Validate applies the document rules: allowed extension, at most 1 MiB and an
// operation date that is not after today.
func (u DocumentUpload) Validate(operationDate, today time.Time) error {
	ext := u.Extension()
	if !allowedDocumentExtensions[ext] {
		return fmt.Errorf("%w: extension %q is not one of pdf, jpg, jpeg, png", apperrors.ErrDocumentRejected, ext)
	}
	if len(u.Content) > MaxDocumentSize {
		return fmt.Errorf("%w: %d bytes exceeds the 1 MiB limit", apperrors.ErrDocumentRejected, len(u.Content))
	}
	if DateOnly(operationDate).After(DateOnly(today)) {
		return fmt.Errorf("%w: operation date %s is in the future", apperrors.ErrDocumentRejected, operationDate.Format(DateLayout))
	}
	return nil
}

// DocumentName builds the stored file name: YYYYMMDD_LABEL_original.ext.
func DocumentName(operationDate time.Time, label, fileName string) string {
	cleanLabel := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, NormalizeLabel(label))
	return fmt.Sprintf("%s_%s_%s", operationDate.Format("20060102"), cleanLabel, filepath.Base(fileName))
}
