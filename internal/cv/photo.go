package cv

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultPhotoMaxBytes bounds imported photos.
const DefaultPhotoMaxBytes = 5 * 1024 * 1024

var (
	ErrNotImage      = errors.New("photo is not an image")
	ErrPhotoTooLarge = errors.New("photo exceeds size limit")
	ErrEmptyPhoto    = errors.New("photo is empty")
)

// EncodePhoto reads an image and returns it as a self-contained data URI. The
// MIME type comes from the content, not from any client supplied header.
func EncodePhoto(r io.Reader, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultPhotoMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyPhoto
	}
	if int64(len(data)) > maxBytes {
		return "", ErrPhotoTooLarge
	}

	mime := mimetype.Detect(data)
	contentType := mime.String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%s: %w", contentType, ErrNotImage)
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
}
