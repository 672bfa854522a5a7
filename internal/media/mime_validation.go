package media

import (
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Complaint photos come from phone cameras and browsers; anything else, SVG
// included, is refused.
var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
	"image/heic",
	"image/heif",
	"image/avif",
}

// parseDeclaredType lowercases a Content-Type header value and drops its
// parameters.
func parseDeclaredType(value string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("mime type invalid: %w", err)
	}
	return strings.ToLower(mediaType), nil
}

// declaredImage rejects a declared type that is not an image. The bytes are
// checked separately by detectImage.
func declaredImage(value string) bool {
	mediaType, err := parseDeclaredType(value)
	return err == nil && strings.HasPrefix(mediaType, "image/")
}

// detectImage sniffs data and returns its MIME type and file extension.
func detectImage(data []byte) (string, string, error) {
	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), allowedImageTypes...) {
		return "", "", fmt.Errorf("content is %s, not an accepted image", detected.String())
	}
	mediaType, err := parseDeclaredType(detected.String())
	if err != nil {
		return "", "", err
	}
	return mediaType, detected.Extension(), nil
}
